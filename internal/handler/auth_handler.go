package handler

import (
	"strings"

	"bookstore/internal/middleware"
	auth "bookstore/internal/usecase/auth_usecase"
	"bookstore/internal/web"

	"github.com/labstack/echo/v4"
)

// ログイン・会員登録・ログアウト・プロフィール
type AuthHandler struct {
	registerUC   *auth.RegisterUserUsecase // 会員登録usecase
	loginUC      *auth.LoginUsecase        // ログインusecase
	profileUC    *auth.ProfileUsecase
	cookieSecure bool
}

// DIコンストラクタ
func NewAuthHandler(
	registerUC *auth.RegisterUserUsecase,
	loginUC *auth.LoginUsecase,
	profileUC *auth.ProfileUsecase,
	cookieSecure bool,
) *AuthHandler {
	return &AuthHandler{
		registerUC:   registerUC,
		loginUC:      loginUC,
		profileUC:    profileUC,
		cookieSecure: cookieSecure,
	}
}

func (h *AuthHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/login", h.loginPage)
	e.POST("/login", h.login)
	e.GET("/signup", h.signupPage)
	e.POST("/signup", h.signup)
	e.GET("/logout", h.logout)
	e.GET("/profile", h.profile)
	e.POST("/update_profile", h.updateProfile)
}

func (h *AuthHandler) loginPage(c echo.Context) error {
	return render(c, "login", "Login", nil)
}

func (h *AuthHandler) login(c echo.Context) error {
	out, err := h.loginUC.Execute(c.Request().Context(), auth.LoginInput{
		Username: c.FormValue("username"),
		Password: c.FormValue("password"),
	})
	if err != nil {
		return fail(c, err, "/login")
	}

	middleware.SetSessionCookie(c, out.Token, out.ExpiresAt, h.cookieSecure)
	return redirect(c, auth.LandingPath(out.User.Role))
}

func (h *AuthHandler) signupPage(c echo.Context) error {
	return render(c, "signup", "Sign up", nil)
}

func (h *AuthHandler) signup(c echo.Context) error {
	_, err := h.registerUC.Execute(c.Request().Context(), auth.RegisterUserInput{
		Username:  c.FormValue("username"),
		Password:  c.FormValue("password"),
		FirstName: c.FormValue("fname"),
		LastName:  c.FormValue("lname"),
		Email:     c.FormValue("email"),
		Phone:     c.FormValue("phone"),
		Address:   c.FormValue("address"),
	})
	if err != nil {
		return fail(c, err, "/signup")
	}
	return success(c, "/login", "Account created successfully! Please log in.")
}

func (h *AuthHandler) logout(c echo.Context) error {
	middleware.ClearSessionCookie(c)
	web.AddFlash(c, web.LevelInfo, "You have been logged out successfully.")
	return redirect(c, "/")
}

func (h *AuthHandler) profile(c echo.Context) error {
	user, err := h.profileUC.Get(c.Request().Context(), middleware.IdentityFrom(c))
	if err != nil {
		return fail(c, err, "/")
	}
	return render(c, "profile", "Profile", user)
}

func (h *AuthHandler) updateProfile(c echo.Context) error {
	out, err := h.profileUC.Update(c.Request().Context(), middleware.IdentityFrom(c), auth.UpdateProfileInput{
		FirstName:   c.FormValue("fname"),
		LastName:    c.FormValue("lname"),
		Email:       c.FormValue("email"),
		Phone:       c.FormValue("phone"),
		Address:     c.FormValue("address"),
		NewPassword: strings.TrimSpace(c.FormValue("password")),
	})
	if err != nil {
		return fail(c, err, "/profile")
	}

	//パスワード変更時はtoken_versionが上がるので新しいセッションに差し替える
	if out.PasswordChanged {
		middleware.SetSessionCookie(c, out.Token, out.ExpiresAt, h.cookieSecure)
	}
	return success(c, "/profile", "Profile updated successfully!")
}
