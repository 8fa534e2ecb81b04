package middleware

import (
	"net/http"

	"bookstore/internal/domain/model"
	"bookstore/internal/usecase"
	"bookstore/internal/web"

	"github.com/labstack/echo/v4"
)

// グループ単位の権限チェック。
// 未ログインは /login、権限不足は / へ通知付きで戻す
func RequireCapability(capability model.Capability) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := usecase.Authorize(IdentityFrom(c), capability)
			if err == nil {
				return next(c)
			}

			ae, _ := usecase.AsAppError(err)
			if ae.Kind == usecase.KindUnauthorized {
				web.AddFlash(c, web.LevelWarning, ae.Notice)
				return c.Redirect(http.StatusSeeOther, "/login")
			}
			web.AddFlash(c, web.LevelDanger, ae.Notice)
			return c.Redirect(http.StatusSeeOther, "/")
		}
	}
}
