package middleware

import (
	"errors"
	"log/slog"

	"bookstore/internal/domain/model"
	"bookstore/internal/repository"

	"github.com/labstack/echo/v4"
)

// tokenのtvとDBのtoken_versionが一致するか確認。
// パスワード変更後の古いセッションはここで未ログインに落とす
func TokenVersionGuard(userRepo repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := IdentityFrom(c)
			if !id.IsAuthenticated() {
				return next(c)
			}

			//DBから最新のuserを取得する
			user, err := userRepo.FindByID(c.Request().Context(), id.UserID)
			if err != nil {
				if !errors.Is(err, repository.ErrNotFound) {
					slog.WarnContext(c.Request().Context(), "token version lookup failed", "user_id", id.UserID, "err", err)
				}
				drop(c)
				return next(c)
			}

			if user.TokenVersion != id.TokenVersion || user.Role != id.Role {
				drop(c)
				return next(c)
			}

			return next(c)
		}
	}
}

func drop(c echo.Context) {
	ClearSessionCookie(c)
	c.Set(CtxIdentityKey, model.Anonymous())
}
