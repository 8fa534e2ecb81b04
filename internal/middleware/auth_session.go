package middleware

import (
	"net/http"
	"time"

	"bookstore/internal/domain/model"

	"github.com/labstack/echo/v4"
)

const (
	SessionCookie  = "session"
	CtxIdentityKey = "identity" // model.Identity
)

// cookieの中身をIdentityに戻す
type SessionParser interface {
	Parse(raw string) (model.Identity, error)
}

// session cookieを読んでcontextにIdentityを入れる。
// 無い・壊れている場合は未ログイン扱いで次へ進む（ページごとの判定はusecase側）
func AuthSession(parser SessionParser) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(CtxIdentityKey, model.Anonymous())

			cookie, err := c.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			id, err := parser.Parse(cookie.Value)
			if err != nil {
				//期限切れ・改ざん
				ClearSessionCookie(c)
				return next(c)
			}

			c.Set(CtxIdentityKey, id)
			return next(c)
		}
	}
}

// contextからIdentityを取り出す。無ければ未ログイン
func IdentityFrom(c echo.Context) model.Identity {
	id, ok := c.Get(CtxIdentityKey).(model.Identity)
	if !ok {
		return model.Anonymous()
	}
	return id
}

func SetSessionCookie(c echo.Context, token string, expiresAt time.Time, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  expiresAt,
	})
}

func ClearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}
