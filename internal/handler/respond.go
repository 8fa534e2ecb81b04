package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"bookstore/internal/middleware"
	"bookstore/internal/usecase"
	"bookstore/internal/web"

	"github.com/labstack/echo/v4"
)

const noticeUnexpected = "Something went wrong. Please try again."

// layoutに渡す共通部分を詰めて描画
func render(c echo.Context, name, title string, data any) error {
	return c.Render(http.StatusOK, name, web.Page{
		Title:    title,
		Identity: middleware.IdentityFrom(c),
		Flashes:  web.PopFlashes(c),
		CSRF:     csrfToken(c),
		Data:     data,
	})
}

// echoのCSRFミドルウェアが入れたtoken（無効時は空）
func csrfToken(c echo.Context) string {
	s, _ := c.Get("csrf").(string)
	return s
}

func redirect(c echo.Context, to string) error {
	return c.Redirect(http.StatusSeeOther, to)
}

func success(c echo.Context, to, notice string) error {
	web.AddFlash(c, web.LevelSuccess, notice)
	return redirect(c, to)
}

// usecaseのエラーを通知+リダイレクトにする。
// 未ログインは /login、権限不足は / 、それ以外は fallback へ
func fail(c echo.Context, err error, fallback string) error {
	ae, ok := usecase.AsAppError(err)
	if !ok {
		slog.ErrorContext(c.Request().Context(), "unexpected error", "path", c.Path(), "err", err)
		web.AddFlash(c, web.LevelDanger, noticeUnexpected)
		return redirect(c, fallback)
	}

	switch ae.Kind {
	case usecase.KindUnauthorized:
		web.AddFlash(c, web.LevelWarning, ae.Notice)
		return redirect(c, "/login")
	case usecase.KindForbidden:
		web.AddFlash(c, web.LevelDanger, ae.Notice)
		return redirect(c, "/")
	case usecase.KindBusinessRule, usecase.KindNotFound:
		web.AddFlash(c, web.LevelWarning, ae.Notice)
	default:
		web.AddFlash(c, web.LevelDanger, ae.Notice)
	}
	return redirect(c, fallback)
}

// フォームの整数。空や不正値はdef
func formInt64(c echo.Context, name string, def int64) int64 {
	v := strings.TrimSpace(c.FormValue(name))
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}

// 複数選択のフォーム値
func formValues(c echo.Context, name string) []string {
	params, err := c.FormParams()
	if err != nil {
		return nil
	}
	return params[name]
}
