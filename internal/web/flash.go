package web

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
)

const flashCookie = "flash"

// 画面上部に出す通知（success / info / warning / danger）
type Flash struct {
	Level   string `json:"l"`
	Message string `json:"m"`
}

const (
	LevelSuccess = "success"
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelDanger  = "danger"
)

// 次のリクエストで1回だけ表示する
func AddFlash(c echo.Context, level, message string) {
	flashes := append(readFlashes(c), Flash{Level: level, Message: message})

	raw, err := json.Marshal(flashes)
	if err != nil {
		return
	}
	cookie := &http.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	c.SetCookie(cookie)
	//同じリクエスト内で続けて追加できるように
	c.Request().AddCookie(cookie)
}

// 読んだら消す
func PopFlashes(c echo.Context) []Flash {
	flashes := readFlashes(c)
	if len(flashes) > 0 {
		c.SetCookie(&http.Cookie{Name: flashCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	}
	return flashes
}

func readFlashes(c echo.Context) []Flash {
	var cookie *http.Cookie
	for _, ck := range c.Request().Cookies() {
		//AddFlashで足したものが最後に来る
		if ck.Name == flashCookie {
			cookie = ck
		}
	}
	if cookie == nil || cookie.Value == "" {
		return nil
	}

	raw, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}
	var flashes []Flash
	if err := json.Unmarshal(raw, &flashes); err != nil {
		return nil
	}
	return flashes
}
