package handler

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
)

const (
	flashCookieName = "flash"
	ctxFlashKey     = "flash_state"
)

// 1回だけ表示するメッセージ
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

type flashState struct {
	pending  []Flash
	consumed bool
}

// リダイレクト先で表示するメッセージを積む。
// cookieはレスポンスを書く直前にまとめて書く。
func addFlash(c echo.Context, category string, msg string) {
	st := getFlashState(c)
	st.pending = append(st.pending, Flash{Category: category, Message: msg})
}

// 前のリクエストから来たメッセージと、このリクエストで積んだメッセージを取り出す
func takeFlashes(c echo.Context) []Flash {
	st := getFlashState(c)

	out := []Flash{}
	if ck, err := c.Cookie(flashCookieName); err == nil && ck.Value != "" {
		out = append(out, decodeFlashes(ck.Value)...)
		st.consumed = true
	}
	out = append(out, st.pending...)
	st.pending = nil
	return out
}

func getFlashState(c echo.Context) *flashState {
	if st, ok := c.Get(ctxFlashKey).(*flashState); ok {
		return st
	}
	st := &flashState{}
	c.Set(ctxFlashKey, st)

	c.Response().Before(func() {
		switch {
		case len(st.pending) > 0:
			c.SetCookie(&http.Cookie{
				Name:     flashCookieName,
				Value:    encodeFlashes(st.pending),
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		case st.consumed:
			c.SetCookie(&http.Cookie{
				Name:     flashCookieName,
				Value:    "",
				Path:     "/",
				MaxAge:   -1,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
	})
	return st
}

func encodeFlashes(fs []Flash) string {
	b, err := json.Marshal(fs)
	if err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

// 壊れたcookieは無視
func decodeFlashes(v string) []Flash {
	b, err := base64.RawURLEncoding.DecodeString(v)
	if err != nil {
		return nil
	}
	var fs []Flash
	if err := json.Unmarshal(b, &fs); err != nil {
		return nil
	}
	return fs
}
