package middleware

import (
	"net/http"
	"time"

	"fashionshop/internal/infra/token"

	"github.com/labstack/echo/v4"
)

const SessionCookieName = "session"

const (
	CtxUserIDKey       = "user_id"       // int64
	CtxTokenVersionKey = "token_version" // int
	CtxUserKey         = "user"          // *model.User
)

type SessionParser interface {
	Parse(raw string) (token.Session, error)
}

// セッションcookieのJWTを読む。無い/不正ならログインしていない扱いで次へ。
func SessionAuth(parser SessionParser) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ck, err := c.Cookie(SessionCookieName)
			if err != nil || ck.Value == "" {
				return next(c)
			}

			s, err := parser.Parse(ck.Value)
			if err != nil {
				return next(c)
			}

			//contextへ保存
			c.Set(CtxUserIDKey, s.UserID)
			c.Set(CtxTokenVersionKey, s.TokenVersion)

			return next(c)
		}
	}
}

// HttpOnlyのセッションcookieを書く
func SetSessionCookie(c echo.Context, value string, expiresAt time.Time, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearSessionCookie(c echo.Context, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
