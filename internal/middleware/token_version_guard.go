package middleware

import (
	"errors"
	"net/http"
	"net/url"

	"fashionshop/internal/domain/model"
	"fashionshop/internal/repository"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// JWTのtvとDBのtoken_versionが一致するか確認して、ユーザーをcontextに入れる。
// 一致しない（ログアウト済み）セッションはcookieを消して未ログイン扱い。
func TokenVersionGuard(userRepo repository.UserRepository, cookieSecure bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			//SessionAuthが入れたuser_id を取得する
			userID, ok := c.Get(CtxUserIDKey).(int64)
			if !ok || userID <= 0 {
				return next(c)
			}
			tv, ok := c.Get(CtxTokenVersionKey).(int)
			if !ok {
				return next(c)
			}

			//DBから最新のuserを取得する
			user, err := userRepo.FindByID(c.Request().Context(), userID)
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				zerolog.Ctx(c.Request().Context()).Error().Err(err).Int64("user_id", userID).Msg("load session user")
				return echo.NewHTTPError(http.StatusInternalServerError)
			}
			if err != nil || user == nil || user.TokenVersion != tv {
				ClearSessionCookie(c, cookieSecure)
				c.Set(CtxUserIDKey, nil)
				return next(c)
			}

			c.Set(CtxUserKey, user)
			return next(c)
		}
	}
}

// ログイン必須。未ログインなら /login?next=<path> へ
func RequireLogin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := CurrentUser(c); !ok {
				target := "/login?next=" + url.QueryEscape(c.Request().URL.RequestURI())
				return c.Redirect(http.StatusFound, target)
			}
			return next(c)
		}
	}
}

// ログイン中のユーザー
func CurrentUser(c echo.Context) (*model.User, bool) {
	u, ok := c.Get(CtxUserKey).(*model.User)
	if !ok || u == nil {
		return nil, false
	}
	return u, true
}
