package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// contextのユーザーが管理者かどうかを確認します。
// RequireLoginの後に使う。管理者以外は403。
func AdminRoleGuard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u, ok := CurrentUser(c)
			if !ok || !u.IsAdmin {
				return echo.NewHTTPError(http.StatusForbidden)
			}
			return next(c)
		}
	}
}
