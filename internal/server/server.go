package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"fashionshop/internal/config"
	"fashionshop/internal/handler"
	"fashionshop/internal/middleware"
	"fashionshop/internal/repository"
	"fashionshop/internal/usecase"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

type Handlers struct {
	Product      *handler.ProductHandler
	Auth         *handler.AuthHandler
	Cart         *handler.CartHandler
	Order        *handler.OrderHandler
	AdminProduct *handler.AdminProductHandler
}

// echoを組み立てる（ミドルウェア、静的ファイル、ルート）
func New(
	cfg config.Config,
	log zerolog.Logger,
	users repository.UserRepository,
	sessions middleware.SessionParser,
	h Handlers,
) *echo.Echo {
	bodyLimit := fmt.Sprintf("%dB", cfg.MaxUploadBytes)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler

	e.Use(middleware.RequestLogger(log))
	e.Use(echomw.Recover())
	//管理画面の上限は権限チェックの後でかける
	e.Use(echomw.BodyLimitWithConfig(echomw.BodyLimitConfig{
		Skipper: isAdminPath,
		Limit:   bodyLimit,
	}))
	e.Use(middleware.SessionAuth(sessions))
	e.Use(middleware.TokenVersionGuard(users, cfg.CookieSecure))

	//アップロード画像
	e.Static("/images/products", cfg.UploadDir)

	requireLogin := middleware.RequireLogin()

	h.Product.RegisterRoutes(e)
	h.Auth.RegisterRoutes(e, requireLogin)
	h.Cart.RegisterRoutes(e, requireLogin)
	h.Order.RegisterRoutes(e, requireLogin)
	h.AdminProduct.RegisterRoutes(e, requireLogin, echomw.BodyLimit(bodyLimit))

	return e
}

func isAdminPath(c echo.Context) bool {
	p := c.Request().URL.Path
	return p == "/admin" || strings.HasPrefix(p, "/admin/")
}

// エラーページ。403/404は固定のページを返す
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
	} else if ue, ok := usecase.AsHTTPError(err); ok {
		code = ue.Status
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}

	_ = c.JSON(code, handler.Page{
		Template: errorTemplate(code),
		Flashes:  []handler.Flash{},
	})
}

func errorTemplate(code int) string {
	switch {
	case code == http.StatusForbidden:
		return "403.html"
	case code == http.StatusNotFound:
		return "404.html"
	case code >= http.StatusInternalServerError:
		return "500.html"
	default:
		return "error.html"
	}
}
