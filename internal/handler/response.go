package handler

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"fashionshop/internal/domain/model"
	"fashionshop/internal/middleware"
	"fashionshop/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

const (
	flashSuccess = "success"
	flashDanger  = "danger"
	flashInfo    = "info"
	flashWarning = "warning"
)

// テンプレートに渡すページ。HTMLの描画は外側が行う
type Page struct {
	Template    string      `json:"template"`
	Flashes     []Flash     `json:"flashes"`
	CurrentUser *model.User `json:"current_user,omitempty"`
	// 項目ごとの入力エラー
	Errors map[string][]string `json:"errors,omitempty"`
	Data   interface{}         `json:"data,omitempty"`
}

func render(c echo.Context, status int, template string, data interface{}) error {
	return c.JSON(status, newPage(c, template, data))
}

func newPage(c echo.Context, template string, data interface{}) Page {
	p := Page{
		Template: template,
		Flashes:  takeFlashes(c),
		Data:     data,
	}
	if u, ok := middleware.CurrentUser(c); ok {
		p.CurrentUser = u
	}
	return p
}

// 入力エラーをflashに積んでフォームを表示し直す
func renderFormError(c echo.Context, he *usecase.HTTPError, template string, data interface{}) error {
	flashFieldErrors(c, he)
	p := newPage(c, template, data)
	if len(he.Fields) > 0 {
		p.Errors = map[string][]string{}
		for _, fe := range he.Fields {
			p.Errors[fe.Field] = append(p.Errors[fe.Field], fe.Message)
		}
	} else {
		p.Flashes = append(p.Flashes, Flash{Category: flashDanger, Message: he.Message})
	}
	return c.JSON(he.Status, p)
}

func flashFieldErrors(c echo.Context, he *usecase.HTTPError) {
	for _, fe := range he.Fields {
		addFlash(c, flashDanger, fmt.Sprintf("Error in %s: %s", fe.Field, fe.Message))
	}
}

func redirectWithFlash(c echo.Context, category string, msg string, to string) error {
	addFlash(c, category, msg)
	return c.Redirect(http.StatusFound, to)
}

// フォーム送信の失敗はメッセージを積んでリダイレクト
func writeError(c echo.Context, err error, to string) error {
	if err == nil {
		return nil
	}
	he, ok := usecase.AsHTTPError(err)
	if !ok {
		he = usecase.NewInternalError(usecase.MsgDBError, err).(*usecase.HTTPError)
	}

	switch {
	case he.Status >= http.StatusInternalServerError:
		logCause(c, he)
		return redirectWithFlash(c, flashDanger, he.Message, to)
	case he.Status == http.StatusForbidden:
		return echo.NewHTTPError(http.StatusForbidden)
	case len(he.Fields) > 0:
		flashFieldErrors(c, he)
		return c.Redirect(http.StatusFound, to)
	default:
		return redirectWithFlash(c, flashDanger, he.Message, to)
	}
}

// ページ表示の失敗は固定のエラーページへ
func pageError(c echo.Context, err error) error {
	he, ok := usecase.AsHTTPError(err)
	if !ok {
		zerolog.Ctx(c.Request().Context()).Error().Err(err).Msg("page error")
		return echo.NewHTTPError(http.StatusInternalServerError)
	}
	if he.Status >= http.StatusInternalServerError {
		logCause(c, he)
	}
	return echo.NewHTTPError(he.Status)
}

func logCause(c echo.Context, he *usecase.HTTPError) {
	zerolog.Ctx(c.Request().Context()).Error().
		Err(he.Cause).
		Int("status", he.Status).
		Str("message", he.Message).
		Msg("request failed")
}

// ログインユーザーのID
func getUserIDFromContext(c echo.Context) (int64, bool) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return 0, false
	}
	return u.ID, true
}

// 自サイト内のパスだけ許可する（//host や scheme つきは不可）
func safeNext(next string, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return fallback
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return fallback
	}
	return next
}

// 同じホストのRefererならそのパスへ戻る
func refererOr(c echo.Context, fallback string) string {
	ref := c.Request().Referer()
	if ref == "" {
		return fallback
	}
	u, err := url.Parse(ref)
	if err != nil || u.Host != c.Request().Host || u.Path == "" {
		return fallback
	}
	return safeNext(u.RequestURI(), fallback)
}
