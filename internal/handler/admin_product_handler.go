package handler

import (
	"errors"
	"net/http"

	"fashionshop/internal/middleware"
	"fashionshop/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 管理者の商品登録
type AdminProductHandler struct {
	uc *usecase.ProductUsecase
}

func NewAdminProductHandler(uc *usecase.ProductUsecase) *AdminProductHandler {
	return &AdminProductHandler{uc: uc}
}

// /admin/* を登録。bodyLimitは管理者チェックの後（管理者以外はサイズに関係なく403）
func (h *AdminProductHandler) RegisterRoutes(e *echo.Echo, requireLogin echo.MiddlewareFunc, bodyLimit echo.MiddlewareFunc) {
	g := e.Group("/admin", requireLogin, middleware.AdminRoleGuard(), bodyLimit)

	g.GET("/add_product", h.addProductPage)
	g.POST("/add_product", h.addProduct)
}

func (h *AdminProductHandler) addProductPage(c echo.Context) error {
	out, err := h.uc.AddProductPage(c.Request().Context())
	if err != nil {
		return pageError(c, err)
	}
	return render(c, http.StatusOK, "admin_add_product.html", out)
}

// POST /admin/add_product (multipart)
func (h *AdminProductHandler) addProduct(c echo.Context) error {
	admin, ok := middleware.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusForbidden)
	}
	ctx := c.Request().Context()

	in := usecase.CreateProductInput{
		Name:        c.FormValue("name"),
		Slug:        c.FormValue("slug"),
		Description: c.FormValue("description"),
		Price:       c.FormValue("price"),
		Stock:       c.FormValue("stock"),
		CategoryID:  c.FormValue("category"),
		Available:   formBool(c.FormValue("available")),
	}

	fh, err := c.FormFile("image_file")
	switch {
	case err == nil:
		f, err := fh.Open()
		if err != nil {
			return writeError(c, usecase.NewInternalError(usecase.MsgDBError, err), "/admin/add_product")
		}
		defer f.Close()
		in.Image = &usecase.ImageUpload{Filename: fh.Filename, Size: fh.Size, Content: f}
	case errors.Is(err, http.ErrMissingFile):
	default:
		return writeError(c, usecase.NewHTTPError(http.StatusBadRequest, "Invalid upload."), "/admin/add_product")
	}

	_, err = h.uc.AdminCreateProduct(ctx, *admin, in)
	if he, ok := usecase.AsHTTPError(err); ok && len(he.Fields) > 0 {
		page, perr := h.uc.AddProductPage(ctx)
		if perr != nil {
			return writeError(c, perr, "/admin/add_product")
		}
		return renderFormError(c, he, "admin_add_product.html", page)
	}
	if err != nil {
		return writeError(c, err, "/admin/add_product")
	}

	return redirectWithFlash(c, flashSuccess, "Product added successfully!", "/products")
}

// チェックボックスの値
func formBool(v string) bool {
	switch v {
	case "y", "on", "true", "1", "yes":
		return true
	default:
		return false
	}
}
