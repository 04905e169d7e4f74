package handler

import (
	"net/http"

	"fashionshop/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 公開側の商品ページ
type ProductHandler struct {
	uc *usecase.CatalogUsecase
}

// DI
func NewProductHandler(uc *usecase.CatalogUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// 公開商品のルートを登録
func (h *ProductHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.home)
	e.GET("/home", h.home)
	e.GET("/products", h.list)
	e.GET("/products/category/:slug", h.listByCategory)
	e.GET("/product/:slug", h.detail)
}

func (h *ProductHandler) home(c echo.Context) error {
	out, err := h.uc.Home(c.Request().Context())
	if err != nil {
		return pageError(c, err)
	}
	return render(c, http.StatusOK, "index.html", out)
}

func (h *ProductHandler) list(c echo.Context) error {
	out, err := h.uc.ListProducts(c.Request().Context())
	if err != nil {
		return pageError(c, err)
	}
	return render(c, http.StatusOK, "products.html", out)
}

func (h *ProductHandler) listByCategory(c echo.Context) error {
	out, err := h.uc.ListByCategory(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return pageError(c, err)
	}
	return render(c, http.StatusOK, "products.html", out)
}

func (h *ProductHandler) detail(c echo.Context) error {
	p, err := h.uc.ProductDetail(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return pageError(c, err)
	}
	return render(c, http.StatusOK, "product_detail.html", map[string]interface{}{"product": p})
}
