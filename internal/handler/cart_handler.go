package handler

import (
	"net/http"
	"strconv"
	"strings"

	"fashionshop/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /cartのHTTP
type CartHandler struct {
	uc *usecase.CartUsecase
}

// DI
func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

// /cart を登録（ログイン必須）
func (h *CartHandler) RegisterRoutes(e *echo.Echo, requireLogin echo.MiddlewareFunc) {
	g := e.Group("/cart", requireLogin)

	g.GET("", h.getCart)
	g.POST("/add", h.addToCart)
	g.POST("/update", h.updateItem)
	g.POST("/remove", h.removeItem)
}

func (h *CartHandler) getCart(c echo.Context) error {
	userID, _ := getUserIDFromContext(c)

	out, err := h.uc.GetCart(c.Request().Context(), userID)
	if err != nil {
		return pageError(c, err)
	}
	return render(c, http.StatusOK, "cart.html", out)
}

func (h *CartHandler) addToCart(c echo.Context) error {
	userID, _ := getUserIDFromContext(c)
	back := refererOr(c, "/products")

	productID, err1 := parseFormInt(c.FormValue("product_id"))
	qtyRaw := c.FormValue("quantity")
	if strings.TrimSpace(qtyRaw) == "" {
		qtyRaw = "1"
	}
	qty, err2 := parseFormInt(qtyRaw)
	if err1 != nil || err2 != nil {
		return redirectWithFlash(c, flashDanger, "Invalid product ID or quantity.", back)
	}

	msg, err := h.uc.AddToCart(c.Request().Context(), userID, usecase.AddCartInput{
		ProductID: productID,
		Quantity:  qty,
	})
	if err != nil {
		return writeError(c, err, back)
	}

	return redirectWithFlash(c, flashSuccess, msg, "/cart")
}

func (h *CartHandler) updateItem(c echo.Context) error {
	userID, _ := getUserIDFromContext(c)

	itemID, err1 := parseFormInt(c.FormValue("item_id"))
	qty, err2 := parseFormInt(c.FormValue("quantity"))
	if err1 != nil || err2 != nil {
		return redirectWithFlash(c, flashDanger, "Invalid quantity.", "/cart")
	}

	msg, err := h.uc.UpdateCartItem(c.Request().Context(), userID, usecase.UpdateCartItemInput{
		ItemID:   itemID,
		Quantity: qty,
	})
	if err != nil {
		return writeError(c, err, "/cart")
	}

	return redirectWithFlash(c, flashSuccess, msg, "/cart")
}

func (h *CartHandler) removeItem(c echo.Context) error {
	userID, _ := getUserIDFromContext(c)

	itemID, err := parseFormInt(c.FormValue("item_id"))
	if err != nil {
		return redirectWithFlash(c, flashDanger, "Invalid cart item ID.", "/cart")
	}

	msg, err := h.uc.RemoveCartItem(c.Request().Context(), userID, itemID)
	if err != nil {
		return writeError(c, err, "/cart")
	}

	return redirectWithFlash(c, flashInfo, msg, "/cart")
}

func parseFormInt(v string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(v), 10, 64)
}
