package handler

import (
	"errors"
	"net/http"

	"fashionshop/internal/usecase"

	"github.com/labstack/echo/v4"
)

// チェックアウトと注文履歴
type OrderHandler struct {
	uc *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo, requireLogin echo.MiddlewareFunc) {
	e.GET("/checkout", h.checkoutPage, requireLogin)
	e.POST("/checkout", h.checkout, requireLogin)
	e.GET("/orders", h.listMyOrders, requireLogin)
}

func (h *OrderHandler) checkoutPage(c echo.Context) error {
	userID, _ := getUserIDFromContext(c)

	out, err := h.uc.CheckoutPage(c.Request().Context(), userID)
	if errors.Is(err, usecase.ErrCartEmpty) {
		return redirectWithFlash(c, flashWarning, usecase.ErrCartEmpty.(*usecase.HTTPError).Message, "/products")
	}
	if err != nil {
		return pageError(c, err)
	}
	return render(c, http.StatusOK, "checkout.html", out)
}

// POST /checkout
func (h *OrderHandler) checkout(c echo.Context) error {
	userID, _ := getUserIDFromContext(c)
	ctx := c.Request().Context()

	in := usecase.CheckoutInput{
		FirstName:  c.FormValue("first_name"),
		LastName:   c.FormValue("last_name"),
		Email:      c.FormValue("email"),
		Address:    c.FormValue("address"),
		PostalCode: c.FormValue("postal_code"),
		City:       c.FormValue("city"),
	}

	_, err := h.uc.PlaceOrder(ctx, userID, in)
	if errors.Is(err, usecase.ErrCartEmpty) {
		return redirectWithFlash(c, flashWarning, usecase.ErrCartEmpty.(*usecase.HTTPError).Message, "/products")
	}
	if he, ok := usecase.AsHTTPError(err); ok && len(he.Fields) > 0 {
		//フォームを表示し直す（入力値はそのまま）
		page, perr := h.uc.CheckoutPage(ctx, userID)
		if perr != nil {
			return writeError(c, perr, "/cart")
		}
		page.Email = in.Email
		return renderFormError(c, he, "checkout.html", page)
	}
	if err != nil {
		return writeError(c, err, "/cart")
	}

	return redirectWithFlash(c, flashSuccess, "Your order has been placed successfully!", "/orders")
}

func (h *OrderHandler) listMyOrders(c echo.Context) error {
	userID, _ := getUserIDFromContext(c)

	out, err := h.uc.ListMyOrders(c.Request().Context(), userID)
	if err != nil {
		return pageError(c, err)
	}
	return render(c, http.StatusOK, "order_history.html", map[string]interface{}{"orders": out})
}
