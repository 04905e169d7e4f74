package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"fashionshop/internal/domain/model"
	"fashionshop/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCartFixture() (*memStore, *usecase.CartUsecase, model.Product) {
	s := newMemStore()
	p := s.addProduct(model.Product{
		Name:      "Linen Shirt",
		Slug:      "linen-shirt",
		Price:     decimal.RequireFromString("19.99"),
		Stock:     5,
		Available: true,
	})
	return s, usecase.NewCartUsecase(s, memCartItems{s}), p
}

func TestCartUsecase_AddToCart_CreatesRow(t *testing.T) {
	s, uc, p := newCartFixture()

	msg, err := uc.AddToCart(context.Background(), 1, usecase.AddCartInput{ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, "Linen Shirt added to cart successfully!", msg)

	items := s.cartOf(1)
	require.Len(t, items, 1)
	assert.Equal(t, int64(2), items[0].Quantity)
}

func TestCartUsecase_AddToCart_MergesSameProduct(t *testing.T) {
	s, uc, p := newCartFixture()
	s.addCartItem(1, p.ID, 2)

	_, err := uc.AddToCart(context.Background(), 1, usecase.AddCartInput{ProductID: p.ID, Quantity: 3})
	require.NoError(t, err)

	items := s.cartOf(1)
	require.Len(t, items, 1)
	assert.Equal(t, int64(5), items[0].Quantity)
}

func TestCartUsecase_AddToCart_Rejects(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(s *memStore, p model.Product) int64
		qty       int64
		status    int
		msg       string
		wantItems int
	}{
		{
			name:   "quantity not positive",
			setup:  func(s *memStore, p model.Product) int64 { return p.ID },
			qty:    0,
			status: http.StatusBadRequest,
			msg:    "Quantity must be positive.",
		},
		{
			name:   "product missing",
			setup:  func(s *memStore, p model.Product) int64 { return 999 },
			qty:    1,
			status: http.StatusNotFound,
			msg:    "Product not found.",
		},
		{
			name: "product unavailable",
			setup: func(s *memStore, p model.Product) int64 {
				p.Available = false
				s.products[p.ID] = p
				return p.ID
			},
			qty:    1,
			status: http.StatusBadRequest,
			msg:    "Product not available.",
		},
		{
			name:   "more than stock",
			setup:  func(s *memStore, p model.Product) int64 { return p.ID },
			qty:    6,
			status: http.StatusBadRequest,
			msg:    "Not enough stock for Linen Shirt. Available: 5.",
		},
		{
			name: "existing plus requested exceeds stock",
			setup: func(s *memStore, p model.Product) int64 {
				s.addCartItem(1, p.ID, 4)
				return p.ID
			},
			qty:       2,
			status:    http.StatusBadRequest,
			msg:       "Adding more would exceed stock. Max available: 1",
			wantItems: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, uc, p := newCartFixture()
			productID := tt.setup(s, p)

			_, err := uc.AddToCart(context.Background(), 1, usecase.AddCartInput{ProductID: productID, Quantity: tt.qty})
			he := requireHTTPError(t, err, tt.status)
			assert.Equal(t, tt.msg, he.Message)
			assert.Len(t, s.cartOf(1), tt.wantItems)
		})
	}
}

func TestCartUsecase_AddToCart_DBErrorRollsBack(t *testing.T) {
	s, uc, p := newCartFixture()
	s.fail["CartItems.Create"] = errors.New("boom")

	_, err := uc.AddToCart(context.Background(), 1, usecase.AddCartInput{ProductID: p.ID, Quantity: 1})
	he := requireHTTPError(t, err, http.StatusInternalServerError)
	assert.Equal(t, "Failed to add item to cart due to a database error.", he.Message)
	assert.EqualError(t, he.Cause, "boom")
	assert.Empty(t, s.cartOf(1))
}

func TestCartUsecase_UpdateCartItem(t *testing.T) {
	s, uc, p := newCartFixture()
	it := s.addCartItem(1, p.ID, 1)

	msg, err := uc.UpdateCartItem(context.Background(), 1, usecase.UpdateCartItemInput{ItemID: it.ID, Quantity: 4})
	require.NoError(t, err)
	assert.Equal(t, "Cart updated.", msg)
	assert.Equal(t, int64(4), s.cartItems[it.ID].Quantity)
}

func TestCartUsecase_UpdateCartItem_Rejects(t *testing.T) {
	s, uc, p := newCartFixture()
	mine := s.addCartItem(1, p.ID, 1)
	other := s.addCartItem(2, p.ID, 1)

	_, err := uc.UpdateCartItem(context.Background(), 1, usecase.UpdateCartItemInput{ItemID: mine.ID, Quantity: 0})
	assert.Equal(t, "Quantity must be positive.", requireHTTPError(t, err, http.StatusBadRequest).Message)

	_, err = uc.UpdateCartItem(context.Background(), 1, usecase.UpdateCartItemInput{ItemID: mine.ID, Quantity: 6})
	assert.Equal(t, "Not enough stock for Linen Shirt. Max available: 5", requireHTTPError(t, err, http.StatusBadRequest).Message)

	//他人の明細は存在しない扱い
	_, err = uc.UpdateCartItem(context.Background(), 1, usecase.UpdateCartItemInput{ItemID: other.ID, Quantity: 2})
	assert.Equal(t, "Cart item not found.", requireHTTPError(t, err, http.StatusNotFound).Message)

	assert.Equal(t, int64(1), s.cartItems[mine.ID].Quantity)
	assert.Equal(t, int64(1), s.cartItems[other.ID].Quantity)
}

func TestCartUsecase_RemoveCartItem(t *testing.T) {
	s, uc, p := newCartFixture()
	mine := s.addCartItem(1, p.ID, 1)
	other := s.addCartItem(2, p.ID, 1)

	_, err := uc.RemoveCartItem(context.Background(), 1, other.ID)
	assert.Equal(t, "Cart item not found.", requireHTTPError(t, err, http.StatusNotFound).Message)
	assert.Contains(t, s.cartItems, other.ID)

	msg, err := uc.RemoveCartItem(context.Background(), 1, mine.ID)
	require.NoError(t, err)
	assert.Equal(t, "Item removed from cart.", msg)
	assert.NotContains(t, s.cartItems, mine.ID)
}

func TestCartUsecase_GetCart_TotalsAtCurrentPrice(t *testing.T) {
	s, uc, p := newCartFixture()
	p2 := s.addProduct(model.Product{Name: "Belt", Slug: "belt", Price: decimal.RequireFromString("5.50"), Stock: 10, Available: true})
	s.addCartItem(1, p.ID, 2)
	s.addCartItem(1, p2.ID, 3)

	out, err := uc.GetCart(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, out.Items, 2)
	assert.True(t, decimal.RequireFromString("56.48").Equal(out.Total), out.Total.String())

	//価格が変わったら合計も変わる
	p.Price = decimal.RequireFromString("10.00")
	s.products[p.ID] = p
	out, err = uc.GetCart(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("36.50").Equal(out.Total), out.Total.String())
}

func TestCartUsecase_Unauthorized(t *testing.T) {
	_, uc, _ := newCartFixture()

	_, err := uc.GetCart(context.Background(), 0)
	requireHTTPError(t, err, http.StatusUnauthorized)
	_, err = uc.AddToCart(context.Background(), 0, usecase.AddCartInput{ProductID: 1, Quantity: 1})
	requireHTTPError(t, err, http.StatusUnauthorized)
}
