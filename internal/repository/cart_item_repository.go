package repository

import (
	"context"

	"fashionshop/internal/domain/model"
)

type CartItemRepository interface {
	//Productをpreloadして返す
	ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error)
	FindByUserAndProduct(ctx context.Context, userID int64, productID int64) (model.CartItem, error)
	// 他人の明細は ErrNotFound
	FindByIDForUser(ctx context.Context, cartItemID int64, userID int64) (model.CartItem, error)
	Create(ctx context.Context, item model.CartItem) (model.CartItem, error)
	UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error
	DeleteByID(ctx context.Context, cartItemID int64) error
}
