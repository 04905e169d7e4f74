package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"fashionshop/internal/domain/model"
	repo "fashionshop/internal/repository"

	"github.com/shopspring/decimal"
)

const (
	msgQuantityPositive = "Quantity must be positive."
	msgProductNotFound  = "Product not found."
	msgProductNotAvail  = "Product not available."
	msgCartItemNotFound = "Cart item not found."
	msgAddCartDBError   = "Failed to add item to cart due to a database error."
	msgUpdateCartDBErr  = "Failed to update cart due to a database error."
	msgRemoveCartDBErr  = "Failed to remove item from cart due to a database error."
)

// CartUsecase は /cart の業務ロジックです。
// 変更はすべて1トランザクションで行う。
type CartUsecase struct {
	tx        repo.TransactionManager
	cartItems repo.CartItemRepository
}

func NewCartUsecase(tx repo.TransactionManager, cartItems repo.CartItemRepository) *CartUsecase {
	return &CartUsecase{tx: tx, cartItems: cartItems}
}

// カートの1行。価格は現在の商品価格
type CartLine struct {
	ItemID        int64           `json:"item_id"`
	ProductID     int64           `json:"product_id"`
	Name          string          `json:"name"`
	Slug          string          `json:"slug"`
	ImageFilename *string         `json:"image_filename"`
	Price         decimal.Decimal `json:"price"`
	Quantity      int64           `json:"quantity"`
	Stock         int64           `json:"stock"`
	LineTotal     decimal.Decimal `json:"line_total"`
}

type CartOutput struct {
	Items []CartLine      `json:"items"`
	Total decimal.Decimal `json:"total"`
}

type AddCartInput struct {
	ProductID int64
	Quantity  int64
}

type UpdateCartItemInput struct {
	ItemID   int64
	Quantity int64
}

func (u *CartUsecase) GetCart(ctx context.Context, userID int64) (CartOutput, error) {
	if userID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	items, err := u.cartItems.ListByUserID(ctx, userID)
	if err != nil {
		return CartOutput{}, NewInternalError(MsgDBError, err)
	}
	return buildCartOutput(items), nil
}

// カートに追加（同じ商品は数量を足す）。成功メッセージを返す。
func (u *CartUsecase) AddToCart(ctx context.Context, userID int64, in AddCartInput) (string, error) {
	if userID <= 0 {
		return "", NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.Quantity <= 0 {
		return "", NewHTTPError(http.StatusBadRequest, msgQuantityPositive)
	}

	var msg string
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Products().FindByID(ctx, in.ProductID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, msgProductNotFound)
		}
		if err != nil {
			return NewInternalError(msgAddCartDBError, err)
		}
		if !p.Available {
			return NewHTTPError(http.StatusBadRequest, msgProductNotAvail)
		}
		if p.Stock < in.Quantity {
			return NewHTTPError(http.StatusBadRequest,
				fmt.Sprintf("Not enough stock for %s. Available: %d.", p.Name, p.Stock))
		}

		existing, err := r.CartItems().FindByUserAndProduct(ctx, userID, p.ID)
		switch {
		case err == nil:
			//既存の行に足す
			if p.Stock < existing.Quantity+in.Quantity {
				return NewHTTPError(http.StatusBadRequest,
					fmt.Sprintf("Adding more would exceed stock. Max available: %d", p.Stock-existing.Quantity))
			}
			if err := r.CartItems().UpdateQuantity(ctx, existing.ID, existing.Quantity+in.Quantity); err != nil {
				return NewInternalError(msgAddCartDBError, err)
			}
		case errors.Is(err, repo.ErrNotFound):
			if _, err := r.CartItems().Create(ctx, model.CartItem{
				UserID:    userID,
				ProductID: p.ID,
				Quantity:  in.Quantity,
			}); err != nil {
				return NewInternalError(msgAddCartDBError, err)
			}
		default:
			return NewInternalError(msgAddCartDBError, err)
		}

		msg = fmt.Sprintf("%s added to cart successfully!", p.Name)
		return nil
	})
	if err != nil {
		return "", err
	}
	return msg, nil
}

// 数量変更（所有チェック＋在庫チェック）。
func (u *CartUsecase) UpdateCartItem(ctx context.Context, userID int64, in UpdateCartItemInput) (string, error) {
	if userID <= 0 {
		return "", NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.Quantity <= 0 {
		return "", NewHTTPError(http.StatusBadRequest, msgQuantityPositive)
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		item, err := r.CartItems().FindByIDForUser(ctx, in.ItemID, userID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, msgCartItemNotFound)
		}
		if err != nil {
			return NewInternalError(msgUpdateCartDBErr, err)
		}

		if item.Product.Stock < in.Quantity {
			return NewHTTPError(http.StatusBadRequest,
				fmt.Sprintf("Not enough stock for %s. Max available: %d", item.Product.Name, item.Product.Stock))
		}

		if err := r.CartItems().UpdateQuantity(ctx, item.ID, in.Quantity); err != nil {
			return NewInternalError(msgUpdateCartDBErr, err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return "Cart updated.", nil
}

// 自分の明細だけ削除できる
func (u *CartUsecase) RemoveCartItem(ctx context.Context, userID int64, itemID int64) (string, error) {
	if userID <= 0 {
		return "", NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		item, err := r.CartItems().FindByIDForUser(ctx, itemID, userID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, msgCartItemNotFound)
		}
		if err != nil {
			return NewInternalError(msgRemoveCartDBErr, err)
		}

		if err := r.CartItems().DeleteByID(ctx, item.ID); err != nil {
			return NewInternalError(msgRemoveCartDBErr, err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return "Item removed from cart.", nil
}

func buildCartOutput(items []model.CartItem) CartOutput {
	out := CartOutput{Items: make([]CartLine, 0, len(items)), Total: decimal.Zero}
	for _, it := range items {
		line := CartLine{
			ItemID:        it.ID,
			ProductID:     it.ProductID,
			Name:          it.Product.Name,
			Slug:          it.Product.Slug,
			ImageFilename: it.Product.ImageFilename,
			Price:         it.Product.Price,
			Quantity:      it.Quantity,
			Stock:         it.Product.Stock,
			LineTotal:     it.Product.LineTotal(it.Quantity),
		}
		out.Items = append(out.Items, line)
		out.Total = out.Total.Add(line.LineTotal)
	}
	return out
}
