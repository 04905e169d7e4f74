package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"fashionshop/internal/domain/model"
	repo "fashionshop/internal/repository"

	"github.com/shopspring/decimal"
)

const msgCheckoutDBError = "Failed to place your order due to a database error."

type CheckoutValidator interface {
	ValidateCheckout(ctx context.Context, in CheckoutInput) error
}

// チェックアウトと注文履歴
type OrderUsecase struct {
	tx        repo.TransactionManager
	cartItems repo.CartItemRepository
	users     repo.UserRepository
	validator CheckoutValidator
}

func NewOrderUsecase(
	tx repo.TransactionManager,
	cartItems repo.CartItemRepository,
	users repo.UserRepository,
	validator CheckoutValidator,
) *OrderUsecase {
	return &OrderUsecase{
		tx:        tx,
		cartItems: cartItems,
		users:     users,
		validator: validator,
	}
}

type CheckoutInput struct {
	FirstName  string
	LastName   string
	Email      string
	Address    string
	PostalCode string
	City       string
}

// 配送先は "address, city, postal_code"
func (in CheckoutInput) ShippingAddress() string {
	return fmt.Sprintf("%s, %s, %s",
		strings.TrimSpace(in.Address),
		strings.TrimSpace(in.City),
		strings.TrimSpace(in.PostalCode),
	)
}

type CheckoutPageOutput struct {
	Cart CartOutput `json:"cart"`
	// フォームの初期値
	Email string `json:"email"`
}

type OrderItemOutput struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int64           `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type OrderOutput struct {
	ID              int64             `json:"id"`
	UserID          int64             `json:"user_id"`
	Status          string            `json:"status"`
	TotalAmount     decimal.Decimal   `json:"total_amount"`
	ShippingAddress string            `json:"shipping_address"`
	OrderDate       time.Time         `json:"order_date"`
	Items           []OrderItemOutput `json:"items"`
}

// 空のカートはErrCartEmpty
func (u *OrderUsecase) CheckoutPage(ctx context.Context, userID int64) (CheckoutPageOutput, error) {
	if userID <= 0 {
		return CheckoutPageOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	items, err := u.cartItems.ListByUserID(ctx, userID)
	if err != nil {
		return CheckoutPageOutput{}, NewInternalError(MsgDBError, err)
	}
	if len(items) == 0 {
		return CheckoutPageOutput{}, ErrCartEmpty
	}

	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return CheckoutPageOutput{}, NewInternalError(MsgDBError, err)
	}

	return CheckoutPageOutput{Cart: buildCartOutput(items), Email: user.Email}, nil
}

// 注文確定。カート→注文/明細、在庫減算、カート削除を1トランザクションで行う。
func (u *OrderUsecase) PlaceOrder(ctx context.Context, userID int64, in CheckoutInput) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	//空カートはトランザクション前に弾く
	pending, err := u.cartItems.ListByUserID(ctx, userID)
	if err != nil {
		return OrderOutput{}, NewInternalError(MsgDBError, err)
	}
	if len(pending) == 0 {
		return OrderOutput{}, ErrCartEmpty
	}

	if err := u.validator.ValidateCheckout(ctx, in); err != nil {
		return OrderOutput{}, err
	}

	var out OrderOutput

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cartItems, err := r.CartItems().ListByUserID(ctx, userID)
		if err != nil {
			return NewInternalError(msgCheckoutDBError, err)
		}
		if len(cartItems) == 0 {
			return ErrCartEmpty
		}

		orderItems := make([]model.OrderItem, 0, len(cartItems))
		total := decimal.Zero

		for _, ci := range cartItems {
			//現在の価格で計算する
			p, err := r.Products().FindByID(ctx, ci.ProductID)
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusBadRequest, msgProductNotFound)
			}
			if err != nil {
				return NewInternalError(msgCheckoutDBError, err)
			}
			if !p.Available {
				return NewHTTPError(http.StatusBadRequest,
					fmt.Sprintf("%s is no longer available.", p.Name))
			}

			//在庫減算（足りないなら false）
			ok, err := r.Inventory().DecreaseStockIfEnough(ctx, p.ID, ci.Quantity)
			if err != nil {
				return NewInternalError(msgCheckoutDBError, err)
			}
			if !ok {
				return NewHTTPError(http.StatusConflict,
					fmt.Sprintf("Not enough stock for %s. Available: %d.", p.Name, p.Stock))
			}

			//単価のスナップショット
			orderItems = append(orderItems, model.OrderItem{
				ProductID:   p.ID,
				ProductName: p.Name,
				Quantity:    ci.Quantity,
				Price:       p.Price,
			})
			total = total.Add(p.LineTotal(ci.Quantity))
		}

		order := model.Order{
			UserID:          userID,
			OrderDate:       time.Now(),
			TotalAmount:     total,
			ShippingAddress: in.ShippingAddress(),
			Status:          model.OrderStatusPending,
		}
		orderID, err := r.Orders().Create(ctx, order)
		if err != nil {
			return NewInternalError(msgCheckoutDBError, err)
		}
		order.ID = orderID

		if err := r.OrderItems().InsertForOrder(ctx, orderID, orderItems); err != nil {
			return NewInternalError(msgCheckoutDBError, err)
		}

		//注文済みのカート行を消す
		for _, ci := range cartItems {
			if err := r.CartItems().DeleteByID(ctx, ci.ID); err != nil {
				return NewInternalError(msgCheckoutDBError, err)
			}
		}

		out = toOrderOutput(order, orderItems)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// 自分の注文を新しい順
func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64) ([]OrderOutput, error) {
	if userID <= 0 {
		return []OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, err := r.Orders().ListByUserID(ctx, userID)
		if err != nil {
			return NewInternalError(MsgDBError, err)
		}

		ids := make([]int64, 0, len(orders))
		for _, o := range orders {
			ids = append(ids, o.ID)
		}
		itemsByOrder, err := r.OrderItems().ListByOrderIDs(ctx, ids)
		if err != nil {
			return NewInternalError(MsgDBError, err)
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			outs = append(outs, toOrderOutput(o, itemsByOrder[o.ID]))
		}
		return nil
	})

	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ProductID: it.ProductID,
			Name:      it.ProductName,
			Price:     it.Price,
			Quantity:  it.Quantity,
			LineTotal: it.LineTotal(),
		})
	}

	return OrderOutput{
		ID:              o.ID,
		UserID:          o.UserID,
		Status:          string(o.Status),
		TotalAmount:     o.TotalAmount,
		ShippingAddress: o.ShippingAddress,
		OrderDate:       o.OrderDate,
		Items:           outItems,
	}
}
