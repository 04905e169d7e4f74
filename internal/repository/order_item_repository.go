package repository

import (
	"context"

	"fashionshop/internal/domain/model"
)

// 注文明細。単価は作成時のスナップショットで更新しない
type OrderItemRepository interface {
	// itemsのOrderIDはorderIDで上書きする
	InsertForOrder(ctx context.Context, orderID int64, items []model.OrderItem) error
	// order_idごとにまとめて返す（1クエリ）
	ListByOrderIDs(ctx context.Context, orderIDs []int64) (map[int64][]model.OrderItem, error)
}
