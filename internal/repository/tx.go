package repository

import "context"

// TransactionManager はusecaseに1つのDBトランザクションを渡す。
// fnがnilを返せばcommit、errorかpanicならrollbackして何も残さない。
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}

// 同じトランザクションに乗ったrepo一式。
// カート、チェックアウト、商品登録はこれ経由で書く
type TxRepos interface {
	Products() ProductRepository
	CartItems() CartItemRepository
	Inventory() InventoryRepository
	Orders() OrderRepository
	OrderItems() OrderItemRepository
	AuditLogs() AuditLogRepository
}
