package repository

import (
	"context"

	repo "fashionshop/internal/repository"

	"gorm.io/gorm"
)

// txに紐づいたrepoを都度作る
type gormTxRepos struct {
	tx *gorm.DB
}

func (r gormTxRepos) Products() repo.ProductRepository     { return NewProductGormRepository(r.tx) }
func (r gormTxRepos) CartItems() repo.CartItemRepository   { return NewCartGormRepository(r.tx) }
func (r gormTxRepos) Inventory() repo.InventoryRepository  { return NewInventoryGormRepository(r.tx) }
func (r gormTxRepos) Orders() repo.OrderRepository         { return NewOrderGormRepository(r.tx) }
func (r gormTxRepos) OrderItems() repo.OrderItemRepository { return NewOrderItemGormRepository(r.tx) }
func (r gormTxRepos) AuditLogs() repo.AuditLogRepository   { return NewAuditLogGormRepository(r.tx) }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

// gormのTransactionに任せる（panicでもrollback）
func (m *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(gormTxRepos{tx: tx})
	})
}

var (
	_ repo.TransactionManager  = (*TxManagerGorm)(nil)
	_ repo.TxRepos             = gormTxRepos{}
	_ repo.ProductRepository   = (*ProductGormRepository)(nil)
	_ repo.CategoryRepository  = (*CategoryGormRepository)(nil)
	_ repo.CartItemRepository  = (*CartGormRepository)(nil)
	_ repo.InventoryRepository = (*InventoryGormRepository)(nil)
	_ repo.OrderRepository     = (*OrderGormRepository)(nil)
	_ repo.OrderItemRepository = (*OrderItemGormRepository)(nil)
)
