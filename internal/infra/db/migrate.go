package db

import (
	"fashionshop/internal/domain/model"

	"gorm.io/gorm"
)

// Migrate はテーブルを作成/更新する。
func Migrate(gormDB *gorm.DB) error {
	return gormDB.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.AuditLog{},
	)
}
