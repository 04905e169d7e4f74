package model

import "time"

// カートの明細（まだ注文されていない選択）
// 同じユーザー・同じ商品の行は1つだけ。
type CartItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"user_id"`
	ProductID int64     `gorm:"not null;uniqueIndex:idx_cart_user_product;index" json:"product_id"`
	Quantity  int64     `gorm:"not null;default:1" json:"quantity"`
	Product   Product   `gorm:"foreignKey:ProductID" json:"product"`
	AddedAt   time.Time `gorm:"not null;autoCreateTime" json:"added_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
