package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string          `gorm:"type:varchar(200);not null" json:"name"`
	Slug        string          `gorm:"type:varchar(200);uniqueIndex;not null" json:"slug"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Stock       int64           `gorm:"not null;default:0" json:"stock"`
	Available   bool            `gorm:"not null" json:"available"`
	// nilなら画像なし
	ImageFilename *string   `gorm:"type:varchar(200)" json:"image_filename"`
	CategoryID    *int64    `gorm:"index" json:"category_id"`
	Category      *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	CreatedAt     time.Time `gorm:"not null;autoCreateTime;index" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// LineTotal は price × qty
func (p Product) LineTotal(qty int64) decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(qty))
}
