package repository

import (
	"context"

	"fashionshop/internal/domain/model"
)

const (
	SortByName   = "name"
	SortByNewest = "new"
)

// 公開商品の一覧条件
type ProductListQuery struct {
	CategoryID *int64
	Sort       string
	// 0なら全件
	Limit int
}

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	//available=true の商品だけ
	ListAvailable(ctx context.Context, q ProductListQuery) ([]model.Product, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)
	FindBySlug(ctx context.Context, slug string) (model.Product, error)
	Create(ctx context.Context, p model.Product) (model.Product, error)
}
