package repository

import (
	"context"

	"fashionshop/internal/domain/model"
)

type CategoryRepository interface {
	//名前順
	ListAll(ctx context.Context) ([]model.Category, error)
	FindBySlug(ctx context.Context, slug string) (model.Category, error)
	FindByID(ctx context.Context, id int64) (model.Category, error)
	Create(ctx context.Context, c model.Category) (model.Category, error)
}
