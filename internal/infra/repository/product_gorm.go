package repository

import (
	"context"

	"fashionshop/internal/domain/model"
	"fashionshop/internal/infra/db"
	repo "fashionshop/internal/repository"

	"gorm.io/gorm"
)

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

// 販売中(available=true)の商品だけを、カテゴリ/ソート/件数指定つきで返す。
func (r *ProductGormRepository) ListAvailable(ctx context.Context, q repo.ProductListQuery) ([]model.Product, error) {
	var products []model.Product

	tx := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Preload("Category").
		Where("available = ?", true)

	if q.CategoryID != nil {
		tx = tx.Where("category_id = ?", *q.CategoryID)
	}

	switch q.Sort {
	case repo.SortByNewest:
		tx = tx.Order("created_at desc").Order("id desc")
	default:
		tx = tx.Order("name asc").Order("id asc")
	}

	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	if err := tx.Find(&products).Error; err != nil {
		return []model.Product{}, err
	}
	return products, nil
}

// IDで商品を取得
func (r *ProductGormRepository) FindByID(ctx context.Context, id int64) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Preload("Category").First(&p, id).Error
	if db.IsNotFound(err) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

// slugで商品を取得（availableは見ない）
func (r *ProductGormRepository) FindBySlug(ctx context.Context, slug string) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Preload("Category").Where("slug = ?", slug).First(&p).Error
	if db.IsNotFound(err) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

// 商品の作成
func (r *ProductGormRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	//Categoryはassociationとして保存しない
	if err := r.db.WithContext(ctx).Omit("Category").Create(&p).Error; err != nil {
		if db.IsUniqueViolation(err) {
			return model.Product{}, repo.ErrDuplicate
		}
		return model.Product{}, err
	}
	return p, nil
}
