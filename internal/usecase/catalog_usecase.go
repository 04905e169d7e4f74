package usecase

import (
	"context"
	"errors"

	"fashionshop/internal/domain/model"
	repo "fashionshop/internal/repository"
)

// トップページに出す新着の件数
const homeProductLimit = 8

// 公開側の商品/カテゴリの参照だけを扱う
type CatalogUsecase struct {
	products   repo.ProductRepository
	categories repo.CategoryRepository
}

// DI
func NewCatalogUsecase(products repo.ProductRepository, categories repo.CategoryRepository) *CatalogUsecase {
	return &CatalogUsecase{products: products, categories: categories}
}

type HomeOutput struct {
	Products []model.Product `json:"products"`
}

type ProductListOutput struct {
	Products        []model.Product  `json:"products"`
	Categories      []model.Category `json:"categories"`
	CurrentCategory *model.Category  `json:"current_category,omitempty"`
}

// 新着の販売中商品
func (u *CatalogUsecase) Home(ctx context.Context) (HomeOutput, error) {
	items, err := u.products.ListAvailable(ctx, repo.ProductListQuery{
		Sort:  repo.SortByNewest,
		Limit: homeProductLimit,
	})
	if err != nil {
		return HomeOutput{}, NewInternalError(MsgDBError, err)
	}
	return HomeOutput{Products: items}, nil
}

// 販売中の商品を名前順 + 全カテゴリ
func (u *CatalogUsecase) ListProducts(ctx context.Context) (ProductListOutput, error) {
	items, err := u.products.ListAvailable(ctx, repo.ProductListQuery{Sort: repo.SortByName})
	if err != nil {
		return ProductListOutput{}, NewInternalError(MsgDBError, err)
	}

	cats, err := u.categories.ListAll(ctx)
	if err != nil {
		return ProductListOutput{}, NewInternalError(MsgDBError, err)
	}

	return ProductListOutput{Products: items, Categories: cats}, nil
}

// カテゴリが無ければ404
func (u *CatalogUsecase) ListByCategory(ctx context.Context, slug string) (ProductListOutput, error) {
	cat, err := u.categories.FindBySlug(ctx, slug)
	if errors.Is(err, repo.ErrNotFound) {
		return ProductListOutput{}, ErrNotFound
	}
	if err != nil {
		return ProductListOutput{}, NewInternalError(MsgDBError, err)
	}

	items, err := u.products.ListAvailable(ctx, repo.ProductListQuery{
		CategoryID: &cat.ID,
		Sort:       repo.SortByName,
	})
	if err != nil {
		return ProductListOutput{}, NewInternalError(MsgDBError, err)
	}

	cats, err := u.categories.ListAll(ctx)
	if err != nil {
		return ProductListOutput{}, NewInternalError(MsgDBError, err)
	}

	return ProductListOutput{Products: items, Categories: cats, CurrentCategory: &cat}, nil
}

// 非公開の商品は存在しない扱い（404）
func (u *CatalogUsecase) ProductDetail(ctx context.Context, slug string) (model.Product, error) {
	p, err := u.products.FindBySlug(ctx, slug)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, ErrNotFound
	}
	if err != nil {
		return model.Product{}, NewInternalError(MsgDBError, err)
	}
	if !p.Available {
		return model.Product{}, ErrNotFound
	}
	return p, nil
}
