package usecase_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"fashionshop/internal/domain/model"
	repo "fashionshop/internal/repository"
	"fashionshop/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCatalogUsecase_Home_EightNewest(t *testing.T) {
	pRepo := new(CatalogProductRepoMock)
	uc := usecase.NewCatalogUsecase(pRepo, memCategories{newMemStore()})

	pRepo.On("ListAvailable", mock.Anything, repo.ProductListQuery{Sort: repo.SortByNewest, Limit: 8}).
		Return([]model.Product{{ID: 1}}, nil)

	out, err := uc.Home(context.Background())
	require.NoError(t, err)
	assert.Len(t, out.Products, 1)
	pRepo.AssertExpectations(t)
}

func TestCatalogUsecase_FiltersAndSorts(t *testing.T) {
	s := newMemStore()
	mens, _ := memCategories{s}.Create(context.Background(), model.Category{Name: "Men's Wear", Slug: "mens-wear"})
	shoes, _ := memCategories{s}.Create(context.Background(), model.Category{Name: "Footwear", Slug: "footwear"})
	now := time.Now()

	s.addProduct(model.Product{Name: "Shirt", Slug: "shirt", Available: true, CategoryID: &mens.ID, CreatedAt: now})
	s.addProduct(model.Product{Name: "Blazer", Slug: "blazer", Available: true, CategoryID: &mens.ID, CreatedAt: now.Add(time.Minute)})
	s.addProduct(model.Product{Name: "Hidden", Slug: "hidden", Available: false, CategoryID: &mens.ID})
	s.addProduct(model.Product{Name: "Boot", Slug: "boot", Available: true, CategoryID: &shoes.ID})

	uc := usecase.NewCatalogUsecase(memProducts{s}, memCategories{s})

	all, err := uc.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Blazer", "Boot", "Shirt"}, productNames(all.Products))
	assert.Len(t, all.Categories, 2)

	byCat, err := uc.ListByCategory(context.Background(), "mens-wear")
	require.NoError(t, err)
	assert.Equal(t, []string{"Blazer", "Shirt"}, productNames(byCat.Products))
	require.NotNil(t, byCat.CurrentCategory)
	assert.Equal(t, "mens-wear", byCat.CurrentCategory.Slug)

	_, err = uc.ListByCategory(context.Background(), "nope")
	requireHTTPError(t, err, http.StatusNotFound)
}

func TestCatalogUsecase_ProductDetail(t *testing.T) {
	s := newMemStore()
	s.addProduct(model.Product{Name: "Shirt", Slug: "shirt", Available: true})
	s.addProduct(model.Product{Name: "Hidden", Slug: "hidden", Available: false})
	uc := usecase.NewCatalogUsecase(memProducts{s}, memCategories{s})

	p, err := uc.ProductDetail(context.Background(), "shirt")
	require.NoError(t, err)
	assert.Equal(t, "Shirt", p.Name)

	_, err = uc.ProductDetail(context.Background(), "hidden")
	requireHTTPError(t, err, http.StatusNotFound)

	_, err = uc.ProductDetail(context.Background(), "missing")
	requireHTTPError(t, err, http.StatusNotFound)
}

func productNames(ps []model.Product) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Name)
	}
	return out
}
