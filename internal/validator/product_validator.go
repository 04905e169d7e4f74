package validator

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"

	"fashionshop/internal/domain/slug"
	"fashionshop/internal/repository"
	"fashionshop/internal/usecase"

	"github.com/shopspring/decimal"
)

// decimal(10,2)に入る範囲
var (
	minPrice = decimal.RequireFromString("0.01")
	maxPrice = decimal.RequireFromString("99999999.99")
)

// アップロードを許可する拡張子
var allowedImageExt = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
}

type productValidator struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
}

func NewProductValidator(products repository.ProductRepository, categories repository.CategoryRepository) usecase.ProductValidator {
	return &productValidator{products: products, categories: categories}
}

// 商品フォームを検証してdraftにする
func (v *productValidator) ValidateCreateProduct(ctx context.Context, in usecase.CreateProductInput) (usecase.ProductDraft, error) {
	var f fieldErrors
	draft := usecase.ProductDraft{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Available:   in.Available,
	}

	f.requiredMax("name", draft.Name, 200)

	// slugは正規化してから長さと重複を見る
	f.requiredMax("slug", in.Slug, 200)
	if !f.has("slug") {
		draft.Slug = slug.Make(in.Slug)
		if draft.Slug == "" {
			f.add("slug", "Slug must contain letters or digits.")
		} else if len(draft.Slug) > 200 {
			f.add("slug", "Field cannot be longer than 200 characters.")
		}
	}

	if p := strings.TrimSpace(in.Price); p == "" {
		f.add("price", msgRequired)
	} else if d, err := decimal.NewFromString(p); err != nil {
		f.add("price", "Not a valid decimal value.")
	} else if d.LessThan(minPrice) {
		f.add("price", "Number must be at least 0.01.")
	} else if d.Round(2).GreaterThan(maxPrice) {
		f.add("price", "Number must be at most 99999999.99.")
	} else {
		draft.Price = d.Round(2)
	}

	if s := strings.TrimSpace(in.Stock); s == "" {
		f.add("stock", msgRequired)
	} else if n, err := strconv.ParseInt(s, 10, 64); err != nil {
		f.add("stock", "Not a valid integer value.")
	} else if n < 0 {
		f.add("stock", "Number must be at least 0.")
	} else {
		draft.Stock = n
	}

	if c := strings.TrimSpace(in.CategoryID); c == "" {
		f.add("category", msgRequired)
	} else if id, err := strconv.ParseInt(c, 10, 64); err != nil {
		f.add("category", "Not a valid choice.")
	} else {
		ok, err := v.categoryExists(ctx, id)
		if err != nil {
			return usecase.ProductDraft{}, err
		}
		if !ok {
			f.add("category", "Not a valid choice.")
		}
		draft.CategoryID = id
	}

	if in.Image == nil || in.Image.Filename == "" {
		f.add("image_file", msgRequired)
	} else if !allowedImageExt[imageExt(in.Image.Filename)] {
		f.add("image_file", usecase.MsgImagesOnly)
	}

	if !f.has("slug") {
		_, err := v.products.FindBySlug(ctx, draft.Slug)
		taken, err := found(err)
		if err != nil {
			return usecase.ProductDraft{}, err
		}
		if taken {
			f.add("slug", usecase.MsgSlugTaken)
		}
	}

	if err := f.err(); err != nil {
		return usecase.ProductDraft{}, err
	}
	return draft, nil
}

// 選択肢はそのときDBにあるカテゴリ
func (v *productValidator) categoryExists(ctx context.Context, id int64) (bool, error) {
	cats, err := v.categories.ListAll(ctx)
	if err != nil {
		return false, usecase.NewInternalError(usecase.MsgDBError, err)
	}
	for _, c := range cats {
		if c.ID == id {
			return true, nil
		}
	}
	return false, nil
}

// 小文字の拡張子（ドットなし）
func imageExt(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}
