package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"fashionshop/internal/domain/model"
	repo "fashionshop/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	MsgSlugTaken       = "That slug is already used by another product. Please choose a unique one."
	MsgImagesOnly      = "Images only!"
	msgImageTooLarge   = "File is too large."
	msgAddProductDBErr = "Failed to add product due to a database error."
)

// アップロードされた画像
type ImageUpload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// 商品画像の保存先。Saveは保存したファイル名を返す
type ImageStore interface {
	Save(ctx context.Context, slug string, img ImageUpload) (string, error)
	Remove(ctx context.Context, filename string) error
}

// 管理画面の商品フォーム（文字列のまま）
type CreateProductInput struct {
	Name        string
	Slug        string
	Description string
	Price       string
	Stock       string
	CategoryID  string
	Available   bool
	Image       *ImageUpload
}

// 検証済みの商品
type ProductDraft struct {
	Name        string
	Slug        string
	Description string
	Price       decimal.Decimal
	Stock       int64
	CategoryID  int64
	Available   bool
}

type ProductValidator interface {
	ValidateCreateProduct(ctx context.Context, in CreateProductInput) (ProductDraft, error)
}

type AddProductPageOutput struct {
	Categories []model.Category `json:"categories"`
}

// 管理者の商品登録
type ProductUsecase struct {
	tx         repo.TransactionManager
	categories repo.CategoryRepository
	images     ImageStore
	validator  ProductValidator
}

// DI
func NewProductUsecase(
	tx repo.TransactionManager,
	categories repo.CategoryRepository,
	images ImageStore,
	validator ProductValidator,
) *ProductUsecase {
	return &ProductUsecase{
		tx:         tx,
		categories: categories,
		images:     images,
		validator:  validator,
	}
}

// カテゴリの選択肢はリクエストごとにDBから取る
func (u *ProductUsecase) AddProductPage(ctx context.Context) (AddProductPageOutput, error) {
	cats, err := u.categories.ListAll(ctx)
	if err != nil {
		return AddProductPageOutput{}, NewInternalError(MsgDBError, err)
	}
	return AddProductPageOutput{Categories: cats}, nil
}

func (u *ProductUsecase) AdminCreateProduct(ctx context.Context, admin model.User, in CreateProductInput) (model.Product, error) {
	if admin.ID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if !admin.IsAdmin {
		return model.Product{}, ErrForbidden
	}

	draft, err := u.validator.ValidateCreateProduct(ctx, in)
	if err != nil {
		return model.Product{}, err
	}
	if in.Image == nil {
		return model.Product{}, NewValidationError([]FieldError{{Field: "image_file", Message: "This field is required."}})
	}

	filename, err := u.images.Save(ctx, draft.Slug, *in.Image)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidImage):
			return model.Product{}, NewValidationError([]FieldError{{Field: "image_file", Message: MsgImagesOnly}})
		case errors.Is(err, ErrImageTooLarge):
			return model.Product{}, NewValidationError([]FieldError{{Field: "image_file", Message: msgImageTooLarge}})
		default:
			return model.Product{}, NewInternalError(msgAddProductDBErr, err)
		}
	}

	var created model.Product

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		categoryID := draft.CategoryID
		p, err := r.Products().Create(ctx, model.Product{
			Name:          draft.Name,
			Slug:          draft.Slug,
			Description:   draft.Description,
			Price:         draft.Price,
			Stock:         draft.Stock,
			Available:     draft.Available,
			ImageFilename: &filename,
			CategoryID:    &categoryID,
		})
		if errors.Is(err, repo.ErrDuplicate) {
			return NewValidationError([]FieldError{{Field: "slug", Message: MsgSlugTaken}})
		}
		if err != nil {
			return NewInternalError(msgAddProductDBErr, err)
		}

		after, err := json.Marshal(p)
		if err != nil {
			return NewInternalError(msgAddProductDBErr, err)
		}

		//監査ログを作成（商品作成）
		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  admin.ID,
			Action:       model.AuditActionCreateProduct,
			ResourceType: model.AuditResourceProduct,
			ResourceID:   p.ID,
			AfterJSON:    string(after),
			CreatedAt:    time.Now(),
		}); err != nil {
			return NewInternalError(msgAddProductDBErr, err)
		}

		created = p
		return nil
	})

	if err != nil {
		//保存した画像は消す
		if rmErr := u.images.Remove(ctx, filename); rmErr != nil {
			zerolog.Ctx(ctx).Warn().Err(rmErr).Str("file", filename).Msg("failed to remove orphan image")
		}
		return model.Product{}, err
	}
	return created, nil
}
