package usecase_test

import (
	"context"
	"testing"
	"time"

	"fashionshop/internal/domain/model"
	repo "fashionshop/internal/repository"
	"fashionshop/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =====================
// Mocks
// =====================

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepoMock) FindByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) IncrementTokenVersion(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type TokenIssuerMock struct{ mock.Mock }

func (m *TokenIssuerMock) Issue(user model.User, now time.Time) (string, time.Time, error) {
	args := m.Called(user, now)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

type AuthValidatorMock struct{ mock.Mock }

func (m *AuthValidatorMock) ValidateRegister(ctx context.Context, in usecase.RegisterInput) error {
	args := m.Called(ctx, in)
	return args.Error(0)
}

func (m *AuthValidatorMock) ValidateLogin(ctx context.Context, in usecase.LoginInput) error {
	args := m.Called(ctx, in)
	return args.Error(0)
}

type ImageStoreMock struct{ mock.Mock }

func (m *ImageStoreMock) Save(ctx context.Context, slug string, img usecase.ImageUpload) (string, error) {
	args := m.Called(ctx, slug, img)
	return args.String(0), args.Error(1)
}

func (m *ImageStoreMock) Remove(ctx context.Context, filename string) error {
	args := m.Called(ctx, filename)
	return args.Error(0)
}

type ProductValidatorMock struct{ mock.Mock }

func (m *ProductValidatorMock) ValidateCreateProduct(ctx context.Context, in usecase.CreateProductInput) (usecase.ProductDraft, error) {
	args := m.Called(ctx, in)
	d, _ := args.Get(0).(usecase.ProductDraft)
	return d, args.Error(1)
}

type CatalogProductRepoMock struct{ mock.Mock }

func (m *CatalogProductRepoMock) ListAvailable(ctx context.Context, q repo.ProductListQuery) ([]model.Product, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *CatalogProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *CatalogProductRepoMock) FindBySlug(ctx context.Context, slug string) (model.Product, error) {
	args := m.Called(ctx, slug)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *CatalogProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	panic("not used in CatalogUsecase tests")
}

var (
	_ repo.UserRepository      = (*UserRepoMock)(nil)
	_ repo.ProductRepository   = (*CatalogProductRepoMock)(nil)
	_ usecase.TokenIssuer      = (*TokenIssuerMock)(nil)
	_ usecase.AuthValidator    = (*AuthValidatorMock)(nil)
	_ usecase.ImageStore       = (*ImageStoreMock)(nil)
	_ usecase.ProductValidator = (*ProductValidatorMock)(nil)
)

// =====================
// helper
// =====================

func requireHTTPError(t *testing.T, err error, status int) *usecase.HTTPError {
	t.Helper()
	require.Error(t, err)
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok, "expected *HTTPError, got %T: %v", err, err)
	assert.Equal(t, status, he.Status, he.Message)
	return he
}

func fieldMessages(he *usecase.HTTPError, field string) []string {
	var out []string
	for _, fe := range he.Fields {
		if fe.Field == field {
			out = append(out, fe.Message)
		}
	}
	return out
}
