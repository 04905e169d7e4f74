package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"fashionshop/internal/domain/model"
	repo "fashionshop/internal/repository"
)

const (
	MsgUsernameTaken = "That username is taken. Please choose a different one."
	MsgEmailTaken    = "That email is taken. Please choose a different one."
	msgLoginFailed   = "Login Unsuccessful. Please check username and password"
)

// usecaseがValidatorInterfaceに依存する約束
type AuthValidator interface {
	ValidateRegister(ctx context.Context, in RegisterInput) error
	ValidateLogin(ctx context.Context, in LoginInput) error
}

// セッション用トークンを作る
type TokenIssuer interface {
	Issue(user model.User, now time.Time) (string, time.Time, error)
}

type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

type LoginInput struct {
	Username string
	Password string
}

type LoginResult struct {
	User      model.User
	Token     string
	ExpiresAt time.Time
}

type AuthUsecase struct {
	users     repo.UserRepository
	hasher    PasswordHasher
	tokens    TokenIssuer
	validator AuthValidator
	now       func() time.Time
}

func NewAuthUsecase(
	users repo.UserRepository,
	hasher PasswordHasher,
	tokens TokenIssuer,
	validator AuthValidator,
) *AuthUsecase {
	return &AuthUsecase{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		validator: validator,
		now:       time.Now,
	}
}

// 会員登録。パスワードはハッシュだけ保存する
func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (model.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	if err := u.validator.ValidateRegister(ctx, in); err != nil {
		return model.User{}, err
	}

	hash, err := u.hasher.Hash(in.Password)
	if err != nil {
		return model.User{}, NewInternalError(MsgDBError, err)
	}

	user := &model.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
	}

	if err := u.users.Create(ctx, user); err != nil {
		//チェック後に同時登録された場合
		if errors.Is(err, repo.ErrDuplicate) {
			return model.User{}, u.duplicateError(ctx, in)
		}
		return model.User{}, NewInternalError(MsgDBError, err)
	}

	return *user, nil
}

func (u *AuthUsecase) duplicateError(ctx context.Context, in RegisterInput) error {
	if _, err := u.users.FindByUsername(ctx, in.Username); err == nil {
		return NewValidationError([]FieldError{{Field: "username", Message: MsgUsernameTaken}})
	}
	return NewValidationError([]FieldError{{Field: "email", Message: MsgEmailTaken}})
}

// ログイン。成功したらセッション用のJWTを返す
func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (LoginResult, error) {
	in.Username = strings.TrimSpace(in.Username)

	if err := u.validator.ValidateLogin(ctx, in); err != nil {
		return LoginResult{}, err
	}

	user, err := u.users.FindByUsername(ctx, in.Username)
	if errors.Is(err, repo.ErrNotFound) {
		return LoginResult{}, NewHTTPError(http.StatusUnauthorized, msgLoginFailed)
	}
	if err != nil {
		return LoginResult{}, NewInternalError(MsgDBError, err)
	}

	ok, err := u.hasher.Verify(user.PasswordHash, in.Password)
	if err != nil || !ok {
		//壊れたハッシュも失敗扱い
		return LoginResult{}, NewHTTPError(http.StatusUnauthorized, msgLoginFailed)
	}

	token, exp, err := u.tokens.Issue(*user, u.now())
	if err != nil {
		return LoginResult{}, NewInternalError(MsgDBError, err)
	}

	return LoginResult{User: *user, Token: token, ExpiresAt: exp}, nil
}

// token_versionを上げて発行済みのセッションを全部無効にする
func (u *AuthUsecase) Logout(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := u.users.IncrementTokenVersion(ctx, userID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusUnauthorized, "unauthorized")
		}
		return NewInternalError(MsgDBError, err)
	}
	return nil
}

func (u *AuthUsecase) Profile(ctx context.Context, userID int64) (model.User, error) {
	user, err := u.users.FindByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, NewInternalError(MsgDBError, err)
	}
	return *user, nil
}
