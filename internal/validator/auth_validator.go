package validator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"fashionshop/internal/repository"
	"fashionshop/internal/usecase"
)

const (
	usernameMinLen = 4
	usernameMaxLen = 20
	passwordMinLen = 6
	// users.emailの列幅
	emailMaxLen = 120
)

type authValidator struct {
	users repository.UserRepository
}

// Usecaseは interface を依存注入
func NewAuthValidator(users repository.UserRepository) usecase.AuthValidator {
	return &authValidator{users: users}
}

// 会員登録の入力を検証（重複チェックはDBを見る）
func (v *authValidator) ValidateRegister(ctx context.Context, in usecase.RegisterInput) error {
	var f fieldErrors

	username := strings.TrimSpace(in.Username)
	if username == "" {
		f.add("username", msgRequired)
	} else if n := utf8.RuneCountInString(username); n < usernameMinLen || n > usernameMaxLen {
		f.add("username", fmt.Sprintf("Field must be between %d and %d characters long.", usernameMinLen, usernameMaxLen))
	}

	f.requiredEmail("email", in.Email)
	if !f.has("email") {
		f.maxLen("email", strings.TrimSpace(in.Email), emailMaxLen)
	}

	if in.Password == "" {
		f.add("password", msgRequired)
	} else if utf8.RuneCountInString(in.Password) < passwordMinLen {
		f.add("password", fmt.Sprintf("Field must be at least %d characters long.", passwordMinLen))
	}

	if in.ConfirmPassword == "" {
		f.add("confirm_password", msgRequired)
	} else if in.ConfirmPassword != in.Password {
		f.add("confirm_password", "Passwords must match")
	}

	// 形式が正しいときだけ重複を見る
	if !f.has("username") {
		taken, err := v.usernameTaken(ctx, username)
		if err != nil {
			return err
		}
		if taken {
			f.add("username", usecase.MsgUsernameTaken)
		}
	}
	if !f.has("email") {
		taken, err := v.emailTaken(ctx, strings.TrimSpace(in.Email))
		if err != nil {
			return err
		}
		if taken {
			f.add("email", usecase.MsgEmailTaken)
		}
	}

	return f.err()
}

// ログインの入力を検証
func (v *authValidator) ValidateLogin(ctx context.Context, in usecase.LoginInput) error {
	var f fieldErrors
	if strings.TrimSpace(in.Username) == "" {
		f.add("username", msgRequired)
	}
	if in.Password == "" {
		f.add("password", msgRequired)
	}
	return f.err()
}

func (v *authValidator) usernameTaken(ctx context.Context, username string) (bool, error) {
	_, err := v.users.FindByUsername(ctx, username)
	return found(err)
}

func (v *authValidator) emailTaken(ctx context.Context, email string) (bool, error) {
	_, err := v.users.FindByEmail(ctx, email)
	return found(err)
}

func found(err error) (bool, error) {
	if err == nil {
		return true, nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	return false, usecase.NewInternalError(usecase.MsgDBError, err)
}
