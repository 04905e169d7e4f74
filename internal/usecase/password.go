package usecase

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// 平文パスワード <-> ハッシュ
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(hash string, plain string) (bool, error)
}

type BcryptPasswordHasher struct {
	cost int
}

// cost<=0ならbcrypt.DefaultCost
func NewBcryptPasswordHasher(cost int) *BcryptPasswordHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptPasswordHasher{cost: cost}
}

func (h *BcryptPasswordHasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// 不一致は(false, nil)
func (h *BcryptPasswordHasher) Verify(hash string, plain string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, err
}
