package token

import (
	"errors"
	"strconv"
	"time"

	"fashionshop/internal/domain/model"

	"github.com/golang-jwt/jwt/v4"
)

var ErrInvalidToken = errors.New("invalid token")

// セッションJWTのclaims
type Claims struct {
	Admin        bool `json:"adm"`
	TokenVersion int  `json:"tv"`
	jwt.RegisteredClaims
}

// 検証済みのセッション
type Session struct {
	UserID       int64
	Admin        bool
	TokenVersion int
	ExpiresAt    time.Time
}

// HS256で署名/検証する
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewJWTIssuer(secret string, ttl time.Duration) *JWTIssuer {
	return &JWTIssuer{secret: []byte(secret), ttl: ttl}
}

func (i *JWTIssuer) Issue(user model.User, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.ttl)

	claims := Claims{
		Admin:        user.IsAdmin,
		TokenVersion: user.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

// 署名/期限/subを確認する
func (i *JWTIssuer) Parse(raw string) (Session, error) {
	var claims Claims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return i.secret, nil
	})
	if err != nil || tok == nil || !tok.Valid {
		return Session{}, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return Session{}, ErrInvalidToken
	}
	if claims.TokenVersion < 0 || claims.ExpiresAt == nil {
		return Session{}, ErrInvalidToken
	}

	return Session{
		UserID:       userID,
		Admin:        claims.Admin,
		TokenVersion: claims.TokenVersion,
		ExpiresAt:    claims.ExpiresAt.Time,
	}, nil
}
