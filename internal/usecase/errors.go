package usecase

import (
	"errors"
	"fmt"
	"net/http"
)

// フォームの1項目ぶんのエラー
type FieldError struct {
	Field   string
	Message string
}

// usecaseが返すエラー。handlerはStatusを見てリダイレクト/エラーページを選ぶ。
type HTTPError struct {
	Status  int
	Message string
	// 入力チェックのエラー（フォームの順番）
	Fields []FieldError
	// ログ用。利用者には見せない
	Cause error
}

func (e *HTTPError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%d: %s: %v", e.Status, e.Message, e.Cause)
	}
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func (e *HTTPError) Unwrap() error {
	return e.Cause
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

// 400 + 項目ごとのエラー
func NewValidationError(fields []FieldError) error {
	return &HTTPError{
		Status:  http.StatusBadRequest,
		Message: "validation error",
		Fields:  fields,
	}
}

// 500。messageは利用者向けの汎用文言
func NewInternalError(message string, cause error) error {
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Message: message,
		Cause:   cause,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

var (
	ErrNotFound  = NewHTTPError(http.StatusNotFound, "not found")
	ErrForbidden = NewHTTPError(http.StatusForbidden, "forbidden")
	// チェックアウト前にカートが空
	ErrCartEmpty = NewHTTPError(http.StatusBadRequest, "Your cart is empty!")
)

// 画像ストレージが返すエラー
var (
	ErrInvalidImage  = errors.New("invalid image")
	ErrImageTooLarge = errors.New("image too large")
)

const MsgDBError = "Something went wrong. Please try again."
