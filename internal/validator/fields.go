package validator

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"fashionshop/internal/usecase"
)

const (
	msgRequired     = "This field is required."
	msgInvalidEmail = "Invalid email address."
)

// 項目ごとのエラーを順番どおりに集める
type fieldErrors struct {
	list []usecase.FieldError
}

func (f *fieldErrors) add(field string, msg string) {
	f.list = append(f.list, usecase.FieldError{Field: field, Message: msg})
}

// fieldにエラーが1つでもあるか
func (f *fieldErrors) has(field string) bool {
	for _, fe := range f.list {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// エラーが無ければnil
func (f *fieldErrors) err() error {
	if len(f.list) == 0 {
		return nil
	}
	return usecase.NewValidationError(f.list)
}

// 必須 + 最大文字数
func (f *fieldErrors) requiredMax(field string, v string, max int) {
	if strings.TrimSpace(v) == "" {
		f.add(field, msgRequired)
		return
	}
	f.maxLen(field, v, max)
}

func (f *fieldErrors) maxLen(field string, v string, max int) {
	if utf8.RuneCountInString(v) > max {
		f.add(field, fmt.Sprintf("Field cannot be longer than %d characters.", max))
	}
}

func (f *fieldErrors) requiredEmail(field string, v string) {
	v = strings.TrimSpace(v)
	if v == "" {
		f.add(field, msgRequired)
		return
	}
	if !isEmailLike(v) {
		f.add(field, msgInvalidEmail)
	}
}

// 簡易メール形式をチェック（表示名つきは不可）
func isEmailLike(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	at := strings.LastIndex(s, "@")
	return at > 0 && strings.Contains(s[at+1:], ".")
}
