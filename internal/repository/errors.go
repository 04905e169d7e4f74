package repository

import "errors"

// 見つからないを統一
var ErrNotFound = errors.New("not found")

// unique制約違反（username / email / slug など）
var ErrDuplicate = errors.New("duplicate")
