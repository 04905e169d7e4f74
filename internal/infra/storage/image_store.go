package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"fashionshop/internal/domain/slug"
	"fashionshop/internal/usecase"

	"github.com/google/uuid"
)

// 中身を判定するために先頭を読むバイト数
const sniffLen = 512

// 拡張子 -> 許可するContent-Type
var allowedTypes = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
}

// 商品画像をローカルディレクトリに保存する
type LocalImageStore struct {
	dir      string
	maxBytes int64
}

func NewLocalImageStore(dir string, maxBytes int64) (*LocalImageStore, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalImageStore{dir: abs, maxBytes: maxBytes}, nil
}

// <slug>-<uuid>.<ext> で保存してファイル名を返す。
// 元のファイル名は拡張子しか使わない。
func (s *LocalImageStore) Save(ctx context.Context, productSlug string, img usecase.ImageUpload) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(img.Filename), "."))
	wantType, ok := allowedTypes[ext]
	if !ok {
		return "", usecase.ErrInvalidImage
	}
	if s.maxBytes > 0 && img.Size > s.maxBytes {
		return "", usecase.ErrImageTooLarge
	}

	//先頭を読んで本当に画像か確かめる
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(img.Content, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	head = head[:n]
	if n == 0 || http.DetectContentType(head) != wantType {
		return "", usecase.ErrInvalidImage
	}

	base := slug.Make(productSlug)
	if base == "" {
		base = "product"
	}
	name := fmt.Sprintf("%s-%s.%s", base, uuid.NewString(), ext)

	path, err := s.pathFor(name)
	if err != nil {
		return "", err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", err
	}

	src := io.MultiReader(bytes.NewReader(head), img.Content)
	if s.maxBytes > 0 {
		src = io.LimitReader(src, s.maxBytes+1)
	}
	written, copyErr := io.Copy(f, src)
	closeErr := f.Close()

	if copyErr == nil && s.maxBytes > 0 && written > s.maxBytes {
		copyErr = usecase.ErrImageTooLarge
	}
	if copyErr == nil {
		copyErr = closeErr
	}
	if copyErr != nil {
		_ = os.Remove(path)
		return "", copyErr
	}

	return name, nil
}

// 無ければ何もしない
func (s *LocalImageStore) Remove(ctx context.Context, filename string) error {
	path, err := s.pathFor(filename)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// ディレクトリの外を指すファイル名は拒否
func (s *LocalImageStore) pathFor(name string) (string, error) {
	if name == "" || filepath.Base(name) != name {
		return "", fmt.Errorf("invalid image filename %q", name)
	}
	path := filepath.Join(s.dir, name)
	rel, err := filepath.Rel(s.dir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", fmt.Errorf("invalid image filename %q", name)
	}
	return path, nil
}

var _ usecase.ImageStore = (*LocalImageStore)(nil)
