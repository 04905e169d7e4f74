// Package seed はYAMLの初期データ（カテゴリ、管理者）を投入する。
package seed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"fashionshop/internal/domain/model"
	"fashionshop/internal/domain/slug"
	repo "fashionshop/internal/repository"
	"fashionshop/internal/usecase"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

type File struct {
	Categories []Category `yaml:"categories"`
	Users      []User     `yaml:"users"`
}

type Category struct {
	Name string `yaml:"name"`
	// 空ならnameから作る
	Slug string `yaml:"slug"`
}

type User struct {
	Username string `yaml:"username"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	IsAdmin  bool   `yaml:"is_admin"`
}

type Result struct {
	CategoriesCreated int
	UsersCreated      int
}

func Load(path string) (*File, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}

func Parse(b []byte) (*File, error) {
	f := &File{}
	if err := yaml.Unmarshal(b, f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	for i, c := range f.Categories {
		if strings.TrimSpace(c.Name) == "" {
			return nil, fmt.Errorf("categories[%d]: name is required", i)
		}
		if c.Slug == "" {
			f.Categories[i].Slug = slug.Make(c.Name)
		} else if !slug.Valid(c.Slug) {
			return nil, fmt.Errorf("categories[%d]: invalid slug %q", i, c.Slug)
		}
	}
	for i, u := range f.Users {
		if u.Username == "" || u.Email == "" || u.Password == "" {
			return nil, fmt.Errorf("users[%d]: username, email and password are required", i)
		}
	}
	return f, nil
}

// Applier は既にあるslug/usernameは飛ばすので何回流してもよい。
type Applier struct {
	categories repo.CategoryRepository
	users      repo.UserRepository
	hasher     usecase.PasswordHasher
	log        zerolog.Logger
}

func NewApplier(categories repo.CategoryRepository, users repo.UserRepository, hasher usecase.PasswordHasher, log zerolog.Logger) *Applier {
	return &Applier{categories: categories, users: users, hasher: hasher, log: log}
}

func (a *Applier) Apply(ctx context.Context, f *File) (Result, error) {
	var res Result

	for _, c := range f.Categories {
		_, err := a.categories.FindBySlug(ctx, c.Slug)
		if err == nil {
			continue
		}
		if !errors.Is(err, repo.ErrNotFound) {
			return res, err
		}
		if _, err := a.categories.Create(ctx, model.Category{Name: c.Name, Slug: c.Slug}); err != nil {
			if errors.Is(err, repo.ErrDuplicate) {
				continue
			}
			return res, fmt.Errorf("create category %q: %w", c.Slug, err)
		}
		res.CategoriesCreated++
		a.log.Info().Str("slug", c.Slug).Msg("seeded category")
	}

	for _, u := range f.Users {
		_, err := a.users.FindByUsername(ctx, u.Username)
		if err == nil {
			continue
		}
		if !errors.Is(err, repo.ErrNotFound) {
			return res, err
		}

		hash, err := a.hasher.Hash(u.Password)
		if err != nil {
			return res, err
		}
		if err := a.users.Create(ctx, &model.User{
			Username:     u.Username,
			Email:        u.Email,
			PasswordHash: hash,
			IsAdmin:      u.IsAdmin,
		}); err != nil {
			if errors.Is(err, repo.ErrDuplicate) {
				continue
			}
			return res, fmt.Errorf("create user %q: %w", u.Username, err)
		}
		res.UsersCreated++
		a.log.Info().Str("username", u.Username).Bool("admin", u.IsAdmin).Msg("seeded user")
	}

	return res, nil
}
