package db

import (
	"errors"
	"fmt"
	"testing"

	"fashionshop/internal/config"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, IsUniqueViolation(nil))
	assert.False(t, IsUniqueViolation(errors.New("boom")))

	assert.True(t, IsUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, IsUniqueViolation(fmt.Errorf("create user: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.True(t, IsUniqueViolation(&gomysql.MySQLError{Number: 1062, Message: "Duplicate entry"}))
	assert.False(t, IsUniqueViolation(&gomysql.MySQLError{Number: 1452}))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(fmt.Errorf("find: %w", gorm.ErrRecordNotFound)))
	assert.False(t, IsNotFound(errors.New("other")))
}

func TestPostgresDSN(t *testing.T) {
	cfg := config.DBConfig{Host: "db", Port: 5433, User: "u", Password: "p", Name: "shop", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=shop sslmode=disable", PostgresDSN(cfg))

	cfg.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", PostgresDSN(cfg))
}

func TestMySQLDSN(t *testing.T) {
	cfg := config.DBConfig{Host: "127.0.0.1", Port: 3306, User: "flask_user", Password: "Trinath@3", Name: "fashion_shop_db"}

	dsn := MySQLDSN(cfg)
	parsed, err := gomysql.ParseDSN(dsn)
	require.NoError(t, err)

	assert.Equal(t, "flask_user", parsed.User)
	assert.Equal(t, "Trinath@3", parsed.Passwd)
	assert.Equal(t, "127.0.0.1:3306", parsed.Addr)
	assert.Equal(t, "fashion_shop_db", parsed.DBName)
	assert.True(t, parsed.ParseTime)
}

func TestDialector_Unsupported(t *testing.T) {
	_, err := Dialector(config.DBConfig{Driver: "sqlite"})
	assert.Error(t, err)
}
