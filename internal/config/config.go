package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"

	devJWTSecret = "dev_secret_change_me"
)

// Configはアプリ全体の設定
type Config struct {
	Port     string // サーバーポート（8080）
	GoEnv    string // development/production
	LogLevel string // debug/info/warn/error

	DB DBConfig

	JWTSecret    string        // セッショントークン署名シークレット
	SessionTTL   time.Duration // セッションcookieの有効期限
	CookieSecure bool

	UploadDir      string // 商品画像の保存先
	MaxUploadBytes int64  // リクエストボディの上限（16MB）

	SeedFile string // 起動時に流すseed（空なら何もしない）
}

// DBの接続設定。DatabaseURLがあれば最優先。
type DBConfig struct {
	Driver      string // postgres / mysql
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	Name        string
	SSLMode     string
}

// Addrはlisten用のアドレス（":8080"）
func (c Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

func (c Config) IsDevelopment() bool {
	return c.GoEnv == EnvDevelopment
}

// Loadは環境変数（.envはmainでgodotenvが読み込み済み）から設定を作る
func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := Config{
		Port:     v.GetString("PORT"),
		GoEnv:    strings.ToLower(v.GetString("GO_ENV")),
		LogLevel: v.GetString("LOG_LEVEL"),

		DB: DBConfig{
			Driver:      strings.ToLower(v.GetString("DB_DRIVER")),
			DatabaseURL: v.GetString("DATABASE_URL"),
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetInt("DB_PORT"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASSWORD"),
			Name:        v.GetString("DB_NAME"),
			SSLMode:     v.GetString("DB_SSLMODE"),
		},

		JWTSecret:    v.GetString("JWT_SECRET"),
		SessionTTL:   v.GetDuration("SESSION_TTL"),
		CookieSecure: v.GetBool("COOKIE_SECURE"),

		UploadDir:      v.GetString("UPLOAD_DIR"),
		MaxUploadBytes: v.GetInt64("MAX_UPLOAD_BYTES"),

		SeedFile: v.GetString("SEED_FILE"),
	}

	//DB_PORTはドライバごとに既定値が違う
	if cfg.DB.Port == 0 {
		cfg.DB.Port = 5432
		if cfg.DB.Driver == DriverMySQL {
			cfg.DB.Port = 3306
		}
	}

	//開発環境だけ固定シークレットを許す
	if cfg.JWTSecret == "" && cfg.IsDevelopment() {
		cfg.JWTSecret = devJWTSecret
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("GO_ENV", EnvDevelopment)
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "fashion_shop")
	v.SetDefault("DB_SSLMODE", "disable")

	v.SetDefault("SESSION_TTL", 24*time.Hour)
	v.SetDefault("COOKIE_SECURE", false)

	v.SetDefault("UPLOAD_DIR", "static/images/products")
	v.SetDefault("MAX_UPLOAD_BYTES", 16*1024*1024)
}

// 必須チェック
func (c Config) validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.DB.Driver != DriverPostgres && c.DB.Driver != DriverMySQL {
		return fmt.Errorf("DB_DRIVER must be %q or %q", DriverPostgres, DriverMySQL)
	}
	if c.DB.DatabaseURL == "" && c.DB.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if !c.IsDevelopment() && c.JWTSecret == devJWTSecret {
		return fmt.Errorf("JWT_SECRET must be changed outside development")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.UploadDir == "" {
		return fmt.Errorf("UPLOAD_DIR is required")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	return nil
}
