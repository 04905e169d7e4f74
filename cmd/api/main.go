package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fashionshop/internal/config"
	"fashionshop/internal/handler"
	"fashionshop/internal/infra/db"
	infraRepo "fashionshop/internal/infra/repository"
	"fashionshop/internal/infra/storage"
	"fashionshop/internal/infra/token"
	"fashionshop/internal/logger"
	"fashionshop/internal/seed"
	"fashionshop/internal/server"
	"fashionshop/internal/usecase"
	"fashionshop/internal/validator"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
)

const (
	// bcryptのcost
	passwordCost    = 12
	shutdownTimeout = 10 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	//.envは無くてもよい
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(logger.Config{Env: cfg.GoEnv, Level: cfg.LogLevel})

	//DB接続
	gormDB, err := db.Connect(cfg.DB, log)
	if err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}

	if err := db.Migrate(gormDB); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	categoryRepo := infraRepo.NewCategoryGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	txm := infraRepo.NewTxManagerGorm(gormDB)

	hasher := usecase.NewBcryptPasswordHasher(passwordCost)

	if cfg.SeedFile != "" {
		f, err := seed.Load(cfg.SeedFile)
		if err != nil {
			return err
		}
		res, err := seed.NewApplier(categoryRepo, userRepo, hasher, log).Apply(context.Background(), f)
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		log.Info().Int("categories", res.CategoriesCreated).Int("users", res.UsersCreated).Msg("seed applied")
	}

	images, err := storage.NewLocalImageStore(cfg.UploadDir, cfg.MaxUploadBytes)
	if err != nil {
		return err
	}
	issuer := token.NewJWTIssuer(cfg.JWTSecret, cfg.SessionTTL)

	//Usecase生成
	catalogUC := usecase.NewCatalogUsecase(productRepo, categoryRepo)
	authUC := usecase.NewAuthUsecase(userRepo, hasher, issuer, validator.NewAuthValidator(userRepo))
	cartUC := usecase.NewCartUsecase(txm, cartRepo)
	orderUC := usecase.NewOrderUsecase(txm, cartRepo, userRepo, validator.NewCheckoutValidator())
	productUC := usecase.NewProductUsecase(txm, categoryRepo, images,
		validator.NewProductValidator(productRepo, categoryRepo))

	//Handler生成
	e := server.New(cfg, log, userRepo, issuer, server.Handlers{
		Product:      handler.NewProductHandler(catalogUC),
		Auth:         handler.NewAuthHandler(authUC, cfg.CookieSecure),
		Cart:         handler.NewCartHandler(cartUC),
		Order:        handler.NewOrderHandler(orderUC),
		AdminProduct: handler.NewAdminProductHandler(productUC),
	})

	//Server起動
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr()).Str("env", cfg.GoEnv).Msg("server starting")
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		_ = sqlDB.Close()
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	return shutdown(e, sqlDB, shutdownTimeout)
}

// HTTPサーバーを止めてからDBを閉じる
func shutdown(e *echo.Echo, sqlDB io.Closer, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	err := e.Shutdown(ctx)
	if cerr := sqlDB.Close(); err == nil {
		err = cerr
	}
	return err
}
