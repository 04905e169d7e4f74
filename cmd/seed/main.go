package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"fashionshop/internal/config"
	"fashionshop/internal/infra/db"
	infraRepo "fashionshop/internal/infra/repository"
	"fashionshop/internal/logger"
	"fashionshop/internal/seed"
	"fashionshop/internal/usecase"

	"github.com/joho/godotenv"
)

func main() {
	path := flag.String("file", "seed.yaml", "seed file (YAML)")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.GoEnv, Level: cfg.LogLevel})

	f, err := seed.Load(*path)
	if err != nil {
		log.Fatal().Err(err).Str("file", *path).Msg("load seed file")
	}

	gormDB, err := db.Connect(cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("connect db")
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("db handle")
	}
	defer sqlDB.Close()

	if err := db.Migrate(gormDB); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}

	applier := seed.NewApplier(
		infraRepo.NewCategoryGormRepository(gormDB),
		infraRepo.NewUserGormRepository(gormDB),
		usecase.NewBcryptPasswordHasher(12),
		log,
	)
	res, err := applier.Apply(context.Background(), f)
	if err != nil {
		log.Fatal().Err(err).Msg("apply seed")
	}
	log.Info().Int("categories", res.CategoriesCreated).Int("users", res.UsersCreated).Msg("seed done")
}
