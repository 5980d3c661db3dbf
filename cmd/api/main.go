package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"likescan/adapters/api"
	"likescan/adapters/db/postgres"
	"likescan/app"
	"likescan/internal"
	"likescan/internal/config"
	"likescan/ports"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	logger := internal.DefaultLogger

	// persistence is optional: without DATABASE_URL the server evaluates
	// but keeps nothing
	var repo ports.ResultRepository
	if cfg.Database.URL != "" {
		db, err := postgres.Connect(cfg.Database.URL)
		if err != nil {
			logger.Error("database connection failed: %v", err)
			os.Exit(1)
		}
		defer db.Close()

		pgRepo := postgres.NewResultRepository(db)
		if err := pgRepo.Bootstrap(context.Background()); err != nil {
			logger.Error("schema bootstrap failed: %v", err)
			os.Exit(1)
		}
		repo = pgRepo
	} else {
		logger.Warn("DATABASE_URL not set, results will not be persisted")
	}

	evaluator := app.NewEvaluator(cfg.Evaluation, logger)
	server := api.NewServer(cfg.Server, evaluator, repo, logger)
	if err := server.Run(); err != nil {
		logger.Error("server failed: %v", err)
		os.Exit(1)
	}
}
