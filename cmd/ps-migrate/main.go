package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/tuanvumaihuynh/productstack/internal/config"
	"github.com/tuanvumaihuynh/productstack/internal/log"
	"github.com/tuanvumaihuynh/productstack/internal/storage/db"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("error running migrate application: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	time.Local = time.UTC

	type Config struct {
		Log      config.Log
		Postgres config.Postgres
	}
	cfg, err := config.New[Config]()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	if cfg.Log.App == "" {
		cfg.Log.App = "ps-migrate"
	}
	logger := log.NewSlogLogger(cfg.Log).With(
		slog.String("postgres_host", cfg.Postgres.Host),
		slog.String("postgres_db", cfg.Postgres.DB),
	)

	pgxPool, err := db.NewPgxPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("error creating pgx pool: %w", err)
	}
	defer pgxPool.Close()

	logger.InfoContext(ctx, "migrating product catalog schema")

	res, err := db.Migrate(pgxPool)
	if err != nil {
		return fmt.Errorf("error migrating database: %w", err)
	}

	if !res.Applied() {
		logger.InfoContext(ctx, "schema already up to date", slog.Int64("version", res.To))
		return nil
	}

	logger.InfoContext(ctx, "schema migrated",
		slog.Int64("from_version", res.From),
		slog.Int64("to_version", res.To),
	)

	return nil
}
