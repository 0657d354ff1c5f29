package db

import (
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// MigrationResult reports the schema version before and after Migrate.
type MigrationResult struct {
	From int64
	To   int64
}

// Applied reports whether any migration ran.
func (r MigrationResult) Applied() bool {
	return r.To != r.From
}

// Migrate applies every pending migration embedded in the binary.
func Migrate(pool *pgxpool.Pool) (MigrationResult, error) {
	sqlDB := stdlib.OpenDBFromPool(pool)
	defer sqlDB.Close()

	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return MigrationResult{}, fmt.Errorf("set goose dialect: %w", err)
	}

	from, err := goose.EnsureDBVersion(sqlDB)
	if err != nil {
		return MigrationResult{}, fmt.Errorf("read schema version: %w", err)
	}

	if err := goose.Up(sqlDB, "migrations"); err != nil {
		return MigrationResult{}, fmt.Errorf("goose up: %w", err)
	}

	to, err := goose.GetDBVersion(sqlDB)
	if err != nil {
		return MigrationResult{}, fmt.Errorf("read schema version: %w", err)
	}

	return MigrationResult{From: from, To: to}, nil
}
