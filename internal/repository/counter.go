package repository

import (
	"context"
	"fmt"

	"github.com/tuanvumaihuynh/productstack/internal/storage/db"
)

// CounterProductID is the sequence product sequence ids are drawn from.
const CounterProductID = "productId"

type CounterRepository interface {
	WithDB(db db.DB) CounterRepository
	// NextValue increments the named counter and returns the new value. The
	// counter is created at 1 on first use.
	NextValue(ctx context.Context, name string) (int64, error)
}

type counterRepository struct {
	db db.DB
}

func NewCounterRepository(db db.DB) CounterRepository {
	return &counterRepository{db: db}
}

func (r counterRepository) WithDB(db db.DB) CounterRepository {
	return &counterRepository{db: db}
}

func (r counterRepository) NextValue(ctx context.Context, name string) (int64, error) {
	// Increment and read in one statement; the row lock taken by the upsert
	// serializes concurrent callers.
	var value int64
	if err := r.db.QueryRow(ctx, `
		INSERT INTO counters (name, value)
		VALUES ($1, 1)
		ON CONFLICT (name) DO UPDATE SET value = counters.value + 1
		RETURNING value
	`, name).Scan(&value); err != nil {
		return 0, fmt.Errorf("upsert counter %q: %w", name, err)
	}

	return value, nil
}
