package db_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/tuanvumaihuynh/productstack/internal/storage/db"
)

func TestIsUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert product: %w", &pgconn.PgError{
		Code:           "23505",
		ConstraintName: "products_description_key",
	})

	assert.True(t, db.IsUniqueViolation(err, ""))
	assert.True(t, db.IsUniqueViolation(err, "products_description_key"))
	assert.False(t, db.IsUniqueViolation(err, "users_email_key"))
	assert.False(t, db.IsUniqueViolation(errors.New("boom"), ""))
}

func TestIsUnavailable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), true},
		{"admin shutdown", &pgconn.PgError{Code: "57P01"}, true},
		{"connection failure", &pgconn.PgError{Code: "08006"}, true},
		{"unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"plain error", errors.New("syntax"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, db.IsUnavailable(tt.err))
		})
	}
}
