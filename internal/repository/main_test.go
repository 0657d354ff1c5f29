package repository_test

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/productstack/internal/storage/db"
)

// newTestDB connects to POSTGRES_TEST_URL, migrates it and empties every table.
// Tests are skipped when the variable is not set.
func newTestDB(t *testing.T) *db.Client {
	t.Helper()

	url := os.Getenv("POSTGRES_TEST_URL")
	if url == "" {
		t.Skip("POSTGRES_TEST_URL is not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	res, err := db.Migrate(pool)
	require.NoError(t, err)
	require.Positive(t, res.To)

	again, err := db.Migrate(pool)
	require.NoError(t, err)
	require.False(t, again.Applied())

	_, err = pool.Exec(ctx, `TRUNCATE products, counters, users, outbox_messages`)
	require.NoError(t, err)

	return db.NewClient(pool)
}
