package repository_test

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/productstack/internal/model"
	"github.com/tuanvumaihuynh/productstack/internal/repository"
	"github.com/tuanvumaihuynh/productstack/pkg/ptr"
)

func newProduct(t *testing.T, counters repository.CounterRepository, description string) model.Product {
	t.Helper()

	seq, err := counters.NextValue(context.Background(), repository.CounterProductID)
	require.NoError(t, err)

	return model.Product{
		ID:          uuid.Must(uuid.NewV7()),
		SequenceID:  seq,
		Title:       "A",
		Description: description,
		Price:       "10",
		Category:    "c",
		MainImage:   ptr.New("/uploads/1-1.jpg"),
		Gallery:     []string{"/uploads/2-2.jpg"},
	}
}

func TestCounterRepository(t *testing.T) {
	client := newTestDB(t)
	counters := repository.NewCounterRepository(client)

	t.Run("Should hand out 1..N without duplicates under concurrency", func(t *testing.T) {
		const n = 50

		var (
			mu     sync.Mutex
			wg     sync.WaitGroup
			values []int64
		)
		for range n {
			wg.Go(func() {
				v, err := counters.NextValue(context.Background(), "concurrency")
				assert.NoError(t, err)

				mu.Lock()
				values = append(values, v)
				mu.Unlock()
			})
		}
		wg.Wait()

		sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })
		require.Len(t, values, n)
		for i, v := range values {
			assert.Equal(t, int64(i+1), v)
		}
	})

	t.Run("Should keep sequences independent", func(t *testing.T) {
		v, err := counters.NextValue(context.Background(), "other")
		require.NoError(t, err)
		assert.Equal(t, int64(1), v)
	})
}

func TestProductRepository(t *testing.T) {
	ctx := context.Background()
	client := newTestDB(t)
	counters := repository.NewCounterRepository(client)
	products := repository.NewProductRepository(client)

	created, err := products.CreateProduct(ctx, newProduct(t, counters, "d1"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.SequenceID)
	assert.False(t, created.CreatedAt.IsZero())

	t.Run("Should reject a duplicate description", func(t *testing.T) {
		_, err := products.CreateProduct(ctx, newProduct(t, counters, "d1"))
		assert.ErrorIs(t, err, repository.ErrDuplicateDescription)

		_, err = products.CreateProduct(ctx, newProduct(t, counters, "d2"))
		assert.NoError(t, err)
	})

	t.Run("Should enforce uniqueness on long descriptions", func(t *testing.T) {
		var b strings.Builder
		for b.Len() < 4800 {
			b.WriteString(uuid.NewString())
		}
		long := b.String()

		_, err := products.CreateProduct(ctx, newProduct(t, counters, long))
		require.NoError(t, err)

		_, err = products.CreateProduct(ctx, newProduct(t, counters, long))
		assert.ErrorIs(t, err, repository.ErrDuplicateDescription)

		_, err = products.CreateProduct(ctx, newProduct(t, counters, long+"!"))
		assert.NoError(t, err)
	})

	t.Run("Should find the same record by internal and sequence id", func(t *testing.T) {
		byID, err := products.FindProductByExternalID(ctx, created.ID.String())
		require.NoError(t, err)

		bySeq, err := products.FindProductByExternalID(ctx, strconv.FormatInt(created.SequenceID, 10))
		require.NoError(t, err)

		assert.Equal(t, byID.ID, bySeq.ID)
		assert.Equal(t, "/uploads/1-1.jpg", *bySeq.MainImage)
		assert.Equal(t, []string{"/uploads/2-2.jpg"}, bySeq.Gallery)
	})

	t.Run("Should return not found for unknown ids", func(t *testing.T) {
		for _, id := range []string{uuid.NewString(), "999", "abc", "-1", ""} {
			_, err := products.FindProductByExternalID(ctx, id)
			assert.ErrorIs(t, err, repository.ErrNotFound, id)
		}
	})

	t.Run("Should update fields", func(t *testing.T) {
		p := created
		p.Title = "B"
		p.Discount = 15
		p.Gallery = nil

		updated, err := products.UpdateProduct(ctx, p)
		require.NoError(t, err)
		assert.Equal(t, "B", updated.Title)
		assert.Equal(t, 15.0, updated.Discount)
		assert.Equal(t, []string{}, updated.Gallery)
		assert.Equal(t, created.SequenceID, updated.SequenceID)
	})

	t.Run("Should report the true count on bulk delete", func(t *testing.T) {
		a, err := products.CreateProduct(ctx, newProduct(t, counters, "bulk-a"))
		require.NoError(t, err)
		b, err := products.CreateProduct(ctx, newProduct(t, counters, "bulk-b"))
		require.NoError(t, err)

		deleted, err := products.BulkDeleteProducts(ctx, []uuid.UUID{uuid.New(), uuid.New()})
		require.NoError(t, err)
		assert.Empty(t, deleted)

		deleted, err = products.BulkDeleteProducts(ctx, []uuid.UUID{a.ID, b.ID, uuid.New()})
		require.NoError(t, err)
		assert.Len(t, deleted, 2)
	})

	t.Run("Should delete by sequence id and never reuse it", func(t *testing.T) {
		p, err := products.CreateProduct(ctx, newProduct(t, counters, "to-delete"))
		require.NoError(t, err)

		deleted, err := products.DeleteProductByExternalID(ctx, fmt.Sprint(p.SequenceID))
		require.NoError(t, err)
		assert.Equal(t, p.ID, deleted.ID)

		_, err = products.DeleteProductByExternalID(ctx, p.ID.String())
		assert.ErrorIs(t, err, repository.ErrNotFound)

		next, err := counters.NextValue(ctx, repository.CounterProductID)
		require.NoError(t, err)
		assert.Greater(t, next, p.SequenceID)
	})
}
