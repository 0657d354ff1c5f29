package repository_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/productstack/internal/model"
	"github.com/tuanvumaihuynh/productstack/internal/repository"
)

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	users := repository.NewUserRepository(newTestDB(t))

	created, err := users.CreateUser(ctx, model.User{
		ID:           uuid.Must(uuid.NewV7()),
		Name:         "Ann",
		Email:        "Ann@Example.com",
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", created.Email)

	got, err := users.GetUserByEmail(ctx, "ANN@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = users.CreateUser(ctx, model.User{ID: uuid.New(), Name: "x", Email: "ann@example.com", PasswordHash: "h"})
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)

	_, err = users.GetUserByID(ctx, uuid.New())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
