package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tuanvumaihuynh/productstack/internal/model"
	"github.com/tuanvumaihuynh/productstack/internal/storage/db"
)

type UserRepository interface {
	WithDB(db db.DB) UserRepository
	CreateUser(ctx context.Context, user model.User) (model.User, error)
	// GetUserByEmail matches the lowercased email.
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (model.User, error)
}

type userRow struct {
	ID           uuid.UUID `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

type userRepository struct {
	db db.DB
}

func NewUserRepository(db db.DB) UserRepository {
	return &userRepository{db: db}
}

func (r userRepository) WithDB(db db.DB) UserRepository {
	return &userRepository{db: db}
}

func (r userRepository) CreateUser(ctx context.Context, user model.User) (model.User, error) {
	created, err := r.queryOne(ctx, `
		INSERT INTO users (id, name, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, name, email, password_hash, created_at
	`, user.ID, user.Name, strings.ToLower(user.Email), user.PasswordHash)
	if err != nil {
		return model.User{}, fmt.Errorf("insert user: %w", err)
	}

	return created, nil
}

func (r userRepository) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	user, err := r.queryOne(ctx, `
		SELECT id, name, email, password_hash, created_at FROM users WHERE email = $1
	`, strings.ToLower(email))
	if err != nil {
		return model.User{}, fmt.Errorf("get user by email: %w", err)
	}

	return user, nil
}

func (r userRepository) GetUserByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	user, err := r.queryOne(ctx, `
		SELECT id, name, email, password_hash, created_at FROM users WHERE id = $1
	`, id)
	if err != nil {
		return model.User{}, fmt.Errorf("get user by id: %w", err)
	}

	return user, nil
}

func (r userRepository) queryOne(ctx context.Context, sql string, args ...any) (model.User, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return model.User{}, mapUserErr(err)
	}

	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[userRow])
	if err != nil {
		return model.User{}, mapUserErr(err)
	}

	return model.User(row), nil
}

func mapUserErr(err error) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return ErrNotFound
	case db.IsUniqueViolation(err, userEmailConstraint):
		return fmt.Errorf("%w: %w", ErrDuplicateEmail, err)
	default:
		return err
	}
}
