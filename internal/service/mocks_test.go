package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/mock"

	"github.com/tuanvumaihuynh/productstack/internal/model"
	"github.com/tuanvumaihuynh/productstack/internal/repository"
	"github.com/tuanvumaihuynh/productstack/internal/storage/db"
)

var errNoQueries = errors.New("fake db does not run queries")

// fakeDB runs transactions inline; repositories are mocked.
type fakeDB struct {
	txCount int
}

func (f *fakeDB) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, errNoQueries
}

func (f *fakeDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errNoQueries
}

func (f *fakeDB) QueryRow(context.Context, string, ...any) pgx.Row {
	return nil
}

func (f *fakeDB) WithTx(_ context.Context, txFunc func(db.DB) error) error {
	f.txCount++
	return txFunc(f)
}

type MockCounterRepository struct {
	mock.Mock
}

func (m *MockCounterRepository) WithDB(db.DB) repository.CounterRepository {
	return m
}

func (m *MockCounterRepository) NextValue(ctx context.Context, name string) (int64, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(int64), args.Error(1)
}

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) WithDB(db.DB) repository.ProductRepository {
	return m
}

// product returns args.Get(i) as a product; a func(model.Product) model.Product
// is applied to in so that the mock can echo its input.
func product(args mock.Arguments, i int, in model.Product) model.Product {
	switch v := args.Get(i).(type) {
	case func(model.Product) model.Product:
		return v(in)
	case model.Product:
		return v
	default:
		return model.Product{}
	}
}

func (m *MockProductRepository) CreateProduct(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	return product(args, 0, p), args.Error(1)
}

func (m *MockProductRepository) GetProductByID(ctx context.Context, id uuid.UUID) (model.Product, error) {
	args := m.Called(ctx, id)
	return product(args, 0, model.Product{}), args.Error(1)
}

func (m *MockProductRepository) GetProductBySequenceID(ctx context.Context, sequenceID int64) (model.Product, error) {
	args := m.Called(ctx, sequenceID)
	return product(args, 0, model.Product{}), args.Error(1)
}

func (m *MockProductRepository) FindProductByExternalID(ctx context.Context, id string) (model.Product, error) {
	args := m.Called(ctx, id)
	return product(args, 0, model.Product{}), args.Error(1)
}

func (m *MockProductRepository) UpdateProduct(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	return product(args, 0, p), args.Error(1)
}

func (m *MockProductRepository) DeleteProductByExternalID(ctx context.Context, id string) (model.Product, error) {
	args := m.Called(ctx, id)
	return product(args, 0, model.Product{}), args.Error(1)
}

func (m *MockProductRepository) BulkDeleteProducts(ctx context.Context, ids []uuid.UUID) ([]model.Product, error) {
	args := m.Called(ctx, ids)
	products, _ := args.Get(0).([]model.Product)
	return products, args.Error(1)
}

func (m *MockProductRepository) ListAllProducts(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	products, _ := args.Get(0).([]model.Product)
	return products, args.Error(1)
}

type MockOutboxMsgRepository struct {
	mock.Mock
}

func (m *MockOutboxMsgRepository) WithDB(db.DB) repository.OutboxMsgRepository {
	return m
}

func (m *MockOutboxMsgRepository) CreateOutboxMsg(ctx context.Context, params repository.CreateOutboxMsgParams) error {
	return m.Called(ctx, params).Error(0)
}

func (m *MockOutboxMsgRepository) ListUnprocessedOutboxMsgs(ctx context.Context, params repository.ListUnprocessedOutboxMsgsParams) ([]repository.ListUnprocessedOutboxMsgsResult, error) {
	args := m.Called(ctx, params)
	msgs, _ := args.Get(0).([]repository.ListUnprocessedOutboxMsgsResult)
	return msgs, args.Error(1)
}

func (m *MockOutboxMsgRepository) BulkUpdateOutboxMsgs(ctx context.Context, params repository.BulkUpdateOutboxMsgsParams) error {
	return m.Called(ctx, params).Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) WithDB(db.DB) repository.UserRepository {
	return m
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user model.User) (model.User, error) {
	args := m.Called(ctx, user)
	if u, ok := args.Get(0).(model.User); ok {
		return u, args.Error(1)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}
