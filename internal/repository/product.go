package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tuanvumaihuynh/productstack/internal/model"
	"github.com/tuanvumaihuynh/productstack/internal/storage/db"
)

type ProductRepository interface {
	WithDB(db db.DB) ProductRepository
	CreateProduct(ctx context.Context, product model.Product) (model.Product, error)
	GetProductByID(ctx context.Context, id uuid.UUID) (model.Product, error)
	GetProductBySequenceID(ctx context.Context, sequenceID int64) (model.Product, error)
	// FindProductByExternalID resolves id as an internal id first and falls
	// back to a sequence id.
	FindProductByExternalID(ctx context.Context, id string) (model.Product, error)
	UpdateProduct(ctx context.Context, product model.Product) (model.Product, error)
	// DeleteProductByExternalID resolves id in the same order as
	// FindProductByExternalID and returns the deleted product.
	DeleteProductByExternalID(ctx context.Context, id string) (model.Product, error)
	// BulkDeleteProducts deletes every product whose internal id is in ids and
	// returns exactly the deleted rows.
	BulkDeleteProducts(ctx context.Context, ids []uuid.UUID) ([]model.Product, error)
	ListAllProducts(ctx context.Context) ([]model.Product, error)
}

const productColumns = `id, sequence_id, title, description, price, category, discount, main_image, gallery, created_at, updated_at`

type productRow struct {
	ID          uuid.UUID `db:"id"`
	SequenceID  int64     `db:"sequence_id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Price       string    `db:"price"`
	Category    string    `db:"category"`
	Discount    float64   `db:"discount"`
	MainImage   *string   `db:"main_image"`
	Gallery     []string  `db:"gallery"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type productRepository struct {
	db db.DB
}

func NewProductRepository(db db.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r productRepository) WithDB(db db.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r productRepository) CreateProduct(ctx context.Context, product model.Product) (model.Product, error) {
	created, err := r.queryOne(ctx, `
		INSERT INTO products (id, sequence_id, title, description, price, category, discount, main_image, gallery, created_at, updated_at)
		VALUES (@id, @sequence_id, @title, @description, @price, @category, @discount, @main_image, @gallery, NOW(), NOW())
		RETURNING `+productColumns,
		productArgs(product),
	)
	if err != nil {
		return model.Product{}, fmt.Errorf("insert product: %w", err)
	}

	return created, nil
}

func (r productRepository) GetProductByID(ctx context.Context, id uuid.UUID) (model.Product, error) {
	product, err := r.queryOne(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	if err != nil {
		return model.Product{}, fmt.Errorf("get product by id: %w", err)
	}

	return product, nil
}

func (r productRepository) GetProductBySequenceID(ctx context.Context, sequenceID int64) (model.Product, error) {
	product, err := r.queryOne(ctx, `SELECT `+productColumns+` FROM products WHERE sequence_id = $1`, sequenceID)
	if err != nil {
		return model.Product{}, fmt.Errorf("get product by sequence id: %w", err)
	}

	return product, nil
}

func (r productRepository) FindProductByExternalID(ctx context.Context, id string) (model.Product, error) {
	return resolveExternalID(ctx, id, r.GetProductByID, r.GetProductBySequenceID)
}

func (r productRepository) UpdateProduct(ctx context.Context, product model.Product) (model.Product, error) {
	updated, err := r.queryOne(ctx, `
		UPDATE products
		SET
			title       = @title,
			description = @description,
			price       = @price,
			category    = @category,
			discount    = @discount,
			main_image  = @main_image,
			gallery     = @gallery,
			updated_at  = NOW()
		WHERE id = @id
		RETURNING `+productColumns,
		productArgs(product),
	)
	if err != nil {
		return model.Product{}, fmt.Errorf("update product: %w", err)
	}

	return updated, nil
}

func (r productRepository) DeleteProductByExternalID(ctx context.Context, id string) (model.Product, error) {
	return resolveExternalID(ctx, id, r.deleteProductByID, r.deleteProductBySequenceID)
}

func (r productRepository) deleteProductByID(ctx context.Context, id uuid.UUID) (model.Product, error) {
	product, err := r.queryOne(ctx, `DELETE FROM products WHERE id = $1 RETURNING `+productColumns, id)
	if err != nil {
		return model.Product{}, fmt.Errorf("delete product by id: %w", err)
	}

	return product, nil
}

func (r productRepository) deleteProductBySequenceID(ctx context.Context, sequenceID int64) (model.Product, error) {
	product, err := r.queryOne(ctx, `DELETE FROM products WHERE sequence_id = $1 RETURNING `+productColumns, sequenceID)
	if err != nil {
		return model.Product{}, fmt.Errorf("delete product by sequence id: %w", err)
	}

	return product, nil
}

func (r productRepository) BulkDeleteProducts(ctx context.Context, ids []uuid.UUID) ([]model.Product, error) {
	products, err := r.queryMany(ctx, `
		DELETE FROM products
		WHERE id = ANY(@ids::uuid[])
		RETURNING `+productColumns,
		pgx.NamedArgs{"ids": ids},
	)
	if err != nil {
		return nil, fmt.Errorf("bulk delete products: %w", err)
	}

	return products, nil
}

func (r productRepository) ListAllProducts(ctx context.Context) ([]model.Product, error) {
	products, err := r.queryMany(ctx, `SELECT `+productColumns+` FROM products ORDER BY sequence_id`)
	if err != nil {
		return nil, fmt.Errorf("list all products: %w", err)
	}

	return products, nil
}

func (r productRepository) queryOne(ctx context.Context, sql string, args ...any) (model.Product, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return model.Product{}, mapProductErr(err)
	}

	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[productRow])
	if err != nil {
		return model.Product{}, mapProductErr(err)
	}

	return rowToProduct(row), nil
}

func (r productRepository) queryMany(ctx context.Context, sql string, args ...any) ([]model.Product, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapProductErr(err)
	}

	productRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[productRow])
	if err != nil {
		return nil, mapProductErr(err)
	}

	products := make([]model.Product, 0, len(productRows))
	for _, row := range productRows {
		products = append(products, rowToProduct(row))
	}

	return products, nil
}

func mapProductErr(err error) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return ErrNotFound
	case db.IsUniqueViolation(err, productDescriptionConstraint):
		return fmt.Errorf("%w: %w", ErrDuplicateDescription, err)
	default:
		return err
	}
}

func productArgs(p model.Product) pgx.NamedArgs {
	gallery := p.Gallery
	if gallery == nil {
		gallery = []string{}
	}

	return pgx.NamedArgs{
		"id":          p.ID,
		"sequence_id": p.SequenceID,
		"title":       p.Title,
		"description": p.Description,
		"price":       p.Price,
		"category":    p.Category,
		"discount":    p.Discount,
		"main_image":  p.MainImage,
		"gallery":     gallery,
	}
}

func rowToProduct(row productRow) model.Product {
	gallery := row.Gallery
	if gallery == nil {
		gallery = []string{}
	}

	return model.Product{
		ID:          row.ID,
		SequenceID:  row.SequenceID,
		Title:       row.Title,
		Description: row.Description,
		Price:       row.Price,
		Category:    row.Category,
		Discount:    row.Discount,
		MainImage:   row.MainImage,
		Gallery:     gallery,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

// resolveExternalID applies byID when id is a UUID and, when that yields
// nothing or id is not a UUID, bySequence when id is a positive integer.
func resolveExternalID[T any](
	ctx context.Context,
	id string,
	byID func(context.Context, uuid.UUID) (T, error),
	bySequence func(context.Context, int64) (T, error),
) (T, error) {
	var zero T
	id = strings.TrimSpace(id)

	if internalID, err := uuid.Parse(id); err == nil {
		v, err := byID(ctx, internalID)
		if err == nil || !errors.Is(err, ErrNotFound) {
			return v, err
		}
	}

	if sequenceID, err := strconv.ParseInt(id, 10, 64); err == nil && sequenceID > 0 {
		return bySequence(ctx, sequenceID)
	}

	return zero, ErrNotFound
}
