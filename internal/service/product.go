package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"github.com/tuanvumaihuynh/productstack/internal/apperr"
	"github.com/tuanvumaihuynh/productstack/internal/config"
	"github.com/tuanvumaihuynh/productstack/internal/event"
	"github.com/tuanvumaihuynh/productstack/internal/model"
	"github.com/tuanvumaihuynh/productstack/internal/repository"
	"github.com/tuanvumaihuynh/productstack/internal/storage/db"
	"github.com/tuanvumaihuynh/productstack/internal/storage/image"
	"github.com/tuanvumaihuynh/productstack/pkg/outbox"
	"github.com/tuanvumaihuynh/productstack/pkg/ptr"
)

type CreateProductParams struct {
	Title       string
	Description string
	Price       string
	Category    string
	// Discount is the raw submitted value. Nil, empty and non-numeric all mean 0.
	Discount  *string
	MainImage *image.Upload
	Gallery   []image.Upload
}

// UpdateProductParams carries a partial update. Nil fields keep their value.
type UpdateProductParams struct {
	Title       *string
	Description *string
	Price       *string
	Category    *string
	Discount    *string
	MainImage   *image.Upload
	Gallery     []image.Upload
	// ExistingGallery lists the current gallery references to keep. Nil keeps
	// the whole gallery; an empty slice drops it.
	ExistingGallery []string
}

type ProductService interface {
	CreateProduct(ctx context.Context, params CreateProductParams) (model.Product, error)
	// GetProduct accepts an internal id or a sequence id.
	GetProduct(ctx context.Context, id string) (model.Product, error)
	UpdateProduct(ctx context.Context, id string, params UpdateProductParams) (model.Product, error)
	DeleteProduct(ctx context.Context, id string) (model.Product, error)
	// BulkDeleteProducts deletes by internal id and returns how many products
	// were actually removed.
	BulkDeleteProducts(ctx context.Context, ids []string) (int, error)
	ListAllProducts(ctx context.Context) ([]model.Product, error)
}

type productService struct {
	logger        *slog.Logger
	storeCfg      config.Store
	imageCfg      config.Image
	db            db.DB
	counterRepo   repository.CounterRepository
	productRepo   repository.ProductRepository
	outboxMsgRepo repository.OutboxMsgRepository
	images        image.Store
}

func NewProductService(
	logger *slog.Logger,
	storeCfg config.Store,
	imageCfg config.Image,
	db db.DB,
	counterRepo repository.CounterRepository,
	productRepo repository.ProductRepository,
	outboxMsgRepo repository.OutboxMsgRepository,
	images image.Store,
) ProductService {
	return &productService{
		logger:        logger.With(slog.String("service", "product")),
		storeCfg:      storeCfg,
		imageCfg:      imageCfg,
		db:            db,
		counterRepo:   counterRepo,
		productRepo:   productRepo,
		outboxMsgRepo: outboxMsgRepo,
		images:        images,
	}
}

func (s *productService) CreateProduct(ctx context.Context, params CreateProductParams) (model.Product, error) {
	price, err := normalizePrice(params.Price)
	if err != nil {
		return model.Product{}, err
	}

	discount, err := parseDiscount(ptr.ValueOr(params.Discount, ""))
	if err != nil {
		return model.Product{}, err
	}

	if err := s.validateText(map[string]string{
		"title":       params.Title,
		"description": params.Description,
		"category":    params.Category,
	}); err != nil {
		return model.Product{}, err
	}

	if err := s.validateUploads(params.MainImage, params.Gallery); err != nil {
		return model.Product{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return model.Product{}, fmt.Errorf("generate uuid v7: %w", err)
	}

	seq, err := s.nextSequenceID(ctx)
	if err != nil {
		return model.Product{}, err
	}

	product := model.Product{
		ID:          id,
		SequenceID:  seq,
		Title:       strings.TrimSpace(params.Title),
		Description: strings.TrimSpace(params.Description),
		Price:       price,
		Category:    strings.TrimSpace(params.Category),
		Discount:    discount,
		Gallery:     []string{},
	}

	written, err := s.saveImages(ctx, &product, params.MainImage, params.Gallery)
	if err != nil {
		return model.Product{}, err
	}

	ev := event.ProductCreatedEvent{
		ProductID:  product.ID.String(),
		SequenceID: product.SequenceID,
		Title:      product.Title,
		Price:      product.Price,
		Category:   product.Category,
		Discount:   product.Discount,
	}

	var created model.Product
	if err := s.withStoreTx(ctx, func(ctx context.Context, db db.DB) error {
		created, err = s.productRepo.
			WithDB(db).
			CreateProduct(ctx, product)
		if err != nil {
			return fmt.Errorf("product repository create product: %w", err)
		}

		return s.enqueue(ctx, db, event.TopicProductCreated, product.ID, ev)
	}); err != nil {
		s.removeImages(ctx, written)
		return model.Product{}, translateStoreErr(err, "create product")
	}

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", created.ID.String()),
		slog.Int64("sequence_id", created.SequenceID),
	)

	return created, nil
}

func (s *productService) GetProduct(ctx context.Context, id string) (model.Product, error) {
	ctx, cancel := s.storeContext(ctx)
	defer cancel()

	product, err := s.productRepo.FindProductByExternalID(ctx, id)
	if err != nil {
		return model.Product{}, translateStoreErr(err, "find product")
	}

	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id string, params UpdateProductParams) (model.Product, error) {
	current, err := s.GetProduct(ctx, id)
	if err != nil {
		return model.Product{}, err
	}

	if err := s.validateUploads(params.MainImage, params.Gallery); err != nil {
		return model.Product{}, err
	}

	merged, err := s.mergeFields(current, params)
	if err != nil {
		return model.Product{}, err
	}

	written, err := s.saveImages(ctx, &merged, params.MainImage, params.Gallery)
	if err != nil {
		return model.Product{}, err
	}

	removed := supersededRefs(current, merged)

	ev := event.ProductUpdatedEvent{
		ProductID:         merged.ID.String(),
		SequenceID:        merged.SequenceID,
		Title:             merged.Title,
		Price:             merged.Price,
		Category:          merged.Category,
		Discount:          merged.Discount,
		RemovedImages:     storedRefs(removed),
		RemovedImageCount: len(removed),
	}

	var updated model.Product
	if err := s.withStoreTx(ctx, func(ctx context.Context, db db.DB) error {
		updated, err = s.productRepo.
			WithDB(db).
			UpdateProduct(ctx, merged)
		if err != nil {
			return fmt.Errorf("product repository update product: %w", err)
		}

		return s.enqueue(ctx, db, event.TopicProductUpdated, merged.ID, ev)
	}); err != nil {
		s.removeImages(ctx, written)
		return model.Product{}, translateStoreErr(err, "update product")
	}

	s.removeImages(ctx, removed)

	return updated, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id string) (model.Product, error) {
	var (
		deleted model.Product
		err     error
	)
	if err := s.withStoreTx(ctx, func(ctx context.Context, db db.DB) error {
		deleted, err = s.productRepo.
			WithDB(db).
			DeleteProductByExternalID(ctx, id)
		if err != nil {
			return fmt.Errorf("product repository delete product: %w", err)
		}

		return s.enqueue(ctx, db, event.TopicProductDeleted, deleted.ID, event.ProductDeletedEvent{
			ProductID:  deleted.ID.String(),
			SequenceID: deleted.SequenceID,
		})
	}); err != nil {
		return model.Product{}, translateStoreErr(err, "delete product")
	}

	s.removeImages(ctx, deleted.ImageRefs())

	return deleted, nil
}

func (s *productService) BulkDeleteProducts(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, apperr.ValidationErr.WithMsg("ids must be a non-empty array")
	}

	parsed := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		u, err := uuid.Parse(id)
		if err != nil {
			return 0, apperr.ValidationErr.WithMsg(fmt.Sprintf("invalid product id %q", id)).WrapParent(err)
		}
		parsed = append(parsed, u)
	}

	var (
		deleted []model.Product
		err     error
	)
	if err := s.withStoreTx(ctx, func(ctx context.Context, db db.DB) error {
		deleted, err = s.productRepo.
			WithDB(db).
			BulkDeleteProducts(ctx, parsed)
		if err != nil {
			return fmt.Errorf("product repository bulk delete products: %w", err)
		}

		for _, p := range deleted {
			if err := s.enqueue(ctx, db, event.TopicProductDeleted, p.ID, event.ProductDeletedEvent{
				ProductID:  p.ID.String(),
				SequenceID: p.SequenceID,
			}); err != nil {
				return err
			}
		}

		return nil
	}); err != nil {
		return 0, translateStoreErr(err, "bulk delete products")
	}

	if len(deleted) == 0 {
		return 0, apperr.ProductNotFoundErr.WithMsg("no products found with the given ids")
	}

	for _, p := range deleted {
		s.removeImages(ctx, p.ImageRefs())
	}

	s.logger.InfoContext(ctx, "products deleted",
		slog.Int("requested", len(ids)),
		slog.Int("deleted", len(deleted)),
	)

	return len(deleted), nil
}

func (s *productService) ListAllProducts(ctx context.Context) ([]model.Product, error) {
	ctx, cancel := s.storeContext(ctx)
	defer cancel()

	products, err := s.productRepo.ListAllProducts(ctx)
	if err != nil {
		return nil, translateStoreErr(err, "list all products")
	}

	return products, nil
}

func (s *productService) nextSequenceID(ctx context.Context) (int64, error) {
	ctx, cancel := s.storeContext(ctx)
	defer cancel()

	seq, err := s.counterRepo.NextValue(ctx, repository.CounterProductID)
	if err != nil {
		return 0, translateStoreErr(err, "allocate sequence id")
	}

	return seq, nil
}

// mergeFields applies the supplied fields and the gallery keep-list to a copy
// of current.
func (s *productService) mergeFields(current model.Product, params UpdateProductParams) (model.Product, error) {
	merged := current

	text := map[string]string{}
	if params.Title != nil {
		text["title"] = *params.Title
		merged.Title = strings.TrimSpace(*params.Title)
	}
	if params.Description != nil {
		text["description"] = *params.Description
		merged.Description = strings.TrimSpace(*params.Description)
	}
	if params.Category != nil {
		text["category"] = *params.Category
		merged.Category = strings.TrimSpace(*params.Category)
	}
	if err := s.validateText(text); err != nil {
		return model.Product{}, err
	}

	if params.Price != nil {
		price, err := normalizePrice(*params.Price)
		if err != nil {
			return model.Product{}, err
		}
		merged.Price = price
	}

	if params.Discount != nil {
		discount, err := parseDiscount(*params.Discount)
		if err != nil {
			return model.Product{}, err
		}
		merged.Discount = discount
	}

	merged.Gallery = slices.Clone(current.Gallery)
	if params.ExistingGallery != nil {
		for _, ref := range params.ExistingGallery {
			if !slices.Contains(current.Gallery, ref) {
				return model.Product{}, apperr.ValidationErr.WithMsg(
					fmt.Sprintf("existingGallery contains %q which is not part of the product gallery", ref))
			}
		}
		merged.Gallery = slices.Clone(params.ExistingGallery)
	}
	if merged.Gallery == nil {
		merged.Gallery = []string{}
	}

	return merged, nil
}

// saveImages stores the uploads and points product at them. On failure the
// references written so far are removed before returning.
func (s *productService) saveImages(
	ctx context.Context,
	product *model.Product,
	main *image.Upload,
	gallery []image.Upload,
) ([]string, error) {
	written := make([]string, 0, len(gallery)+1)

	if main != nil {
		ref, err := s.images.Save(ctx, *main)
		if err != nil {
			return nil, translateImageErr(err)
		}
		written = append(written, ref)
		product.MainImage = &ref
	}

	for _, u := range gallery {
		ref, err := s.images.Save(ctx, u)
		if err != nil {
			s.removeImages(ctx, written)
			return nil, translateImageErr(err)
		}
		written = append(written, ref)
		product.Gallery = append(product.Gallery, ref)
	}

	return written, nil
}

// removeImages releases refs after the store no longer points at them.
// Failures are logged and never surfaced.
func (s *productService) removeImages(ctx context.Context, refs []string) {
	for _, ref := range storedRefs(refs) {
		if err := s.images.Remove(context.WithoutCancel(ctx), ref); err != nil {
			s.logger.WarnContext(ctx, "error removing image",
				slog.String("ref", ref),
				slog.Any("error", err),
			)
		}
	}
}

func (s *productService) validateUploads(main *image.Upload, gallery []image.Upload) error {
	if s.imageCfg.MaxGallery > 0 && len(gallery) > s.imageCfg.MaxGallery {
		return apperr.ValidationErr.WithMsg(fmt.Sprintf("at most %d gallery images are allowed", s.imageCfg.MaxGallery))
	}

	uploads := slices.Clone(gallery)
	if main != nil {
		uploads = append(uploads, *main)
	}

	if err := image.ValidateAll(s.imageCfg.MaxSize, uploads...); err != nil {
		return translateImageErr(err)
	}

	return nil
}

func (s *productService) validateText(fields map[string]string) error {
	for _, name := range []string{"title", "description", "category"} {
		v, ok := fields[name]
		if ok && strings.TrimSpace(v) == "" {
			return apperr.ValidationErr.WithMsg(name + " must not be blank")
		}
	}
	return nil
}

func (s *productService) enqueue(ctx context.Context, db db.DB, topic string, productID uuid.UUID, ev any) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", topic, err)
	}

	if err := s.outboxMsgRepo.
		WithDB(db).
		CreateOutboxMsg(ctx, repository.CreateOutboxMsgParams{
			Topic:        topic,
			Headers:      outbox.BuildHeaders(ctx),
			Payload:      payload,
			PartitionKey: ptr.New(productID.String()),
		}); err != nil {
		return fmt.Errorf("outbox msg repository create outbox msg: %w", err)
	}

	return nil
}

func (s *productService) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.storeCfg.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.storeCfg.Timeout)
}

func (s *productService) withStoreTx(ctx context.Context, fn func(context.Context, db.DB) error) error {
	ctx, cancel := s.storeContext(ctx)
	defer cancel()

	return s.db.WithTx(ctx, func(db db.DB) error {
		return fn(ctx, db)
	})
}

// supersededRefs returns the references of current that merged no longer uses.
func supersededRefs(current, merged model.Product) []string {
	keep := merged.ImageRefs()
	removed := make([]string, 0)
	for _, ref := range current.ImageRefs() {
		if !slices.Contains(keep, ref) {
			removed = append(removed, ref)
		}
	}
	return removed
}

// storedRefs drops inline data URIs, which live in the record itself.
func storedRefs(refs []string) []string {
	stored := make([]string, 0, len(refs))
	for _, ref := range refs {
		if !image.IsInline(ref) {
			stored = append(stored, ref)
		}
	}
	return stored
}

func normalizePrice(raw string) (string, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return "", apperr.ValidationErr.WithMsg("price must be a decimal number").WrapParent(err)
	}
	if d.IsNegative() {
		return "", apperr.ValidationErr.WithMsg("price must not be negative")
	}
	return d.String(), nil
}

// parseDiscount coerces a submitted discount. Values that are not numbers
// become 0; numbers outside 0..100 are rejected.
func parseDiscount(raw string) (float64, error) {
	d, err := cast.ToFloat64E(strings.TrimSpace(raw))
	if err != nil || math.IsNaN(d) {
		return 0, nil
	}
	if d < 0 || d > 100 {
		return 0, apperr.ValidationErr.WithMsg("discount must be between 0 and 100")
	}
	return d, nil
}
