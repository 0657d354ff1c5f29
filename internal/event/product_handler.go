package event

import (
	"context"
	"log/slog"
)

const (
	TopicProductCreated = "product.created"
	TopicProductUpdated = "product.updated"
	TopicProductDeleted = "product.deleted"
)

type ProductCreatedEvent struct {
	ProductID  string  `json:"productId"`
	SequenceID int64   `json:"sequenceId"`
	Title      string  `json:"title"`
	Price      string  `json:"price"`
	Category   string  `json:"category"`
	Discount   float64 `json:"discount"`
}

type ProductUpdatedEvent struct {
	ProductID  string  `json:"productId"`
	SequenceID int64   `json:"sequenceId"`
	Title      string  `json:"title"`
	Price      string  `json:"price"`
	Category   string  `json:"category"`
	Discount   float64 `json:"discount"`
	// RemovedImages lists the stored files the update superseded. Inline
	// images carry their data and only show up in RemovedImageCount.
	RemovedImages     []string `json:"removedImages"`
	RemovedImageCount int      `json:"removedImageCount"`
}

type ProductDeletedEvent struct {
	ProductID  string `json:"productId"`
	SequenceID int64  `json:"sequenceId"`
}

func (s *Service) handleProductCreatedEvent(ctx context.Context, ev ProductCreatedEvent) error {
	s.logger.InfoContext(ctx, "handling product created event", slog.Any("event", ev))
	return nil
}

func (s *Service) handleProductUpdatedEvent(ctx context.Context, ev ProductUpdatedEvent) error {
	s.logger.InfoContext(ctx, "handling product updated event",
		slog.String("product_id", ev.ProductID),
		slog.Int64("sequence_id", ev.SequenceID),
		slog.Int("removed_images", ev.RemovedImageCount),
	)
	return nil
}

func (s *Service) handleProductDeletedEvent(ctx context.Context, ev ProductDeletedEvent) error {
	s.logger.InfoContext(ctx, "handling product deleted event", slog.Any("event", ev))
	return nil
}
