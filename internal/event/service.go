package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/tuanvumaihuynh/productstack/internal/storage/mq"
)

// Service consumes product lifecycle events relayed from the outbox.
type Service struct {
	logger     *slog.Logger
	mqConsumer mq.Consumer
}

// New creates a new event service.
func New(
	logger *slog.Logger,
	mqConsumer mq.Consumer,
) *Service {
	return &Service{
		logger:     logger.With(slog.String("service", "event")),
		mqConsumer: mqConsumer,
	}
}

type CleanupFunc func()

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	if err := s.RegisterHandlers(); err != nil {
		return nil, err
	}

	mqCleanup, err := s.mqConsumer.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("run mq consumer: %w", err)
	}

	cleanup := func() {
		mqCleanup()
	}

	return cleanup, nil
}

// RegisterHandlers subscribes the service to every product topic.
func (s *Service) RegisterHandlers() error {
	if err := s.mqConsumer.RegisterHandler(
		TopicProductCreated,
		jsonHandler(s.handleProductCreatedEvent),
	); err != nil {
		return fmt.Errorf("register product created event handler: %w", err)
	}

	if err := s.mqConsumer.RegisterHandler(
		TopicProductUpdated,
		jsonHandler(s.handleProductUpdatedEvent),
	); err != nil {
		return fmt.Errorf("register product updated event handler: %w", err)
	}

	if err := s.mqConsumer.RegisterHandler(
		TopicProductDeleted,
		jsonHandler(s.handleProductDeletedEvent),
	); err != nil {
		return fmt.Errorf("register product deleted event handler: %w", err)
	}

	return nil
}

func jsonHandler[T any](fn func(context.Context, T) error) mq.HandlerFunc {
	return func(ctx context.Context, topic string, payload []byte) error {
		var ev T
		if err := json.Unmarshal(payload, &ev); err != nil {
			return fmt.Errorf("unmarshal %s event: %w", topic, err)
		}

		if err := fn(ctx, ev); err != nil {
			return fmt.Errorf("handle %s event: %w", topic, err)
		}

		return nil
	}
}
