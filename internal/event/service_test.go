package event

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/productstack/internal/storage/mq"
)

type fakeConsumer struct {
	handlers map[string]mq.HandlerFunc
}

func (c *fakeConsumer) RegisterHandler(topic string, handler mq.HandlerFunc) error {
	if _, ok := c.handlers[topic]; ok {
		return errors.New("already registered")
	}
	c.handlers[topic] = handler
	return nil
}

func (c *fakeConsumer) Run(context.Context) (mq.CleanupFunc, error) {
	return func() {}, nil
}

func TestService(t *testing.T) {
	consumer := &fakeConsumer{handlers: map[string]mq.HandlerFunc{}}
	svc := New(slog.New(slog.NewTextHandler(io.Discard, nil)), consumer)

	cleanup, err := svc.Run(context.Background())
	require.NoError(t, err)
	defer cleanup()

	assert.Len(t, consumer.handlers, 3)

	t.Run("Should decode each topic payload", func(t *testing.T) {
		payloads := map[string]any{
			TopicProductCreated: ProductCreatedEvent{ProductID: "p", SequenceID: 1},
			TopicProductUpdated: ProductUpdatedEvent{ProductID: "p", RemovedImages: []string{"/uploads/a.jpg"}},
			TopicProductDeleted: ProductDeletedEvent{ProductID: "p", SequenceID: 1},
		}
		for topic, ev := range payloads {
			b, err := json.Marshal(ev)
			require.NoError(t, err)
			assert.NoError(t, consumer.handlers[topic](context.Background(), topic, b), topic)
		}
	})

	t.Run("Should fail on a malformed payload", func(t *testing.T) {
		err := consumer.handlers[TopicProductCreated](context.Background(), TopicProductCreated, []byte("{"))
		assert.Error(t, err)
	})

	t.Run("Should refuse registering twice", func(t *testing.T) {
		assert.Error(t, svc.RegisterHandlers())
	})
}
