package log_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/productstack/internal/config"
	"github.com/tuanvumaihuynh/productstack/internal/log"
	"github.com/tuanvumaihuynh/productstack/pkg/authctx"
	"github.com/tuanvumaihuynh/productstack/pkg/correlationid"
)

func TestNew(t *testing.T) {
	t.Run("Should enrich JSON logs with correlation id", func(t *testing.T) {
		var buf bytes.Buffer
		logger := log.New(&buf, config.Log{Format: config.LogFormatJSON, Level: slog.LevelInfo})

		ctx := correlationid.NewContext(context.Background(), "abc-123")
		ctx = authctx.NewContext(ctx, authctx.Subject{UserID: "u-1"})
		logger.InfoContext(ctx, "product created", slog.Int64("sequence_id", 1))

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "product created", entry["msg"])
		assert.Equal(t, "abc-123", entry["correlation_id"])
		assert.EqualValues(t, 1, entry["sequence_id"])
		assert.Equal(t, "u-1", entry["user_id"])
		assert.NotContains(t, entry, "trace_id")
	})

	t.Run("Should tag records with the app name", func(t *testing.T) {
		var buf bytes.Buffer
		logger := log.New(&buf, config.Log{Format: config.LogFormatJSON, Level: slog.LevelInfo, App: "ps-relay"})

		logger.Info("relay started")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "ps-relay", entry["app"])
	})

	t.Run("Should respect level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := log.New(&buf, config.Log{Format: config.LogFormatText, Level: slog.LevelWarn})

		logger.Info("ignored")
		assert.Empty(t, buf.String())

		logger.Warn("kept")
		assert.Contains(t, buf.String(), "kept")
	})
}
