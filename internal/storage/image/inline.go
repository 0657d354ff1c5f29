package image

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/tuanvumaihuynh/productstack/internal/config"
)

const dataURIPrefix = "data:"

var _ Store = (*InlineStore)(nil)

// InlineStore embeds the image in the reference itself as a base64 data URI.
// It needs no writable disk.
type InlineStore struct{}

func NewInlineStore() *InlineStore {
	return &InlineStore{}
}

func (s *InlineStore) Save(_ context.Context, u Upload) (string, error) {
	var b strings.Builder
	b.Grow(len(dataURIPrefix) + len(u.ContentType) + len(";base64,") + base64.StdEncoding.EncodedLen(len(u.Data)))
	b.WriteString(dataURIPrefix)
	b.WriteString(strings.ToLower(u.ContentType))
	b.WriteString(";base64,")
	b.WriteString(base64.StdEncoding.EncodeToString(u.Data))
	return b.String(), nil
}

// Remove is a no-op: the data goes away with the record.
func (s *InlineStore) Remove(context.Context, string) error {
	return nil
}

func (s *InlineStore) Strategy() config.ImageStrategy {
	return config.ImageStrategyInline
}

// IsInline reports whether ref is an inline data URI.
func IsInline(ref string) bool {
	return strings.HasPrefix(ref, dataURIPrefix)
}
