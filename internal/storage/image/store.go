package image

import (
	"context"
	"fmt"

	"github.com/tuanvumaihuynh/productstack/internal/config"
)

// Store turns uploads into references that can be kept on a product and
// reclaims the resources behind references that are no longer used.
type Store interface {
	// Save stores the upload and returns its reference.
	Save(ctx context.Context, u Upload) (string, error)
	// Remove releases the resource behind ref. References the store does not
	// own, and resources that are already gone, are ignored.
	Remove(ctx context.Context, ref string) error
	Strategy() config.ImageStrategy
}

// New returns the store for the configured strategy.
func New(cfg config.Image) (Store, error) {
	switch cfg.Strategy {
	case config.ImageStrategyFilesystem:
		return NewFileStore(cfg.UploadDir, cfg.WriteTimeout)
	case config.ImageStrategyInline:
		return NewInlineStore(), nil
	default:
		return nil, fmt.Errorf("unsupported image strategy: %s", cfg.Strategy)
	}
}
