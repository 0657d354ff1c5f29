package model

import (
	"time"

	"github.com/google/uuid"
)

// Product is a catalog item. ID is the storage identifier; SequenceID is the
// human-facing number handed out once by the productId counter.
type Product struct {
	ID          uuid.UUID `json:"id"`
	SequenceID  int64     `json:"sequenceId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       string    `json:"price"`
	Category    string    `json:"category"`
	Discount    float64   `json:"discount"`
	MainImage   *string   `json:"mainImage"`
	Gallery     []string  `json:"gallery"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ImageRefs returns every image reference owned by the product, main image first.
func (p Product) ImageRefs() []string {
	refs := make([]string, 0, len(p.Gallery)+1)
	if p.MainImage != nil && *p.MainImage != "" {
		refs = append(refs, *p.MainImage)
	}
	return append(refs, p.Gallery...)
}
