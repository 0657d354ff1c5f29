package model_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/productstack/internal/model"
	"github.com/tuanvumaihuynh/productstack/pkg/ptr"
)

func TestProductImageRefs(t *testing.T) {
	t.Run("Should list main image before gallery", func(t *testing.T) {
		p := model.Product{
			MainImage: ptr.New("/uploads/main.jpg"),
			Gallery:   []string{"/uploads/g1.jpg", "/uploads/g2.jpg"},
		}
		assert.Equal(t, []string{"/uploads/main.jpg", "/uploads/g1.jpg", "/uploads/g2.jpg"}, p.ImageRefs())
	})

	t.Run("Should skip missing main image", func(t *testing.T) {
		p := model.Product{Gallery: []string{"/uploads/g1.jpg"}}
		assert.Equal(t, []string{"/uploads/g1.jpg"}, p.ImageRefs())
	})
}

func TestProductJSON(t *testing.T) {
	b, err := json.Marshal(model.Product{SequenceID: 3, Gallery: []string{}})
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.EqualValues(t, 3, m["sequenceId"])
	assert.Contains(t, m, "mainImage")
	assert.Equal(t, []any{}, m["gallery"])
}
