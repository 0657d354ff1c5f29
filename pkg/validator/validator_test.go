package validator_test

import (
	"errors"
	"testing"

	govalidator "github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/productstack/pkg/validator"
)

type priceForm struct {
	Title string `form:"title" validate:"required,notblank"`
	Price string `form:"price" validate:"required,decimal"`
}

func TestDefaultValidator(t *testing.T) {
	v, err := validator.NewDefaultValidator()
	require.NoError(t, err)

	t.Run("Should accept a valid struct", func(t *testing.T) {
		assert.NoError(t, v.Validate(priceForm{Title: "A", Price: "10.50"}))
	})

	tests := []struct {
		name  string
		form  priceForm
		field string
		msg   string
	}{
		{"blank title", priceForm{Title: "   ", Price: "1"}, "title", "must not be blank"},
		{"negative price", priceForm{Title: "A", Price: "-1"}, "price", "must be a non-negative decimal number"},
		{"non numeric price", priceForm{Title: "A", Price: "abc"}, "price", "must be a non-negative decimal number"},
		{"missing price", priceForm{Title: "A"}, "price", "field is required"},
	}

	for _, tt := range tests {
		t.Run("Should reject "+tt.name, func(t *testing.T) {
			err := v.Validate(tt.form)
			require.Error(t, err)
			assert.True(t, validator.IsValidationError(err))

			var verrs govalidator.ValidationErrors
			require.True(t, errors.As(err, &verrs))
			require.Len(t, verrs, 1)
			assert.Equal(t, tt.field, verrs[0].Field())
			assert.Equal(t, tt.msg, validator.ValidationErrorMessage(verrs[0]))
		})
	}
}
