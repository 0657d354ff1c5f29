package apierr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/productstack/internal/apperr"
	"github.com/tuanvumaihuynh/productstack/internal/http/apierr"
	"github.com/tuanvumaihuynh/productstack/pkg/validator"
)

func TestNew(t *testing.T) {
	t.Run("Should map application errors to their status", func(t *testing.T) {
		cases := map[error]int{
			apperr.ValidationErr:           http.StatusBadRequest,
			apperr.ProductNotFoundErr:      http.StatusNotFound,
			apperr.DuplicateDescriptionErr: http.StatusConflict,
			apperr.StoreUnavailableErr:     http.StatusServiceUnavailable,
			apperr.IOTimeoutErr:            http.StatusGatewayTimeout,
			apperr.ImageWriteErr:           http.StatusInternalServerError,
			apperr.TokenRequiredErr:        http.StatusUnauthorized,
			apperr.InvalidTokenErr:         http.StatusForbidden,
		}
		for err, status := range cases {
			res := apierr.New(fmt.Errorf("wrapped: %w", err))
			assert.Equal(t, status, res.StatusCode, err.Error())
			assert.False(t, res.Success)
		}
	})

	t.Run("Should keep the specific message of a predefined error", func(t *testing.T) {
		res := apierr.New(apperr.ValidationErr.WithMsg("price must not be negative"))
		assert.Equal(t, apperr.ValidationErrorCode, res.Code)
		assert.Equal(t, "price must not be negative", res.Message)
	})

	t.Run("Should describe struct validation failures per field", func(t *testing.T) {
		v, err := validator.NewDefaultValidator()
		require.NoError(t, err)

		err = v.Validate(struct {
			Title string `form:"title" validate:"required"`
		}{})
		res := apierr.New(err)

		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		require.Len(t, res.Details, 1)
		assert.Equal(t, "title", res.Details[0].Field)
		assert.Equal(t, "field is required", res.Details[0].Message)
	})

	t.Run("Should hide unknown errors", func(t *testing.T) {
		res := apierr.New(errors.New("pq: connection refused at 10.0.0.1"))
		assert.Equal(t, apierr.InternalServerErr, res)
	})
}
