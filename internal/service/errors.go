package service

import (
	"errors"
	"fmt"

	"github.com/tuanvumaihuynh/productstack/internal/apperr"
	"github.com/tuanvumaihuynh/productstack/internal/repository"
	"github.com/tuanvumaihuynh/productstack/internal/storage/db"
	"github.com/tuanvumaihuynh/productstack/internal/storage/image"
	"github.com/tuanvumaihuynh/productstack/pkg/zerror"
)

// translateStoreErr maps repository and connectivity failures onto the
// application error catalog. Errors that are already ZErrors pass through.
func translateStoreErr(err error, op string) error {
	var zErr zerror.ZError
	switch {
	case errors.As(err, &zErr):
		return err
	case errors.Is(err, repository.ErrNotFound):
		return apperr.ProductNotFoundErr.WrapParent(err)
	case errors.Is(err, repository.ErrDuplicateDescription):
		return apperr.DuplicateDescriptionErr.WrapParent(err)
	case errors.Is(err, repository.ErrDuplicateEmail):
		return apperr.UserAlreadyExistsErr.WrapParent(err)
	case db.IsUnavailable(err):
		return apperr.StoreUnavailableErr.WrapParent(fmt.Errorf("%s: %w", op, err))
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func translateImageErr(err error) error {
	switch {
	case errors.Is(err, image.ErrInvalidUpload):
		return apperr.ValidationErr.WithMsg(err.Error()).WrapParent(err)
	case errors.Is(err, image.ErrIOTimeout):
		return apperr.IOTimeoutErr.WrapParent(err)
	default:
		return apperr.ImageWriteErr.WrapParent(err)
	}
}
