package image

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidUpload is returned for an attachment that is not an acceptable image.
	ErrInvalidUpload = errors.New("invalid image upload")
	// ErrIOTimeout is returned when writing an image does not finish in time.
	ErrIOTimeout = errors.New("image write timed out")
)

// Upload is an attachment held in memory together with its declared MIME type.
type Upload struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

// Validate checks the declared MIME type and the size of the attachment.
// Empty attachments are rejected.
func (u Upload) Validate(maxSize int64) error {
	if !strings.HasPrefix(strings.ToLower(u.ContentType), "image/") {
		return fmt.Errorf("%w: %s %q has content type %q, only images are allowed",
			ErrInvalidUpload, u.field(), u.Filename, u.ContentType)
	}
	if len(u.Data) == 0 {
		return fmt.Errorf("%w: %s %q is empty", ErrInvalidUpload, u.field(), u.Filename)
	}
	if maxSize > 0 && int64(len(u.Data)) > maxSize {
		return fmt.Errorf("%w: %s %q exceeds %d bytes", ErrInvalidUpload, u.field(), u.Filename, maxSize)
	}
	return nil
}

// ValidateAll validates every upload before any of them is stored, so a bad
// attachment rejects the whole request.
func ValidateAll(maxSize int64, uploads ...Upload) error {
	errs := make([]error, 0)
	for _, u := range uploads {
		if err := u.Validate(maxSize); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (u Upload) field() string {
	if u.Field == "" {
		return "file"
	}
	return u.Field
}
