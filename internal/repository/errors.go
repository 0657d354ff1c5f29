package repository

import "errors"

var (
	ErrNotFound             = errors.New("record not found")
	ErrDuplicateDescription = errors.New("duplicate product description")
	ErrDuplicateEmail       = errors.New("duplicate user email")
)

const (
	productDescriptionConstraint = "products_description_key"
	userEmailConstraint          = "users_email_key"
)
