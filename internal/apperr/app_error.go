package apperr

import "github.com/tuanvumaihuynh/productstack/pkg/zerror"

const (
	ValidationErrorCode      = "VALIDATION_FAILED"
	ProductNotFoundCode      = "PRODUCT_NOT_FOUND"
	DuplicateDescriptionCode = "DUPLICATE_DESCRIPTION"
	StoreUnavailableCode     = "STORE_UNAVAILABLE"
	IOTimeoutCode            = "IO_TIMEOUT"
	ImageWriteFailedCode     = "IMAGE_WRITE_FAILED"

	UserAlreadyExistsCode  = "USER_ALREADY_EXISTS"
	UserNotFoundCode       = "USER_NOT_FOUND"
	InvalidCredentialsCode = "INVALID_CREDENTIALS"
	TokenRequiredCode      = "TOKEN_REQUIRED"
	InvalidTokenCode       = "INVALID_TOKEN"

	RouteNotFoundCode    = "ROUTE_NOT_FOUND"
	MethodNotAllowedCode = "METHOD_NOT_ALLOWED"
)

var (
	ValidationErr           = zerror.NewValidationFailed(ValidationErrorCode, "validation error")
	ProductNotFoundErr      = zerror.NewNotFound(ProductNotFoundCode, "product not found")
	DuplicateDescriptionErr = zerror.NewConflict(DuplicateDescriptionCode, "a product with this description already exists")
	StoreUnavailableErr     = zerror.NewServiceUnavailable(StoreUnavailableCode, "store is unavailable, try again later")
	IOTimeoutErr            = zerror.NewTimeout(IOTimeoutCode, "image storage timed out")
	ImageWriteErr           = zerror.NewInternalServerError(ImageWriteFailedCode, "failed to store image")

	UserAlreadyExistsErr  = zerror.NewConflict(UserAlreadyExistsCode, "user already exists")
	UserNotFoundErr       = zerror.NewNotFound(UserNotFoundCode, "user not found")
	InvalidCredentialsErr = zerror.NewUnauthorized(InvalidCredentialsCode, "invalid credentials")
	TokenRequiredErr      = zerror.NewUnauthorized(TokenRequiredCode, "unauthorized, JWT token required")
	InvalidTokenErr       = zerror.NewForbidden(InvalidTokenCode, "unauthorized, invalid token")

	RouteNotFoundErr    = zerror.NewNotFound(RouteNotFoundCode, "route not found")
	MethodNotAllowedErr = zerror.NewZError(nil, zerror.StatusMethodNotAllowed, MethodNotAllowedCode, "method not allowed")
)
