package apperr

import "github.com/tuanvumaihuynh/storefront-catalog/pkg/zerror"

const (
	ValidationErrorCode = "VALIDATION_FAILED"
)

var (
	ValidationErr = zerror.NewValidationFailed(ValidationErrorCode, "validation error")

	UnauthorizedErr    = zerror.NewUnauthorized("UNAUTHORIZED", "admin credential is missing or invalid")
	TooManyAttemptsErr = zerror.NewTooManyRequests("TOO_MANY_ATTEMPTS", "too many failed admin attempts, try again later")

	InvalidBodyErr   = zerror.NewBadRequest("INVALID_BODY", "request body is malformed or has unknown fields")
	InvalidQueryErr  = zerror.NewBadRequest("INVALID_QUERY", "query parameter is invalid")
	ImageRequiredErr = zerror.NewBadRequest("IMAGE_REQUIRED", "exactly one file is required in field 'image'")
	ImageTooLargeErr = zerror.NewBadRequest("IMAGE_TOO_LARGE", "uploaded image exceeds the size limit")

	ProductNotFoundErr = zerror.NewNotFound("PRODUCT_NOT_FOUND", "product not found")

	PromoNotFoundErr     = zerror.NewNotFound("PROMO_NOT_FOUND", "invalid promo code")
	PromoExpiredErr      = zerror.NewBadRequest("PROMO_EXPIRED", "promo code has expired")
	PromoCodeConflictErr = zerror.NewConflict("PROMO_CODE_CONFLICT", "promo code already exists")

	UploadFailedErr = zerror.NewBadGateway("UPLOAD_FAILED", "image upload failed")
)
