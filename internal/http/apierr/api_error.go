package apierr

import (
	"errors"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3filter"
	govalidator "github.com/go-playground/validator/v10"

	"github.com/tuanvumaihuynh/storefront-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/http/dto"
	"github.com/tuanvumaihuynh/storefront-catalog/pkg/validator"
	"github.com/tuanvumaihuynh/storefront-catalog/pkg/zerror"
)

// ErrorResponse is the error response for the API.
type ErrorResponse struct {
	dto.ErrorResponse

	// StatusCode is the status code for the error response.
	StatusCode int `json:"-"`
}

func New(err error) ErrorResponse {
	return errorToErrorResponse(err)
}

var InternalServerErr = ErrorResponse{
	ErrorResponse: dto.ErrorResponse{
		Code:    "internalServerError",
		Message: "an unknown error occurred",
	},
	StatusCode: http.StatusInternalServerError,
}

func errorToErrorResponse(err error) ErrorResponse {
	// Contract violations carry more detail than the zerror wrapping them.
	var reqErr *openapi3filter.RequestError
	if errors.As(err, &reqErr) {
		return requestErrorResponse(reqErr)
	}

	var validationErrs govalidator.ValidationErrors
	if errors.As(err, &validationErrs) {
		details := make([]dto.FieldError, len(validationErrs))
		for i, fe := range validationErrs {
			details[i] = dto.FieldError{
				Field:   fe.Field(),
				Message: validator.ValidationErrorMessage(fe),
			}
		}

		return ErrorResponse{
			ErrorResponse: dto.ErrorResponse{
				Code:    apperr.ValidationErrorCode,
				Message: "validation error",
				Details: &details,
			},
			StatusCode: http.StatusBadRequest,
		}
	}

	var zErr zerror.ZError
	if errors.As(err, &zErr) {
		return ErrorResponse{
			ErrorResponse: dto.ErrorResponse{
				Code:    zErr.Code(),
				Message: zErr.Msg(),
			},
			StatusCode: ZErrorStatusToHTTPStatus(zErr.Status()),
		}
	}

	return InternalServerErr
}

func requestErrorResponse(reqErr *openapi3filter.RequestError) ErrorResponse {
	res := ErrorResponse{
		ErrorResponse: dto.ErrorResponse{
			Code:    apperr.ValidationErrorCode,
			Message: "validation error",
		},
		StatusCode: http.StatusBadRequest,
	}

	field := "body"
	if reqErr.Parameter != nil {
		field = reqErr.Parameter.Name
	}

	msg := reqErr.Reason
	if msg == "" && reqErr.Err != nil {
		msg = reqErr.Err.Error()
	}
	if msg == "" {
		msg = "is invalid"
	}

	res.Details = &[]dto.FieldError{{Field: field, Message: msg}}
	return res
}

func ZErrorStatusToHTTPStatus(status zerror.Status) int {
	switch status {
	case zerror.StatusUnauthorized:
		return http.StatusUnauthorized
	case zerror.StatusForbidden:
		return http.StatusForbidden
	case zerror.StatusNotFound:
		return http.StatusNotFound
	case zerror.StatusUnprocessableEntity:
		return http.StatusUnprocessableEntity
	case zerror.StatusConflict:
		return http.StatusConflict
	case zerror.StatusTooManyRequests:
		return http.StatusTooManyRequests
	case zerror.StatusBadRequest:
		return http.StatusBadRequest
	case zerror.StatusValidationFailed:
		return http.StatusBadRequest
	case zerror.StatusUnknown, zerror.StatusInternalServerError:
		return http.StatusInternalServerError
	case zerror.StatusTimeout:
		return http.StatusGatewayTimeout
	case zerror.StatusNotImplemented:
		return http.StatusNotImplemented
	case zerror.StatusBadGateway:
		return http.StatusBadGateway
	case zerror.StatusServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
