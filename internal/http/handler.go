package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"

	"github.com/tuanvumaihuynh/storefront-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/storefront-catalog/pkg/validator"
)

// maxJSONBodyBytes bounds JSON request bodies.
const maxJSONBodyBytes = 1 << 20

// handlerFunc is an http.HandlerFunc that reports failures instead of writing them.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

func (s *Service) handle(fn handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			s.handleResponseError(w, r, err)
		}
	}
}

// writeJSON marshals v before touching w so a failure can still become an
// error response.
func writeJSON(w http.ResponseWriter, status int, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal response: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck
	w.Write(b)
	return nil
}

// decodeJSON decodes exactly one JSON object into dst, rejecting unknown fields,
// and runs struct validation on it.
func decodeJSON(w http.ResponseWriter, r *http.Request, v validator.Validator, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return apperr.InvalidBodyErr.WrapParent(err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return apperr.InvalidBodyErr.WrapParent(errors.New("body must contain a single JSON object"))
	}

	if err := v.Validate(dst); err != nil {
		return fmt.Errorf("validate request body: %w", err)
	}
	return nil
}

// pathID binds the {id} path parameter. A malformed id cannot name an existing
// product, so it is reported as not found.
func pathID(value string) (uuid.UUID, error) {
	var id uuid.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "id", value, &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		return uuid.Nil, apperr.ProductNotFoundErr.WrapParent(err)
	}
	return id, nil
}
