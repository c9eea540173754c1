package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/storefront-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/auth"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/http/metric"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/http/middleware"
	"github.com/tuanvumaihuynh/storefront-catalog/pkg/correlationid"
)

type recordedError struct {
	err error
}

func (r *recordedError) handle(w http.ResponseWriter, _ *http.Request, err error) {
	r.err = err
	w.WriteHeader(http.StatusTeapot)
}

type countingVerifier struct {
	calls int
	ok    bool
}

func (v *countingVerifier) Verify(context.Context, string) bool {
	v.calls++
	return v.ok
}

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestAdmin(t *testing.T) {
	t.Run("Should pass accepted credential", func(t *testing.T) {
		var called bool
		rec := &recordedError{}
		h := middleware.Admin(auth.NewStaticSecret("pw"), nil, nil, rec.handle)(okHandler(&called))

		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set(middleware.AdminHeader, "pw")
		resp := httptest.NewRecorder()
		h.ServeHTTP(resp, req)

		assert.True(t, called)
		assert.NoError(t, rec.err)
	})

	t.Run("Should reject and count missing credential", func(t *testing.T) {
		var called bool
		rec := &recordedError{}
		m := metric.New(prometheus.NewRegistry())
		h := middleware.Admin(auth.NewStaticSecret("pw"), nil, m, rec.handle)(okHandler(&called))

		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", nil))

		assert.False(t, called)
		assert.ErrorIs(t, rec.err, apperr.UnauthorizedErr)
		assert.Equal(t, 1.0, testutil.ToFloat64(m.AdminRejections.WithLabelValues("unauthorized")))
	})

	t.Run("Should not consult verifier while throttled", func(t *testing.T) {
		throttle, err := auth.NewThrottle(1, 8)
		require.NoError(t, err)
		verifier := &countingVerifier{}
		rec := &recordedError{}
		var called bool
		h := middleware.Admin(verifier, throttle, nil, rec.handle)(okHandler(&called))

		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", nil))
		assert.ErrorIs(t, rec.err, apperr.UnauthorizedErr)

		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", nil))
		assert.ErrorIs(t, rec.err, apperr.TooManyAttemptsErr)
		assert.Equal(t, 1, verifier.calls)
		assert.False(t, called)
	})

	t.Run("Should track clients separately", func(t *testing.T) {
		throttle, err := auth.NewThrottle(1, 8)
		require.NoError(t, err)
		rec := &recordedError{}
		var called bool
		h := middleware.Admin(&countingVerifier{}, throttle, nil, rec.handle)(okHandler(&called))

		first := httptest.NewRequest(http.MethodPost, "/", nil)
		first.RemoteAddr = "10.0.0.1:5000"
		h.ServeHTTP(httptest.NewRecorder(), first)

		second := httptest.NewRequest(http.MethodPost, "/", nil)
		second.RemoteAddr = "10.0.0.2:5000"
		h.ServeHTTP(httptest.NewRecorder(), second)

		assert.ErrorIs(t, rec.err, apperr.UnauthorizedErr)
	})
}

func TestCorrelationID(t *testing.T) {
	var got string
	h := middleware.CorrelationID()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got, _ = correlationid.FromContext(r.Context())
	}))

	t.Run("Should keep incoming id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(correlationid.Header, "req-1")
		resp := httptest.NewRecorder()
		h.ServeHTTP(resp, req)

		assert.Equal(t, "req-1", got)
		assert.Equal(t, "req-1", resp.Header().Get(correlationid.Header))
	})

	t.Run("Should mint id when absent", func(t *testing.T) {
		resp := httptest.NewRecorder()
		h.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.NotEmpty(t, got)
		assert.Equal(t, got, resp.Header().Get(correlationid.Header))
	})
}

const contract = `
openapi: 3.0.3
info:
  title: test
  version: "1"
paths:
  /items:
    post:
      requestBody:
        required: true
        content:
          application/json:
            schema:
              type: object
              additionalProperties: false
              required: [name]
              properties:
                name:
                  type: string
      responses:
        "201":
          description: created
`

func TestOpenAPIValidator(t *testing.T) {
	router, err := middleware.NewOpenAPIRouter([]byte(contract))
	require.NoError(t, err)

	newHandler := func() (http.Handler, *bool, *recordedError) {
		called := new(bool)
		rec := &recordedError{}
		return middleware.OpenAPIValidator(router, rec.handle)(okHandler(called)), called, rec
	}

	t.Run("Should accept conforming body", func(t *testing.T) {
		h, called, rec := newHandler()

		req := httptest.NewRequest(http.MethodPost, "/items", strings.NewReader(`{"name":"a"}`))
		req.Header.Set("Content-Type", "application/json")
		h.ServeHTTP(httptest.NewRecorder(), req)

		assert.True(t, *called)
		assert.NoError(t, rec.err)
	})

	t.Run("Should reject unknown property", func(t *testing.T) {
		h, called, rec := newHandler()

		req := httptest.NewRequest(http.MethodPost, "/items", strings.NewReader(`{"name":"a","x":1}`))
		req.Header.Set("Content-Type", "application/json")
		h.ServeHTTP(httptest.NewRecorder(), req)

		assert.False(t, *called)
		assert.ErrorIs(t, rec.err, apperr.ValidationErr)
	})

	t.Run("Should pass through unknown routes", func(t *testing.T) {
		h, called, _ := newHandler()

		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.True(t, *called)
	})

	t.Run("Should fail on invalid document", func(t *testing.T) {
		_, err := middleware.NewOpenAPIRouter([]byte("openapi: [broken"))
		assert.Error(t, err)
	})
}
