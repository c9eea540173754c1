package middleware

import (
	"net"
	"net/http"
	"time"

	"github.com/tuanvumaihuynh/storefront-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/auth"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/http/metric"
)

// AdminHeader carries the admin shared secret.
const AdminHeader = "X-Admin-Password"

// ErrorHandler writes err as the response.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// Admin rejects requests whose AdminHeader is not accepted by verifier.
// Rejected requests never reach next. When throttle is set, clients that keep
// failing are refused before the credential is even compared.
func Admin(
	verifier auth.Verifier,
	throttle *auth.Throttle,
	m *metric.Metrics,
	onError ErrorHandler,
) func(http.Handler) http.Handler {
	reject := func(reason string) {
		if m != nil {
			m.AdminRejections.WithLabelValues(reason).Inc()
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientKey(r)
			now := time.Now()

			if throttle != nil && throttle.Blocked(key, now) {
				reject("throttled")
				onError(w, r, apperr.TooManyAttemptsErr)
				return
			}

			if !verifier.Verify(r.Context(), r.Header.Get(AdminHeader)) {
				if throttle != nil {
					throttle.Failure(key, now)
				}
				reject("unauthorized")
				onError(w, r, apperr.UnauthorizedErr)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
