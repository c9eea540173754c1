package http

import (
	"log/slog"
	"net/http"

	"github.com/tuanvumaihuynh/storefront-catalog/internal/http/dto"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/storage/db"
)

type healthHandler struct {
	logger  *slog.Logger
	checker db.HealthChecker
}

func newHealthHandler(logger *slog.Logger, checker db.HealthChecker) *healthHandler {
	return &healthHandler{
		logger:  logger,
		checker: checker,
	}
}

func (h *healthHandler) Root(w http.ResponseWriter, _ *http.Request) error {
	return writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Storefront catalog API is running"})
}

func (h *healthHandler) Healthz(w http.ResponseWriter, r *http.Request) error {
	if h.checker == nil {
		return writeJSON(w, http.StatusOK, dto.HealthResponse{Status: "ok"})
	}

	healthy, err := h.checker.IsHealthy(r.Context())
	if err != nil || !healthy {
		h.logger.WarnContext(r.Context(), "health check failed", slog.Any("error", err))
		return writeJSON(w, http.StatusServiceUnavailable, dto.HealthResponse{Status: "unavailable"})
	}

	return writeJSON(w, http.StatusOK, dto.HealthResponse{Status: "ok"})
}
