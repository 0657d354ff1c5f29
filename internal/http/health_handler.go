package http

import (
	"log/slog"
	"net/http"

	"github.com/tuanvumaihuynh/productstack/internal/storage/db"
)

type healthResponse struct {
	Status      string `json:"status"`
	DBConnected bool   `json:"dbConnected"`
}

type healthHandler struct {
	responder
	checker db.HealthChecker
}

// Health reports 503 while the database cannot be reached.
func (h *healthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ok, err := h.checker.IsHealthy(r.Context())
	if err != nil {
		h.logger.WarnContext(r.Context(), "health check failed", slog.Any("error", err))
	}

	if !ok {
		h.JSON(w, r, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
		return
	}

	h.JSON(w, r, http.StatusOK, healthResponse{Status: "ok", DBConnected: true})
}
