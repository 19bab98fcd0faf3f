package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Pinger reports whether a backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves the banner and liveness endpoints
type HealthHandler struct {
	store Pinger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store Pinger) *HealthHandler {
	return &HealthHandler{store: store}
}

// Root handles GET /
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("JOB PORTAL SERVER"))
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		slog.WarnContext(r.Context(), "health check failed", slog.String("error", err.Error()))
		WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "store": "down"})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok", "store": "up"})
}
