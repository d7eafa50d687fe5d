package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Pinger reports whether an optional backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves the health-check endpoint.
type HealthHandler struct {
	cache  Pinger
	chains int
	logger *slog.Logger
}

// NewHealthHandler creates a HealthHandler. cache may be nil when the
// response cache is disabled; chains is the size of the chain registry.
func NewHealthHandler(cache Pinger, chains int, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{cache: cache, chains: chains, logger: logger}
}

// HealthCheck responds with a simple JSON status indicating the server is alive.
// A failing cache degrades the report but never the status code, since every
// request can still be served from the upstream APIs.
// GET /api/health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	cache := "disabled"
	if h.cache != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.cache.Ping(ctx); err != nil {
			h.logger.WarnContext(r.Context(), "handler: cache ping failed",
				slog.String("error", err.Error()),
			)
			cache = "unavailable"
		} else {
			cache = "ok"
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"cache":     cache,
		"chains":    h.chains,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
