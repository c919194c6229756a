package handler

import (
	"context"
	"net/http"
	"time"
)

// Pinger is implemented by backing stores that can report their reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	store Pinger
}

// NewHealthHandler takes the store to probe; nil means there is nothing to probe.
func NewHealthHandler(store Pinger) *HealthHandler {
	return &HealthHandler{store: store}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.store.Ping(ctx); err != nil {
			send(w, http.StatusServiceUnavailable, map[string]any{
				"success": false,
				"message": "store unavailable",
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}
