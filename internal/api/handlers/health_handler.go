package handlers

import (
	"context"
	"net/http"
	"time"
)

// Pinger reports whether the coupon store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	store   Pinger
	version string
}

func NewHealthHandler(store Pinger, version string) *HealthHandler {
	return &HealthHandler{store: store, version: version}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	database := "connected"
	if err := h.store.Ping(ctx); err != nil {
		database = "disconnected"
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"message":   "Coupon Management API is running",
		"database":  database,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Index handles GET /
func (h *HealthHandler) Index(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Coupon Management API",
		"version": h.version,
		"endpoints": map[string]string{
			"POST /coupons":                   "Create a new coupon",
			"GET /coupons":                    "List all coupons",
			"POST /coupons/best-coupon":       "Find the best applicable coupon",
			"POST /coupons/best-coupon/batch": "Find the best coupon for several carts",
		},
	})
}
