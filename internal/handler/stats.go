package handler

import (
	"net/http"

	"github.com/Dev-Redad/cosmo-v1/internal/engine"
	"github.com/Dev-Redad/cosmo-v1/internal/store"
)

// StatsHandler serves operational counts for quick inspection. Settlement
// and selection outcome counters live on /metrics; these are the live
// store sizes.
type StatsHandler struct {
	sessions *store.SessionStore
	locks    *store.LockStore
	paylog   *store.PayLogStore
	products *store.ProductStore
	sweeper  *engine.Sweeper
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(
	sessions *store.SessionStore,
	locks *store.LockStore,
	paylog *store.PayLogStore,
	products *store.ProductStore,
	sweeper *engine.Sweeper,
) *StatsHandler {
	return &StatsHandler{
		sessions: sessions,
		locks:    locks,
		paylog:   paylog,
		products: products,
		sweeper:  sweeper,
	}
}

// statsResponse is the JSON response for GET /stats.
type statsResponse struct {
	PendingSessions int `json:"pending_sessions"`
	LiveLocks       int `json:"live_locks"`
	TrackedExpiries int `json:"tracked_expiries"`
	PaymentsLogged  int `json:"payments_logged"`
	CatalogProducts int `json:"catalog_products"`
}

// GetStats handles GET /stats.
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, statsResponse{
		PendingSessions: h.sessions.Count(),
		LiveLocks:       h.locks.Count(),
		TrackedExpiries: h.sweeper.TrackedCount(),
		PaymentsLogged:  h.paylog.Count(),
		CatalogProducts: len(h.products.List()),
	})
}
