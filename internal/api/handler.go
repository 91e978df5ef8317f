package api

import (
	"github.com/SherClockHolmes/webpush-go"

	"carwash-backend/config"
	"carwash-backend/internal/notification"
	"carwash-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store   store.Store
	cfg     *config.Config
	webpush *webpush.Options
	pool    *notification.WorkerPool
}

// NewHandler creates a new API handler. pool may be nil when push delivery is
// not configured.
func NewHandler(s store.Store, cfg *config.Config, webpushOptions *webpush.Options, pool *notification.WorkerPool) *Handler {
	return &Handler{
		store:   s,
		cfg:     cfg,
		webpush: webpushOptions,
		pool:    pool,
	}
}

func (h *Handler) notifyWashed(vehicleID int64) {
	if h.pool != nil {
		h.pool.Dispatch(vehicleID)
	}
}
