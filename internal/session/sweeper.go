package session

import (
	"context"
	"time"

	"ussd_lms/internal/logger"
)

// Sweeper periodically evicts idle sessions from a store. It is the only
// long-lived background task in the gateway.
type Sweeper struct {
	store    Store
	interval time.Duration
}

// NewSweeper creates a sweeper over the given store.
func NewSweeper(store Store, interval time.Duration) *Sweeper {
	return &Sweeper{store: store, interval: interval}
}

// Run sweeps on a fixed interval until the context is cancelled.
func (w *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			removed, err := w.store.SweepExpired(ctx, now)
			if err != nil {
				logger.Error().Err(err).Msg("session sweep failed")
				continue
			}
			if removed > 0 {
				logger.Info().Int("removed", removed).Msg("swept expired sessions")
			}
		}
	}
}
