package state

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// DefaultSyncInterval is how often remote collections are pulled.
const DefaultSyncInterval = 30 * time.Second

// Syncer periodically merges remote contracts and invoices into a Controller.
type Syncer struct {
	c        *Controller
	interval time.Duration
}

// NewSyncer returns a Syncer for c. A non-positive interval uses the default.
func NewSyncer(c *Controller, interval time.Duration) *Syncer {
	if interval <= 0 {
		interval = DefaultSyncInterval
	}
	return &Syncer{c: c, interval: interval}
}

// Run syncs on every tick until ctx is cancelled.
func (s *Syncer) Run(ctx context.Context) error {
	if s.c.remote == nil {
		<-ctx.Done()
		return nil
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if s.Once(ctx) {
				s.c.log.Debug("remote sync merged new records")
			}
		}
	}
}

// Once fetches contracts and invoices in parallel and merges them. It reports
// whether the local state changed.
func (s *Syncer) Once(ctx context.Context) bool {
	if s.c.remote == nil {
		return false
	}
	snap := s.c.fetchRemote(ctx, false)
	if ctx.Err() != nil {
		s.c.log.Debug("remote sync cancelled", zap.Error(ctx.Err()))
		return false
	}
	return s.c.MergeRemote(ctx, snap.contracts, snap.invoices)
}
