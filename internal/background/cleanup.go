// Package background runs periodic maintenance tasks.
package background

import (
	"context"
	"log/slog"
	"time"
)

// ResetTokenStore is the slice of the user repository the cleaner needs.
type ResetTokenStore interface {
	ClearExpiredResetTokens(ctx context.Context) (int64, error)
}

// Cleaner periodically wipes expired password-reset tokens. Expired
// tokens already fail lookup, so this is hygiene rather than
// enforcement: stale hashes should not linger in the database.
type Cleaner struct {
	store    ResetTokenStore
	interval time.Duration
	logger   *slog.Logger
	done     chan struct{}
}

func NewCleaner(store ResetTokenStore, interval time.Duration, logger *slog.Logger) *Cleaner {
	return &Cleaner{
		store:    store,
		interval: interval,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Start runs the sweep loop until ctx is cancelled or Stop is called.
func (c *Cleaner) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				c.sweep(ctx)
			case <-ctx.Done():
				return
			case <-c.done:
				return
			}
		}
	}()
}

func (c *Cleaner) Stop() {
	close(c.done)
}

func (c *Cleaner) sweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	cleared, err := c.store.ClearExpiredResetTokens(sweepCtx)
	if err != nil {
		c.logger.Error("reset token sweep failed", slog.String("error", err.Error()))
		return
	}
	if cleared > 0 {
		c.logger.Info("cleared expired reset tokens", slog.Int64("count", cleared))
	}
}
