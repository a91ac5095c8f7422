package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/freshchain/scms/internal/domain/shared"
	"go.uber.org/zap"
)

// RetryPolicy bounds how often a transaction is re-run after a concurrency conflict
type RetryPolicy struct {
	MaxRetries int
	Backoff    time.Duration
}

// DefaultRetryPolicy retries three times with a 20ms linear backoff
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 3, Backoff: 20 * time.Millisecond}
}

// Do runs fn, re-running it while it fails with shared.ErrConcurrencyConflict.
// Attempt n waits n*Backoff first. Any other error is returned immediately.
func (p RetryPolicy) Do(ctx context.Context, logger *zap.Logger, op string, fn func(attempt int) error) error {
	var err error
	for attempt := 0; attempt <= p.MaxRetries; attempt++ {
		if attempt > 0 {
			logger.Debug("Retrying after concurrency conflict",
				zap.String("operation", op),
				zap.Int("attempt", attempt),
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * p.Backoff):
			}
		}
		err = fn(attempt)
		if err == nil || !errors.Is(err, shared.ErrConcurrencyConflict) {
			return err
		}
	}
	logger.Warn("Giving up after repeated concurrency conflicts",
		zap.String("operation", op),
		zap.Int("max_retries", p.MaxRetries),
	)
	return err
}
