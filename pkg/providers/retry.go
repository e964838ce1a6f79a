package providers

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
)

const (
	retryMaxAttempts  = 4
	retryInitialDelay = 2 * time.Second
	retryMaxDelay     = 30 * time.Second
	retryMultiplier   = 2.0
)

// Retry runs an unreliable operation with bounded exponential backoff.
// Each failed attempt logs a warning with the computed delay; the last
// error surfaces once attempts are exhausted.
func Retry[T any](ctx context.Context, logger *slog.Logger, name string, operation func() (T, error)) (T, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = retryInitialDelay
	policy.MaxInterval = retryMaxDelay
	policy.Multiplier = retryMultiplier

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(retryMaxAttempts),
		backoff.WithNotify(func(err error, delay time.Duration) {
			logger.Warn("Operation failed, retrying",
				"operation", name, "delay", delay, "error", err)
		}),
	)
}
