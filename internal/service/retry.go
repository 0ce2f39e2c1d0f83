package service

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"
)

// RetryConfig controls retry behavior.
type RetryConfig struct {
	MaxRetries  int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// RetryDo calls fn up to MaxRetries extra times with exponential backoff while retryable
// reports true. Context cancellation stops it immediately.
func RetryDo[T any](ctx context.Context, rc RetryConfig, log *zap.Logger, retryable func(error) bool, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	multiplier := rc.Multiplier
	if multiplier < 1 {
		multiplier = 2
	}

	for attempt := 0; attempt <= rc.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return zero, lastErr
			}
			return zero, err
		}

		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !retryable(err) || attempt == rc.MaxRetries {
			break
		}

		wait := time.Duration(float64(rc.InitialWait) * math.Pow(multiplier, float64(attempt)))
		if rc.MaxWait > 0 && wait > rc.MaxWait {
			wait = rc.MaxWait
		}
		log.Warn("Retrying after failure",
			zap.Int("attempt", attempt+1),
			zap.Duration("wait", wait),
			zap.Error(err))

		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return zero, lastErr
		}
	}
	return zero, lastErr
}
