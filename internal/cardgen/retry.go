package cardgen

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// RetryGenerator is a decorator that retries transient failures with
// exponential backoff and jitter.
type RetryGenerator struct {
	inner  Generator
	config RetryConfig
}

// WithRetry wraps a Generator with retry logic.
func WithRetry(g Generator, cfg RetryConfig) Generator {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &RetryGenerator{inner: g, config: cfg}
}

func (r *RetryGenerator) Generate(ctx context.Context, in Input) (*Result, error) {
	var lastErr error
	invalidRetried := false

	for attempt := range r.config.MaxAttempts {
		res, err := r.inner.Generate(ctx, in)
		if err == nil {
			return res, nil
		}
		lastErr = err

		if !shouldRetry(err, &invalidRetried) {
			return nil, err
		}
		if attempt == r.config.MaxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(r.backoff(attempt)):
		}
	}

	return nil, lastErr
}

func (r *RetryGenerator) Name() string { return r.inner.Name() }

func shouldRetry(err error, invalidRetried *bool) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	// Client errors won't change on resubmission.
	var failed *ErrGenerationFailed
	if errors.As(err, &failed) {
		return failed.Transient()
	}

	// A malformed answer gets one more chance.
	var invalid *ErrInvalidResponse
	if errors.As(err, &invalid) {
		if *invalidRetried {
			return false
		}
		*invalidRetried = true
		return true
	}

	var unavailable *ErrUnavailable
	return errors.As(err, &unavailable)
}

func (r *RetryGenerator) backoff(attempt int) time.Duration {
	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt))
	if wait > float64(r.config.MaxWait) {
		wait = float64(r.config.MaxWait)
	}

	// ±20% jitter.
	wait += wait * 0.2 * (2*rand.Float64() - 1)
	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}
