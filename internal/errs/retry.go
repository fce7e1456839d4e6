package errs

import (
	"context"
	"time"
)

// RetryConfig parameterizes the retry combinator. A config whose
// MaxRetries is zero or negative is replaced as a whole by
// DefaultRetryConfig (3 retries, 1000ms base delay, 2x multiplier,
// capped at 10000ms); otherwise every field is used as given.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	Multiplier float64
	MaxDelay   time.Duration
}

// DefaultRetryConfig mirrors the Façade's `maxRetries`/`retryDelayMs`
// options (spec §6) when a caller hasn't overridden them.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		BaseDelay:  time.Second,
		Multiplier: 2,
		MaxDelay:   10 * time.Second,
	}
}

// WithRetry runs fn with exponential backoff, retrying only when the
// classified failure is Recoverable and its Kind is in the retryable set
// (NetworkError, ApiError, RateLimited, GasEstimationFailed). Any other
// kind is returned immediately without a retry.
func WithRetry(ctx context.Context, cfg RetryConfig, fn func(ctx context.Context) error) error {
	if cfg.MaxRetries <= 0 {
		cfg = DefaultRetryConfig()
	}
	delay := cfg.BaseDelay
	var lastErr error
	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		classified := Classify(err)
		lastErr = classified
		if !classified.IsRetryable() || attempt == cfg.MaxRetries {
			return classified
		}
		select {
		case <-ctx.Done():
			return Wrap(KindNetworkError, "context cancelled during retry backoff", ctx.Err())
		case <-time.After(delay):
		}
		delay = time.Duration(float64(delay) * cfg.Multiplier)
		if delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}
	return lastErr
}
