package gomt

import (
	"context"
	"errors"
	"time"
)

// RetryConfig holds configuration for retry behavior.
type RetryConfig struct {
	MaxRetries int           // Maximum number of retry attempts
	BaseDelay  time.Duration // Initial delay between retries
	MaxDelay   time.Duration // Maximum delay between retries

	// OnRetry, if set, is called before each backoff sleep with the
	// 1-based retry number, the failure and the chosen delay.
	OnRetry func(retry int, err error, delay time.Duration)
}

// DefaultRetryConfig returns defaults suited to hosted inference, where a
// cold model can take tens of seconds to come up.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		BaseDelay:  1 * time.Second,
		MaxDelay:   30 * time.Second,
	}
}

// RetryFunc is a function that can be retried.
type RetryFunc[T any] func() (T, error)

// Retry executes fn with exponential backoff while it fails with a
// retryable error. A ProviderError.RetryAfter hint raises the delay, still
// capped by MaxDelay.
func Retry[T any](ctx context.Context, cfg RetryConfig, fn RetryFunc[T]) (T, error) {
	var zero T

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		if !IsRetryable(err) || attempt >= cfg.MaxRetries {
			return zero, err
		}

		delay := cfg.backoff(attempt, err)
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt+1, err, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}
}

// backoff returns the sleep before retry number attempt+1.
func (cfg RetryConfig) backoff(attempt int, err error) time.Duration {
	delay := cfg.BaseDelay << attempt
	if delay <= 0 && cfg.BaseDelay > 0 {
		delay = cfg.MaxDelay // shift overflow
	}

	var providerErr *ProviderError
	if errors.As(err, &providerErr) && providerErr.RetryAfter > delay {
		delay = providerErr.RetryAfter
	}

	if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
		delay = cfg.MaxDelay
	}
	return delay
}

// IsRetryable reports whether err is a ProviderError flagged as retryable.
// Load failures and context errors are never retried.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return false
	}

	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return providerErr.Retryable
	}
	return false
}

// RetryablePipeline wraps a Pipeline with retry logic.
type RetryablePipeline struct {
	pipeline Pipeline
	config   RetryConfig
}

// NewRetryablePipeline creates a new pipeline with retry logic.
func NewRetryablePipeline(pipeline Pipeline, cfg RetryConfig) *RetryablePipeline {
	return &RetryablePipeline{
		pipeline: pipeline,
		config:   cfg,
	}
}

// Translate implements Pipeline with retry logic.
func (p *RetryablePipeline) Translate(ctx context.Context, text string) ([]Output, error) {
	return Retry(ctx, p.config, func() ([]Output, error) {
		return p.pipeline.Translate(ctx, text)
	})
}
