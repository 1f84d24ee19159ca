package gomt

import (
	"context"
	"sync"
	"time"
)

// RateLimiter is a token bucket limiting calls to a hosted backend.
// It is safe for concurrent use and may be shared by several pipelines.
type RateLimiter struct {
	mu         sync.Mutex
	tokens     float64
	maxTokens  float64
	perSecond  float64
	lastRefill time.Time
	now        func() time.Time
}

// RateLimitConfig configures the rate limiter.
type RateLimitConfig struct {
	RequestsPerMinute int // Maximum requests per minute (default: 60)
	BurstSize         int // Maximum burst size (default: same as RPM)
}

// NewRateLimiter creates a new rate limiter with a full bucket.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	rpm := float64(cfg.RequestsPerMinute)
	if rpm <= 0 {
		rpm = 60
	}

	burst := float64(cfg.BurstSize)
	if burst <= 0 {
		burst = rpm
	}

	return &RateLimiter{
		tokens:     burst,
		maxTokens:  burst,
		perSecond:  rpm / 60.0,
		lastRefill: time.Now(),
		now:        time.Now,
	}
}

// Wait blocks until a token is available or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	for {
		wait := r.reserve()
		if wait == 0 {
			return nil
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// TryAcquire takes a token without blocking. Returns false if none is available.
func (r *RateLimiter) TryAcquire() bool {
	return r.reserve() == 0
}

// reserve takes a token if one is available and returns 0; otherwise it
// returns how long until the next token accrues.
func (r *RateLimiter) reserve() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.refill(r.now())
	if r.tokens >= 1 {
		r.tokens--
		return 0
	}

	deficit := 1 - r.tokens
	wait := time.Duration(deficit / r.perSecond * float64(time.Second))
	if wait < time.Millisecond {
		wait = time.Millisecond
	}
	return wait
}

// refill must be called with mu held.
func (r *RateLimiter) refill(now time.Time) {
	r.tokens += now.Sub(r.lastRefill).Seconds() * r.perSecond
	if r.tokens > r.maxTokens {
		r.tokens = r.maxTokens
	}
	r.lastRefill = now
}

// Available returns the current number of available tokens.
func (r *RateLimiter) Available() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refill(r.now())
	return r.tokens
}

// RateLimitedPipeline wraps a Pipeline with rate limiting.
type RateLimitedPipeline struct {
	pipeline Pipeline
	limiter  *RateLimiter
}

// NewRateLimitedPipeline creates a new rate-limited pipeline.
func NewRateLimitedPipeline(pipeline Pipeline, limiter *RateLimiter) *RateLimitedPipeline {
	return &RateLimitedPipeline{
		pipeline: pipeline,
		limiter:  limiter,
	}
}

// Translate waits for a token, then runs the wrapped pipeline.
func (p *RateLimitedPipeline) Translate(ctx context.Context, text string) ([]Output, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return p.pipeline.Translate(ctx, text)
}

// Limiter returns the underlying rate limiter.
func (p *RateLimitedPipeline) Limiter() *RateLimiter {
	return p.limiter
}
