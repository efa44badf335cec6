package ai

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/resumelens/internal/core/domain"
	"github.com/custodia-labs/resumelens/internal/core/ports/driven"
	"golang.org/x/time/rate"
)

// DefaultQuotaBackoff is how long calls pause after a provider quota rejection.
const DefaultQuotaBackoff = 60 * time.Second

// RateLimitConfig holds rate limiting configuration for embedding calls.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate limit. Zero or less disables the bucket.
	RequestsPerSecond float64
	// Burst is the maximum burst size.
	Burst int
	// QuotaBackoff is the pause after a quota error. Defaults to DefaultQuotaBackoff.
	QuotaBackoff time.Duration
}

// RateLimiter is a token bucket with a backoff window opened by quota errors.
type RateLimiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
	backoff time.Duration
}

// NewRateLimiter creates a rate limiter from cfg.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	backoff := cfg.QuotaBackoff
	if backoff <= 0 {
		backoff = DefaultQuotaBackoff
	}

	return &RateLimiter{
		limiter: rate.NewLimiter(limit, burst),
		backoff: backoff,
	}
}

// Wait blocks until a request can be made without exceeding the rate limit.
// It also respects any backoff window set by RecordQuotaError.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	if wait := time.Until(retryAt); wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return r.limiter.Wait(ctx)
}

// RecordQuotaError opens the backoff window.
func (r *RateLimiter) RecordQuotaError() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.retryAt = time.Now().Add(r.backoff)
}

// Allow reports whether a request can be made immediately, taking a token
// when it can.
func (r *RateLimiter) Allow() bool {
	if !r.backoffUntil().IsZero() {
		return false
	}
	return r.limiter.Allow()
}

// backoffUntil returns the end of an open quota backoff window, or zero.
func (r *RateLimiter) backoffUntil() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	if time.Now().Before(r.retryAt) {
		return r.retryAt
	}
	return time.Time{}
}

// Ensure RateLimitedEmbedding implements EmbeddingService
var _ driven.EmbeddingService = (*RateLimitedEmbedding)(nil)

// RateLimitedEmbedding throttles an embedding service.
type RateLimitedEmbedding struct {
	driven.EmbeddingService
	limiter *RateLimiter
}

// NewRateLimitedEmbedding decorates svc with limiter.
func NewRateLimitedEmbedding(svc driven.EmbeddingService, limiter *RateLimiter) *RateLimitedEmbedding {
	return &RateLimitedEmbedding{EmbeddingService: svc, limiter: limiter}
}

// EmbedDocument waits for a token before delegating
func (e *RateLimitedEmbedding) EmbedDocument(ctx context.Context, text string) ([]float32, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	vector, err := e.EmbeddingService.EmbedDocument(ctx, text)
	e.observe(err)
	return vector, err
}

// EmbedQuery serves an interactive request, so it fails fast with
// ErrQuotaExceeded during a quota backoff instead of waiting it out. An empty
// bucket still waits.
func (e *RateLimitedEmbedding) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	if !e.limiter.Allow() {
		if until := e.limiter.backoffUntil(); !until.IsZero() {
			return nil, fmt.Errorf("%w: provider backoff until %s", domain.ErrQuotaExceeded, until.Format(time.RFC3339))
		}
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	vector, err := e.EmbeddingService.EmbedQuery(ctx, query)
	e.observe(err)
	return vector, err
}

func (e *RateLimitedEmbedding) observe(err error) {
	if err != nil && domain.IsQuotaError(err) {
		e.limiter.RecordQuotaError()
	}
}
