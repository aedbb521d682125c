package llm

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitedProvider wraps a provider with a client-side token bucket
// so a burst of insight requests cannot blow through a vendor quota.
type RateLimitedProvider struct {
	inner   Provider
	limiter *rate.Limiter
}

// NewRateLimitedProvider caps the wrapped provider at requestsPerMinute.
// A non-positive budget disables the cap.
func NewRateLimitedProvider(inner Provider, requestsPerMinute int) *RateLimitedProvider {
	limit := rate.Inf
	burst := 1
	if requestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(requestsPerMinute))
		burst = requestsPerMinute / 10
		if burst < 1 {
			burst = 1
		}
	}
	return &RateLimitedProvider{
		inner:   inner,
		limiter: rate.NewLimiter(limit, burst),
	}
}

func (p *RateLimitedProvider) Name() string { return p.inner.Name() }

// Complete waits for a token, then delegates. A context deadline that
// cannot accommodate the wait fails fast instead of blocking.
func (p *RateLimitedProvider) Complete(ctx context.Context, req Request) (string, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("llm rate limit wait: %w", err)
	}
	return p.inner.Complete(ctx, req)
}
