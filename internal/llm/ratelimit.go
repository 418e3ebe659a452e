package llm

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// RateLimitConfig throttles outgoing requests on the client side.
type RateLimitConfig struct {
	// PerMinute is the sustained request rate. Zero disables throttling.
	PerMinute float64

	// Burst is the number of requests allowed at once. Default: 1.
	Burst int
}

// RateLimitedProvider is a decorator that waits on a token bucket before
// every request.
type RateLimitedProvider struct {
	inner   Provider
	limiter *rate.Limiter
}

// WithRateLimit wraps p with a limiter built from cfg. It returns p
// unchanged when cfg.PerMinute is not positive.
func WithRateLimit(p Provider, cfg RateLimitConfig) Provider {
	if cfg.PerMinute <= 0 {
		return p
	}
	burst := max(cfg.Burst, 1)
	return &RateLimitedProvider{
		inner:   p,
		limiter: rate.NewLimiter(rate.Limit(cfg.PerMinute/60), burst),
	}
}

func (r *RateLimitedProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for rate limiter: %w", err)
	}
	return r.inner.Generate(ctx, req)
}

func (r *RateLimitedProvider) ModelID() string {
	return r.inner.ModelID()
}
