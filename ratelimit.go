package teamtl

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig configures provider rate limiting.
type RateLimitConfig struct {
	RequestsPerMinute int // Sustained request rate (default: 60)
	BurstSize         int // Requests allowed at once (default: RequestsPerMinute)
}

func (c RateLimitConfig) limiter() *rate.Limiter {
	rpm := c.RequestsPerMinute
	if rpm <= 0 {
		rpm = 60
	}
	burst := c.BurstSize
	if burst <= 0 {
		burst = rpm
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), burst)
}

// RateLimitedProvider wraps a Provider with a token bucket.
type RateLimitedProvider struct {
	provider Provider
	limiter  *rate.Limiter
}

// NewRateLimitedProvider creates a new rate-limited provider.
func NewRateLimitedProvider(provider Provider, cfg RateLimitConfig) *RateLimitedProvider {
	return &RateLimitedProvider{
		provider: provider,
		limiter:  cfg.limiter(),
	}
}

// Translate waits for a token, then calls the wrapped provider.
func (p *RateLimitedProvider) Translate(ctx context.Context, req TranslateRequest) (string, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return "", &ProviderError{
			Message:   "rate limit wait cancelled",
			Cause:     err,
			Retryable: false,
		}
	}

	return p.provider.Translate(ctx, req)
}

// Allow reports whether a request could be made right now, consuming a token if so.
func (p *RateLimitedProvider) Allow() bool {
	return p.limiter.Allow()
}

// Tokens returns the number of tokens currently available.
func (p *RateLimitedProvider) Tokens() float64 {
	return p.limiter.Tokens()
}
