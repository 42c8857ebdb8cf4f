package providers

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/time/rate"
)

// RateLimiter holds one token bucket per upstream provider so a scan
// fan-out cannot exceed a provider's published request budget.
type RateLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
}

// NewRateLimiter creates an empty rate limiter registry.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{limiters: make(map[string]*rate.Limiter)}
}

// InitializeProvider registers a bucket for the named provider.
func (rl *RateLimiter) InitializeProvider(provider string, rps float64, burst int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.limiters[provider] = rate.NewLimiter(rate.Limit(rps), burst)
}

// Wait blocks until the provider's bucket allows a request or the
// context ends.
func (rl *RateLimiter) Wait(ctx context.Context, provider string) error {
	rl.mu.RLock()
	limiter, exists := rl.limiters[provider]
	rl.mu.RUnlock()

	if !exists {
		return fmt.Errorf("rate limiter not initialized for provider: %s", provider)
	}
	return limiter.Wait(ctx)
}
