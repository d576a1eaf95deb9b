// Package ratelimit spaces out requests to the same host.
package ratelimit

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultSpacing is the minimum gap between two requests to one host
const DefaultSpacing = 300 * time.Millisecond

// HostLimiter enforces a minimum spacing between requests to the same host.
// Each host gets its own token bucket with a burst of one, so the first
// request goes out immediately and later ones wait for the remainder of the
// spacing interval. Distinct hosts never delay each other.
type HostLimiter struct {
	mu      sync.Mutex
	spacing time.Duration
	hosts   map[string]*rate.Limiter
}

// New creates a limiter; a non-positive spacing disables throttling
func New(spacing time.Duration) *HostLimiter {
	return &HostLimiter{
		spacing: spacing,
		hosts:   make(map[string]*rate.Limiter),
	}
}

// Spacing returns the configured minimum spacing
func (l *HostLimiter) Spacing() time.Duration {
	return l.spacing
}

// Wait blocks until a request to host may be sent. It only returns an error
// when ctx is cancelled while waiting.
func (l *HostLimiter) Wait(ctx context.Context, host string) error {
	if l.spacing <= 0 {
		return nil
	}
	return l.limiterFor(host).Wait(ctx)
}

// Hosts returns how many distinct hosts have been seen
func (l *HostLimiter) Hosts() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.hosts)
}

func (l *HostLimiter) limiterFor(host string) *rate.Limiter {
	key := strings.ToLower(host)

	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.hosts[key]
	if !ok {
		lim = rate.NewLimiter(rate.Every(l.spacing), 1)
		l.hosts[key] = lim
	}
	return lim
}
