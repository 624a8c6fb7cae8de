// Package ratelimit throttles API clients so one editor cannot starve the
// sessions of others.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"appbuilder/pkg/utils"
)

// Limiter decides whether the caller identified by key may proceed
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Reset(ctx context.Context, key string) error
}

// SlidingWindowLimiter allows at most limit calls per key in any window of
// windowSize.
type SlidingWindowLimiter struct {
	mu         sync.Mutex
	windows    map[string]*window
	limit      int
	windowSize time.Duration
	clock      utils.Clock
}

type window struct {
	mu       sync.Mutex
	requests []time.Time
}

// NewSlidingWindowLimiter creates a new sliding window rate limiter
func NewSlidingWindowLimiter(limit int, windowSize time.Duration, clock utils.Clock) *SlidingWindowLimiter {
	if clock == nil {
		clock = utils.SystemClock
	}
	return &SlidingWindowLimiter{
		windows:    make(map[string]*window),
		limit:      limit,
		windowSize: windowSize,
		clock:      clock,
	}
}

// Allow records a call for key when it fits in the window
func (l *SlidingWindowLimiter) Allow(ctx context.Context, key string) (bool, error) {
	l.mu.Lock()
	w, ok := l.windows[key]
	if !ok {
		w = &window{}
		l.windows[key] = w
	}
	l.mu.Unlock()

	w.mu.Lock()
	defer w.mu.Unlock()

	now := l.clock()
	w.prune(now.Add(-l.windowSize))

	if len(w.requests) >= l.limit {
		return false, nil
	}
	w.requests = append(w.requests, now)
	return true, nil
}

// RetryAfter is how long key must wait before its next call fits
func (l *SlidingWindowLimiter) RetryAfter(key string) time.Duration {
	l.mu.Lock()
	w, ok := l.windows[key]
	l.mu.Unlock()
	if !ok {
		return 0
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.requests) < l.limit {
		return 0
	}
	return w.requests[0].Add(l.windowSize).Sub(l.clock())
}

// Reset forgets every call recorded for key
func (l *SlidingWindowLimiter) Reset(ctx context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.windows, key)
	return nil
}

// Sweep drops keys with no calls inside the window
func (l *SlidingWindowLimiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.clock().Add(-l.windowSize)
	removed := 0
	for key, w := range l.windows {
		w.mu.Lock()
		w.prune(cutoff)
		empty := len(w.requests) == 0
		w.mu.Unlock()
		if empty {
			delete(l.windows, key)
			removed++
		}
	}
	return removed
}

// Keys is the number of keys currently tracked
func (l *SlidingWindowLimiter) Keys() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}

func (w *window) prune(cutoff time.Time) {
	kept := w.requests[:0]
	for _, t := range w.requests {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	w.requests = kept
}

// IPLimiter namespaces keys by client address
type IPLimiter struct {
	limiter *SlidingWindowLimiter
}

// NewIPLimiter allows requestsPerMinute calls per client address
func NewIPLimiter(requestsPerMinute int, clock utils.Clock) *IPLimiter {
	return &IPLimiter{limiter: NewSlidingWindowLimiter(requestsPerMinute, time.Minute, clock)}
}

// Allow checks if a request from ip is allowed
func (l *IPLimiter) Allow(ctx context.Context, ip string) (bool, error) {
	return l.limiter.Allow(ctx, ipKey(ip))
}

// Reset clears the history of ip
func (l *IPLimiter) Reset(ctx context.Context, ip string) error {
	return l.limiter.Reset(ctx, ipKey(ip))
}

// RetryAfter reports the wait before ip may call again
func (l *IPLimiter) RetryAfter(ip string) time.Duration {
	return l.limiter.RetryAfter(ipKey(ip))
}

// Run sweeps idle keys every interval until ctx is done
func (l *IPLimiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.limiter.Sweep()
		}
	}
}

func ipKey(ip string) string {
	return fmt.Sprintf("ip:%s", ip)
}
