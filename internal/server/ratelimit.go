package server

import (
	"context"
	"sync"
	"time"
)

// rateLimiter is a per-connection sliding-window throttle. Timestamps of
// accepted events are kept only within the window; once the window holds
// limit entries, further events are refused until some age out.
type rateLimiter struct {
	window time.Duration
	limit  int

	mu   sync.Mutex
	hits map[string][]time.Time
}

func newRateLimiter(window time.Duration, limit int) *rateLimiter {
	return &rateLimiter{
		window: window,
		limit:  limit,
		hits:   make(map[string][]time.Time),
	}
}

// allow records one event for id and reports whether it is within the limit.
func (l *rateLimiter) allow(id string) bool {
	now := time.Now()
	cutoff := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	recent := l.hits[id][:0]
	for _, t := range l.hits[id] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}
	if len(recent) >= l.limit {
		l.hits[id] = recent
		return false
	}
	l.hits[id] = append(recent, now)
	return true
}

// forget drops all state for a connection. Called on disconnect.
func (l *rateLimiter) forget(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.hits, id)
}

// sweep removes entries whose events have all aged out, bounding memory for
// connections that went quiet without disconnecting.
func (l *rateLimiter) sweep() {
	cutoff := time.Now().Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	for id, times := range l.hits {
		aged := true
		for _, t := range times {
			if t.After(cutoff) {
				aged = false
				break
			}
		}
		if aged {
			delete(l.hits, id)
		}
	}
}

// run sweeps periodically until ctx is cancelled.
func (l *rateLimiter) run(ctx context.Context) {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.sweep()
		}
	}
}
