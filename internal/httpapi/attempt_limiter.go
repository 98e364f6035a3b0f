package httpapi

import (
	"sync"
	"time"
)

// attemptLimiter caps sign-in and sign-up attempts per key in a sliding window.
type attemptLimiter struct {
	mu      sync.Mutex
	window  time.Duration
	max     int
	entries map[string][]time.Time

	lastPrune time.Time
}

func newAttemptLimiter() *attemptLimiter {
	return &attemptLimiter{
		window:  5 * time.Minute,
		max:     20,
		entries: make(map[string][]time.Time),
	}
}

func (l *attemptLimiter) Allow(key string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastPrune) >= l.window {
		l.prune(now)
	}

	cutoff := now.Add(-l.window)
	ts := l.entries[key]

	kept := ts[:0]
	for _, t := range ts {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	ts = kept
	if len(ts) >= l.max {
		l.entries[key] = ts
		return false
	}

	l.entries[key] = append(ts, now)
	return true
}

// prune drops keys whose attempts all fell out of the window. Callers hold
// l.mu; Allow runs it at most once per window.
func (l *attemptLimiter) prune(now time.Time) {
	l.lastPrune = now
	cutoff := now.Add(-l.window)
	for key, ts := range l.entries {
		if len(ts) == 0 || !ts[len(ts)-1].After(cutoff) {
			delete(l.entries, key)
		}
	}
}
