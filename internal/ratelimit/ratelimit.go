// Package ratelimit implements a per-user sliding-window limiter for
// inbound messages.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter allows at most limit events per user within window. Events
// are timestamps; old ones slide out of the window naturally.
type Limiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	events  map[int64][]time.Time
	now     func() time.Time
}

// New builds a Limiter allowing limit events per window.
func New(limit int, window time.Duration) *Limiter {
	return &Limiter{
		limit:  limit,
		window: window,
		events: make(map[int64][]time.Time),
		now:    time.Now,
	}
}

// WithClock overrides the time source, for tests.
func (l *Limiter) WithClock(now func() time.Time) *Limiter {
	l.now = now
	return l
}

// Allow records an event for userID and reports whether it is within
// the limit. Rejected events are not recorded, so a user who keeps
// sending while limited recovers as soon as old events expire.
func (l *Limiter) Allow(userID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	kept := l.events[userID][:0]
	for _, ts := range l.events[userID] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= l.limit {
		l.events[userID] = kept
		return false
	}

	l.events[userID] = append(kept, now)
	return true
}

// PruneIdle drops the window state of users whose last event is older
// than idle. The maintenance sweep calls it so the map does not grow
// with every user ever seen.
func (l *Limiter) PruneIdle(idle time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-idle)
	removed := 0
	for userID, events := range l.events {
		if len(events) == 0 || events[len(events)-1].Before(cutoff) {
			delete(l.events, userID)
			removed++
		}
	}
	return removed
}
