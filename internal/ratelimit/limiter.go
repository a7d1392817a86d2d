package ratelimit

import (
	"sync"
	"time"
)

// Policy defines how many requests a key may make within a sliding window.
type Policy struct {
	Limit  int
	Window time.Duration
}

// Per-action policies
func PostPolicy() Policy    { return Policy{Limit: 5, Window: time.Minute} }
func CommentPolicy() Policy { return Policy{Limit: 5, Window: time.Minute} }
func LikePolicy() Policy    { return Policy{Limit: 30, Window: time.Minute} }
func SyncPolicy() Policy    { return Policy{Limit: 5, Window: time.Minute} }

// Limiter is an in-memory sliding-window rate limiter. Each key tracks the
// timestamps of its recent requests; a request is allowed when fewer than
// Limit timestamps fall inside the window. Check and record happen under one
// lock, so two concurrent requests can never both slip under the limit.
//
// Construct one Limiter and inject it wherever limiting is needed.
type Limiter struct {
	mu      sync.Mutex
	entries map[string][]time.Time

	now func() time.Time

	// Stale keys are swept opportunistically during Allow calls
	lastSweep  time.Time
	sweepEvery time.Duration
	maxWindow  time.Duration
}

// New creates a Limiter using the wall clock.
func New() *Limiter {
	return NewWithClock(time.Now)
}

// NewWithClock creates a Limiter with an injectable clock for tests.
func NewWithClock(now func() time.Time) *Limiter {
	return &Limiter{
		entries:    make(map[string][]time.Time),
		now:        now,
		lastSweep:  now(),
		sweepEvery: time.Minute,
		maxWindow:  time.Minute,
	}
}

// Allow records a request for key under the given policy and reports whether
// it is within the limit. When denied, retryAfter is how long until the
// oldest in-window request ages out.
func (l *Limiter) Allow(key string, p Policy) (allowed bool, retryAfter time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if p.Window > l.maxWindow {
		l.maxWindow = p.Window
	}

	cutoff := now.Add(-p.Window)
	recent := pruneOlder(l.entries[key], cutoff)

	if len(recent) >= p.Limit {
		l.entries[key] = recent
		retryAfter = recent[0].Sub(cutoff)
		if retryAfter < time.Second {
			retryAfter = time.Second
		}
		l.maybeSweep(now)
		return false, retryAfter
	}

	l.entries[key] = append(recent, now)
	l.maybeSweep(now)
	return true, 0
}

// Remaining reports how many requests key has left in the current window
// without recording one.
func (l *Limiter) Remaining(key string, p Policy) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-p.Window)
	used := len(pruneOlder(l.entries[key], cutoff))
	if used >= p.Limit {
		return 0
	}
	return p.Limit - used
}

// maybeSweep evicts keys with no activity inside the largest window seen.
// Caller must hold l.mu.
func (l *Limiter) maybeSweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.sweepEvery {
		return
	}
	l.lastSweep = now

	cutoff := now.Add(-l.maxWindow)
	for key, stamps := range l.entries {
		if len(stamps) == 0 || stamps[len(stamps)-1].Before(cutoff) {
			delete(l.entries, key)
		}
	}
}

// pruneOlder drops timestamps at or before cutoff. Timestamps are appended in
// order, so the first in-window index splits the slice.
func pruneOlder(stamps []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(stamps) && !stamps[i].After(cutoff) {
		i++
	}
	if i == 0 {
		return stamps
	}
	return append([]time.Time(nil), stamps[i:]...)
}
