package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeClock lets tests advance time without sleeping
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestLimiterAllowsUpToLimit(t *testing.T) {
	clock := newFakeClock()
	limiter := NewWithClock(clock.Now)
	policy := Policy{Limit: 5, Window: time.Minute}

	for i := 0; i < 5; i++ {
		allowed, _ := limiter.Allow("user-1", policy)
		assert.True(t, allowed, "request %d should be allowed", i+1)
	}

	allowed, retryAfter := limiter.Allow("user-1", policy)
	assert.False(t, allowed, "6th request in window should be denied")
	assert.Greater(t, retryAfter, time.Duration(0))
}

func TestLimiterSlidingWindow(t *testing.T) {
	clock := newFakeClock()
	limiter := NewWithClock(clock.Now)
	policy := Policy{Limit: 5, Window: time.Minute}

	// Fill the window, 10s apart
	for i := 0; i < 5; i++ {
		allowed, _ := limiter.Allow("user-1", policy)
		assert.True(t, allowed)
		clock.Advance(10 * time.Second)
	}

	// 50s after the first request: it is still in the window
	allowed, _ := limiter.Allow("user-1", policy)
	assert.False(t, allowed)

	// 11 more seconds and the first request has aged out
	clock.Advance(11 * time.Second)
	allowed, _ = limiter.Allow("user-1", policy)
	assert.True(t, allowed, "request after oldest entry expires should be allowed")
}

func TestLimiterKeysAreIndependent(t *testing.T) {
	clock := newFakeClock()
	limiter := NewWithClock(clock.Now)
	policy := Policy{Limit: 2, Window: time.Minute}

	limiter.Allow("user-a", policy)
	limiter.Allow("user-a", policy)

	allowed, _ := limiter.Allow("user-a", policy)
	assert.False(t, allowed, "user-a should be limited")

	allowed, _ = limiter.Allow("user-b", policy)
	assert.True(t, allowed, "user-b should not be affected by user-a")
}

func TestLimiterRetryAfter(t *testing.T) {
	clock := newFakeClock()
	limiter := NewWithClock(clock.Now)
	policy := Policy{Limit: 1, Window: time.Minute}

	limiter.Allow("user-1", policy)
	clock.Advance(20 * time.Second)

	allowed, retryAfter := limiter.Allow("user-1", policy)
	assert.False(t, allowed)
	assert.Equal(t, 40*time.Second, retryAfter)
}

func TestLimiterRemaining(t *testing.T) {
	clock := newFakeClock()
	limiter := NewWithClock(clock.Now)
	policy := Policy{Limit: 5, Window: time.Minute}

	assert.Equal(t, 5, limiter.Remaining("user-1", policy))

	limiter.Allow("user-1", policy)
	limiter.Allow("user-1", policy)
	assert.Equal(t, 3, limiter.Remaining("user-1", policy))

	clock.Advance(2 * time.Minute)
	assert.Equal(t, 5, limiter.Remaining("user-1", policy), "window expiry should restore capacity")
}

func TestLimiterSweepEvictsStaleKeys(t *testing.T) {
	clock := newFakeClock()
	limiter := NewWithClock(clock.Now)
	policy := Policy{Limit: 5, Window: time.Minute}

	for i := 0; i < 100; i++ {
		limiter.Allow(fmt.Sprintf("user-%d", i), policy)
	}
	assert.Len(t, limiter.entries, 100)

	// All keys are stale after two windows; the next Allow triggers a sweep
	clock.Advance(2 * time.Minute)
	limiter.Allow("fresh-user", policy)
	assert.Len(t, limiter.entries, 1, "stale keys should be evicted")
}

func TestLimiterConcurrentRequests(t *testing.T) {
	limiter := New()
	policy := Policy{Limit: 10, Window: time.Minute}

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowedCount := 0

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if allowed, _ := limiter.Allow("shared-key", policy); allowed {
				mu.Lock()
				allowedCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, allowedCount, "exactly the limit should be allowed under concurrency")
}

func TestPolicies(t *testing.T) {
	assert.Equal(t, Policy{Limit: 5, Window: time.Minute}, PostPolicy())
	assert.Equal(t, Policy{Limit: 5, Window: time.Minute}, CommentPolicy())
	assert.Equal(t, Policy{Limit: 30, Window: time.Minute}, LikePolicy())
	assert.Equal(t, Policy{Limit: 5, Window: time.Minute}, SyncPolicy())
}
