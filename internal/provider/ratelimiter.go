package provider

import (
	"context"
	"sync"
	"time"
)

// RateLimiter is a token bucket shared by every call a provider makes
// upstream. A nil limiter never blocks.
type RateLimiter struct {
	mu         sync.Mutex
	tokens     int
	capacity   int
	every      time.Duration
	lastRefill time.Time
	now        func() time.Time
}

// NewRateLimiter allows a burst of capacity calls and adds one token per
// every interval.
func NewRateLimiter(capacity int, every time.Duration) *RateLimiter {
	if capacity < 1 {
		capacity = 1
	}
	return &RateLimiter{
		tokens:     capacity,
		capacity:   capacity,
		every:      every,
		lastRefill: time.Now(),
		now:        time.Now,
	}
}

// NewPerMinuteLimiter spreads perMinute calls evenly across a minute. Zero or
// negative disables limiting.
func NewPerMinuteLimiter(perMinute int) *RateLimiter {
	if perMinute <= 0 {
		return nil
	}
	return NewRateLimiter(perMinute, time.Minute/time.Duration(perMinute))
}

// Wait blocks until a token is available or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if r == nil {
		return ctx.Err()
	}
	for {
		wait := r.take()
		if wait == 0 {
			return nil
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Available reports the tokens left in the bucket.
func (r *RateLimiter) Available() int {
	if r == nil {
		return -1
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refillLocked()
	return r.tokens
}

// take consumes a token, or returns how long until the next one arrives.
func (r *RateLimiter) take() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refillLocked()
	if r.tokens > 0 {
		r.tokens--
		return 0
	}
	next := r.lastRefill.Add(r.every).Sub(r.now())
	if next <= 0 {
		next = time.Millisecond
	}
	return next
}

func (r *RateLimiter) refillLocked() {
	if r.every <= 0 {
		r.tokens = r.capacity
		return
	}
	elapsed := r.now().Sub(r.lastRefill)
	added := int(elapsed / r.every)
	if added <= 0 {
		return
	}
	r.tokens = min(r.tokens+added, r.capacity)
	r.lastRefill = r.lastRefill.Add(time.Duration(added) * r.every)
}
