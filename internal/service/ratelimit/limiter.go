package ratelimit

import (
	"sync"
	"time"
)

type bucket struct {
	tokens float64
	last   time.Time
}

// Limiter is a keyed token bucket. Every key starts full. A bucket left idle
// long enough to refill completely is equal to a fresh one, so such buckets
// are dropped by a sweep that runs from Allow.
type Limiter struct {
	mu           sync.Mutex
	m            map[string]*bucket
	capacity     float64
	refillPerSec float64
	idleAfter    time.Duration
	nextSweep    time.Time
	now          func() time.Time
}

type Option func(*Limiter)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

func New(capacity, refillPerSec float64, opts ...Option) *Limiter {
	l := &Limiter{
		m:            make(map[string]*bucket),
		capacity:     capacity,
		refillPerSec: refillPerSec,
		now:          time.Now,
	}
	if refillPerSec > 0 {
		l.idleAfter = time.Duration(capacity / refillPerSec * float64(time.Second))
	}
	for _, opt := range opts {
		opt(l)
	}
	l.nextSweep = l.now().Add(l.idleAfter)
	return l
}

// Allow returns true if one token can be consumed for key.
func (l *Limiter) Allow(key string) bool {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.idleAfter > 0 && !now.Before(l.nextSweep) {
		l.sweep(now)
		l.nextSweep = now.Add(l.idleAfter)
	}

	b, ok := l.m[key]
	if !ok {
		b = &bucket{tokens: l.capacity, last: now}
		l.m[key] = b
	}
	// refill
	if elapsed := now.Sub(b.last).Seconds(); elapsed > 0 {
		b.tokens = min(l.capacity, b.tokens+elapsed*l.refillPerSec)
		b.last = now
	}
	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// Forget drops the bucket for key.
func (l *Limiter) Forget(key string) {
	l.mu.Lock()
	delete(l.m, key)
	l.mu.Unlock()
}

// Len reports how many buckets are tracked.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.m)
}

// sweep drops buckets idle for at least idleAfter. Caller holds mu.
func (l *Limiter) sweep(now time.Time) {
	for key, b := range l.m {
		if now.Sub(b.last) >= l.idleAfter {
			delete(l.m, key)
		}
	}
}
