// Package ratelimit throttles outbound upstream calls with one token bucket
// per key (a session id, or "anonymous").
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type bucket struct {
	limiter  *rate.Limiter
	lastUsed time.Time
}

// Keyed hands out an independent limiter per key and forgets keys that
// have been idle for longer than idleTTL.
type Keyed struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   rate.Limit
	burst   int
	idleTTL time.Duration
	now     func() time.Time
}

func New(rps float64, burst int, idleTTL time.Duration) *Keyed {
	return &Keyed{
		buckets: make(map[string]*bucket),
		limit:   rate.Limit(rps),
		burst:   burst,
		idleTTL: idleTTL,
		now:     time.Now,
	}
}

// Allow reports whether a call for key may happen now.
func (k *Keyed) Allow(key string) bool {
	return k.get(key).Allow()
}

// Wait blocks until a call for key is allowed or ctx is done.
func (k *Keyed) Wait(ctx context.Context, key string) error {
	return k.get(key).Wait(ctx)
}

// Forget drops the limiter for key. The workspace registry calls it when a
// session's workspace is dropped.
func (k *Keyed) Forget(key string) {
	k.mu.Lock()
	delete(k.buckets, key)
	k.mu.Unlock()
}

// Len returns the number of tracked keys.
func (k *Keyed) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.buckets)
}

func (k *Keyed) get(key string) *rate.Limiter {
	k.mu.Lock()
	defer k.mu.Unlock()

	now := k.now()
	b, ok := k.buckets[key]
	if !ok {
		k.evictIdle(now)
		b = &bucket{limiter: rate.NewLimiter(k.limit, k.burst)}
		k.buckets[key] = b
	}
	b.lastUsed = now
	return b.limiter
}

// evictIdle runs on insert only, so the map stays bounded by active keys.
func (k *Keyed) evictIdle(now time.Time) {
	if k.idleTTL <= 0 {
		return
	}
	for key, b := range k.buckets {
		if now.Sub(b.lastUsed) > k.idleTTL {
			delete(k.buckets, key)
		}
	}
}
