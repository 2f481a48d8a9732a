// Package cache is the per-session query cache: a mapping from
// (resource kind, parameters) to (value, freshness) with explicit keyed
// invalidation. Writers win in arrival order; there is no grouping of
// updates across keys.
package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Resource kinds used across the portal.
const (
	KindLessons   = "lessons"
	KindLesson    = "lesson"
	KindFeatured  = "featured-lessons"
	KindRelated   = "related-lessons"
	KindMyLessons = "my-lessons"
	KindUser      = "user"
	KindUsers     = "users"
	KindFavorites = "favorites"
	KindComments  = "comments"
)

// Key identifies one cached query.
type Key struct {
	Kind   string
	Params string
}

// NewKey joins params with "|" so ("lesson","42") and ("lesson","4","2") differ.
func NewKey(kind string, params ...string) Key {
	return Key{Kind: kind, Params: strings.Join(params, "|")}
}

func (k Key) String() string {
	if k.Params == "" {
		return k.Kind
	}
	return k.Kind + ":" + k.Params
}

type EventType int

const (
	EventSet EventType = iota + 1
	EventInvalidated
)

// Event is delivered to subscribers of a key.
type Event struct {
	Key  Key
	Type EventType
}

type entry struct {
	value     any
	fetchedAt time.Time
	stale     bool
}

type subscriber struct {
	ch chan Event
}

// Cache is safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	entries map[Key]*entry
	subs    map[Key]map[*subscriber]struct{}
	ttl     time.Duration
	now     func() time.Time
}

// New creates a cache whose entries turn stale ttl after they were stored.
// ttl <= 0 keeps entries fresh until invalidated.
func New(ttl time.Duration) *Cache {
	return &Cache{
		entries: make(map[Key]*entry),
		subs:    make(map[Key]map[*subscriber]struct{}),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the value for key if present and fresh.
func (c *Cache) Get(key Key) (any, bool) {
	v, ok, fresh := c.Peek(key)
	if !ok || !fresh {
		return nil, false
	}
	return v, true
}

// Peek returns the value for key regardless of freshness.
func (c *Cache) Peek(key Key) (value any, ok bool, fresh bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, found := c.entries[key]
	if !found {
		return nil, false, false
	}
	return e.value, true, c.isFresh(e)
}

func (c *Cache) isFresh(e *entry) bool {
	if e.stale {
		return false
	}
	if c.ttl <= 0 {
		return true
	}
	return c.now().Sub(e.fetchedAt) < c.ttl
}

// Set stores value under key and notifies subscribers.
func (c *Cache) Set(key Key, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = &entry{value: value, fetchedAt: c.now()}
	c.notifyLocked(Event{Key: key, Type: EventSet})
}

// Invalidate marks key stale; the next Fetch reloads it. Observers of the key
// are told so they can refetch.
func (c *Cache) Invalidate(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.stale = true
	}
	c.notifyLocked(Event{Key: key, Type: EventInvalidated})
}

// InvalidateKind invalidates every key of kind.
func (c *Cache) InvalidateKind(kind string) {
	var keys []Key
	c.mu.RLock()
	for k := range c.entries {
		if k.Kind == kind {
			keys = append(keys, k)
		}
	}
	for k := range c.subs {
		if k.Kind == kind {
			if _, ok := c.entries[k]; !ok {
				keys = append(keys, k)
			}
		}
	}
	c.mu.RUnlock()

	for _, k := range keys {
		c.Invalidate(k)
	}
}

// Delete drops key without notifying anyone.
func (c *Cache) Delete(key Key) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Subscribe returns a channel of events for key and a cancel func. Slow
// subscribers miss events instead of blocking writers.
func (c *Cache) Subscribe(key Key) (<-chan Event, func()) {
	s := &subscriber{ch: make(chan Event, 16)}

	c.mu.Lock()
	if c.subs[key] == nil {
		c.subs[key] = make(map[*subscriber]struct{})
	}
	c.subs[key][s] = struct{}{}
	c.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs[key], s)
			if len(c.subs[key]) == 0 {
				delete(c.subs, key)
			}
			c.mu.Unlock()
			close(s.ch)
		})
	}
	return s.ch, cancel
}

// notifyLocked must be called with c.mu held, so cancel cannot close a
// channel mid-send.
func (c *Cache) notifyLocked(ev Event) {
	for s := range c.subs[ev.Key] {
		select {
		case s.ch <- ev:
		default:
		}
	}
}

// Fetch returns the fresh cached value for key, or calls load and stores its
// result. Load errors are returned as-is and leave the cache untouched.
func Fetch[T any](ctx context.Context, c *Cache, key Key, load func(context.Context) (T, error)) (T, error) {
	if v, ok := c.Get(key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}

	v, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	c.Set(key, v)
	return v, nil
}

// Value returns the cached value of key typed as T, fresh or not.
func Value[T any](c *Cache, key Key) (T, bool) {
	v, ok, _ := c.Peek(key)
	if !ok {
		var zero T
		return zero, false
	}
	typed, ok := v.(T)
	return typed, ok
}
