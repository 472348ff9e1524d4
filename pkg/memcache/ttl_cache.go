package memcache

import (
	"sync"
	"time"
)

// Clock returns the current time. Tests inject a fake to fast-forward expiry
// instead of sleeping through real TTLs.
type Clock func() time.Time

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLCache is a process-local cache with a fixed TTL per entry. Expired
// entries are dropped lazily on read; Clear wipes everything (used as the
// invalidation hook after admin price updates).
type TTLCache[V any] struct {
	mu   sync.RWMutex
	data map[string]entry[V]
	ttl  time.Duration
	now  Clock
}

func NewTTLCache[V any](ttl time.Duration, now Clock) *TTLCache[V] {
	if now == nil {
		now = time.Now
	}
	return &TTLCache[V]{
		data: make(map[string]entry[V]),
		ttl:  ttl,
		now:  now,
	}
}

func (c *TTLCache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = entry[V]{
		value:     value,
		expiresAt: c.now().Add(c.ttl),
	}
}

func (c *TTLCache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	e, ok := c.data[key]
	c.mu.RUnlock()

	var zero V
	if !ok {
		return zero, false
	}
	if c.now().After(e.expiresAt) {
		c.mu.Lock()
		delete(c.data, key) // cleanup expired
		c.mu.Unlock()
		return zero, false
	}
	return e.value, true
}

func (c *TTLCache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]entry[V])
}

func (c *TTLCache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}
