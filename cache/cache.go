package cache

import (
	"sync"
	"time"
)

// TTLCache is an in-memory cache with per-entry expiry.
// Safe for concurrent use. Expired entries are removed lazily on Get.
type TTLCache[V any] struct {
	mu      sync.RWMutex
	entries map[string]entry[V]
	clock   func() time.Time
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// New creates an empty TTLCache.
func New[V any]() *TTLCache[V] {
	return &TTLCache[V]{
		entries: make(map[string]entry[V]),
		clock:   time.Now,
	}
}

// NewWithClock creates a TTLCache with a custom time source. Test hook.
func NewWithClock[V any](clock func() time.Time) *TTLCache[V] {
	c := New[V]()
	if clock != nil {
		c.clock = clock
	}
	return c
}

// Get retrieves a value. Returns (zero, false) on miss or expiry.
func (c *TTLCache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	var zero V
	if !ok {
		return zero, false
	}
	if c.clock().After(e.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return zero, false
	}
	return e.value, true
}

// Set stores a value with the given TTL. TTL<=0 means do not cache.
func (c *TTLCache[V]) Set(key string, value V, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.entries[key] = entry[V]{value: value, expiresAt: c.clock().Add(ttl)}
	c.mu.Unlock()
}

// Delete removes a value. Idempotent.
func (c *TTLCache[V]) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Len returns the number of entries, including any not yet swept.
func (c *TTLCache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
