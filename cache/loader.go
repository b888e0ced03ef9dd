package cache

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"
)

// LoadFunc fetches the authoritative value for a key.
type LoadFunc[V any] func(ctx context.Context, key string) (V, error)

// Loader is a read-through cache: Get serves from the TTLCache when fresh
// and otherwise invokes the load function, deduplicating concurrent misses
// for the same key with singleflight. Errors are never cached.
type Loader[V any] struct {
	cache *TTLCache[V]
	ttl   time.Duration
	load  LoadFunc[V]
	group singleflight.Group
}

// NewLoader creates a Loader. A TTL <= 0 disables caching entirely: every
// Get goes to the load function (still deduplicated in-flight).
func NewLoader[V any](ttl time.Duration, load LoadFunc[V]) *Loader[V] {
	return &Loader[V]{
		cache: New[V](),
		ttl:   ttl,
		load:  load,
	}
}

// Get returns the cached value for key, loading it on miss.
func (l *Loader[V]) Get(ctx context.Context, key string) (V, error) {
	if v, ok := l.cache.Get(key); ok {
		return v, nil
	}

	// Concurrent misses for the same key share one load call.
	v, err, _ := l.group.Do(key, func() (any, error) {
		fresh, err := l.load(ctx, key)
		if err != nil {
			return nil, err
		}
		l.cache.Set(key, fresh, l.ttl)
		return fresh, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return v.(V), nil
}

// Invalidate drops the cached value for key so the next Get reloads it.
func (l *Loader[V]) Invalidate(key string) {
	l.cache.Delete(key)
}
