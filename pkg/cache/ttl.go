package cache

import (
	"context"
	"time"

	"github.com/puzpuzpuz/xsync"
)

type ttlItem[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLCache is an in-process cache whose entries expire after a fixed ttl.
// Expired entries are never returned; StartReaper removes them from memory.
type TTLCache[V any] struct {
	items *xsync.MapOf[string, ttlItem[V]]
	ttl   time.Duration
	now   func() time.Time
}

func NewTTLCache[V any](ttl time.Duration) *TTLCache[V] {
	return &TTLCache[V]{
		items: xsync.NewMapOf[ttlItem[V]](),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (c *TTLCache[V]) Get(key string) (V, bool) {
	item, ok := c.items.Load(key)
	if !ok || !c.now().Before(item.expiresAt) {
		var zero V
		return zero, false
	}

	return item.value, true
}

func (c *TTLCache[V]) Set(key string, value V) {
	c.items.Store(key, ttlItem[V]{value: value, expiresAt: c.now().Add(c.ttl)})
}

func (c *TTLCache[V]) Delete(key string) {
	c.items.Delete(key)
}

func (c *TTLCache[V]) Len() int {
	return c.items.Size()
}

// Reap removes every expired entry and returns how many were removed.
func (c *TTLCache[V]) Reap() int {
	now := c.now()
	removed := 0
	c.items.Range(func(key string, item ttlItem[V]) bool {
		if !now.Before(item.expiresAt) {
			c.items.Delete(key)
			removed++
		}
		return true
	})

	return removed
}

// StartReaper reaps the cache every interval until ctx is done.
func (c *TTLCache[V]) StartReaper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.Reap()
			}
		}
	}()
}
