package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	val V
	exp time.Time
}

// MemoryCache is a TTL map safe for concurrent use. Expired entries are
// dropped lazily on Get.
type MemoryCache[V any] struct {
	mu  sync.RWMutex
	m   map[string]entry[V]
	ttl time.Duration
	now func() time.Time
}

func NewMemory[V any](ttl time.Duration) *MemoryCache[V] {
	return &MemoryCache[V]{m: make(map[string]entry[V]), ttl: ttl, now: time.Now}
}

func (c *MemoryCache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()

	if !ok {
		var zero V
		return zero, false
	}
	if c.now().After(e.exp) {
		c.mu.Lock()
		delete(c.m, key)
		c.mu.Unlock()
		var zero V
		return zero, false
	}
	return e.val, true
}

func (c *MemoryCache[V]) Set(key string, val V) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = entry[V]{val: val, exp: c.now().Add(c.ttl)}
}
