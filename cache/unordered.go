package cache

import "sync"

// Unordered is a simple mutex-guarded map cache, appropriate when
// contention is low (spec §4.3). It performs no eviction of its own; a
// caller that needs bounded memory should reach for DoubleLRU or Shard
// instead.
type Unordered[K comparable, V any] struct {
	mu sync.Mutex
	m  map[K]V
}

func NewUnordered[K comparable, V any]() *Unordered[K, V] {
	return &Unordered[K, V]{m: make(map[K]V)}
}

func (c *Unordered[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = value
}

func (c *Unordered[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.m[key]
	return v, ok
}

func (c *Unordered[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.m, key)
}

func (c *Unordered[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.m)
}
