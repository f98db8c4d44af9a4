package cache

import (
	"sync"
	"sync/atomic"
)

// LockFree holds an atomic pointer to an immutable snapshot of a map.
// Readers atomically load the pointer and then read freely without ever
// blocking; writers clone-modify-swap the pointer under a mutex (spec
// §4.2's "concurrent lock-free map", §5's shared-state discussion). A
// concurrent write never invalidates an in-flight read, because the
// reader is holding its own immutable snapshot, not the live one.
type LockFree[K comparable, V any] struct {
	snapshot atomic.Pointer[map[K]V]
	writeMu  sync.Mutex
}

func NewLockFree[K comparable, V any]() *LockFree[K, V] {
	lf := &LockFree[K, V]{}
	empty := make(map[K]V)
	lf.snapshot.Store(&empty)
	return lf
}

// Get atomically loads the current snapshot and reads key from it. Never
// blocks, even while a writer is in progress.
func (c *LockFree[K, V]) Get(key K) (V, bool) {
	m := *c.snapshot.Load()
	v, ok := m[key]
	return v, ok
}

// Put clones the current snapshot, applies the mutation, and atomically
// swaps it in. Writers serialize against each other via writeMu; readers
// are never blocked by a writer in progress.
func (c *LockFree[K, V]) Put(key K, value V) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	cur := *c.snapshot.Load()
	next := make(map[K]V, len(cur)+1)
	for k, v := range cur {
		next[k] = v
	}
	next[key] = value
	c.snapshot.Store(&next)
}

// Delete clone-modify-swaps key out of the snapshot.
func (c *LockFree[K, V]) Delete(key K) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	cur := *c.snapshot.Load()
	if _, ok := cur[key]; !ok {
		return
	}
	next := make(map[K]V, len(cur))
	for k, v := range cur {
		if k != key {
			next[k] = v
		}
	}
	c.snapshot.Store(&next)
}

func (c *LockFree[K, V]) Len() int {
	return len(*c.snapshot.Load())
}
