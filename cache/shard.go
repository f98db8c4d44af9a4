package cache

// Shard wraps N independent inner caches, selecting one by hashing the
// key. Each shard synchronizes independently, so unrelated keys never
// contend on the same lock. N is expected to be a power of two.
type Shard[K comparable, V any] struct {
	shards []*DoubleLRU[K, V]
	hash   func(K) uint64
	mask   uint64
}

// NewShard creates a sharded double-LRU cache with n shards (rounded up
// to the next power of two), each capped at maxSizePerShard entries.
func NewShard[K comparable, V any](n int, maxSizePerShard int, hash func(K) uint64) *Shard[K, V] {
	p2 := nextPow2(n)
	shards := make([]*DoubleLRU[K, V], p2)
	for i := range shards {
		shards[i] = NewDoubleLRU[K, V](maxSizePerShard)
	}
	return &Shard[K, V]{shards: shards, hash: hash, mask: uint64(p2 - 1)}
}

func nextPow2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

func (s *Shard[K, V]) shardFor(key K) *DoubleLRU[K, V] {
	return s.shards[s.hash(key)&s.mask]
}

func (s *Shard[K, V]) Put(key K, value V) { s.shardFor(key).Put(key, value) }

func (s *Shard[K, V]) Get(key K) (V, bool) { return s.shardFor(key).Get(key) }

// Len returns the total number of entries across all shards.
func (s *Shard[K, V]) Len() int {
	total := 0
	for _, shard := range s.shards {
		total += shard.Len()
	}
	return total
}
