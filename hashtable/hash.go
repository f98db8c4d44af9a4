// Package hashtable implements the open-addressing hash-table substrate:
// four storage layouts (inline-key, inline-key/inline-value,
// inline-key/external-value, external-key-value) parameterized by a
// probing strategy, hash function and key-equality predicate, plus a
// robin-hood variant and a probe-set with contiguous key storage. The
// index construction accumulator uses the inline-key/external-value
// layout.
//
// All types here share one probing strategy: linear probing. Every
// generic table exposes Emplace, Find, Size, Capacity, Clear and
// BytesUsed, plus configurable MaxLoadFactor and ResizeRatio, matching
// spec §4.2.
package hashtable

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// HashFunc computes a 64-bit hash for a key of type K.
type HashFunc[K any] func(K) uint64

// EqualFunc reports whether two keys of type K are equal.
type EqualFunc[K comparable] func(a, b K) bool

const (
	// DefaultMaxLoadFactor is the load factor at which a table rehashes.
	DefaultMaxLoadFactor = 0.85
	// DefaultResizeRatio is the capacity growth factor used on rehash.
	DefaultResizeRatio = 1.5
)

// HashBytes hashes a byte slice with xxHash64, the hash used throughout
// this package unless a caller supplies their own HashFunc.
func HashBytes(b []byte) uint64 {
	return xxhash.Sum64(b)
}

// HashString hashes a string with xxHash64.
func HashString(s string) uint64 {
	return xxhash.Sum64String(s)
}

// HashUint64 hashes a uint64-keyed value (e.g. a TermID or DocID) by
// hashing its little-endian byte representation with xxHash64. This keeps
// one hash implementation (xxHash) behind every default HashFunc in this
// package, regardless of key shape.
func HashUint64(v uint64) uint64 {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return xxhash.Sum64(b[:])
}

func nextCapacity(cur int, resizeRatio float64) int {
	if cur == 0 {
		return 8
	}
	n := int(float64(cur)*resizeRatio) + 1
	if n <= cur {
		n = cur + 1
	}
	return n
}

func loadFactorExceeded(size, capacity int, maxLoadFactor float64) bool {
	if capacity == 0 {
		return true
	}
	return float64(size)/float64(capacity) > maxLoadFactor
}
