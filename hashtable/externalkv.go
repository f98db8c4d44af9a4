package hashtable

// ExternalValueMap is the inline-key/external-value storage layout: a
// probe array of (K, idxIntoValues) plus a side values slice (spec §4.2).
// This is the layout the index construction pipeline's accumulator uses:
// keys (terms) are small and probed inline, while each term's postings
// list (the value) lives in a separately growable slice.
type ExternalValueMap[K comparable, V any] struct {
	keys          []K
	valueIdx      []int // index into values; meaningful only where occupied is true
	occupied      []bool
	values        []V
	empty         K
	size          int
	hash          HashFunc[K]
	equal         EqualFunc[K]
	maxLoadFactor float64
	resizeRatio   float64
}

func NewExternalValueMap[K comparable, V any](empty K, hash HashFunc[K], equal EqualFunc[K]) *ExternalValueMap[K, V] {
	return &ExternalValueMap[K, V]{
		empty:         empty,
		hash:          hash,
		equal:         equal,
		maxLoadFactor: DefaultMaxLoadFactor,
		resizeRatio:   DefaultResizeRatio,
	}
}

func (m *ExternalValueMap[K, V]) SetMaxLoadFactor(v float64) { m.maxLoadFactor = v }
func (m *ExternalValueMap[K, V]) SetResizeRatio(v float64)   { m.resizeRatio = v }
func (m *ExternalValueMap[K, V]) Size() int                  { return m.size }
func (m *ExternalValueMap[K, V]) Capacity() int              { return len(m.keys) }

func (m *ExternalValueMap[K, V]) Clear() {
	for i := range m.keys {
		m.keys[i] = m.empty
		m.occupied[i] = false
		m.valueIdx[i] = 0
	}
	m.size = 0
	m.values = m.values[:0]
}

func (m *ExternalValueMap[K, V]) BytesUsed() int {
	return len(m.keys)*int(sizeOfK[K]()) + cap(m.values)*int(sizeOfK[V]())
}

// Values returns the backing value storage; Find's returned index indexes
// into this slice, so callers can mutate a value in place (e.g. append to
// a per-term postings list) without a second lookup.
func (m *ExternalValueMap[K, V]) Values() []V { return m.values }

// Emplace inserts key with an initial value if absent, or returns the
// existing value's index if already present.
func (m *ExternalValueMap[K, V]) Emplace(key K, initial V) (valueIdx int, inserted bool) {
	if loadFactorExceeded(m.size+1, len(m.keys), m.maxLoadFactor) {
		m.rehash(nextCapacity(len(m.keys), m.resizeRatio))
	}
	idx := m.probe(key)
	if m.occupied[idx] {
		return m.valueIdx[idx], false
	}
	m.keys[idx] = key
	m.occupied[idx] = true
	m.values = append(m.values, initial)
	m.valueIdx[idx] = len(m.values) - 1
	m.size++
	return m.valueIdx[idx], true
}

// Each calls fn once per occupied (key, valueIdx) pair, in probe-array
// order. Used by the index-construction accumulator to walk every
// term_id it holds before a flush, since the probe array itself is not
// exported.
func (m *ExternalValueMap[K, V]) Each(fn func(key K, valueIdx int)) {
	for i, occupied := range m.occupied {
		if occupied {
			fn(m.keys[i], m.valueIdx[i])
		}
	}
}

// Find returns the index into Values() for key, if present.
func (m *ExternalValueMap[K, V]) Find(key K) (int, bool) {
	if len(m.keys) == 0 {
		return 0, false
	}
	idx := m.probe(key)
	if !m.occupied[idx] {
		return 0, false
	}
	return m.valueIdx[idx], true
}

func (m *ExternalValueMap[K, V]) probe(key K) int {
	n := len(m.keys)
	start := int(m.hash(key) % uint64(n))
	for i := 0; i < n; i++ {
		idx := (start + i) % n
		if !m.occupied[idx] || m.equal(m.keys[idx], key) {
			return idx
		}
	}
	panic("hashtable: probe sequence exhausted capacity")
}

func (m *ExternalValueMap[K, V]) rehash(newCap int) {
	oldKeys, oldOcc, oldValIdx := m.keys, m.occupied, m.valueIdx
	m.keys = make([]K, newCap)
	m.occupied = make([]bool, newCap)
	m.valueIdx = make([]int, newCap)
	for i := range m.keys {
		m.keys[i] = m.empty
	}
	m.size = 0
	for i, k := range oldKeys {
		if oldOcc[i] {
			idx := m.probe(k)
			m.keys[idx] = k
			m.occupied[idx] = true
			m.valueIdx[idx] = oldValIdx[i]
			m.size++
		}
	}
}

// ExternalKVMap is the external-key-value storage layout: a probe array
// of (hashcode, idx+1) plus a side slice of (K, V) pairs; idx+1 == 0 marks
// an empty slot (spec §4.2). Unlike ExternalValueMap, the key itself is
// not stored inline, only its hash — useful when K is large (e.g. a CID
// or a long string) and a hash collision can be resolved by comparing the
// side-stored key.
type ExternalKVMap[K comparable, V any] struct {
	hashes        []uint64
	idxPlusOne    []int // 0 == empty, n+1 == entries[n]
	entries       []kv[K, V]
	size          int
	hash          HashFunc[K]
	equal         EqualFunc[K]
	maxLoadFactor float64
	resizeRatio   float64
}

type kv[K any, V any] struct {
	Key   K
	Value V
}

func NewExternalKVMap[K comparable, V any](hash HashFunc[K], equal EqualFunc[K]) *ExternalKVMap[K, V] {
	return &ExternalKVMap[K, V]{
		hash:          hash,
		equal:         equal,
		maxLoadFactor: DefaultMaxLoadFactor,
		resizeRatio:   DefaultResizeRatio,
	}
}

func (m *ExternalKVMap[K, V]) SetMaxLoadFactor(v float64) { m.maxLoadFactor = v }
func (m *ExternalKVMap[K, V]) SetResizeRatio(v float64)   { m.resizeRatio = v }
func (m *ExternalKVMap[K, V]) Size() int                  { return m.size }
func (m *ExternalKVMap[K, V]) Capacity() int              { return len(m.idxPlusOne) }

func (m *ExternalKVMap[K, V]) Clear() {
	for i := range m.idxPlusOne {
		m.idxPlusOne[i] = 0
	}
	m.entries = m.entries[:0]
	m.size = 0
}

func (m *ExternalKVMap[K, V]) BytesUsed() int {
	return len(m.idxPlusOne)*16 + cap(m.entries)*int(unsafeSizeofKV[K, V]())
}

// Entries returns the backing (K, V) pair storage.
func (m *ExternalKVMap[K, V]) Entries() []kv[K, V] { return m.entries }

func (m *ExternalKVMap[K, V]) Emplace(key K, value V) (inserted bool) {
	if loadFactorExceeded(m.size+1, len(m.idxPlusOne), m.maxLoadFactor) {
		m.rehash(nextCapacity(len(m.idxPlusOne), m.resizeRatio))
	}
	h := m.hash(key)
	slot := m.probe(h, key)
	if m.idxPlusOne[slot] != 0 {
		return false
	}
	m.entries = append(m.entries, kv[K, V]{Key: key, Value: value})
	m.hashes[slot] = h
	m.idxPlusOne[slot] = len(m.entries)
	m.size++
	return true
}

func (m *ExternalKVMap[K, V]) Find(key K) (V, bool) {
	var zero V
	if len(m.idxPlusOne) == 0 {
		return zero, false
	}
	h := m.hash(key)
	slot := m.probe(h, key)
	if m.idxPlusOne[slot] == 0 {
		return zero, false
	}
	return m.entries[m.idxPlusOne[slot]-1].Value, true
}

func (m *ExternalKVMap[K, V]) probe(h uint64, key K) int {
	n := len(m.idxPlusOne)
	start := int(h % uint64(n))
	for i := 0; i < n; i++ {
		idx := (start + i) % n
		ip1 := m.idxPlusOne[idx]
		if ip1 == 0 {
			return idx
		}
		if m.hashes[idx] == h && m.equal(m.entries[ip1-1].Key, key) {
			return idx
		}
	}
	panic("hashtable: probe sequence exhausted capacity")
}

func (m *ExternalKVMap[K, V]) rehash(newCap int) {
	oldHashes, oldIdx := m.hashes, m.idxPlusOne
	m.hashes = make([]uint64, newCap)
	m.idxPlusOne = make([]int, newCap)
	m.size = 0
	for i, ip1 := range oldIdx {
		if ip1 == 0 {
			continue
		}
		h := oldHashes[i]
		key := m.entries[ip1-1].Key
		slot := m.probe(h, key)
		m.hashes[slot] = h
		m.idxPlusOne[slot] = ip1
		m.size++
	}
}

func unsafeSizeofKV[K any, V any]() uintptr {
	return sizeOfK[K]() + sizeOfK[V]()
}
