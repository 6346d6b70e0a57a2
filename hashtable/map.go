package hashtable

import (
	"iter"

	"github.com/hupe1980/vessel/internal/check"
	"github.com/hupe1980/vessel/metric"
	"github.com/hupe1980/vessel/ops"
)

// Map is an open-addressing hash map that owns its keys and values.
//
// Keys and values live in separate heap cells. A pointer returned by GetRef
// stays valid across rehashes and value updates until its key is deleted or
// the map is cleared.
type Map[K, V any] struct {
	t table[K, V]
}

// NewMap returns an empty map with MinCapacity buckets.
// keyOps and valOps may be nil for plain data.
func NewMap[K, V any](keyOps *ops.ElementOps[K], valOps *ops.ElementOps[V], opts ...Option) *Map[K, V] {
	m := &Map[K, V]{}
	m.t.init(metric.KindMap, true, keyOps, valOps, opts)
	return m
}

func (m *Map[K, V]) table() *table[K, V] {
	check.NotNil(m, "map")
	m.t.ready()
	return &m.t
}

// Put stores copies of key and val. It reports whether key was already
// present, in which case only the value is replaced.
func (m *Map[K, V]) Put(key K, val V) bool {
	return m.table().insert(&key, nil, &val, nil)
}

// PutMove stores **key and **val and sets both refs to nil. A new entry
// adopts both cells without calling Move. When the key is already present,
// the map keeps its own key and releases **key, and **val is transplanted
// into the existing value cell through the value ops.
func (m *Map[K, V]) PutMove(key **K, val **V) bool {
	t := m.table()
	check.That(key != nil && val != nil, "move source is nil")
	return t.insert(nil, key, nil, val)
}

// PutMoveValue stores a copy of key and **val, and sets *val to nil.
func (m *Map[K, V]) PutMoveValue(key K, val **V) bool {
	t := m.table()
	check.That(val != nil, "move source is nil")
	return t.insert(&key, nil, nil, val)
}

// PutMoveKey stores **key and a copy of val, and sets *key to nil.
func (m *Map[K, V]) PutMoveKey(key **K, val V) bool {
	t := m.table()
	check.That(key != nil, "move source is nil")
	return t.insert(nil, key, &val, nil)
}

// Get returns a copy of the value stored under key.
func (m *Map[K, V]) Get(key K) (V, bool) {
	t := m.table()
	var out V
	e := t.lookup(&key)
	if e == nil {
		return out, false
	}
	t.valOps.CopyInto(&out, e.val)
	return out, true
}

// GetRef returns a borrowed pointer to the value stored under key, or nil.
func (m *Map[K, V]) GetRef(key K) *V {
	e := m.table().lookup(&key)
	if e == nil {
		return nil
	}
	return e.val
}

// Has reports whether key is present.
func (m *Map[K, V]) Has(key K) bool {
	return m.table().lookup(&key) != nil
}

// Delete removes key and reports whether it was present.
func (m *Map[K, V]) Delete(key K) bool {
	return m.table().remove(&key, nil)
}

// Extract removes key and returns a copy of its value.
func (m *Map[K, V]) Extract(key K) (V, bool) {
	var out V
	ok := m.table().remove(&key, &out)
	return out, ok
}

// Len returns the number of keys.
func (m *Map[K, V]) Len() int { return m.table().size }

// Cap returns the number of buckets.
func (m *Map[K, V]) Cap() int { return len(m.table().entries) }

// Empty reports whether the map holds no keys.
func (m *Map[K, V]) Empty() bool { return m.Len() == 0 }

// Clear releases every key and value and keeps the buckets.
func (m *Map[K, V]) Clear() { m.table().clear() }

// Reset releases every key and value and returns to MinCapacity buckets.
func (m *Map[K, V]) Reset() { m.table().reset() }

// Stats describes the bucket array.
func (m *Map[K, V]) Stats() Stats { return m.table().stats() }

// All iterates over borrowed key and value pointers in bucket order.
// The map must not be modified during iteration.
func (m *Map[K, V]) All() iter.Seq2[*K, *V] {
	t := m.table()
	return func(yield func(*K, *V) bool) {
		for i := range t.entries {
			e := &t.entries[i]
			if e.state == stateFilled && !yield(e.key, e.val) {
				return
			}
		}
	}
}

// Keys iterates over borrowed key pointers in bucket order.
func (m *Map[K, V]) Keys() iter.Seq[*K] {
	t := m.table()
	return func(yield func(*K) bool) {
		for i := range t.entries {
			e := &t.entries[i]
			if e.state == stateFilled && !yield(e.key) {
				return
			}
		}
	}
}

// CopyFrom makes m a deep copy of src at src's capacity. m's previous
// content is released and m adopts src's functions, ops and options.
func (m *Map[K, V]) CopyFrom(src *Map[K, V]) {
	check.NotNil(m, "destination map")
	check.NotNil(src, "source map")
	m.t.copyFrom(&src.t)
}

// Clone returns a deep copy of m.
func (m *Map[K, V]) Clone() *Map[K, V] {
	dst := &Map[K, V]{}
	dst.CopyFrom(m)
	return dst
}

// MoveFrom transplants **src into m and sets *src to nil. m's previous
// content is released; no key or value is copied.
func (m *Map[K, V]) MoveFrom(src **Map[K, V]) {
	check.NotNil(m, "destination map")
	check.That(src != nil && *src != nil, "move source is nil")

	from := *src
	*src = nil
	m.t.moveFrom(&from.t)
}

// MapOps returns ops that store whole maps as elements of another
// container: Copy deep-copies and Delete releases every key, value and bucket.
func MapOps[K, V any]() *ops.ElementOps[Map[K, V]] {
	return &ops.ElementOps[Map[K, V]]{
		Copy: func(dst, src *Map[K, V]) {
			*dst = Map[K, V]{}
			dst.CopyFrom(src)
		},
		Delete: func(elm *Map[K, V]) { elm.t.free() },
	}
}
