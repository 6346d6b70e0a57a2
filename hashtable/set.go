package hashtable

import (
	"iter"

	"github.com/hupe1980/vessel/internal/check"
	"github.com/hupe1980/vessel/metric"
	"github.com/hupe1980/vessel/ops"
)

// Set is an open-addressing hash set that owns its keys.
type Set[K any] struct {
	t table[K, struct{}]
}

// NewSet returns an empty set with MinCapacity buckets.
// keyOps may be nil for plain data.
func NewSet[K any](keyOps *ops.ElementOps[K], opts ...Option) *Set[K] {
	s := &Set[K]{}
	s.t.init(metric.KindSet, false, keyOps, nil, opts)
	return s
}

func (s *Set[K]) table() *table[K, struct{}] {
	check.NotNil(s, "set")
	s.t.ready()
	return &s.t
}

// Insert stores a copy of key. It reports whether key was already present,
// in which case the set is unchanged.
func (s *Set[K]) Insert(key K) bool {
	return s.table().insert(&key, nil, nil, nil)
}

// InsertMove stores **key and sets *key to nil. When key is already
// present the duplicate is released.
func (s *Set[K]) InsertMove(key **K) bool {
	t := s.table()
	check.That(key != nil, "move source is nil")
	return t.insert(nil, key, nil, nil)
}

// Has reports whether key is present.
func (s *Set[K]) Has(key K) bool {
	return s.table().lookup(&key) != nil
}

// Remove deletes key and reports whether it was present.
func (s *Set[K]) Remove(key K) bool {
	return s.table().remove(&key, nil)
}

// Len returns the number of keys.
func (s *Set[K]) Len() int { return s.table().size }

// Cap returns the number of buckets.
func (s *Set[K]) Cap() int { return len(s.table().entries) }

// Empty reports whether the set holds no keys.
func (s *Set[K]) Empty() bool { return s.Len() == 0 }

// Clear releases every key and keeps the buckets.
func (s *Set[K]) Clear() { s.table().clear() }

// Reset releases every key and returns to MinCapacity buckets.
func (s *Set[K]) Reset() { s.table().reset() }

// Stats describes the bucket array.
func (s *Set[K]) Stats() Stats { return s.table().stats() }

// All iterates over borrowed key pointers in bucket order.
func (s *Set[K]) All() iter.Seq[*K] {
	t := s.table()
	return func(yield func(*K) bool) {
		for i := range t.entries {
			e := &t.entries[i]
			if e.state == stateFilled && !yield(e.key) {
				return
			}
		}
	}
}

// CopyFrom makes s a deep copy of src.
func (s *Set[K]) CopyFrom(src *Set[K]) {
	check.NotNil(s, "destination set")
	check.NotNil(src, "source set")
	s.t.copyFrom(&src.t)
}

// Clone returns a deep copy of s.
func (s *Set[K]) Clone() *Set[K] {
	dst := &Set[K]{}
	dst.CopyFrom(s)
	return dst
}

// MoveFrom transplants **src into s and sets *src to nil.
func (s *Set[K]) MoveFrom(src **Set[K]) {
	check.NotNil(s, "destination set")
	check.That(src != nil && *src != nil, "move source is nil")

	from := *src
	*src = nil
	s.t.moveFrom(&from.t)
}

// SetOps returns ops that store whole sets as elements of another container.
func SetOps[K any]() *ops.ElementOps[Set[K]] {
	return &ops.ElementOps[Set[K]]{
		Copy: func(dst, src *Set[K]) {
			*dst = Set[K]{}
			dst.CopyFrom(src)
		},
		Delete: func(elm *Set[K]) { elm.t.free() },
	}
}
