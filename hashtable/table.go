package hashtable

import (
	"context"
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/hupe1980/vessel/internal/check"
	"github.com/hupe1980/vessel/metric"
	"github.com/hupe1980/vessel/ops"
)

type state uint8

const (
	stateEmpty state = iota
	stateFilled
	stateTombstone
)

// entry points at separately allocated key and value cells, so relocating
// an entry during rehash never moves the cells themselves.
type entry[K, V any] struct {
	key   *K
	val   *V
	state state
}

// rehashReason names why the bucket array is rebuilt.
type rehashReason string

const (
	reasonGrow   rehashReason = "grow"
	reasonShrink rehashReason = "shrink"
	reasonPurge  rehashReason = "purge"
)

// maxPrimeRatio bounds the ratio between neighbouring capacities; a shrink
// multiplies the load by at most this much.
const maxPrimeRatio = 2.2

// table is the open-addressing engine shared by Map and Set.
type table[K, V any] struct {
	entries    []entry[K, V] // len(entries) is the capacity
	size       int
	tombstones int
	hash       HashFunc[K]
	cmp        CompareFunc[K]
	keyOps     *ops.ElementOps[K]
	valOps     *ops.ElementOps[V]
	hasValue   bool
	kind       metric.Kind
	cfg        *config
}

func (t *table[K, V]) init(kind metric.Kind, hasValue bool, keyOps *ops.ElementOps[K], valOps *ops.ElementOps[V], opts []Option) {
	cfg := newConfig(opts...)
	check.That(cfg.shrinkAt*maxPrimeRatio < cfg.growAt,
		"shrink load factor %.2f too close to grow load factor %.2f", cfg.shrinkAt, cfg.growAt)

	t.kind = kind
	t.hasValue = hasValue
	t.keyOps = keyOps
	t.valOps = valOps
	t.cfg = cfg
	t.hash = FNV1a[K]
	t.cmp = BytesCompare[K]

	if cfg.hash != nil {
		fn, ok := cfg.hash.(HashFunc[K])
		check.That(ok, "hash function %T does not match key type %T", cfg.hash, *new(K))
		t.hash = fn
	}
	if cfg.cmp != nil {
		fn, ok := cfg.cmp.(CompareFunc[K])
		check.That(ok, "compare function %T does not match key type %T", cfg.cmp, *new(K))
		t.cmp = fn
	}

	t.mustAllocate(MinCapacity)
}

func (t *table[K, V]) ready() {
	check.That(t.entries != nil, "%s is not initialized", t.kindName())
}

func (t *table[K, V]) kindName() string {
	if t.kind == "" {
		return "table"
	}
	return string(t.kind)
}

// findSlot returns the index holding key and true, or the slot an insert of
// key should use and false: the earliest tombstone on the probe chain, else
// the terminating empty slot.
func (t *table[K, V]) findSlot(key *K) (int, bool) {
	n := len(t.entries)
	home := int(t.hash(key) % uint64(n))
	tomb := -1

	for i := range n {
		idx := home + i
		if idx >= n {
			idx -= n
		}
		e := &t.entries[idx]
		switch e.state {
		case stateEmpty:
			if tomb >= 0 {
				return tomb, false
			}
			return idx, false
		case stateTombstone:
			if tomb < 0 {
				tomb = idx
			}
		case stateFilled:
			if t.cmp(e.key, key) == 0 {
				return idx, true
			}
		}
	}
	return tomb, false
}

// emptySlot returns the first empty slot on key's probe chain.
// Only used while rebuilding, when the table has no tombstones.
func (t *table[K, V]) emptySlot(key *K) int {
	n := len(t.entries)
	idx := int(t.hash(key) % uint64(n))
	for t.entries[idx].state != stateEmpty {
		idx++
		if idx == n {
			idx = 0
		}
	}
	return idx
}

func (t *table[K, V]) lookup(key *K) *entry[K, V] {
	idx, found := t.findSlot(key)
	if !found {
		return nil
	}
	return &t.entries[idx]
}

// insert stores a key and, for maps, a value. Exactly one of key and
// keyRef is set, and for maps exactly one of val and valRef. The ref forms
// hand over ownership and are set to nil. It reports whether the key was
// already present.
func (t *table[K, V]) insert(key *K, keyRef **K, val *V, valRef **V) bool {
	probe := key
	if keyRef != nil {
		check.That(*keyRef != nil, "move source is nil")
		probe = *keyRef
	}
	if valRef != nil {
		check.That(*valRef != nil, "move source is nil")
	}

	idx, found := t.findSlot(probe)
	if found {
		e := &t.entries[idx]
		if t.hasValue {
			t.valOps.Release(e.val)
			if valRef != nil {
				t.valOps.MoveInto(e.val, valRef)
			} else {
				t.valOps.CopyInto(e.val, val)
			}
		}
		if keyRef != nil {
			t.keyOps.Release(*keyRef)
			*keyRef = nil
		}
		return true
	}

	e := &t.entries[idx]
	if e.state == stateTombstone {
		t.tombstones--
	}

	if keyRef != nil {
		e.key = *keyRef
		*keyRef = nil
	} else {
		e.key = new(K)
		t.keyOps.CopyInto(e.key, key)
	}

	if t.hasValue {
		if valRef != nil {
			e.val = *valRef
			*valRef = nil
		} else {
			e.val = new(V)
			t.valOps.CopyInto(e.val, val)
		}
	}

	e.state = stateFilled
	t.size++
	t.rebalance()
	return false
}

// remove deletes key, optionally copying its value into out first.
func (t *table[K, V]) remove(key *K, out *V) bool {
	idx, found := t.findSlot(key)
	if !found {
		return false
	}

	e := &t.entries[idx]
	if out != nil && t.hasValue {
		t.valOps.CopyInto(out, e.val)
	}
	t.releaseEntry(e)
	e.state = stateTombstone
	t.size--
	t.tombstones++
	t.rebalance()
	return true
}

// rebalance applies the resize rule: grow above the grow load factor,
// shrink below the shrink load factor, and rebuild in place once tombstones
// push the occupied share above the grow load factor.
func (t *table[K, V]) rebalance() {
	capacity := len(t.entries)
	load := float64(t.size) / float64(capacity)

	switch {
	case load > t.cfg.growAt:
		next, exhausted := nextCapacity(capacity)
		if exhausted {
			t.cfg.logger.Warn("prime table exhausted, growing by doubling",
				"kind", t.kind,
				"capacity", capacity,
				"next", next,
			)
		}
		t.rehash(next, reasonGrow)
	case capacity > MinCapacity && load < t.cfg.shrinkAt:
		t.rehash(prevCapacity(capacity), reasonShrink)
	case float64(t.size+t.tombstones)/float64(capacity) > t.cfg.growAt:
		t.rehash(capacity, reasonPurge)
	}
}

func (t *table[K, V]) releaseEntry(e *entry[K, V]) {
	t.keyOps.Release(e.key)
	if t.hasValue {
		t.valOps.Release(e.val)
	}
	e.key, e.val = nil, nil
}

// rehash rebuilds the bucket array at capacity n and relocates every live
// entry. Cells are relocated by pointer; no element op runs. A refused
// allocation is fatal for growth; a refused shrink or purge keeps the
// current buckets.
func (t *table[K, V]) rehash(n int, reason rehashReason) {
	old := t.entries
	if err := t.allocate(n); err != nil {
		if reason == reasonGrow {
			check.Fail(err, "grow %s to capacity %d", t.kindName(), n)
		}
		t.cfg.logger.Warn("hashtable "+string(reason)+" skipped",
			"kind", t.kind,
			"reason", reason,
			"capacity", len(old),
			"target", n,
			"size", t.size,
			"error", err,
		)
		t.cfg.observer.OnShrinkSkipped(t.kind, len(old), err)
		return
	}

	for i := range old {
		if old[i].state == stateFilled {
			t.entries[t.emptySlot(old[i].key)] = old[i]
		}
	}
	t.cfg.rc.ReleaseMemory(bucketBytes[K, V](len(old)))

	t.cfg.observer.OnRehash(t.kind, len(old), n, t.size)
	if t.cfg.logger.Enabled(context.Background(), slog.LevelDebug) {
		t.cfg.logger.Debug("hashtable rehashed",
			"kind", t.kind,
			"reason", reason,
			"old_capacity", len(old),
			"new_capacity", n,
			"size", t.size,
		)
	}
}

// allocate installs an all-empty bucket array of n slots. The previous
// array is not refunded.
func (t *table[K, V]) allocate(n int) error {
	if err := t.cfg.rc.AcquireMemory(bucketBytes[K, V](n)); err != nil {
		return fmt.Errorf("allocate %d buckets: %w", n, err)
	}
	t.entries = make([]entry[K, V], n)
	t.tombstones = 0
	return nil
}

func (t *table[K, V]) mustAllocate(n int) {
	if err := t.allocate(n); err != nil {
		check.Fail(err, "allocate %s", t.kindName())
	}
}

// clear releases every entry and keeps the capacity.
func (t *table[K, V]) clear() {
	for i := range t.entries {
		e := &t.entries[i]
		if e.state == stateFilled {
			t.releaseEntry(e)
		}
		e.state = stateEmpty
	}
	t.size = 0
	t.tombstones = 0
}

// reset clears the table and returns it to MinCapacity.
func (t *table[K, V]) reset() {
	t.clear()
	if len(t.entries) == MinCapacity {
		return
	}
	t.free()
	t.mustAllocate(MinCapacity)
}

// free releases every entry and the bucket array. The table must be
// initialized again before reuse.
func (t *table[K, V]) free() {
	t.clear()
	if t.entries != nil {
		t.cfg.rc.ReleaseMemory(bucketBytes[K, V](len(t.entries)))
		t.entries = nil
	}
}

// copyFrom makes t a deep copy of src at src's capacity.
func (t *table[K, V]) copyFrom(src *table[K, V]) {
	if t == src {
		return
	}
	src.ready()
	t.free()

	t.hash, t.cmp = src.hash, src.cmp
	t.keyOps, t.valOps = src.keyOps, src.valOps
	t.hasValue, t.kind, t.cfg = src.hasValue, src.kind, src.cfg
	t.mustAllocate(len(src.entries))

	for i := range src.entries {
		s := &src.entries[i]
		if s.state != stateFilled {
			continue
		}
		e := &t.entries[t.emptySlot(s.key)]
		e.key = new(K)
		t.keyOps.CopyInto(e.key, s.key)
		if t.hasValue {
			e.val = new(V)
			t.valOps.CopyInto(e.val, s.val)
		}
		e.state = stateFilled
	}
	t.size = src.size
}

// moveFrom transplants src into t and leaves src empty and uninitialized.
func (t *table[K, V]) moveFrom(src *table[K, V]) {
	if t == src {
		return
	}
	t.free()
	*t = *src
	*src = table[K, V]{}
}

// Stats describes the bucket array of a Map or Set.
type Stats struct {
	Len        int
	Cap        int
	Tombstones int
	LoadFactor float64
	// MaxProbe is the longest distance of a live entry from its home slot.
	MaxProbe int
}

func (t *table[K, V]) stats() Stats {
	n := len(t.entries)
	s := Stats{
		Len:        t.size,
		Cap:        n,
		Tombstones: t.tombstones,
	}
	if n == 0 {
		return s
	}
	s.LoadFactor = float64(t.size) / float64(n)
	for i := range t.entries {
		e := &t.entries[i]
		if e.state != stateFilled {
			continue
		}
		home := int(t.hash(e.key) % uint64(n))
		dist := i - home
		if dist < 0 {
			dist += n
		}
		s.MaxProbe = max(s.MaxProbe, dist)
	}
	return s
}

func bucketBytes[K, V any](n int) int64 {
	var e entry[K, V]
	return int64(n) * int64(unsafe.Sizeof(e))
}
