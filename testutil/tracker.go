package testutil

import (
	"sync"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/vessel/ops"
)

// Resource is a test element that owns one tracked id.
// Copying a Resource through its ops allocates a new id; deleting it frees
// the id.
type Resource struct {
	ID      uint32
	Payload int
}

// Tracker records which Resource ids are live.
// It is safe for concurrent use.
type Tracker struct {
	mu          sync.Mutex
	live        *roaring.Bitmap
	next        uint32
	copies      int
	deletes     int
	doubleFrees int
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		live: roaring.New(),
		next: 1,
	}
}

// New returns a live Resource carrying payload.
func (t *Tracker) New(payload int) Resource {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Resource{ID: t.allocLocked(), Payload: payload}
}

// NewRef returns a heap-allocated live Resource, ready to be moved.
func (t *Tracker) NewRef(payload int) *Resource {
	r := t.New(payload)
	return &r
}

// Ops returns element ops that account every copy and delete.
// Move is the default transplant and keeps the id.
func (t *Tracker) Ops() *ops.ElementOps[Resource] {
	return &ops.ElementOps[Resource]{
		Copy: func(dst, src *Resource) {
			t.mu.Lock()
			defer t.mu.Unlock()
			t.copies++
			*dst = Resource{ID: t.allocLocked(), Payload: src.Payload}
		},
		Delete: func(elm *Resource) {
			t.mu.Lock()
			defer t.mu.Unlock()
			t.deletes++
			if !t.live.CheckedRemove(elm.ID) {
				t.doubleFrees++
			}
		},
	}
}

// Release frees r outside of any container.
func (t *Tracker) Release(r *Resource) {
	t.Ops().Delete(r)
}

// Live returns the number of live ids.
func (t *Tracker) Live() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.live.GetCardinality()
}

// IsLive reports whether id has been issued and not deleted.
func (t *Tracker) IsLive(id uint32) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.live.Contains(id)
}

// LiveIDs returns the live ids in ascending order.
func (t *Tracker) LiveIDs() []uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.live.ToArray()
}

// Copies returns how many times Copy ran.
func (t *Tracker) Copies() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.copies
}

// Deletes returns how many times Delete ran.
func (t *Tracker) Deletes() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.deletes
}

// DoubleFrees returns how many deletes hit an id that was not live.
func (t *Tracker) DoubleFrees() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.doubleFrees
}

func (t *Tracker) allocLocked() uint32 {
	id := t.next
	t.next++
	t.live.Add(id)
	return id
}
