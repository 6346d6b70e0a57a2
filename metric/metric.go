// Package metric defines the lifecycle observer notified by containers.
//
// Containers report capacity changes, never element operations, so an
// observer sees one event per reallocation:
//
//	type countingObserver struct{ metric.Noop; grows int }
//
//	func (c *countingObserver) OnGrow(metric.Kind, int, int) { c.grows++ }
//
// Implementations must be safe for concurrent use when one observer is
// shared by containers on different goroutines.
package metric

// Kind names the container that emitted an event.
type Kind string

const (
	// KindVector is a vector.Vector.
	KindVector Kind = "vector"
	// KindMap is a hashtable.Map.
	KindMap Kind = "map"
	// KindSet is a hashtable.Set.
	KindSet Kind = "set"
	// KindQueue is a queue.Queue.
	KindQueue Kind = "queue"
)

// Observer receives container capacity events.
type Observer interface {
	// OnGrow is called after capacity increased from old to new.
	OnGrow(kind Kind, oldCap, newCap int)

	// OnShrink is called after capacity decreased from old to new.
	OnShrink(kind Kind, oldCap, newCap int)

	// OnShrinkSkipped is called when an optional reallocation (a shrink,
	// or a hash table's same-capacity tombstone purge) was abandoned and
	// the container kept its current buffer.
	OnShrinkSkipped(kind Kind, capacity int, err error)

	// OnRehash is called after a hash table rebuilt its buckets.
	// entries is the number of relocated live entries.
	OnRehash(kind Kind, oldCap, newCap, entries int)
}

// Noop is an Observer that ignores every event.
type Noop struct{}

func (Noop) OnGrow(Kind, int, int)            {}
func (Noop) OnShrink(Kind, int, int)          {}
func (Noop) OnShrinkSkipped(Kind, int, error) {}
func (Noop) OnRehash(Kind, int, int, int)     {}

// OrNoop returns o, or Noop when o is nil.
func OrNoop(o Observer) Observer {
	if o == nil {
		return Noop{}
	}
	return o
}
