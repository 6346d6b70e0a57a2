// Package queue provides a FIFO ring-buffer Queue and a binary-heap Priority
// queue, both owning their elements through ops.ElementOps.
package queue

import (
	"fmt"
	"iter"
	"log/slog"
	"unsafe"

	"github.com/hupe1980/vessel/internal/check"
	"github.com/hupe1980/vessel/metric"
	"github.com/hupe1980/vessel/ops"
	"github.com/hupe1980/vessel/vector"
)

// ErrEmpty is returned when dequeuing or peeking an empty queue.
var ErrEmpty = fmt.Errorf("queue: %w", vector.ErrEmpty)

// Queue is a first-in first-out queue of T backed by a ring buffer.
//
// The buffer grows by 1.5x when full and halves once less than a quarter
// of it is in use, never below 4 slots. Every resize relinearises the
// elements so the head sits at slot 0.
type Queue[T any] struct {
	data []T // len(data) is the capacity
	head int
	size int
	ops  *ops.ElementOps[T]
	cfg  *config
}

// New returns an empty queue with room for capacity elements.
func New[T any](capacity int, elemOps *ops.ElementOps[T], opts ...Option) *Queue[T] {
	check.That(capacity >= 0, "negative capacity %d", capacity)

	cfg := &config{
		logger:   slog.New(slog.DiscardHandler),
		observer: metric.Noop{},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	q := &Queue[T]{ops: elemOps, cfg: cfg}
	if capacity > 0 {
		if err := q.compact(capacity); err != nil {
			check.Fail(err, "allocate queue")
		}
	}
	return q
}

// Len returns the number of queued elements.
func (q *Queue[T]) Len() int {
	check.NotNil(q, "queue")
	return q.size
}

// Cap returns the number of slots in the ring buffer.
func (q *Queue[T]) Cap() int {
	check.NotNil(q, "queue")
	return len(q.data)
}

// Empty reports whether the queue holds no elements.
func (q *Queue[T]) Empty() bool { return q.Len() == 0 }

// Enqueue appends a copy of val at the tail.
func (q *Queue[T]) Enqueue(val T) {
	check.NotNil(q, "queue")
	q.growIfFull()
	q.ops.CopyInto(&q.data[q.slot(q.size)], &val)
	q.size++
}

// EnqueueMove appends **ref at the tail and sets *ref to nil.
func (q *Queue[T]) EnqueueMove(ref **T) {
	check.NotNil(q, "queue")
	check.That(ref != nil && *ref != nil, "move source is nil")
	q.growIfFull()
	q.ops.MoveInto(&q.data[q.slot(q.size)], ref)
	q.size++
}

// Dequeue removes the head element and returns a copy of it.
func (q *Queue[T]) Dequeue() (T, error) {
	check.NotNil(q, "queue")

	var out T
	if q.size == 0 {
		return out, ErrEmpty
	}
	q.ops.CopyInto(&out, &q.data[q.head])
	q.dropHead()
	return out, nil
}

// Discard removes the head element without copying it out.
func (q *Queue[T]) Discard() error {
	check.NotNil(q, "queue")
	if q.size == 0 {
		return ErrEmpty
	}
	q.dropHead()
	return nil
}

// Peek returns a copy of the head element.
func (q *Queue[T]) Peek() (T, error) {
	check.NotNil(q, "queue")

	var out T
	if q.size == 0 {
		return out, ErrEmpty
	}
	q.ops.CopyInto(&out, &q.data[q.head])
	return out, nil
}

// PeekRef returns a borrowed pointer to the head element.
func (q *Queue[T]) PeekRef() (*T, error) {
	check.NotNil(q, "queue")
	if q.size == 0 {
		return nil, ErrEmpty
	}
	return &q.data[q.head], nil
}

// All iterates over borrowed element pointers from head to tail.
func (q *Queue[T]) All() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		for i := 0; i < q.size; i++ {
			if !yield(&q.data[q.slot(i)]) {
				return
			}
		}
	}
}

// ShrinkToFit reduces the buffer to max(Len(), 4) slots, or releases it
// entirely when the queue is empty.
func (q *Queue[T]) ShrinkToFit() {
	check.NotNil(q, "queue")
	if q.size == 0 {
		q.Reset()
		return
	}
	target := max(q.size, minCapacity)
	if len(q.data) > target {
		q.shrinkTo(target)
	}
}

// Clear releases every element and keeps the buffer.
func (q *Queue[T]) Clear() {
	check.NotNil(q, "queue")
	for i := 0; i < q.size; i++ {
		j := q.slot(i)
		q.ops.Release(&q.data[j])
		var zero T
		q.data[j] = zero
	}
	q.head, q.size = 0, 0
}

// Reset releases every element and the buffer.
func (q *Queue[T]) Reset() {
	q.Clear()
	if q.data != nil {
		q.cfg.rc.ReleaseMemory(bytesFor[T](len(q.data)))
		q.data = nil
	}
}

// slot maps the i-th element from the head to its buffer index.
func (q *Queue[T]) slot(i int) int {
	j := q.head + i
	if j >= len(q.data) {
		j -= len(q.data)
	}
	return j
}

func (q *Queue[T]) dropHead() {
	q.ops.Release(&q.data[q.head])
	var zero T
	q.data[q.head] = zero
	q.head = q.slot(1)
	q.size--
	if q.size == 0 {
		q.head = 0
	}

	capacity := len(q.data)
	if capacity > minCapacity && float64(q.size)/float64(capacity) < shrinkAt {
		q.shrinkTo(max(int(float64(capacity)*shrinkBy), q.size, minCapacity))
	}
}

func (q *Queue[T]) growIfFull() {
	if q.size < len(q.data) {
		return
	}
	old := len(q.data)
	next := int(float64(old) * growthFactor)
	if next <= old {
		next = old + 1
	}
	if err := q.compact(next); err != nil {
		check.Fail(err, "grow queue to capacity %d", next)
	}
	q.cfg.observer.OnGrow(metric.KindQueue, old, next)
}

func (q *Queue[T]) shrinkTo(target int) {
	old := len(q.data)
	if err := q.compact(target); err != nil {
		q.cfg.logger.Warn("queue shrink skipped",
			"capacity", old,
			"target", target,
			"size", q.size,
			"error", err,
		)
		q.cfg.observer.OnShrinkSkipped(metric.KindQueue, old, err)
		return
	}
	q.cfg.observer.OnShrink(metric.KindQueue, old, target)
}

// compact moves the live elements, in order, into a fresh buffer of n slots
// starting at index 0.
func (q *Queue[T]) compact(n int) error {
	if err := q.cfg.rc.AcquireMemory(bytesFor[T](n)); err != nil {
		return fmt.Errorf("%w: %w", vector.ErrFull, err)
	}
	buf := make([]T, n)
	if q.size > 0 {
		if q.head+q.size <= len(q.data) {
			copy(buf, q.data[q.head:q.head+q.size])
		} else {
			k := copy(buf, q.data[q.head:])
			copy(buf[k:], q.data[:q.size-k])
		}
	}
	q.cfg.rc.ReleaseMemory(bytesFor[T](len(q.data)))
	q.data = buf
	q.head = 0
	return nil
}

func bytesFor[T any](n int) int64 {
	var zero T
	return int64(n) * int64(unsafe.Sizeof(zero))
}
