package queue

import (
	"github.com/hupe1980/vessel/internal/check"
	"github.com/hupe1980/vessel/ops"
	"github.com/hupe1980/vessel/vector"
)

// LessFunc reports whether a has higher priority than b.
type LessFunc[T any] func(a, b *T) bool

// Priority is a binary heap of T on top of vector.Vector. The element for
// which less holds against every other element sits at the top.
type Priority[T any] struct {
	items *vector.Vector[T]
	less  LessFunc[T]
}

// NewPriority returns an empty heap ordered by less.
func NewPriority[T any](less func(a, b *T) bool, elemOps *ops.ElementOps[T], opts ...vector.Option) *Priority[T] {
	check.That(less != nil, "less function is nil")
	return &Priority[T]{
		items: vector.New(0, elemOps, opts...),
		less:  less,
	}
}

// Push inserts a copy of val.
func (pq *Priority[T]) Push(val T) {
	check.NotNil(pq, "priority queue")
	pq.items.Push(val)
	pq.siftUp(pq.items.Len() - 1)
}

// PushMove inserts **ref and sets *ref to nil.
func (pq *Priority[T]) PushMove(ref **T) {
	check.NotNil(pq, "priority queue")
	pq.items.PushMove(ref)
	pq.siftUp(pq.items.Len() - 1)
}

// Pop removes the top element and returns a copy of it.
func (pq *Priority[T]) Pop() (T, error) {
	check.NotNil(pq, "priority queue")

	n := pq.items.Len()
	if n == 0 {
		var zero T
		return zero, ErrEmpty
	}
	pq.swap(0, n-1)
	top, err := pq.items.Pop()
	if err != nil {
		return top, ErrEmpty
	}
	if n > 2 {
		pq.siftDown(0)
	}
	return top, nil
}

// Peek returns a borrowed pointer to the top element.
func (pq *Priority[T]) Peek() (*T, error) {
	check.NotNil(pq, "priority queue")
	top, err := pq.items.Front()
	if err != nil {
		return nil, ErrEmpty
	}
	return top, nil
}

// Len returns the number of elements.
func (pq *Priority[T]) Len() int { return pq.items.Len() }

// Empty reports whether the heap holds no elements.
func (pq *Priority[T]) Empty() bool { return pq.items.Empty() }

// Clear releases every element and keeps the buffer.
func (pq *Priority[T]) Clear() { pq.items.Clear() }

// Reset releases every element and the buffer.
func (pq *Priority[T]) Reset() { pq.items.Reset() }

func (pq *Priority[T]) higher(i, j int) bool {
	return pq.less(pq.items.At(i), pq.items.At(j))
}

// swap exchanges two slots. Elements move by plain assignment, which
// transplants ownership without running any op.
func (pq *Priority[T]) swap(i, j int) {
	a, b := pq.items.At(i), pq.items.At(j)
	*a, *b = *b, *a
}

func (pq *Priority[T]) siftUp(i int) {
	for i > 0 {
		p := (i - 1) / 2
		if !pq.higher(i, p) {
			return
		}
		pq.swap(i, p)
		i = p
	}
}

func (pq *Priority[T]) siftDown(i int) {
	n := pq.items.Len()
	for {
		l := 2*i + 1
		if l >= n {
			return
		}
		best := l
		if r := l + 1; r < n && pq.higher(r, l) {
			best = r
		}
		if !pq.higher(best, i) {
			return
		}
		pq.swap(i, best)
		i = best
	}
}
