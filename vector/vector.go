package vector

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"unsafe"

	"github.com/hupe1980/vessel/internal/check"
	"github.com/hupe1980/vessel/metric"
	"github.com/hupe1980/vessel/ops"
)

// Vector is a growable array of T.
//
// The zero value is an empty vector of plain data, ready to use.
// A Vector must not be copied by assignment once it owns elements;
// use CopyFrom, Clone or MoveFrom.
type Vector[T any] struct {
	data []T // len(data) is the capacity
	size int
	ops  *ops.ElementOps[T]
	cfg  *config
}

// New returns a vector with room for capacity elements.
// elemOps may be nil for plain data.
func New[T any](capacity int, elemOps *ops.ElementOps[T], opts ...Option) *Vector[T] {
	check.That(capacity >= 0, "negative capacity %d", capacity)

	v := &Vector[T]{
		ops: elemOps,
		cfg: newConfig(opts...),
	}
	if capacity > 0 {
		v.mustResize(capacity)
	}
	return v
}

// NewFilled returns a vector of n copies of val.
func NewFilled[T any](n int, val T, elemOps *ops.ElementOps[T], opts ...Option) *Vector[T] {
	v := New(n, elemOps, opts...)
	for i := range n {
		v.ops.CopyInto(&v.data[i], &val)
	}
	v.size = n
	return v
}

// Len returns the number of elements.
func (v *Vector[T]) Len() int {
	check.NotNil(v, "vector")
	return v.size
}

// Cap returns the number of slots in the buffer.
func (v *Vector[T]) Cap() int {
	check.NotNil(v, "vector")
	return len(v.data)
}

// Empty reports whether the vector holds no elements.
func (v *Vector[T]) Empty() bool { return v.Len() == 0 }

// Ops returns the element ops the vector was created with.
func (v *Vector[T]) Ops() *ops.ElementOps[T] { return v.ops }

// Push appends a copy of val.
func (v *Vector[T]) Push(val T) {
	check.NotNil(v, "vector")
	v.growIfFull()
	v.ops.CopyInto(&v.data[v.size], &val)
	v.size++
}

// PushMove appends **ref and sets *ref to nil.
func (v *Vector[T]) PushMove(ref **T) {
	check.NotNil(v, "vector")
	check.That(ref != nil && *ref != nil, "move source is nil")
	v.growIfFull()
	v.ops.MoveInto(&v.data[v.size], ref)
	v.size++
}

// Pop removes the last element and returns a copy of it.
func (v *Vector[T]) Pop() (T, error) {
	check.NotNil(v, "vector")

	var out T
	if v.size == 0 {
		return out, ErrEmpty
	}
	last := &v.data[v.size-1]
	v.ops.CopyInto(&out, last)
	v.drop(v.size - 1)
	v.size--
	v.maybeShrink()
	return out, nil
}

// Discard removes the last element without copying it out.
func (v *Vector[T]) Discard() error {
	check.NotNil(v, "vector")
	if v.size == 0 {
		return ErrEmpty
	}
	v.drop(v.size - 1)
	v.size--
	v.maybeShrink()
	return nil
}

// Get returns a copy of the element at i.
func (v *Vector[T]) Get(i int) T {
	check.NotNil(v, "vector")
	check.Index(i, v.size)
	var out T
	v.ops.CopyInto(&out, &v.data[i])
	return out
}

// At returns a borrowed pointer to the element at i.
func (v *Vector[T]) At(i int) *T {
	check.NotNil(v, "vector")
	check.Index(i, v.size)
	return &v.data[i]
}

// Front returns a borrowed pointer to the first element.
func (v *Vector[T]) Front() (*T, error) {
	check.NotNil(v, "vector")
	if v.size == 0 {
		return nil, ErrEmpty
	}
	return &v.data[0], nil
}

// Back returns a borrowed pointer to the last element.
func (v *Vector[T]) Back() (*T, error) {
	check.NotNil(v, "vector")
	if v.size == 0 {
		return nil, ErrEmpty
	}
	return &v.data[v.size-1], nil
}

// Insert places a copy of val at i, shifting the tail right.
// i == Len() appends.
func (v *Vector[T]) Insert(i int, val T) {
	check.NotNil(v, "vector")
	check.That(i >= 0 && i <= v.size, "insert index %d out of bounds [0, %d]", i, v.size)
	v.growIfFull()
	v.openGap(i, 1)
	v.ops.CopyInto(&v.data[i], &val)
	v.size++
}

// InsertMove places **ref at i and sets *ref to nil.
func (v *Vector[T]) InsertMove(i int, ref **T) {
	check.NotNil(v, "vector")
	check.That(i >= 0 && i <= v.size, "insert index %d out of bounds [0, %d]", i, v.size)
	check.That(ref != nil && *ref != nil, "move source is nil")
	v.growIfFull()
	v.openGap(i, 1)
	v.ops.MoveInto(&v.data[i], ref)
	v.size++
}

// InsertMany places copies of vals at i, in order. vals may be a view of
// v itself. The buffer grows at most once and the tail moves once.
func (v *Vector[T]) InsertMany(i int, vals ...T) {
	check.NotNil(v, "vector")
	check.That(i >= 0 && i <= v.size, "insert index %d out of bounds [0, %d]", i, v.size)

	k := len(vals)
	if k == 0 {
		return
	}
	if overlaps(vals, v.data) {
		// Shallow snapshot: the elements stay owned by v while the gap opens.
		vals = append([]T(nil), vals...)
	}
	v.Reserve(v.size + k)
	v.openGap(i, k)
	if v.ops.HasCopy() {
		for j := range vals {
			v.ops.CopyInto(&v.data[i+j], &vals[j])
		}
	} else {
		copy(v.data[i:i+k], vals)
	}
	v.size += k
}

// InsertManyMove transplants every element of *batch to i and sets *batch
// to nil. The vector owns the elements afterwards.
func (v *Vector[T]) InsertManyMove(i int, batch *[]T) {
	check.NotNil(v, "vector")
	check.That(i >= 0 && i <= v.size, "insert index %d out of bounds [0, %d]", i, v.size)
	check.That(batch != nil, "move source is nil")

	k := len(*batch)
	if k > 0 {
		v.Reserve(v.size + k)
		v.openGap(i, k)
		copy(v.data[i:i+k], *batch)
		v.size += k
	}
	*batch = nil
}

// Remove deletes the element at i and returns a copy of it.
func (v *Vector[T]) Remove(i int) T {
	check.NotNil(v, "vector")
	check.Index(i, v.size)

	var out T
	v.ops.CopyInto(&out, &v.data[i])
	v.removeRange(i, i)
	return out
}

// Delete removes the element at i.
func (v *Vector[T]) Delete(i int) {
	check.NotNil(v, "vector")
	check.Index(i, v.size)
	v.removeRange(i, i)
}

// RemoveRange removes the elements in [l, r]. r is clamped to Len()-1.
func (v *Vector[T]) RemoveRange(l, r int) {
	check.NotNil(v, "vector")
	check.Index(l, v.size)
	check.That(l <= r, "range start %d after end %d", l, r)
	v.removeRange(l, min(r, v.size-1))
}

// Replace releases the element at i and stores a copy of val in its place.
func (v *Vector[T]) Replace(i int, val T) {
	check.NotNil(v, "vector")
	check.Index(i, v.size)
	v.drop(i)
	v.ops.CopyInto(&v.data[i], &val)
}

// ReplaceMove releases the element at i and moves **ref into its place.
func (v *Vector[T]) ReplaceMove(i int, ref **T) {
	check.NotNil(v, "vector")
	check.Index(i, v.size)
	check.That(ref != nil && *ref != nil, "move source is nil")
	v.drop(i)
	v.ops.MoveInto(&v.data[i], ref)
}

// Reserve ensures capacity for at least n elements. It never shrinks.
// A refused allocation is a contract violation.
func (v *Vector[T]) Reserve(n int) {
	check.NotNil(v, "vector")
	if n <= len(v.data) {
		return
	}
	old := len(v.data)
	v.mustResize(n)
	v.config().observer.OnGrow(metric.KindVector, old, n)
}

// TryReserve is Reserve returning ErrFull when the memory budget refuses.
func (v *Vector[T]) TryReserve(n int) error {
	check.NotNil(v, "vector")
	if n <= len(v.data) {
		return nil
	}
	old := len(v.data)
	if err := v.resize(n); err != nil {
		return fmt.Errorf("%w: reserve %d: %w", ErrFull, n, err)
	}
	v.config().observer.OnGrow(metric.KindVector, old, n)
	return nil
}

// ReserveFill grows to at least n elements and fills [Len(), n) with copies of val.
func (v *Vector[T]) ReserveFill(n int, val T) {
	check.NotNil(v, "vector")
	check.That(n >= v.size, "fill length %d below size %d", n, v.size)
	v.Reserve(n)
	for i := v.size; i < n; i++ {
		v.ops.CopyInto(&v.data[i], &val)
	}
	v.size = n
}

// ShrinkToFit reduces the capacity to max(Len(), 4).
func (v *Vector[T]) ShrinkToFit() {
	check.NotNil(v, "vector")
	target := max(v.size, minCapacity)
	if len(v.data) <= target {
		return
	}
	v.shrinkTo(target)
}

// Clear releases every element and keeps the buffer.
func (v *Vector[T]) Clear() {
	check.NotNil(v, "vector")
	for i := range v.size {
		v.drop(i)
	}
	v.size = 0
}

// Reset releases every element and the buffer.
func (v *Vector[T]) Reset() {
	v.Clear()
	if v.data != nil {
		v.config().rc.ReleaseMemory(bytesFor[T](len(v.data)))
		v.data = nil
	}
}

// CopyFrom makes v a deep copy of src. v's previous content is released and
// v adopts src's ops and options.
func (v *Vector[T]) CopyFrom(src *Vector[T]) {
	check.NotNil(v, "destination vector")
	check.NotNil(src, "source vector")
	if v == src {
		return
	}

	v.Reset()
	v.ops, v.cfg = src.ops, src.cfg
	if len(src.data) > 0 {
		v.mustResize(len(src.data))
	}
	if v.ops.HasCopy() {
		for i := range src.size {
			v.ops.CopyInto(&v.data[i], &src.data[i])
		}
	} else {
		copy(v.data, src.data[:src.size])
	}
	v.size = src.size
}

// Clone returns a deep copy of v.
func (v *Vector[T]) Clone() *Vector[T] {
	check.NotNil(v, "vector")
	dst := &Vector[T]{}
	dst.CopyFrom(v)
	return dst
}

// MoveFrom transplants **src into v and sets *src to nil. v's previous
// content is released; no element is copied.
func (v *Vector[T]) MoveFrom(src **Vector[T]) {
	check.NotNil(v, "destination vector")
	check.That(src != nil && *src != nil, "move source is nil")

	from := *src
	*src = nil
	if from == v {
		return
	}
	v.Reset()
	*v = *from
	*from = Vector[T]{}
}

// All iterates over index and borrowed element pointer pairs.
func (v *Vector[T]) All() iter.Seq2[int, *T] {
	return func(yield func(int, *T) bool) {
		for i := 0; i < v.size; i++ {
			if !yield(i, &v.data[i]) {
				return
			}
		}
	}
}

// Values iterates over shallow copies of the elements.
func (v *Vector[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := 0; i < v.size; i++ {
			if !yield(v.data[i]) {
				return
			}
		}
	}
}

// View returns the live elements as a borrowed slice.
// Appending to it does not affect the vector.
func (v *Vector[T]) View() []T {
	check.NotNil(v, "vector")
	return v.data[:v.size:v.size]
}

// ElementOps returns ops that store whole vectors as elements of another
// container: Copy deep-copies and Delete resets.
func ElementOps[T any]() *ops.ElementOps[Vector[T]] {
	return &ops.ElementOps[Vector[T]]{
		Copy: func(dst, src *Vector[T]) {
			*dst = Vector[T]{}
			dst.CopyFrom(src)
		},
		Delete: func(elm *Vector[T]) { elm.Reset() },
	}
}

func (v *Vector[T]) config() *config {
	if v.cfg == nil {
		return defaultConfig
	}
	return v.cfg
}

// drop releases the element at i and zeroes its slot.
func (v *Vector[T]) drop(i int) {
	v.ops.Release(&v.data[i])
	var zero T
	v.data[i] = zero
}

// openGap shifts [i, size) right by k. The gap slots are zeroed.
func (v *Vector[T]) openGap(i, k int) {
	if i < v.size {
		copy(v.data[i+k:v.size+k], v.data[i:v.size])
	}
	clear(v.data[i : i+k])
}

func (v *Vector[T]) removeRange(l, r int) {
	for i := l; i <= r; i++ {
		v.ops.Release(&v.data[i])
	}
	n := r - l + 1
	copy(v.data[l:], v.data[r+1:v.size])
	clear(v.data[v.size-n : v.size])
	v.size -= n
	v.maybeShrink()
}

func (v *Vector[T]) growIfFull() {
	if v.size < len(v.data) {
		return
	}
	c := v.config()
	old := len(v.data)
	next := nextCapacity(old, c.growth)
	v.mustResize(next)
	c.observer.OnGrow(metric.KindVector, old, next)
	if c.logger.Enabled(context.Background(), slog.LevelDebug) {
		c.logger.Debug("vector grown", "old_capacity", old, "new_capacity", next, "size", v.size)
	}
}

func (v *Vector[T]) maybeShrink() {
	c := v.config()
	capacity := len(v.data)
	if v.size > int(float64(capacity)*c.shrinkAt) {
		return
	}
	target := max(int(float64(capacity)*c.shrinkBy), v.size, minCapacity)
	if target >= capacity {
		return
	}
	v.shrinkTo(target)
}

func (v *Vector[T]) shrinkTo(target int) {
	c := v.config()
	old := len(v.data)
	if err := v.resize(target); err != nil {
		c.logger.Warn("vector shrink skipped",
			"capacity", old,
			"target", target,
			"size", v.size,
			"error", err,
		)
		c.observer.OnShrinkSkipped(metric.KindVector, old, err)
		return
	}
	c.observer.OnShrink(metric.KindVector, old, target)
}

func (v *Vector[T]) mustResize(n int) {
	if err := v.resize(n); err != nil {
		check.Fail(fmt.Errorf("%w: %w", ErrFull, err), "grow vector to capacity %d", n)
	}
}

// resize replaces the buffer with one of exactly n slots holding the live
// elements. The new buffer is charged before the old one is refunded, so
// the budget must cover both for the duration of the copy.
func (v *Vector[T]) resize(n int) error {
	c := v.config()
	if err := c.rc.AcquireMemory(bytesFor[T](n)); err != nil {
		return err
	}
	var buf []T
	if n > 0 {
		buf = make([]T, n)
		copy(buf, v.data[:v.size])
	}
	c.rc.ReleaseMemory(bytesFor[T](len(v.data)))
	v.data = buf
	return nil
}

func nextCapacity(capacity int, factor float64) int {
	if capacity < minCapacity {
		return capacity + 1
	}
	next := int(float64(capacity) * factor)
	if next <= capacity {
		next = capacity + 1
	}
	return next
}

// overlaps reports whether a and the backing array of b share memory.
func overlaps[T any](a, b []T) bool {
	if len(a) == 0 || cap(b) == 0 {
		return false
	}
	size := unsafe.Sizeof(a[0])
	if size == 0 {
		return false
	}
	aStart := uintptr(unsafe.Pointer(unsafe.SliceData(a)))
	aEnd := aStart + uintptr(len(a))*size
	bStart := uintptr(unsafe.Pointer(unsafe.SliceData(b)))
	bEnd := bStart + uintptr(cap(b))*size
	return aStart < bEnd && bStart < aEnd
}

func bytesFor[T any](n int) int64 {
	var zero T
	return int64(n) * int64(unsafe.Sizeof(zero))
}
