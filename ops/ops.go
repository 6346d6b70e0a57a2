package ops

import "github.com/hupe1980/vessel/internal/check"

// ElementOps is the copy/move/delete triple for elements of type T.
type ElementOps[T any] struct {
	// Copy deep-copies src into the uninitialised dst.
	Copy func(dst, src *T)
	// Move transplants **src into dst and nulls *src.
	Move func(dst *T, src **T)
	// Delete releases the resources owned by elm, not elm itself.
	Delete func(elm *T)
}

// IsPlain reports whether elements are plain data: no owned resources to
// duplicate or release.
func (o *ElementOps[T]) IsPlain() bool {
	return o == nil || (o.Copy == nil && o.Move == nil && o.Delete == nil)
}

// HasCopy reports whether a Copy callback is registered.
func (o *ElementOps[T]) HasCopy() bool { return o != nil && o.Copy != nil }

// HasDelete reports whether a Delete callback is registered.
func (o *ElementOps[T]) HasDelete() bool { return o != nil && o.Delete != nil }

// CopyInto writes a copy of *src into dst.
func (o *ElementOps[T]) CopyInto(dst, src *T) {
	if o != nil && o.Copy != nil {
		o.Copy(dst, src)
		return
	}
	*dst = *src
}

// MoveInto transplants **src into dst and sets *src to nil.
// A nil src or *src is a contract violation.
func (o *ElementOps[T]) MoveInto(dst *T, src **T) {
	check.That(src != nil && *src != nil, "move source is nil")

	if o != nil && o.Move != nil {
		o.Move(dst, src)
		// A Move callback that forgets to null the source would leave two owners.
		*src = nil
		return
	}
	*dst = **src
	*src = nil
}

// Release frees the resources owned by elm.
func (o *ElementOps[T]) Release(elm *T) {
	if o != nil && o.Delete != nil {
		o.Delete(elm)
	}
}

// Lifecycle is implemented by pointer types whose values own resources.
type Lifecycle[T any] interface {
	*T
	// CloneInto deep-copies the receiver into the uninitialised dst.
	CloneInto(dst *T)
	// Release frees everything the receiver owns.
	Release()
}

// Of builds ElementOps from the CloneInto and Release methods of *T.
// Move uses the default transplant.
func Of[T any, P Lifecycle[T]]() *ElementOps[T] {
	return &ElementOps[T]{
		Copy:   func(dst, src *T) { P(src).CloneInto(dst) },
		Delete: func(elm *T) { P(elm).Release() },
	}
}

// Pointer derives by-pointer storage ops from by-value ops.
//
// Slots hold a *T. Copy allocates a new T and deep-copies into it, Move hands
// the pointer over, and Delete releases the pointee and clears the slot.
// inner may be nil for plain data pointees.
func Pointer[T any](inner *ElementOps[T]) *ElementOps[*T] {
	return &ElementOps[*T]{
		Copy: func(dst, src **T) {
			if *src == nil {
				*dst = nil
				return
			}
			elm := new(T)
			inner.CopyInto(elm, *src)
			*dst = elm
		},
		Move: func(dst **T, src ***T) {
			*dst = **src
			*src = nil
		},
		Delete: func(elm **T) {
			if *elm == nil {
				return
			}
			inner.Release(*elm)
			*elm = nil
		},
	}
}
