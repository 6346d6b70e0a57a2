// Package stack provides a LIFO stack on top of vector.Vector.
package stack

import (
	"fmt"

	"github.com/hupe1980/vessel/internal/check"
	"github.com/hupe1980/vessel/ops"
	"github.com/hupe1980/vessel/vector"
)

// ErrEmpty is returned when popping or peeking an empty stack.
var ErrEmpty = fmt.Errorf("stack: %w", vector.ErrEmpty)

// Stack is a last-in first-out stack of T.
type Stack[T any] struct {
	v *vector.Vector[T]
}

// New returns an empty stack with room for capacity elements.
func New[T any](capacity int, elemOps *ops.ElementOps[T], opts ...vector.Option) *Stack[T] {
	return &Stack[T]{v: vector.New(capacity, elemOps, opts...)}
}

func (s *Stack[T]) vec() *vector.Vector[T] {
	check.NotNil(s, "stack")
	check.That(s.v != nil, "stack is not initialized")
	return s.v
}

// Push pushes a copy of val.
func (s *Stack[T]) Push(val T) { s.vec().Push(val) }

// PushMove pushes **ref and sets *ref to nil.
func (s *Stack[T]) PushMove(ref **T) { s.vec().PushMove(ref) }

// Pop removes the top element and returns a copy of it.
func (s *Stack[T]) Pop() (T, error) {
	val, err := s.vec().Pop()
	if err != nil {
		return val, ErrEmpty
	}
	return val, nil
}

// Peek returns a copy of the top element.
func (s *Stack[T]) Peek() (T, error) {
	v := s.vec()
	if v.Empty() {
		var zero T
		return zero, ErrEmpty
	}
	return v.Get(v.Len() - 1), nil
}

// PeekRef returns a borrowed pointer to the top element.
func (s *Stack[T]) PeekRef() (*T, error) {
	top, err := s.vec().Back()
	if err != nil {
		return nil, ErrEmpty
	}
	return top, nil
}

// Len returns the number of elements.
func (s *Stack[T]) Len() int { return s.vec().Len() }

// Empty reports whether the stack holds no elements.
func (s *Stack[T]) Empty() bool { return s.vec().Empty() }

// Clear releases every element and keeps the buffer.
func (s *Stack[T]) Clear() { s.vec().Clear() }

// Reset releases every element and the buffer.
func (s *Stack[T]) Reset() { s.vec().Reset() }
