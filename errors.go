package vessel

import (
	"errors"

	"github.com/hupe1980/vessel/internal/check"
	"github.com/hupe1980/vessel/vector"
)

var (
	// ErrEmpty is matched by every "container is empty" error returned by
	// Pop, Dequeue, Peek, Front and Back across the packages.
	ErrEmpty = vector.ErrEmpty

	// ErrFull is matched when the memory budget refuses an allocation that
	// is reported as an error rather than a violation.
	ErrFull = vector.ErrFull
)

// ContractViolation is the panic value raised when a caller breaks an API
// contract. It records the caller's location.
type ContractViolation = check.Violation

// AsViolation recovers the violation from a value returned by recover().
// It returns nil when r is not a contract violation.
func AsViolation(r any) *ContractViolation {
	err, ok := r.(error)
	if !ok {
		return nil
	}
	var v *ContractViolation
	if errors.As(err, &v) {
		return v
	}
	return nil
}

// Guard runs fn and converts a contract violation panic into an error.
// Any other panic is re-raised.
func Guard(fn func()) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if v := AsViolation(r); v != nil {
			err = v
			return
		}
		panic(r)
	}()
	fn()
	return nil
}
