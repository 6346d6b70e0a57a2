package check

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// Violation describes a broken caller contract.
type Violation struct {
	File     string
	Line     int
	Function string
	Message  string
	cause    error
}

func (v *Violation) Error() string {
	return fmt.Sprintf("contract violation: %s:%d:%s(): %s", v.File, v.Line, v.Function, v.Message)
}

// Unwrap returns the underlying error, if any.
func (v *Violation) Unwrap() error { return v.cause }

// That panics with a *Violation when cond is false.
// The reported location is the caller of the exported API, two frames up.
func That(cond bool, format string, args ...any) {
	if cond {
		return
	}
	panic(newViolation(3, nil, format, args...))
}

// NotNil panics when ptr is nil. what names the argument in the message.
func NotNil[T any](ptr *T, what string) {
	if ptr != nil {
		return
	}
	panic(newViolation(3, nil, "%s is nil", what))
}

// Index panics unless 0 <= i < n.
func Index(i, n int) {
	if i >= 0 && i < n {
		return
	}
	panic(newViolation(3, nil, "index %d out of bounds [0, %d)", i, n))
}

// Fail panics with a *Violation wrapping err.
func Fail(err error, format string, args ...any) {
	panic(newViolation(3, err, format, args...))
}

func newViolation(skip int, cause error, format string, args ...any) *Violation {
	v := &Violation{
		Message: fmt.Sprintf(format, args...),
		cause:   cause,
	}
	if cause != nil {
		v.Message += ": " + cause.Error()
	}

	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return v
	}
	v.File = filepath.Base(file)
	v.Line = line
	if fn := runtime.FuncForPC(pc); fn != nil {
		name := fn.Name()
		if i := strings.LastIndexByte(name, '/'); i >= 0 {
			name = name[i+1:]
		}
		v.Function = name
	}
	return v
}
