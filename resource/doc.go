// Package resource implements an optional memory budget shared by containers.
//
// Containers charge the bytes of every buffer they allocate against a
// Controller and refund them when the buffer is dropped. Acquisition is
// non-blocking and fail-fast:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 64 << 20,
//	})
//
//	v := vector.New[int](vector.WithResourceController(rc))
//
// A refused growth is a contract violation (the allocation was required);
// a refused shrink is soft and the container keeps its current buffer.
//
// # Thread Safety
//
// All Controller methods are safe for concurrent use, so one budget may be
// shared by containers owned by different goroutines.
//
// # Nil Safety
//
// All methods handle a nil Controller gracefully - they become no-ops.
// This allows optional budgeting without nil checks everywhere.
package resource
