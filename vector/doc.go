// Package vector implements Vector, a growable contiguous array whose elements
// are managed through an ops.ElementOps contract.
//
// A Vector deep-copies on Push, transfers ownership on PushMove, and releases
// every element it drops, so a vector of vectors (or of any resource-owning
// type) never needs manual cleanup:
//
//	rows := vector.New(0, vector.ElementOps[int]())
//	row := vector.New[int](4, nil)
//	row.Push(1)
//	rows.PushMove(&row) // row is nil now
//	rows.Reset()        // releases every row
//
// # Capacity Policy
//
//   - Growth: capacities below 4 grow by one, larger ones by the growth
//     factor (1.5), always by at least one.
//   - Shrink: after Pop/Remove, once size <= capacity*0.25 the buffer is
//     halved, never below max(size, 4). A refused shrink keeps the buffer.
//
// # Borrowed References
//
// At, Front, Back and All hand out pointers into the buffer. They are
// invalidated by any operation that may reallocate.
//
// # Errors
//
// Expected conditions return ErrEmpty or ErrFull. Contract violations
// (nil receivers, out-of-range indices, refused required growth) panic with
// a *check.Violation.
package vector
