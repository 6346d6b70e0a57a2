// Package vessel provides generic containers that own their elements.
//
// Every container takes an *ops.ElementOps[T] describing how to copy, move
// and delete one element. Plain data passes nil; resource-owning elements
// (strings, nested containers, handles) pass ops and the container calls
// them exactly once per copy, move and release:
//
//	names := vector.New(0, text.Ops)
//	s := text.From("alice")
//	names.Push(s) // deep copy, caller still owns s
//	s.Release()
//	names.Reset() // releases the stored copy
//
// # Packages
//
//   - ops: the element contract and helpers for building it
//   - vector: growable array with amortised growth and automatic shrinking
//   - hashtable: open-addressing Map and Set with prime capacities
//   - text: mutable byte string, the canonical owning element
//   - stack, queue: LIFO, FIFO and priority queues
//   - jsonval: JSON document tree built from the containers above
//   - resource: shared memory budget for container buffers
//   - metric: capacity event observer, with a Prometheus exporter
//
// # Errors
//
// Expected conditions return errors: popping an empty container yields an
// error matching ErrEmpty, and a refused TryReserve yields ErrFull. Broken
// caller contracts (out-of-range indices, nil receivers, mismatched hash
// functions) panic with a *ContractViolation naming the calling file, line
// and function.
//
// # Observability
//
// Containers log through log/slog and report capacity changes to a
// metric.Observer. Logger and BasicMetricsCollector in this package are
// ready-made observers; metric/prometheus exports the same events.
package vessel
