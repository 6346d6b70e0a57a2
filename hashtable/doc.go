// Package hashtable implements an open-addressing hash table with linear
// probing, in map (Map) and set (Set) flavours.
//
// # Layout
//
// The bucket array holds entries that point at separately allocated key and
// value cells. Deleted entries become tombstones, which keep probe chains
// intact until the next rebuild.
//
// # Capacity Policy
//
// Capacities follow a table of primes starting at 17 (MinCapacity). After
// every insert and delete:
//
//   - load > 0.70 grows to the next prime,
//   - load < 0.20 shrinks to the previous prime, never below 17,
//   - live entries plus tombstones above 0.70 rebuild at the same capacity.
//
// A rebuild relocates entry pointers; no key or value op runs, so value
// pointers from GetRef survive it.
//
// # Moves
//
// A moved key or value for a new entry is adopted as is: the caller's heap
// cell becomes the table's cell and no Move callback runs. Moving a value
// onto a key that is already present transplants it into the existing cell
// through the value ops' Move, so GetRef pointers stay valid. A Move
// callback must therefore not be relied on to observe every move.
//
// # Hashing
//
// FNV1a and BytesCompare are the defaults and treat keys as raw bytes
// (strings and byte slices as their contents). Key types that own memory
// supply their own pair with WithHash and WithCompare:
//
//	m := hashtable.NewMap[text.String, int](text.Ops, nil,
//		hashtable.WithHash(text.Hash),
//		hashtable.WithCompare(text.Compare),
//	)
package hashtable
