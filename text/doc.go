// Package text provides String, a mutable byte string built on
// vector.Vector[byte], and the ops that let containers own it.
//
// A String is the canonical resource-owning element: storing one in a
// container by plain assignment would alias its buffer, so containers are
// given Ops (by value) or PtrOps (by pointer):
//
//	names := vector.New(0, text.Ops)
//	s := text.From("alice")
//	names.Push(s) // deep copy
//	s.Release()
//
//	index := hashtable.NewMap[text.String, int](text.Ops, nil,
//		hashtable.WithHash(text.Hash),
//		hashtable.WithCompare(text.Compare),
//	)
package text
