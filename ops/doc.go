// Package ops defines the element lifecycle contract shared by every container.
//
// An ElementOps value tells a container how to duplicate, transfer and release
// the resources owned by one element. It is attached to a container when the
// container is created and is referenced, never copied or owned, by every
// container of that element type:
//
//	var nameOps = &ops.ElementOps[Name]{
//	    Copy:   func(dst, src *Name) { *dst = Name{parts: slices.Clone(src.parts)} },
//	    Delete: func(elm *Name) { elm.parts = nil },
//	}
//
//	v := vector.New(vector.WithOps(nameOps))
//
// A nil *ElementOps, or any nil field, means plain data: copying is assignment,
// moving is assignment plus nulling the source, and deleting is a no-op.
//
// # Contract
//
//   - Copy(dst, src): dst is uninitialised storage. Deep-duplicate everything
//     src owns into dst. Never read dst first.
//   - Move(dst, src): *src is an owning reference to a separately allocated
//     element. Transplant its fields into dst and set *src to nil.
//   - Delete(elm): release everything elm owns, but not the slot elm occupies.
//
// # Storage Modes
//
// Elements are stored either by value (the slot is a T) or by pointer (the
// slot is a *T whose pointee keeps its address across reallocation). Pointer
// derives by-pointer ops from by-value ops.
package ops
