// Package jsonval is a JSON document tree built from the vessel containers.
//
// Arrays are vector.Vector[Value], objects are hashtable.Map keyed by
// text.String, and strings are text.String. Every node owns its children
// through Ops, so the package doubles as an end-to-end exercise of nested
// ownership: Clone copies a whole subtree, Release frees it.
//
//	doc, err := jsonval.Decode(data)
//	if err != nil {
//		return err
//	}
//	defer doc.Release()
//
//	name, _ := doc.Lookup("dependencies.0.name").AsString()
package jsonval
