package jsonval

import (
	"strconv"
	"strings"

	"github.com/hupe1980/vessel/hashtable"
	"github.com/hupe1980/vessel/internal/check"
	"github.com/hupe1980/vessel/ops"
	"github.com/hupe1980/vessel/text"
	"github.com/hupe1980/vessel/vector"
)

// Kind is the JSON type of a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Array is the container behind an array Value.
type Array = vector.Vector[Value]

// Object is the container behind an object Value.
type Object = hashtable.Map[text.String, Value]

// Value is a JSON document node. Arrays and objects own their children
// through Ops, so Clone copies a whole subtree and Release frees it.
//
// The zero value is null.
type Value struct {
	kind Kind
	b    bool
	num  float64
	str  text.String
	arr  *Array
	obj  *Object
}

// objectOps frees a whole object table, buckets included.
var objectOps = hashtable.MapOps[text.String, Value]()

// Ops stores Values in containers. Copy is a deep copy of the subtree and
// Delete releases it.
var Ops *ops.ElementOps[Value]

func init() {
	Ops = ops.Of[Value]()
}

// Null returns a null Value.
func Null() Value { return Value{} }

// Bool returns a boolean Value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number returns a numeric Value.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// String returns a string Value holding a copy of s.
func String(s string) Value { return Value{kind: KindString, str: text.From(s)} }

// NewArray returns an empty array Value.
func NewArray() Value {
	return Value{kind: KindArray, arr: vector.New(0, Ops)}
}

// NewObject returns an empty object Value.
func NewObject() Value {
	return Value{kind: KindObject, obj: newObject()}
}

func newObject() *Object {
	return hashtable.NewMap(text.Ops, Ops,
		hashtable.WithHash(text.Hash),
		hashtable.WithCompare(text.Compare),
	)
}

// Kind returns the JSON type of v.
func (v *Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v *Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean and whether v is a bool.
func (v *Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsNumber returns the number and whether v is a number.
func (v *Value) AsNumber() (float64, bool) { return v.num, v.kind == KindNumber }

// AsString returns a copy of the text and whether v is a string.
func (v *Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str.String(), true
}

// Text returns the borrowed text of a string Value, or nil.
func (v *Value) Text() *text.String {
	if v.kind != KindString {
		return nil
	}
	return &v.str
}

// Array returns the borrowed elements of an array Value, or nil.
func (v *Value) Array() *Array { return v.arr }

// Object returns the borrowed members of an object Value, or nil.
func (v *Value) Object() *Object { return v.obj }

// Len returns the number of elements or members, or the byte length of a
// string. It is 0 for every other kind.
func (v *Value) Len() int {
	switch v.kind {
	case KindArray:
		return v.arr.Len()
	case KindObject:
		return v.obj.Len()
	case KindString:
		return v.str.Len()
	default:
		return 0
	}
}

// Append appends a deep copy of elem to an array Value.
func (v *Value) Append(elem Value) {
	v.mustBe(KindArray)
	v.arr.Push(elem)
}

// AppendMove appends **elem to an array Value and sets *elem to nil.
func (v *Value) AppendMove(elem **Value) {
	v.mustBe(KindArray)
	v.arr.PushMove(elem)
}

// Set stores a deep copy of member under key in an object Value,
// releasing any previous member.
func (v *Value) Set(key string, member Value) {
	v.mustBe(KindObject)
	k := refOf(text.From(key))
	v.obj.PutMoveKey(&k, member)
}

// SetMove stores **member under key in an object Value and sets *member to nil.
func (v *Value) SetMove(key string, member **Value) {
	v.mustBe(KindObject)
	k := refOf(text.From(key))
	v.obj.PutMove(&k, member)
}

// Index returns the borrowed i-th element of an array Value, or nil when v
// is not an array or i is out of range.
func (v *Value) Index(i int) *Value {
	if v.kind != KindArray || i < 0 || i >= v.arr.Len() {
		return nil
	}
	return v.arr.At(i)
}

// Field returns the borrowed member stored under key, or nil.
func (v *Value) Field(key string) *Value {
	if v.kind != KindObject {
		return nil
	}
	return v.obj.GetRef(text.From(key))
}

// Delete removes the member stored under key and reports whether it existed.
func (v *Value) Delete(key string) bool {
	if v.kind != KindObject {
		return false
	}
	return v.obj.Delete(text.From(key))
}

// Lookup follows a dotted path such as "dependencies.0.name". Object
// segments select members, array segments are decimal indices, and empty
// segments are skipped. It returns nil when any step is missing.
func (v *Value) Lookup(path string) *Value {
	cur := v
	for seg := range strings.SplitSeq(path, ".") {
		if seg == "" {
			continue
		}
		switch cur.kind {
		case KindObject:
			cur = cur.Field(seg)
		case KindArray:
			i, err := strconv.Atoi(seg)
			if err != nil {
				return nil
			}
			cur = cur.Index(i)
		default:
			return nil
		}
		if cur == nil {
			return nil
		}
	}
	return cur
}

// CloneInto deep-copies v into the uninitialised dst.
func (v *Value) CloneInto(dst *Value) {
	*dst = Value{kind: v.kind, b: v.b, num: v.num}
	switch v.kind {
	case KindString:
		v.str.CloneInto(&dst.str)
	case KindArray:
		dst.arr = v.arr.Clone()
	case KindObject:
		dst.obj = v.obj.Clone()
	}
}

// Clone returns a deep copy of v.
func (v *Value) Clone() Value {
	var out Value
	v.CloneInto(&out)
	return out
}

// Release frees the whole subtree and leaves v null.
func (v *Value) Release() {
	switch v.kind {
	case KindString:
		v.str.Release()
	case KindArray:
		v.arr.Reset()
	case KindObject:
		objectOps.Release(v.obj)
	}
	*v = Value{}
}

func (v *Value) mustBe(k Kind) {
	check.NotNil(v, "value")
	check.That(v.kind == k, "value is %s, not %s", v.kind, k)
}

func refOf[T any](v T) *T { return &v }
