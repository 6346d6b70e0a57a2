package jsonval

import (
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
)

// ErrUnsupported is returned when decoded data holds a type that has no
// JSON Value representation.
var ErrUnsupported = errors.New("jsonval: unsupported type")

// Decode parses JSON text into a Value tree. The caller owns the result and
// frees it with Release.
func Decode(data []byte) (Value, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Value{}, fmt.Errorf("jsonval: decode: %w", err)
	}
	return FromAny(raw)
}

// FromAny converts the output of a generic JSON decoder (nil, bool,
// float64, json.Number, string, []any, map[string]any) into a Value tree.
func FromAny(raw any) (Value, error) {
	switch x := raw.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(x), nil
	case float64:
		return Number(x), nil
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("jsonval: number %q: %w", x, err)
		}
		return Number(f), nil
	case string:
		return String(x), nil
	case []any:
		arr := NewArray()
		arr.arr.Reserve(len(x))
		for _, item := range x {
			child, err := FromAny(item)
			if err != nil {
				arr.Release()
				return Value{}, err
			}
			ref := &child
			arr.AppendMove(&ref)
		}
		return arr, nil
	case map[string]any:
		obj := NewObject()
		for k, item := range x {
			child, err := FromAny(item)
			if err != nil {
				obj.Release()
				return Value{}, err
			}
			ref := &child
			obj.SetMove(k, &ref)
		}
		return obj, nil
	default:
		return Value{}, fmt.Errorf("%w: %T", ErrUnsupported, raw)
	}
}

// ToAny converts v into plain Go values accepted by any JSON encoder.
func (v *Value) ToAny() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.num
	case KindString:
		return v.str.String()
	case KindArray:
		out := make([]any, 0, v.arr.Len())
		for _, elem := range v.arr.All() {
			out = append(out, elem.ToAny())
		}
		return out
	case KindObject:
		out := make(map[string]any, v.obj.Len())
		for k, member := range v.obj.All() {
			out[k.String()] = member.ToAny()
		}
		return out
	default:
		return nil
	}
}

// MarshalJSON implements json.Marshaler for Value and *Value, so a tree
// marshals the same whether it is passed by value, by pointer or as a
// struct field. Object members are written in key order.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.ToAny())
}

// UnmarshalJSON implements json.Unmarshaler. The previous content of v is
// released.
func (v *Value) UnmarshalJSON(data []byte) error {
	decoded, err := Decode(data)
	if err != nil {
		return err
	}
	v.Release()
	*v = decoded
	return nil
}

// Format returns the indented JSON text of v.
func (v *Value) Format(indent string) ([]byte, error) {
	return json.MarshalIndent(v.ToAny(), "", indent)
}
