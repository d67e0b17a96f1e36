// Package kb models the decoded knowledge base as a generic tagged tree.
//
// The knowledge base is published as a JSON array whose first element is an
// integer version and whose remaining elements are positional effect
// definitions. Consumers only need index-based, type-checked access, so the
// tree is kept independent of any particular decoder: [DecodeJSON] and
// [DecodeYAML] both produce the same [Value].
package kb

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Kind identifies the dynamic type held by a Value.
type Kind uint8

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is an immutable node of the knowledge-base tree.
// The zero Value is Null.
type Value struct {
	kind Kind
	b    bool
	num  float64
	str  string
	arr  []Value
	obj  map[string]Value
}

// Str returns a String value.
func Str(s string) Value { return Value{kind: String, str: s} }

// Num returns a Number value.
func Num(f float64) Value { return Value{kind: Number, num: f} }

// Int returns a Number value holding n.
func Int(n int) Value { return Value{kind: Number, num: float64(n)} }

// Boolean returns a Bool value.
func Boolean(b bool) Value { return Value{kind: Bool, b: b} }

// Arr returns an Array value holding items in order.
func Arr(items ...Value) Value {
	return Value{kind: Array, arr: append([]Value(nil), items...)}
}

// Obj returns an Object value. The map is copied.
func Obj(fields map[string]Value) Value {
	m := make(map[string]Value, len(fields))
	for k, v := range fields {
		m[k] = v
	}
	return Value{kind: Object, obj: m}
}

// Kind reports the dynamic type of v.
func (v Value) Kind() Kind { return v.kind }

// IsArray reports whether v is an Array.
func (v Value) IsArray() bool { return v.kind == Array }

// Len returns the number of elements of an Array or fields of an Object,
// and 0 for every other kind.
func (v Value) Len() int {
	switch v.kind {
	case Array:
		return len(v.arr)
	case Object:
		return len(v.obj)
	}
	return 0
}

// Index returns element i of an Array. Out-of-range indexes and non-array
// values yield Null.
func (v Value) Index(i int) Value {
	if v.kind != Array || i < 0 || i >= len(v.arr) {
		return Value{}
	}
	return v.arr[i]
}

// Field returns the named field of an Object, or Null.
func (v Value) Field(name string) Value {
	if v.kind != Object {
		return Value{}
	}
	return v.obj[name]
}

// Keys returns the sorted field names of an Object.
func (v Value) Keys() []string {
	if v.kind != Object {
		return nil
	}
	keys := make([]string, 0, len(v.obj))
	for k := range v.obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// AsString returns the text of a String value and "" for any other kind.
func (v Value) AsString() string {
	if v.kind != String {
		return ""
	}
	return v.str
}

// AsInt returns the integer part of a Number value. Numeric strings are
// accepted as well; anything else yields 0.
func (v Value) AsInt() int {
	switch v.kind {
	case Number:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return 0
		}
		return int(v.num)
	case String:
		n, err := strconv.Atoi(strings.TrimSpace(v.str))
		if err != nil {
			return 0
		}
		return n
	}
	return 0
}

// AsFloat returns the value of a Number and 0 otherwise.
func (v Value) AsFloat() float64 {
	if v.kind != Number {
		return 0
	}
	return v.num
}

// AsBool returns the value of a Bool and false otherwise.
func (v Value) AsBool() bool {
	return v.kind == Bool && v.b
}

// String renders v in a compact JSON-like form for logs and test output.
func (v Value) String() string {
	var sb strings.Builder
	v.write(&sb)
	return sb.String()
}

func (v Value) write(sb *strings.Builder) {
	switch v.kind {
	case Null:
		sb.WriteString("null")
	case Bool:
		sb.WriteString(strconv.FormatBool(v.b))
	case Number:
		sb.WriteString(strconv.FormatFloat(v.num, 'g', -1, 64))
	case String:
		sb.WriteString(strconv.Quote(v.str))
	case Array:
		sb.WriteByte('[')
		for i, e := range v.arr {
			if i > 0 {
				sb.WriteByte(',')
			}
			e.write(sb)
		}
		sb.WriteByte(']')
	case Object:
		sb.WriteByte('{')
		for i, k := range v.Keys() {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(strconv.Quote(k))
			sb.WriteByte(':')
			v.obj[k].write(sb)
		}
		sb.WriteByte('}')
	}
}
