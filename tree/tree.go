// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Package tree defines an immutable in-memory representation of JSON values.
//
// A JSON value is represented by one of four concrete types, all satisfying
// the [Value] interface:
//
//	Null       the JSON null
//	Primitive  a string, number, or Boolean literal
//	Object     an ordered collection of key/value members with unique keys
//	Array      an ordered sequence of values
//
// The family is closed: no types outside this package implement Value.
// Values are immutable once constructed and are safe for concurrent use
// without locking. Each value renders itself as compact JSON text via its
// JSON method.
//
// A Primitive records the literal text of its value together with a flag
// reporting whether the value was a quoted string. The text is not validated
// or converted at construction; use the Int64, Float64, and Bool methods to
// coerce the text when a particular interpretation is needed.
package tree

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/creachadair/jform/internal/escape"
	"go4.org/mem"
)

// Value is the interface satisfied by all JSON values in this package.
type Value interface {
	// JSON returns a compact JSON representation of the value.
	JSON() string

	// String returns a text representation of the value for debugging.
	String() string

	isValue()
}

// A Null represents the JSON null value.
type Null struct{}

func (Null) isValue() {}

// JSON renders the value as JSON text.
func (Null) JSON() string { return "null" }

func (Null) String() string { return "null" }

// A Primitive is a string, number, or Boolean literal. It records the text
// of the value and whether the value is a quoted string. The zero Primitive
// is an empty unquoted literal; it has no valid JSON form, and the encoder
// reports an error for it.
type Primitive struct {
	text   string
	quoted bool
}

func (Primitive) isValue() {}

// String constructs a Primitive representing the string s.
func String(s string) Primitive { return Primitive{text: s, quoted: true} }

// Int constructs a Primitive representing the integer z.
func Int(z int64) Primitive { return Primitive{text: strconv.FormatInt(z, 10)} }

// Float constructs a Primitive representing the number f.
// It panics if f is NaN or an infinity, which have no JSON representation.
func Float(f float64) Primitive {
	if isBadFloat(f) {
		panic(fmt.Sprintf("float %v has no JSON representation", f))
	}
	return Primitive{text: strconv.FormatFloat(f, 'g', -1, 64)}
}

// Bool constructs a Primitive representing the truth value b.
func Bool(b bool) Primitive { return Primitive{text: strconv.FormatBool(b)} }

// Number constructs a Primitive whose text is the literal lit, presumed but
// not checked to be a valid JSON number. The text is validated when the
// value is encoded or coerced, not at construction.
func Number(lit string) Primitive { return Primitive{text: lit} }

// IsString reports whether p represents a quoted string.
func (p Primitive) IsString() bool { return p.quoted }

// Text returns the text of the value. For a quoted string this is the
// decoded content without quotation marks; otherwise it is the literal text.
func (p Primitive) Text() string { return p.text }

// Int64 converts the text of p to an int64, or reports an error if the text
// does not represent an integer in that range. The conversion does not
// depend on whether p is quoted.
func (p Primitive) Int64() (int64, error) { return strconv.ParseInt(p.text, 10, 64) }

// Float64 converts the text of p to a float64, or reports an error if the
// text does not represent a finite number.
func (p Primitive) Float64() (float64, error) { return strconv.ParseFloat(p.text, 64) }

// Bool converts the text of p to a bool. Only the exact texts "true" and
// "false" convert; anything else reports an error.
func (p Primitive) Bool() (bool, error) {
	switch p.text {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, fmt.Errorf("text %q is not a Boolean", p.text)
}

// JSON renders the value as JSON text.
func (p Primitive) JSON() string {
	if p.quoted {
		return `"` + string(escape.Quote(mem.S(p.text))) + `"`
	}
	return p.text
}

func (p Primitive) String() string { return p.JSON() }

// A Member is a single key/value pair of an Object. Members are values, not
// references; modifying a Member after construction does not affect any
// Object it was copied from.
type Member struct {
	Key   string
	Value Value
}

// Field constructs a Member with the given key, whose value is constructed
// from v by [ToValue]. It panics if v is not a valid input to ToValue.
func Field(key string, v any) Member { return Member{Key: key, Value: ToValue(v)} }

// An Object is an ordered collection of members whose keys are unique.
// Member order is preserved from construction.
type Object struct {
	members []Member
}

func (Object) isValue() {}

// NewObject constructs an Object from the given members. If multiple members
// share a key, the key keeps the position of its first occurrence and the
// value of its last, and the duplicates are discarded.
func NewObject(members ...Member) Object {
	ms := make([]Member, 0, len(members))
	pos := make(map[string]int, len(members))
	for _, m := range members {
		if i, ok := pos[m.Key]; ok {
			ms[i].Value = m.Value
			continue
		}
		pos[m.Key] = len(ms)
		ms = append(ms, m)
	}
	return Object{members: ms}
}

// Len reports the number of members of o.
func (o Object) Len() int { return len(o.members) }

// Index returns the ith member of o in order. It panics if i is out of range.
func (o Object) Index(i int) Member { return o.members[i] }

// Find reports whether o has a member with the given key, and if so returns
// its value.
func (o Object) Find(key string) (Value, bool) {
	for _, m := range o.members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// Keys returns the keys of o in member order. The result is a fresh slice.
func (o Object) Keys() []string {
	keys := make([]string, len(o.members))
	for i, m := range o.members {
		keys[i] = m.Key
	}
	return keys
}

// JSON renders the value as JSON text.
func (o Object) JSON() string {
	if len(o.members) == 0 {
		return "{}"
	}
	var sb strings.Builder
	sb.WriteByte('{')
	for i, m := range o.members {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(String(m.Key).JSON())
		sb.WriteByte(':')
		sb.WriteString(m.Value.JSON())
	}
	sb.WriteByte('}')
	return sb.String()
}

func (o Object) String() string { return o.JSON() }

// An Array is an ordered sequence of values.
type Array struct {
	items []Value
}

func (Array) isValue() {}

// NewArray constructs an Array with the given items, in order.
func NewArray(items ...Value) Array {
	vs := make([]Value, len(items))
	copy(vs, items)
	return Array{items: vs}
}

// ArrayOf constructs an Array whose items are constructed from vs by
// [ToValue]. It panics if any element is not a valid input to ToValue.
func ArrayOf[T any](vs ...T) Array {
	items := make([]Value, len(vs))
	for i, v := range vs {
		items[i] = ToValue(v)
	}
	return Array{items: items}
}

// Len reports the number of items of a.
func (a Array) Len() int { return len(a.items) }

// Index returns the ith item of a. It panics if i is out of range.
func (a Array) Index(i int) Value { return a.items[i] }

// JSON renders the value as JSON text.
func (a Array) JSON() string {
	if len(a.items) == 0 {
		return "[]"
	}
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range a.items {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(v.JSON())
	}
	sb.WriteByte(']')
	return sb.String()
}

func (a Array) String() string { return a.JSON() }

// ToValue converts a plain Go value of a supported type to a Value. The
// supported types are bool, string, int, int64, float64, nil, and Value.
// ToValue panics if v is any other type, or if v is a float with no JSON
// representation.
func ToValue(v any) Value {
	switch t := v.(type) {
	case nil:
		return Null{}
	case Value:
		return t
	case bool:
		return Bool(t)
	case string:
		return String(t)
	case int:
		return Int(int64(t))
	case int64:
		return Int(t)
	case float64:
		return Float(t)
	}
	panic(fmt.Sprintf("invalid value %T", v))
}

func isBadFloat(f float64) bool { return math.IsNaN(f) || math.IsInf(f, 0) }
