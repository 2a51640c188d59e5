// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jform

// A Kind classifies the JSON value at a reader's cursor.
type Kind byte

// Constants defining the valid Kind values.
const (
	KindInvalid Kind = iota // no value available
	KindNull                // the null value
	KindBool                // true or false
	KindNumber              // a number
	KindString              // a string
	KindObject              // an object
	KindArray               // an array
)

var kindStr = [...]string{
	KindInvalid: "invalid",
	KindNull:    "null",
	KindBool:    "bool",
	KindNumber:  "number",
	KindString:  "string",
	KindObject:  "object",
	KindArray:   "array",
}

func (k Kind) String() string {
	if int(k) >= len(kindStr) {
		return kindStr[KindInvalid]
	}
	return kindStr[k]
}

// A Writer is a sink for a stream of JSON structure tokens. The encoder
// drives a Writer through one complete value: containers are bracketed by
// Begin and End calls, each member of an object is a Key call followed by
// the calls for its value, and array items are delimited implicitly by
// order. The same token sequence describes the value no matter how the sink
// materializes it.
//
// Implementations in this package render JSON text and build [tree.Value]
// structures. A Writer is not safe for concurrent use.
type Writer interface {
	// BeginObject begins a new object.
	BeginObject() error

	// Key begins a new member of the open object with the given name.
	Key(name string) error

	// EndObject ends the innermost open object.
	EndObject() error

	// BeginArray begins a new array.
	BeginArray() error

	// EndArray ends the innermost open array.
	EndArray() error

	// String emits a string value.
	String(s string) error

	// Number emits a number whose literal text is lit. The text must be a
	// valid JSON number literal.
	Number(lit string) error

	// Bool emits a Boolean value.
	Bool(b bool) error

	// Null emits a null value.
	Null() error
}

// A Reader is a source of a stream of JSON structure tokens. The decoder
// drives a Reader through one complete value: the caller opens a container
// with BeginObject or BeginArray, iterates its contents with NextKey or
// More, and the container is closed when iteration reports false. The value
// of each object member must be consumed (or skipped) after its key is
// read, before the next call to NextKey.
//
// Implementations in this package read JSON text and walk [tree.Value]
// structures. A Reader is not safe for concurrent use.
type Reader interface {
	// Peek reports the kind of the value at the cursor without consuming it.
	Peek() (Kind, error)

	// BeginObject consumes the opening of an object.
	BeginObject() error

	// NextKey consumes and returns the key of the next member of the open
	// object. At the end of the object it consumes the closing token and
	// reports false.
	NextKey() (string, bool, error)

	// BeginArray consumes the opening of an array.
	BeginArray() error

	// More reports whether another item remains in the open array, leaving
	// the cursor at the item. At the end of the array it consumes the
	// closing token and reports false.
	More() (bool, error)

	// String consumes a string value and returns its decoded content.
	String() (string, error)

	// Number consumes a number value and returns its literal text.
	Number() (string, error)

	// Bool consumes a Boolean value.
	Bool() (bool, error)

	// Null consumes a null value.
	Null() error

	// Skip consumes the whole value at the cursor, including any nested
	// structure.
	Skip() error

	// AtEnd reports whether the input is exhausted. It is valid only outside
	// any open container.
	AtEnd() (bool, error)
}
