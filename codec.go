// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jform

import (
	"math"
	"strconv"

	"github.com/creachadair/jform/tree"
)

// A Codec translates values of type T to and from their JSON structure.
// Codecs are immutable once constructed and safe for concurrent use by any
// number of encoders and decoders, including under different formats.
//
// The interface is closed: every codec is built from the constructors in
// this package, which fix the structural shape of its encoded form at
// construction. Use [ScalarOf] to adapt a custom single-value
// representation, and [tree.Value] with the [Tree] codec for free-form
// data.
type Codec[T any] interface {
	// Encode writes v to the encoder at its current position.
	Encode(e *Encoder, v T) error

	// Decode reads a value of type T from the decoder at its current
	// position.
	Decode(d *Decoder) (T, error)

	// shape reports the structural shape of the encoded form.
	shape() shape
}

// keyCaps equips a scalar codec to render its values as object keys.
// Formatting may fail, for example a non-finite float; parsing fails on key
// text the codec does not recognize.
type keyCaps[T any] struct {
	format func(T) (string, error)
	parse  func(string) (T, error)
}

// scalarCodec is the concrete type of the built-in scalar codecs and of
// codecs built by ScalarOf.
type scalarCodec[T any] struct {
	enc func(*Encoder, T) error
	dec func(*Decoder) (T, error)
	key *keyCaps[T] // non-nil when values of T can serve as object keys
}

func (c scalarCodec[T]) Encode(e *Encoder, v T) error { return c.enc(e, v) }
func (c scalarCodec[T]) Decode(d *Decoder) (T, error) { return c.dec(d) }
func (c scalarCodec[T]) shape() shape                 { return shapeScalar }

// ScalarOf constructs a codec for a custom single-value representation from
// an encoding and a decoding function. The resulting codec has scalar
// shape: maps keyed by its type require structured map keys regardless of
// what the functions emit.
func ScalarOf[T any](enc func(*Encoder, T) error, dec func(*Decoder) (T, error)) Codec[T] {
	if enc == nil || dec == nil {
		panic("nil codec function")
	}
	return scalarCodec[T]{enc: enc, dec: dec}
}

// Bool is a codec for bool values as JSON Booleans.
var Bool Codec[bool] = scalarCodec[bool]{
	enc: func(e *Encoder, v bool) error { return e.Bool(v) },
	dec: func(d *Decoder) (bool, error) { return d.Bool() },
	key: &keyCaps[bool]{
		format: func(v bool) (string, error) { return strconv.FormatBool(v), nil },
		parse: func(s string) (bool, error) {
			switch s {
			case "true":
				return true, nil
			case "false":
				return false, nil
			}
			return false, strconv.ErrSyntax
		},
	},
}

// Int is a codec for int values as JSON numbers.
var Int Codec[int] = scalarCodec[int]{
	enc: func(e *Encoder, v int) error { return e.Int64(int64(v)) },
	dec: func(d *Decoder) (int, error) {
		z, err := d.Int64()
		if err != nil {
			return 0, err
		}
		if int64(int(z)) != z {
			return 0, d.failf(ErrBadValue, "integer %d out of range", z)
		}
		return int(z), nil
	},
	key: &keyCaps[int]{
		format: func(v int) (string, error) { return strconv.Itoa(v), nil },
		parse:  strconv.Atoi,
	},
}

// Int64 is a codec for int64 values as JSON numbers.
var Int64 Codec[int64] = scalarCodec[int64]{
	enc: func(e *Encoder, v int64) error { return e.Int64(v) },
	dec: func(d *Decoder) (int64, error) { return d.Int64() },
	key: &keyCaps[int64]{
		format: func(v int64) (string, error) { return strconv.FormatInt(v, 10), nil },
		parse:  func(s string) (int64, error) { return strconv.ParseInt(s, 10, 64) },
	},
}

// Float64 is a codec for float64 values as JSON numbers. Values without a
// JSON representation (NaN and the infinities) report errors.
var Float64 Codec[float64] = scalarCodec[float64]{
	enc: func(e *Encoder, v float64) error { return e.Float64(v) },
	dec: func(d *Decoder) (float64, error) { return d.Float64() },
	key: &keyCaps[float64]{
		format: func(v float64) (string, error) {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return "", strconv.ErrSyntax
			}
			return strconv.FormatFloat(v, 'g', -1, 64), nil
		},
		parse: func(s string) (float64, error) { return strconv.ParseFloat(s, 64) },
	},
}

// String is a codec for string values as JSON strings.
var String Codec[string] = scalarCodec[string]{
	enc: func(e *Encoder, v string) error { return e.String(v) },
	dec: func(d *Decoder) (string, error) { return d.String() },
	key: &keyCaps[string]{
		format: func(s string) (string, error) { return s, nil },
		parse:  func(s string) (string, error) { return s, nil },
	},
}

// Tree is a codec for arbitrary tree values. Its encoded form is whatever
// the value itself describes.
var Tree Codec[tree.Value] = treeCodec{}

// TreeObject is a codec for [tree.Object] values.
var TreeObject Codec[tree.Object] = treeObjectCodec{}

// TreeArray is a codec for [tree.Array] values.
var TreeArray Codec[tree.Array] = treeArrayCodec{}

// TreePrimitive is a codec for [tree.Primitive] values.
var TreePrimitive Codec[tree.Primitive] = treePrimitiveCodec{}

// TreeNull is a codec for [tree.Null] values.
var TreeNull Codec[tree.Null] = treeNullCodec{}
