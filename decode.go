// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jform

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/creachadair/jform/tree"
)

// A Decoder drives a codec over a token source. The exported methods
// consume a single complete value at the current position of the stream;
// structured layouts are managed by the codecs in this package. A custom
// codec built with [ScalarOf] uses these methods to read its
// representation, and may consume structured data by calling Tree.
//
// A Decoder is single-use and not safe for concurrent use.
type Decoder struct {
	r Reader
	o Options

	path []pathStep
}

func newDecoder(r Reader, o Options) *Decoder { return &Decoder{r: r, o: o} }

func (d *Decoder) pushKey(key string) { d.path = append(d.path, pathStep{key: key, isKey: true}) }
func (d *Decoder) pushIndex(i int)    { d.path = append(d.path, pathStep{idx: i}) }
func (d *Decoder) pop()               { d.path = d.path[:len(d.path)-1] }

// failf reports a decoding error at the current position wrapping the given
// sentinel.
func (d *Decoder) failf(sent error, msg string, args ...any) error {
	return &DecodeError{Path: renderPath(d.path), Message: fmt.Sprintf(msg, args...), Err: sent}
}

// Errorf reports a custom decoding failure at the current position. The
// error wraps [ErrBadValue] and carries the structural path.
func (d *Decoder) Errorf(msg string, args ...any) error {
	return d.failf(ErrBadValue, msg, args...)
}

// wrap attaches the current structural path to a decoding error reported by
// the underlying reader. Syntax errors pass through unmodified.
func (d *Decoder) wrap(err error) error {
	var de *DecodeError
	if errors.As(err, &de) && de.Path == "" {
		de.Path = renderPath(d.path)
	}
	return err
}

// Peek reports the kind of the value at the current position without
// consuming anything.
func (d *Decoder) Peek() (Kind, error) {
	k, err := d.r.Peek()
	if err != nil {
		return k, d.wrap(err)
	}
	return k, nil
}

// String decodes a string value.
func (d *Decoder) String() (string, error) {
	s, err := d.r.String()
	if err != nil {
		return "", d.wrap(err)
	}
	return s, nil
}

// Bool decodes a Boolean value.
func (d *Decoder) Bool() (bool, error) {
	b, err := d.r.Bool()
	if err != nil {
		return false, d.wrap(err)
	}
	return b, nil
}

// Null decodes a null value.
func (d *Decoder) Null() error {
	if err := d.r.Null(); err != nil {
		return d.wrap(err)
	}
	return nil
}

// Int64 decodes an integer value. Numbers with fractional or exponent parts
// and numbers outside the int64 range report errors wrapping [ErrBadValue].
func (d *Decoder) Int64() (int64, error) {
	text, err := d.r.Number()
	if err != nil {
		return 0, d.wrap(err)
	}
	z, perr := strconv.ParseInt(text, 10, 64)
	if perr != nil {
		if errors.Is(perr, strconv.ErrRange) {
			return 0, d.failf(ErrBadValue, "integer %s out of range", text)
		}
		return 0, d.failf(ErrBadValue, "invalid integer %q", text)
	}
	return z, nil
}

// Float64 decodes a floating-point value. Numbers outside the float64 range
// report an error wrapping [ErrBadValue].
func (d *Decoder) Float64() (float64, error) {
	text, err := d.r.Number()
	if err != nil {
		return 0, d.wrap(err)
	}
	f, perr := strconv.ParseFloat(text, 64)
	if perr != nil {
		if errors.Is(perr, strconv.ErrRange) {
			return 0, d.failf(ErrBadValue, "number %s out of range", text)
		}
		return 0, d.failf(ErrBadValue, "invalid number %q", text)
	}
	return f, nil
}

// Number decodes a number value and returns its literal text.
func (d *Decoder) Number() (string, error) {
	text, err := d.r.Number()
	if err != nil {
		return "", d.wrap(err)
	}
	return text, nil
}

// Skip consumes and discards the value at the current position.
func (d *Decoder) Skip() error {
	if err := d.r.Skip(); err != nil {
		return d.wrap(err)
	}
	return nil
}

// Tree decodes the value at the current position as a tree value.
func (d *Decoder) Tree() (tree.Value, error) { return readTree(d) }

func (d *Decoder) beginObject() error {
	if err := d.r.BeginObject(); err != nil {
		return d.wrap(err)
	}
	return nil
}

func (d *Decoder) beginArray() error {
	if err := d.r.BeginArray(); err != nil {
		return d.wrap(err)
	}
	return nil
}
