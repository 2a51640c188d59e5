// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jform

import (
	"fmt"
	"math"
	"strconv"

	"github.com/creachadair/jform/tree"
)

// An Encoder drives a codec over a token sink. The exported methods emit a
// single complete value at the current position of the stream; structured
// layouts are managed by the codecs in this package. A custom codec built
// with [ScalarOf] uses these methods to write its representation, and may
// emit structured data by building a [tree.Value] and calling Tree.
//
// An Encoder is single-use and not safe for concurrent use.
type Encoder struct {
	w Writer
	o Options

	path []pathStep

	// A polymorphic wrapper leaves its variant tag pending here, and the
	// next object opened claims it as its first member.
	tag    string
	tagSet bool
}

func newEncoder(w Writer, o Options) *Encoder { return &Encoder{w: w, o: o} }

func (e *Encoder) pushKey(key string) { e.path = append(e.path, pathStep{key: key, isKey: true}) }
func (e *Encoder) pushIndex(i int)    { e.path = append(e.path, pathStep{idx: i}) }
func (e *Encoder) pop()               { e.path = e.path[:len(e.path)-1] }

// failf reports an encoding error at the current position wrapping the
// given sentinel.
func (e *Encoder) failf(sent error, msg string, args ...any) error {
	return &EncodeError{Path: renderPath(e.path), Message: fmt.Sprintf(msg, args...), Err: sent}
}

// Errorf reports a custom encoding failure at the current position. The
// error wraps [ErrBadShape] and carries the structural path.
func (e *Encoder) Errorf(msg string, args ...any) error {
	return e.failf(ErrBadShape, msg, args...)
}

// noTag reports an error if a variant tag is pending, meaning a polymorphic
// wrapper selected a payload that does not encode as an object.
func (e *Encoder) noTag(what string) error {
	if e.tagSet {
		tag := e.tag
		e.tag, e.tagSet = "", false
		return e.failf(ErrBadShape, "cannot attach tag %q to %s", tag, what)
	}
	return nil
}

// String emits a string value.
func (e *Encoder) String(s string) error {
	if err := e.noTag("a string"); err != nil {
		return err
	}
	return e.w.String(s)
}

// Bool emits a Boolean value.
func (e *Encoder) Bool(b bool) error {
	if err := e.noTag("a Boolean"); err != nil {
		return err
	}
	return e.w.Bool(b)
}

// Null emits a null.
func (e *Encoder) Null() error {
	if err := e.noTag("a null"); err != nil {
		return err
	}
	return e.w.Null()
}

// Int64 emits an integer value.
func (e *Encoder) Int64(z int64) error {
	if err := e.noTag("a number"); err != nil {
		return err
	}
	return e.w.Number(strconv.FormatInt(z, 10))
}

// Float64 emits a floating-point value. NaN and the infinities have no JSON
// representation and report an error wrapping [ErrBadNumber].
func (e *Encoder) Float64(f float64) error {
	if err := e.noTag("a number"); err != nil {
		return err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return e.failf(ErrBadNumber, "float %v has no JSON representation", f)
	}
	return e.w.Number(strconv.FormatFloat(f, 'g', -1, 64))
}

// Number emits a number from its literal text. The text must be a valid
// JSON number literal; otherwise Number reports an error wrapping
// [ErrBadNumber].
func (e *Encoder) Number(lit string) error {
	if err := e.noTag("a number"); err != nil {
		return err
	}
	if !isNumberText(lit) {
		return e.failf(ErrBadNumber, "invalid number literal %q", lit)
	}
	return e.w.Number(lit)
}

// Tree emits an arbitrary tree value at the current position.
func (e *Encoder) Tree(v tree.Value) error { return emitTree(e, v) }

// beginObject opens an object, attaching a pending variant tag as its first
// member.
func (e *Encoder) beginObject() error {
	if err := e.w.BeginObject(); err != nil {
		return err
	}
	if e.tagSet {
		tag := e.tag
		e.tag, e.tagSet = "", false
		if err := e.w.Key(e.o.discriminator()); err != nil {
			return err
		}
		if err := e.w.String(tag); err != nil {
			return err
		}
	}
	return nil
}

// beginArray opens an array. A pending variant tag is an error here: array
// layouts cannot carry a discriminator member.
func (e *Encoder) beginArray() error {
	if err := e.noTag("an array"); err != nil {
		return err
	}
	return e.w.BeginArray()
}

// isNumberText reports whether s is a valid JSON number literal.
func isNumberText(s string) bool {
	digit := func(i int) bool { return i < len(s) && '0' <= s[i] && s[i] <= '9' }
	i, n := 0, len(s)
	if i < n && s[i] == '-' {
		i++
	}
	switch {
	case i < n && s[i] == '0':
		i++
	case digit(i):
		for digit(i) {
			i++
		}
	default:
		return false
	}
	if i < n && s[i] == '.' {
		i++
		if !digit(i) {
			return false
		}
		for digit(i) {
			i++
		}
	}
	if i < n && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < n && (s[i] == '+' || s[i] == '-') {
			i++
		}
		if !digit(i) {
			return false
		}
		for digit(i) {
			i++
		}
	}
	return i == n
}
