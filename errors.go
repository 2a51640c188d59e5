// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jform

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors used to classify decoding failures. Errors reported by a
// [Decoder] wrap one of these values, and can be matched with [errors.Is].
var (
	// ErrUnknownKey: the input contains an object key the codec does not
	// define, and the format is strict.
	ErrUnknownKey = errors.New("unknown object key")

	// ErrMissingKey: a required key is absent from an input object.
	ErrMissingKey = errors.New("missing required key")

	// ErrBadTag: a polymorphic tag does not match any registered case.
	ErrBadTag = errors.New("unresolved variant tag")

	// ErrBadValue: an input value does not have the form the codec requires.
	ErrBadValue = errors.New("malformed value")

	// ErrTrailingData: input remains after the end of the top-level value.
	ErrTrailingData = errors.New("trailing data after value")
)

// Sentinel errors used to classify encoding failures, wrapped by errors
// reported by an [Encoder].
var (
	// ErrBadNumber: a number has no JSON representation (NaN, infinity, or
	// invalid literal text).
	ErrBadNumber = errors.New("number has no JSON representation")

	// ErrStructuredKey: a map key requires structured encoding, but the
	// format does not enable structured map keys.
	ErrStructuredKey = errors.New("structured map keys not enabled")

	// ErrBadShape: a value cannot be represented in the selected layout, for
	// example a non-object variant under object polymorphism.
	ErrBadShape = errors.New("value not representable in this form")
)

// SyntaxError is the concrete type of errors reported for malformed input
// text.
type SyntaxError struct {
	Location LineCol
	Message  string

	err error
}

// Error satisfies the error interface.
func (s *SyntaxError) Error() string {
	return fmt.Sprintf("at %s: %s", s.Location, s.Message)
}

// Unwrap supports error wrapping.
func (s *SyntaxError) Unwrap() error { return s.err }

// DecodeError is the concrete type of errors reported when well-formed input
// does not match the structure a codec requires. The Err field wraps one of
// the decoding sentinel errors.
type DecodeError struct {
	Path    string // the location of the error in the decoded structure
	Message string
	Err     error
}

// Error satisfies the error interface.
func (d *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %s", d.Path, d.Message)
}

// Unwrap supports error wrapping.
func (d *DecodeError) Unwrap() error { return d.Err }

// EncodeError is the concrete type of errors reported when a value cannot be
// encoded under the format's configuration. The Err field wraps one of the
// encoding sentinel errors.
type EncodeError struct {
	Path    string // the location of the error in the encoded structure
	Message string
	Err     error
}

// Error satisfies the error interface.
func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode %s: %s", e.Path, e.Message)
}

// Unwrap supports error wrapping.
func (e *EncodeError) Unwrap() error { return e.Err }

// A pathStep is one element of the structural path an encoder or decoder
// maintains for error reporting, either an object key or an array index.
type pathStep struct {
	key   string
	idx   int
	isKey bool
}

// renderPath renders steps in the style of a query path rooted at "$".
// Identifier keys use dot notation, all other keys are bracketed and
// quoted, and indexes are bracketed.
func renderPath(steps []pathStep) string {
	var sb strings.Builder
	sb.WriteByte('$')
	for _, s := range steps {
		if !s.isKey {
			fmt.Fprintf(&sb, "[%d]", s.idx)
		} else if isIdent(s.key) {
			sb.WriteByte('.')
			sb.WriteString(s.key)
		} else {
			fmt.Fprintf(&sb, "[%q]", s.key)
		}
	}
	return sb.String()
}
