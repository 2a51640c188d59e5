// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jform

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/creachadair/jform/tree"
	"github.com/tailscale/hujson"
)

// A Format binds a complete set of options to the encoding and decoding
// entry points. A Format is immutable once constructed and safe for
// concurrent use by multiple goroutines.
type Format struct {
	opts Options
	ctx  *Registry
}

// New constructs a Format with the package defaults, modified by opts. The
// defaults are strict and minified: default-valued fields are encoded,
// unknown keys are rejected, pretty printing indents by four spaces when
// enabled, and polymorphic values carry their tag in a "type" member.
//
// The defaults may be adjusted by future versions of the package. A
// configuration that must remain stable as the package evolves should be
// constructed with [NewWithOptions].
func New(opts ...Option) *Format {
	cfg := formatConfig{opts: defaultOptions()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return newFormat(cfg.opts, cfg.reg)
}

// NewWithOptions constructs a Format from o exactly as given: no defaults
// are filled in, except that an empty Discriminator reads as "type".
func NewWithOptions(o Options) *Format { return newFormat(o, nil) }

func newFormat(o Options, reg *Registry) *Format {
	if o.KeyCase >= numCaseStrategies {
		o.KeyCase = CaseAsIs
	}
	ctx := builtinRegistry()
	ctx.merge(reg)
	ctx.frozen = true
	return &Format{opts: o, ctx: ctx}
}

// Presets for common configurations. Each is a complete Format ready for
// use; none of them share state.
var (
	// Default is the strict minified format given by New with no options.
	Default = New()

	// Indented is Default with pretty printing enabled.
	Indented = New(PrettyPrint("    "))

	// Unquoted is Default with identifier keys written without quotes.
	Unquoted = New(UnquotedKeys(true))

	// Lenient is Default except that unknown object keys are skipped.
	Lenient = New(Strict(false))
)

// Options returns a copy of the options of f.
func (f *Format) Options() Options { return f.opts }

// Registry returns the codec registry of f. The returned registry is
// frozen; [Register] panics on it.
func (f *Format) Registry() *Registry { return f.ctx }

// Marshal encodes v using codec c under format f, and returns the
// resulting JSON text.
func Marshal[T any](f *Format, c Codec[T], v T) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(f, c, &buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalString encodes v using codec c under format f, and returns the
// resulting JSON text as a string.
func MarshalString[T any](f *Format, c Codec[T], v T) (string, error) {
	data, err := Marshal(f, c, v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Encode encodes v using codec c under format f, writing the resulting
// JSON text to w. Nothing is written after the value; in particular no
// trailing newline.
func Encode[T any](f *Format, c Codec[T], w io.Writer, v T) error {
	tw := newTextWriter(w, f.opts)
	if err := c.Encode(newEncoder(tw, f.opts), v); err != nil {
		return err
	}
	return tw.flush()
}

// Unmarshal decodes a value of type T from the JSON text in data using
// codec c under format f. The input must comprise exactly one value;
// anything but whitespace after it reports an error wrapping
// [ErrTrailingData].
func Unmarshal[T any](f *Format, c Codec[T], data []byte) (T, error) {
	return Decode(f, c, bytes.NewReader(data))
}

// UnmarshalString decodes a value of type T from the JSON text in data
// using codec c under format f.
func UnmarshalString[T any](f *Format, c Codec[T], data string) (T, error) {
	return Decode(f, c, strings.NewReader(data))
}

// Decode decodes a value of type T from the JSON text read from r using
// codec c under format f. Decode reads r to completion: after the value,
// the input must contain nothing but whitespace.
func Decode[T any](f *Format, c Codec[T], r io.Reader) (T, error) {
	d := newDecoder(newTextReader(r, f.opts.UnquotedKeys), f.opts)
	return decodeValue(d, c)
}

// MarshalValue encodes v using codec c under format f into a tree value.
// The result corresponds member for member to the text encoding: elision,
// key conversion, and polymorphic tagging all apply.
func MarshalValue[T any](f *Format, c Codec[T], v T) (tree.Value, error) {
	tw := newTreeWriter()
	if err := c.Encode(newEncoder(tw, f.opts), v); err != nil {
		return nil, err
	}
	return tw.Root()
}

// UnmarshalValue decodes a value of type T from the tree value root using
// codec c under format f.
func UnmarshalValue[T any](f *Format, c Codec[T], root tree.Value) (T, error) {
	d := newDecoder(newTreeReader(root), f.opts)
	return decodeValue(d, c)
}

// UnmarshalHuman is [Unmarshal] for human-edited input: comments and
// trailing commas are standardized away before decoding.
func UnmarshalHuman[T any](f *Format, c Codec[T], data []byte) (T, error) {
	std, err := hujson.Standardize(data)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("standardize: %w", err)
	}
	return Unmarshal(f, c, std)
}

// ParseValue parses JSON text into a tree value. It is shorthand for
// Unmarshal with the self-describing [Tree] codec.
func (f *Format) ParseValue(data []byte) (tree.Value, error) {
	return Unmarshal(f, Tree, data)
}

// ParseValueHuman is [ParseValue] for human-edited input: comments and
// trailing commas are standardized away before parsing.
func (f *Format) ParseValueHuman(data []byte) (tree.Value, error) {
	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("standardize: %w", err)
	}
	return f.ParseValue(std)
}

// decodeValue runs c against d and verifies the input is fully consumed.
func decodeValue[T any](d *Decoder, c Codec[T]) (T, error) {
	v, err := c.Decode(d)
	if err != nil {
		var zero T
		return zero, err
	}
	ok, err := d.r.AtEnd()
	if err != nil {
		var zero T
		return zero, err
	} else if !ok {
		var zero T
		return zero, &DecodeError{Path: "$", Message: "trailing data after value", Err: ErrTrailingData}
	}
	return v, nil
}
