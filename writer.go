// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jform

import (
	"bufio"
	"fmt"
	"io"

	"github.com/creachadair/jform/internal/escape"
	"go4.org/mem"
)

// A textWriter is a Writer that renders tokens as JSON text. Layout is
// governed by the format options: pretty printing writes one object member
// or array item per line, with one copy of the indent string per nesting
// level, and unquoted keys are written bare when the key is a simple
// identifier. Minified output contains no whitespace at all.
type textWriter struct {
	w     *bufio.Writer
	stack []wframe
	key   bool // a key has been written, awaiting its value
	err   error

	pretty   bool
	indent   string
	bareKeys bool

	scratch []byte
}

type wframe struct {
	arr bool
	n   int
}

func newTextWriter(w io.Writer, o Options) *textWriter {
	return &textWriter{
		w:        bufio.NewWriter(w),
		pretty:   o.Pretty,
		indent:   o.Indent,
		bareKeys: o.UnquotedKeys,
	}
}

// flush verifies that the value is complete and flushes buffered output to
// the underlying writer.
func (t *textWriter) flush() error {
	if t.err != nil {
		return t.err
	}
	if len(t.stack) > 0 || t.key {
		return t.misuse("incomplete value")
	}
	return t.w.Flush()
}

func (t *textWriter) misuse(msg string) error {
	t.err = fmt.Errorf("writer: %s", msg)
	return t.err
}

func (t *textWriter) byte(b byte) {
	if t.err == nil {
		t.err = t.w.WriteByte(b)
	}
}

func (t *textWriter) text(s string) {
	if t.err == nil {
		_, t.err = t.w.WriteString(s)
	}
}

func (t *textWriter) quote(s string) {
	t.byte('"')
	if t.err == nil {
		t.scratch = escape.AppendQuote(t.scratch[:0], mem.S(s))
		_, t.err = t.w.Write(t.scratch)
	}
	t.byte('"')
}

// beginValue prepares the output for a new value: array items are separated
// by commas, and a value inside an object must follow a key.
func (t *textWriter) beginValue() error {
	if t.err != nil {
		return t.err
	}
	if len(t.stack) == 0 {
		return nil
	}
	f := &t.stack[len(t.stack)-1]
	if f.arr {
		if f.n > 0 {
			t.byte(',')
		}
		if t.pretty {
			t.breakIndent(len(t.stack))
		}
		f.n++
	} else if !t.key {
		return t.misuse("value without key")
	} else {
		t.key = false
	}
	return t.err
}

func (t *textWriter) breakIndent(depth int) {
	t.byte('\n')
	for i := 0; i < depth; i++ {
		t.text(t.indent)
	}
}

// BeginObject implements part of the Writer interface.
func (t *textWriter) BeginObject() error {
	if err := t.beginValue(); err != nil {
		return err
	}
	t.byte('{')
	t.stack = append(t.stack, wframe{})
	return t.err
}

// Key implements part of the Writer interface.
func (t *textWriter) Key(name string) error {
	if t.err != nil {
		return t.err
	}
	if len(t.stack) == 0 || t.stack[len(t.stack)-1].arr {
		return t.misuse("key outside object")
	} else if t.key {
		return t.misuse("key without value")
	}
	f := &t.stack[len(t.stack)-1]
	if f.n > 0 {
		t.byte(',')
	}
	if t.pretty {
		t.breakIndent(len(t.stack))
	}
	if t.bareKeys && isIdent(name) {
		t.text(name)
	} else {
		t.quote(name)
	}
	t.byte(':')
	if t.pretty {
		t.byte(' ')
	}
	f.n++
	t.key = true
	return t.err
}

// EndObject implements part of the Writer interface.
func (t *textWriter) EndObject() error {
	if t.err != nil {
		return t.err
	}
	if len(t.stack) == 0 || t.stack[len(t.stack)-1].arr {
		return t.misuse("end of object outside object")
	} else if t.key {
		return t.misuse("key without value")
	}
	f := t.stack[len(t.stack)-1]
	t.stack = t.stack[:len(t.stack)-1]
	if t.pretty && f.n > 0 {
		t.breakIndent(len(t.stack))
	}
	t.byte('}')
	return t.err
}

// BeginArray implements part of the Writer interface.
func (t *textWriter) BeginArray() error {
	if err := t.beginValue(); err != nil {
		return err
	}
	t.byte('[')
	t.stack = append(t.stack, wframe{arr: true})
	return t.err
}

// EndArray implements part of the Writer interface.
func (t *textWriter) EndArray() error {
	if t.err != nil {
		return t.err
	}
	if len(t.stack) == 0 || !t.stack[len(t.stack)-1].arr {
		return t.misuse("end of array outside array")
	}
	f := t.stack[len(t.stack)-1]
	t.stack = t.stack[:len(t.stack)-1]
	if t.pretty && f.n > 0 {
		t.breakIndent(len(t.stack))
	}
	t.byte(']')
	return t.err
}

// String implements part of the Writer interface.
func (t *textWriter) String(s string) error {
	if err := t.beginValue(); err != nil {
		return err
	}
	t.quote(s)
	return t.err
}

// Number implements part of the Writer interface. The literal text is
// written as given; it is the caller's responsibility to ensure it is a
// valid JSON number literal.
func (t *textWriter) Number(lit string) error {
	if err := t.beginValue(); err != nil {
		return err
	}
	t.text(lit)
	return t.err
}

// Bool implements part of the Writer interface.
func (t *textWriter) Bool(b bool) error {
	if err := t.beginValue(); err != nil {
		return err
	}
	if b {
		t.text("true")
	} else {
		t.text("false")
	}
	return t.err
}

// Null implements part of the Writer interface.
func (t *textWriter) Null() error {
	if err := t.beginValue(); err != nil {
		return err
	}
	t.text("null")
	return t.err
}

// isIdent reports whether s is a simple identifier: a nonempty run of ASCII
// letters, digits, and underscores that does not begin with a digit. Only
// such keys may be written without quotes.
func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		b := rune(s[i])
		if isIdentStart(b) || (i > 0 && isDigit(b)) {
			continue
		}
		return false
	}
	return true
}
