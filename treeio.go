// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jform

import (
	"fmt"

	"github.com/creachadair/jform/tree"
)

// A treeWriter is a Writer that builds a tree.Value. Completed values are
// reduced onto a stack of open containers as the stream closes them. The
// token sequence accepted is exactly the sequence a textWriter accepts, so
// the two sinks are interchangeable to the encoder.
type treeWriter struct {
	root  tree.Value
	done  bool
	stack []tframe
	err   error
}

type tframe struct {
	arr     bool
	key     string
	haveKey bool
	members []tree.Member
	items   []tree.Value
}

func newTreeWriter() *treeWriter { return &treeWriter{} }

// Root returns the completed value. It reports an error if the token stream
// did not form exactly one complete value.
func (t *treeWriter) Root() (tree.Value, error) {
	if t.err != nil {
		return nil, t.err
	}
	if !t.done || len(t.stack) > 0 {
		return nil, fmt.Errorf("writer: incomplete value")
	}
	return t.root, nil
}

func (t *treeWriter) misuse(msg string) error {
	t.err = fmt.Errorf("writer: %s", msg)
	return t.err
}

// checkValue verifies that a value may begin at the current position.
func (t *treeWriter) checkValue() error {
	if t.err != nil {
		return t.err
	}
	if len(t.stack) == 0 {
		if t.done {
			return t.misuse("multiple root values")
		}
		return nil
	}
	if f := &t.stack[len(t.stack)-1]; !f.arr && !f.haveKey {
		return t.misuse("value without key")
	}
	return nil
}

// place attaches a completed value to the innermost open container, or
// records it as the root when no container is open.
func (t *treeWriter) place(v tree.Value) {
	if len(t.stack) == 0 {
		t.root = v
		t.done = true
		return
	}
	f := &t.stack[len(t.stack)-1]
	if f.arr {
		f.items = append(f.items, v)
	} else {
		f.members = append(f.members, tree.Member{Key: f.key, Value: v})
		f.haveKey = false
	}
}

func (t *treeWriter) value(v tree.Value) error {
	if err := t.checkValue(); err != nil {
		return err
	}
	t.place(v)
	return nil
}

// BeginObject implements part of the Writer interface.
func (t *treeWriter) BeginObject() error {
	if err := t.checkValue(); err != nil {
		return err
	}
	t.stack = append(t.stack, tframe{})
	return nil
}

// Key implements part of the Writer interface.
func (t *treeWriter) Key(name string) error {
	if t.err != nil {
		return t.err
	}
	if len(t.stack) == 0 || t.stack[len(t.stack)-1].arr {
		return t.misuse("key outside object")
	}
	f := &t.stack[len(t.stack)-1]
	if f.haveKey {
		return t.misuse("key without value")
	}
	f.key, f.haveKey = name, true
	return nil
}

// EndObject implements part of the Writer interface.
func (t *treeWriter) EndObject() error {
	if t.err != nil {
		return t.err
	}
	if len(t.stack) == 0 || t.stack[len(t.stack)-1].arr {
		return t.misuse("end of object outside object")
	}
	f := t.stack[len(t.stack)-1]
	if f.haveKey {
		return t.misuse("key without value")
	}
	t.stack = t.stack[:len(t.stack)-1]
	t.place(tree.NewObject(f.members...))
	return nil
}

// BeginArray implements part of the Writer interface.
func (t *treeWriter) BeginArray() error {
	if err := t.checkValue(); err != nil {
		return err
	}
	t.stack = append(t.stack, tframe{arr: true})
	return nil
}

// EndArray implements part of the Writer interface.
func (t *treeWriter) EndArray() error {
	if t.err != nil {
		return t.err
	}
	if len(t.stack) == 0 || !t.stack[len(t.stack)-1].arr {
		return t.misuse("end of array outside array")
	}
	f := t.stack[len(t.stack)-1]
	t.stack = t.stack[:len(t.stack)-1]
	t.place(tree.NewArray(f.items...))
	return nil
}

// String implements part of the Writer interface.
func (t *treeWriter) String(s string) error { return t.value(tree.String(s)) }

// Number implements part of the Writer interface.
func (t *treeWriter) Number(lit string) error { return t.value(tree.Number(lit)) }

// Bool implements part of the Writer interface.
func (t *treeWriter) Bool(b bool) error { return t.value(tree.Bool(b)) }

// Null implements part of the Writer interface.
func (t *treeWriter) Null() error { return t.value(tree.Null{}) }

// A treeReader is a Reader that walks a tree.Value. A tree cannot contain
// grammar errors, so all failures are structure mismatches, reported as
// *DecodeError.
type treeReader struct {
	pend    tree.Value
	hasPend bool
	stack   []treeFrame
	err     error
}

type treeFrame struct {
	arr   bool
	obj   tree.Object
	items tree.Array
	i     int
}

// newTreeReader constructs a Reader that walks root. A nil root is treated
// as the null value.
func newTreeReader(root tree.Value) *treeReader {
	if root == nil {
		root = tree.Null{}
	}
	return &treeReader{pend: root, hasPend: true}
}

// take returns the value at the cursor without consuming it.
func (t *treeReader) take() (tree.Value, error) {
	if t.err != nil {
		return nil, t.err
	}
	if !t.hasPend {
		return nil, t.misuse("no value at cursor")
	}
	return t.pend, nil
}

// takeValue consumes and returns the whole value at the cursor.
func (t *treeReader) takeValue() (tree.Value, error) {
	v, err := t.take()
	if err != nil {
		return nil, err
	}
	t.consume()
	return v, nil
}

func (t *treeReader) consume() { t.pend, t.hasPend = nil, false }

func (t *treeReader) misuse(msg string) error {
	t.err = fmt.Errorf("reader: %s", msg)
	return t.err
}

func (t *treeReader) mismatch(want Kind, got tree.Value) error {
	t.err = &DecodeError{Message: fmt.Sprintf("expected %v, got %v", want, kindOf(got)), Err: ErrBadValue}
	return t.err
}

// kindOf classifies a tree value. An unquoted primitive whose text is a
// Boolean constant is a bool; any other unquoted primitive is a number.
func kindOf(v tree.Value) Kind {
	switch p := v.(type) {
	case tree.Null:
		return KindNull
	case tree.Primitive:
		if p.IsString() {
			return KindString
		}
		switch p.Text() {
		case "true", "false":
			return KindBool
		}
		return KindNumber
	case tree.Object:
		return KindObject
	case tree.Array:
		return KindArray
	}
	return KindInvalid
}

// Peek implements part of the Reader interface.
func (t *treeReader) Peek() (Kind, error) {
	v, err := t.take()
	if err != nil {
		return KindInvalid, err
	}
	return kindOf(v), nil
}

// BeginObject implements part of the Reader interface.
func (t *treeReader) BeginObject() error {
	v, err := t.take()
	if err != nil {
		return err
	}
	o, ok := v.(tree.Object)
	if !ok {
		return t.mismatch(KindObject, v)
	}
	t.consume()
	t.stack = append(t.stack, treeFrame{obj: o})
	return nil
}

// NextKey implements part of the Reader interface.
func (t *treeReader) NextKey() (string, bool, error) {
	if t.err != nil {
		return "", false, t.err
	}
	if len(t.stack) == 0 || t.stack[len(t.stack)-1].arr {
		return "", false, t.misuse("not inside an object")
	} else if t.hasPend {
		return "", false, t.misuse("previous value not consumed")
	}
	f := &t.stack[len(t.stack)-1]
	if f.i >= f.obj.Len() {
		t.stack = t.stack[:len(t.stack)-1]
		return "", false, nil
	}
	m := f.obj.Index(f.i)
	f.i++
	t.pend, t.hasPend = m.Value, true
	return m.Key, true, nil
}

// BeginArray implements part of the Reader interface.
func (t *treeReader) BeginArray() error {
	v, err := t.take()
	if err != nil {
		return err
	}
	a, ok := v.(tree.Array)
	if !ok {
		return t.mismatch(KindArray, v)
	}
	t.consume()
	t.stack = append(t.stack, treeFrame{arr: true, items: a})
	return nil
}

// More implements part of the Reader interface.
func (t *treeReader) More() (bool, error) {
	if t.err != nil {
		return false, t.err
	}
	if len(t.stack) == 0 || !t.stack[len(t.stack)-1].arr {
		return false, t.misuse("not inside an array")
	} else if t.hasPend {
		return false, t.misuse("previous value not consumed")
	}
	f := &t.stack[len(t.stack)-1]
	if f.i >= f.items.Len() {
		t.stack = t.stack[:len(t.stack)-1]
		return false, nil
	}
	t.pend, t.hasPend = f.items.Index(f.i), true
	f.i++
	return true, nil
}

// String implements part of the Reader interface.
func (t *treeReader) String() (string, error) {
	v, err := t.take()
	if err != nil {
		return "", err
	}
	p, ok := v.(tree.Primitive)
	if !ok || !p.IsString() {
		return "", t.mismatch(KindString, v)
	}
	t.consume()
	return p.Text(), nil
}

// Number implements part of the Reader interface.
func (t *treeReader) Number() (string, error) {
	v, err := t.take()
	if err != nil {
		return "", err
	}
	if kindOf(v) != KindNumber {
		return "", t.mismatch(KindNumber, v)
	}
	t.consume()
	return v.(tree.Primitive).Text(), nil
}

// Bool implements part of the Reader interface.
func (t *treeReader) Bool() (bool, error) {
	v, err := t.take()
	if err != nil {
		return false, err
	}
	if kindOf(v) != KindBool {
		return false, t.mismatch(KindBool, v)
	}
	t.consume()
	return v.(tree.Primitive).Text() == "true", nil
}

// Null implements part of the Reader interface.
func (t *treeReader) Null() error {
	v, err := t.take()
	if err != nil {
		return err
	}
	if _, ok := v.(tree.Null); !ok {
		return t.mismatch(KindNull, v)
	}
	t.consume()
	return nil
}

// Skip implements part of the Reader interface. The whole subtree at the
// cursor is discarded in one step.
func (t *treeReader) Skip() error {
	if _, err := t.take(); err != nil {
		return err
	}
	t.consume()
	return nil
}

// AtEnd implements part of the Reader interface.
func (t *treeReader) AtEnd() (bool, error) {
	if t.err != nil {
		return false, t.err
	}
	return !t.hasPend && len(t.stack) == 0, nil
}
