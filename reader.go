// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jform

import (
	"fmt"
	"io"
)

// A textReader is a Reader that pulls tokens from JSON text. Grammar errors
// are reported as *SyntaxError with the location of the offending token.
// Mismatches between the caller's request and a well-formed input value are
// reported as *DecodeError.
type textReader struct {
	sc     *scanner
	loaded bool // the scanner holds an unconsumed token
	stack  []rframe
	err    error // sticky
}

type rframe struct {
	arr bool // true for array, false for object
	n   int  // number of members or items consumed
}

// newTextReader constructs a Reader that consumes JSON text from r. If
// bareKeys is true, unquoted identifier keys are accepted in objects.
func newTextReader(r io.Reader, bareKeys bool) *textReader {
	sc := newScanner(r)
	sc.allowBareNames(bareKeys)
	return &textReader{sc: sc}
}

// load ensures the scanner holds an unconsumed token. The caller requires a
// token, so reaching the end of input is an error.
func (t *textReader) load() (token, error) {
	if t.err != nil {
		return tokInvalid, t.err
	}
	if !t.loaded {
		if !t.sc.Next() {
			if err := t.sc.Err(); err != nil {
				t.err = err
			} else {
				t.err = &SyntaxError{Location: t.sc.Location(), Message: "unexpected end of input"}
			}
			return tokInvalid, t.err
		}
		t.loaded = true
	}
	return t.sc.Token(), nil
}

func (t *textReader) consume() { t.loaded = false }

// expect consumes the next token of the input, which must have type want.
func (t *textReader) expect(want token) error {
	tok, err := t.load()
	if err != nil {
		return err
	} else if tok != want {
		return t.syntaxf("expected %v, got %v", want, tok)
	}
	t.consume()
	return nil
}

func (t *textReader) syntaxf(msg string, args ...any) error {
	t.err = &SyntaxError{Location: t.sc.Location(), Message: fmt.Sprintf(msg, args...)}
	return t.err
}

func (t *textReader) misuse(msg string) error {
	t.err = fmt.Errorf("reader: %s", msg)
	return t.err
}

// inside returns the innermost open frame, which must be an array frame if
// arr is true, an object frame otherwise.
func (t *textReader) inside(arr bool) (*rframe, error) {
	if t.err != nil {
		return nil, t.err
	}
	if len(t.stack) == 0 || t.stack[len(t.stack)-1].arr != arr {
		if arr {
			return nil, t.misuse("not inside an array")
		}
		return nil, t.misuse("not inside an object")
	}
	return &t.stack[len(t.stack)-1], nil
}

func (t *textReader) pop() { t.stack = t.stack[:len(t.stack)-1] }

// want verifies that the value at the cursor has the given kind, without
// consuming it.
func (t *textReader) want(k Kind) error {
	got, err := t.Peek()
	if err != nil {
		return err
	} else if got != k {
		t.err = &DecodeError{Message: fmt.Sprintf("expected %v, got %v", k, got), Err: ErrBadValue}
		return t.err
	}
	return nil
}

// Peek implements part of the Reader interface.
func (t *textReader) Peek() (Kind, error) {
	tok, err := t.load()
	if err != nil {
		return KindInvalid, err
	}
	switch tok {
	case tokNull:
		return KindNull, nil
	case tokTrue, tokFalse:
		return KindBool, nil
	case tokInt, tokNumber:
		return KindNumber, nil
	case tokString:
		return KindString, nil
	case tokLBrace:
		return KindObject, nil
	case tokLSquare:
		return KindArray, nil
	}
	return KindInvalid, t.syntaxf("expected a value, got %v", tok)
}

// BeginObject implements part of the Reader interface.
func (t *textReader) BeginObject() error {
	if err := t.expect(tokLBrace); err != nil {
		return err
	}
	t.stack = append(t.stack, rframe{arr: false})
	return nil
}

// NextKey implements part of the Reader interface.
func (t *textReader) NextKey() (string, bool, error) {
	f, err := t.inside(false)
	if err != nil {
		return "", false, err
	}
	tok, err := t.load()
	if err != nil {
		return "", false, err
	}
	if tok == tokRBrace {
		t.consume()
		t.pop()
		return "", false, nil
	}
	if f.n > 0 {
		if tok != tokComma {
			return "", false, t.syntaxf(`expected "," or "}", got %v`, tok)
		}
		t.consume()
		if tok, err = t.load(); err != nil {
			return "", false, err
		}
	}
	var key string
	switch tok {
	case tokString:
		dec, err := t.sc.Unescape()
		if err != nil {
			return "", false, t.syntaxf("invalid object key: %v", err)
		}
		key = dec
	case tokName:
		key = string(t.sc.Text())
	default:
		return "", false, t.syntaxf("expected object key, got %v", tok)
	}
	t.consume()
	if err := t.expect(tokColon); err != nil {
		return "", false, err
	}
	f.n++
	return key, true, nil
}

// BeginArray implements part of the Reader interface.
func (t *textReader) BeginArray() error {
	if err := t.expect(tokLSquare); err != nil {
		return err
	}
	t.stack = append(t.stack, rframe{arr: true})
	return nil
}

// More implements part of the Reader interface.
func (t *textReader) More() (bool, error) {
	f, err := t.inside(true)
	if err != nil {
		return false, err
	}
	tok, err := t.load()
	if err != nil {
		return false, err
	}
	if tok == tokRSquare {
		t.consume()
		t.pop()
		return false, nil
	}
	if f.n > 0 {
		if tok != tokComma {
			return false, t.syntaxf(`expected "," or "]", got %v`, tok)
		}
		t.consume()
		if tok, err := t.load(); err != nil {
			return false, err
		} else if tok == tokRSquare {
			return false, t.syntaxf("expected a value, got %v", tok)
		}
	}
	f.n++
	return true, nil
}

// String implements part of the Reader interface.
func (t *textReader) String() (string, error) {
	if err := t.want(KindString); err != nil {
		return "", err
	}
	dec, err := t.sc.Unescape()
	if err != nil {
		return "", t.syntaxf("invalid string: %v", err)
	}
	t.consume()
	return dec, nil
}

// Number implements part of the Reader interface.
func (t *textReader) Number() (string, error) {
	if err := t.want(KindNumber); err != nil {
		return "", err
	}
	text := string(t.sc.Text())
	t.consume()
	return text, nil
}

// Bool implements part of the Reader interface.
func (t *textReader) Bool() (bool, error) {
	if err := t.want(KindBool); err != nil {
		return false, err
	}
	v := t.sc.Token() == tokTrue
	t.consume()
	return v, nil
}

// Null implements part of the Reader interface.
func (t *textReader) Null() error {
	if err := t.want(KindNull); err != nil {
		return err
	}
	t.consume()
	return nil
}

// Skip implements part of the Reader interface. Nested structure is
// consumed and checked for grammar, but not otherwise processed.
func (t *textReader) Skip() error {
	k, err := t.Peek()
	if err != nil {
		return err
	}
	switch k {
	case KindObject:
		if err := t.BeginObject(); err != nil {
			return err
		}
		for {
			_, ok, err := t.NextKey()
			if err != nil {
				return err
			} else if !ok {
				return nil
			}
			if err := t.Skip(); err != nil {
				return err
			}
		}
	case KindArray:
		if err := t.BeginArray(); err != nil {
			return err
		}
		for {
			ok, err := t.More()
			if err != nil {
				return err
			} else if !ok {
				return nil
			}
			if err := t.Skip(); err != nil {
				return err
			}
		}
	}
	t.consume()
	return nil
}

// AtEnd implements part of the Reader interface.
func (t *textReader) AtEnd() (bool, error) {
	if t.err != nil {
		return false, t.err
	}
	if t.loaded || len(t.stack) > 0 {
		return false, nil
	}
	if t.sc.Next() {
		t.loaded = true
		return false, nil
	}
	if err := t.sc.Err(); err != nil {
		t.err = err
		return false, err
	}
	return true, nil
}
