// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jform

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// readValue consumes one complete value from r, appending one op per token
// to *out in the transcript format used by the testutil.Sink.
func readValue(r Reader, out *[]string) error {
	k, err := r.Peek()
	if err != nil {
		return err
	}
	switch k {
	case KindObject:
		if err := r.BeginObject(); err != nil {
			return err
		}
		*out = append(*out, "{")
		for {
			key, ok, err := r.NextKey()
			if err != nil {
				return err
			} else if !ok {
				break
			}
			*out = append(*out, "k:"+key)
			if err := readValue(r, out); err != nil {
				return err
			}
		}
		*out = append(*out, "}")
	case KindArray:
		if err := r.BeginArray(); err != nil {
			return err
		}
		*out = append(*out, "[")
		for {
			ok, err := r.More()
			if err != nil {
				return err
			} else if !ok {
				break
			}
			if err := readValue(r, out); err != nil {
				return err
			}
		}
		*out = append(*out, "]")
	case KindString:
		s, err := r.String()
		if err != nil {
			return err
		}
		*out = append(*out, "s:"+s)
	case KindNumber:
		lit, err := r.Number()
		if err != nil {
			return err
		}
		*out = append(*out, "n:"+lit)
	case KindBool:
		b, err := r.Bool()
		if err != nil {
			return err
		}
		*out = append(*out, "b:"+strconv.FormatBool(b))
	case KindNull:
		if err := r.Null(); err != nil {
			return err
		}
		*out = append(*out, "null")
	}
	return nil
}

// readAll consumes every value in r, returning the combined transcript.
func readAll(r Reader) ([]string, error) {
	var out []string
	for {
		ok, err := r.AtEnd()
		if err != nil {
			return out, err
		} else if ok {
			return out, nil
		}
		if err := readValue(r, &out); err != nil {
			return out, err
		}
	}
}

func TestTextReader(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{"   \n\t ", nil},

		{`""`, []string{"s:"}},
		{`"a\tb"`, []string{"s:a\tb"}},
		{`"a b"`, []string{"s:a b"}},
		{`0`, []string{"n:0"}},
		{`-6.25e2`, []string{"n:-6.25e2"}},
		{`true`, []string{"b:true"}},
		{`false`, []string{"b:false"}},
		{`null`, []string{"null"}},

		{`{}`, []string{"{", "}"}},
		{`[]`, []string{"[", "]"}},
		{` [ 1 , 2 ] `, []string{"[", "n:1", "n:2", "]"}},
		{`1 2 "three"`, []string{"n:1", "n:2", "s:three"}},

		{`{"a":1,"b":[true,null],"c":{"d":"x"}}`, []string{
			"{", "k:a", "n:1",
			"k:b", "[", "b:true", "null", "]",
			"k:c", "{", "k:d", "s:x", "}",
			"}",
		}},

		// Duplicate keys are reported as they occur; resolution is the
		// concern of the consumer.
		{`{"a":1,"a":2}`, []string{"{", "k:a", "n:1", "k:a", "n:2", "}"}},
	}
	for _, test := range tests {
		got, err := readAll(newTextReader(strings.NewReader(test.input), false))
		if err != nil {
			t.Errorf("Input: %#q\nUnexpected error: %v", test.input, err)
			continue
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("Input: %#q\nTranscript: (-want, +got)\n%s", test.input, diff)
		}
	}
}

func TestTextReader_bareKeys(t *testing.T) {
	const input = `{a:1, b_2:true, "q r":null}`
	want := []string{"{", "k:a", "n:1", "k:b_2", "b:true", "k:q r", "null", "}"}

	got, err := readAll(newTextReader(strings.NewReader(input), true))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Transcript: (-want, +got)\n%s", diff)
	}

	// Without the option, a bare key is a syntax error.
	if _, err := readAll(newTextReader(strings.NewReader(input), false)); err == nil {
		t.Error("Strict grammar did not report an error")
	} else {
		t.Logf("Got expected error: %v", err)
	}
}

func TestTextReader_errors(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`{`, `at 1:1: unexpected end of input`},
		{`[true`, `at 1:5: unexpected end of input`},
		{`}`, `at 1:0: expected a value, got "}"`},
		{`[1,]`, `at 1:3: expected a value, got "]"`},
		{`[1 2]`, `at 1:3: expected "," or "]", got integer`},
		{`{"a" 1}`, `at 1:5: expected ":", got integer`},
		{`{"a":1 "b":2}`, `at 1:7: expected "," or "}", got string`},
		{`{1:2}`, `at 1:1: expected object key, got integer`},
		{`{[]:2}`, `at 1:1: expected object key, got "["`},
		{`[1, @]`, `at 1:4: unexpected '@'`},
	}
	for _, test := range tests {
		_, err := readAll(newTextReader(strings.NewReader(test.input), false))
		if err == nil {
			t.Errorf("Input: %#q: no error reported", test.input)
			continue
		}
		var serr *SyntaxError
		if !errors.As(err, &serr) {
			t.Errorf("Input: %#q: error is %T, not *SyntaxError", test.input, err)
		}
		if diff := cmp.Diff(test.want, err.Error()); diff != "" {
			t.Errorf("Input: %#q\nError: (-want, +got)\n%s", test.input, diff)
		}
	}
}

func TestTextReader_misuse(t *testing.T) {
	t.Run("MoreAtRoot", func(t *testing.T) {
		r := newTextReader(strings.NewReader(`[1]`), false)
		if _, err := r.More(); err == nil || err.Error() != "reader: not inside an array" {
			t.Errorf("More: got %v, want not inside an array", err)
		}
	})
	t.Run("NextKeyAtRoot", func(t *testing.T) {
		r := newTextReader(strings.NewReader(`{}`), false)
		if _, _, err := r.NextKey(); err == nil || err.Error() != "reader: not inside an object" {
			t.Errorf("NextKey: got %v, want not inside an object", err)
		}
	})
	t.Run("NextKeyInArray", func(t *testing.T) {
		r := newTextReader(strings.NewReader(`[1]`), false)
		if err := r.BeginArray(); err != nil {
			t.Fatalf("BeginArray: %v", err)
		}
		if _, _, err := r.NextKey(); err == nil || err.Error() != "reader: not inside an object" {
			t.Errorf("NextKey: got %v, want not inside an object", err)
		}
	})
}

func TestTextReader_mismatch(t *testing.T) {
	tests := []struct {
		input string
		read  func(r Reader) error
		want  string
	}{
		{`5`, func(r Reader) error { _, err := r.String(); return err },
			"expected string, got number"},
		{`"x"`, func(r Reader) error { _, err := r.Number(); return err },
			"expected number, got string"},
		{`null`, func(r Reader) error { _, err := r.Bool(); return err },
			"expected bool, got null"},
		{`true`, func(r Reader) error { return r.Null() },
			"expected null, got bool"},
		{`[1]`, func(r Reader) error { return r.BeginObject() },
			`expected "{", got "["`},
	}
	for _, test := range tests {
		r := newTextReader(strings.NewReader(test.input), false)
		err := test.read(r)
		if err == nil {
			t.Errorf("Input: %#q: no error reported", test.input)
			continue
		}
		if !strings.Contains(err.Error(), test.want) {
			t.Errorf("Input: %#q\nError: got %v, want %q", test.input, err, test.want)
		}
	}
}

func TestTextReader_skip(t *testing.T) {
	const input = `{"a": {"deep": [1, 2, {"x": null}]}, "b": [true], "c": 3}`

	r := newTextReader(strings.NewReader(input), false)
	if err := r.BeginObject(); err != nil {
		t.Fatalf("BeginObject: %v", err)
	}
	var keys []string
	for {
		key, ok, err := r.NextKey()
		if err != nil {
			t.Fatalf("NextKey: %v", err)
		} else if !ok {
			break
		}
		keys = append(keys, key)
		if key == "c" {
			lit, err := r.Number()
			if err != nil {
				t.Fatalf("Number: %v", err)
			} else if lit != "3" {
				t.Errorf("Number: got %q, want 3", lit)
			}
			continue
		}
		if err := r.Skip(); err != nil {
			t.Fatalf("Skip %q: %v", key, err)
		}
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, keys); diff != "" {
		t.Errorf("Keys: (-want, +got)\n%s", diff)
	}
	if ok, err := r.AtEnd(); err != nil || !ok {
		t.Errorf("AtEnd: got %v, %v; want true, nil", ok, err)
	}
}

func TestTextReader_atEnd(t *testing.T) {
	r := newTextReader(strings.NewReader("1 2  "), false)
	for _, want := range []string{"1", "2"} {
		if ok, err := r.AtEnd(); err != nil || ok {
			t.Fatalf("AtEnd: got %v, %v; want false, nil", ok, err)
		}
		lit, err := r.Number()
		if err != nil {
			t.Fatalf("Number: %v", err)
		} else if lit != want {
			t.Errorf("Number: got %q, want %q", lit, want)
		}
	}
	if ok, err := r.AtEnd(); err != nil || !ok {
		t.Errorf("AtEnd: got %v, %v; want true, nil", ok, err)
	}

	// Junk after the value surfaces as a syntax error from AtEnd.
	r = newTextReader(strings.NewReader("1 @"), false)
	if _, err := r.Number(); err != nil {
		t.Fatalf("Number: %v", err)
	}
	if _, err := r.AtEnd(); err == nil {
		t.Error("AtEnd: no error reported for trailing junk")
	} else {
		t.Logf("Got expected error: %v", err)
	}
}
