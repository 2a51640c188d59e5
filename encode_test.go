// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jform

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/creachadair/jform/internal/testutil"
	"github.com/creachadair/jform/tree"
	"github.com/google/go-cmp/cmp"
)

var _ Writer = (*testutil.Sink)(nil)

type testRec struct {
	Name string
	Age  int
}

var testRecCodec = ObjectOf(
	Req("name", String, func(r *testRec) *string { return &r.Name }),
	Req("age", Int, func(r *testRec) *int { return &r.Age }),
)

func TestEncoderTokens(t *testing.T) {
	t.Run("Scalars", func(t *testing.T) {
		sink := new(testutil.Sink)
		e := newEncoder(sink, defaultOptions())
		e.String("x")
		e.Bool(true)
		e.Int64(-15)
		e.Float64(0.5)
		e.Number("1e3")
		e.Null()
		want := []string{"s:x", "b:true", "n:-15", "n:0.5", "n:1e3", "null"}
		if diff := cmp.Diff(want, sink.Ops); diff != "" {
			t.Errorf("Ops: (-want, +got)\n%s", diff)
		}
	})

	t.Run("Record", func(t *testing.T) {
		sink := new(testutil.Sink)
		e := newEncoder(sink, defaultOptions())
		if err := testRecCodec.Encode(e, testRec{Name: "Ada", Age: 36}); err != nil {
			t.Fatalf("Encode: unexpected error: %v", err)
		}
		want := []string{"{", "k:name", "s:Ada", "k:age", "n:36", "}"}
		if diff := cmp.Diff(want, sink.Ops); diff != "" {
			t.Errorf("Ops: (-want, +got)\n%s", diff)
		}
	})

	// A pending variant tag becomes the first member of the next object.
	t.Run("PendingTag", func(t *testing.T) {
		sink := new(testutil.Sink)
		e := newEncoder(sink, defaultOptions())
		e.tag, e.tagSet = "rec", true
		if err := testRecCodec.Encode(e, testRec{Name: "Ada", Age: 36}); err != nil {
			t.Fatalf("Encode: unexpected error: %v", err)
		}
		want := []string{"{", "k:type", "s:rec", "k:name", "s:Ada", "k:age", "n:36", "}"}
		if diff := cmp.Diff(want, sink.Ops); diff != "" {
			t.Errorf("Ops: (-want, +got)\n%s", diff)
		}
		if e.tagSet {
			t.Error("Encoder still has a pending tag")
		}
	})

	t.Run("Tree", func(t *testing.T) {
		sink := new(testutil.Sink)
		e := newEncoder(sink, defaultOptions())
		err := e.Tree(tree.NewObject(
			tree.Field("a", tree.ArrayOf(1, 2)),
			tree.Field("b", tree.Null{}),
		))
		if err != nil {
			t.Fatalf("Tree: unexpected error: %v", err)
		}
		want := []string{"{", "k:a", "[", "n:1", "n:2", "]", "k:b", "null", "}"}
		if diff := cmp.Diff(want, sink.Ops); diff != "" {
			t.Errorf("Ops: (-want, +got)\n%s", diff)
		}
	})
}

func TestEncoderTagMisfit(t *testing.T) {
	tests := []struct {
		name string
		emit func(e *Encoder) error
		want string
	}{
		{"String", func(e *Encoder) error { return e.String("x") }, "a string"},
		{"Bool", func(e *Encoder) error { return e.Bool(true) }, "a Boolean"},
		{"Null", func(e *Encoder) error { return e.Null() }, "a null"},
		{"Int", func(e *Encoder) error { return e.Int64(3) }, "a number"},
		{"Float", func(e *Encoder) error { return e.Float64(0.5) }, "a number"},
		{"Number", func(e *Encoder) error { return e.Number("1") }, "a number"},
		{"Array", func(e *Encoder) error { return e.beginArray() }, "an array"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			e := newEncoder(new(testutil.Sink), defaultOptions())
			e.tag, e.tagSet = "x", true
			err := test.emit(e)
			if err == nil {
				t.Fatal("No error reported")
			}
			if !errors.Is(err, ErrBadShape) {
				t.Errorf("Error %v does not wrap ErrBadShape", err)
			}
			want := `cannot attach tag "x" to ` + test.want
			if !strings.Contains(err.Error(), want) {
				t.Errorf("Error: got %v, want %q", err, want)
			}

			// The tag is dropped with the error, so the encoder is usable.
			if e.tagSet {
				t.Error("Encoder still has a pending tag")
			}
			if err := e.Null(); err != nil {
				t.Errorf("Null after error: %v", err)
			}
		})
	}
}

func TestEncoderNumbers(t *testing.T) {
	valid := []string{
		"0", "-0", "7", "-15", "1.5", "0.25", "10.75",
		"1e9", "1E+9", "2.5e-3", "-0.25E2",
	}
	for _, lit := range valid {
		sink := new(testutil.Sink)
		e := newEncoder(sink, defaultOptions())
		if err := e.Number(lit); err != nil {
			t.Errorf("Number(%q): unexpected error: %v", lit, err)
		} else if diff := cmp.Diff([]string{"n:" + lit}, sink.Ops); diff != "" {
			t.Errorf("Number(%q): (-want, +got)\n%s", lit, diff)
		}
	}

	invalid := []string{
		"", "-", "01", "+1", "1.", ".5", "1e", "1e+", "--1",
		"0x10", "1 ", " 1", "NaN", "Infinity", "1.2.3", "1e2e3",
	}
	for _, lit := range invalid {
		e := newEncoder(new(testutil.Sink), defaultOptions())
		err := e.Number(lit)
		if err == nil {
			t.Errorf("Number(%q): no error reported", lit)
			continue
		}
		if !errors.Is(err, ErrBadNumber) {
			t.Errorf("Number(%q): error %v does not wrap ErrBadNumber", lit, err)
		}
	}
}

func TestEncoderFloats(t *testing.T) {
	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		e := newEncoder(new(testutil.Sink), defaultOptions())
		err := e.Float64(f)
		if err == nil {
			t.Errorf("Float64(%v): no error reported", f)
			continue
		}
		if !errors.Is(err, ErrBadNumber) {
			t.Errorf("Float64(%v): error %v does not wrap ErrBadNumber", f, err)
		}
	}
}

func TestEncoderBadTrees(t *testing.T) {
	tests := []struct {
		name string
		v    tree.Value
		want string
	}{
		{"NilValue", nil, "nil tree value"},
		{"EmptyLiteral", tree.Primitive{}, `invalid number literal ""`},
		{"BadNumber", tree.NewObject(tree.Field("n", tree.Number("bogus"))),
			`invalid number literal "bogus"`},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			e := newEncoder(new(testutil.Sink), defaultOptions())
			err := e.Tree(test.v)
			if err == nil {
				t.Fatal("No error reported")
			}
			if !strings.Contains(err.Error(), test.want) {
				t.Errorf("Error: got %v, want %q", err, test.want)
			}
		})
	}
}

func TestEncoderWriteFailure(t *testing.T) {
	sink := &testutil.Sink{Limit: 3}
	e := newEncoder(sink, defaultOptions())
	err := testRecCodec.Encode(e, testRec{Name: "Ada", Age: 36})
	if !errors.Is(err, testutil.ErrLimit) {
		t.Fatalf("Encode: got %v, want %v", err, testutil.ErrLimit)
	}
	if diff := cmp.Diff([]string{"{", "k:name", "s:Ada"}, sink.Ops); diff != "" {
		t.Errorf("Ops: (-want, +got)\n%s", diff)
	}
}
