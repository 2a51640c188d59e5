// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jform_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/creachadair/jform"
	"github.com/creachadair/jform/tree"
	"github.com/creachadair/mds/mtest"
	"github.com/google/go-cmp/cmp"
)

func TestPresets(t *testing.T) {
	base := jform.Options{
		EncodeDefaults: true,
		Strict:         true,
		Indent:         "    ",
		Discriminator:  "type",
	}
	tests := []struct {
		name string
		f    *jform.Format
		want jform.Options
	}{
		{"Default", jform.Default, base},
		{"Indented", jform.Indented, func() jform.Options { o := base; o.Pretty = true; return o }()},
		{"Unquoted", jform.Unquoted, func() jform.Options { o := base; o.UnquotedKeys = true; return o }()},
		{"Lenient", jform.Lenient, func() jform.Options { o := base; o.Strict = false; return o }()},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := test.f.Options(); got != test.want {
				t.Errorf("Options: got %+v, want %+v", got, test.want)
			}
		})
	}
}

func TestNewWithOptions(t *testing.T) {
	// The zero Options are usable as given, and an empty discriminator
	// reads as "type" without being rewritten.
	f := jform.NewWithOptions(jform.Options{})
	if got := f.Options(); got != (jform.Options{}) {
		t.Errorf("Options: got %+v, want zero", got)
	}
	got, err := jform.MarshalString(f, eventCodec, click{X: 1, Y: 2})
	if err != nil || got != `{"type":"click","x":1,"y":2}` {
		t.Errorf("Marshal: got %#q, %v", got, err)
	}

	t.Run("CaseClamp", func(t *testing.T) {
		f := jform.NewWithOptions(jform.Options{KeyCase: jform.CaseStrategy(250)})
		if got := f.Options().KeyCase; got != jform.CaseAsIs {
			t.Errorf("KeyCase: got %v, want %v", got, jform.CaseAsIs)
		}
	})

	t.Run("EmptyDiscriminator", func(t *testing.T) {
		mtest.MustPanic(t, func() { jform.Discriminator("") })
	})
}

func TestEncodeToWriter(t *testing.T) {
	v := person{Name: "Ada", Title: "Dr", Age: 36, Tags: []string{"x"}}
	want, err := jform.MarshalString(jform.Default, personCodec, v)
	if err != nil {
		t.Fatalf("Marshal: unexpected error: %v", err)
	}

	var sb strings.Builder
	if err := jform.Encode(jform.Default, personCodec, &sb, v); err != nil {
		t.Fatalf("Encode: unexpected error: %v", err)
	}
	if got := sb.String(); got != want {
		t.Errorf("Encode: got %#q, want %#q", got, want)
	}
	if strings.HasSuffix(sb.String(), "\n") {
		t.Error("Encode emitted a trailing newline")
	}
}

func TestPretty(t *testing.T) {
	v := person{Name: "Ada", Title: "Dr", Age: 36, Tags: []string{"x", "y"}}
	const want = "{\n    \"name\": \"Ada\",\n    \"title\": \"Dr\",\n    \"age\": 36,\n" +
		"    \"tags\": [\n        \"x\",\n        \"y\"\n    ]\n}"
	got, err := jform.MarshalString(jform.Indented, personCodec, v)
	if err != nil {
		t.Fatalf("Marshal: unexpected error: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Output: (-want, +got)\n%s", diff)
	}

	t.Run("Tabs", func(t *testing.T) {
		f := jform.New(jform.PrettyPrint("\t"))
		c := jform.MapOf(jform.String, jform.Int)
		got, err := jform.MarshalString(f, c, map[string]int{"a": 1, "b": 2})
		if err != nil {
			t.Fatalf("Marshal: unexpected error: %v", err)
		}
		if want := "{\n\t\"a\": 1,\n\t\"b\": 2\n}"; got != want {
			t.Errorf("Output: got %#q, want %#q", got, want)
		}
	})

	t.Run("Decode", func(t *testing.T) {
		// Pretty output is ordinary JSON and decodes under any format.
		back, err := jform.UnmarshalString(jform.Default, personCodec, got)
		if err != nil {
			t.Fatalf("Unmarshal: unexpected error: %v", err)
		}
		if diff := cmp.Diff(v, back); diff != "" {
			t.Errorf("Round trip: (-want, +got)\n%s", diff)
		}
	})
}

func TestUnquotedFormat(t *testing.T) {
	v := person{Name: "Ada", Title: "Dr", Age: 36, Tags: []string{"x"}}
	testRoundTrip(t, jform.Unquoted, personCodec, v,
		`{name:"Ada",title:"Dr",age:36,tags:["x"]}`)

	// Keys that are not identifiers keep their quotes.
	c := jform.MapOf(jform.String, jform.Int)
	testRoundTrip(t, jform.Unquoted, c, map[string]int{"a": 1, "a b": 2},
		`{a:1,"a b":2}`)

	t.Run("StrictGrammar", func(t *testing.T) {
		_, err := jform.UnmarshalString(jform.Default, personCodec, `{name:"Ada"}`)
		if err == nil {
			t.Error("Default format accepted a bare key")
		} else {
			t.Logf("Got expected error: %v", err)
		}
	})
}

func TestTrailingData(t *testing.T) {
	_, err := jform.UnmarshalString(jform.Default, jform.Int, `5 6`)
	if !errors.Is(err, jform.ErrTrailingData) {
		t.Fatalf("Unmarshal: got %v, want ErrTrailingData", err)
	}
	if got, want := err.Error(), "decode $: trailing data after value"; got != want {
		t.Errorf("Error: got %q, want %q", got, want)
	}

	if v, err := jform.UnmarshalString(jform.Default, jform.Int, "5 \n "); err != nil || v != 5 {
		t.Errorf("Unmarshal: got %v, %v; want 5, nil", v, err)
	}

	// Junk after the value that is not even a token is a syntax error.
	_, err = jform.UnmarshalString(jform.Default, jform.Int, `5 @`)
	var serr *jform.SyntaxError
	if !errors.As(err, &serr) {
		t.Errorf("Unmarshal: got %v, want *SyntaxError", err)
	}
}

func TestMarshalValue(t *testing.T) {
	mustParse := func(t *testing.T, s string) tree.Value {
		t.Helper()
		v, err := jform.Default.ParseValue([]byte(s))
		if err != nil {
			t.Fatalf("ParseValue %#q: unexpected error: %v", s, err)
		}
		return v
	}

	v := person{Name: "Ada", Title: "Dr", Age: 36, Tags: []string{"x"}}
	got, err := jform.MarshalValue(jform.Default, personCodec, v)
	if err != nil {
		t.Fatalf("MarshalValue: unexpected error: %v", err)
	}
	want := mustParse(t, `{"name":"Ada","title":"Dr","age":36,"tags":["x"]}`)
	if !tree.Equal(got, want) {
		t.Errorf("MarshalValue: got %s, want %s", got.JSON(), want.JSON())
	}

	t.Run("Elision", func(t *testing.T) {
		// Format options shape the tree the same way they shape text.
		f := jform.New(jform.EncodeDefaults(false))
		got, err := jform.MarshalValue(f, personCodec, person{Name: "Ada", Title: "none"})
		if err != nil {
			t.Fatalf("MarshalValue: unexpected error: %v", err)
		}
		if !tree.Equal(got, mustParse(t, `{"name":"Ada"}`)) {
			t.Errorf("MarshalValue: got %s", got.JSON())
		}
	})

	t.Run("Union", func(t *testing.T) {
		got, err := jform.MarshalValue(jform.Default, eventCodec, click{X: 3, Y: 4})
		if err != nil {
			t.Fatalf("MarshalValue: unexpected error: %v", err)
		}
		if !tree.Equal(got, mustParse(t, `{"type":"click","x":3,"y":4}`)) {
			t.Errorf("MarshalValue: got %s", got.JSON())
		}
	})

	t.Run("Error", func(t *testing.T) {
		if got, err := jform.MarshalValue(jform.Default, eventCodec, tick(5)); err == nil {
			t.Errorf("MarshalValue: got %v, want error", got)
		}
	})
}

func TestUnmarshalValue(t *testing.T) {
	root, err := jform.Default.ParseValue([]byte(`{"name":"Ada","title":"Dr","age":36,"tags":[]}`))
	if err != nil {
		t.Fatalf("ParseValue: unexpected error: %v", err)
	}
	got, err := jform.UnmarshalValue(jform.Default, personCodec, root)
	if err != nil {
		t.Fatalf("UnmarshalValue: unexpected error: %v", err)
	}
	want := person{Name: "Ada", Title: "Dr", Age: 36}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Result: (-want, +got)\n%s", diff)
	}

	t.Run("WrongShape", func(t *testing.T) {
		_, err := jform.UnmarshalValue(jform.Default, personCodec, tree.String("no"))
		if !errors.Is(err, jform.ErrBadValue) {
			t.Fatalf("Error %v does not wrap ErrBadValue", err)
		}
		if want := "expected object, got string"; !strings.Contains(err.Error(), want) {
			t.Errorf("Error: got %v, want %q", err, want)
		}
	})

	t.Run("NilRoot", func(t *testing.T) {
		// A nil root reads as null.
		got, err := jform.UnmarshalValue(jform.Default, jform.Ptr(jform.Int), nil)
		if err != nil || got != nil {
			t.Errorf("UnmarshalValue: got %v, %v; want nil, nil", got, err)
		}
	})
}

func TestValueTextAgreement(t *testing.T) {
	// Encoding to a tree and rendering it agrees with encoding to text.
	check := func(t *testing.T, f *jform.Format, c jform.Codec[event], v event) {
		t.Helper()
		text, err := jform.MarshalString(f, c, v)
		if err != nil {
			t.Fatalf("Marshal: unexpected error: %v", err)
		}
		tv, err := jform.MarshalValue(f, c, v)
		if err != nil {
			t.Fatalf("MarshalValue: unexpected error: %v", err)
		}
		if got := tv.JSON(); got != text {
			t.Errorf("Renderings differ: text %#q, tree %#q", text, got)
		}
	}
	check(t, jform.Default, eventCodec, click{X: 3, Y: 4})
	check(t, jform.Default, eventCodec, keypress{Key: "tab"})
	check(t, jform.New(jform.ArrayPolymorphism(true)), eventCodec, tick(5))
}

func TestParseValue(t *testing.T) {
	const input = `[1.0e2,"x",{"k":null}]`
	v, err := jform.Default.ParseValue([]byte(input))
	if err != nil {
		t.Fatalf("ParseValue: unexpected error: %v", err)
	}

	// Number literals survive the round trip through the tree verbatim.
	if got := v.JSON(); got != input {
		t.Errorf("JSON: got %#q, want %#q", got, input)
	}
	elt, err := tree.Path(v, 0)
	if err != nil {
		t.Fatalf("Path: unexpected error: %v", err)
	}
	if got := elt.JSON(); got != "1.0e2" {
		t.Errorf("Element 0: got %#q, want 1.0e2", got)
	}

	t.Run("Invalid", func(t *testing.T) {
		_, err := jform.Default.ParseValue([]byte(`[1,`))
		var serr *jform.SyntaxError
		if !errors.As(err, &serr) {
			t.Errorf("ParseValue: got %v, want *SyntaxError", err)
		}
	})
}

func TestParseValueHuman(t *testing.T) {
	const input = `// configuration
{
  "name": "Ada", // who
  "age": 36,
}`
	v, err := jform.Default.ParseValueHuman([]byte(input))
	if err != nil {
		t.Fatalf("ParseValueHuman: unexpected error: %v", err)
	}
	want, err := jform.Default.ParseValue([]byte(`{"name":"Ada","age":36}`))
	if err != nil {
		t.Fatalf("ParseValue: unexpected error: %v", err)
	}
	if !tree.Equal(v, want) {
		t.Errorf("ParseValueHuman: got %s, want %s", v.JSON(), want.JSON())
	}

	t.Run("Invalid", func(t *testing.T) {
		_, err := jform.Default.ParseValueHuman([]byte(`{"a":1`))
		if err == nil || !strings.HasPrefix(err.Error(), "standardize:") {
			t.Errorf("ParseValueHuman: got %v, want standardize error", err)
		}
	})
}

func TestUnmarshalHuman(t *testing.T) {
	const input = `{
  "name": "Ada", /* inline */
  "age": 36,
}`
	got, err := jform.UnmarshalHuman(jform.Default, personCodec, []byte(input))
	if err != nil {
		t.Fatalf("UnmarshalHuman: unexpected error: %v", err)
	}
	want := person{Name: "Ada", Title: "none", Age: 36}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Result: (-want, +got)\n%s", diff)
	}
}

func TestRegistry(t *testing.T) {
	builtin := []string{"tree.Array", "tree.Null", "tree.Object", "tree.Primitive", "tree.Value"}

	t.Run("Builtin", func(t *testing.T) {
		reg := jform.Default.Registry()
		if diff := cmp.Diff(builtin, reg.Names()); diff != "" {
			t.Errorf("Names: (-want, +got)\n%s", diff)
		}
		if c, ok := jform.Lookup[tree.Value](reg, "tree.Value"); !ok || c == nil {
			t.Error("Lookup tree.Value failed")
		}
		if _, ok := jform.Lookup[int](reg, "tree.Value"); ok {
			t.Error("Lookup with the wrong type unexpectedly succeeded")
		}
		if _, ok := jform.Lookup[tree.Value](reg, "nonesuch"); ok {
			t.Error("Lookup of an unregistered name unexpectedly succeeded")
		}
	})

	t.Run("Custom", func(t *testing.T) {
		r := jform.NewRegistry()
		jform.Register(r, "point", pointCodec)
		f := jform.New(jform.WithRegistry(r))

		reg := f.Registry()
		if got, want := reg.Len(), len(builtin)+1; got != want {
			t.Errorf("Len: got %d, want %d", got, want)
		}
		c, ok := jform.Lookup[point](reg, "point")
		if !ok {
			t.Fatal("Lookup point failed")
		}
		got, err := jform.MarshalString(f, c, point{X: 1, Y: 2})
		if err != nil || got != `{"x":1,"y":2}` {
			t.Errorf("Marshal: got %#q, %v", got, err)
		}

		// The attached copy is frozen, the source is not.
		mtest.MustPanic(t, func() { jform.Register(reg, "more", jform.Int) })
		jform.Register(r, "more", jform.Int)
		if _, ok := jform.Lookup[int](reg, "more"); ok {
			t.Error("Later source registration leaked into the frozen copy")
		}
	})

	t.Run("Panics", func(t *testing.T) {
		r := jform.NewRegistry()
		jform.Register(r, "dup", jform.Int)
		mtest.MustPanic(t, func() { jform.Register(r, "dup", jform.Int) })
		mtest.MustPanic(t, func() { jform.Register(r, "", jform.Int) })
		mtest.MustPanic(t, func() { jform.Register[int](r, "nil", nil) })

		// Colliding with a built-in name is reported at construction.
		r2 := jform.NewRegistry()
		jform.Register(r2, "tree.Value", jform.Int)
		mtest.MustPanic(t, func() { jform.New(jform.WithRegistry(r2)) })
	})
}
