// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jform

import (
	"fmt"
	"sync"

	"github.com/creachadair/mds/mapset"
)

// A FieldSpec describes one field of a record codec built by [ObjectOf]:
// its declared name, how its value is reached within the record, and its
// default, if it has one. Construct field specifications with [Req], [Opt],
// and [OptFunc].
type FieldSpec[T any] struct {
	name       string
	enc        func(*Encoder, *T) error
	dec        func(*Decoder, *T) error
	isDefault  func(*T) bool // nil for required fields
	setDefault func(*T)
}

// Req constructs the specification of a required field. The at function
// addresses the field within its record, and c encodes the field value. A
// required field is always encoded, and decoding reports an error wrapping
// [ErrMissingKey] if the field is absent from the input.
func Req[T, F any](name string, c Codec[F], at func(*T) *F) FieldSpec[T] {
	if c == nil {
		panic(fmt.Sprintf("field %q: nil codec", name))
	} else if at == nil {
		panic(fmt.Sprintf("field %q: nil accessor", name))
	}
	return FieldSpec[T]{
		name: name,
		enc:  func(e *Encoder, v *T) error { return c.Encode(e, *at(v)) },
		dec: func(d *Decoder, v *T) error {
			f, err := c.Decode(d)
			if err != nil {
				return err
			}
			*at(v) = f
			return nil
		},
	}
}

// Opt constructs the specification of an optional field whose declared
// default is def. When the format omits defaults, the field is skipped
// whenever its value equals def; when the field is absent from decoded
// input, def is filled in.
func Opt[T any, F comparable](name string, c Codec[F], at func(*T) *F, def F) FieldSpec[T] {
	fs := Req(name, c, at)
	fs.isDefault = func(v *T) bool { return *at(v) == def }
	fs.setDefault = func(v *T) { *at(v) = def }
	return fs
}

// OptFunc is [Opt] for field types that are not comparable. The eq function
// reports whether a field value is equal to the default.
func OptFunc[T, F any](name string, c Codec[F], at func(*T) *F, def F, eq func(F, F) bool) FieldSpec[T] {
	if eq == nil {
		panic(fmt.Sprintf("field %q: nil equality", name))
	}
	fs := Req(name, c, at)
	fs.isDefault = func(v *T) bool { return eq(*at(v), def) }
	fs.setDefault = func(v *T) { *at(v) = def }
	return fs
}

// ObjectOf constructs a codec for a record type T from the specifications
// of its fields. The encoded form is an object with one member per field,
// in declaration order. ObjectOf panics if two fields declare the same
// name, or if a name is empty.
func ObjectOf[T any](fields ...FieldSpec[T]) Codec[T] {
	declared := make([]string, len(fields))
	seen := mapset.New[string]()
	for i, f := range fields {
		if f.name == "" {
			panic("empty field name")
		} else if seen.Has(f.name) {
			panic(fmt.Sprintf("duplicate field name %q", f.name))
		}
		seen.Add(f.name)
		declared[i] = f.name
	}
	return &objectCodec[T]{fields: fields, wire: &wireTables{declared: declared}}
}

type objectCodec[T any] struct {
	fields []FieldSpec[T]
	wire   *wireTables
}

func (c *objectCodec[T]) shape() shape { return shapeRecord }

func (c *objectCodec[T]) Encode(e *Encoder, v T) error {
	names, _ := c.wire.get(e.o.KeyCase)
	if err := e.beginObject(); err != nil {
		return err
	}
	for i := range c.fields {
		f := &c.fields[i]
		if !e.o.EncodeDefaults && f.isDefault != nil && f.isDefault(&v) {
			continue
		}
		e.pushKey(names[i])
		err := e.w.Key(names[i])
		if err == nil {
			err = f.enc(e, &v)
		}
		e.pop()
		if err != nil {
			return err
		}
	}
	return e.w.EndObject()
}

func (c *objectCodec[T]) Decode(d *Decoder) (T, error) {
	var v T
	names, index := c.wire.get(d.o.KeyCase)
	if err := d.beginObject(); err != nil {
		return v, err
	}
	var seen fieldSet
	seen.init(len(c.fields))
	for {
		key, ok, err := d.r.NextKey()
		if err != nil {
			return v, d.wrap(err)
		} else if !ok {
			break
		}
		i, found := index[key]
		if !found {
			if d.o.Strict {
				return v, d.failf(ErrUnknownKey, "unknown key %q", key)
			}
			if err := d.r.Skip(); err != nil {
				return v, d.wrap(err)
			}
			continue
		}
		d.pushKey(key)
		err = c.fields[i].dec(d, &v)
		d.pop()
		if err != nil {
			return v, err
		}
		seen.add(i)
	}
	for i := range c.fields {
		if seen.has(i) {
			continue
		}
		f := &c.fields[i]
		if f.setDefault == nil {
			return v, d.failf(ErrMissingKey, "missing required key %q", names[i])
		}
		f.setDefault(&v)
	}
	return v, nil
}

// wireTables maps the declared field names of a record codec to their wire
// keys under each case strategy. Tables are built lazily, at most once per
// strategy, and shared by all formats using the codec.
type wireTables struct {
	declared []string
	tabs     [numCaseStrategies]wireTab
}

type wireTab struct {
	once  sync.Once
	names []string       // wire name per field, in declaration order
	index map[string]int // wire name to field position
}

// get returns the wire names and lookup index for cs. It panics if cs maps
// two declared names to the same wire key.
func (w *wireTables) get(cs CaseStrategy) ([]string, map[string]int) {
	if cs >= numCaseStrategies {
		cs = CaseAsIs
	}
	t := &w.tabs[cs]
	t.once.Do(func() {
		t.names = make([]string, len(w.declared))
		t.index = make(map[string]int, len(w.declared))
		for i, name := range w.declared {
			wn := cs.convert(name)
			if _, dup := t.index[wn]; dup {
				panic(fmt.Sprintf("case strategy %v maps multiple fields to key %q", cs, wn))
			}
			t.names[i] = wn
			t.index[wn] = i
		}
	})
	return t.names, t.index
}

// A fieldSet records which fields of a record have been decoded. Records of
// up to 64 fields are tracked without allocation.
type fieldSet struct {
	low  uint64
	rest []uint64
}

func (s *fieldSet) init(n int) {
	if n > 64 {
		s.rest = make([]uint64, (n+63)/64-1)
	}
}

func (s *fieldSet) add(i int) {
	if i < 64 {
		s.low |= 1 << i
	} else {
		s.rest[i/64-1] |= 1 << (i % 64)
	}
}

func (s *fieldSet) has(i int) bool {
	if i < 64 {
		return s.low&(1<<i) != 0
	}
	return s.rest[i/64-1]&(1<<(i%64)) != 0
}
