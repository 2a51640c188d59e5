// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jform

import (
	"fmt"

	"github.com/creachadair/jform/tree"
	"github.com/creachadair/mds/mapset"
)

// A Case binds one concrete variant of a polymorphic type to its tag.
// Construct cases with [CaseOf].
type Case[T any] struct {
	tag   string
	sh    shape
	match func(T) bool
	enc   func(*Encoder, T) error
	dec   func(*Decoder) (T, error)
}

// Tag reports the tag of c.
func (c Case[T]) Tag() string { return c.tag }

// CaseOf binds the variant type V of a polymorphic type T to tag, encoded
// by c. Encoding dispatches a value to the first case whose variant type it
// has; decoding dispatches on the tag. V must satisfy T as an interface, or
// decoding the case will fail.
func CaseOf[T, V any](tag string, c Codec[V]) Case[T] {
	if c == nil {
		panic(fmt.Sprintf("case %q: nil codec", tag))
	}
	return Case[T]{
		tag: tag,
		sh:  c.shape(),
		match: func(v T) bool {
			_, ok := any(v).(V)
			return ok
		},
		enc: func(e *Encoder, v T) error { return c.Encode(e, any(v).(V)) },
		dec: func(d *Decoder) (T, error) {
			var zero T
			v, err := c.Decode(d)
			if err != nil {
				return zero, err
			}
			t, ok := any(v).(T)
			if !ok {
				return zero, d.failf(ErrBadValue, "variant %T does not satisfy the union type", v)
			}
			return t, nil
		},
	}
}

// UnionOf constructs a codec for the polymorphic type T from its cases. By
// default the encoded form is the object form of the selected variant with
// a discriminator member carrying the tag. Under array polymorphism, the
// encoded form is a two-element array of tag and variant.
//
// UnionOf panics if two cases declare the same tag, or if a tag is empty.
func UnionOf[T any](cases ...Case[T]) Codec[T] {
	seen := mapset.New[string]()
	for _, c := range cases {
		if c.tag == "" {
			panic("empty case tag")
		} else if seen.Has(c.tag) {
			panic(fmt.Sprintf("duplicate case tag %q", c.tag))
		}
		seen.Add(c.tag)
	}
	return &unionCodec[T]{cases: cases}
}

type unionCodec[T any] struct {
	cases []Case[T]
}

func (c *unionCodec[T]) shape() shape { return shapeUnion }

func (c *unionCodec[T]) findTag(tag string) *Case[T] {
	for i := range c.cases {
		if c.cases[i].tag == tag {
			return &c.cases[i]
		}
	}
	return nil
}

func (c *unionCodec[T]) Encode(e *Encoder, v T) error {
	var sel *Case[T]
	for i := range c.cases {
		if c.cases[i].match(v) {
			sel = &c.cases[i]
			break
		}
	}
	if sel == nil {
		return e.failf(ErrBadShape, "no case matches a value of type %T", v)
	}

	m, _ := modeFor(shapeUnion, &e.o)
	if m == modePolyList {
		if err := e.beginArray(); err != nil {
			return err
		}
		if err := e.w.String(sel.tag); err != nil {
			return err
		}
		e.pushIndex(1)
		err := sel.enc(e, v)
		e.pop()
		if err != nil {
			return err
		}
		return e.w.EndArray()
	}

	// Object form. The variant must itself encode as an object, so the
	// discriminator member can be attached when it opens.
	if sel.sh != shapeRecord {
		return e.failf(ErrBadShape, "case %q does not encode as an object", sel.tag)
	}
	e.tag, e.tagSet = sel.tag, true
	err := sel.enc(e, v)
	if e.tagSet {
		e.tag, e.tagSet = "", false
		if err == nil {
			err = e.failf(ErrBadShape, "case %q did not encode an object", sel.tag)
		}
	}
	return err
}

func (c *unionCodec[T]) Decode(d *Decoder) (T, error) {
	var zero T
	m, _ := modeFor(shapeUnion, &d.o)
	if m == modePolyList {
		return c.decodeList(d)
	}

	// Object form. Buffer the value as a tree so the discriminator may
	// appear at any position among the members.
	tv, err := d.Tree()
	if err != nil {
		return zero, err
	}
	obj, ok := tv.(tree.Object)
	if !ok {
		return zero, d.failf(ErrBadValue, "expected object, got %v", kindOf(tv))
	}
	dkey := d.o.discriminator()
	tagv, ok := obj.Find(dkey)
	if !ok {
		return zero, d.failf(ErrMissingKey, "missing discriminator %q", dkey)
	}
	p, ok := tagv.(tree.Primitive)
	if !ok || !p.IsString() {
		return zero, d.failf(ErrBadValue, "discriminator %q is not a string", dkey)
	}
	sel := c.findTag(p.Text())
	if sel == nil {
		return zero, d.failf(ErrBadTag, "unknown tag %q", p.Text())
	}

	rest := make([]tree.Member, 0, obj.Len()-1)
	for i := 0; i < obj.Len(); i++ {
		if m := obj.Index(i); m.Key != dkey {
			rest = append(rest, m)
		}
	}
	sub := &Decoder{r: newTreeReader(tree.NewObject(rest...)), o: d.o, path: d.path}
	return sel.dec(sub)
}

func (c *unionCodec[T]) decodeList(d *Decoder) (T, error) {
	var zero T
	if err := d.beginArray(); err != nil {
		return zero, err
	}
	ok, err := d.r.More()
	if err != nil {
		return zero, d.wrap(err)
	} else if !ok {
		return zero, d.failf(ErrBadValue, "missing variant tag")
	}
	d.pushIndex(0)
	tag, err := d.String()
	d.pop()
	if err != nil {
		return zero, err
	}
	sel := c.findTag(tag)
	if sel == nil {
		return zero, d.failf(ErrBadTag, "unknown tag %q", tag)
	}
	ok, err = d.r.More()
	if err != nil {
		return zero, d.wrap(err)
	} else if !ok {
		return zero, d.failf(ErrBadValue, "missing variant value")
	}
	d.pushIndex(1)
	v, err := sel.dec(d)
	d.pop()
	if err != nil {
		return zero, err
	}
	ok, err = d.r.More()
	if err != nil {
		return zero, d.wrap(err)
	} else if ok {
		return zero, d.failf(ErrBadValue, "extra input after variant")
	}
	return v, nil
}
