// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jform

import (
	"bytes"
	"slices"
	"strings"
)

// SliceOf constructs a codec for slices of E. The encoded form is an array
// of the element encodings. A nil slice encodes as the empty array, and an
// empty array decodes as a nil slice.
func SliceOf[E any](c Codec[E]) Codec[[]E] {
	if c == nil {
		panic("nil element codec")
	}
	return sliceCodec[E]{elt: c}
}

type sliceCodec[E any] struct{ elt Codec[E] }

func (c sliceCodec[E]) shape() shape { return shapeSeq }

func (c sliceCodec[E]) Encode(e *Encoder, v []E) error {
	if err := e.beginArray(); err != nil {
		return err
	}
	for i, item := range v {
		e.pushIndex(i)
		err := c.elt.Encode(e, item)
		e.pop()
		if err != nil {
			return err
		}
	}
	return e.w.EndArray()
}

func (c sliceCodec[E]) Decode(d *Decoder) ([]E, error) {
	if err := d.beginArray(); err != nil {
		return nil, err
	}
	var out []E
	for i := 0; ; i++ {
		ok, err := d.r.More()
		if err != nil {
			return nil, d.wrap(err)
		} else if !ok {
			return out, nil
		}
		d.pushIndex(i)
		item, err := c.elt.Decode(d)
		d.pop()
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
}

// MapOf constructs a codec for maps from K to V. When keys encode as
// strings, meaning the key codec is one of the built-in scalar codecs, the
// encoded form is an object whose member names are the rendered keys. Any
// other key codec makes the map structured: its encoded form is a flat
// array of alternating keys and values, and the format must enable
// structured map keys.
//
// Entries are encoded in increasing order of their rendered keys, so the
// output of a map is deterministic. If the input repeats a key, the last
// binding wins. A nil map encodes as an empty object or array, and empty
// input decodes as an empty non-nil map.
func MapOf[K comparable, V any](kc Codec[K], vc Codec[V]) Codec[map[K]V] {
	if kc == nil || vc == nil {
		panic("nil entry codec")
	}
	c := mapCodec[K, V]{kc: kc, vc: vc}
	if sc, ok := kc.(scalarCodec[K]); ok {
		c.keys = sc.key
	}
	return c
}

type mapCodec[K comparable, V any] struct {
	kc   Codec[K]
	vc   Codec[V]
	keys *keyCaps[K] // non-nil when keys render as member names
}

func (c mapCodec[K, V]) shape() shape {
	if c.keys == nil {
		return shapeMapStruct
	}
	return shapeMap
}

type mapEntry[K comparable, V any] struct {
	text string // the rendered key, for ordering
	key  K
	val  V
}

func (c mapCodec[K, V]) Encode(e *Encoder, v map[K]V) error {
	m, err := modeFor(c.shape(), &e.o)
	if err != nil {
		var zk K
		return e.failf(err, "map keys of type %T are structured", zk)
	}
	if m == modeMap {
		return c.encodeObject(e, v)
	}
	return c.encodePairs(e, v)
}

func (c mapCodec[K, V]) encodeObject(e *Encoder, v map[K]V) error {
	entries := make([]mapEntry[K, V], 0, len(v))
	for k, val := range v {
		text, err := c.keys.format(k)
		if err != nil {
			return e.failf(ErrBadNumber, "cannot render map key: %v", err)
		}
		entries = append(entries, mapEntry[K, V]{text: text, val: val})
	}
	slices.SortFunc(entries, func(a, b mapEntry[K, V]) int {
		return strings.Compare(a.text, b.text)
	})
	if err := e.noTag("a map"); err != nil {
		return err
	}
	if err := e.w.BeginObject(); err != nil {
		return err
	}
	for _, en := range entries {
		e.pushKey(en.text)
		err := e.w.Key(en.text)
		if err == nil {
			err = c.vc.Encode(e, en.val)
		}
		e.pop()
		if err != nil {
			return err
		}
	}
	return e.w.EndObject()
}

func (c mapCodec[K, V]) encodePairs(e *Encoder, v map[K]V) error {
	entries := make([]mapEntry[K, V], 0, len(v))
	for k, val := range v {
		text, err := renderKey(e, c.kc, k)
		if err != nil {
			return err
		}
		entries = append(entries, mapEntry[K, V]{text: text, key: k, val: val})
	}
	slices.SortFunc(entries, func(a, b mapEntry[K, V]) int {
		return strings.Compare(a.text, b.text)
	})
	if err := e.beginArray(); err != nil {
		return err
	}
	for i, en := range entries {
		e.pushIndex(2 * i)
		err := c.kc.Encode(e, en.key)
		e.pop()
		if err != nil {
			return err
		}
		e.pushIndex(2*i + 1)
		err = c.vc.Encode(e, en.val)
		e.pop()
		if err != nil {
			return err
		}
	}
	return e.w.EndArray()
}

// renderKey encodes k compactly to text, to order the entries of a
// structured map. Errors are repositioned onto the path of e.
func renderKey[K any](e *Encoder, kc Codec[K], k K) (string, error) {
	opts := e.o
	opts.Pretty = false
	var buf bytes.Buffer
	w := newTextWriter(&buf, opts)
	sub := newEncoder(w, opts)
	if err := kc.Encode(sub, k); err != nil {
		if ee, ok := err.(*EncodeError); ok {
			ee.Path = renderPath(e.path) + strings.TrimPrefix(ee.Path, "$")
		}
		return "", err
	}
	if err := w.flush(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (c mapCodec[K, V]) Decode(d *Decoder) (map[K]V, error) {
	m, err := modeFor(c.shape(), &d.o)
	if err != nil {
		var zk K
		return nil, d.failf(err, "map keys of type %T are structured", zk)
	}
	if m == modeMap {
		return c.decodeObject(d)
	}
	return c.decodePairs(d)
}

func (c mapCodec[K, V]) decodeObject(d *Decoder) (map[K]V, error) {
	if err := d.beginObject(); err != nil {
		return nil, err
	}
	out := make(map[K]V)
	for {
		key, ok, err := d.r.NextKey()
		if err != nil {
			return nil, d.wrap(err)
		} else if !ok {
			return out, nil
		}
		k, kerr := c.keys.parse(key)
		if kerr != nil {
			return nil, d.failf(ErrBadValue, "invalid map key %q", key)
		}
		d.pushKey(key)
		val, err := c.vc.Decode(d)
		d.pop()
		if err != nil {
			return nil, err
		}
		out[k] = val
	}
}

func (c mapCodec[K, V]) decodePairs(d *Decoder) (map[K]V, error) {
	if err := d.beginArray(); err != nil {
		return nil, err
	}
	out := make(map[K]V)
	for i := 0; ; i += 2 {
		ok, err := d.r.More()
		if err != nil {
			return nil, d.wrap(err)
		} else if !ok {
			return out, nil
		}
		d.pushIndex(i)
		k, err := c.kc.Decode(d)
		d.pop()
		if err != nil {
			return nil, err
		}
		ok, err = d.r.More()
		if err != nil {
			return nil, d.wrap(err)
		} else if !ok {
			return nil, d.failf(ErrBadValue, "missing value for map key")
		}
		d.pushIndex(i + 1)
		val, err := c.vc.Decode(d)
		d.pop()
		if err != nil {
			return nil, err
		}
		out[k] = val
	}
}

// Ptr constructs a codec for *T in which nil encodes as null. A non-nil
// pointer has the encoding of its referent, so the codec keeps the shape of
// its element.
func Ptr[T any](c Codec[T]) Codec[*T] {
	if c == nil {
		panic("nil element codec")
	}
	return ptrCodec[T]{elt: c}
}

type ptrCodec[T any] struct{ elt Codec[T] }

func (c ptrCodec[T]) shape() shape { return c.elt.shape() }

func (c ptrCodec[T]) Encode(e *Encoder, v *T) error {
	if v == nil {
		return e.Null()
	}
	return c.elt.Encode(e, *v)
}

func (c ptrCodec[T]) Decode(d *Decoder) (*T, error) {
	k, err := d.Peek()
	if err != nil {
		return nil, err
	}
	if k == KindNull {
		if err := d.Null(); err != nil {
			return nil, err
		}
		return nil, nil
	}
	v, err := c.elt.Decode(d)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
