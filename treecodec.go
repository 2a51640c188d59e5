// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jform

import "github.com/creachadair/jform/tree"

type treeCodec struct{}

func (treeCodec) shape() shape                          { return shapeTree }
func (treeCodec) Encode(e *Encoder, v tree.Value) error { return e.Tree(v) }
func (treeCodec) Decode(d *Decoder) (tree.Value, error) { return d.Tree() }

type treeObjectCodec struct{}

func (treeObjectCodec) shape() shape { return shapeTree }

func (treeObjectCodec) Encode(e *Encoder, v tree.Object) error { return e.Tree(v) }

func (treeObjectCodec) Decode(d *Decoder) (tree.Object, error) {
	v, err := d.Tree()
	if err != nil {
		return tree.Object{}, err
	}
	obj, ok := v.(tree.Object)
	if !ok {
		return tree.Object{}, d.failf(ErrBadValue, "expected object, got %v", kindOf(v))
	}
	return obj, nil
}

type treeArrayCodec struct{}

func (treeArrayCodec) shape() shape { return shapeTree }

func (treeArrayCodec) Encode(e *Encoder, v tree.Array) error { return e.Tree(v) }

func (treeArrayCodec) Decode(d *Decoder) (tree.Array, error) {
	v, err := d.Tree()
	if err != nil {
		return tree.Array{}, err
	}
	arr, ok := v.(tree.Array)
	if !ok {
		return tree.Array{}, d.failf(ErrBadValue, "expected array, got %v", kindOf(v))
	}
	return arr, nil
}

type treePrimitiveCodec struct{}

func (treePrimitiveCodec) shape() shape { return shapeTree }

func (treePrimitiveCodec) Encode(e *Encoder, v tree.Primitive) error { return e.Tree(v) }

func (treePrimitiveCodec) Decode(d *Decoder) (tree.Primitive, error) {
	v, err := d.Tree()
	if err != nil {
		return tree.Primitive{}, err
	}
	p, ok := v.(tree.Primitive)
	if !ok {
		return tree.Primitive{}, d.failf(ErrBadValue, "expected primitive, got %v", kindOf(v))
	}
	return p, nil
}

type treeNullCodec struct{}

func (treeNullCodec) shape() shape { return shapeTree }

func (treeNullCodec) Encode(e *Encoder, _ tree.Null) error { return e.Null() }

func (treeNullCodec) Decode(d *Decoder) (tree.Null, error) {
	if err := d.Null(); err != nil {
		return tree.Null{}, err
	}
	return tree.Null{}, nil
}

// emitTree writes v to e. The encoding is structural: object members are
// written in their stored order, and primitive literals are validated the
// same way directly encoded values are.
func emitTree(e *Encoder, v tree.Value) error {
	switch t := v.(type) {
	case nil:
		return e.failf(ErrBadShape, "nil tree value")
	case tree.Null:
		return e.Null()
	case tree.Primitive:
		if t.IsString() {
			return e.String(t.Text())
		}
		switch t.Text() {
		case "true":
			return e.Bool(true)
		case "false":
			return e.Bool(false)
		}
		return e.Number(t.Text())
	case tree.Object:
		if err := e.beginObject(); err != nil {
			return err
		}
		for i := 0; i < t.Len(); i++ {
			m := t.Index(i)
			e.pushKey(m.Key)
			err := e.w.Key(m.Key)
			if err == nil {
				err = emitTree(e, m.Value)
			}
			e.pop()
			if err != nil {
				return err
			}
		}
		return e.w.EndObject()
	case tree.Array:
		if err := e.beginArray(); err != nil {
			return err
		}
		for i := 0; i < t.Len(); i++ {
			e.pushIndex(i)
			err := emitTree(e, t.Index(i))
			e.pop()
			if err != nil {
				return err
			}
		}
		return e.w.EndArray()
	}
	return e.failf(ErrBadShape, "invalid tree value %T", v)
}

// readTree consumes one complete value from d and returns it as a tree.
// When d reads from a tree already, the value is taken whole without a
// token walk. Number literals are preserved exactly as read.
func readTree(d *Decoder) (tree.Value, error) {
	if tr, ok := d.r.(*treeReader); ok {
		v, err := tr.takeValue()
		if err != nil {
			return nil, d.wrap(err)
		}
		return v, nil
	}
	k, err := d.Peek()
	if err != nil {
		return nil, err
	}
	switch k {
	case KindNull:
		if err := d.Null(); err != nil {
			return nil, err
		}
		return tree.Null{}, nil
	case KindBool:
		b, err := d.Bool()
		if err != nil {
			return nil, err
		}
		return tree.Bool(b), nil
	case KindNumber:
		text, err := d.Number()
		if err != nil {
			return nil, err
		}
		return tree.Number(text), nil
	case KindString:
		s, err := d.String()
		if err != nil {
			return nil, err
		}
		return tree.String(s), nil
	case KindObject:
		if err := d.beginObject(); err != nil {
			return nil, err
		}
		var ms []tree.Member
		for {
			key, ok, err := d.r.NextKey()
			if err != nil {
				return nil, d.wrap(err)
			} else if !ok {
				return tree.NewObject(ms...), nil
			}
			d.pushKey(key)
			v, err := readTree(d)
			d.pop()
			if err != nil {
				return nil, err
			}
			ms = append(ms, tree.Member{Key: key, Value: v})
		}
	case KindArray:
		if err := d.beginArray(); err != nil {
			return nil, err
		}
		var items []tree.Value
		for i := 0; ; i++ {
			ok, err := d.r.More()
			if err != nil {
				return nil, d.wrap(err)
			} else if !ok {
				return tree.NewArray(items...), nil
			}
			d.pushIndex(i)
			v, err := readTree(d)
			d.pop()
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
	}
	return nil, d.failf(ErrBadValue, "invalid input")
}
