// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jform

import (
	"fmt"
	"slices"
)

// A Registry maps stable string names to codecs, so that codecs can be
// looked up by identity at runtime, for example to choose a payload codec
// from a message header. Construct a registry with NewRegistry, add entries
// with [Register], and attach it to a Format with [WithRegistry].
//
// A registry is mutable until it is attached to a Format. Attachment copies
// the entries, and the copy held by the Format is frozen: the Format is
// safe for concurrent use and later changes to the source registry do not
// affect it.
type Registry struct {
	frozen bool
	m      map[string]any
}

// NewRegistry constructs a new empty registry.
func NewRegistry() *Registry { return &Registry{m: make(map[string]any)} }

// Register adds a codec to r under name. Register panics if name is empty
// or already present, or if r is frozen.
func Register[T any](r *Registry, name string, c Codec[T]) {
	if r.frozen {
		panic("register in frozen registry")
	} else if name == "" {
		panic("empty registration name")
	} else if c == nil {
		panic(fmt.Sprintf("register %q: nil codec", name))
	}
	if _, ok := r.m[name]; ok {
		panic(fmt.Sprintf("duplicate registration for %q", name))
	}
	r.m[name] = c
}

// Lookup reports whether r has a codec for type T under name, and returns
// the codec if so. Lookup fails if name is not registered or is bound to a
// codec of a different type.
func Lookup[T any](r *Registry, name string) (Codec[T], bool) {
	c, ok := r.m[name].(Codec[T])
	return c, ok
}

// Names returns the names registered in r, in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.m))
	for name := range r.m {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Len reports the number of entries in r.
func (r *Registry) Len() int { return len(r.m) }

// merge adds the entries of reg to r, panicking on a name collision.
func (r *Registry) merge(reg *Registry) {
	if reg == nil {
		return
	}
	for name, c := range reg.m {
		if _, ok := r.m[name]; ok {
			panic(fmt.Sprintf("duplicate registration for %q", name))
		}
		r.m[name] = c
	}
}

// builtinRegistry returns a new registry seeded with the tree family
// codecs, the context every Format starts from.
func builtinRegistry() *Registry {
	r := NewRegistry()
	Register(r, "tree.Value", Tree)
	Register(r, "tree.Object", TreeObject)
	Register(r, "tree.Array", TreeArray)
	Register(r, "tree.Primitive", TreePrimitive)
	Register(r, "tree.Null", TreeNull)
	return r
}
