// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package tree

import (
	"hash/fnv"
	"io"
	"slices"
)

// Equal reports whether a and b are structurally equal. Two primitives are
// equal if they have the same text and quotation; two objects are equal if
// they have the same keys with structurally equal values, regardless of
// member order; two arrays are equal if they have the same values in the
// same order.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	switch t := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok
	case Primitive:
		u, ok := b.(Primitive)
		return ok && t == u
	case Object:
		u, ok := b.(Object)
		if !ok || len(t.members) != len(u.members) {
			return false
		}
		for _, m := range t.members {
			w, ok := u.Find(m.Key)
			if !ok || !Equal(m.Value, w) {
				return false
			}
		}
		return true
	case Array:
		u, ok := b.(Array)
		if !ok || len(t.items) != len(u.items) {
			return false
		}
		for i, v := range t.items {
			if !Equal(v, u.items[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// Hash returns a structural hash of v, an FNV-1a digest of a canonical
// rendering of the value in which object members are ordered by key.
// Values that compare equal under [Equal] have equal hashes. Hash panics if
// v is nil.
func Hash(v Value) uint64 {
	h := fnv.New64a()
	hashValue(h, v)
	return h.Sum64()
}

func hashValue(w io.Writer, v Value) {
	switch t := v.(type) {
	case Object:
		io.WriteString(w, "{")
		keys := t.Keys()
		slices.Sort(keys)
		for i, key := range keys {
			if i > 0 {
				io.WriteString(w, ",")
			}
			io.WriteString(w, String(key).JSON())
			io.WriteString(w, ":")
			mv, _ := t.Find(key)
			hashValue(w, mv)
		}
		io.WriteString(w, "}")
	case Array:
		io.WriteString(w, "[")
		for i, item := range t.items {
			if i > 0 {
				io.WriteString(w, ",")
			}
			hashValue(w, item)
		}
		io.WriteString(w, "]")
	default:
		io.WriteString(w, v.JSON())
	}
}
