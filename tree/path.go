// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package tree

import "fmt"

// Path traverses a sequence of object keys and array indices starting from
// root, and returns the value it arrives at. Each element of path must be a
// string, to select the value of an object member, or an int, to select an
// item of an array. A negative index selects from the end of the array.
//
// Path reports an error if a key or index is not present, or if the value at
// a step is not the right container for the element. It panics if a path
// element is neither a string nor an int.
func Path(root Value, path ...any) (Value, error) {
	cur := root
	for i, elt := range path {
		switch t := elt.(type) {
		case string:
			o, ok := cur.(Object)
			if !ok {
				return nil, fmt.Errorf("path %d: want object, have %T", i, cur)
			}
			v, ok := o.Find(t)
			if !ok {
				return nil, fmt.Errorf("path %d: key %q not found", i, t)
			}
			cur = v
		case int:
			a, ok := cur.(Array)
			if !ok {
				return nil, fmt.Errorf("path %d: want array, have %T", i, cur)
			}
			if t < 0 {
				t += a.Len()
			}
			if t < 0 || t >= a.Len() {
				return nil, fmt.Errorf("path %d: index %v out of range (0..%d)", i, elt, a.Len())
			}
			cur = a.items[t]
		default:
			panic(fmt.Sprintf("invalid path element %T", elt))
		}
	}
	return cur, nil
}
