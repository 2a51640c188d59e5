// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jform

// A shape classifies the structure of a codec's encoded form. It is fixed
// when the codec is constructed and never depends on the value encoded.
type shape byte

const (
	shapeScalar    shape = iota // a single string, number, Boolean, or null
	shapeRecord                 // an object with declared members
	shapeSeq                    // an array of uniform items
	shapeMap                    // a map whose keys encode as strings
	shapeMapStruct              // a map whose keys are structured values
	shapeUnion                  // a tagged choice among variants
	shapeTree                   // a self-describing tree value
)

// A mode is the physical JSON layout selected for one value, determined by
// the codec's shape and the format options.
type mode byte

const (
	modeScalar   mode = iota
	modeObj           // object with declared members
	modeList          // array of items
	modeMap           // object with dynamic keys
	modePairs         // flat array of alternating keys and values
	modePoly          // object with a discriminator member
	modePolyList      // two-element array of tag and value
)

// modeFor selects the layout for a codec of shape sh under o. The only
// failure is a structured-key map when o does not permit one; the caller
// attaches position information to the reported sentinel.
func modeFor(sh shape, o *Options) (mode, error) {
	switch sh {
	case shapeRecord:
		return modeObj, nil
	case shapeSeq:
		return modeList, nil
	case shapeMap:
		return modeMap, nil
	case shapeMapStruct:
		if !o.StructuredMapKeys {
			return 0, ErrStructuredKey
		}
		return modePairs, nil
	case shapeUnion:
		if o.ArrayPolymorphism {
			return modePolyList, nil
		}
		return modePoly, nil
	}
	return modeScalar, nil
}
