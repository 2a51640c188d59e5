// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Package jform implements a configurable JSON serialization format.
//
// A [Format] carries a complete set of serialization options, and a
// [Codec] describes how values of a single Go type correspond to JSON
// structure. One codec serves every target: JSON text, io streams, and the
// [tree.Value] form defined in the tree subpackage. Encoding a value to a
// tree and rendering the tree as text always produces the same output as
// encoding the value to text directly.
//
// # Codecs
//
// The scalar codecs [Bool], [Int], [Int64], [Float64], and [String] handle
// single values. Composite codecs are built from them:
//
//	type Person struct {
//	    Name string
//	    Age  int
//	}
//
//	var personCodec = jform.ObjectOf(
//	    jform.Req("name", jform.String, func(p *Person) *string { return &p.Name }),
//	    jform.Opt("age", jform.Int, func(p *Person) *int { return &p.Age }, 0),
//	)
//
// [ObjectOf] describes records, [SliceOf] sequences, [MapOf] maps, and
// [UnionOf] polymorphic choices among tagged variants. [Ptr] makes any
// codec nullable, and [ScalarOf] adapts a custom single-value
// representation. Codecs are immutable and may be shared freely, including
// across formats with different options.
//
// # Formats
//
// A format is constructed once and reused:
//
//	text, err := jform.MarshalString(jform.Default, personCodec, p)
//	p, err := jform.UnmarshalString(jform.Default, personCodec, text)
//
// The presets [Default], [Indented], [Unquoted], and [Lenient] cover common
// configurations. Construct others with [New] from functional options, or
// with [NewWithOptions] from an explicit [Options] value whose meaning is
// stable across releases:
//
//	f := jform.New(jform.PrettyPrint("  "), jform.Strict(false))
//
// All entry points of a format apply the same options, so a value decodes
// under the format that encoded it regardless of target.
//
// # Trees
//
// The tree subpackage defines a small immutable value model for JSON data
// whose structure is not known ahead of time. [MarshalValue] and
// [UnmarshalValue] connect codecs to trees, (*Format).ParseValue parses
// text into a tree, and the [Tree] codec embeds free-form data inside
// typed records.
//
// # Errors
//
// Errors are classified by concrete type: [*SyntaxError] for malformed
// input text, [*DecodeError] for well-formed input that does not match the
// structure a codec requires, and [*EncodeError] for values the format
// cannot represent. Decode and encode errors carry the structural path to
// the failure and wrap sentinel errors such as [ErrMissingKey] that can be
// matched with errors.Is.
package jform
