// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jform

import "github.com/iancoleman/strcase"

// Options carry the complete settings of a Format. The zero value is valid,
// and gives a strict minified format that omits default-valued fields. Use
// NewWithOptions to construct a Format from an explicit Options value, or
// New to start from the package defaults.
type Options struct {
	// EncodeDefaults, if true, encodes fields whose values are equal to
	// their declared defaults. If false, such fields are omitted.
	EncodeDefaults bool

	// Strict, if true, reports an error for object keys not declared by the
	// codec. If false, unknown keys are skipped.
	Strict bool

	// UnquotedKeys, if true, writes object keys without quotes when the key
	// is an identifier, and accepts unquoted identifier keys on input.
	// Values are always quoted.
	UnquotedKeys bool

	// StructuredMapKeys, if true, permits maps whose keys do not encode as
	// strings. Such maps are written as flat arrays of alternating keys and
	// values instead of objects.
	StructuredMapKeys bool

	// Pretty, if true, writes multi-line output indented by Indent.
	Pretty bool

	// Indent is the unit of indentation used when Pretty is true. An empty
	// Indent gives line breaks with no indentation.
	Indent string

	// ArrayPolymorphism, if true, encodes polymorphic values as two-element
	// arrays of tag and value instead of objects with a discriminator.
	ArrayPolymorphism bool

	// Discriminator is the object key that carries the variant tag of a
	// polymorphic value. If empty, "type" is used.
	Discriminator string

	// KeyCase selects how declared field names are converted to object
	// keys. Dynamic map keys and the discriminator are never converted.
	KeyCase CaseStrategy
}

// discriminator returns the wire key for variant tags.
func (o Options) discriminator() string {
	if o.Discriminator == "" {
		return "type"
	}
	return o.Discriminator
}

// A CaseStrategy is a rule for converting declared field names to object
// keys. Conversions apply only to names declared by a record codec; they
// must be bijective over the fields of each record, and a codec panics on
// first use of a strategy that maps two of its fields to the same key.
type CaseStrategy byte

const (
	CaseAsIs   CaseStrategy = iota // declared names are used verbatim
	CaseSnake                      // lower_snake_case
	CaseCamel                      // lowerCamelCase
	CasePascal                     // UpperCamelCase
	CaseKebab                      // lower-kebab-case
	CaseShout                      // UPPER_SNAKE_CASE

	numCaseStrategies
)

var caseStr = [...]string{
	CaseAsIs:   "as-is",
	CaseSnake:  "snake",
	CaseCamel:  "camel",
	CasePascal: "pascal",
	CaseKebab:  "kebab",
	CaseShout:  "shout",
}

func (c CaseStrategy) String() string {
	if int(c) < len(caseStr) {
		return caseStr[c]
	}
	return "invalid"
}

// convert applies c to a declared field name.
func (c CaseStrategy) convert(name string) string {
	switch c {
	case CaseSnake:
		return strcase.ToSnake(name)
	case CaseCamel:
		return strcase.ToLowerCamel(name)
	case CasePascal:
		return strcase.ToCamel(name)
	case CaseKebab:
		return strcase.ToKebab(name)
	case CaseShout:
		return strcase.ToScreamingSnake(name)
	}
	return name
}

// An Option is a setting that modifies the construction of a Format by New.
type Option func(*formatConfig)

type formatConfig struct {
	opts Options
	reg  *Registry
}

func defaultOptions() Options {
	return Options{
		EncodeDefaults: true,
		Strict:         true,
		Indent:         "    ",
		Discriminator:  "type",
	}
}

// EncodeDefaults sets whether fields equal to their declared defaults are
// encoded (true) or omitted (false).
func EncodeDefaults(ok bool) Option {
	return func(c *formatConfig) { c.opts.EncodeDefaults = ok }
}

// Strict sets whether unknown object keys are rejected (true) or skipped
// (false).
func Strict(ok bool) Option {
	return func(c *formatConfig) { c.opts.Strict = ok }
}

// UnquotedKeys sets whether identifier object keys are written without
// quotes and accepted without quotes on input.
func UnquotedKeys(ok bool) Option {
	return func(c *formatConfig) { c.opts.UnquotedKeys = ok }
}

// StructuredMapKeys sets whether maps with non-string keys are permitted.
func StructuredMapKeys(ok bool) Option {
	return func(c *formatConfig) { c.opts.StructuredMapKeys = ok }
}

// PrettyPrint enables multi-line output with the given unit of indentation.
func PrettyPrint(indent string) Option {
	return func(c *formatConfig) { c.opts.Pretty = true; c.opts.Indent = indent }
}

// ArrayPolymorphism sets whether polymorphic values are encoded as
// two-element arrays instead of tagged objects.
func ArrayPolymorphism(ok bool) Option {
	return func(c *formatConfig) { c.opts.ArrayPolymorphism = ok }
}

// Discriminator sets the object key that carries variant tags. It panics if
// key is empty.
func Discriminator(key string) Option {
	if key == "" {
		panic("empty discriminator key")
	}
	return func(c *formatConfig) { c.opts.Discriminator = key }
}

// KeyCase sets the conversion applied to declared field names.
func KeyCase(cs CaseStrategy) Option {
	return func(c *formatConfig) { c.opts.KeyCase = cs }
}

// WithRegistry supplies codec registrations to the Format under
// construction, in addition to the built-in registrations. The registry is
// frozen when the Format is built.
func WithRegistry(r *Registry) Option {
	return func(c *formatConfig) { c.reg = r }
}
