// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Package testutil defines support code for unit tests.
package testutil

import (
	"errors"
	"strconv"
)

// A Sink records the sequence of token calls made on it, one compact string
// per call. It satisfies the token writer interface of the jform package,
// and lets tests compare the exact token traffic produced for different
// output targets.
type Sink struct {
	Ops []string

	// Limit, if positive, makes calls fail once this many operations have
	// been recorded. Tests use this to exercise error paths.
	Limit int
}

// ErrLimit is reported by a Sink whose operation limit has been reached.
var ErrLimit = errors.New("sink limit reached")

func (s *Sink) op(text string) error {
	if s.Limit > 0 && len(s.Ops) >= s.Limit {
		return ErrLimit
	}
	s.Ops = append(s.Ops, text)
	return nil
}

func (s *Sink) BeginObject() error      { return s.op("{") }
func (s *Sink) EndObject() error        { return s.op("}") }
func (s *Sink) BeginArray() error       { return s.op("[") }
func (s *Sink) EndArray() error         { return s.op("]") }
func (s *Sink) Key(name string) error   { return s.op("k:" + name) }
func (s *Sink) String(v string) error   { return s.op("s:" + v) }
func (s *Sink) Number(lit string) error { return s.op("n:" + lit) }
func (s *Sink) Bool(v bool) error       { return s.op("b:" + strconv.FormatBool(v)) }
func (s *Sink) Null() error             { return s.op("null") }
