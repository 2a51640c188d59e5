// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jform

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/creachadair/jform/internal/escape"
	"go4.org/mem"
)

// token is the type of a lexical token in the JSON grammar.
type token byte

// Constants defining the valid token values.
const (
	tokInvalid token = iota // invalid token
	tokLBrace               // left brace "{"
	tokRBrace               // right brace "}"
	tokLSquare              // left square bracket "["
	tokRSquare              // right square bracket "]"
	tokComma                // comma ","
	tokColon                // colon ":"
	tokInt                  // number: integer with no fraction or exponent
	tokNumber               // number with fraction and/or exponent
	tokString               // quoted string
	tokTrue                 // constant: true
	tokFalse                // constant: false
	tokNull                 // constant: null
	tokName                 // bare name (only when enabled)
)

var tokenStr = [...]string{
	tokInvalid: "invalid token",
	tokLBrace:  `"{"`,
	tokRBrace:  `"}"`,
	tokLSquare: `"["`,
	tokRSquare: `"]"`,
	tokComma:   `","`,
	tokColon:   `":"`,
	tokInt:     "integer",
	tokNumber:  "number",
	tokString:  "string",
	tokTrue:    "true",
	tokFalse:   "false",
	tokNull:    "null",
	tokName:    "name",
}

func (t token) String() string {
	if int(t) >= len(tokenStr) {
		return tokenStr[tokInvalid]
	}
	return tokenStr[t]
}

// A scanner reads lexical tokens from an input stream. Each call to Next
// advances the scanner to the next token of the input, and reports whether a
// token is available.
type scanner struct {
	r    *bufio.Reader
	bare bool         // allow bare names
	buf  bytes.Buffer // current token
	tok  token
	err  error // sticky; io.EOF when the input ended cleanly

	pos, end int // start and end offsets of current token
	last     int // size in bytes of last-read input rune

	// Apparent line and column offsets (0-based)
	pline, pcol int
	eline, ecol int
}

// newScanner constructs a lexical scanner that consumes input from r. The
// grammar accepted is RFC 8259, with bare names as an optional extension
// (see allowBareNames).
func newScanner(r io.Reader) *scanner {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &scanner{r: br}
}

// allowBareNames configures the scanner to report (true) or reject (false)
// bare name tokens. A bare name is an unquoted run of letters, digits, and
// underscores beginning with a letter or underscore, other than the
// constants true, false, and null. Bare names are a non-standard extension
// of the JSON grammar, used for unquoted object keys.
func (s *scanner) allowBareNames(ok bool) { s.bare = ok }

// Next advances s to the next token of the input, and reports whether a
// token is available. Once Next returns false it continues to do so; Err
// reports whether the input ended cleanly or failed.
func (s *scanner) Next() bool {
	if s.err != nil {
		return false
	}
	s.buf.Reset()
	s.tok = tokInvalid
	s.pos, s.pline, s.pcol = s.end, s.eline, s.ecol

	for {
		ch, err := s.rune()
		if err == io.EOF {
			s.err = io.EOF
			return false
		} else if err != nil {
			s.err = err
			return false
		}

		// Discard whitespace.
		if isSpace(ch) {
			if ch == '\n' {
				s.eline++
				s.ecol = 0
			}
			s.pos, s.pline, s.pcol = s.end, s.eline, s.ecol
			continue
		}

		// Handle punctuation.
		if t, ok := selfDelim(ch); ok {
			s.buf.WriteRune(ch)
			s.tok = t
			return true
		}

		// Handle numbers.
		if isNumStart(ch) {
			return s.scanNumber(ch)
		}

		// Handle string values.
		if ch == '"' {
			return s.scanString(ch)
		}

		// Handle constants (true, false, null) and bare names.
		if ch == 't' || ch == 'f' || ch == 'n' || (s.bare && isIdentStart(ch)) {
			return s.scanName(ch)
		}
		return s.failf("unexpected %q", ch)
	}
}

// Token returns the type of the current token.
func (s *scanner) Token() token { return s.tok }

// Err returns the error that terminated iteration, or nil if the input
// ended cleanly.
func (s *scanner) Err() error {
	if s.err == io.EOF {
		return nil
	}
	return s.err
}

// Text returns the undecoded text of the current token. The return value is
// only valid until the next call of Next. The caller must copy the contents
// of the returned slice if it is needed beyond that.
func (s *scanner) Text() []byte { return s.buf.Bytes() }

// Location returns the line and column at which the current token begins.
func (s *scanner) Location() LineCol { return LineCol{Line: s.pline + 1, Column: s.pcol} }

// Int64 returns the value of the current token as an int64. It reports an
// error if the token is not an integer in the range of that type.
func (s *scanner) Int64() (int64, error) {
	return strconv.ParseInt(s.buf.String(), 10, 64)
}

// Float64 returns the value of the current token as a float64. It reports
// an error if the token is not a number.
func (s *scanner) Float64() (float64, error) {
	return strconv.ParseFloat(s.buf.String(), 64)
}

// Unescape returns the decoded content of the current token, which must be
// a string token. The surrounding quotation marks are removed and escape
// sequences are replaced.
func (s *scanner) Unescape() (string, error) {
	text := s.buf.Bytes()
	if len(text) < 2 || text[0] != '"' {
		return "", fmt.Errorf("token %v is not a string", s.tok)
	}
	dec, err := escape.Unquote(mem.B(text[1 : len(text)-1]))
	if err != nil {
		return "", err
	}
	return string(dec), nil
}

func (s *scanner) scanString(open rune) bool {
	s.buf.WriteRune(open)
	var esc bool
	for {
		ch, err := s.rune()
		if err != nil {
			return s.failEOF(err)
		} else if ch == open && !esc {
			s.buf.WriteRune(ch)
			s.tok = tokString
			return true
		}
		if esc {
			// We are awaiting the completion of a \-escape.
			switch ch {
			case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
				s.buf.WriteByte(byte(ch))
			case 'u':
				s.buf.WriteByte(byte(ch))
				if !s.readHex4() {
					return false
				}
			default:
				return s.failf("invalid %q after escape", ch)
			}
			esc = false
		} else if ch < ' ' {
			return s.failf("unescaped control %q", ch)
		} else {
			s.buf.WriteRune(ch)
			esc = ch == '\\'
		}
	}
}

func (s *scanner) scanNumber(start rune) bool {
	s.buf.WriteRune(start)

	if start == '-' {
		// If there is a leading sign, we need at least one digit.
		// Otherwise, we already have one in start.
		if !s.require(isDigit, "digit") {
			return false
		}
	}

	// Consume the remainder of an integer.
	_, ch, err := s.readWhile(isDigit)
	if err == io.EOF {
		if hasExtraLeadingZeroes(s.buf.Bytes()) {
			return s.failf("extra leading zeroes")
		}
		s.tok = tokInt
		return true
	} else if err != nil {
		s.err = err
		return false
	}

	// Check for extra leading zeroes, which are disallowed by the JSON spec.
	// That is: 0.12 is OK, 01.2 is not.
	if hasExtraLeadingZeroes(s.buf.Bytes()) {
		return s.failf("extra leading zeroes")
	}

	// If a decimal point follows, consume a fractional part.
	var isFloat bool
	if ch == '.' {
		s.buf.WriteRune(ch)
		var nr int
		nr, ch, err = s.readWhile(isDigit)
		if nr == 0 {
			return s.failf("no digits after decimal point")
		} else if err == io.EOF {
			s.tok = tokNumber
			return true
		} else if err != nil {
			s.err = err
			return false
		}
		isFloat = true
	}

	// If an exponent follows, consume it.
	if ch != 'E' && ch != 'e' {
		s.unrune()
		if isFloat {
			s.tok = tokNumber
		} else {
			s.tok = tokInt
		}
		return true
	}

	s.buf.WriteRune(ch)
	if !s.require(isExpStart, "sign or digit") {
		return false
	}
	sign := s.buf.Bytes()[s.buf.Len()-1] == '-' || s.buf.Bytes()[s.buf.Len()-1] == '+'
	nr, _, err := s.readWhile(isDigit)
	if nr == 0 && sign {
		// It's OK to have no digits if the previous rune was not a sign,
		// otherwise we have to have at least one.
		return s.failf("missing exponent digits")
	} else if err == io.EOF {
		s.tok = tokNumber
		return true
	} else if err != nil {
		s.err = err
		return false
	}
	s.unrune()
	s.tok = tokNumber
	return true
}

func (s *scanner) scanName(first rune) bool {
	s.buf.WriteRune(first)
	_, _, err := s.readWhile(isIdentRune)
	if err == nil {
		s.unrune()
	} else if err != io.EOF {
		s.err = err
		return false
	}
	switch got := mem.B(s.buf.Bytes()); {
	case got.Equal(mem.S("true")):
		s.tok = tokTrue
	case got.Equal(mem.S("false")):
		s.tok = tokFalse
	case got.Equal(mem.S("null")):
		s.tok = tokNull
	case s.bare:
		s.tok = tokName
	default:
		return s.failf("unknown constant %q", got.StringCopy())
	}
	return true
}

func (s *scanner) rune() (rune, error) {
	ch, nb, err := s.r.ReadRune()
	s.last = nb
	s.end += nb
	s.ecol += nb
	return ch, err
}

func (s *scanner) unrune() {
	s.end -= s.last
	s.ecol -= s.last
	s.last = 0
	s.r.UnreadRune()
}

// require reads a single rune matching f from the input and appends it to
// the token, or reports an error mentioning the desired label.
func (s *scanner) require(f func(rune) bool, label string) bool {
	ch, err := s.rune()
	if err != nil {
		return s.failEOF(err)
	} else if !f(ch) {
		s.unrune()
		return s.failf("got %q, want %s", ch, label)
	}
	s.buf.WriteRune(ch)
	return true
}

// readWhile consumes runes matching f from the input until EOF or until a
// rune not matching f is found. The first non-matching rune (if any) is
// returned. It is the caller's responsibility to unread this rune, if
// desired. The int reports the number of runes consumed.
func (s *scanner) readWhile(f func(rune) bool) (int, rune, error) {
	var nr int
	for {
		ch, err := s.rune()
		if err != nil {
			return nr, 0, err
		} else if !f(ch) {
			return nr, ch, nil
		}
		s.buf.WriteRune(ch)
		nr++
	}
}

// readHex4 reads exactly 4 hexadecimal digits from the input.
func (s *scanner) readHex4() bool {
	for i := 0; i < 4; i++ {
		ch, err := s.rune()
		if err != nil {
			return s.failEOF(err)
		} else if !isHexDigit(ch) {
			return s.failf("invalid Unicode escape: not a hex digit: %q", ch)
		}
		s.buf.WriteRune(ch)
	}
	return true
}

// failEOF records err as the scan failure. Ending the input in the middle
// of a token is a syntax error, so io.EOF is converted to one.
func (s *scanner) failEOF(err error) bool {
	if err == io.EOF {
		return s.failf("unexpected end of input")
	}
	s.err = err
	return false
}

// failf records a syntax error at the position of the most recent rune.
func (s *scanner) failf(msg string, args ...any) bool {
	s.err = &SyntaxError{
		Location: LineCol{Line: s.eline + 1, Column: max(s.ecol-s.last, 0)},
		Message:  fmt.Sprintf(msg, args...),
	}
	return false
}

func isSpace(ch rune) bool {
	return ch == ' ' || ch == '\r' || ch == '\n' || ch == '\t'
}

func isNumStart(ch rune) bool { return ch == '-' || isDigit(ch) }
func isExpStart(ch rune) bool { return ch == '-' || ch == '+' || isDigit(ch) }
func isDigit(ch rune) bool    { return '0' <= ch && ch <= '9' }

func isIdentStart(ch rune) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentRune(ch rune) bool { return isIdentStart(ch) || isDigit(ch) }

func isHexDigit(ch rune) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

// hasExtraLeadingZeroes reports whether the representation of an integer in
// buf has redundant leading zeroes, disallowed by the grammar.
//
// OK: 0, 0.1, -1.0, -0.1 are all OK.
// Bad: -01, 01.2, -01.0, 00.1.
func hasExtraLeadingZeroes(buf []byte) bool {
	if buf[0] == '-' {
		buf = buf[1:] // skip leading sign
	}
	if buf[0] == '0' {
		// A leading zero is OK if it's the only digit.
		return len(buf) > 1
	}
	return false
}

var self = [...]token{tokLBrace, tokRBrace, tokLSquare, tokRSquare, tokComma, tokColon}

func selfDelim(ch rune) (token, bool) {
	i := strings.IndexRune("{}[],:", ch)
	if i >= 0 {
		return self[i], true
	}
	return tokInvalid, false
}
