package tokenizer

import (
	"fmt"
	"unicode"
	"unicode/utf16"

	"github.com/shapestone/shape-yaml-ast/pkg/token"
)

var doubleQuoteEscapes = map[rune]rune{
	'0':  0,
	'a':  '\a',
	'b':  '\b',
	't':  '\t',
	'\t': '\t',
	'n':  '\n',
	'v':  '\v',
	'f':  '\f',
	'r':  '\r',
	'e':  0x1b,
	' ':  ' ',
	'"':  '"',
	'/':  '/',
	'\\': '\\',
	'N':  0x85,
	'_':  0xa0,
	'L':  0x2028,
	'P':  0x2029,
}

// scanSingleQuote scans a single-quoted scalar.
//
// Grammar:
//
//	SingleQuoted = "'" { Char | "''" | LineFold } "'" ;
//
// "''" stands for one quote. A line break folds to a space, and each
// additional empty line to a newline.
func (s *Scanner) scanSingleQuote() {
	pos := s.pos()
	s.progress(1)
	var value []rune
	for s.idx < len(s.src) {
		c := s.src[s.idx]
		switch {
		case c == '\'' && s.peek(1) == '\'':
			value = append(value, '\'')
			s.progress(2)
		case c == '\'':
			s.progress(1)
			s.emit(token.SingleQuote(string(value), s.origin(s.idx), pos))
			return
		case isBreak(c):
			value = s.foldQuotedLines(value, 0)
		default:
			value = append(value, c)
			s.progress(1)
		}
	}
	s.invalidToken("could not find end character of single-quoted text", pos, s.idx)
}

// scanDoubleQuote scans a double-quoted scalar and resolves its escapes.
//
// Grammar:
//
//	DoubleQuoted = '"' { Char | Escape | LineFold } '"' ;
//	Escape       = "\" ( EscapeChar | "x" Hex{2} | "u" Hex{4} | "U" Hex{8} | LineBreak ) ;
//
// An escaped line break joins the lines without inserting anything.
func (s *Scanner) scanDoubleQuote() {
	pos := s.pos()
	s.progress(1)
	var value []rune
	// runes before keep came from escapes and survive line folding
	keep := 0
	for s.idx < len(s.src) {
		c := s.src[s.idx]
		switch {
		case c == '"':
			s.progress(1)
			s.emit(token.DoubleQuote(string(value), s.origin(s.idx), pos))
			return
		case isBreak(c):
			value = s.foldQuotedLines(value, keep)
		case c == '\\' && isBreak(s.peek(1)):
			s.progress(1)
			s.advanceLine()
			for isBlank(s.peek(0)) {
				s.progress(1)
			}
			keep = len(value)
		case c == '\\':
			r, width, err := s.decodeEscape()
			if err != "" {
				s.invalidToken(err, s.pos(), s.idx+width)
				return
			}
			value = append(value, r)
			s.progress(width)
			keep = len(value)
		default:
			value = append(value, c)
			s.progress(1)
		}
	}
	s.invalidToken("could not find end character of double-quoted text", pos, s.idx)
}

// foldQuotedLines consumes a run of line breaks inside a quoted scalar
// together with the indentation that follows.
func (s *Scanner) foldQuotedLines(value []rune, keep int) []rune {
	value = trimRightBlank(value, keep)
	breaks := 0
	for s.idx < len(s.src) {
		c := s.src[s.idx]
		if isBreak(c) {
			s.advanceLine()
			breaks++
			continue
		}
		if isBlank(c) {
			s.progress(1)
			continue
		}
		break
	}
	if breaks == 1 {
		return append(value, ' ')
	}
	for i := 1; i < breaks; i++ {
		value = append(value, '\n')
	}
	return value
}

// decodeEscape decodes the escape sequence under the cursor. It returns the
// rune, the number of source runes consumed and an error message.
func (s *Scanner) decodeEscape() (rune, int, string) {
	c := s.peek(1)
	if r, ok := doubleQuoteEscapes[c]; ok {
		return r, 2, ""
	}
	var digits int
	switch c {
	case 'x':
		digits = 2
	case 'u':
		digits = 4
	case 'U':
		digits = 8
	default:
		return 0, 1, fmt.Sprintf("found unknown escape character %q", c)
	}
	code, ok := s.hexAt(2, digits)
	if !ok {
		return 0, 2, fmt.Sprintf("invalid escape sequence: expected %d hexadecimal digits after \\%c", digits, c)
	}
	width := 2 + digits
	if utf16.IsSurrogate(code) {
		if code < 0xdc00 && s.peek(width) == '\\' && s.peek(width+1) == 'u' {
			if low, ok := s.hexAt(width+2, 4); ok && low >= 0xdc00 && low <= 0xdfff {
				return utf16.DecodeRune(code, low), width + 6, ""
			}
		}
		return 0, width, fmt.Sprintf("invalid surrogate pair \\u%04X", code)
	}
	if code < 0 || code > unicode.MaxRune {
		return 0, width, fmt.Sprintf("invalid unicode code point \\U%08X", code)
	}
	return code, width, ""
}

func (s *Scanner) hexAt(offset, digits int) (rune, bool) {
	var code rune
	for i := 0; i < digits; i++ {
		r := s.peek(offset + i)
		if !isHex(r) {
			return 0, false
		}
		code = code<<4 | hexValue(r)
	}
	return code, true
}
