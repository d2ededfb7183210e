package token

import "strings"

var (
	reservedNullKeywords = []string{"null", "Null", "NULL", "~"}
	reservedBoolKeywords = []string{"true", "True", "TRUE", "false", "False", "FALSE"}
	// YAML 1.1 spellings. These are never treated as booleans when
	// scanning; they only force quoting so older parsers read them back as strings.
	reservedLegacyBoolKeywords = []string{
		"y", "Y", "yes", "Yes", "YES",
		"n", "N", "no", "No", "NO",
		"on", "On", "ON",
		"off", "Off", "OFF",
	}
	reservedInfKeywords = []string{
		".inf", ".Inf", ".INF",
		"+.inf", "+.Inf", "+.INF",
		"-.inf", "-.Inf", "-.INF",
	}
	reservedNanKeywords = []string{".nan", ".NaN", ".NAN"}

	reservedKeywordMap    = buildKeywordMap(false)
	reservedEncKeywordMap = buildKeywordMap(true)
)

func buildKeywordMap(legacy bool) map[string]Type {
	m := map[string]Type{}
	for _, k := range reservedNullKeywords {
		m[k] = NullType
	}
	for _, k := range reservedBoolKeywords {
		m[k] = BoolType
	}
	if legacy {
		for _, k := range reservedLegacyBoolKeywords {
			m[k] = BoolType
		}
	}
	for _, k := range reservedInfKeywords {
		m[k] = InfinityType
	}
	for _, k := range reservedNanKeywords {
		m[k] = NanType
	}
	return m
}

// ReservedTagKeyword is one of the secondary tags in the yaml.org,2002 namespace.
type ReservedTagKeyword string

const (
	IntegerTag    ReservedTagKeyword = "!!int"
	FloatTag      ReservedTagKeyword = "!!float"
	NullTag       ReservedTagKeyword = "!!null"
	SequenceTag   ReservedTagKeyword = "!!seq"
	MappingTag    ReservedTagKeyword = "!!map"
	StringTag     ReservedTagKeyword = "!!str"
	BinaryTag     ReservedTagKeyword = "!!binary"
	OrderedMapTag ReservedTagKeyword = "!!omap"
	SetTag        ReservedTagKeyword = "!!set"
	TimestampTag  ReservedTagKeyword = "!!timestamp"
	BooleanTag    ReservedTagKeyword = "!!bool"
	MergeTag      ReservedTagKeyword = "!!merge"
)

var reservedTagKeywords = map[ReservedTagKeyword]struct{}{
	IntegerTag: {}, FloatTag: {}, NullTag: {}, SequenceTag: {}, MappingTag: {}, StringTag: {},
	BinaryTag: {}, OrderedMapTag: {}, SetTag: {}, TimestampTag: {}, BooleanTag: {}, MergeTag: {},
}

// IsReservedTag reports whether tag is a known secondary tag.
func IsReservedTag(tag string) bool {
	_, ok := reservedTagKeywords[ReservedTagKeyword(tag)]
	return ok
}

// IsCollectionTag reports whether tag describes a mapping or sequence.
func IsCollectionTag(tag string) bool {
	switch ReservedTagKeyword(tag) {
	case MappingTag, SequenceTag, OrderedMapTag, SetTag:
		return true
	}
	return false
}

// New classifies a plain scalar. Reserved keywords are checked first,
// then number formats; anything else becomes a String token.
func New(value, org string, pos *Position) *Token {
	if typ, ok := reservedKeywordMap[value]; ok {
		return newToken(typ, CharacterTypeMiscellaneous, NotIndicator, value, org, pos)
	}
	if typ, ok := numberType(value); ok {
		return newToken(typ, CharacterTypeMiscellaneous, NotIndicator, value, org, pos)
	}
	return String(value, org, pos)
}

// numberType reports which numeric token type str is written as.
//
//	0x1A, -0xff       hex
//	0o17, 017         octal (a bare leading zero is the YAML 1.1 form)
//	0b101             binary
//	1.5, 1e3, .5      float
//	42, -7, 1_000     decimal
//
// Underscores separate digits and may not lead the digits.
func numberType(str string) (Type, bool) {
	s := str
	if s != "" && (s[0] == '-' || s[0] == '+') {
		s = s[1:]
	}
	if s == "" || s[0] == '_' {
		return UnknownType, false
	}
	if len(s) > 2 && s[0] == '0' {
		switch s[1] {
		case 'x':
			return HexIntegerType, allDigits(s[2:], isHexDigit)
		case 'o':
			return OctetIntegerType, allDigits(s[2:], isOctalDigit)
		case 'b':
			return BinaryIntegerType, allDigits(s[2:], isBinaryDigit)
		}
	}

	var digits, dots int
	exponent := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			digits++
		case c == '_':
			if exponent {
				return UnknownType, false
			}
		case c == '.':
			if dots > 0 || exponent {
				return UnknownType, false
			}
			dots++
		case c == 'e' || c == 'E':
			if exponent || digits == 0 || i == len(s)-1 {
				return UnknownType, false
			}
			exponent = true
			if s[i+1] == '+' || s[i+1] == '-' {
				i++
				if i == len(s)-1 {
					return UnknownType, false
				}
			}
		default:
			return UnknownType, false
		}
	}
	if digits == 0 {
		return UnknownType, false
	}
	if dots > 0 || exponent {
		return FloatType, true
	}
	if len(s) > 1 && s[0] == '0' {
		return OctetIntegerType, allDigits(s[1:], isOctalDigit)
	}
	return IntegerType, true
}

func allDigits(s string, accept func(byte) bool) bool {
	if s == "" || s[0] == '_' {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] != '_' && !accept(s[i]) {
			return false
		}
	}
	return true
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isOctalDigit(c byte) bool  { return c >= '0' && c <= '7' }
func isBinaryDigit(c byte) bool { return c == '0' || c == '1' }

// IsNumber reports whether value would be scanned as a number.
func IsNumber(value string) bool {
	_, ok := numberType(value)
	return ok
}

func looksLikeTimeValue(value string) bool {
	for i, c := range value {
		switch c {
		case ':', '1', '2', '3', '4', '5', '6', '7', '8', '9':
			continue
		case '0':
			if i == 0 {
				return false
			}
			continue
		}
		return false
	}
	return true
}

// hasDocumentMarkerPrefix reports whether value would read as "---" or
// "..." when written at the start of a line.
func hasDocumentMarkerPrefix(value string) bool {
	if !strings.HasPrefix(value, "---") && !strings.HasPrefix(value, "...") {
		return false
	}
	return len(value) == 3 || value[3] == ' ' || value[3] == '\t'
}

// IsNeedQuoted reports whether value must be quoted to be read back as
// the same string, including by YAML 1.1 parsers.
func IsNeedQuoted(value string) bool {
	if value == "" {
		return true
	}
	if _, ok := reservedEncKeywordMap[value]; ok {
		return true
	}
	if IsNumber(value) {
		return true
	}
	switch value[0] {
	case '*', '&', '[', '{', '}', ']', ',', '!', '|', '>', '%', '\'', '"', '@', '`', '#', '?', '-', ' ', '\t':
		if value[0] != '-' && value[0] != '?' || len(value) == 1 || value[1] == ' ' {
			return true
		}
	}
	switch value[len(value)-1] {
	case ':', ' ', '\t':
		return true
	}
	if looksLikeTimeValue(value) {
		return true
	}
	if value == "<<" || hasDocumentMarkerPrefix(value) {
		return true
	}
	for i, c := range value {
		switch c {
		case '#':
			if i > 0 && (value[i-1] == ' ' || value[i-1] == '\t') {
				return true
			}
		case '\\', '\n', '\r':
			return true
		case ':':
			if i+1 < len(value) && (value[i+1] == ' ' || value[i+1] == '\t') {
				return true
			}
		}
	}
	return strings.ContainsFunc(value, func(r rune) bool { return r < ' ' && r != '\t' })
}
