// Package token defines the lexical tokens produced by the YAML scanner.
//
// Tokens form a doubly-linked list over the whole input. Each token keeps
// its decoded value and the verbatim source text it was scanned from, so the
// original document can be rebuilt by concatenating every token's Origin.
package token

import (
	"fmt"
	"io"
	"strings"
)

// Type identifies the kind of a token.
type Type int

const (
	UnknownType Type = iota
	InvalidType
	DocumentHeaderType
	DocumentEndType
	SequenceEntryType
	MappingKeyType
	MappingValueType
	MergeKeyType
	CollectEntryType
	SequenceStartType
	SequenceEndType
	MappingStartType
	MappingEndType
	CommentType
	AnchorType
	AliasType
	TagType
	LiteralType
	FoldedType
	SingleQuoteType
	DoubleQuoteType
	DirectiveType
	SpaceType
	NullType
	ImplicitNullType
	InfinityType
	NanType
	IntegerType
	BinaryIntegerType
	OctetIntegerType
	HexIntegerType
	FloatType
	StringType
	BoolType
)

var typeNames = [...]string{
	UnknownType:        "Unknown",
	InvalidType:        "Invalid",
	DocumentHeaderType: "DocumentHeader",
	DocumentEndType:    "DocumentEnd",
	SequenceEntryType:  "SequenceEntry",
	MappingKeyType:     "MappingKey",
	MappingValueType:   "MappingValue",
	MergeKeyType:       "MergeKey",
	CollectEntryType:   "CollectEntry",
	SequenceStartType:  "SequenceStart",
	SequenceEndType:    "SequenceEnd",
	MappingStartType:   "MappingStart",
	MappingEndType:     "MappingEnd",
	CommentType:        "Comment",
	AnchorType:         "Anchor",
	AliasType:          "Alias",
	TagType:            "Tag",
	LiteralType:        "Literal",
	FoldedType:         "Folded",
	SingleQuoteType:    "SingleQuote",
	DoubleQuoteType:    "DoubleQuote",
	DirectiveType:      "Directive",
	SpaceType:          "Space",
	NullType:           "Null",
	ImplicitNullType:   "ImplicitNull",
	InfinityType:       "Infinity",
	NanType:            "Nan",
	IntegerType:        "Integer",
	BinaryIntegerType:  "BinaryInteger",
	OctetIntegerType:   "OctetInteger",
	HexIntegerType:     "HexInteger",
	FloatType:          "Float",
	StringType:         "String",
	BoolType:           "Bool",
}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return ""
	}
	return typeNames[t]
}

// IsScalar reports whether the type carries a scalar value.
func (t Type) IsScalar() bool {
	switch t {
	case NullType, ImplicitNullType, InfinityType, NanType, IntegerType, BinaryIntegerType,
		OctetIntegerType, HexIntegerType, FloatType, StringType, BoolType,
		SingleQuoteType, DoubleQuoteType:
		return true
	}
	return false
}

// IsInteger reports whether the type is one of the integer variants.
func (t Type) IsInteger() bool {
	switch t {
	case IntegerType, BinaryIntegerType, OctetIntegerType, HexIntegerType:
		return true
	}
	return false
}

// CharacterType classifies the leading character of a token.
type CharacterType int

const (
	CharacterTypeIndicator CharacterType = iota
	CharacterTypeWhiteSpace
	CharacterTypeMiscellaneous
	CharacterTypeEscaped
)

func (c CharacterType) String() string {
	switch c {
	case CharacterTypeIndicator:
		return "Indicator"
	case CharacterTypeWhiteSpace:
		return "WhiteSpace"
	case CharacterTypeMiscellaneous:
		return "Miscellaneous"
	case CharacterTypeEscaped:
		return "Escaped"
	}
	return ""
}

// Indicator groups indicator characters by the role they play.
type Indicator int

const (
	NotIndicator Indicator = iota
	// BlockStructureIndicator is one of '-', '?', ':'.
	BlockStructureIndicator
	// FlowCollectionIndicator is one of '[', ']', '{', '}', ','.
	FlowCollectionIndicator
	// CommentIndicator is '#'.
	CommentIndicator
	// NodePropertyIndicator is one of '!', '&', '*'.
	NodePropertyIndicator
	// BlockScalarIndicator is one of '|', '>'.
	BlockScalarIndicator
	// QuotedScalarIndicator is one of '\'', '"'.
	QuotedScalarIndicator
	// DirectiveIndicator is '%'.
	DirectiveIndicator
	// InvalidUseOfReservedIndicator is one of '@', '`'.
	InvalidUseOfReservedIndicator
)

func (i Indicator) String() string {
	switch i {
	case NotIndicator:
		return "NotIndicator"
	case BlockStructureIndicator:
		return "BlockStructure"
	case FlowCollectionIndicator:
		return "FlowCollection"
	case CommentIndicator:
		return "Comment"
	case NodePropertyIndicator:
		return "NodeProperty"
	case BlockScalarIndicator:
		return "BlockScalar"
	case QuotedScalarIndicator:
		return "QuotedScalar"
	case DirectiveIndicator:
		return "Directive"
	case InvalidUseOfReservedIndicator:
		return "InvalidUseOfReserved"
	}
	return ""
}

// Position is the location of a token in the source text.
// Line, Column and Offset are 1-based; Offset counts runes.
type Position struct {
	Line        int
	Column      int
	Offset      int
	IndentNum   int
	IndentLevel int
}

func (p *Position) String() string {
	return fmt.Sprintf("[level:%d,line:%d,column:%d,offset:%d]", p.IndentLevel, p.Line, p.Column, p.Offset)
}

// Token is a single lexical element of a YAML document.
type Token struct {
	Type          Type
	CharacterType CharacterType
	Indicator     Indicator
	// Value is the decoded text (escapes resolved, folding applied).
	Value string
	// Origin is the verbatim source text, including any whitespace
	// and line breaks between the previous token and this one.
	Origin string
	// Error describes why an InvalidType token could not be scanned.
	Error    string
	Position *Position
	Next     *Token
	Prev     *Token
}

// PreviousType returns the type of the previous token, or UnknownType.
func (t *Token) PreviousType() Type {
	if t.Prev != nil {
		return t.Prev.Type
	}
	return UnknownType
}

// NextType returns the type of the next token, or UnknownType.
func (t *Token) NextType() Type {
	if t.Next != nil {
		return t.Next.Type
	}
	return UnknownType
}

// AddColumn shifts the token's column by col.
func (t *Token) AddColumn(col int) {
	if t == nil || t.Position == nil {
		return
	}
	t.Position.Column += col
}

// Clone copies the token, keeping its Prev/Next references.
func (t *Token) Clone() *Token {
	if t == nil {
		return nil
	}
	copied := *t
	if t.Position != nil {
		pos := *t.Position
		copied.Position = &pos
	}
	return &copied
}

// Tokens is an ordered token collection whose elements are linked together.
type Tokens []*Token

func (t *Tokens) add(tk *Token) {
	tokens := *t
	if len(tokens) > 0 {
		last := tokens[len(tokens)-1]
		last.Next = tk
		tk.Prev = last
	}
	*t = append(tokens, tk)
}

// Add appends tokens, linking each one to its predecessor.
func (t *Tokens) Add(tks ...*Token) {
	for _, tk := range tks {
		t.add(tk)
	}
}

// InvalidToken returns the first token of InvalidType, or nil.
func (t Tokens) InvalidToken() *Token {
	for _, tk := range t {
		if tk.Type == InvalidType {
			return tk
		}
	}
	return nil
}

// Origin rebuilds the source text the tokens were scanned from.
func (t Tokens) Origin() string {
	var b strings.Builder
	for _, tk := range t {
		b.WriteString(tk.Origin)
	}
	return b.String()
}

// Dump writes one line per token for debugging.
func (t Tokens) Dump(w io.Writer) {
	for _, tk := range t {
		fmt.Fprintf(w, "%-14s %-24s %q\n", tk.Type, tk.Position, tk.Value)
	}
}

func newToken(typ Type, ct CharacterType, ind Indicator, value, org string, pos *Position) *Token {
	return &Token{
		Type:          typ,
		CharacterType: ct,
		Indicator:     ind,
		Value:         value,
		Origin:        org,
		Position:      pos,
	}
}

// String creates a plain string token without keyword or number detection.
func String(value, org string, pos *Position) *Token {
	return newToken(StringType, CharacterTypeMiscellaneous, NotIndicator, value, org, pos)
}

// Invalid creates a token that records a scanning failure.
func Invalid(msg, org string, pos *Position) *Token {
	tk := newToken(InvalidType, CharacterTypeMiscellaneous, NotIndicator, org, org, pos)
	tk.Error = msg
	return tk
}

// ImplicitNull creates the synthetic token used for an absent value.
func ImplicitNull(pos *Position) *Token {
	return newToken(ImplicitNullType, CharacterTypeMiscellaneous, NotIndicator, "", "", pos)
}

func SequenceEntry(org string, pos *Position) *Token {
	return newToken(SequenceEntryType, CharacterTypeIndicator, BlockStructureIndicator, "-", org, pos)
}

func MappingKey(org string, pos *Position) *Token {
	return newToken(MappingKeyType, CharacterTypeIndicator, BlockStructureIndicator, "?", org, pos)
}

func MappingValue(org string, pos *Position) *Token {
	return newToken(MappingValueType, CharacterTypeIndicator, BlockStructureIndicator, ":", org, pos)
}

func CollectEntry(org string, pos *Position) *Token {
	return newToken(CollectEntryType, CharacterTypeIndicator, FlowCollectionIndicator, ",", org, pos)
}

func SequenceStart(org string, pos *Position) *Token {
	return newToken(SequenceStartType, CharacterTypeIndicator, FlowCollectionIndicator, "[", org, pos)
}

func SequenceEnd(org string, pos *Position) *Token {
	return newToken(SequenceEndType, CharacterTypeIndicator, FlowCollectionIndicator, "]", org, pos)
}

func MappingStart(org string, pos *Position) *Token {
	return newToken(MappingStartType, CharacterTypeIndicator, FlowCollectionIndicator, "{", org, pos)
}

func MappingEnd(org string, pos *Position) *Token {
	return newToken(MappingEndType, CharacterTypeIndicator, FlowCollectionIndicator, "}", org, pos)
}

// Comment creates a comment token. value is the text after '#'.
func Comment(value, org string, pos *Position) *Token {
	return newToken(CommentType, CharacterTypeIndicator, CommentIndicator, value, org, pos)
}

func Anchor(org string, pos *Position) *Token {
	return newToken(AnchorType, CharacterTypeIndicator, NodePropertyIndicator, "&", org, pos)
}

func Alias(org string, pos *Position) *Token {
	return newToken(AliasType, CharacterTypeIndicator, NodePropertyIndicator, "*", org, pos)
}

func Tag(value, org string, pos *Position) *Token {
	return newToken(TagType, CharacterTypeIndicator, NodePropertyIndicator, value, org, pos)
}

// Literal creates a '|' block scalar header token. value holds the full header, e.g. "|-2".
func Literal(value, org string, pos *Position) *Token {
	return newToken(LiteralType, CharacterTypeIndicator, BlockScalarIndicator, value, org, pos)
}

// Folded creates a '>' block scalar header token.
func Folded(value, org string, pos *Position) *Token {
	return newToken(FoldedType, CharacterTypeIndicator, BlockScalarIndicator, value, org, pos)
}

func SingleQuote(value, org string, pos *Position) *Token {
	return newToken(SingleQuoteType, CharacterTypeIndicator, QuotedScalarIndicator, value, org, pos)
}

func DoubleQuote(value, org string, pos *Position) *Token {
	return newToken(DoubleQuoteType, CharacterTypeIndicator, QuotedScalarIndicator, value, org, pos)
}

func Directive(org string, pos *Position) *Token {
	return newToken(DirectiveType, CharacterTypeIndicator, DirectiveIndicator, "%", org, pos)
}

func MergeKey(org string, pos *Position) *Token {
	return newToken(MergeKeyType, CharacterTypeMiscellaneous, NotIndicator, "<<", org, pos)
}

func DocumentHeader(org string, pos *Position) *Token {
	return newToken(DocumentHeaderType, CharacterTypeMiscellaneous, NotIndicator, "---", org, pos)
}

func DocumentEnd(org string, pos *Position) *Token {
	return newToken(DocumentEndType, CharacterTypeMiscellaneous, NotIndicator, "...", org, pos)
}
