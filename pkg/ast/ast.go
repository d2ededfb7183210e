// Package ast defines the syntax tree built by the parser.
//
// Node hierarchy:
//
//	Node (interface)
//	├── ScalarNode - Null, Bool, Integer, Float, Infinity, Nan, String, MergeKey, Literal
//	├── Mapping, MappingKey, MappingValue
//	├── Sequence, SequenceEntry
//	├── Anchor, Alias, Tag
//	├── Directive, Document
//	└── Comment, CommentGroup
//
// Every node keeps the token it was built from, so String reproduces the
// source layout from token columns rather than from a pretty printer.
package ast

import (
	"math"
	"strconv"
	"strings"

	"github.com/shapestone/shape-yaml-ast/pkg/token"
)

// NodeType identifies the concrete type of a Node.
type NodeType int

const (
	UnknownNodeType NodeType = iota
	DocumentType
	NullType
	BoolType
	IntegerType
	FloatType
	InfinityType
	NanType
	StringType
	MergeKeyType
	LiteralType
	MappingType
	MappingKeyType
	MappingValueType
	SequenceType
	SequenceEntryType
	AnchorType
	AliasType
	DirectiveType
	TagType
	CommentType
	CommentGroupType
)

var nodeTypeNames = [...]string{
	UnknownNodeType:   "UnknownNode",
	DocumentType:      "Document",
	NullType:          "Null",
	BoolType:          "Bool",
	IntegerType:       "Integer",
	FloatType:         "Float",
	InfinityType:      "Infinity",
	NanType:           "Nan",
	StringType:        "String",
	MergeKeyType:      "MergeKey",
	LiteralType:       "Literal",
	MappingType:       "Mapping",
	MappingKeyType:    "MappingKey",
	MappingValueType:  "MappingValue",
	SequenceType:      "Sequence",
	SequenceEntryType: "SequenceEntry",
	AnchorType:        "Anchor",
	AliasType:         "Alias",
	DirectiveType:     "Directive",
	TagType:           "Tag",
	CommentType:       "Comment",
	CommentGroupType:  "CommentGroup",
}

func (t NodeType) String() string {
	if t < 0 || int(t) >= len(nodeTypeNames) {
		return ""
	}
	return nodeTypeNames[t]
}

// YAMLName returns the name YAML itself uses for the node kind.
func (t NodeType) YAMLName() string {
	switch t {
	case NullType:
		return "null"
	case BoolType:
		return "boolean"
	case IntegerType:
		return "int"
	case FloatType, InfinityType, NanType:
		return "float"
	case StringType, LiteralType:
		return "string"
	case MergeKeyType:
		return "merge key"
	case MappingType, MappingValueType:
		return "mapping"
	case MappingKeyType:
		return "key"
	case SequenceType, SequenceEntryType:
		return "sequence"
	case AnchorType:
		return "anchor"
	case AliasType:
		return "alias"
	case DirectiveType:
		return "directive"
	case TagType:
		return "tag"
	case CommentType, CommentGroupType:
		return "comment"
	case DocumentType:
		return "document"
	}
	return "unknown"
}

// CommentPosition says where a comment group sits relative to its node.
type CommentPosition int

const (
	// CommentHeadPosition is the comment block on the lines above a node.
	CommentHeadPosition CommentPosition = iota
	// CommentLinePosition is the comment at the end of the node's line.
	CommentLinePosition
	// CommentFootPosition is the comment block after the last child of a collection.
	CommentFootPosition
)

func (p CommentPosition) String() string {
	switch p {
	case CommentHeadPosition:
		return "Head"
	case CommentLinePosition:
		return "Line"
	case CommentFootPosition:
		return "Foot"
	}
	return ""
}

// Node is implemented by every syntax tree node. The set of implementations
// is closed; see the package documentation.
type Node interface {
	// String renders the node as YAML text.
	String() string
	// GetToken returns the token the node was built from.
	GetToken() *token.Token
	// Type returns the concrete node type.
	Type() NodeType
	// AddColumn shifts the node and all of its descendants by col columns.
	AddColumn(col int)
	// GetComment returns the comment group at pos, or nil.
	GetComment(pos CommentPosition) *CommentGroupNode
	// SetComment attaches a comment group at pos.
	SetComment(pos CommentPosition, comment *CommentGroupNode)
	// GetPath returns the normalized path of the node, such as $.a.b[0].
	GetPath() string
	// SetPath sets the normalized path.
	SetPath(path string)

	node()
}

// ScalarNode is a leaf node with a single decoded value.
type ScalarNode interface {
	Node
	GetValue() interface{}
}

// MapKeyNode is a node usable as a mapping key.
type MapKeyNode interface {
	Node
	IsMergeKey() bool
}

// BaseNode holds the data shared by all nodes.
type BaseNode struct {
	Path     string
	comments [3]*CommentGroupNode
}

func (n *BaseNode) GetPath() string {
	if n == nil {
		return ""
	}
	return n.Path
}

func (n *BaseNode) SetPath(path string) {
	if n == nil {
		return
	}
	n.Path = path
}

func (n *BaseNode) GetComment(pos CommentPosition) *CommentGroupNode {
	if n == nil || pos < 0 || int(pos) >= len(n.comments) {
		return nil
	}
	return n.comments[pos]
}

func (n *BaseNode) SetComment(pos CommentPosition, comment *CommentGroupNode) {
	if n == nil || pos < 0 || int(pos) >= len(n.comments) {
		return
	}
	n.comments[pos] = comment
}

func (n *BaseNode) addCommentColumn(col int) {
	for _, c := range n.comments {
		if c != nil {
			c.AddColumn(col)
		}
	}
}

func (*BaseNode) node() {}

// NullNode is null, ~ or an absent value.
type NullNode struct {
	BaseNode
	Token *token.Token
}

// Null creates a NullNode. tk may be an ImplicitNull token.
func Null(tk *token.Token) *NullNode {
	return &NullNode{Token: tk}
}

func (n *NullNode) Type() NodeType         { return NullType }
func (n *NullNode) GetToken() *token.Token { return n.Token }
func (n *NullNode) GetValue() interface{}  { return nil }
func (n *NullNode) IsMergeKey() bool       { return false }
func (n *NullNode) AddColumn(col int)      { n.Token.AddColumn(col); n.addCommentColumn(col) }

// IsImplicit reports whether the null was inserted for an absent value.
func (n *NullNode) IsImplicit() bool {
	return n.Token.Type == token.ImplicitNullType
}

func (n *NullNode) String() string {
	if n.IsImplicit() {
		return ""
	}
	return scalarText(n.Token)
}

// BoolNode is true or false.
type BoolNode struct {
	BaseNode
	Token *token.Token
	Value bool
}

func Bool(tk *token.Token) *BoolNode {
	return &BoolNode{Token: tk, Value: strings.EqualFold(tk.Value, "true")}
}

func (n *BoolNode) Type() NodeType         { return BoolType }
func (n *BoolNode) GetToken() *token.Token { return n.Token }
func (n *BoolNode) GetValue() interface{}  { return n.Value }
func (n *BoolNode) IsMergeKey() bool       { return false }
func (n *BoolNode) AddColumn(col int)      { n.Token.AddColumn(col); n.addCommentColumn(col) }
func (n *BoolNode) String() string         { return scalarText(n.Token) }

// IntegerNode is an integer in decimal, hex, octal or binary notation.
// Value is an int64, a uint64 when only that fits, or the source text when
// the number overflows both.
type IntegerNode struct {
	BaseNode
	Token *token.Token
	Value interface{}
}

func Integer(tk *token.Token) *IntegerNode {
	return &IntegerNode{Token: tk, Value: parseInteger(tk.Value)}
}

func (n *IntegerNode) Type() NodeType         { return IntegerType }
func (n *IntegerNode) GetToken() *token.Token { return n.Token }
func (n *IntegerNode) GetValue() interface{}  { return n.Value }
func (n *IntegerNode) IsMergeKey() bool       { return false }
func (n *IntegerNode) AddColumn(col int)      { n.Token.AddColumn(col); n.addCommentColumn(col) }
func (n *IntegerNode) String() string         { return scalarText(n.Token) }

func parseInteger(text string) interface{} {
	s := strings.ReplaceAll(text, "_", "")
	negative := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		negative = s[0] == '-'
		s = s[1:]
	}
	base := 10
	switch {
	case strings.HasPrefix(s, "0x"):
		base, s = 16, s[2:]
	case strings.HasPrefix(s, "0o"):
		base, s = 8, s[2:]
	case strings.HasPrefix(s, "0b"):
		base, s = 2, s[2:]
	case len(s) > 1 && s[0] == '0':
		base, s = 8, s[1:]
	}
	u, err := strconv.ParseUint(s, base, 64)
	if err != nil {
		return text
	}
	if negative {
		switch {
		case u == 1<<63:
			return int64(math.MinInt64)
		case u < 1<<63:
			return -int64(u)
		}
		return text
	}
	if u <= math.MaxInt64 {
		return int64(u)
	}
	return u
}

// FloatNode is a floating point number.
type FloatNode struct {
	BaseNode
	Token *token.Token
	Value float64
}

func Float(tk *token.Token) *FloatNode {
	v, _ := strconv.ParseFloat(strings.ReplaceAll(tk.Value, "_", ""), 64)
	return &FloatNode{Token: tk, Value: v}
}

func (n *FloatNode) Type() NodeType         { return FloatType }
func (n *FloatNode) GetToken() *token.Token { return n.Token }
func (n *FloatNode) GetValue() interface{}  { return n.Value }
func (n *FloatNode) IsMergeKey() bool       { return false }
func (n *FloatNode) AddColumn(col int)      { n.Token.AddColumn(col); n.addCommentColumn(col) }
func (n *FloatNode) String() string         { return scalarText(n.Token) }

// InfinityNode is .inf, +.inf or -.inf.
type InfinityNode struct {
	BaseNode
	Token *token.Token
	Value float64
}

func Infinity(tk *token.Token) *InfinityNode {
	sign := 1
	if strings.HasPrefix(tk.Value, "-") {
		sign = -1
	}
	return &InfinityNode{Token: tk, Value: math.Inf(sign)}
}

func (n *InfinityNode) Type() NodeType         { return InfinityType }
func (n *InfinityNode) GetToken() *token.Token { return n.Token }
func (n *InfinityNode) GetValue() interface{}  { return n.Value }
func (n *InfinityNode) IsMergeKey() bool       { return false }
func (n *InfinityNode) AddColumn(col int)      { n.Token.AddColumn(col); n.addCommentColumn(col) }
func (n *InfinityNode) String() string         { return scalarText(n.Token) }

// NanNode is .nan.
type NanNode struct {
	BaseNode
	Token *token.Token
}

func Nan(tk *token.Token) *NanNode {
	return &NanNode{Token: tk}
}

func (n *NanNode) Type() NodeType         { return NanType }
func (n *NanNode) GetToken() *token.Token { return n.Token }
func (n *NanNode) GetValue() interface{}  { return math.NaN() }
func (n *NanNode) IsMergeKey() bool       { return false }
func (n *NanNode) AddColumn(col int)      { n.Token.AddColumn(col); n.addCommentColumn(col) }
func (n *NanNode) String() string         { return scalarText(n.Token) }

// StringNode is a plain, single-quoted or double-quoted string.
type StringNode struct {
	BaseNode
	Token *token.Token
	Value string
}

func String(tk *token.Token) *StringNode {
	return &StringNode{Token: tk, Value: tk.Value}
}

func (n *StringNode) Type() NodeType         { return StringType }
func (n *StringNode) GetToken() *token.Token { return n.Token }
func (n *StringNode) GetValue() interface{}  { return n.Value }
func (n *StringNode) IsMergeKey() bool       { return false }
func (n *StringNode) AddColumn(col int)      { n.Token.AddColumn(col); n.addCommentColumn(col) }
func (n *StringNode) String() string         { return scalarText(n.Token) }

// MergeKeyNode is the << key.
type MergeKeyNode struct {
	BaseNode
	Token *token.Token
}

func MergeKey(tk *token.Token) *MergeKeyNode {
	return &MergeKeyNode{Token: tk}
}

func (n *MergeKeyNode) Type() NodeType         { return MergeKeyType }
func (n *MergeKeyNode) GetToken() *token.Token { return n.Token }
func (n *MergeKeyNode) GetValue() interface{}  { return n.Token.Value }
func (n *MergeKeyNode) IsMergeKey() bool       { return true }
func (n *MergeKeyNode) AddColumn(col int)      { n.Token.AddColumn(col); n.addCommentColumn(col) }
func (n *MergeKeyNode) String() string         { return n.Token.Value }

// scalarText renders a scalar token. Values that span lines are written
// double-quoted so they stay on the token's line. Plain strings that would
// read back as something else are double-quoted too.
func scalarText(tk *token.Token) string {
	switch tk.Type {
	case token.ImplicitNullType:
		return ""
	case token.DoubleQuoteType:
		return strconv.Quote(tk.Value)
	case token.SingleQuoteType:
		if strings.ContainsAny(tk.Value, "\r\n") {
			return strconv.Quote(tk.Value)
		}
		return "'" + strings.ReplaceAll(tk.Value, "'", "''") + "'"
	}
	if strings.ContainsAny(tk.Value, "\r\n") {
		return strconv.Quote(tk.Value)
	}
	if tk.Type == token.StringType && token.IsNeedQuoted(tk.Value) {
		return strconv.Quote(tk.Value)
	}
	return tk.Value
}
