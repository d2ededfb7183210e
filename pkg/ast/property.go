package ast

import (
	"strings"

	"github.com/shapestone/shape-yaml-ast/pkg/token"
)

// AnchorNode is &name in front of a value.
type AnchorNode struct {
	BaseNode
	Start *token.Token
	Name  *StringNode
	Value Node
}

func Anchor(tk *token.Token) *AnchorNode {
	return &AnchorNode{Start: tk}
}

func (n *AnchorNode) Type() NodeType         { return AnchorType }
func (n *AnchorNode) GetToken() *token.Token { return n.Start }

func (n *AnchorNode) IsMergeKey() bool {
	key, ok := n.Value.(MapKeyNode)
	return ok && key.IsMergeKey()
}

func (n *AnchorNode) AddColumn(col int) {
	n.Start.AddColumn(col)
	n.Name.AddColumn(col)
	if n.Value != nil {
		n.Value.AddColumn(col)
	}
	n.addCommentColumn(col)
}

func (n *AnchorNode) String() string {
	return propertyString("&"+n.Name.Value, n.Value)
}

// AliasNode is *name.
type AliasNode struct {
	BaseNode
	Start *token.Token
	Value *StringNode
}

func Alias(tk *token.Token) *AliasNode {
	return &AliasNode{Start: tk}
}

func (n *AliasNode) Type() NodeType         { return AliasType }
func (n *AliasNode) GetToken() *token.Token { return n.Start }
func (n *AliasNode) IsMergeKey() bool       { return false }
func (n *AliasNode) String() string         { return "*" + n.Value.Value }

// Name returns the referenced anchor name.
func (n *AliasNode) Name() string { return n.Value.Value }

func (n *AliasNode) AddColumn(col int) {
	n.Start.AddColumn(col)
	n.Value.AddColumn(col)
	n.addCommentColumn(col)
}

// TagNode is an explicit tag such as !!str in front of a value.
type TagNode struct {
	BaseNode
	Start *token.Token
	// Directive is the %TAG directive installed for the "!!" handle of the
	// document, if any. Such tags no longer name the core schema types.
	Directive *DirectiveNode
	Value     Node
}

func Tag(tk *token.Token) *TagNode {
	return &TagNode{Start: tk}
}

func (n *TagNode) Type() NodeType         { return TagType }
func (n *TagNode) GetToken() *token.Token { return n.Start }

func (n *TagNode) IsMergeKey() bool {
	if n.Start.Value == string(token.MergeTag) {
		return true
	}
	key, ok := n.Value.(MapKeyNode)
	return ok && key.IsMergeKey()
}

func (n *TagNode) AddColumn(col int) {
	n.Start.AddColumn(col)
	if n.Value != nil {
		n.Value.AddColumn(col)
	}
	n.addCommentColumn(col)
}

func (n *TagNode) String() string {
	return propertyString(n.Start.Value, n.Value)
}

// propertyString writes an anchor or tag and the value it applies to.
// Block collections start on the next line.
func propertyString(property string, value Node) string {
	if value == nil {
		return property
	}
	text := value.String()
	switch {
	case isBlockCollection(value):
		return property + "\n" + text
	case text == "":
		return property
	}
	return property + " " + text
}

// LiteralNode is a literal (|) or folded (>) block scalar.
type LiteralNode struct {
	BaseNode
	// Start is the header token; its value holds the indicators, e.g. "|-2".
	Start *token.Token
	Value *StringNode
}

func Literal(tk *token.Token) *LiteralNode {
	return &LiteralNode{Start: tk}
}

func (n *LiteralNode) Type() NodeType         { return LiteralType }
func (n *LiteralNode) GetToken() *token.Token { return n.Start }
func (n *LiteralNode) GetValue() interface{}  { return n.Value.Value }
func (n *LiteralNode) IsMergeKey() bool       { return false }

// IsFolded reports whether the scalar was written with '>'.
func (n *LiteralNode) IsFolded() bool {
	return n.Start.Type == token.FoldedType
}

func (n *LiteralNode) AddColumn(col int) {
	n.Start.AddColumn(col)
	n.Value.AddColumn(col)
	n.addCommentColumn(col)
}

// String renders the scalar in literal style. The chomping indicator is
// derived from the value so that the text reads back as the same string;
// an explicit indentation indicator is kept.
func (n *LiteralNode) String() string {
	value := n.Value.Value
	content := strings.TrimRight(value, "\n")
	trailing := len(value) - len(content)

	header := "|"
	for _, c := range n.Start.Value {
		if c >= '1' && c <= '9' {
			header += string(c)
		}
	}
	switch {
	case trailing == 0:
		header += "-"
	case trailing > 1 || content == "":
		header += "+"
	}

	var b strings.Builder
	b.WriteString(header)
	b.WriteString(lineCommentString(n.GetComment(CommentLinePosition)))
	b.WriteByte('\n')
	if content != "" {
		space := spaces(n.Value.Token.Position.Column)
		for i, line := range strings.Split(content, "\n") {
			if i > 0 {
				b.WriteByte('\n')
			}
			if line != "" {
				b.WriteString(space)
				b.WriteString(line)
			}
		}
	}
	// the line break after the last line is written by whatever follows
	b.WriteString(strings.Repeat("\n", max(trailing-1, 0)))
	return b.String()
}

// DirectiveNode is a %YAML or %TAG line.
type DirectiveNode struct {
	BaseNode
	Start  *token.Token
	Name   *StringNode
	Values []*StringNode
}

func Directive(tk *token.Token) *DirectiveNode {
	return &DirectiveNode{Start: tk}
}

func (n *DirectiveNode) Type() NodeType         { return DirectiveType }
func (n *DirectiveNode) GetToken() *token.Token { return n.Start }

func (n *DirectiveNode) AddColumn(col int) {
	n.Start.AddColumn(col)
	if n.Name != nil {
		n.Name.AddColumn(col)
	}
	for _, value := range n.Values {
		value.AddColumn(col)
	}
	n.addCommentColumn(col)
}

func (n *DirectiveNode) String() string {
	parts := []string{"%" + n.Name.Value}
	for _, value := range n.Values {
		parts = append(parts, value.Value)
	}
	return strings.Join(parts, " ")
}
