package ast

import (
	"strings"

	"github.com/shapestone/shape-yaml-ast/pkg/token"
)

// CommentNode is a single '#' comment.
type CommentNode struct {
	BaseNode
	Token *token.Token
}

func Comment(tk *token.Token) *CommentNode {
	return &CommentNode{Token: tk}
}

func (n *CommentNode) Type() NodeType         { return CommentType }
func (n *CommentNode) GetToken() *token.Token { return n.Token }
func (n *CommentNode) AddColumn(col int)      { n.Token.AddColumn(col) }

// Text returns the comment text after '#'.
func (n *CommentNode) Text() string { return n.Token.Value }

func (n *CommentNode) String() string {
	return spaces(n.Token.Position.Column) + "#" + n.Token.Value
}

// CommentGroupNode is a run of comments on consecutive lines.
type CommentGroupNode struct {
	BaseNode
	Comments []*CommentNode
}

// CommentGroup creates a group from comment tokens.
func CommentGroup(tokens []*token.Token) *CommentGroupNode {
	group := &CommentGroupNode{}
	for _, tk := range tokens {
		group.Comments = append(group.Comments, Comment(tk))
	}
	return group
}

func (n *CommentGroupNode) Type() NodeType { return CommentGroupType }

func (n *CommentGroupNode) GetToken() *token.Token {
	if len(n.Comments) == 0 {
		return nil
	}
	return n.Comments[0].Token
}

func (n *CommentGroupNode) AddColumn(col int) {
	for _, c := range n.Comments {
		c.AddColumn(col)
	}
}

// Texts returns the text of each comment.
func (n *CommentGroupNode) Texts() []string {
	texts := make([]string, 0, len(n.Comments))
	for _, c := range n.Comments {
		texts = append(texts, c.Text())
	}
	return texts
}

func (n *CommentGroupNode) String() string {
	lines := make([]string, 0, len(n.Comments))
	for _, c := range n.Comments {
		lines = append(lines, c.String())
	}
	return strings.Join(lines, "\n")
}

func lineCommentString(c *CommentGroupNode) string {
	if c == nil || len(c.Comments) == 0 {
		return ""
	}
	return " #" + c.Comments[0].Text()
}

// withLineComment appends a line comment to the first line of text.
func withLineComment(text string, c *CommentGroupNode) string {
	comment := lineCommentString(c)
	if comment == "" {
		return text
	}
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		return text[:i] + comment + text[i:]
	}
	return text + comment
}
