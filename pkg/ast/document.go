package ast

import (
	"strings"

	"github.com/shapestone/shape-yaml-ast/pkg/token"
)

// DocumentNode is one document of a stream.
type DocumentNode struct {
	BaseNode
	Start      *token.Token // "---", if present
	End        *token.Token // "...", if present
	Directives []*DirectiveNode
	Body       Node
}

func Document(tk *token.Token, body Node) *DocumentNode {
	return &DocumentNode{Start: tk, Body: body}
}

func (n *DocumentNode) Type() NodeType { return DocumentType }

func (n *DocumentNode) GetToken() *token.Token {
	if n.Start != nil || n.Body == nil {
		return n.Start
	}
	return n.Body.GetToken()
}

func (n *DocumentNode) AddColumn(col int) {
	for _, d := range n.Directives {
		d.AddColumn(col)
	}
	n.Start.AddColumn(col)
	n.End.AddColumn(col)
	if n.Body != nil {
		n.Body.AddColumn(col)
	}
	n.addCommentColumn(col)
}

func (n *DocumentNode) String() string {
	var b strings.Builder
	if head := n.GetComment(CommentHeadPosition); head != nil {
		b.WriteString(head.String())
		b.WriteByte('\n')
	}
	for _, d := range n.Directives {
		b.WriteString(d.String())
		b.WriteByte('\n')
	}
	body := n.bodyString()
	if n.Start != nil {
		b.WriteString("---")
		line := n.GetComment(CommentLinePosition)
		b.WriteString(lineCommentString(line))
		switch {
		case body == "":
		case line != nil || n.startsOnNextLine():
			b.WriteString("\n")
			b.WriteString(strings.TrimPrefix(body, "\n"))
		default:
			b.WriteByte(' ')
			b.WriteString(body)
		}
	} else {
		b.WriteString(body)
	}
	if foot := n.GetComment(CommentFootPosition); foot != nil {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(foot.String())
	}
	if n.End != nil {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("...")
	}
	return b.String()
}

// startsOnNextLine reports whether the body is written below "---".
func (n *DocumentNode) startsOnNextLine() bool {
	if _, ok := n.Body.(*CommentGroupNode); ok {
		return true
	}
	return isBlockCollection(n.Body) || n.Body.GetComment(CommentHeadPosition) != nil
}

func (n *DocumentNode) bodyString() string {
	if n.Body == nil {
		return ""
	}
	var b strings.Builder
	if _, ok := n.Body.(*CommentGroupNode); !ok {
		if head := n.Body.GetComment(CommentHeadPosition); head != nil {
			b.WriteString(head.String())
			b.WriteByte('\n')
		}
	}
	b.WriteString(withLineComment(n.Body.String(), n.Body.GetComment(CommentLinePosition)))
	return b.String()
}

// File is the result of parsing a YAML stream.
type File struct {
	Name string
	Docs []*DocumentNode
}

// String renders every document, each followed by a line break.
func (f *File) String() string {
	var b strings.Builder
	for _, doc := range f.Docs {
		text := doc.String()
		if text == "" && doc.Start == nil && doc.End == nil {
			continue
		}
		b.WriteString(text)
		b.WriteByte('\n')
	}
	return b.String()
}
