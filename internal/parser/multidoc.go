package parser

import (
	"fmt"

	"github.com/shapestone/shape-yaml-ast/internal/errors"
	"github.com/shapestone/shape-yaml-ast/pkg/ast"
	"github.com/shapestone/shape-yaml-ast/pkg/token"
)

// parseDocument parses the tokens of one document of a stream.
//
// Grammar:
//
//	Document = { DirectiveLine } [ "---" ] [ Node ] [ "..." ] ;
//
// Directives apply to this document only. A document that has directives
// must start with "---".
//
// Example:
//
//	%YAML 1.2
//	---
//	name: doc1
//	...
func (p *parser) parseDocument(group *tokenGroup) (*ast.DocumentNode, error) {
	p.tokens = group.tokens
	p.idx = 0
	p.pendingComments = nil
	p.resetDirectives()

	ctx := newContext()
	doc := ast.Document(nil, nil)
	doc.SetPath(ctx.path)

	start := p.idx
	head := p.collectComments()
	for t := p.current(); t != nil && t.groupType() == groupDirective; t = p.current() {
		directive, err := p.parseDirective(ctx)
		if err != nil {
			return nil, err
		}
		doc.Directives = append(doc.Directives, directive)
		p.collectComments()
	}
	if len(doc.Directives) == 0 {
		p.idx = start
	}

	if t := p.peekNonComment(); t != nil && t.rawType() == token.DocumentHeaderType {
		if comments := p.collectComments(); len(comments) > 0 {
			head = comments
		}
		if len(head) > 0 {
			doc.SetComment(ast.CommentHeadPosition, ast.CommentGroup(head))
		}
		doc.Start = t.raw
		p.advance()
		if comment := p.claimLineComment(t.line()); comment != nil {
			doc.SetComment(ast.CommentLinePosition, comment)
		}
	} else if len(doc.Directives) > 0 {
		return nil, errors.ErrSyntax("a document with directives must start with \"---\"", doc.Directives[0].Start)
	}

	body, err := p.parseDocumentBody(ctx)
	if err != nil {
		return nil, err
	}
	doc.Body = body

	if foot := p.collectComments(); len(foot) > 0 {
		doc.SetComment(ast.CommentFootPosition, ast.CommentGroup(foot))
	}
	if t := p.current(); t != nil && t.rawType() == token.DocumentEndType {
		doc.End = t.raw
		p.advance()
	}
	if t := p.current(); t != nil {
		return nil, errors.ErrSyntax(fmt.Sprintf("unexpected token %q", t.first().Value), t.first())
	}
	return doc, nil
}

// parseDocumentBody parses the root node of a document. A body made only
// of comments is returned as a comment group.
func (p *parser) parseDocumentBody(ctx *context) (ast.Node, error) {
	start := p.idx
	comments := p.collectComments()
	t := p.current()
	if t == nil || t.rawType() == token.DocumentEndType {
		if len(comments) == 0 {
			return nil, nil
		}
		group := ast.CommentGroup(comments)
		group.SetPath(ctx.path)
		return group, nil
	}

	var (
		body ast.Node
		err  error
	)
	if isBlockCollectionStart(t) {
		p.idx = start
		body, err = p.parseNextLineValue(ctx)
	} else {
		body, err = p.parseToken(ctx)
		if err == nil && len(comments) > 0 {
			body.SetComment(ast.CommentHeadPosition, ast.CommentGroup(comments))
		}
	}
	if err != nil {
		return nil, err
	}
	if !isBlockCollectionNode(body) && body.GetComment(ast.CommentLinePosition) == nil {
		if comment := p.claimLineComment(0); comment != nil {
			body.SetComment(ast.CommentLinePosition, comment)
		}
	}
	return body, nil
}

func isBlockCollectionNode(node ast.Node) bool {
	switch n := node.(type) {
	case *ast.MappingNode:
		return !n.IsFlowStyle
	case *ast.SequenceNode:
		return !n.IsFlowStyle
	}
	return false
}
