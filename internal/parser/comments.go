package parser

import (
	"github.com/shapestone/shape-yaml-ast/pkg/ast"
	"github.com/shapestone/shape-yaml-ast/pkg/token"
)

// collectComments consumes the comment lines at the current position.
func (p *parser) collectComments() []*token.Token {
	var comments []*token.Token
	for t := p.current(); t != nil && t.rawType() == token.CommentType; t = p.current() {
		comments = append(comments, t.raw)
		p.idx++
	}
	return comments
}

// parseFootComment consumes the comment lines after the last entry of a
// block collection that are indented at least as far as its entries.
func (p *parser) parseFootComment(col int) *ast.CommentGroupNode {
	var comments []*token.Token
	for t := p.current(); t != nil && t.rawType() == token.CommentType && t.column() >= col; t = p.current() {
		comments = append(comments, t.raw)
		p.idx++
	}
	if len(comments) == 0 {
		return nil
	}
	return ast.CommentGroup(comments)
}

// claimLineComment removes and returns the first pending line comment
// written on line or below it. Inner nodes are completed first, so they
// claim the comments of their own lines before their parents do.
func (p *parser) claimLineComment(line int) *ast.CommentGroupNode {
	return p.claimComment(func(l int) bool { return l >= line })
}

// claimLineCommentOn removes and returns the pending line comment written
// on exactly line.
func (p *parser) claimLineCommentOn(line int) *ast.CommentGroupNode {
	return p.claimComment(func(l int) bool { return l == line })
}

func (p *parser) claimComment(match func(line int) bool) *ast.CommentGroupNode {
	var found *token.Token
	rest := p.pendingComments[:0]
	for _, c := range p.pendingComments {
		if found == nil && match(c.Position.Line) {
			found = c
			continue
		}
		rest = append(rest, c)
	}
	p.pendingComments = rest
	if found == nil {
		return nil
	}
	return ast.CommentGroup([]*token.Token{found})
}

func isCommentOnly(group *tokenGroup) bool {
	for _, t := range group.tokens {
		if t.rawType() != token.CommentType {
			return false
		}
	}
	return true
}

// appendFootComment adds the comments of group to the foot of doc.
func appendFootComment(doc *ast.DocumentNode, group *tokenGroup) {
	var comments []*token.Token
	if foot := doc.GetComment(ast.CommentFootPosition); foot != nil {
		for _, c := range foot.Comments {
			comments = append(comments, c.Token)
		}
	}
	for _, t := range group.tokens {
		comments = append(comments, t.raw)
	}
	doc.SetComment(ast.CommentFootPosition, ast.CommentGroup(comments))
}
