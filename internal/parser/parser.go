// Package parser implements recursive descent parsing for YAML.
//
// Parsing runs in two steps. The token grouper folds tokens that always
// travel together (an anchor and its name, a key and its ':', a block
// scalar header and its body) into groups and splits the stream into
// documents. The parser then consumes one group or token per parse
// function and builds the syntax tree defined in pkg/ast.
package parser

import (
	"fmt"
	"unicode/utf8"

	"github.com/shapestone/shape-yaml-ast/internal/errors"
	"github.com/shapestone/shape-yaml-ast/internal/tokenizer"
	"github.com/shapestone/shape-yaml-ast/pkg/ast"
	"github.com/shapestone/shape-yaml-ast/pkg/token"
)

// Mode controls optional parser behavior.
type Mode uint

const (
	// ParseComments keeps comments in the syntax tree.
	ParseComments Mode = 1 << iota
)

// Option configures the parser.
type Option func(*parser)

// AllowDuplicateMapKey accepts mappings that define the same key twice.
func AllowDuplicateMapKey() Option {
	return func(p *parser) {
		p.allowDuplicateMapKey = true
	}
}

type parser struct {
	tokens []*tkn
	idx    int

	mode                 Mode
	allowDuplicateMapKey bool

	// pendingComments are line comments of consumed tokens that no node
	// has claimed yet.
	pendingComments []*token.Token

	yamlVersion           string
	tagHandles            map[string]string
	secondaryTagDirective *ast.DirectiveNode
}

func newParser(mode Mode, opts ...Option) *parser {
	p := &parser{mode: mode}
	for _, opt := range opts {
		opt(p)
	}
	p.resetDirectives()
	return p
}

// ParseBytes scans and parses src.
func ParseBytes(src []byte, mode Mode, opts ...Option) (*ast.File, error) {
	return Parse(tokenizer.Tokenize(string(src)), mode, opts...)
}

// Parse builds the syntax tree of a token stream.
//
// Grammar:
//
//	Stream   = { Document } ;
//	Document = { Directive } [ "---" ] [ Node ] [ "..." ] ;
//	Node     = [ Anchor ] [ Tag ] ( Mapping | Sequence | Scalar | Alias ) ;
//
// The first invalid token or syntax error aborts parsing.
func Parse(tokens token.Tokens, mode Mode, opts ...Option) (*ast.File, error) {
	if tk := tokens.InvalidToken(); tk != nil {
		return nil, errors.ErrInvalidToken(tk)
	}
	docs, err := createDocumentTokenGroups(createGroupedTokens(tokens, mode&ParseComments != 0))
	if err != nil {
		return nil, err
	}
	p := newParser(mode, opts...)
	file := &ast.File{}
	for _, doc := range docs {
		if isCommentOnly(doc.group) && len(file.Docs) > 0 {
			appendFootComment(file.Docs[len(file.Docs)-1], doc.group)
			continue
		}
		node, err := p.parseDocument(doc.group)
		if err != nil {
			return nil, err
		}
		file.Docs = append(file.Docs, node)
	}
	return file, nil
}

func (p *parser) current() *tkn {
	if p.idx < len(p.tokens) {
		return p.tokens[p.idx]
	}
	return nil
}

// advance consumes the current token and remembers its line comment.
func (p *parser) advance() {
	t := p.current()
	if t == nil {
		return
	}
	if t.lineComment != nil {
		p.pendingComments = append(p.pendingComments, t.lineComment)
	}
	p.idx++
}

// peekNonComment returns the first token at or after the current position
// that is not a comment.
func (p *parser) peekNonComment() *tkn {
	for i := p.idx; i < len(p.tokens); i++ {
		if p.tokens[i].rawType() != token.CommentType {
			return p.tokens[i]
		}
	}
	return nil
}

// parseToken parses the node starting at the current token.
func (p *parser) parseToken(ctx *context) (ast.Node, error) {
	t := p.current()
	if t == nil {
		return nil, errors.ErrSyntax("unexpected end of document", p.lastToken())
	}
	switch t.groupType() {
	case groupMapKey, groupMapKeyValue, groupExplicitKey:
		if ctx.flow {
			return p.parseFlowPair(ctx)
		}
		return p.parseBlockMapping(ctx)
	case groupAnchorName:
		return p.parseAnchor(ctx)
	case groupAnchor, groupAlias, groupScalarTag, groupLiteral, groupFolded:
		p.advance()
		return p.parseScalarGroup(ctx, t)
	case groupDirective:
		return nil, errors.ErrSyntax("directive is not allowed in this context", t.first())
	}

	switch t.rawType() {
	case token.CommentType:
		return p.parseNextLineValue(ctx)
	case token.MappingKeyType:
		if ctx.flow {
			return p.parseFlowPair(ctx)
		}
		return p.parseBlockMapping(ctx)
	case token.SequenceEntryType:
		if ctx.flow {
			return nil, errors.ErrSyntax("block sequence entries are not allowed in a flow collection", t.raw)
		}
		return p.parseBlockSequence(ctx)
	case token.SequenceStartType:
		node, err := p.parseFlowSequence(ctx)
		if err != nil {
			return nil, err
		}
		return p.checkFlowKey(node)
	case token.MappingStartType:
		node, err := p.parseFlowMapping(ctx)
		if err != nil {
			return nil, err
		}
		return p.checkFlowKey(node)
	case token.TagType:
		return p.parseTag(ctx)
	}
	if t.isRawScalar() {
		p.advance()
		return p.parseScalarGroup(ctx, t)
	}
	return nil, errors.ErrSyntax(fmt.Sprintf("unexpected token %q", t.first().Value), t.first())
}

// checkFlowKey rejects a flow collection written as an implicit key.
func (p *parser) checkFlowKey(node ast.Node) (ast.Node, error) {
	if next := p.current(); next != nil && next.rawType() == token.MappingValueType {
		return nil, errors.ErrSyntax("flow collection is not supported as a mapping key", node.GetToken())
	}
	return node, nil
}

// parseScalarGroup builds the node of a token that is complete on its own:
// a scalar, an alias, a block scalar, or a scalar carrying an anchor or tag.
// It does not consume tokens.
func (p *parser) parseScalarGroup(ctx *context, t *tkn) (ast.Node, error) {
	switch t.groupType() {
	case groupNone:
		node := newScalarNode(t.raw)
		if node == nil {
			return nil, errors.ErrSyntax(fmt.Sprintf("unexpected token %q", t.raw.Value), t.raw)
		}
		node.SetPath(ctx.path)
		return node, nil
	case groupLiteral, groupFolded:
		return p.newLiteralNode(ctx, t), nil
	case groupAlias:
		alias := ast.Alias(t.group.tokens[0].raw)
		alias.Value = ast.String(t.group.tokens[1].raw)
		alias.SetPath(ctx.path)
		return alias, nil
	case groupAnchor:
		anchor := p.newAnchorNode(ctx, t.group.tokens[0])
		value, err := p.parseScalarGroup(ctx, t.group.tokens[1])
		if err != nil {
			return nil, err
		}
		anchor.Value = value
		return anchor, nil
	case groupScalarTag:
		tag, err := p.newTagNode(ctx, t.group.tokens[0].raw)
		if err != nil {
			return nil, err
		}
		value, err := p.parseScalarGroup(ctx, t.group.tokens[1])
		if err != nil {
			return nil, err
		}
		return p.setTagValue(tag, value)
	}
	return nil, errors.ErrSyntax(fmt.Sprintf("unexpected token %q", t.first().Value), t.first())
}

func newScalarNode(tk *token.Token) ast.ScalarNode {
	switch tk.Type {
	case token.NullType, token.ImplicitNullType:
		return ast.Null(tk)
	case token.BoolType:
		return ast.Bool(tk)
	case token.IntegerType, token.BinaryIntegerType, token.OctetIntegerType, token.HexIntegerType:
		return ast.Integer(tk)
	case token.FloatType:
		return ast.Float(tk)
	case token.InfinityType:
		return ast.Infinity(tk)
	case token.NanType:
		return ast.Nan(tk)
	case token.StringType, token.SingleQuoteType, token.DoubleQuoteType:
		return ast.String(tk)
	case token.MergeKeyType:
		return ast.MergeKey(tk)
	}
	return nil
}

func (p *parser) newLiteralNode(ctx *context, t *tkn) *ast.LiteralNode {
	header, body := t.group.tokens[0], t.group.tokens[1]
	node := ast.Literal(header.raw)
	node.Value = ast.String(body.raw)
	node.SetPath(ctx.path)
	if header.lineComment != nil {
		node.SetComment(ast.CommentLinePosition, ast.CommentGroup([]*token.Token{header.lineComment}))
	}
	return node
}

func (p *parser) newAnchorNode(ctx *context, name *tkn) *ast.AnchorNode {
	anchor := ast.Anchor(name.group.tokens[0].raw)
	anchor.Name = ast.String(name.group.tokens[1].raw)
	anchor.SetPath(ctx.path)
	return anchor
}

// parseAnchor parses "&name" whose value is not part of the same group.
func (p *parser) parseAnchor(ctx *context) (ast.Node, error) {
	t := p.current()
	anchor := p.newAnchorNode(ctx, t)
	p.advance()
	value, err := p.parsePropertyValue(ctx, t)
	if err != nil {
		return nil, err
	}
	anchor.Value = value
	return anchor, nil
}

// parseTag parses a tag whose value is not part of the same group.
func (p *parser) parseTag(ctx *context) (ast.Node, error) {
	t := p.current()
	tag, err := p.newTagNode(ctx, t.raw)
	if err != nil {
		return nil, err
	}
	p.advance()
	value, err := p.parsePropertyValue(ctx, t)
	if err != nil {
		return nil, err
	}
	return p.setTagValue(tag, value)
}

// parsePropertyValue parses the value an anchor or tag applies to. It is
// either on the same line, or on a later line indented past the owning key
// or dash; otherwise the property applies to an implicit null.
func (p *parser) parsePropertyValue(ctx *context, prop *tkn) (ast.Node, error) {
	next := p.peekNonComment()
	switch {
	case next == nil || isDocumentBoundary(next) || isFlowEnd(next):
		return p.implicitNull(ctx, prop.last()), nil
	case ctx.flow || sameLine(prop, next):
		if next.rawType() == token.MappingValueType {
			return p.implicitNull(ctx, prop.last()), nil
		}
		return p.parseToken(ctx)
	case p.isNestedValue(ctx, next):
		return p.parseNextLineValue(ctx)
	}
	return p.implicitNull(ctx, prop.last()), nil
}

// isNestedValue reports whether next, which starts on a later line than
// its owner, belongs to the owner's value.
func (p *parser) isNestedValue(ctx *context, next *tkn) bool {
	if next.column() > ctx.ownerColumn {
		return true
	}
	return ctx.indentlessOK && next.rawType() == token.SequenceEntryType && next.column() == ctx.ownerColumn
}

// parseNextLineValue parses a value that starts on a new line. Comments
// above a scalar become its head comment; comments above a block
// collection are left to its first entry.
func (p *parser) parseNextLineValue(ctx *context) (ast.Node, error) {
	start := p.idx
	comments := p.collectComments()
	next := p.current()
	if next == nil {
		p.idx = start
		return nil, errors.ErrSyntax("unexpected end of document", p.lastToken())
	}
	if isBlockCollectionStart(next) {
		p.idx = start
		if next.rawType() == token.SequenceEntryType {
			return p.parseBlockSequence(ctx)
		}
		return p.parseBlockMapping(ctx)
	}
	node, err := p.parseToken(ctx)
	if err != nil {
		return nil, err
	}
	if len(comments) > 0 {
		node.SetComment(ast.CommentHeadPosition, ast.CommentGroup(comments))
	}
	return node, nil
}

// parseBlockValue parses the value after a ':', '?' or '-' indicator owned
// by the token owner. isMapValue is set for the value after ':'.
func (p *parser) parseBlockValue(ctx *context, owner *tkn, indicator *token.Token, isMapValue bool) (ast.Node, error) {
	next := p.peekNonComment()
	switch {
	case next == nil || isDocumentBoundary(next):
		return p.implicitNull(ctx, indicator), nil
	case sameLine(owner, next):
		if isMapValue {
			if next.rawType() == token.SequenceEntryType {
				return nil, errors.ErrSyntax("block sequence entries are not allowed in this context", next.raw)
			}
			if next.groupType() == groupMapKey || next.groupType() == groupMapKeyValue {
				return nil, errors.ErrSyntax("mapping value is not allowed in this context", next.first())
			}
		}
		return p.parseToken(ctx)
	case p.isNestedValue(ctx, next):
		return p.parseNextLineValue(ctx)
	}
	return p.implicitNull(ctx, indicator), nil
}

// implicitNull creates the null node of an absent value and links its
// token into the token list right after the token it follows.
func (p *parser) implicitNull(ctx *context, after *token.Token) *ast.NullNode {
	pos := &token.Position{}
	if after.Position != nil {
		copied := *after.Position
		pos = &copied
	}
	width := max(utf8.RuneCountInString(after.Value), 1)
	pos.Column += width
	pos.Offset += width
	tk := token.ImplicitNull(pos)
	tk.Prev = after
	tk.Next = after.Next
	if after.Next != nil {
		after.Next.Prev = tk
	}
	after.Next = tk

	node := ast.Null(tk)
	node.SetPath(ctx.path)
	return node
}

// previousToken returns the last scanner token consumed.
func (p *parser) previousToken() *token.Token {
	if p.idx == 0 {
		return p.tokens[0].first()
	}
	return p.tokens[p.idx-1].last()
}

// lastToken returns the last scanner token of the document being parsed.
func (p *parser) lastToken() *token.Token {
	if len(p.tokens) == 0 {
		return nil
	}
	return p.tokens[len(p.tokens)-1].last()
}

func isDocumentBoundary(t *tkn) bool {
	typ := t.rawType()
	return typ == token.DocumentHeaderType || typ == token.DocumentEndType
}

func isFlowEnd(t *tkn) bool {
	switch t.rawType() {
	case token.CollectEntryType, token.SequenceEndType, token.MappingEndType:
		return true
	}
	return false
}

// isMapEntryStart reports whether t starts a block mapping entry.
func isMapEntryStart(t *tkn) bool {
	switch t.groupType() {
	case groupMapKey, groupMapKeyValue, groupExplicitKey:
		return true
	}
	return t.rawType() == token.MappingKeyType
}

func isBlockCollectionStart(t *tkn) bool {
	return isMapEntryStart(t) || t.rawType() == token.SequenceEntryType
}
