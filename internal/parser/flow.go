package parser

import (
	"github.com/shapestone/shape-yaml-ast/internal/errors"
	"github.com/shapestone/shape-yaml-ast/pkg/ast"
	"github.com/shapestone/shape-yaml-ast/pkg/token"
)

// parseFlowSequence parses a bracketed sequence.
//
// Grammar:
//
//	FlowSequence = "[" [ FlowEntry { "," FlowEntry } [ "," ] ] "]" ;
//	FlowEntry    = Node | FlowPair ;
//
// A key/value pair written as an entry becomes a single-pair mapping.
// Comments inside the brackets are dropped.
func (p *parser) parseFlowSequence(ctx *context) (*ast.SequenceNode, error) {
	start := p.current()
	node := ast.Sequence(start.raw, true)
	node.SetPath(ctx.path)
	pending := len(p.pendingComments)
	p.idx++

	flowCtx := ctx.withFlow(true)
	for {
		p.collectComments()
		t := p.current()
		if t == nil || isDocumentBoundary(t) {
			return nil, errors.ErrSyntax("sequence end token ']' not found", start.raw)
		}
		if t.rawType() == token.SequenceEndType {
			node.End = t.raw
			p.pendingComments = p.pendingComments[:pending]
			p.advance()
			return node, nil
		}
		if t.rawType() == token.CollectEntryType {
			return nil, errors.ErrSyntax("sequence entry must not be empty", t.raw)
		}

		entryCtx := flowCtx.withIndex(len(node.Values))
		value, err := p.parseToken(entryCtx)
		if err != nil {
			return nil, err
		}
		entry := ast.SequenceEntry(value.GetToken(), value)
		entry.SetPath(entryCtx.path)
		node.Values = append(node.Values, entry)

		if err := p.parseFlowSeparator(start.raw, token.SequenceEndType, "',' or ']' must be specified"); err != nil {
			return nil, err
		}
	}
}

// parseFlowMapping parses a braced mapping.
//
// Grammar:
//
//	FlowMapping = "{" [ FlowPair { "," FlowPair } [ "," ] ] "}" ;
//	FlowPair    = [ "?" ] Key [ ":" [ Node ] ] ;
func (p *parser) parseFlowMapping(ctx *context) (*ast.MappingNode, error) {
	start := p.current()
	node := ast.Mapping(start.raw, true)
	node.SetPath(ctx.path)
	pending := len(p.pendingComments)
	p.idx++

	flowCtx := ctx.withFlow(true)
	keys := map[string]*token.Token{}
	for {
		p.collectComments()
		t := p.current()
		if t == nil || isDocumentBoundary(t) {
			return nil, errors.ErrSyntax("mapping end token '}' not found", start.raw)
		}
		if t.rawType() == token.MappingEndType {
			node.End = t.raw
			p.pendingComments = p.pendingComments[:pending]
			p.advance()
			return node, nil
		}
		if t.rawType() == token.CollectEntryType {
			return nil, errors.ErrSyntax("mapping entry must not be empty", t.raw)
		}

		value, err := p.parseFlowMappingValue(flowCtx)
		if err != nil {
			return nil, err
		}
		if err := p.validateMapKey(keys, value.Key); err != nil {
			return nil, err
		}
		node.Values = append(node.Values, value)

		if err := p.parseFlowSeparator(start.raw, token.MappingEndType, "',' or '}' must be specified"); err != nil {
			return nil, err
		}
	}
}

// parseFlowSeparator consumes the ',' after a flow entry. The closing
// bracket is left for the caller.
func (p *parser) parseFlowSeparator(start *token.Token, end token.Type, msg string) error {
	p.collectComments()
	t := p.current()
	switch {
	case t == nil || isDocumentBoundary(t):
		if end == token.SequenceEndType {
			return errors.ErrSyntax("sequence end token ']' not found", start)
		}
		return errors.ErrSyntax("mapping end token '}' not found", start)
	case t.rawType() == token.CollectEntryType:
		p.advance()
	case t.rawType() != end:
		return errors.ErrSyntax(msg, t.first())
	}
	return nil
}

// parseFlowPair parses a key/value pair inside a flow sequence as a
// mapping with a single entry.
func (p *parser) parseFlowPair(ctx *context) (*ast.MappingNode, error) {
	value, err := p.parseFlowMappingValue(ctx)
	if err != nil {
		return nil, err
	}
	node := ast.Mapping(nil, true, value)
	node.SetPath(ctx.path)
	return node, nil
}

// parseFlowMappingValue parses one entry of a flow mapping. A key without
// ':' has a null value.
func (p *parser) parseFlowMappingValue(ctx *context) (*ast.MappingValueNode, error) {
	t := p.current()
	switch t.groupType() {
	case groupMapKeyValue:
		p.advance()
		keyGroup, valueTkn := t.group.tokens[0], t.group.tokens[1]
		key, childCtx, err := p.parseMapKey(ctx, keyGroup.group.tokens[0])
		if err != nil {
			return nil, err
		}
		value, err := p.parseScalarGroup(childCtx, valueTkn)
		if err != nil {
			return nil, err
		}
		return p.newMappingValue(childCtx, keyGroup.group.tokens[1].raw, key, value, t.line()), nil
	case groupMapKey:
		p.advance()
		key, childCtx, err := p.parseMapKey(ctx, t.group.tokens[0])
		if err != nil {
			return nil, err
		}
		colon := t.group.tokens[1].raw
		value, err := p.parseFlowValue(childCtx, colon)
		if err != nil {
			return nil, err
		}
		return p.newMappingValue(childCtx, colon, key, value, t.line()), nil
	case groupExplicitKey:
		p.advance()
		key, childCtx, err := p.parseMapKey(ctx, t)
		if err != nil {
			return nil, err
		}
		value := p.implicitNull(childCtx, t.last())
		return p.newMappingValue(childCtx, key.GetToken(), key, value, t.line()), nil
	}

	var (
		key ast.MapKeyNode
		err error
	)
	if t.rawType() == token.MappingKeyType {
		p.advance()
		explicit := ast.MappingKey(t.raw)
		explicit.Value, err = p.parseFlowValue(ctx, t.raw)
		key = explicit
	} else {
		var node ast.Node
		node, err = p.parseToken(ctx)
		if err == nil {
			mapKey, ok := node.(ast.MapKeyNode)
			if !ok {
				return nil, errors.ErrSyntax("unsupported mapping key", t.first())
			}
			key = mapKey
		}
	}
	if err != nil {
		return nil, err
	}
	childCtx := ctx.withChild(keyText(key))
	key.SetPath(childCtx.path)

	if next := p.peekNonComment(); next != nil && next.rawType() == token.MappingValueType {
		p.collectComments()
		p.advance()
		value, err := p.parseFlowValue(childCtx, next.raw)
		if err != nil {
			return nil, err
		}
		return p.newMappingValue(childCtx, next.raw, key, value, t.line()), nil
	}
	value := p.implicitNull(childCtx, p.previousToken())
	return p.newMappingValue(childCtx, key.GetToken(), key, value, t.line()), nil
}

// parseFlowValue parses the node after a ':' or '?' inside a flow collection.
func (p *parser) parseFlowValue(ctx *context, indicator *token.Token) (ast.Node, error) {
	next := p.peekNonComment()
	if next == nil || isDocumentBoundary(next) || isFlowEnd(next) || next.rawType() == token.MappingValueType {
		return p.implicitNull(ctx, indicator), nil
	}
	p.collectComments()
	return p.parseToken(ctx)
}
