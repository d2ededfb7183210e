package parser

import (
	"fmt"

	"github.com/shapestone/shape-yaml-ast/internal/errors"
	"github.com/shapestone/shape-yaml-ast/pkg/ast"
	"github.com/shapestone/shape-yaml-ast/pkg/token"
)

// parseBlockMapping parses an indentation based mapping.
//
// Grammar:
//
//	BlockMapping = Entry { Entry } ;
//	Entry        = ( Key ":" [ Value ] ) | ( "?" [ Value ] [ ":" [ Value ] ] ) ;
//
// Every entry must start at the column of the first one. The mapping ends
// at the first token on a lesser column.
func (p *parser) parseBlockMapping(ctx *context) (*ast.MappingNode, error) {
	col := p.peekNonComment().column()
	node := ast.Mapping(nil, false)
	node.SetPath(ctx.path)
	keys := map[string]*token.Token{}
	for {
		start := p.idx
		comments := p.collectComments()
		t := p.current()
		if t == nil || isDocumentBoundary(t) || t.column() != col {
			p.idx = start
			break
		}
		if !isMapEntryStart(t) {
			if err := propertyAfterDedent(t); err != nil {
				return nil, err
			}
			return nil, errors.ErrSyntax("did not find expected key", t.first())
		}
		value, err := p.parseMappingValue(ctx, col)
		if err != nil {
			return nil, err
		}
		if len(comments) > 0 {
			value.SetComment(ast.CommentHeadPosition, ast.CommentGroup(comments))
		}
		if err := p.validateMapKey(keys, value.Key); err != nil {
			return nil, err
		}
		node.Values = append(node.Values, value)

		if next := p.peekNonComment(); next != nil && !isDocumentBoundary(next) && next.column() > col {
			return nil, errors.ErrSyntax("value is not allowed in this context", next.first())
		}
	}
	if foot := p.parseFootComment(col); foot != nil {
		node.SetComment(ast.CommentFootPosition, foot)
	}
	return node, nil
}

// parseMappingValue parses one block mapping entry.
func (p *parser) parseMappingValue(ctx *context, col int) (*ast.MappingValueNode, error) {
	t := p.current()
	switch {
	case t.groupType() == groupMapKeyValue:
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
	case t.groupType() == groupMapKey:
		p.advance()
		key, childCtx, err := p.parseMapKey(ctx, t.group.tokens[0])
		if err != nil {
			return nil, err
		}
		colon := t.group.tokens[1].raw
		value, err := p.parseBlockValue(childCtx.withOwner(col, true), t, colon, true)
		if err != nil {
			return nil, err
		}
		return p.newMappingValue(childCtx, colon, key, value, t.line()), nil
	case t.groupType() == groupExplicitKey:
		p.advance()
		key, childCtx, err := p.parseMapKey(ctx, t)
		if err != nil {
			return nil, err
		}
		value := p.implicitNull(childCtx, t.last())
		return p.newMappingValue(childCtx, t.first(), key, value, t.line()), nil
	}
	return p.parseExplicitMappingValue(ctx, col)
}

// parseExplicitMappingValue parses an entry whose key follows a '?' on
// its own or is a collection:
//
//	? - a
//	  - b
//	: value
func (p *parser) parseExplicitMappingValue(ctx *context, col int) (*ast.MappingValueNode, error) {
	t := p.current()
	p.advance()
	key := ast.MappingKey(t.raw)
	keyValue, err := p.parseBlockValue(ctx.withOwner(col, true), t, t.raw, false)
	if err != nil {
		return nil, err
	}
	key.Value = keyValue
	childCtx := ctx.withChild(keyText(key))
	key.SetPath(childCtx.path)

	next := p.peekNonComment()
	if next == nil || next.rawType() != token.MappingValueType || next.column() != col {
		value := p.implicitNull(childCtx, p.previousToken())
		return p.newMappingValue(childCtx, t.raw, key, value, t.line()), nil
	}
	p.collectComments()
	p.advance()
	value, err := p.parseBlockValue(childCtx.withOwner(col, true), next, next.raw, true)
	if err != nil {
		return nil, err
	}
	return p.newMappingValue(childCtx, next.raw, key, value, t.line()), nil
}

// parseMapKey builds the key node of t and the context of its value.
func (p *parser) parseMapKey(ctx *context, t *tkn) (ast.MapKeyNode, *context, error) {
	var key ast.MapKeyNode
	if t.groupType() == groupExplicitKey {
		explicit := ast.MappingKey(t.group.tokens[0].raw)
		value, err := p.parseScalarGroup(ctx, t.group.tokens[1])
		if err != nil {
			return nil, nil, err
		}
		explicit.Value = value
		key = explicit
	} else {
		node, err := p.parseScalarGroup(ctx, t)
		if err != nil {
			return nil, nil, err
		}
		mapKey, ok := node.(ast.MapKeyNode)
		if !ok {
			return nil, nil, errors.ErrSyntax("unsupported mapping key", t.first())
		}
		key = mapKey
	}
	childCtx := ctx.withChild(keyText(key))
	key.SetPath(childCtx.path)
	return key, childCtx, nil
}

func (p *parser) newMappingValue(ctx *context, start *token.Token, key ast.MapKeyNode, value ast.Node, line int) *ast.MappingValueNode {
	node := ast.MappingValue(start, key, value)
	node.SetPath(ctx.path)
	if !ctx.flow {
		if explicit, ok := key.(*ast.MappingKeyNode); ok {
			if comment := p.claimLineCommentOn(explicit.Start.Position.Line); comment != nil {
				explicit.SetComment(ast.CommentLinePosition, comment)
			}
			line = start.Position.Line
		}
		if comment := p.claimLineComment(line); comment != nil {
			node.SetComment(ast.CommentLinePosition, comment)
		}
	}
	return node
}

// keyText returns the text used to compare mapping keys.
func keyText(key ast.MapKeyNode) string {
	switch k := key.(type) {
	case *ast.AnchorNode:
		if v, ok := k.Value.(ast.MapKeyNode); ok {
			return keyText(v)
		}
	case *ast.TagNode:
		if v, ok := k.Value.(ast.MapKeyNode); ok {
			return keyText(v)
		}
	case *ast.MappingKeyNode:
		if v, ok := k.Value.(ast.MapKeyNode); ok {
			return keyText(v)
		}
		if k.Value != nil {
			return k.Value.String()
		}
	case *ast.LiteralNode:
		return k.Value.Value
	}
	if tk := key.GetToken(); tk != nil {
		return tk.Value
	}
	return key.String()
}

// validateMapKey records key in keys and reports a key defined twice.
// Merge keys may repeat.
func (p *parser) validateMapKey(keys map[string]*token.Token, key ast.MapKeyNode) error {
	if p.allowDuplicateMapKey || key.IsMergeKey() {
		return nil
	}
	text := keyText(key)
	if prev, exists := keys[text]; exists {
		return errors.ErrDuplicateKey(
			fmt.Sprintf("mapping key %q already defined at [%d:%d]", text, prev.Position.Line, prev.Position.Column),
			key.GetToken(),
		)
	}
	keys[text] = key.GetToken()
	return nil
}

// parseBlockSequence parses an indentation based sequence.
//
// Grammar:
//
//	BlockSequence = "-" [ Value ] { "-" [ Value ] } ;
func (p *parser) parseBlockSequence(ctx *context) (*ast.SequenceNode, error) {
	col := p.peekNonComment().column()
	node := ast.Sequence(nil, false)
	node.SetPath(ctx.path)
	for {
		start := p.idx
		comments := p.collectComments()
		t := p.current()
		if t == nil || isDocumentBoundary(t) || t.column() != col || t.rawType() != token.SequenceEntryType {
			if t != nil && !isDocumentBoundary(t) && t.column() == col {
				if err := propertyAfterDedent(t); err != nil {
					return nil, err
				}
			}
			p.idx = start
			break
		}
		p.advance()
		entryCtx := ctx.withIndex(len(node.Values))
		value, err := p.parseBlockValue(entryCtx.withOwner(col, false), t, t.raw, false)
		if err != nil {
			return nil, err
		}
		entry := ast.SequenceEntry(t.raw, value)
		entry.SetPath(entryCtx.path)
		if len(comments) > 0 {
			entry.SetComment(ast.CommentHeadPosition, ast.CommentGroup(comments))
		}
		if comment := p.claimLineComment(t.line()); comment != nil {
			entry.SetComment(ast.CommentLinePosition, comment)
		}
		node.Values = append(node.Values, entry)

		if next := p.peekNonComment(); next != nil && !isDocumentBoundary(next) && next.column() > col {
			return nil, errors.ErrSyntax("value is not allowed in this context", next.first())
		}
	}
	if foot := p.parseFootComment(col); foot != nil {
		node.SetComment(ast.CommentFootPosition, foot)
	}
	return node, nil
}

// propertyAfterDedent reports an anchor or tag written at the column of
// the entries of a block collection, where it can no longer apply to the
// previous entry's value.
func propertyAfterDedent(t *tkn) error {
	switch {
	case t.groupType() == groupAnchorName:
		return errors.ErrSyntax("anchor is not allowed after a dedent", t.first())
	case t.rawType() == token.TagType:
		return errors.ErrSyntax("tag is not allowed after a dedent", t.first())
	}
	return nil
}
