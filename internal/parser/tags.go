package parser

import (
	"fmt"
	"strings"

	"github.com/shapestone/shape-yaml-ast/internal/errors"
	"github.com/shapestone/shape-yaml-ast/pkg/ast"
	"github.com/shapestone/shape-yaml-ast/pkg/token"
)

// newTagNode creates the node of a tag token.
//
// Tags can be:
//   - Core tags: !!str, !!int, !!float, !!bool, !!null, !!map, !!seq
//   - Local tags: !MyType
//   - Tags with a named handle declared by %TAG: !e!type
//   - Verbatim tags: !<tag:example.com,2000:type>
//
// Tags using the "!!" handle point at the document's %TAG !! directive, if any.
func (p *parser) newTagNode(ctx *context, tk *token.Token) (*ast.TagNode, error) {
	tag := ast.Tag(tk)
	tag.SetPath(ctx.path)
	handle := tagHandle(tk.Value)
	if _, declared := p.tagHandles[handle]; !declared {
		return nil, errors.ErrSyntax(fmt.Sprintf("tag handle %q is not declared", handle), tk)
	}
	if handle == "!!" {
		tag.Directive = p.secondaryTagDirective
	}
	return tag, nil
}

// setTagValue applies tag to value. Collection tags require a node of the
// matching kind.
func (p *parser) setTagValue(tag *ast.TagNode, value ast.Node) (*ast.TagNode, error) {
	tag.Value = value
	if tag.Directive != nil {
		return tag, nil
	}
	var expected ast.NodeType
	switch token.ReservedTagKeyword(tag.Start.Value) {
	case token.MappingTag, token.SetTag:
		expected = ast.MappingType
	case token.SequenceTag, token.OrderedMapTag:
		expected = ast.SequenceType
	default:
		return tag, nil
	}
	switch actual := underlyingType(value); actual {
	case expected, ast.NullType, ast.AliasType:
		return tag, nil
	default:
		return nil, errors.ErrUnexpectedNodeType(actual, expected, value.GetToken())
	}
}

// underlyingType returns the type of node with anchors removed.
func underlyingType(node ast.Node) ast.NodeType {
	for {
		anchor, ok := node.(*ast.AnchorNode)
		if !ok || anchor.Value == nil {
			return node.Type()
		}
		node = anchor.Value
	}
}

// tagHandle returns the handle of a tag: "!", "!!" or a named "!name!".
func tagHandle(tag string) string {
	if strings.HasPrefix(tag, "!<") {
		return "!"
	}
	if strings.HasPrefix(tag, "!!") {
		return "!!"
	}
	for i := 1; i < len(tag); i++ {
		c := tag[i]
		if c == '!' {
			return tag[:i+1]
		}
		if !isWordChar(c) {
			break
		}
	}
	return "!"
}

// isTagHandle reports whether handle is "!", "!!" or "!" word "!".
func isTagHandle(handle string) bool {
	if handle == "!" || handle == "!!" {
		return true
	}
	if len(handle) < 3 || handle[0] != '!' || handle[len(handle)-1] != '!' {
		return false
	}
	for i := 1; i < len(handle)-1; i++ {
		if !isWordChar(handle[i]) {
			return false
		}
	}
	return true
}

func isWordChar(c byte) bool {
	return c == '-' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
