package parser

import (
	"fmt"

	"github.com/shapestone/shape-yaml-ast/internal/errors"
	"github.com/shapestone/shape-yaml-ast/pkg/ast"
)

// supportedYAMLVersions are the versions accepted by the %YAML directive.
var supportedYAMLVersions = map[string]bool{
	"1.0": true,
	"1.1": true,
	"1.2": true,
	"1.3": true,
}

// parseDirective parses a directive line at the beginning of a document.
// Directives must appear before the document header (---).
//
// Grammar:
//
//	DirectiveLine = "%" DirectiveName DirectiveParameter* Newline ;
//
// Supported directives:
//
//	%YAML 1.2         - Specifies YAML version
//	%TAG ! prefix     - Defines a tag shorthand
//
// Unknown directives are kept in the tree and otherwise ignored.
func (p *parser) parseDirective(ctx *context) (*ast.DirectiveNode, error) {
	t := p.current()
	p.advance()
	members := t.group.tokens
	node := ast.Directive(members[0].raw)
	node.SetPath(ctx.path)
	if len(members) < 2 {
		return nil, errors.ErrSyntax("directive name is missing", members[0].raw)
	}
	node.Name = ast.String(members[1].raw)
	for _, member := range members[2:] {
		node.Values = append(node.Values, ast.String(member.raw))
	}

	var err error
	switch node.Name.Value {
	case "YAML":
		err = p.processYAMLDirective(node)
	case "TAG":
		err = p.processTAGDirective(node)
	}
	if err != nil {
		return nil, err
	}
	return node, nil
}

// processYAMLDirective processes the %YAML directive.
// Format: %YAML major.minor
// Example: %YAML 1.2
func (p *parser) processYAMLDirective(node *ast.DirectiveNode) error {
	if p.yamlVersion != "" {
		return errors.ErrSyntax("the %YAML directive is already defined", node.Start)
	}
	if len(node.Values) != 1 {
		return errors.ErrSyntax("the %YAML directive requires exactly one version", node.Start)
	}
	version := node.Values[0].Value
	if !supportedYAMLVersions[version] {
		return errors.ErrSyntax(fmt.Sprintf("unsupported YAML version %q", version), node.Values[0].Token)
	}
	p.yamlVersion = version
	return nil
}

// processTAGDirective processes the %TAG directive.
// Format: %TAG handle prefix
// Example: %TAG ! tag:example.com,2000:
// Example: %TAG !! tag:yaml.org,2002:
// Example: %TAG !e! tag:example.com,2000:app/
//
// A prefix for the secondary handle "!!" replaces the core schema tags of
// the document.
func (p *parser) processTAGDirective(node *ast.DirectiveNode) error {
	if len(node.Values) != 2 {
		return errors.ErrSyntax("the %TAG directive requires a handle and a prefix", node.Start)
	}
	handle := node.Values[0].Value
	if !isTagHandle(handle) {
		return errors.ErrSyntax(fmt.Sprintf("invalid tag handle %q", handle), node.Values[0].Token)
	}
	p.tagHandles[handle] = node.Values[1].Value
	if handle == "!!" {
		p.secondaryTagDirective = node
	}
	return nil
}

// resetDirectives resets directives to default state.
// This is called at the start of each document in a multi-document stream.
func (p *parser) resetDirectives() {
	p.yamlVersion = ""
	p.secondaryTagDirective = nil

	// Per YAML spec, these are the default tag handles:
	// ! -> ! (local tags)
	// !! -> tag:yaml.org,2002: (core schema)
	p.tagHandles = map[string]string{
		"!":  "!",
		"!!": "tag:yaml.org,2002:",
	}
}
