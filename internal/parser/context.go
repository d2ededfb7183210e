package parser

import (
	"fmt"
	"strings"
)

// context carries the position of the node being parsed within its document.
type context struct {
	path string
	flow bool
	// ownerColumn is the column of the key or dash that owns the value
	// being parsed. A value on a later line must start beyond it.
	ownerColumn int
	// indentlessOK allows a block sequence at ownerColumn, as in
	//
	//	key:
	//	- a
	//	- b
	indentlessOK bool
}

func newContext() *context {
	return &context{path: "$"}
}

func (c *context) clone() *context {
	copied := *c
	return &copied
}

// withChild returns the context of the value stored under key.
func (c *context) withChild(key string) *context {
	ctx := c.clone()
	ctx.path = c.path + "." + normalizePath(key)
	return ctx
}

// withIndex returns the context of the idx'th sequence entry.
func (c *context) withIndex(idx int) *context {
	ctx := c.clone()
	ctx.path = fmt.Sprintf("%s[%d]", c.path, idx)
	return ctx
}

func (c *context) withFlow(isFlow bool) *context {
	ctx := c.clone()
	ctx.flow = isFlow
	return ctx
}

// withOwner returns the context of a value owned by the key or dash at column.
func (c *context) withOwner(column int, indentlessOK bool) *context {
	ctx := c.clone()
	ctx.ownerColumn = column
	ctx.indentlessOK = indentlessOK
	return ctx
}

const pathSpecialChars = `.[]$*'" `

// normalizePath quotes keys that would otherwise be read as path syntax.
func normalizePath(key string) string {
	if strings.ContainsAny(key, pathSpecialChars) {
		return "'" + strings.ReplaceAll(key, "'", "''") + "'"
	}
	return key
}
