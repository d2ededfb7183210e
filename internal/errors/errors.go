// Package errors defines the error values returned by the parser and decoder.
//
// Every error that points at a location in the source carries the offending
// token. Its message starts with "[line:column]" and is followed by an
// excerpt of the surrounding source rebuilt from the token list.
package errors

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/xerrors"

	"github.com/shapestone/shape-yaml-ast/pkg/ast"
	"github.com/shapestone/shape-yaml-ast/pkg/token"
)

var (
	// ErrExceededMaxDepth is returned when decoding nests deeper than the
	// decoder's recursion ceiling.
	ErrExceededMaxDepth = xerrors.New("exceeded max depth")
	// ErrEOF reports that a stream has no more documents.
	ErrEOF = io.EOF
)

// TokenError is implemented by errors that point at a token.
type TokenError interface {
	error
	GetToken() *token.Token
	GetMessage() string
}

// SyntaxError is a parser error at a specific token.
type SyntaxError struct {
	Message string
	Token   *token.Token
}

// ErrSyntax creates a syntax error at tk.
func ErrSyntax(msg string, tk *token.Token) *SyntaxError {
	return &SyntaxError{Message: msg, Token: tk}
}

func (e *SyntaxError) Error() string          { return formatError(e.Message, e.Token) }
func (e *SyntaxError) GetToken() *token.Token { return e.Token }
func (e *SyntaxError) GetMessage() string     { return e.Message }

// InvalidTokenError reports the first token the scanner could not read.
type InvalidTokenError struct {
	Token *token.Token
}

// ErrInvalidToken wraps an Invalid token produced by the scanner.
func ErrInvalidToken(tk *token.Token) *InvalidTokenError {
	return &InvalidTokenError{Token: tk}
}

func (e *InvalidTokenError) Error() string          { return formatError(e.Token.Error, e.Token) }
func (e *InvalidTokenError) GetToken() *token.Token { return e.Token }
func (e *InvalidTokenError) GetMessage() string     { return e.Token.Error }

// DuplicateKeyError reports a mapping key defined twice in one mapping.
type DuplicateKeyError struct {
	Message string
	Token   *token.Token
}

// ErrDuplicateKey creates a duplicate key error at tk, the second definition.
func ErrDuplicateKey(msg string, tk *token.Token) *DuplicateKeyError {
	return &DuplicateKeyError{Message: msg, Token: tk}
}

func (e *DuplicateKeyError) Error() string          { return formatError(e.Message, e.Token) }
func (e *DuplicateKeyError) GetToken() *token.Token { return e.Token }
func (e *DuplicateKeyError) GetMessage() string     { return e.Message }

// UnexpectedNodeTypeError reports a node of the wrong kind, such as a
// scalar used as the source of a merge key.
type UnexpectedNodeTypeError struct {
	Actual   ast.NodeType
	Expected ast.NodeType
	Token    *token.Token
}

// ErrUnexpectedNodeType creates an UnexpectedNodeTypeError.
func ErrUnexpectedNodeType(actual, expected ast.NodeType, tk *token.Token) *UnexpectedNodeTypeError {
	return &UnexpectedNodeTypeError{Actual: actual, Expected: expected, Token: tk}
}

func (e *UnexpectedNodeTypeError) Error() string { return formatError(e.GetMessage(), e.Token) }

func (e *UnexpectedNodeTypeError) GetToken() *token.Token { return e.Token }

func (e *UnexpectedNodeTypeError) GetMessage() string {
	return fmt.Sprintf("%s was used where %s is expected", e.Actual.YAMLName(), e.Expected.YAMLName())
}

func formatError(msg string, tk *token.Token) string {
	if tk == nil || tk.Position == nil {
		return msg
	}
	var b strings.Builder
	fmt.Fprintf(&b, "[%d:%d] %s", tk.Position.Line, tk.Position.Column, msg)
	if excerpt := sourceExcerpt(tk); excerpt != "" {
		b.WriteByte('\n')
		b.WriteString(excerpt)
	}
	return b.String()
}

// excerptLines is the number of lines shown before the error line.
const excerptLines = 2

// sourceExcerpt renders the lines around tk with a caret under its column:
//
//	   1 | a: 1
//	>  2 | a: 2
//	       ^
func sourceExcerpt(tk *token.Token) string {
	first := tk
	for first.Prev != nil {
		first = first.Prev
	}
	var src strings.Builder
	for t := first; t != nil; t = t.Next {
		src.WriteString(t.Origin)
	}
	text := strings.ReplaceAll(src.String(), "\r\n", "\n")
	lines := strings.Split(text, "\n")

	line := tk.Position.Line
	if line < 1 || line > len(lines) {
		return ""
	}
	var b strings.Builder
	for n := max(1, line-excerptLines); n <= line; n++ {
		marker := " "
		if n == line {
			marker = ">"
		}
		fmt.Fprintf(&b, "%s %3d | %s\n", marker, n, lines[n-1])
	}
	fmt.Fprintf(&b, "%s^", strings.Repeat(" ", 8+max(tk.Position.Column-1, 0)))
	return b.String()
}
