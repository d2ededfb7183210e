// Package yaml reads YAML 1.2 streams into syntax trees and Go values.
//
// Input passes through three stages:
//
//   - Tokenize scans the source into a linked list of tokens whose Origin
//     text reproduces the input exactly.
//   - Parse and ParseBytes group the tokens and build an *ast.File with one
//     DocumentNode per document, keeping comments when asked to.
//   - Decoder and Unmarshal turn documents into Go values, resolving
//     anchors, aliases, merge keys and core schema tags.
//
// # Thread Safety
//
// All package level functions are safe for concurrent use. A Decoder holds
// per-stream state and must not be shared between goroutines.
//
//	go func() { yaml.Parse(input1) }()
//	go func() { yaml.Unmarshal(data, &v) }()
//
// # Example usage with Parse:
//
//	file, err := yaml.Parse("name: Alice\nage: 30")
//	if err != nil {
//	    // handle error
//	}
//	fmt.Println(file.Docs[0].Body.GetPath()) // $
//
// # Example usage with Decoder:
//
//	dec := yaml.NewDecoder(f, yaml.UseOrderedMap())
//	for {
//	    var v interface{}
//	    if err := dec.Decode(&v); err == io.EOF {
//	        break
//	    } else if err != nil {
//	        // handle error
//	    }
//	}
package yaml

import (
	"io"

	"golang.org/x/xerrors"

	"github.com/shapestone/shape-yaml-ast/internal/parser"
	"github.com/shapestone/shape-yaml-ast/internal/tokenizer"
	"github.com/shapestone/shape-yaml-ast/pkg/ast"
	"github.com/shapestone/shape-yaml-ast/pkg/token"
)

// Mode controls optional parser behavior.
type Mode = parser.Mode

// ParseComments attaches comments to the syntax tree.
const ParseComments = parser.ParseComments

// Tokenize scans src into tokens. Scanning stops at the first invalid
// token, which is the last element of the result.
func Tokenize(src string) token.Tokens {
	return tokenizer.Tokenize(src)
}

// Parse parses a YAML stream without comments.
func Parse(src string) (*ast.File, error) {
	return parser.ParseBytes([]byte(src), 0)
}

// ParseBytes parses a YAML stream.
func ParseBytes(src []byte, mode Mode) (*ast.File, error) {
	return parser.ParseBytes(src, mode)
}

// ParseReader reads r to the end and parses it.
func ParseReader(r io.Reader, mode Mode) (*ast.File, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, xerrors.Errorf("failed to read input: %w", err)
	}
	return parser.ParseBytes(src, mode)
}
