package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shapestone/shape-yaml-ast/internal/errors"
	"github.com/shapestone/shape-yaml-ast/internal/tokenizer"
	"github.com/shapestone/shape-yaml-ast/pkg/ast"
	"github.com/shapestone/shape-yaml-ast/pkg/token"
)

func parseBody(t *testing.T, src string) ast.Node {
	t.Helper()
	file, err := ParseBytes([]byte(src), 0)
	require.NoError(t, err)
	require.Len(t, file.Docs, 1)
	return file.Docs[0].Body
}

// TestParseBytes_NodeTypes tests the node built for each kind of root value
func TestParseBytes_NodeTypes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  ast.NodeType
	}{
		{name: "block mapping", input: "a: 1", want: ast.MappingType},
		{name: "block sequence", input: "- a\n- b", want: ast.SequenceType},
		{name: "flow sequence", input: "[1, 2]", want: ast.SequenceType},
		{name: "flow mapping", input: "{a: 1}", want: ast.MappingType},
		{name: "plain string", input: "hello world", want: ast.StringType},
		{name: "single quoted", input: "'q'", want: ast.StringType},
		{name: "double quoted", input: `"dq"`, want: ast.StringType},
		{name: "integer", input: "42", want: ast.IntegerType},
		{name: "hex integer", input: "0x1F", want: ast.IntegerType},
		{name: "float", input: "3.14", want: ast.FloatType},
		{name: "infinity", input: "-.inf", want: ast.InfinityType},
		{name: "nan", input: ".nan", want: ast.NanType},
		{name: "bool", input: "true", want: ast.BoolType},
		{name: "null", input: "~", want: ast.NullType},
		{name: "literal", input: "|\n  text\n", want: ast.LiteralType},
		{name: "folded", input: ">\n  text\n", want: ast.LiteralType},
		{name: "anchor", input: "&a 1", want: ast.AnchorType},
		{name: "alias", input: "*a", want: ast.AliasType},
		{name: "tag", input: "!!str 1", want: ast.TagType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := parseBody(t, tt.input)
			require.NotNil(t, body)
			assert.Equal(t, tt.want, body.Type())
		})
	}
}

// TestParseBytes_ScalarValues tests the decoded value of scalar nodes
func TestParseBytes_ScalarValues(t *testing.T) {
	tests := []struct {
		input string
		want  interface{}
	}{
		{input: "42", want: int64(42)},
		{input: "-7", want: int64(-7)},
		{input: "0x1F", want: int64(31)},
		{input: "0o17", want: int64(15)},
		{input: "0b101", want: int64(5)},
		{input: "1_000", want: int64(1000)},
		{input: "18446744073709551615", want: uint64(18446744073709551615)},
		{input: "1.5", want: 1.5},
		{input: "true", want: true},
		{input: "False", want: false},
		{input: "null", want: nil},
		{input: "plain text", want: "plain text"},
		{input: "'it''s'", want: "it's"},
		{input: `"tab\tend"`, want: "tab\tend"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			body := parseBody(t, tt.input)
			scalar, ok := body.(ast.ScalarNode)
			require.True(t, ok, "expected ScalarNode, got %T", body)
			assert.Equal(t, tt.want, scalar.GetValue())
		})
	}
}

// TestParseBytes_Mapping tests keys and values of a block mapping
func TestParseBytes_Mapping(t *testing.T) {
	body := parseBody(t, "name: John\nage: 30\ntags: [a, b]\n")
	mapping, ok := body.(*ast.MappingNode)
	require.True(t, ok)
	require.Len(t, mapping.Values, 3)
	assert.False(t, mapping.IsFlowStyle)

	assert.Equal(t, "name", mapping.Values[0].Key.String())
	assert.Equal(t, "John", mapping.Values[0].Value.(*ast.StringNode).Value)
	assert.Equal(t, int64(30), mapping.Values[1].Value.(*ast.IntegerNode).Value)

	tags, ok := mapping.Values[2].Value.(*ast.SequenceNode)
	require.True(t, ok)
	assert.True(t, tags.IsFlowStyle)
	assert.Len(t, tags.Values, 2)
}

// TestParseBytes_ImplicitNull tests that absent values become null nodes
// linked into the token list
func TestParseBytes_ImplicitNull(t *testing.T) {
	src := "a:\nb: 1\n"
	tokens := tokenizer.Tokenize(src)
	file, err := Parse(tokens, 0)
	require.NoError(t, err)

	mapping := file.Docs[0].Body.(*ast.MappingNode)
	null, ok := mapping.Values[0].Value.(*ast.NullNode)
	require.True(t, ok, "expected NullNode, got %T", mapping.Values[0].Value)
	assert.True(t, null.IsImplicit())
	assert.Equal(t, 1, null.Token.Position.Line)
	assert.Equal(t, 3, null.Token.Position.Column)

	colon := mapping.Values[0].Start
	require.Equal(t, token.MappingValueType, colon.Type)
	assert.Same(t, null.Token, colon.Next)
	assert.Same(t, colon, null.Token.Prev)

	var origin strings.Builder
	for tk := tokens[0]; tk != nil; tk = tk.Next {
		origin.WriteString(tk.Origin)
	}
	assert.Equal(t, src, origin.String())
}

// TestParseBytes_ImplicitNullPlacement tests where absent values appear
func TestParseBytes_ImplicitNullPlacement(t *testing.T) {
	tests := []struct {
		name  string
		input string
		path  string
	}{
		{name: "last key", input: "a: 1\nb:", path: "$.b"},
		{name: "empty sequence entry", input: "- \n- b", path: "$[0]"},
		{name: "anchor without value", input: "a: &x\nb: 1", path: "$.a"},
		{name: "flow key without value", input: "{a, b: 1}", path: "$.a"},
		{name: "explicit key", input: "? a\n", path: "$.a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := parseBody(t, tt.input)
			var found bool
			for _, n := range ast.Filter(ast.NullType, body) {
				if n.GetPath() == tt.path {
					found = true
					assert.True(t, n.(*ast.NullNode).IsImplicit())
				}
			}
			assert.True(t, found, "no implicit null at %s", tt.path)
		})
	}
}

// TestParseBytes_IndentlessSequence tests a sequence written at the column
// of its key
func TestParseBytes_IndentlessSequence(t *testing.T) {
	body := parseBody(t, "a:\n- b\n- c\nd: e\n")
	mapping := body.(*ast.MappingNode)
	require.Len(t, mapping.Values, 2)

	seq, ok := mapping.Values[0].Value.(*ast.SequenceNode)
	require.True(t, ok, "expected SequenceNode, got %T", mapping.Values[0].Value)
	assert.Len(t, seq.Values, 2)
	assert.Equal(t, "d", mapping.Values[1].Key.String())
}

// TestParseBytes_SequenceOfMappings tests mappings written on a dash line
func TestParseBytes_SequenceOfMappings(t *testing.T) {
	input := `users:
  - name: alice
    role: admin
  - name: bob
    role: dev
`
	body := parseBody(t, input)
	users := body.(*ast.MappingNode).Values[0].Value.(*ast.SequenceNode)
	require.Len(t, users.Values, 2)
	for i, name := range []string{"alice", "bob"} {
		entry, ok := users.Values[i].Value.(*ast.MappingNode)
		require.True(t, ok)
		require.Len(t, entry.Values, 2)
		assert.Equal(t, name, entry.Values[0].Value.String())
	}
}

// TestParseBytes_ExplicitKey tests '?' keys
func TestParseBytes_ExplicitKey(t *testing.T) {
	body := parseBody(t, "? a\n: b\n")
	mapping := body.(*ast.MappingNode)
	require.Len(t, mapping.Values, 1)
	key, ok := mapping.Values[0].Key.(*ast.MappingKeyNode)
	require.True(t, ok, "expected MappingKeyNode, got %T", mapping.Values[0].Key)
	assert.Equal(t, "a", key.Value.String())
	assert.Equal(t, "b", mapping.Values[0].Value.String())
}

// TestParseBytes_FlowPairInSequence tests a key/value pair inside brackets
func TestParseBytes_FlowPairInSequence(t *testing.T) {
	body := parseBody(t, "[a: 1, b]")
	seq := body.(*ast.SequenceNode)
	require.Len(t, seq.Values, 2)
	pair, ok := seq.Values[0].Value.(*ast.MappingNode)
	require.True(t, ok, "expected MappingNode, got %T", seq.Values[0].Value)
	assert.True(t, pair.IsFlowStyle)
	require.Len(t, pair.Values, 1)
	assert.Equal(t, "[{a: 1}, b]", seq.String())
}

// TestParseBytes_MergeKey tests that << may repeat in a mapping
func TestParseBytes_MergeKey(t *testing.T) {
	input := `base: &base {a: 1}
other: &other {b: 2}
child:
  <<: *base
  <<: *other
  c: 3
`
	body := parseBody(t, input)
	child := body.(*ast.MappingNode).Values[2].Value.(*ast.MappingNode)
	require.Len(t, child.Values, 3)
	assert.True(t, child.Values[0].IsMergeKey())
	assert.True(t, child.Values[1].IsMergeKey())
	assert.False(t, child.Values[2].IsMergeKey())
}

// TestParseBytes_DuplicateKey tests duplicate key detection and its option
func TestParseBytes_DuplicateKey(t *testing.T) {
	input := "a: 1\na: 2\n"

	_, err := ParseBytes([]byte(input), 0)
	require.Error(t, err)
	var dup *errors.DuplicateKeyError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, 2, dup.Token.Position.Line)
	assert.Equal(t, 1, dup.Token.Position.Column)
	assert.Contains(t, dup.Message, `mapping key "a" already defined at [1:1]`)

	file, err := ParseBytes([]byte(input), 0, AllowDuplicateMapKey())
	require.NoError(t, err)
	assert.Len(t, file.Docs[0].Body.(*ast.MappingNode).Values, 2)

	_, err = ParseBytes([]byte("{a: 1, a: 2}"), 0)
	assert.ErrorAs(t, err, &dup)
}

// TestParseBytes_Errors tests syntax errors and their positions
func TestParseBytes_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		message string
		line    int
		column  int
	}{
		{
			name:    "sequence as mapping value on the key line",
			input:   "a: - b",
			message: "block sequence entries are not allowed in this context",
			line:    1, column: 4,
		},
		{
			name:    "mapping as mapping value on the key line",
			input:   "a: b: c",
			message: "mapping value is not allowed in this context",
			line:    1, column: 4,
		},
		{
			name:    "missing flow separator",
			input:   "[[a] [b]]",
			message: "',' or ']' must be specified",
			line:    1, column: 6,
		},
		{
			name:    "unterminated flow sequence",
			input:   "[1, 2",
			message: "sequence end token ']' not found",
			line:    1, column: 1,
		},
		{
			name:    "unterminated flow mapping",
			input:   "{a: 1",
			message: "mapping end token '}' not found",
			line:    1, column: 1,
		},
		{
			name:    "empty flow entry",
			input:   "[1, , 2]",
			message: "sequence entry must not be empty",
			line:    1, column: 5,
		},
		{
			name:    "flow collection as key",
			input:   "[a]: b",
			message: "flow collection is not supported as a mapping key",
			line:    1, column: 1,
		},
		{
			name:    "deeper value after flow value",
			input:   "a: [1]\n  b",
			message: "value is not allowed in this context",
			line:    2, column: 3,
		},
		{
			name:    "anchor after dedent",
			input:   "a: 1\n&x\nb: 2",
			message: "anchor is not allowed after a dedent",
			line:    2, column: 1,
		},
		{
			name:    "block entry in flow",
			input:   "[- a]",
			message: "block sequence entries are not allowed in a flow collection",
			line:    1, column: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBytes([]byte(tt.input), 0)
			require.Error(t, err)
			var syntaxErr *errors.SyntaxError
			require.ErrorAs(t, err, &syntaxErr)
			assert.Equal(t, tt.message, syntaxErr.Message)
			assert.Equal(t, tt.line, syntaxErr.Token.Position.Line)
			assert.Equal(t, tt.column, syntaxErr.Token.Position.Column)
			assert.True(t, strings.HasPrefix(err.Error(), "["), "error should start with a position: %s", err)
		})
	}
}

// TestParseBytes_InvalidToken tests that scanner errors stop parsing
func TestParseBytes_InvalidToken(t *testing.T) {
	_, err := ParseBytes([]byte("a: @b"), 0)
	require.Error(t, err)
	var invalid *errors.InvalidTokenError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, 4, invalid.Token.Position.Column)
}

// TestParseBytes_ErrorExcerpt tests the source excerpt in error messages
func TestParseBytes_ErrorExcerpt(t *testing.T) {
	_, err := ParseBytes([]byte("a: 1\nb: 2\na: 3\n"), 0)
	require.Error(t, err)
	want := "[3:1] mapping key \"a\" already defined at [1:1]\n" +
		"    1 | a: 1\n" +
		"    2 | b: 2\n" +
		">   3 | a: 3\n" +
		"        ^"
	assert.Equal(t, want, err.Error())
}

// TestParseBytes_Paths tests the normalized path of nodes
func TestParseBytes_Paths(t *testing.T) {
	body := parseBody(t, "a:\n  b:\n    - x\n    - c: y\n'd.e': 1\n")

	paths := map[string]string{}
	for _, n := range ast.Filter(ast.StringType, body) {
		paths[n.String()] = n.GetPath()
	}
	for _, n := range ast.Filter(ast.IntegerType, body) {
		paths[n.String()] = n.GetPath()
	}
	assert.Equal(t, "$.a.b[0]", paths["x"])
	assert.Equal(t, "$.a.b[1].c", paths["y"])
	assert.Equal(t, "$.'d.e'", paths["1"])
}

// TestParseBytes_RoundTrip tests that String reproduces the input
func TestParseBytes_RoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		input string
		mode  Mode
	}{
		{name: "mapping with flow sequence", input: "a: 1\nb: [1, 2, 3]\n"},
		{name: "nested mapping with indentless sequence", input: "a:\n  b: c\n  d:\n  - e\n  - f\n"},
		{name: "sequence of mappings", input: "- a: 1\n  b: 2\n- c\n"},
		{name: "literal", input: "key: |\n  line1\n  line2\n"},
		{name: "anchor and alias", input: "a: &x 1\nb: *x\n"},
		{name: "tag", input: "x: !!str 123\n"},
		{name: "explicit key", input: "? a\n: b\n"},
		{name: "quoted", input: "'quoted': \"dq\"\n"},
		{name: "document markers", input: "--- 1\n...\n"},
		{name: "directive", input: "%YAML 1.2\n---\na: 1\n"},
		{name: "comments", input: "# head\na: 1 # line\n# foot\n", mode: ParseComments},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, err := ParseBytes([]byte(tt.input), tt.mode)
			require.NoError(t, err)
			assert.Equal(t, tt.input, file.String())
		})
	}
}

// TestParseBytes_Empty tests input without any document content
func TestParseBytes_Empty(t *testing.T) {
	for _, input := range []string{"", "\n\n"} {
		file, err := ParseBytes([]byte(input), 0)
		require.NoError(t, err)
		assert.Empty(t, file.Docs)
	}
}

// TestParseBytes_DeepNesting tests that deeply nested flow input parses
func TestParseBytes_DeepNesting(t *testing.T) {
	depth := 200
	input := strings.Repeat("[", depth) + strings.Repeat("]", depth)
	body := parseBody(t, input)
	for i := 0; i < depth-1; i++ {
		seq, ok := body.(*ast.SequenceNode)
		require.True(t, ok)
		require.Len(t, seq.Values, 1)
		body = seq.Values[0].Value
	}
	assert.Empty(t, body.(*ast.SequenceNode).Values)
}
