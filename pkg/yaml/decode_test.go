package yaml

import (
	"io"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shapestone/shape-yaml-ast/pkg/ast"
	"github.com/shapestone/shape-yaml-ast/pkg/token"
)

func decodeOne(t *testing.T, src string, opts ...DecodeOption) interface{} {
	t.Helper()
	dec := NewDecoder(strings.NewReader(src), opts...)
	v, err := dec.DecodeValue()
	require.NoError(t, err)
	return v
}

// TestDecodeValue_Scalars tests the Go type of each scalar kind
func TestDecodeValue_Scalars(t *testing.T) {
	tests := []struct {
		input string
		want  interface{}
	}{
		{input: "v: 1", want: int64(1)},
		{input: "v: -42", want: int64(-42)},
		{input: "v: 0x1A", want: int64(26)},
		{input: "v: 0o17", want: int64(15)},
		{input: "v: 017", want: int64(15)},
		{input: "v: 0b101", want: int64(5)},
		{input: "v: 18446744073709551615", want: uint64(math.MaxUint64)},
		{input: "v: 1.5", want: 1.5},
		{input: "v: 1e3", want: 1000.0},
		{input: "v: .inf", want: math.Inf(1)},
		{input: "v: -.Inf", want: math.Inf(-1)},
		{input: "v: true", want: true},
		{input: "v: False", want: false},
		{input: "v: yes", want: "yes"},
		{input: "v: ~", want: nil},
		{input: "v: null", want: nil},
		{input: "v:", want: nil},
		{input: "v: hello world", want: "hello world"},
		{input: "v: '123'", want: "123"},
		{input: "v: \"a\\tb\"", want: "a\tb"},
		{input: "v: 08", want: "08"},
		{input: "v: 2001-12-14", want: "2001-12-14"},
		{input: "v: |\n  line1\n  line2\n", want: "line1\nline2\n"},
		{input: "v: >-\n  folded\n  text\n", want: "folded text"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v := decodeOne(t, tt.input)
			m, ok := v.(map[string]interface{})
			require.True(t, ok, "expected mapping, got %T", v)
			assert.Equal(t, tt.want, m["v"])
		})
	}
}

// TestDecodeValue_NaN tests that .nan decodes to a NaN float
func TestDecodeValue_NaN(t *testing.T) {
	v := decodeOne(t, "- .nan\n")
	f, ok := v.([]interface{})[0].(float64)
	require.True(t, ok)
	assert.True(t, math.IsNaN(f))
}

// TestDecodeValue_Collections tests mappings and sequences
func TestDecodeValue_Collections(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  interface{}
	}{
		{
			name:  "block mapping with flow sequence",
			input: "a: 1\nb: [1, 2, 3]\n",
			want: map[string]interface{}{
				"a": int64(1),
				"b": []interface{}{int64(1), int64(2), int64(3)},
			},
		},
		{
			name:  "nested",
			input: "a:\n  b:\n    - c: 1\n    - d\n",
			want: map[string]interface{}{
				"a": map[string]interface{}{
					"b": []interface{}{map[string]interface{}{"c": int64(1)}, "d"},
				},
			},
		},
		{
			name:  "null sequence entries",
			input: "-\n- a\n-\n",
			want:  []interface{}{nil, "a", nil},
		},
		{
			name:  "flow mapping",
			input: "{a: 1, b: {c: x}}",
			want: map[string]interface{}{
				"a": int64(1),
				"b": map[string]interface{}{"c": "x"},
			},
		},
		{
			name:  "flow pair in sequence",
			input: "[{a: 1}, b]",
			want:  []interface{}{map[string]interface{}{"a": int64(1)}, "b"},
		},
		{
			name:  "explicit key",
			input: "? a\n: b\n",
			want:  map[string]interface{}{"a": "b"},
		},
		{
			name:  "non-string keys",
			input: "1: one\ntrue: yes\n",
			want:  map[string]interface{}{"1": "one", "true": "yes"},
		},
		{
			name:  "strings that look like collections",
			input: "a: '{x}'\nb: \"[y]\"\n",
			want:  map[string]interface{}{"a": "{x}", "b": "[y]"},
		},
		{
			name:  "scalar document",
			input: "hello",
			want:  "hello",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, decodeOne(t, tt.input))
		})
	}
}

// TestDecodeValue_Anchors tests anchors and aliases
func TestDecodeValue_Anchors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  interface{}
	}{
		{
			name:  "scalar alias",
			input: "a: &x 1\nb: *x\n",
			want:  map[string]interface{}{"a": int64(1), "b": int64(1)},
		},
		{
			name:  "collection alias",
			input: "a: &x [1, 2]\nb: *x\n",
			want: map[string]interface{}{
				"a": []interface{}{int64(1), int64(2)},
				"b": []interface{}{int64(1), int64(2)},
			},
		},
		{
			name:  "self reference",
			input: "a: &x [*x]\n",
			want:  map[string]interface{}{"a": []interface{}{nil}},
		},
		{
			name:  "redefined anchor",
			input: "- &x 1\n- *x\n- &x 2\n- *x\n",
			want:  []interface{}{int64(1), int64(1), int64(2), int64(2)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, decodeOne(t, tt.input))
		})
	}
}

// TestDecodeValue_UnknownAlias tests an alias without an anchor
func TestDecodeValue_UnknownAlias(t *testing.T) {
	_, err := NewDecoder(strings.NewReader("a: *missing\n")).DecodeValue()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `could not find alias "missing"`)
}

// TestDecodeValue_MergeKeys tests << merges
func TestDecodeValue_MergeKeys(t *testing.T) {
	tests := []struct {
		name  string
		input string
		path  string
		want  interface{}
	}{
		{
			name:  "explicit key after merge wins",
			input: "base: &b {a: 1}\nfoo:\n  <<: *b\n  b: 2\n",
			path:  "foo",
			want:  map[string]interface{}{"a": int64(1), "b": int64(2)},
		},
		{
			name:  "explicit key before merge wins",
			input: "base: &b {a: 1, b: 1}\nfoo:\n  b: 2\n  <<: *b\n",
			path:  "foo",
			want:  map[string]interface{}{"a": int64(1), "b": int64(2)},
		},
		{
			name:  "first merge source wins",
			input: "x: &x {a: 1}\ny: &y {a: 2, b: 3}\nfoo:\n  <<: [*x, *y]\n",
			path:  "foo",
			want:  map[string]interface{}{"a": int64(1), "b": int64(3)},
		},
		{
			name:  "inline mapping",
			input: "foo:\n  <<: {a: 1}\n  c: 3\n",
			path:  "foo",
			want:  map[string]interface{}{"a": int64(1), "c": int64(3)},
		},
		{
			name:  "self merge",
			input: "foo: &f\n  <<: *f\n  a: 1\n",
			path:  "foo",
			want:  map[string]interface{}{"a": int64(1)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := decodeOne(t, tt.input).(map[string]interface{})
			assert.Equal(t, tt.want, m[tt.path])
		})
	}
}

// TestDecodeValue_MergeKeyErrors tests merging values that are not mappings
func TestDecodeValue_MergeKeyErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		actual ast.NodeType
	}{
		{name: "scalar", input: "foo:\n  <<: 1\n", actual: ast.IntegerType},
		{name: "aliased scalar", input: "s: &s text\nfoo:\n  <<: *s\n", actual: ast.StringType},
		{name: "sequence of scalars", input: "foo:\n  <<: [1, 2]\n", actual: ast.IntegerType},
		{name: "null", input: "foo:\n  <<:\n", actual: ast.NullType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDecoder(strings.NewReader(tt.input)).DecodeValue()
			require.Error(t, err)
			var typeErr *UnexpectedNodeTypeError
			require.ErrorAs(t, err, &typeErr)
			assert.Equal(t, tt.actual, typeErr.Actual)
			assert.Equal(t, ast.MappingType, typeErr.Expected)
		})
	}
}

// TestDecodeValue_DuplicateKey tests repeated mapping keys
func TestDecodeValue_DuplicateKey(t *testing.T) {
	src := "a: 1\na: 2\n"

	_, err := NewDecoder(strings.NewReader(src)).DecodeValue()
	require.Error(t, err)
	var dupErr *DuplicateKeyError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, 2, dupErr.Token.Position.Line)

	v := decodeOne(t, src, AllowDuplicateMapKey())
	assert.Equal(t, map[string]interface{}{"a": int64(2)}, v)
}

// TestDecodeValue_Tags tests core schema tags
func TestDecodeValue_Tags(t *testing.T) {
	tests := []struct {
		input string
		want  interface{}
	}{
		{input: "v: !!str 123", want: "123"},
		{input: "v: !!str 0x1F", want: "0x1F"},
		{input: "v: !!str true", want: "true"},
		{input: "v: !!str ~", want: ""},
		{input: "v: !!int '42'", want: int64(42)},
		{input: "v: !!int \"0x10\"", want: int64(16)},
		{input: "v: !!float 1", want: 1.0},
		{input: "v: !!float '2.5'", want: 2.5},
		{input: "v: !!bool yes", want: true},
		{input: "v: !!bool T", want: true},
		{input: "v: !!bool '0'", want: false},
		{input: "v: !!bool No", want: false},
		{input: "v: !!null ''", want: nil},
		{input: "v: !!binary aGVsbG8=", want: []byte("hello")},
		{input: "v: !!binary '***'", want: nil},
		{input: "v: !!timestamp 2001-12-14", want: time.Date(2001, 12, 14, 0, 0, 0, 0, time.UTC)},
		{input: "v: !!timestamp 2001-12-14T21:59:43.10Z", want: time.Date(2001, 12, 14, 21, 59, 43, 100000000, time.UTC)},
		{input: "v: !!map {a: 1}", want: map[string]interface{}{"a": int64(1)}},
		{input: "v: !custom text", want: "text"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			m := decodeOne(t, tt.input).(map[string]interface{})
			assert.Equal(t, tt.want, m["v"])
		})
	}
}

// TestDecodeValue_TagErrors tests values a tag cannot convert
func TestDecodeValue_TagErrors(t *testing.T) {
	tests := []struct {
		input string
		msg   string
	}{
		{input: "v: !!bool maybe", msg: `cannot convert "maybe" to bool`},
		{input: "v: !!int abc", msg: `cannot convert "abc" to integer`},
		{input: "v: !!float abc", msg: `cannot convert "abc" to float`},
		{input: "v: !!timestamp yesterday", msg: `cannot convert "yesterday" to timestamp`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := NewDecoder(strings.NewReader(tt.input)).DecodeValue()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
			assert.True(t, strings.HasPrefix(err.Error(), "[1:4]"), err.Error())
		})
	}
}

// TestDecodeValue_SecondaryTagDirective tests that a %TAG !! directive keeps
// tagged values as text
func TestDecodeValue_SecondaryTagDirective(t *testing.T) {
	v := decodeOne(t, "%TAG !! tag:example.com,2000:\n---\n!!int 0x10\n")
	assert.Equal(t, "0x10", v)
}

// TestDecode_MultipleDocuments tests one document per Decode call
func TestDecode_MultipleDocuments(t *testing.T) {
	dec := NewDecoder(strings.NewReader("a: 1\n---\n- b\n---\n"))

	var got []interface{}
	for {
		var v interface{}
		err := dec.Decode(&v)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		got = append(got, v)
	}
	assert.Equal(t, []interface{}{
		map[string]interface{}{"a": int64(1)},
		[]interface{}{"b"},
		nil,
	}, got)

	var v interface{}
	assert.Equal(t, io.EOF, dec.Decode(&v))
}

// TestDecode_AnchorsArePerDocument tests that anchors do not leak between
// documents
func TestDecode_AnchorsArePerDocument(t *testing.T) {
	dec := NewDecoder(strings.NewReader("a: &x 1\n---\nb: *x\n"))
	_, err := dec.DecodeValue()
	require.NoError(t, err)
	_, err = dec.DecodeValue()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `could not find alias "x"`)
}

// TestDecode_Empty tests input without documents
func TestDecode_Empty(t *testing.T) {
	for _, src := range []string{"", "\n\n"} {
		var v interface{}
		err := NewDecoder(strings.NewReader(src)).Decode(&v)
		assert.Equal(t, io.EOF, err, "input %q", src)
	}
	assert.NoError(t, Unmarshal(nil, &struct{}{}))
}

// TestDecode_RequiresPointer tests invalid decode targets
func TestDecode_RequiresPointer(t *testing.T) {
	var m map[string]interface{}
	assert.ErrorIs(t, NewDecoder(strings.NewReader("a: 1")).Decode(m), ErrDecodeRequiredPointerType)
	assert.ErrorIs(t, NewDecoder(strings.NewReader("a: 1")).Decode(nil), ErrDecodeRequiredPointerType)
}

func nestedSequences(depth int) ast.Node {
	pos := &token.Position{Line: 1, Column: 1}
	var node ast.Node = ast.Null(token.ImplicitNull(pos))
	for i := 0; i < depth; i++ {
		start := token.New("[", "[", pos)
		seq := ast.Sequence(start, true)
		seq.Values = append(seq.Values, ast.SequenceEntry(start, node))
		node = seq
	}
	return node
}

// TestDecode_ExceededMaxDepth tests the nesting ceiling
func TestDecode_ExceededMaxDepth(t *testing.T) {
	var v interface{}
	dec := NewDecoder(strings.NewReader(""))
	assert.ErrorIs(t, dec.DecodeFromNode(nestedSequences(maxDecodeDepth), &v), ErrExceededMaxDepth)
	assert.NoError(t, dec.DecodeFromNode(nestedSequences(maxDecodeDepth-1), &v))

	src := strings.Repeat("[", 100) + strings.Repeat("]", 100)
	_, err := NewDecoder(strings.NewReader(src)).DecodeValue()
	assert.NoError(t, err)
}

// TestDecodeFromNode tests decoding a subtree of a parsed file
func TestDecodeFromNode(t *testing.T) {
	file, err := Parse("a: &x 1\nb:\n  c: *x\n")
	require.NoError(t, err)
	mapping := file.Docs[0].Body.(*ast.MappingNode)

	dec := NewDecoder(strings.NewReader(""))
	var a int
	require.NoError(t, dec.DecodeFromNode(mapping.Values[0].Value, &a))
	assert.Equal(t, 1, a)

	var b map[string]int
	require.NoError(t, dec.DecodeFromNode(mapping.Values[1].Value, &b))
	assert.Equal(t, map[string]int{"c": 1}, b)
}

// TestUseOrderedMap tests that key order is kept
func TestUseOrderedMap(t *testing.T) {
	v := decodeOne(t, "b: 1\na:\n  d: x\n  c: y\n", UseOrderedMap())
	want := MapSlice{
		{Key: "b", Value: int64(1)},
		{Key: "a", Value: MapSlice{{Key: "d", Value: "x"}, {Key: "c", Value: "y"}}},
	}
	assert.Equal(t, want, v)

	data, err := want.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"b":1,"a":{"d":"x","c":"y"}}`, string(data))

	_, err = MapSlice{{Key: "ch", Value: make(chan int)}}.MarshalJSON()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `key "ch"`)

	value, ok := want.Get("a")
	require.True(t, ok)
	assert.Equal(t, map[string]interface{}{"d": "x", "c": "y"}, value.(MapSlice).ToMap())
}

// TestUseOrderedMap_Merge tests that merged keys take the place of <<
func TestUseOrderedMap_Merge(t *testing.T) {
	v := decodeOne(t, "base: &b {y: 1, z: 2}\nfoo:\n  x: 0\n  <<: *b\n  z: 3\n", UseOrderedMap())
	foo, ok := v.(MapSlice).Get("foo")
	require.True(t, ok)
	assert.Equal(t, MapSlice{
		{Key: "x", Value: int64(0)},
		{Key: "y", Value: int64(1)},
		{Key: "z", Value: int64(3)},
	}, foo)
}

// TestCommentToMap tests collecting comments by path
func TestCommentToMap(t *testing.T) {
	src := "# head\na: 1 # line\nb:\n  - x # item\n"
	cm := CommentMap{}
	v := decodeOne(t, src, CommentToMap(cm))
	assert.Equal(t, map[string]interface{}{"a": int64(1), "b": []interface{}{"x"}}, v)

	assert.Equal(t, []*Comment{
		{Texts: []string{" head"}, Position: HeadComment},
		{Texts: []string{" line"}, Position: LineComment},
	}, cm["$.a"])
	assert.Equal(t, []*Comment{
		{Texts: []string{" item"}, Position: LineComment},
	}, cm["$.b[0]"])

	_, err := NewDecoder(strings.NewReader(src), CommentToMap(nil)).DecodeValue()
	assert.ErrorIs(t, err, ErrInvalidCommentMapValue)
}

// TestProperties_RoundTrip tests that rendering a parsed stream and
// decoding it again yields the same values
func TestProperties_RoundTrip(t *testing.T) {
	inputs := []string{
		"a: 1\nb: [1, 2, 3]\n",
		"a: &x 1\nb: *x\n",
		"base: &b {a: 1}\nfoo:\n  <<: *b\n  b: 2\n",
		"x: !!str 123\n",
		"- a\n- b:\n    c: |\n      text\n",
		"a: 1\n---\nb: 2\n",
		"k: 'quoted '' string'\nl: \"esc\\n\"\n",
		" ---\n",
		" ... x\n",
		" %foo bar\n",
		"a: 'yes'\nb: '12:30'\nc: '--- x'\n",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			file, err := Parse(input)
			require.NoError(t, err)

			want := decodeAll(t, input)
			got := decodeAll(t, file.String())
			assert.Equal(t, want, got, "rendered as %q", file.String())
		})
	}
}

func decodeAll(t *testing.T, src string) []interface{} {
	t.Helper()
	dec := NewDecoder(strings.NewReader(src))
	var values []interface{}
	for {
		v, err := dec.DecodeValue()
		if err == io.EOF {
			return values
		}
		require.NoError(t, err)
		values = append(values, v)
	}
}

// TestProperties_TabIndentation tests that a tab used for indentation is
// rejected by the scanner
func TestProperties_TabIndentation(t *testing.T) {
	_, err := NewDecoder(strings.NewReader("a:\n\tb: 1\n")).DecodeValue()
	require.Error(t, err)
	var tokenErr *InvalidTokenError
	assert.ErrorAs(t, err, &tokenErr)
}
