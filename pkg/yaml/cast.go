package yaml

import (
	"encoding/base64"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shapestone/shape-yaml-ast/internal/errors"
	"github.com/shapestone/shape-yaml-ast/pkg/ast"
	"github.com/shapestone/shape-yaml-ast/pkg/token"
)

// timestampFormats are tried in order for !!timestamp values.
var timestampFormats = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-1-2T15:4:5.999999999Z07:00",
	"2006-1-2t15:4:5.999999999Z07:00",
	"2006-1-2 15:4:5.999999999 -07:00",
	"2006-1-2 15:4:5.999999999",
	"2006-1-2",
}

func (d *Decoder) tagToValue(n *ast.TagNode) (interface{}, error) {
	if n.Directive != nil {
		// a %TAG !! directive replaces the core schema, so the value is
		// kept as written
		if _, ok := n.Value.(ast.ScalarNode); ok {
			return d.textOf(n.Value)
		}
		return d.nodeToValue(n.Value)
	}

	switch token.ReservedTagKeyword(n.Start.Value) {
	case token.NullTag:
		return nil, nil
	case token.StringTag:
		return d.textOf(n.Value)
	case token.IntegerTag:
		text, err := d.textOf(n.Value)
		if err != nil {
			return nil, err
		}
		return castToInt(text, n.Start)
	case token.FloatTag:
		text, err := d.textOf(n.Value)
		if err != nil {
			return nil, err
		}
		return castToFloat(text, n.Start)
	case token.BooleanTag:
		text, err := d.textOf(n.Value)
		if err != nil {
			return nil, err
		}
		return castToBool(text, n.Start)
	case token.TimestampTag:
		text, err := d.textOf(n.Value)
		if err != nil {
			return nil, err
		}
		return castToTime(text, n.Start)
	case token.BinaryTag:
		text, err := d.textOf(n.Value)
		if err != nil {
			return nil, err
		}
		return castToBinary(text), nil
	}
	return d.nodeToValue(n.Value)
}

// textOf returns the source text of a scalar, or the string form of any
// other decoded value. Null is the empty string.
func (d *Decoder) textOf(node ast.Node) (string, error) {
	switch n := node.(type) {
	case nil, *ast.NullNode:
		return "", nil
	case *ast.StringNode:
		return n.Value, nil
	case *ast.LiteralNode:
		return n.Value.Value, nil
	case ast.ScalarNode:
		return n.GetToken().Value, nil
	}
	value, err := d.nodeToValue(node)
	if err != nil {
		return "", err
	}
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	}
	return fmt.Sprint(value), nil
}

func castToInt(text string, tk *token.Token) (interface{}, error) {
	switch v := ast.Integer(&token.Token{Value: strings.TrimSpace(text)}).Value.(type) {
	case int64, uint64:
		return v, nil
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(text, "_", ""), 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return nil, errors.ErrSyntax(fmt.Sprintf("cannot convert %q to integer", text), tk)
	}
	return int64(f), nil
}

func castToFloat(text string, tk *token.Token) (interface{}, error) {
	s := strings.TrimSpace(text)
	switch strings.ToLower(s) {
	case ".inf", "+.inf":
		return math.Inf(1), nil
	case "-.inf":
		return math.Inf(-1), nil
	case ".nan":
		return math.NaN(), nil
	}
	if f, err := strconv.ParseFloat(strings.ReplaceAll(s, "_", ""), 64); err == nil {
		return f, nil
	}
	switch v := ast.Integer(&token.Token{Value: s}).Value.(type) {
	case int64:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	}
	return nil, errors.ErrSyntax(fmt.Sprintf("cannot convert %q to float", text), tk)
}

func castToBool(text string, tk *token.Token) (interface{}, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "true", "t", "1", "yes":
		return true, nil
	case "false", "f", "0", "no":
		return false, nil
	}
	return nil, errors.ErrSyntax(fmt.Sprintf("cannot convert %q to bool", text), tk)
}

func castToTime(text string, tk *token.Token) (interface{}, error) {
	s := strings.TrimSpace(text)
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}
	return nil, errors.ErrSyntax(fmt.Sprintf("cannot convert %q to timestamp", text), tk)
}

// castToBinary decodes base64 text, ignoring line breaks. Invalid input
// decodes to nil.
func castToBinary(text string) interface{} {
	s := strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', ' ', '\t':
			return -1
		}
		return r
	}, text)
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil
	}
	return b
}
