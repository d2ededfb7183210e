package yaml

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"time"

	shapeast "github.com/shapestone/shape-core/pkg/ast"
)

// ParseSchema decodes the first document of src into Shape's schema tree.
// Mappings become *ObjectNode, sequences become *ObjectNode with numeric
// keys "0", "1", ... and scalars become *LiteralNode.
func ParseSchema(src string, opts ...DecodeOption) (shapeast.SchemaNode, error) {
	var v interface{}
	if err := UnmarshalWithOptions([]byte(src), &v, opts...); err != nil {
		return nil, err
	}
	return ToSchemaNode(v)
}

// ToSchemaNode converts a decoded value to a schema node.
//
// Timestamps become RFC 3339 strings and binary values become base64
// strings, since literals only hold JSON compatible values.
func ToSchemaNode(v interface{}) (shapeast.SchemaNode, error) {
	pos := shapeast.Position{}

	switch val := v.(type) {
	case nil, string, bool, int64, float64:
		return shapeast.NewLiteralNode(val, pos), nil
	case int:
		return shapeast.NewLiteralNode(int64(val), pos), nil
	case uint64:
		return shapeast.NewLiteralNode(float64(val), pos), nil
	case time.Time:
		return shapeast.NewLiteralNode(val.Format(time.RFC3339Nano), pos), nil
	case []byte:
		return shapeast.NewLiteralNode(base64.StdEncoding.EncodeToString(val), pos), nil

	case []interface{}:
		props := make(map[string]shapeast.SchemaNode, len(val))
		for i, item := range val {
			itemNode, err := ToSchemaNode(item)
			if err != nil {
				return nil, fmt.Errorf("sequence element %d: %w", i, err)
			}
			props[strconv.Itoa(i)] = itemNode
		}
		return shapeast.NewObjectNode(props, pos), nil

	case map[string]interface{}:
		props := make(map[string]shapeast.SchemaNode, len(val))
		for key, value := range val {
			valueNode, err := ToSchemaNode(value)
			if err != nil {
				return nil, fmt.Errorf("mapping property %s: %w", key, err)
			}
			props[key] = valueNode
		}
		return shapeast.NewObjectNode(props, pos), nil

	case MapSlice:
		return ToSchemaNode(val.ToMap())

	default:
		return nil, fmt.Errorf("unsupported type: %T", v)
	}
}

// FromSchemaNode converts a schema node back to generic values. Objects
// whose keys are exactly "0".."n-1" become []interface{}.
func FromSchemaNode(node shapeast.SchemaNode) interface{} {
	switch n := node.(type) {
	case *shapeast.LiteralNode:
		return n.Value()

	case *shapeast.ObjectNode:
		props := n.Properties()
		if isSequence(props) {
			arr := make([]interface{}, len(props))
			for i := range arr {
				arr[i] = FromSchemaNode(props[strconv.Itoa(i)])
			}
			return arr
		}
		m := make(map[string]interface{}, len(props))
		for key, propNode := range props {
			m[key] = FromSchemaNode(propNode)
		}
		return m
	}
	return nil
}

// ReleaseSchemaTree returns every node of a schema tree to its pool. The
// tree must not be used afterwards.
func ReleaseSchemaTree(node shapeast.SchemaNode) {
	switch n := node.(type) {
	case *shapeast.LiteralNode:
		shapeast.ReleaseLiteralNode(n)
	case *shapeast.ObjectNode:
		for _, child := range n.Properties() {
			ReleaseSchemaTree(child)
		}
		shapeast.ReleaseObjectNode(n)
	}
}

// isSequence reports whether props are keyed "0".."n-1".
func isSequence(props map[string]shapeast.SchemaNode) bool {
	if len(props) == 0 {
		return false
	}
	for i := 0; i < len(props); i++ {
		if _, ok := props[strconv.Itoa(i)]; !ok {
			return false
		}
	}
	return true
}
