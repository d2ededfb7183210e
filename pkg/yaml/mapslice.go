package yaml

import (
	"bytes"
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/xerrors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// MapItem is a single key/value pair of a MapSlice.
type MapItem struct {
	Key, Value interface{}
}

// MapSlice is a mapping that keeps the source order of its keys.
type MapSlice []MapItem

// ToMap converts s to a map keyed by the string form of each key.
func (s MapSlice) ToMap() map[string]interface{} {
	v := make(map[string]interface{}, len(s))
	for _, item := range s {
		v[keyString(item.Key)] = item.Value
	}
	return v
}

// Get returns the value of the first item whose key renders as key.
func (s MapSlice) Get(key string) (interface{}, bool) {
	for _, item := range s {
		if keyString(item.Key) == key {
			return item.Value, true
		}
	}
	return nil, false
}

// MarshalJSON writes s as a JSON object in key order.
func (s MapSlice) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, item := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(keyString(item.Key))
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(item.Value)
		if err != nil {
			return nil, xerrors.Errorf("key %s: %w", key, err)
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// keyString renders a decoded mapping key as a map[string]interface{} key.
func keyString(key interface{}) string {
	switch k := key.(type) {
	case string:
		return k
	case nil:
		return "null"
	}
	return fmt.Sprint(key)
}
