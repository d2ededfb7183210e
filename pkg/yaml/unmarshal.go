package yaml

import (
	"bytes"
	"io"
	"reflect"

	"github.com/go-viper/mapstructure/v2"
	"golang.org/x/xerrors"
)

// Unmarshal decodes the first document of data into the value pointed to
// by v.
//
// A *interface{} target receives the generic form of the document:
//
//	bool, for YAML booleans
//	int64, or uint64 when the value does not fit, for YAML integers
//	float64, for YAML floats, infinities and NaN
//	string, for YAML strings and block scalars
//	[]interface{}, for YAML sequences
//	map[string]interface{}, for YAML mappings
//	nil for YAML null
//
// Any other target is filled from the generic form using the "yaml" struct
// tag, so
//
//	type Config struct {
//	    Name string `yaml:"name"`
//	    Port int    `yaml:"port"`
//	}
//	var cfg Config
//	err := yaml.Unmarshal([]byte("name: server\nport: 8080"), &cfg)
//
// leaves cfg.Port == 8080. Empty input leaves v untouched.
func Unmarshal(data []byte, v interface{}) error {
	return UnmarshalWithOptions(data, v)
}

// UnmarshalWithOptions is Unmarshal with decode options.
func UnmarshalWithOptions(data []byte, v interface{}, opts ...DecodeOption) error {
	dec := NewDecoder(bytes.NewReader(data), opts...)
	if err := dec.Decode(v); err != nil {
		if err == io.EOF {
			return nil
		}
		return err
	}
	return nil
}

// assign stores a generic decoded value into the target v.
func assign(value interface{}, v interface{}) error {
	if p, ok := v.(*interface{}); ok {
		*p = value
		return nil
	}
	config := &mapstructure.DecoderConfig{
		Result:           v,
		TagName:          "yaml",
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapSliceHook,
			mapstructure.StringToTimeDurationHookFunc(),
		),
	}
	dec, err := mapstructure.NewDecoder(config)
	if err != nil {
		return xerrors.Errorf("failed to create decoder: %w", err)
	}
	if err := dec.Decode(value); err != nil {
		return xerrors.Errorf("failed to assign value: %w", err)
	}
	return nil
}

var mapSliceType = reflect.TypeOf(MapSlice{})

// mapSliceHook turns ordered mappings into plain maps unless the target
// itself is a MapSlice.
func mapSliceHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	if from != mapSliceType || to == mapSliceType {
		return data, nil
	}
	return data.(MapSlice).ToMap(), nil
}
