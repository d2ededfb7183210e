package yaml

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

type serverConfig struct {
	Name    string            `yaml:"name"`
	Port    int               `yaml:"port"`
	Enabled bool              `yaml:"enabled"`
	Ratio   float64           `yaml:"ratio"`
	Tags    []string          `yaml:"tags"`
	Labels  map[string]string `yaml:"labels"`
	Timeout time.Duration     `yaml:"timeout"`
	TLS     *tlsConfig        `yaml:"tls"`
}

type tlsConfig struct {
	Cert string `yaml:"cert"`
	Key  string `yaml:"key"`
}

// TestUnmarshal_Struct tests filling a struct through yaml tags
func TestUnmarshal_Struct(t *testing.T) {
	input := `name: web
port: 8080
enabled: true
ratio: 0.5
tags: [a, b]
labels:
  tier: front
timeout: 5s
tls:
  cert: /etc/cert.pem
  key: /etc/key.pem
`
	var got serverConfig
	if err := Unmarshal([]byte(input), &got); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	want := serverConfig{
		Name:    "web",
		Port:    8080,
		Enabled: true,
		Ratio:   0.5,
		Tags:    []string{"a", "b"},
		Labels:  map[string]string{"tier": "front"},
		Timeout: 5 * time.Second,
		TLS:     &tlsConfig{Cert: "/etc/cert.pem", Key: "/etc/key.pem"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Unmarshal() mismatch (-want +got):\n%s", diff)
	}
}

// TestUnmarshal_MergeIntoStruct tests that merge keys reach typed targets
func TestUnmarshal_MergeIntoStruct(t *testing.T) {
	input := `defaults: &defaults
  port: 80
  enabled: true
prod:
  <<: *defaults
  name: prod
`
	var got struct {
		Prod serverConfig `yaml:"prod"`
	}
	if err := Unmarshal([]byte(input), &got); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	want := serverConfig{Name: "prod", Port: 80, Enabled: true}
	if diff := cmp.Diff(want, got.Prod); diff != "" {
		t.Errorf("Unmarshal() mismatch (-want +got):\n%s", diff)
	}
}

// TestUnmarshal_OrderedMapIntoStruct tests that ordered mappings still fill
// structs and maps
func TestUnmarshal_OrderedMapIntoStruct(t *testing.T) {
	var got struct {
		TLS    tlsConfig      `yaml:"tls"`
		Counts map[string]int `yaml:"counts"`
	}
	input := "tls:\n  cert: c\n  key: k\ncounts: {a: 1, b: 2}\n"
	if err := UnmarshalWithOptions([]byte(input), &got, UseOrderedMap()); err != nil {
		t.Fatalf("UnmarshalWithOptions() error: %v", err)
	}
	if got.TLS.Cert != "c" || got.TLS.Key != "k" {
		t.Errorf("TLS = %+v", got.TLS)
	}
	if diff := cmp.Diff(map[string]int{"a": 1, "b": 2}, got.Counts); diff != "" {
		t.Errorf("Counts mismatch (-want +got):\n%s", diff)
	}

	var ordered MapSlice
	if err := UnmarshalWithOptions([]byte("b: 1\na: 2\n"), &ordered, UseOrderedMap()); err != nil {
		t.Fatalf("UnmarshalWithOptions() error: %v", err)
	}
	if len(ordered) != 2 || ordered[0].Key != "b" || ordered[1].Key != "a" {
		t.Errorf("ordered = %v", ordered)
	}
}

// TestUnmarshal_Interface tests the generic form
func TestUnmarshal_Interface(t *testing.T) {
	var got interface{}
	if err := Unmarshal([]byte("a: [1, x, ~]\n"), &got); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	want := map[string]interface{}{"a": []interface{}{int64(1), "x", nil}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Unmarshal() mismatch (-want +got):\n%s", diff)
	}
}

// TestUnmarshal_Scalars tests scalar targets
func TestUnmarshal_Scalars(t *testing.T) {
	var i int
	if err := Unmarshal([]byte("42"), &i); err != nil || i != 42 {
		t.Errorf("int: got %d, err %v", i, err)
	}
	var s string
	if err := Unmarshal([]byte("'hello'"), &s); err != nil || s != "hello" {
		t.Errorf("string: got %q, err %v", s, err)
	}
	var b []byte
	if err := Unmarshal([]byte("!!binary aGk="), &b); err != nil || string(b) != "hi" {
		t.Errorf("binary: got %q, err %v", b, err)
	}
	var ts time.Time
	if err := Unmarshal([]byte("!!timestamp 2020-01-02"), &ts); err != nil || !ts.Equal(time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("timestamp: got %v, err %v", ts, err)
	}
}

// TestUnmarshal_Errors tests that syntax and assignment errors surface
func TestUnmarshal_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		v     interface{}
	}{
		{name: "unterminated flow sequence", input: "a: [1, 2", v: &map[string]interface{}{}},
		{name: "mapping into int", input: "a: 1", v: new(int)},
		{name: "duplicate key", input: "a: 1\na: 2", v: &map[string]interface{}{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Unmarshal([]byte(tt.input), tt.v); err == nil {
				t.Error("Unmarshal() expected error")
			}
		})
	}

	if err := Unmarshal([]byte("a: 1"), map[string]interface{}{}); err != ErrDecodeRequiredPointerType {
		t.Errorf("non-pointer target: got %v", err)
	}
}
