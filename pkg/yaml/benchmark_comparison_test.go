package yaml

import (
	"strings"
	"testing"

	yamlv3 "gopkg.in/yaml.v3"
)

// Comparison benchmarks against gopkg.in/yaml.v3 (industry standard)
// NOTE: yaml.v3 is a test-only dependency, NOT included in releases

var testData = `name: BenchmarkTest
version: "1.0.0"
enabled: true
count: 42`

var mergeData = `defaults: &defaults
  adapter: postgres
  host: localhost
development:
  <<: *defaults
  database: dev
test:
  <<: *defaults
  database: test`

type ComparisonConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Enabled bool   `yaml:"enabled"`
	Count   int    `yaml:"count"`
}

// ============================================================================
// shape-yaml-ast
// ============================================================================

func BenchmarkShapeYAML_Unmarshal(b *testing.B) {
	data := []byte(testData)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var cfg ComparisonConfig
		if err := Unmarshal(data, &cfg); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkShapeYAML_DecodeValue(b *testing.B) {
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := NewDecoder(strings.NewReader(testData)).DecodeValue(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkShapeYAML_Merge(b *testing.B) {
	data := []byte(mergeData)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var v map[string]interface{}
		if err := Unmarshal(data, &v); err != nil {
			b.Fatal(err)
		}
	}
}

// ============================================================================
// gopkg.in/yaml.v3 (industry standard for comparison)
// ============================================================================

func BenchmarkStdYAML_Unmarshal(b *testing.B) {
	data := []byte(testData)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var cfg ComparisonConfig
		if err := yamlv3.Unmarshal(data, &cfg); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkStdYAML_Generic(b *testing.B) {
	data := []byte(testData)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var v interface{}
		if err := yamlv3.Unmarshal(data, &v); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkStdYAML_Merge(b *testing.B) {
	data := []byte(mergeData)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var v map[string]interface{}
		if err := yamlv3.Unmarshal(data, &v); err != nil {
			b.Fatal(err)
		}
	}
}
