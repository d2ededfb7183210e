package yaml

import (
	"io"
	"strings"
)

// Validate runs every document of content through the parser and the
// decoder and returns the first error.
//
// Example:
//
//	if err := yaml.Validate("a: [1, 2"); err != nil {
//	    fmt.Println(err) // [1:1] sequence end token ']' not found ...
//	}
func Validate(content string, opts ...DecodeOption) error {
	dec := NewDecoder(strings.NewReader(content), opts...)
	for {
		if _, err := dec.DecodeValue(); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}
