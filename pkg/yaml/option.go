package yaml

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

// DecodeOption configures a Decoder.
type DecodeOption func(d *Decoder) error

// ReferenceReaders decodes the documents of each reader before the main
// input so that their anchors can be used from it.
func ReferenceReaders(readers ...io.Reader) DecodeOption {
	return func(d *Decoder) error {
		d.referenceReaders = append(d.referenceReaders, readers...)
		return nil
	}
}

// ReferenceFiles registers the anchors of each file before decoding.
func ReferenceFiles(files ...string) DecodeOption {
	return func(d *Decoder) error {
		d.referenceFiles = files
		return nil
	}
}

// ReferenceDirs registers the anchors of every .yml and .yaml file found in
// dirs before decoding.
func ReferenceDirs(dirs ...string) DecodeOption {
	return func(d *Decoder) error {
		d.referenceDirs = dirs
		return nil
	}
}

// RecursiveDir searches ReferenceDirs recursively.
func RecursiveDir(isRecursive bool) DecodeOption {
	return func(d *Decoder) error {
		d.isRecursiveDir = isRecursive
		return nil
	}
}

// AllowDuplicateMapKey keeps the last value of a repeated mapping key
// instead of failing.
func AllowDuplicateMapKey() DecodeOption {
	return func(d *Decoder) error {
		d.allowDuplicateMapKey = true
		return nil
	}
}

// UseOrderedMap decodes mappings into MapSlice instead of
// map[string]interface{} so that key order is kept.
func UseOrderedMap() DecodeOption {
	return func(d *Decoder) error {
		d.useOrderedMap = true
		return nil
	}
}

// CommentToMap collects the comments of decoded nodes into cm, keyed by
// node path.
func CommentToMap(cm CommentMap) DecodeOption {
	return func(d *Decoder) error {
		if cm == nil {
			return ErrInvalidCommentMapValue
		}
		d.toCommentMap = cm
		return nil
	}
}

// WithFS sets the filesystem reference files are read from.
func WithFS(fs afero.Fs) DecodeOption {
	return func(d *Decoder) error {
		d.fs = fs
		return nil
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *log.Logger) DecodeOption {
	return func(d *Decoder) error {
		d.logger = logger
		return nil
	}
}
