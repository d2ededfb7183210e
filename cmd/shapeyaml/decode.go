package main

import (
	"bytes"
	"fmt"
	"io"
	"math"

	jsoniter "github.com/json-iterator/go"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/xerrors"

	"github.com/shapestone/shape-yaml-ast/pkg/yaml"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type decodeFlags struct {
	ordered   bool
	comments  bool
	refFiles  []string
	refDirs   []string
	recursive bool
}

func newDecodeCmd(a *app) *cobra.Command {
	var f decodeFlags

	cmd := &cobra.Command{
		Use:   "decode [file]",
		Short: "Decode every document of a file and print it as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := a.readInput(cmd, inputArg(args))
			if err != nil {
				return err
			}
			return a.decode(cmd.OutOrStdout(), src, f)
		},
	}
	flags := cmd.Flags()
	flags.BoolVar(&f.ordered, "ordered", true, "keep mapping key order")
	flags.BoolVar(&f.comments, "comments", false, "print the comment map after the documents")
	flags.StringSliceVar(&f.refFiles, "ref-file", nil, "file whose anchors may be referenced")
	flags.StringSliceVar(&f.refDirs, "ref-dir", nil, "directory of files whose anchors may be referenced")
	flags.BoolVar(&f.recursive, "recursive", false, "search --ref-dir recursively")
	return cmd
}

func (a *app) decodeOptions(f decodeFlags, cm yaml.CommentMap) []yaml.DecodeOption {
	opts := []yaml.DecodeOption{
		yaml.WithFS(a.fs),
		yaml.WithLogger(a.logger),
	}
	if a.config.GetBool("allow-duplicate-keys") {
		opts = append(opts, yaml.AllowDuplicateMapKey())
	}
	if f.ordered {
		opts = append(opts, yaml.UseOrderedMap())
	}
	if cm != nil {
		opts = append(opts, yaml.CommentToMap(cm))
	}
	if len(f.refFiles) > 0 {
		opts = append(opts, yaml.ReferenceFiles(f.refFiles...))
	}
	if len(f.refDirs) > 0 {
		opts = append(opts, yaml.ReferenceDirs(f.refDirs...), yaml.RecursiveDir(f.recursive))
	}
	return opts
}

func (a *app) decode(w io.Writer, src []byte, f decodeFlags) error {
	var cm yaml.CommentMap
	if f.comments {
		cm = yaml.CommentMap{}
	}
	dec := yaml.NewDecoder(bytes.NewReader(src), a.decodeOptions(f, cm)...)
	for {
		v, err := dec.DecodeValue()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if err := writeJSON(w, jsonValue(v)); err != nil {
			return err
		}
	}
	if cm != nil {
		return writeJSON(w, cm)
	}
	return nil
}

// jsonValue replaces infinities and NaN, which JSON cannot hold, with
// their YAML spelling.
func jsonValue(v interface{}) interface{} {
	switch val := v.(type) {
	case float64:
		switch {
		case math.IsInf(val, 1):
			return ".inf"
		case math.IsInf(val, -1):
			return "-.inf"
		case math.IsNaN(val):
			return ".nan"
		}
	case yaml.MapSlice:
		return yaml.MapSlice(lo.Map(val, func(item yaml.MapItem, _ int) yaml.MapItem {
			return yaml.MapItem{Key: item.Key, Value: jsonValue(item.Value)}
		}))
	case map[string]interface{}:
		return lo.MapValues(val, func(item interface{}, _ string) interface{} { return jsonValue(item) })
	case []interface{}:
		return lo.Map(val, func(item interface{}, _ int) interface{} { return jsonValue(item) })
	}
	return v
}

func writeJSON(w io.Writer, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return xerrors.Errorf("failed to encode JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
