package main

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/xerrors"

	"github.com/shapestone/shape-yaml-ast/pkg/yaml"
)

type validationResult struct {
	path string
	err  error
}

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [files...]",
		Short: "Check that files parse and decode",
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := args
			if len(paths) == 0 {
				paths = []string{"-"}
			}

			var opts []yaml.DecodeOption
			if a.config.GetBool("allow-duplicate-keys") {
				opts = append(opts, yaml.AllowDuplicateMapKey())
			}
			results := lo.Map(lo.Uniq(paths), func(path string, _ int) validationResult {
				src, err := a.readInput(cmd, path)
				if err == nil {
					err = yaml.Validate(string(src), opts...)
				}
				return validationResult{path: path, err: err}
			})

			failed := lo.Filter(results, func(r validationResult, _ int) bool { return r.err != nil })
			out := cmd.OutOrStdout()
			for _, r := range results {
				if r.err != nil {
					fmt.Fprintln(out, describeFailure(r))
					continue
				}
				fmt.Fprintf(out, "%s: ok\n", r.path)
			}
			if len(failed) > 0 {
				return fmt.Errorf("%d of %d files are invalid", len(failed), len(results))
			}
			return nil
		},
	}
}

// describeFailure formats a failure as "path:line:column: message" when
// the error points at a token.
func describeFailure(r validationResult) string {
	var tokenErr yaml.TokenError
	if xerrors.As(r.err, &tokenErr) {
		if tk := tokenErr.GetToken(); tk != nil && tk.Position != nil {
			return fmt.Sprintf("%s:%d:%d: %s", r.path, tk.Position.Line, tk.Position.Column, tokenErr.GetMessage())
		}
	}
	return fmt.Sprintf("%s: %v", r.path, r.err)
}
