package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shapestone/shape-yaml-ast/pkg/yaml"
)

func newFormatCmd(a *app) *cobra.Command {
	var stripComments bool

	cmd := &cobra.Command{
		Use:   "format [file]",
		Short: "Parse a file and print it back from the syntax tree",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := a.readInput(cmd, inputArg(args))
			if err != nil {
				return err
			}
			mode := yaml.ParseComments
			if stripComments {
				mode = 0
			}
			file, err := yaml.ParseBytes(src, mode)
			if err != nil {
				return err
			}
			a.logger.Debug("parsed", "documents", len(file.Docs))
			_, err = fmt.Fprint(cmd.OutOrStdout(), file.String())
			return err
		},
	}
	cmd.Flags().BoolVar(&stripComments, "strip-comments", false, "drop comments from the output")
	return cmd
}
