package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shapestone/shape-yaml-ast/pkg/yaml"
)

func newTokensCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens [file]",
		Short: "Print the token stream of a file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := a.readInput(cmd, inputArg(args))
			if err != nil {
				return err
			}
			tokens := yaml.Tokenize(string(src))
			tokens.Dump(cmd.OutOrStdout())
			if tk := tokens.InvalidToken(); tk != nil {
				return fmt.Errorf("[%d:%d] %s", tk.Position.Line, tk.Position.Column, tk.Error)
			}
			return nil
		},
	}
}
