package main

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/xerrors"
)

const envPrefix = "SHAPEYAML"

// app carries the collaborators shared by every subcommand.
type app struct {
	fs     afero.Fs
	config *viper.Viper
	logger *log.Logger
}

func newRootCmd(fs afero.Fs) *cobra.Command {
	a := &app{fs: fs, config: viper.New()}

	root := &cobra.Command{
		Use:           "shapeyaml",
		Short:         "Inspect, format, decode and validate YAML",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initLogger(cmd.ErrOrStderr())
		},
	}

	flags := root.PersistentFlags()
	flags.String("log-level", "warn", "log level (debug, info, warn, error)")
	flags.Bool("allow-duplicate-keys", false, "keep the last value of a repeated mapping key")

	a.config.SetEnvPrefix(envPrefix)
	a.config.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.config.AutomaticEnv()
	_ = a.config.BindPFlag("log-level", flags.Lookup("log-level"))
	_ = a.config.BindPFlag("allow-duplicate-keys", flags.Lookup("allow-duplicate-keys"))

	root.AddCommand(
		newTokensCmd(a),
		newFormatCmd(a),
		newDecodeCmd(a),
		newValidateCmd(a),
	)
	return root
}

func (a *app) initLogger(w io.Writer) error {
	level, err := log.ParseLevel(a.config.GetString("log-level"))
	if err != nil {
		return xerrors.Errorf("invalid log level: %w", err)
	}
	a.logger = log.NewWithOptions(w, log.Options{Level: level, Prefix: "shapeyaml"})
	return nil
}

// readInput reads path, or standard input when path is empty or "-".
func (a *app) readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "" || path == "-" {
		src, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, xerrors.Errorf("failed to read standard input: %w", err)
		}
		return src, nil
	}
	src, err := afero.ReadFile(a.fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, xerrors.Errorf("file %s does not exist", path)
		}
		return nil, xerrors.Errorf("failed to read %s: %w", path, err)
	}
	a.logger.Debug("read input", "path", path, "bytes", len(src))
	return src, nil
}

func inputArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
