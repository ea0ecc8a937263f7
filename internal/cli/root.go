// Package cli implements the acmcfg command tree.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/condmon/acmcfg/internal/engine"
	"github.com/condmon/acmcfg/internal/tables"
)

// RootOptions holds global flags shared by all commands. Values resolve
// flag > environment (ACMCFG_*) > default.
type RootOptions struct {
	DataDir string
	Actor   string
	Format  string // "json" | "text"
	Verbose bool
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the acmcfg CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "acmcfg",
		Short: "ACM configuration store",
		Long: "Manage asset condition monitoring configuration: components, " +
			"monitoring technologies, asset classes, and the change-controlled " +
			"relationships between them.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v.SetEnvPrefix("ACMCFG")
			v.AutomaticEnv()
			v.SetConfigName("acmcfg")
			v.SetConfigType("yaml")
			v.AddConfigPath(".")
			if err := v.ReadInConfig(); err != nil {
				var notFound viper.ConfigFileNotFoundError
				if !errors.As(err, &notFound) {
					return fmt.Errorf("read config file: %w", err)
				}
			}
			for flag, key := range map[string]string{
				"data-dir": "data_dir",
				"actor":    "actor",
				"format":   "format",
				"verbose":  "verbose",
			} {
				if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
					return err
				}
			}
			opts.DataDir = v.GetString("data_dir")
			opts.Actor = v.GetString("actor")
			opts.Format = v.GetString("format")
			opts.Verbose = v.GetBool("verbose")

			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().String("data-dir", "data", "data directory holding the CSV tables")
	cmd.PersistentFlags().String("actor", "", "acting user recorded in the change log")
	cmd.PersistentFlags().String("format", "text", "output format (json|text)")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")

	cmd.AddCommand(NewInitCommand(opts))
	cmd.AddCommand(NewSummaryCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewQueryCommand(opts))
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewAssignCommand(opts))
	cmd.AddCommand(NewUpdateTypeCommand(opts))
	cmd.AddCommand(NewRequestCommand(opts))
	cmd.AddCommand(NewPendingCommand(opts))
	cmd.AddCommand(NewApproveCommand(opts))
	cmd.AddCommand(NewRejectCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewSQLCommand(opts))
	cmd.AddCommand(NewWatchCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// newLogger builds the CLI logger: a development logger when verbose,
// otherwise silent.
func newLogger(opts *RootOptions) (*zap.Logger, error) {
	if !opts.Verbose {
		return zap.NewNop(), nil
	}
	return zap.NewDevelopment()
}

// openStore opens the table store at the configured data directory.
func openStore(opts *RootOptions) (*tables.Store, error) {
	logger, err := newLogger(opts)
	if err != nil {
		return nil, err
	}
	if !tables.Exists(opts.DataDir) {
		return nil, NewExitError(ExitCommandError,
			fmt.Sprintf("data directory %q is not initialized, run acmcfg init", opts.DataDir))
	}
	store, err := tables.Open(opts.DataDir, tables.WithLogger(logger))
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "open data directory", err)
	}
	return store, nil
}

// openEngine opens the store and wraps it in an engine.
func openEngine(opts *RootOptions) (*engine.Engine, error) {
	store, err := openStore(opts)
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(opts)
	if err != nil {
		return nil, err
	}
	return engine.New(store, engine.WithLogger(logger)), nil
}

// newFormatter builds the output formatter for a command invocation.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}
