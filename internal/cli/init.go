package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/condmon/acmcfg/internal/tables"
)

// tableHeaders maps each table to its header row for a fresh directory.
var tableHeaders = map[string][]string{
	tables.TableComponents:          {"component_name"},
	tables.TableTechnologies:        {"technology_code"},
	tables.TableClasses:             {"class_name"},
	tables.TableComponentTechnology: {"component_name", "technology_code", "application_type"},
	tables.TableClassComponent:      {"class_name", "component_name"},
	tables.TableChangeLog: {
		"log_id", "timestamp", "entity_type", "action", "entity_key",
		"payload", "notes", "requested_by", "status", "reviewed_by", "reviewed_at",
	},
}

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	var technologies []string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize an empty data directory",
		Long: `Create the six CSV tables in the data directory with header rows.
Optionally seed the technology master list with --technology flags.
Refuses to touch a directory that is already initialized.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(rootOpts, technologies, cmd)
		},
	}
	cmd.Flags().StringArrayVar(&technologies, "technology", nil, "seed a technology code (repeatable)")
	return cmd
}

func runInit(opts *RootOptions, technologies []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	if tables.Exists(opts.DataDir) {
		return NewExitError(ExitCommandError,
			fmt.Sprintf("data directory %q is already initialized", opts.DataDir))
	}
	if err := os.MkdirAll(opts.DataDir, 0o755); err != nil {
		return WrapExitError(ExitCommandError, "create data directory", err)
	}

	for table, header := range tableHeaders {
		var rows [][]string
		if table == tables.TableTechnologies {
			for _, code := range technologies {
				rows = append(rows, []string{code})
			}
		}
		path := filepath.Join(opts.DataDir, table+".csv")
		if err := tables.WriteFileAtomic(path, header, rows); err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("write %s", path), err)
		}
	}

	if opts.Format == "json" {
		return formatter.JSON(map[string]any{
			"data_dir":     opts.DataDir,
			"technologies": technologies,
		})
	}
	fmt.Fprintf(formatter.Writer, "Initialized data directory %s (%d technologies)\n",
		opts.DataDir, len(technologies))
	return nil
}
