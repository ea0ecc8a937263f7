package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/condmon/acmcfg/internal/query"
	"github.com/condmon/acmcfg/internal/tables"
)

// NewExportCommand creates the export command group. Exports reproduce
// the legacy cross-tab CSV layouts consumed by the reporting pipeline.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export legacy cross-tab CSV files",
	}
	cmd.AddCommand(&cobra.Command{
		Use:           "component-technology <out.csv>",
		Short:         "Export the component × technology matrix (P/S cells)",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(rootOpts, cmd, args[0], func(store *tables.Store) query.Matrix {
				return query.ComponentTechnologyMatrix(store.Snapshot())
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:           "class-component <out.csv>",
		Short:         "Export the class × component matrix (x cells)",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(rootOpts, cmd, args[0], func(store *tables.Store) query.Matrix {
				return query.ClassComponentMatrix(store.Snapshot())
			})
		},
	})
	return cmd
}

func runExport(opts *RootOptions, cmd *cobra.Command, out string, build func(*tables.Store) query.Matrix) error {
	formatter := newFormatter(opts, cmd)
	store, err := openStore(opts)
	if err != nil {
		return err
	}

	matrix := build(store)
	if err := tables.WriteFileAtomic(out, matrix.Header, matrix.Rows); err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("write %s", out), err)
	}

	if opts.Format == "json" {
		return formatter.JSON(map[string]any{"path": out, "rows": len(matrix.Rows)})
	}
	fmt.Fprintf(formatter.Writer, "Exported %d rows to %s\n", len(matrix.Rows), out)
	return nil
}
