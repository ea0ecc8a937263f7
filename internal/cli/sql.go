package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/condmon/acmcfg/internal/querysql"
)

// NewSQLCommand creates the sql command.
func NewSQLCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sql <query>",
		Short: "Run a read-only SQL query over the configuration",
		Long: `Load the configuration into an in-memory SQLite database and run a
single SELECT against it. Tables mirror the CSV relations: components,
technologies, classes, component_technology, class_component,
change_log.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSQL(rootOpts, cmd, args[0])
		},
	}
}

func runSQL(opts *RootOptions, cmd *cobra.Command, queryText string) error {
	formatter := newFormatter(opts, cmd)
	store, err := openStore(opts)
	if err != nil {
		return err
	}

	runner, err := querysql.Open(store.Snapshot())
	if err != nil {
		return WrapExitError(ExitCommandError, "load query database", err)
	}
	defer runner.Close()

	result, err := runner.Query(cmd.Context(), queryText)
	if err != nil {
		return fail(formatter, err)
	}

	if opts.Format == "json" {
		return formatter.JSON(result)
	}

	w := tabwriter.NewWriter(formatter.Writer, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(result.Columns, "\t"))
	for _, row := range result.Rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(formatter.Writer, "(%d rows)\n", len(result.Rows))
	return nil
}
