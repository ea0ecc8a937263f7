package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/condmon/acmcfg/internal/query"
)

// NewSummaryCommand creates the summary command.
func NewSummaryCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "summary",
		Short:         "Show configuration counts",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummary(rootOpts, cmd)
		},
	}
}

func runSummary(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)
	store, err := openStore(opts)
	if err != nil {
		return err
	}

	summary := query.Summarize(store.Snapshot())
	if opts.Format == "json" {
		return formatter.JSON(summary)
	}

	fmt.Fprintf(formatter.Writer, "Components:             %d\n", summary.Components)
	fmt.Fprintf(formatter.Writer, "Technologies:           %d\n", summary.Technologies)
	fmt.Fprintf(formatter.Writer, "Asset classes:          %d\n", summary.Classes)
	fmt.Fprintf(formatter.Writer, "Technology assignments: %d\n", summary.TechnologyAssignments)
	fmt.Fprintf(formatter.Writer, "Class assignments:      %d\n", summary.ClassAssignments)
	fmt.Fprintf(formatter.Writer, "Change log entries:     %d\n", summary.ChangeLogEntries)
	fmt.Fprintf(formatter.Writer, "Pending requests:       %d\n", summary.PendingRequests)
	return nil
}
