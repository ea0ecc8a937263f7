package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRequestCommand creates the request command group. Removals are
// never executed directly; each subcommand records a pending change-log
// entry for admin review.
func NewRequestCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "request",
		Short: "Request a removal for admin review",
	}
	cmd.AddCommand(newRequestRemoveComponent(rootOpts))
	cmd.AddCommand(newRequestRemoveTechnology(rootOpts))
	cmd.AddCommand(newRequestRemoveClassAssignment(rootOpts))
	return cmd
}

func newRequestRemoveComponent(rootOpts *RootOptions) *cobra.Command {
	var notes string

	cmd := &cobra.Command{
		Use:           "remove-component <component>",
		Short:         "Request removal of a component and everything referencing it",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)
			e, err := openEngine(rootOpts)
			if err != nil {
				return err
			}
			logID, err := e.RequestRemoveComponent(args[0], notes, rootOpts.Actor)
			if err != nil {
				return fail(formatter, err)
			}
			return reportRequest(rootOpts, formatter, logID, args[0])
		},
	}
	cmd.Flags().StringVar(&notes, "notes", "", "justification for the removal (required)")
	return cmd
}

func newRequestRemoveTechnology(rootOpts *RootOptions) *cobra.Command {
	var notes string

	cmd := &cobra.Command{
		Use:           "remove-technology <component> <technology>",
		Short:         "Request removal of one technology assignment",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)
			e, err := openEngine(rootOpts)
			if err != nil {
				return err
			}
			logID, err := e.RequestRemoveTechnology(args[0], args[1], notes, rootOpts.Actor)
			if err != nil {
				return fail(formatter, err)
			}
			return reportRequest(rootOpts, formatter, logID, fmt.Sprintf("%s → %s", args[0], args[1]))
		},
	}
	cmd.Flags().StringVar(&notes, "notes", "", "justification for the removal (required)")
	return cmd
}

func newRequestRemoveClassAssignment(rootOpts *RootOptions) *cobra.Command {
	var notes string

	cmd := &cobra.Command{
		Use:           "remove-class-assignment <class> <component>",
		Short:         "Request removal of a component from a class roster",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)
			e, err := openEngine(rootOpts)
			if err != nil {
				return err
			}
			logID, err := e.RequestRemoveFromClass(args[0], args[1], notes, rootOpts.Actor)
			if err != nil {
				return fail(formatter, err)
			}
			return reportRequest(rootOpts, formatter, logID, fmt.Sprintf("%s ← %s", args[0], args[1]))
		},
	}
	cmd.Flags().StringVar(&notes, "notes", "", "justification for the removal (required)")
	return cmd
}

func reportRequest(opts *RootOptions, formatter *OutputFormatter, logID int64, key string) error {
	if opts.Format == "json" {
		return formatter.JSON(map[string]any{"log_id": logID, "entity_key": key})
	}
	fmt.Fprintf(formatter.Writer, "Removal of %s requested as log entry %d (pending review)\n", key, logID)
	return nil
}
