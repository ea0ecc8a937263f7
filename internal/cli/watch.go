package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch the data directory for external changes",
		Long: `Watch the data directory and print the name of each table as another
process rewrites it. Useful alongside a second editor session. Runs
until interrupted.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)
			store, err := openStore(rootOpts)
			if err != nil {
				return err
			}

			changes, err := store.Watch(cmd.Context())
			if err != nil {
				return WrapExitError(ExitCommandError, "watch data directory", err)
			}

			fmt.Fprintf(formatter.Writer, "Watching %s\n", store.Dir())
			for table := range changes {
				fmt.Fprintf(formatter.Writer, "table changed: %s\n", table)
			}
			return nil
		},
	}
}
