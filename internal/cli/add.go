package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewAddCommand creates the add command group.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a component or asset class",
	}
	cmd.AddCommand(&cobra.Command{
		Use:           "component <name>",
		Short:         "Add a component to the master list",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(rootOpts, cmd, "component", args[0])
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:           "class <name>",
		Short:         "Add an asset class to the master list",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(rootOpts, cmd, "class", args[0])
		},
	})
	return cmd
}

func runAdd(opts *RootOptions, cmd *cobra.Command, kind, name string) error {
	formatter := newFormatter(opts, cmd)
	e, err := openEngine(opts)
	if err != nil {
		return err
	}

	var changed bool
	switch kind {
	case "component":
		changed, err = e.AddComponent(name, opts.Actor)
	case "class":
		changed, err = e.AddClass(name, opts.Actor)
	}
	if err != nil {
		return fail(formatter, err)
	}

	if opts.Format == "json" {
		return formatter.JSON(map[string]any{"name": name, "changed": changed})
	}
	if changed {
		fmt.Fprintf(formatter.Writer, "Added %s %s\n", kind, name)
	} else {
		fmt.Fprintf(formatter.Writer, "%s %s already exists\n", kind, name)
	}
	return nil
}
