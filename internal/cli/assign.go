package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/condmon/acmcfg/internal/model"
)

// NewAssignCommand creates the assign command group.
func NewAssignCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assign",
		Short: "Assign technologies to components and components to classes",
	}
	cmd.AddCommand(newAssignTechnology(rootOpts))
	cmd.AddCommand(newAssignClass(rootOpts))
	return cmd
}

func newAssignTechnology(rootOpts *RootOptions) *cobra.Command {
	var applicationType string

	cmd := &cobra.Command{
		Use:           "technology <component> <technology>",
		Short:         "Assign a monitoring technology to a component",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)
			e, err := openEngine(rootOpts)
			if err != nil {
				return err
			}
			changed, err := e.AssignTechnology(args[0], args[1],
				model.ApplicationType(applicationType), rootOpts.Actor)
			if err != nil {
				return fail(formatter, err)
			}
			if rootOpts.Format == "json" {
				return formatter.JSON(map[string]any{
					"component":        args[0],
					"technology":       args[1],
					"application_type": applicationType,
					"changed":          changed,
				})
			}
			if changed {
				fmt.Fprintf(formatter.Writer, "Assigned %s to %s as %s\n", args[1], args[0], applicationType)
			} else {
				fmt.Fprintf(formatter.Writer, "%s is already assigned to %s\n", args[1], args[0])
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&applicationType, "type", "Primary", "application type (Primary|Secondary)")
	return cmd
}

func newAssignClass(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "class <class> <component>",
		Short:         "Add a component to an asset class roster",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)
			e, err := openEngine(rootOpts)
			if err != nil {
				return err
			}
			changed, err := e.AssignComponentToClass(args[0], args[1], rootOpts.Actor)
			if err != nil {
				return fail(formatter, err)
			}
			if rootOpts.Format == "json" {
				return formatter.JSON(map[string]any{
					"class":     args[0],
					"component": args[1],
					"changed":   changed,
				})
			}
			if changed {
				fmt.Fprintf(formatter.Writer, "Added %s to class %s\n", args[1], args[0])
			} else {
				fmt.Fprintf(formatter.Writer, "%s is already in class %s\n", args[1], args[0])
			}
			return nil
		},
	}
}

// NewUpdateTypeCommand creates the update-type command.
func NewUpdateTypeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "update-type <component> <technology> <Primary|Secondary>",
		Short:         "Change the application type of an existing assignment",
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)
			e, err := openEngine(rootOpts)
			if err != nil {
				return err
			}
			changed, err := e.UpdateApplicationType(args[0], args[1],
				model.ApplicationType(args[2]), rootOpts.Actor)
			if err != nil {
				return fail(formatter, err)
			}
			if rootOpts.Format == "json" {
				return formatter.JSON(map[string]any{
					"component":        args[0],
					"technology":       args[1],
					"application_type": args[2],
					"changed":          changed,
				})
			}
			if changed {
				fmt.Fprintf(formatter.Writer, "Updated %s → %s to %s\n", args[0], args[1], args[2])
			} else {
				fmt.Fprintf(formatter.Writer, "%s → %s is already %s\n", args[0], args[1], args[2])
			}
			return nil
		},
	}
}
