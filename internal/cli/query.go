package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/condmon/acmcfg/internal/query"
)

// NewQueryCommand creates the query command group.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query the configuration",
	}
	cmd.AddCommand(newQueryComponentTechnologies(rootOpts))
	cmd.AddCommand(newQueryComponentClasses(rootOpts))
	cmd.AddCommand(newQueryTechnologyComponents(rootOpts))
	cmd.AddCommand(newQueryClassComponents(rootOpts))
	cmd.AddCommand(newQueryClassTechnologies(rootOpts))
	return cmd
}

func newQueryComponentTechnologies(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "component-technologies <component>",
		Short:         "List the technologies assigned to a component",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)
			store, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			rows, err := query.TechnologiesOf(store.Snapshot(), args[0])
			if err != nil {
				return fail(formatter, err)
			}
			if rootOpts.Format == "json" {
				return formatter.JSON(rows)
			}
			if len(rows) == 0 {
				fmt.Fprintf(formatter.Writer, "No technologies assigned to %s\n", args[0])
				return nil
			}
			for _, r := range rows {
				fmt.Fprintf(formatter.Writer, "%-12s %s\n", r.TechnologyCode, r.ApplicationType)
			}
			return nil
		},
	}
}

func newQueryComponentClasses(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "component-classes <component>",
		Short:         "List the asset classes that contain a component",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)
			store, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			classes, err := query.ClassesOf(store.Snapshot(), args[0])
			if err != nil {
				return fail(formatter, err)
			}
			if rootOpts.Format == "json" {
				return formatter.JSON(classes)
			}
			if len(classes) == 0 {
				fmt.Fprintf(formatter.Writer, "%s is not assigned to any class\n", args[0])
				return nil
			}
			for _, c := range classes {
				fmt.Fprintln(formatter.Writer, c)
			}
			return nil
		},
	}
}

func newQueryTechnologyComponents(rootOpts *RootOptions) *cobra.Command {
	var typeFilter string

	cmd := &cobra.Command{
		Use:           "technology-components <technology>",
		Short:         "List the components a technology is assigned to",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)
			store, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			rows, err := query.ComponentsOfTechnology(store.Snapshot(), args[0], typeFilter)
			if err != nil {
				return fail(formatter, err)
			}
			if rootOpts.Format == "json" {
				return formatter.JSON(rows)
			}
			for _, r := range rows {
				fmt.Fprintf(formatter.Writer, "%-30s %s\n", r.ComponentName, r.ApplicationType)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&typeFilter, "type", "", "filter by application type (Primary|Secondary)")
	return cmd
}

func newQueryClassComponents(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "class-components <class>",
		Short:         "List the components in an asset class",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)
			store, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			components, err := query.ComponentsInClass(store.Snapshot(), args[0])
			if err != nil {
				return fail(formatter, err)
			}
			if rootOpts.Format == "json" {
				return formatter.JSON(components)
			}
			for _, c := range components {
				fmt.Fprintln(formatter.Writer, c)
			}
			return nil
		},
	}
}

func newQueryClassTechnologies(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "class-technologies <class>",
		Short: "Derive the technologies an asset class requires",
		Long: `Derive the monitoring technologies required by an asset class from its
component roster. A technology required as Primary by any component in
the class is Primary for the class.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)
			store, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			rows, err := query.TechnologiesRequiredBy(store.Snapshot(), args[0])
			if err != nil {
				return fail(formatter, err)
			}
			if rootOpts.Format == "json" {
				return formatter.JSON(rows)
			}
			if len(rows) == 0 {
				fmt.Fprintf(formatter.Writer, "Class %s requires no technologies\n", args[0])
				return nil
			}
			for _, r := range rows {
				fmt.Fprintf(formatter.Writer, "%-12s %-10s driven by %s\n",
					r.TechnologyCode, r.ApplicationType, r.DrivingComponents)
			}
			return nil
		},
	}
}
