package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/condmon/acmcfg/internal/schema"
	"github.com/condmon/acmcfg/internal/validate"
)

// ValidationResult holds the combined structural and referential checks.
type ValidationResult struct {
	Valid      bool               `json:"valid"`
	Violations []schema.Violation `json:"schema_violations,omitempty"`
	Issues     []validate.Issue   `json:"issues,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check structural and referential integrity",
		Long: `Validate the data directory: structural schema (key shapes, the
Primary/Secondary vocabulary, log entry constraints) and referential
integrity across tables (orphaned assignments, unmonitored components,
stale pending requests).

Exits 0 when clean or warnings only, 1 when any error is found.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, cmd)
		},
	}
}

func runValidate(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)
	store, err := openStore(opts)
	if err != nil {
		return err
	}
	snap := store.Snapshot()

	result := ValidationResult{
		Violations: schema.Check(snap),
		Issues:     validate.Check(snap),
	}
	failed := len(result.Violations) > 0
	for _, issue := range result.Issues {
		if issue.Severity == validate.SeverityError {
			failed = true
		}
	}
	result.Valid = !failed

	if opts.Format == "json" {
		if err := formatter.JSON(result); err != nil {
			return err
		}
	} else {
		renderValidation(formatter, result)
	}

	if failed {
		return NewExitError(ExitFailure, "validation failed")
	}
	return nil
}

func renderValidation(formatter *OutputFormatter, result ValidationResult) {
	if result.Valid && len(result.Issues) == 0 {
		fmt.Fprintln(formatter.Writer, "✓ Configuration is valid")
		return
	}
	for _, v := range result.Violations {
		fmt.Fprintf(formatter.Writer, "error   [schema] %s\n", v)
	}
	for _, issue := range result.Issues {
		fmt.Fprintf(formatter.Writer, "%-7s [%s] %s\n", issue.Severity, issue.Code, issue.Message)
	}
	if result.Valid {
		fmt.Fprintln(formatter.Writer, "✓ Valid with warnings")
	} else {
		fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	}
}
