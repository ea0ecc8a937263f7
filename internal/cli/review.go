package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/condmon/acmcfg/internal/engine"
	"github.com/condmon/acmcfg/internal/model"
)

// NewPendingCommand creates the pending command.
func NewPendingCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "pending",
		Short:         "List removal requests awaiting review",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)
			e, err := openEngine(rootOpts)
			if err != nil {
				return err
			}
			pending, err := e.PendingRequests()
			if err != nil {
				return fail(formatter, err)
			}

			if rootOpts.Format == "json" {
				return formatter.JSON(renderPending(pending))
			}
			if len(pending) == 0 {
				fmt.Fprintln(formatter.Writer, "No pending requests")
				return nil
			}
			for _, entry := range pending {
				fmt.Fprintf(formatter.Writer, "#%-5d %-22s %-30s by %-12s %s\n",
					entry.LogID, entry.EntityType, entry.EntityKey, entry.RequestedBy, entry.Notes)
			}
			return nil
		},
	}
}

// pendingEntry is the JSON rendering of one pending request.
type pendingEntry struct {
	LogID       int64  `json:"log_id"`
	Timestamp   string `json:"timestamp"`
	EntityType  string `json:"entity_type"`
	EntityKey   string `json:"entity_key"`
	Notes       string `json:"notes"`
	RequestedBy string `json:"requested_by"`
}

func renderPending(entries []model.Entry) []pendingEntry {
	out := make([]pendingEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, pendingEntry{
			LogID:       e.LogID,
			Timestamp:   model.FormatTime(e.Timestamp),
			EntityType:  string(e.EntityType),
			EntityKey:   e.EntityKey,
			Notes:       e.Notes,
			RequestedBy: e.RequestedBy,
		})
	}
	return out
}

// NewApproveCommand creates the approve command.
func NewApproveCommand(rootOpts *RootOptions) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:           "approve [log-id]",
		Short:         "Approve a pending removal request and execute it",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReview(rootOpts, cmd, args, all, "approve")
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "review every pending request")
	return cmd
}

// NewRejectCommand creates the reject command.
func NewRejectCommand(rootOpts *RootOptions) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:           "reject [log-id]",
		Short:         "Reject a pending removal request without executing it",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReview(rootOpts, cmd, args, all, "reject")
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "review every pending request")
	return cmd
}

func runReview(opts *RootOptions, cmd *cobra.Command, args []string, all bool, verb string) error {
	formatter := newFormatter(opts, cmd)
	e, err := openEngine(opts)
	if err != nil {
		return err
	}

	var ids []int64
	switch {
	case all && len(args) > 0:
		return NewExitError(ExitCommandError, "pass either a log id or --all, not both")
	case all:
		pending, err := e.PendingRequests()
		if err != nil {
			return fail(formatter, err)
		}
		for _, entry := range pending {
			ids = append(ids, entry.LogID)
		}
	case len(args) == 1:
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return NewExitError(ExitCommandError, fmt.Sprintf("invalid log id %q", args[0]))
		}
		ids = []int64{id}
	default:
		return NewExitError(ExitCommandError, "a log id or --all is required")
	}

	reviewed := make([]int64, 0, len(ids))
	for _, id := range ids {
		var reviewErr error
		if verb == "approve" {
			reviewErr = e.Approve(id, opts.Actor)
		} else {
			reviewErr = e.Reject(id, opts.Actor)
		}
		if reviewErr != nil {
			if ce, ok := engine.IsCascadeError(reviewErr); ok {
				formatter.VerboseLog("cascade for entry %d committed %v before failing", ce.LogID, ce.Committed)
			}
			return fail(formatter, reviewErr)
		}
		reviewed = append(reviewed, id)
	}

	if opts.Format == "json" {
		return formatter.JSON(map[string]any{"action": verb, "log_ids": reviewed})
	}
	past := "Approved"
	if verb == "reject" {
		past = "Rejected"
	}
	for _, id := range reviewed {
		fmt.Fprintf(formatter.Writer, "%s log entry %d\n", past, id)
	}
	if len(reviewed) == 0 {
		fmt.Fprintln(formatter.Writer, "No pending requests")
	}
	return nil
}
