package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/testh/internal/clock"
	"github.com/roach88/testh/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Limit int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show recorded runs",
		Long: `Show runs recorded in the history database, newest first.
With a run ID, show that run's units.

Examples:
  testh history --history runs.db
  testh history --history runs.db 0190b6e2-...`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.cfg.History == "" {
				return NewExitError(ExitCommandError, "no history database configured (use --history or TESTH_HISTORY)")
			}
			s, err := store.Open(opts.cfg.History)
			if err != nil {
				return WrapExitError(ExitCommandError, "open history", err)
			}
			defer s.Close()

			if len(args) == 1 {
				return showRun(s, args[0], cmd)
			}
			return listRuns(s, opts.Limit, cmd)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "maximum number of runs to show (0 for all)")

	return cmd
}

func listRuns(s *store.Store, limit int, cmd *cobra.Command) error {
	runs, err := s.ListRuns(cmd.Context(), limit)
	if err != nil {
		return WrapExitError(ExitCommandError, "list runs", err)
	}
	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs recorded")
		return nil
	}
	for _, run := range runs {
		fmt.Fprintf(out, "%s  %s  %d / %d passed  %.2f ms\n",
			run.ID, run.StartedAt.Format("2006-01-02 15:04:05"), run.Passed, run.Total, clock.Millis(run.Took))
	}
	return nil
}

func showRun(s *store.Store, id string, cmd *cobra.Command) error {
	run, err := s.ReadRun(cmd.Context(), id)
	if errors.Is(err, store.ErrRunNotFound) {
		return NewExitError(ExitCommandError, fmt.Sprintf("run %s not found", id))
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "read run", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run %s: %d / %d passed, took %.2f ms\n", run.ID, run.Passed, run.Total, clock.Millis(run.Took))
	for _, o := range run.Outcomes {
		status := "PASS"
		if !o.Passed {
			status = "FAIL"
		}
		fmt.Fprintf(out, "%d) %s  %s  %d asserts  %s", o.Ordinal+1, o.Name, status, o.Asserts, clock.Classify(o.Elapsed))
		if o.FailedSubtests > 0 {
			fmt.Fprintf(out, "  %d subtests failed", o.FailedSubtests)
		}
		if o.Fault != "" {
			fmt.Fprintf(out, "  %s", o.Fault)
		}
		fmt.Fprintln(out)
	}
	return nil
}
