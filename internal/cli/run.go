package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/testh/internal/runner"
	"github.com/roach88/testh/internal/store"
)

// NewRunCommand creates the run command.
func NewRunCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run every declared unit",
		Long: `Run every declared unit in ordinal order and print the summary.

Examples:
  testh run
  testh run --quiet --history runs.db
  TESTH_BENCH_ITERS=100 testh run`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAll(opts, cmd)
		},
	}
}

// NewInvokeCommand creates the invoke command.
func NewInvokeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "invoke <ordinal>",
		Short: "Run a single unit by its ordinal",
		Long: `Run a single unit by its zero-based ordinal, as shown by list.

Example:
  testh invoke 3`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ordinal, err := strconv.Atoi(args[0])
			if err != nil {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid ordinal %q", args[0]))
			}
			return invokeOrdinal(opts, ordinal, cmd)
		},
	}
}

func runAll(opts *RootOptions, cmd *cobra.Command) error {
	r, closeHistory, err := opts.newRunner(cmd)
	if err != nil {
		return err
	}
	defer closeHistory()

	sum, err := r.RunAll(cmd.Context())
	if err != nil {
		return WrapExitError(ExitCommandError, "run", err)
	}
	return exitFor(sum)
}

func invokeOrdinal(opts *RootOptions, ordinal int, cmd *cobra.Command) error {
	if _, ok := opts.app.Registry.Lookup(ordinal); !ok {
		return NewExitError(ExitCommandError,
			fmt.Sprintf("no unit with ordinal %d (%d declared)", ordinal, opts.app.Registry.Len()))
	}

	r, closeHistory, err := opts.newRunner(cmd)
	if err != nil {
		return err
	}
	defer closeHistory()

	sum, err := r.RunOrdinal(cmd.Context(), ordinal)
	if err != nil {
		return WrapExitError(ExitCommandError, "invoke", err)
	}
	return exitFor(sum)
}

func exitFor(sum runner.Summary) error {
	if sum.ExitCode() != 0 {
		return &ExitError{Code: ExitFailure}
	}
	return nil
}

// newRunner builds a runner for the resolved settings. The returned
// function closes the history database, if one was opened.
func (o *RootOptions) newRunner(cmd *cobra.Command) (*runner.Runner, func(), error) {
	ropts := runner.Options{
		Registry:        o.app.Registry,
		Reporter:        o.reporter(cmd),
		Clock:           o.app.Clock,
		Logger:          o.logger,
		BenchIterations: o.cfg.BenchIterations,
		Init:            o.app.Init,
	}

	closeHistory := func() {}
	if o.cfg.History != "" {
		s, err := store.Open(o.cfg.History)
		if err != nil {
			return nil, nil, WrapExitError(ExitCommandError, "open history", err)
		}
		ropts.History = s
		closeHistory = func() { s.Close() }
	}
	return runner.New(ropts), closeHistory, nil
}
