// Package cli implements the command-line driver for declared units.
package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/testh/internal/clock"
	"github.com/roach88/testh/internal/config"
	"github.com/roach88/testh/internal/logging"
	"github.com/roach88/testh/internal/registry"
	"github.com/roach88/testh/internal/report"
)

// App is what a test binary hands to the driver.
type App struct {
	Name     string
	Registry *registry.Registry
	Init     []func()

	// Clock defaults to the system clock.
	Clock clock.Clock
}

// RootOptions holds global flags for all commands and the settings they
// resolve to.
type RootOptions struct {
	ConfigPath      string
	Width           int
	BenchIterations int
	Quiet           bool
	Color           string
	History         string
	LogLevel        string
	LogFormat       string

	app      App
	cfg      config.Config
	logger   *zap.Logger
	closeLog func()
}

// NewRootCommand creates the root command. Without a subcommand it runs
// every declared unit.
func NewRootCommand(app App) *cobra.Command {
	if app.Name == "" {
		app.Name = "testh"
	}
	if app.Registry == nil {
		app.Registry = registry.Default
	}
	if app.Clock == nil {
		app.Clock = clock.System{}
	}
	opts := &RootOptions{app: app}

	cmd := &cobra.Command{
		Use:   app.Name,
		Short: "Run the declared test units",
		Long: `Run the declared test units in declaration order.

Each unit is isolated: a failed check or a crash inside one unit is
reported and the run continues with the next.

Exit codes:
  0 - All units passed
  1 - One or more units failed
  2 - Command error (bad flags, config or history database)`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAll(opts, cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.ConfigPath, "config", "c", "", "path to a YAML config file")
	flags.IntVar(&opts.Width, "width", report.DefaultWidth, "column at which pass badges are aligned")
	flags.IntVar(&opts.BenchIterations, "bench-iters", 1000, "default bench iteration count")
	flags.BoolVarP(&opts.Quiet, "quiet", "q", false, "suppress the console report")
	flags.StringVar(&opts.Color, "color", "auto", "color output (auto|always|never)")
	flags.StringVar(&opts.History, "history", "", "SQLite run history database")
	flags.StringVar(&opts.LogLevel, "log-level", "warn", "diagnostics log level")
	flags.StringVar(&opts.LogFormat, "log-format", "console", "diagnostics log format (console|json)")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewInvokeCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))

	for _, c := range append([]*cobra.Command{cmd}, cmd.Commands()...) {
		runE := c.RunE
		c.RunE = func(cmd *cobra.Command, args []string) error {
			defer opts.finish()
			return runE(cmd, args)
		}
	}

	return cmd
}

// Execute runs cmd and returns the process exit code.
func Execute(cmd *cobra.Command) int {
	err := cmd.Execute()
	if err != nil {
		reportError(cmd.ErrOrStderr(), err)
	}
	return GetExitCode(err)
}

// resolve merges defaults, the config file, the environment and the
// flags that were set explicitly, then builds the logger.
func (o *RootOptions) resolve(cmd *cobra.Command) error {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "load config", err)
	}
	if err := config.ApplyEnv(&cfg); err != nil {
		return WrapExitError(ExitCommandError, "read environment", err)
	}

	flags := cmd.Flags()
	if flags.Changed("width") {
		cfg.Width = o.Width
	}
	if flags.Changed("bench-iters") {
		cfg.BenchIterations = o.BenchIterations
	}
	if flags.Changed("quiet") {
		cfg.Quiet = o.Quiet
	}
	if flags.Changed("color") {
		cfg.Color = o.Color
	}
	if flags.Changed("history") {
		cfg.History = o.History
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = o.LogLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = o.LogFormat
	}

	if err := config.Validate(cfg); err != nil {
		var verr *config.ValidationError
		if errors.As(err, &verr) {
			return WrapExitError(ExitCommandError, "invalid settings", verr)
		}
		return WrapExitError(ExitCommandError, "validate settings", err)
	}

	logger, closeLog, err := logging.New(logging.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		OutputPath: cfg.Log.Output,
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "create logger", err)
	}

	o.cfg = cfg
	o.logger = logger
	o.closeLog = closeLog
	return nil
}

// finish flushes the logger and closes its output. Safe to call more than
// once.
func (o *RootOptions) finish() {
	if o.closeLog != nil {
		o.closeLog()
		o.closeLog = nil
	}
}

// reporter builds the reporter for the resolved settings.
func (o *RootOptions) reporter(cmd *cobra.Command) report.Reporter {
	if o.cfg.Quiet {
		return report.Discard{}
	}
	out := cmd.OutOrStdout()
	f, _ := out.(*os.File)
	return report.NewConsole(out, o.cfg.Width, report.UseColor(report.ColorMode(o.cfg.Color), f))
}
