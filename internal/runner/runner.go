// Package runner drives registered units in ordinal order.
//
// A Runner owns the run's ledger.State. It runs the init hooks once,
// executes each unit through unit.Execute, prints the final summary and
// optionally records the run in the history store.
package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/roach88/testh/internal/clock"
	"github.com/roach88/testh/internal/ledger"
	"github.com/roach88/testh/internal/registry"
	"github.com/roach88/testh/internal/report"
	"github.com/roach88/testh/internal/store"
	"github.com/roach88/testh/internal/trap"
	"github.com/roach88/testh/internal/unit"
)

// ErrUnknownOrdinal is returned by RunOrdinal for an ordinal that no unit
// was declared with.
var ErrUnknownOrdinal = errors.New("no unit with that ordinal")

// History records finished runs.
type History interface {
	RecordRun(ctx context.Context, run store.Run) error
}

// Options configures a Runner. Zero values select defaults.
type Options struct {
	Registry *registry.Registry
	Reporter report.Reporter
	Clock    clock.Clock
	Logger   *zap.Logger
	IDs      IDGenerator

	// BenchIterations seeds the sticky bench iteration count.
	BenchIterations int

	// Init hooks run once before the first unit.
	Init []func()

	// History, when set, receives every finished run.
	History History
}

// Summary aggregates the outcomes of a run.
type Summary struct {
	RunID     string
	StartedAt time.Time
	Passed    int
	Total     int

	// Took is the accumulated time of passing units, subtests and
	// benches.
	Took     time.Duration
	Outcomes []unit.Outcome
}

// ExitCode returns 0 when every unit passed and 1 otherwise.
func (s Summary) ExitCode() int {
	if s.Passed == s.Total {
		return 0
	}
	return 1
}

// Runner executes units sequentially. It is not safe for concurrent use.
type Runner struct {
	opts     Options
	state    *ledger.State
	initOnce sync.Once
	initErr  error
}

// New creates a Runner.
func New(opts Options) *Runner {
	if opts.Registry == nil {
		opts.Registry = registry.Default
	}
	if opts.Reporter == nil {
		opts.Reporter = report.NewConsole(os.Stdout, report.DefaultWidth,
			report.UseColor(report.ColorAuto, os.Stdout))
	}
	if opts.Clock == nil {
		opts.Clock = clock.System{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.IDs == nil {
		opts.IDs = UUIDv7Generator{}
	}

	st := ledger.NewState()
	if opts.BenchIterations > 0 {
		st.BenchIterations = opts.BenchIterations
	}
	return &Runner{opts: opts, state: st}
}

// State exposes the run's ledger.
func (r *Runner) State() *ledger.State {
	return r.state
}

// RunAll executes every registered unit in ordinal order. ctx is checked
// between units; a unit that is already running is never interrupted.
func (r *Runner) RunAll(ctx context.Context) (Summary, error) {
	return r.run(ctx, r.opts.Registry.Units())
}

// RunOrdinal executes the single unit with the given ordinal.
func (r *Runner) RunOrdinal(ctx context.Context, ordinal int) (Summary, error) {
	u, ok := r.opts.Registry.Lookup(ordinal)
	if !ok {
		return Summary{}, fmt.Errorf("ordinal %d: %w", ordinal, ErrUnknownOrdinal)
	}
	return r.run(ctx, []unit.Unit{u})
}

func (r *Runner) run(ctx context.Context, units []unit.Unit) (Summary, error) {
	trap.Install()
	if err := r.init(); err != nil {
		return Summary{}, err
	}

	sum := Summary{
		RunID:     r.opts.IDs.Generate(),
		StartedAt: r.opts.Clock.Now(),
	}
	log := r.opts.Logger.With(zap.String("run_id", sum.RunID))
	log.Debug("run started", zap.Int("units", len(units)))

	env := unit.Env{
		State:    r.state,
		Clock:    r.opts.Clock,
		Reporter: r.opts.Reporter,
		Logger:   log,
	}
	tookBefore := r.state.Total

	var runErr error
	for _, u := range units {
		if err := ctx.Err(); err != nil {
			runErr = fmt.Errorf("run interrupted before unit %d: %w", u.Ordinal, err)
			break
		}
		out := unit.Execute(u, env)
		sum.Outcomes = append(sum.Outcomes, out)
		sum.Total++
		if out.Passed {
			sum.Passed++
		}
	}
	sum.Took = r.state.Total - tookBefore

	r.opts.Reporter.Summary(sum.Passed, sum.Total, sum.Took)
	log.Debug("run finished",
		zap.Int("passed", sum.Passed),
		zap.Int("total", sum.Total),
		zap.Duration("took", sum.Took),
	)

	r.record(ctx, sum, log)
	return sum, runErr
}

// init runs the init hooks once per Runner. A faulting hook aborts the
// run before any unit executes.
func (r *Runner) init() error {
	r.initOnce.Do(func() {
		for i, hook := range r.opts.Init {
			if fault := trap.Run(hook); fault != nil {
				r.initErr = fmt.Errorf("init hook %d: %w", i, fault)
				return
			}
		}
	})
	return r.initErr
}

// record stores sum in the history. History failures are logged, not
// returned: they never change a run's result.
func (r *Runner) record(ctx context.Context, sum Summary, log *zap.Logger) {
	if r.opts.History == nil {
		return
	}
	if err := r.opts.History.RecordRun(context.WithoutCancel(ctx), toRecord(sum)); err != nil {
		log.Warn("failed to record run history", zap.Error(err))
	}
}

func toRecord(sum Summary) store.Run {
	run := store.Run{
		ID:        sum.RunID,
		StartedAt: sum.StartedAt,
		Passed:    sum.Passed,
		Total:     sum.Total,
		Took:      sum.Took,
		Outcomes:  make([]store.Outcome, 0, len(sum.Outcomes)),
	}
	for _, o := range sum.Outcomes {
		rec := store.Outcome{
			Ordinal:        o.Ordinal,
			Name:           o.Name,
			Passed:         o.Passed,
			Asserts:        o.Asserts,
			Elapsed:        o.Elapsed,
			FailedSubtests: o.FailedSubtests,
		}
		if o.Fault != nil {
			rec.Fault = o.Fault.Error()
		}
		run.Outcomes = append(run.Outcomes, rec)
	}
	return run
}
