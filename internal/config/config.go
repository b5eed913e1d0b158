// Package config loads runner settings.
//
// Settings come from defaults, then an optional YAML file, then TESTH_*
// environment variables, then command-line flags. The merged result is
// checked against an embedded CUE schema.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"

	"github.com/roach88/testh/internal/ledger"
	"github.com/roach88/testh/internal/report"
)

//go:embed schema.cue
var schemaCUE string

// Environment variables read by ApplyEnv.
const (
	EnvWidth           = "TESTH_WIDTH"
	EnvBenchIterations = "TESTH_BENCH_ITERS"
	EnvNoPrint         = "TESTH_NO_PRINT"
	EnvHistory         = "TESTH_HISTORY"
	EnvLogLevel        = "TESTH_LOG_LEVEL"
)

// Config holds runner settings.
type Config struct {
	// Width is the column at which pass badges are aligned.
	Width int `yaml:"width" json:"width"`

	// BenchIterations is the iteration count for benches that do not
	// override it.
	BenchIterations int `yaml:"bench_iterations" json:"bench_iterations"`

	// Quiet suppresses the console report. Timing and state tracking
	// still happen.
	Quiet bool `yaml:"quiet" json:"quiet"`

	Color string `yaml:"color" json:"color"` // auto | always | never

	// History is the path of the SQLite run history, "" to disable.
	History string `yaml:"history" json:"history"`

	Log LogConfig `yaml:"log" json:"log"`
}

// LogConfig configures diagnostics logging.
type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
	Output string `yaml:"output" json:"output"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Width:           report.DefaultWidth,
		BenchIterations: ledger.DefaultBenchIterations,
		Color:           string(report.ColorAuto),
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
			Output: "stderr",
		},
	}
}

// ValidationError lists the schema violations of a configuration.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid configuration: " + strings.Join(e.Problems, "; ")
}

// Load reads the YAML file at path over the defaults and validates the
// result. An empty path yields the defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv overrides cfg with TESTH_* environment variables.
func ApplyEnv(cfg *Config) error {
	if v, ok := os.LookupEnv(EnvWidth); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvWidth, err)
		}
		cfg.Width = n
	}
	if v, ok := os.LookupEnv(EnvBenchIterations); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvBenchIterations, err)
		}
		cfg.BenchIterations = n
	}
	if v, ok := os.LookupEnv(EnvNoPrint); ok && v != "" {
		// Any value other than an explicit false enables quiet mode.
		quiet, err := strconv.ParseBool(v)
		cfg.Quiet = err != nil || quiet
	}
	if v, ok := os.LookupEnv(EnvHistory); ok {
		cfg.History = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		cfg.Log.Level = v
	}
	return nil
}

// Validate checks cfg against the embedded schema.
func Validate(cfg Config) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE).LookupPath(cue.ParsePath("#Config"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("failed to compile config schema: %w", err)
	}

	v := schema.Unify(ctx.Encode(cfg))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		verr := &ValidationError{}
		for _, e := range cueerrors.Errors(err) {
			format, args := e.Msg()
			problem := fmt.Sprintf(format, args...)
			if path := e.Path(); len(path) > 0 {
				problem = strings.Join(path, ".") + ": " + problem
			}
			verr.Problems = append(verr.Problems, problem)
		}
		return verr
	}
	return nil
}
