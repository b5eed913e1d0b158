package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/testh/internal/clock"
	"github.com/roach88/testh/internal/registry"
	"github.com/roach88/testh/internal/unit"
)

func sampleApp() App {
	reg := registry.New()
	reg.Add("adds", "math_test.go", 5, func(t *unit.T) {
		t.Equal(1+1, 2)
	})
	reg.Add("subtracts", "math_test.go", 9, func(t *unit.T) {
		t.Sub("small", func(t *unit.T) { t.Equal(3-1, 2) })
		t.Sub("negative", func(t *unit.T) { t.Equal(1-3, 2) })
	})
	return App{Name: "sample", Registry: reg, Clock: clock.NewFake(0)}
}

func passingApp() App {
	reg := registry.New()
	reg.Add("ok", "ok_test.go", 1, func(t *unit.T) { t.Assert(true) })
	return App{Name: "sample", Registry: reg, Clock: clock.NewFake(0)}
}

func execute(t *testing.T, app App, args ...string) (int, string, string) {
	t.Helper()
	cmd := NewRootCommand(app)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	code := Execute(cmd)
	return code, stdout.String(), stderr.String()
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand(App{})
	require.NotNil(t, cmd)
	assert.Equal(t, "testh", cmd.Use)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand(sampleApp())

	for _, name := range []string{"run", "list", "invoke", "history"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand(sampleApp())

	for flag, def := range map[string]string{
		"width":       "70",
		"bench-iters": "1000",
		"quiet":       "false",
		"color":       "auto",
		"history":     "",
	} {
		f := cmd.PersistentFlags().Lookup(flag)
		require.NotNil(t, f, flag)
		assert.Equal(t, def, f.DefValue, flag)
	}
	assert.Equal(t, "q", cmd.PersistentFlags().Lookup("quiet").Shorthand)
}

func TestRun_DefaultCommandRunsEverything(t *testing.T) {
	code, out, errOut := execute(t, sampleApp(), "--color", "never")

	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, out, "1) adds (math_test.go:5)")
	assert.Contains(t, out, "2) subtracts (math_test.go:9)")
	assert.Contains(t, out, "'1-3'(-2) != '2'(2).")
	assert.Contains(t, out, "1 / 2 tests passed.")
	assert.Empty(t, errOut)
}

func TestRun_AllPassing(t *testing.T) {
	code, out, _ := execute(t, passingApp(), "run", "--color", "never")

	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "1 / 1 tests passed.")
}

func TestRun_QuietSuppressesReport(t *testing.T) {
	code, out, _ := execute(t, sampleApp(), "run", "--quiet")

	assert.Equal(t, ExitFailure, code)
	assert.Empty(t, out)
}

func TestRun_NoPrintEnv(t *testing.T) {
	t.Setenv("TESTH_NO_PRINT", "1")

	_, out, _ := execute(t, passingApp(), "run")
	assert.Empty(t, out)
}

func TestRun_InvalidWidth(t *testing.T) {
	code, _, errOut := execute(t, passingApp(), "run", "--width", "3")

	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, errOut, "invalid settings")
}

func TestRun_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "testh.yaml")
	require.NoError(t, os.WriteFile(path, []byte("quiet: true\n"), 0o644))

	code, out, _ := execute(t, passingApp(), "run", "--config", path)
	assert.Equal(t, ExitSuccess, code)
	assert.Empty(t, out)
}

func TestRun_FlagOverridesConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "testh.yaml")
	require.NoError(t, os.WriteFile(path, []byte("quiet: true\ncolor: never\n"), 0o644))

	_, out, _ := execute(t, passingApp(), "run", "--config", path, "--quiet=false")
	assert.Contains(t, out, "1) ok")
}

func TestRun_LogFileIsFlushedOnExit(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "testh.log")
	cfgPath := filepath.Join(dir, "testh.yaml")
	cfg := "quiet: true\nlog:\n  level: debug\n  format: json\n  output: " + logPath + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	code, _, _ := execute(t, sampleApp(), "run", "--config", cfgPath)
	assert.Equal(t, ExitFailure, code)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"run started"`)
	assert.Contains(t, string(data), `"msg":"run finished"`)
}

func TestRootOptions_FinishClosesLogOnce(t *testing.T) {
	calls := 0
	opts := &RootOptions{closeLog: func() { calls++ }}

	opts.finish()
	opts.finish()
	assert.Equal(t, 1, calls)
}

func TestList(t *testing.T) {
	code, out, _ := execute(t, sampleApp(), "list")

	assert.Equal(t, ExitSuccess, code)
	assert.Equal(t, "0\tadds\tmath_test.go:5\n1\tsubtracts\tmath_test.go:9\n", out)
}

func TestInvoke(t *testing.T) {
	code, out, _ := execute(t, sampleApp(), "invoke", "0", "--color", "never")

	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "1) adds")
	assert.NotContains(t, out, "subtracts")
	assert.Contains(t, out, "1 / 1 tests passed.")
}

func TestInvoke_FailingUnit(t *testing.T) {
	code, _, _ := execute(t, sampleApp(), "invoke", "1", "--quiet")
	assert.Equal(t, ExitFailure, code)
}

func TestInvoke_UnknownOrdinal(t *testing.T) {
	code, _, errOut := execute(t, sampleApp(), "invoke", "7")

	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, errOut, "no unit with ordinal 7 (2 declared)")
}

func TestInvoke_BadOrdinal(t *testing.T) {
	code, _, errOut := execute(t, sampleApp(), "invoke", "first")

	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, errOut, `invalid ordinal "first"`)
}

func TestHistory_RecordsAndLists(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")

	code, _, _ := execute(t, sampleApp(), "run", "--quiet", "--history", db)
	require.Equal(t, ExitFailure, code)

	code, out, _ := execute(t, sampleApp(), "history", "--history", db)
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "1 / 2 passed")

	id := strings.Fields(out)[0]
	code, out, _ = execute(t, sampleApp(), "history", "--history", db, id)
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "1) adds  PASS")
	assert.Contains(t, out, "2) subtracts  FAIL")
	assert.Contains(t, out, "1 subtests failed")
}

func TestHistory_RequiresDatabase(t *testing.T) {
	code, _, errOut := execute(t, sampleApp(), "history")

	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, errOut, "no history database configured")
}

func TestHistory_UnknownRun(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")

	code, _, errOut := execute(t, sampleApp(), "history", "--history", db, "missing")
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, errOut, "run missing not found")
}

func TestHistory_Empty(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")

	_, out, _ := execute(t, sampleApp(), "history", "--history", db)
	assert.Equal(t, "no runs recorded\n", out)
}

func TestUnknownArgs(t *testing.T) {
	code, _, _ := execute(t, sampleApp(), "bogus")
	assert.Equal(t, ExitCommandError, code)
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(&ExitError{Code: ExitFailure}))
	assert.Equal(t, ExitCommandError, GetExitCode(errors.New("plain")))
	assert.Equal(t, ExitCommandError, GetExitCode(WrapExitError(ExitCommandError, "wrapped", errors.New("inner"))))
}

func TestExitError_Message(t *testing.T) {
	assert.Equal(t, "open history: locked", WrapExitError(2, "open history", errors.New("locked")).Error())
	assert.Equal(t, "bad", NewExitError(2, "bad").Error())
}

func TestReportError_SilentForReportedFailures(t *testing.T) {
	var buf bytes.Buffer
	reportError(&buf, &ExitError{Code: ExitFailure})
	assert.Empty(t, buf.String())

	reportError(&buf, errors.New("boom"))
	assert.Equal(t, "Error: boom\n", buf.String())
}
