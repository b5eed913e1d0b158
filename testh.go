// Package testh is a small embeddable unit-test facility.
//
// Units are declared at package level and run by Main in declaration
// order:
//
//	var _ = testh.Test("parses headers", func(t *testh.T) {
//		h, err := parse("a: b")
//		t.Assert(err == nil)
//		t.StrEqual(h["a"], "b")
//	})
//
//	func main() { os.Exit(testh.Main()) }
//
// A failed check ends the enclosing unit or subtest. A crash inside a
// unit (nil dereference, division by zero, panic) fails that unit and
// the run continues with the next one.
package testh

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/roach88/testh/internal/cli"
	"github.com/roach88/testh/internal/registry"
	"github.com/roach88/testh/internal/unit"
)

// T is the handle passed to unit bodies.
type T = unit.T

// BenchOption configures a single bench.
type BenchOption = unit.BenchOption

var (
	initMu sync.Mutex
	inits  []func()
)

// Test declares a unit and returns its ordinal. It records the caller's
// file and line, so it is meant to be called directly from a package
// level declaration.
func Test(name string, body func(*T)) int {
	_, file, line, ok := runtime.Caller(1)
	if !ok {
		file = "???"
	}
	return registry.Default.Add(name, file, line, body)
}

// Init registers fn to run once before the first unit.
func Init(fn func()) {
	initMu.Lock()
	defer initMu.Unlock()
	inits = append(inits, fn)
}

// Iterations overrides the iteration count of one bench.
func Iterations(k int) BenchOption {
	return unit.Iterations(k)
}

// Main runs the command-line driver over the declared units and returns
// the process exit code.
func Main() int {
	return cli.Execute(cli.NewRootCommand(cli.App{
		Name:     filepath.Base(os.Args[0]),
		Registry: registry.Default,
		Init:     initHooks(),
	}))
}

func initHooks() []func() {
	initMu.Lock()
	defer initMu.Unlock()
	out := make([]func(), len(inits))
	copy(out, inits)
	return out
}
