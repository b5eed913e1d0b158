// Package trap converts faults raised while running a test body into
// values the runner can report, instead of letting them end the process.
//
// Protect runs the body on a dedicated goroutine with
// debug.SetPanicOnFault enabled and blocks until it finishes, so
// execution stays sequential. Memory faults, arithmetic faults, runtime
// errors, plain panics and runtime.Goexit are all recovered and described
// by a *Fault. The body's stack is abandoned at the fault; only its
// deferred calls run.
//
// Faults the Go runtime treats as fatal (SIGILL, stack exhaustion,
// concurrent map writes) and faults raised on goroutines the body starts
// itself still terminate the process.
package trap

import (
	"reflect"
	"runtime"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"
)

var (
	installOnce sync.Once
	installed   atomic.Bool

	// pkgPrefix is this package's import path plus the trailing dot,
	// used to skip trap frames when locating the fault site.
	pkgPrefix = reflect.TypeOf(Fault{}).PkgPath() + "."
)

// Install arms the trap for the process. It is idempotent and safe to
// call from any goroutine; Protect calls it on first use.
//
// Faults the trap cannot recover print every goroutine's stack before
// the process exits.
func Install() {
	installOnce.Do(func() {
		debug.SetTraceback("all")
		installed.Store(true)
	})
}

// Installed reports whether Install has run.
func Installed() bool {
	return installed.Load()
}

// Protect runs body and returns its result. If body faults, the zero
// value and a *Fault describing the fault are returned instead.
func Protect[R any](body func() R) (R, *Fault) {
	Install()

	var (
		result R
		fault  *Fault
	)
	done := make(chan struct{})
	go func() {
		returned := false
		defer close(done)
		defer func() {
			if v := recover(); v != nil {
				fault = newFault(v, debug.Stack())
				return
			}
			if !returned {
				fault = exitFault()
			}
		}()
		debug.SetPanicOnFault(true)
		result = body()
		returned = true
	}()
	<-done

	return result, fault
}

// Run is Protect for bodies without a result.
func Run(body func()) *Fault {
	_, fault := Protect(func() struct{} {
		body()
		return struct{}{}
	})
	return fault
}

// faultSite returns the first stack frame outside the Go runtime and this
// package. It must be called from the deferred recover so the panicking
// frames are still on the stack.
func faultSite() (string, int) {
	pcs := make([]uintptr, 64)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		internal := strings.HasPrefix(frame.Function, "runtime.") ||
			(strings.HasPrefix(frame.Function, pkgPrefix) && !strings.HasSuffix(frame.File, "_test.go"))
		if !internal && frame.File != "" {
			return frame.File, frame.Line
		}
		if !more {
			return "", 0
		}
	}
}
