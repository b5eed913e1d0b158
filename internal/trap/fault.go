package trap

import (
	"fmt"
	"runtime"
	"strings"
)

// Kind categorizes a trapped fault.
type Kind int

const (
	// KindPanic is a panic with a value that is not a runtime error.
	KindPanic Kind = iota
	// KindRuntime is a runtime error other than a memory or arithmetic
	// fault (index out of range, failed type assertion, ...).
	KindRuntime
	// KindSegv is an invalid memory access. Bus errors are reported as
	// KindSegv too: with panic-on-fault the runtime raises the same
	// addressed error for SIGBUS and SIGSEGV, and the signal is not
	// recoverable from it.
	KindSegv
	// KindFPE is an arithmetic fault (integer division by zero).
	KindFPE
	// KindExit means the body called runtime.Goexit.
	KindExit
)

// String returns a short human-readable name.
func (k Kind) String() string {
	switch k {
	case KindRuntime:
		return "runtime error"
	case KindSegv:
		return "segmentation fault"
	case KindFPE:
		return "arithmetic fault"
	case KindExit:
		return "goexit"
	default:
		return "panic"
	}
}

// Fault records a fault trapped by Protect.
type Fault struct {
	Kind Kind

	// Code is the platform fault code: a POSIX signal number, or a
	// structured exception code on Windows. Zero for plain panics.
	Code uint32

	// Addr is the faulting address when HasAddr is set.
	Addr    uintptr
	HasAddr bool

	// Value is the recovered panic value.
	Value any

	// File and Line locate the fault site in the test body.
	File string
	Line int

	Stack []byte
}

// Error implements the error interface.
func (f *Fault) Error() string {
	var b strings.Builder
	b.WriteString(f.Kind.String())
	if f.Code != 0 {
		fmt.Fprintf(&b, " (%s)", codeName(f.Code))
	}
	if f.HasAddr {
		fmt.Fprintf(&b, " at %#x", f.Addr)
	}
	fmt.Fprintf(&b, ": %v", f.Value)
	return b.String()
}

// addressed is implemented by the runtime error raised for a fault on a
// non-nil address while SetPanicOnFault is enabled.
type addressed interface {
	Addr() uintptr
}

// newFault describes a recovered panic value. A *Fault re-raised by a
// nested Protect is passed through unchanged.
func newFault(v any, stack []byte) *Fault {
	if inner, ok := v.(*Fault); ok {
		return inner
	}
	f := &Fault{Kind: KindPanic, Value: v, Stack: stack}
	f.File, f.Line = faultSite()

	rerr, ok := v.(runtime.Error)
	if !ok {
		return f
	}
	f.Kind = KindRuntime

	if a, ok := rerr.(addressed); ok {
		f.Kind = KindSegv
		f.Code = codeSegv
		f.Addr = a.Addr()
		f.HasAddr = true
		return f
	}

	msg := rerr.Error()
	switch {
	case strings.Contains(msg, "nil pointer dereference"),
		strings.Contains(msg, "invalid memory address"):
		f.Kind = KindSegv
		f.Code = codeSegv
		f.HasAddr = true
	case strings.Contains(msg, "divide by zero"):
		f.Kind = KindFPE
		f.Code = codeFPE
	}
	return f
}

func exitFault() *Fault {
	f := &Fault{Kind: KindExit, Value: "runtime.Goexit called"}
	f.File, f.Line = faultSite()
	return f
}
