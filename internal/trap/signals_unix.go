//go:build unix

package trap

import (
	"syscall"

	"golang.org/x/sys/unix"
)

const (
	codeSegv = uint32(unix.SIGSEGV)
	codeFPE  = uint32(unix.SIGFPE)
)

func codeName(code uint32) string {
	if name := unix.SignalName(syscall.Signal(code)); name != "" {
		return name
	}
	return "signal " + itoa(code)
}
