//go:build windows

package trap

// Structured exception codes (ntstatus.h).
const (
	codeSegv = uint32(0xC0000005) // EXCEPTION_ACCESS_VIOLATION
	codeFPE  = uint32(0xC0000094) // EXCEPTION_INT_DIVIDE_BY_ZERO
)

func codeName(code uint32) string {
	switch code {
	case codeSegv:
		return "EXCEPTION_ACCESS_VIOLATION"
	case codeFPE:
		return "EXCEPTION_INT_DIVIDE_BY_ZERO"
	case 0xC000001D:
		return "EXCEPTION_ILLEGAL_INSTRUCTION"
	}
	return "exception " + itoa(code)
}
