//go:build !unix && !windows

package trap

const (
	codeSegv = uint32(0)
	codeFPE  = uint32(0)
)

func codeName(code uint32) string {
	return "code " + itoa(code)
}
