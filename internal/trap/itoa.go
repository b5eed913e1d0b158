package trap

import "strconv"

func itoa(code uint32) string {
	return strconv.FormatUint(uint64(code), 10)
}
