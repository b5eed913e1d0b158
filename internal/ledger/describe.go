package ledger

import (
	"fmt"
	"reflect"
	"strings"
)

// DescribeAssert describes a failed boolean assertion.
func DescribeAssert(expr string) string {
	return fmt.Sprintf("Assertion '%s' failed.", expr)
}

// DescribeEqual describes a failed scalar equality. Numeric operands are
// rendered as integers.
func DescribeEqual(xExpr, yExpr string, x, y any) string {
	return fmt.Sprintf("'%s'(%s) != '%s'(%s).", xExpr, Integer(x), yExpr, Integer(y))
}

// DescribeMem describes a failed byte-buffer equality. The actual bytes
// are dumped over the expected length.
func DescribeMem(actualExpr, expectedExpr string, actual []byte, n int) string {
	if n > len(actual) {
		n = len(actual)
	}
	return fmt.Sprintf("'%s'(%s) != '%s'.", actualExpr, HexDump(actual[:n]), expectedExpr)
}

// DescribeStr describes a failed string equality.
func DescribeStr(xExpr, yExpr, x, y string) string {
	return fmt.Sprintf("'%s'(\"%s\") != '%s'(\"%s\").", xExpr, x, yExpr, y)
}

// HexDump renders b as space-separated "0xAB" bytes.
func HexDump(b []byte) string {
	parts := make([]string, len(b))
	for i, c := range b {
		parts[i] = fmt.Sprintf("0x%02X", c)
	}
	return strings.Join(parts, " ")
}

// Integer renders v coerced to an integer when it is numeric or boolean,
// and with %v otherwise.
func Integer(v any) string {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fmt.Sprintf("%d", rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return fmt.Sprintf("%d", rv.Uint())
	case reflect.Float32, reflect.Float64:
		return fmt.Sprintf("%d", int64(rv.Float()))
	case reflect.Bool:
		if rv.Bool() {
			return "1"
		}
		return "0"
	default:
		return fmt.Sprintf("%v", v)
	}
}
