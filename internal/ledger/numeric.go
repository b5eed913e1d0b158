package ledger

import "reflect"

// NumbersEqual compares x and y when both are numbers. Operands are
// compared as float64 when either is a float, and otherwise as integers
// with the sign taken into account, so int8(-1) never equals uint8(255).
// ok is false when either operand is not a number.
func NumbersEqual(x, y any) (equal, ok bool) {
	a, aok := numberOf(x)
	b, bok := numberOf(y)
	if !aok || !bok {
		return false, false
	}

	switch {
	case a.float || b.float:
		return a.asFloat() == b.asFloat(), true
	case a.unsigned && b.unsigned:
		return a.u == b.u, true
	case !a.unsigned && !b.unsigned:
		return a.i == b.i, true
	case a.unsigned:
		return b.i >= 0 && uint64(b.i) == a.u, true
	default:
		return a.i >= 0 && uint64(a.i) == b.u, true
	}
}

type number struct {
	i        int64
	u        uint64
	f        float64
	unsigned bool
	float    bool
}

func numberOf(v any) (number, bool) {
	if v == nil {
		return number{}, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return number{i: rv.Int()}, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return number{u: rv.Uint(), unsigned: true}, true
	case reflect.Float32, reflect.Float64:
		return number{f: rv.Float(), float: true}, true
	}
	return number{}, false
}

func (n number) asFloat() float64 {
	switch {
	case n.float:
		return n.f
	case n.unsigned:
		return float64(n.u)
	default:
		return float64(n.i)
	}
}
