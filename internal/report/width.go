package report

import (
	"unicode"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// displayWidth returns the number of terminal columns s occupies.
// Wide and fullwidth runes take two columns, combining marks none.
func displayWidth(s string) int {
	n := 0
	for _, r := range norm.NFC.String(s) {
		switch {
		case unicode.Is(unicode.Mn, r), r == '\n':
		case isWide(r):
			n += 2
		default:
			n++
		}
	}
	return n
}

func isWide(r rune) bool {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return true
	}
	return false
}
