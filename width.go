package termcore

import (
	"unicode"

	"github.com/unilibs/uniwidth"
)

// runeWidth returns the display width of r: 2 for wide characters (CJK,
// emoji), 1 for normal, 0 for zero-width (combining marks, control chars).
func runeWidth(r rune) int {
	return uniwidth.RuneWidth(r)
}

// isWideRune reports whether r occupies two grid columns.
func isWideRune(r rune) bool {
	return uniwidth.RuneWidth(r) == 2
}

// StringWidth returns the total display width of s (sum of rune widths).
func StringWidth(s string) int {
	return uniwidth.StringWidth(s)
}

// isCombiningMarkRune reports whether r is a non-spacing combining mark,
// the test a caller of Screen.Compose (via IsCombiningMark) uses to decide
// whether an incoming code point extends the previous cell rather than
// starting a new one. See
// DESIGN.md for why this is stdlib unicode rather than a grapheme-cluster
// library.
func isCombiningMarkRune(r rune) bool {
	return unicode.In(r, unicode.Mn)
}
