package utils

import (
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizeTiles prepares a pasted tile string for the engine.
// Input is NFC-composed so jamo sequences become syllable blocks,
// whitespace is dropped when strip is set and runes are sorted when sorted is set.
func NormalizeTiles(s string, strip, sorted bool) string {
	s = norm.NFC.String(s)
	if strip {
		s = strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return -1
			}
			return r
		}, s)
	}
	if sorted {
		s = SortRunes(s)
	}
	return s
}

// NormalizeWord trims a dictionary line and composes it to NFC.
func NormalizeWord(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// SortRunes returns s with its runes in ascending code point order.
func SortRunes(s string) string {
	rs := []rune(s)
	slices.Sort(rs)
	return string(rs)
}

// RuneLen returns the number of runes in s.
func RuneLen(s string) int {
	return len([]rune(s))
}
