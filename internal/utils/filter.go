package utils

import (
	"unicode"
)

// IsHangulSyllable reports whether r is a precomposed Hangul syllable block.
func IsHangulSyllable(r rune) bool {
	return r >= 0xAC00 && r <= 0xD7A3
}

// IsOnlyNumbers checks if a string consists entirely of numeric digits
func IsOnlyNumbers(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// ContainsControl checks if a string holds control or format characters
// that can never be a tile.
func ContainsControl(s string) bool {
	for _, r := range s {
		if unicode.IsControl(r) || unicode.Is(unicode.Cf, r) {
			return true
		}
	}
	return false
}

// IsValidTiles checks if a normalized tile string should be handed to the engine.
// Empty input is valid and simply yields no words.
func IsValidTiles(s string) bool {
	if len(s) == 0 {
		return true
	}
	if IsOnlyNumbers(s) {
		return false
	}
	if ContainsControl(s) {
		return false
	}
	return true
}

// CountHangul returns how many runes of s are Hangul syllables.
func CountHangul(s string) int {
	n := 0
	for _, r := range s {
		if IsHangulSyllable(r) {
			n++
		}
	}
	return n
}
