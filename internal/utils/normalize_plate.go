package utils

import (
	"strings"
	"unicode"
)

// NormalizePlate canonicalizes plate-like text: every whitespace character and
// hyphen is dropped, the rest is uppercased. Other punctuation is kept as-is.
// The result is the registry's comparison key, so every write and read path
// must go through this function and nothing else.
func NormalizePlate(raw string) string {
	normalized := strings.Map(func(r rune) rune {
		if r == '-' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)
	return strings.ToUpper(normalized)
}
