package strutil

import (
	"strings"
	"unicode"
)

// CollapseSpaces replaces every run of whitespace with a single space and trims both ends.
// For example CollapseSpaces("\n Москва,  отделение 5 ") return "Москва, отделение 5"
func CollapseSpaces(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	space := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			space = true
			continue
		}

		if space && b.Len() > 0 {
			b.WriteByte(' ')
		}

		space = false
		b.WriteRune(r)
	}

	return b.String()
}

// ContainsAny reports whether s contains at least one of the substrings
func ContainsAny(s string, substrs []string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}

	return false
}

// HasDigit reports whether s contains a decimal digit in any script
func HasDigit(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}
