package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NormalizeForMatch lowercases s, drops every rune that is not a letter,
// digit, or whitespace, and trims the result. The output is a fixed point:
// NormalizeForMatch(NormalizeForMatch(s)) == NormalizeForMatch(s).
func NormalizeForMatch(s string) string {
	if s == "" {
		return ""
	}
	lowered := cases.Lower(language.Und).String(s)
	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// ContainsEither reports whether either normalized string contains the other.
// An empty string is contained in every string.
func ContainsEither(a, b string) bool {
	return strings.Contains(a, b) || strings.Contains(b, a)
}
