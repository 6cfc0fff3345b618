package textutil

import (
	"strings"
	"unicode"
)

// SanitizeFileName turns a playlist name into something safe to use as a
// file name on common filesystems. Path separators, colons, and asterisks
// become dashes; quotes, wildcards, pipes, and control characters vanish.
func SanitizeFileName(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*':
			return '-'
		case '?', '"', '<', '>', '|':
			return -1
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, strings.TrimSpace(name))
	return strings.Trim(cleaned, " .")
}
