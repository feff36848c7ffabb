package utils

import (
	"strings"
	"unicode/utf8"
)

// CleanText drops invalid UTF-8 and NUL bytes, which postgres text columns reject,
// and trims surrounding whitespace. The bool reports whether bytes were dropped.
func CleanText(input string) (string, bool) {
	dirty := strings.Contains(input, "\x00") || !utf8.ValidString(input)

	cleaned := input
	if dirty {
		cleaned = strings.ToValidUTF8(cleaned, "")
		cleaned = strings.ReplaceAll(cleaned, "\x00", "")
	}

	return strings.TrimSpace(cleaned), dirty
}
