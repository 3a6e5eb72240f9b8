package document

import (
	"regexp"
	"strings"
)

var (
	disallowedChars = regexp.MustCompile(`[^a-zA-Z0-9\s]`)
	whitespaceRuns  = regexp.MustCompile(`\s+`)
)

// SanitizeTitle derives a filesystem-safe base filename from a book title:
// characters outside letters, digits and whitespace are stripped, then
// whitespace runs collapse to a single underscore. An empty result falls
// back to "book".
func SanitizeTitle(title string) string {
	base := disallowedChars.ReplaceAllString(title, "")
	base = whitespaceRuns.ReplaceAllString(strings.TrimSpace(base), "_")
	if base == "" {
		return "book"
	}
	return base
}
