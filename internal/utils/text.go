package utils

import (
	"strings"
	"unicode"
)

// Excerpt collapses whitespace and truncates content for feed listings.
// Returns "" when there is nothing worth showing.
func Excerpt(content string, maxLen int) string {
	s := strings.Join(strings.FieldsFunc(content, unicode.IsSpace), " ")
	if s == "" {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return strings.TrimRight(string(runes[:maxLen]), " ") + "…"
}
