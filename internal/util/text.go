package util

import "strings"

// CollapseWhitespace trims leading/trailing whitespace and folds every
// internal run of whitespace into a single space.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Truncate cuts s to at most max runes. Used to keep oversized review bodies
// inside the extraction model's context budget.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
