package utils

import (
	"strings"
)

// NormalizeTitle trims surrounding whitespace, collapses inner runs of
// whitespace to single spaces and case-folds the result. Titles that
// normalize identically are treated as the same candidate.
func NormalizeTitle(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(strings.Join(fields, " "))
}
