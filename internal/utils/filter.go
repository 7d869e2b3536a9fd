package utils

import (
	"unicode"
)

// IsValidQuery checks if a query should be processed for suggestions.
// Control characters are rejected; anything a user can type into an item
// title field (letters, digits, spaces, punctuation) is allowed.
func IsValidQuery(s string, maxLen int) bool {
	if len(s) > maxLen {
		return false
	}
	for _, r := range s {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}

// IsRepetitive checks if a string consists of one repeated character,
// like "aaa". Such queries produce noise and are worth logging.
func IsRepetitive(s string) bool {
	if len(s) <= 2 {
		return false
	}
	first := s[0]
	for i := 1; i < len(s); i++ {
		if s[i] != first {
			return false
		}
	}
	return true
}
