package utils

import "strings"

// NormalizeAnswer trims surrounding whitespace and lower-cases s. Inner
// whitespace and punctuation are left untouched.
func NormalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// AnswersMatch compares two answers after normalization.
func AnswersMatch(given, expected string) bool {
	return NormalizeAnswer(given) == NormalizeAnswer(expected)
}
