package utils

import (
	"strings"
	"unicode/utf8"
)

// IsSeparator checks if b ends a word in typed input.
// Only space and line breaks count; punctuation stays part of the word.
func IsSeparator(b byte) bool {
	return b == ' ' || b == '\n' || b == '\r'
}

// TruncateBytes cuts s to at most n bytes without splitting a UTF-8 sequence.
func TruncateBytes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// VisualizeTrailing makes trailing separators visible in debug output.
func VisualizeTrailing(s string) string {
	trimmed := strings.TrimRight(s, " \n\r")
	if len(trimmed) == len(s) {
		return s
	}
	return trimmed + strings.Repeat("·", len(s)-len(trimmed))
}
