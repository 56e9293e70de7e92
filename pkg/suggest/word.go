package suggest

import (
	"unicode"

	"github.com/bastiangx/typeaid/internal/utils"
	"github.com/bastiangx/typeaid/pkg/vocab"
)

// IsWordChar reports whether r belongs to a word: a letter, a digit or an
// apostrophe. Hosts use it to decide word boundaries while editing; the
// Resolver itself splits only on whitespace.
func IsWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\''
}

// CurrentWord returns the partial word at the end of input: the run of
// non-separator bytes before any trailing spaces or line breaks. The result
// is empty when input ends in a separator, since no word is being typed, and
// is cut to vocab.MaxWordLen bytes.
func CurrentWord(input string) string {
	if input == "" || utils.IsSeparator(input[len(input)-1]) {
		return ""
	}
	start := len(input)
	for start > 0 && !utils.IsSeparator(input[start-1]) {
		start--
	}
	return utils.TruncateBytes(input[start:], vocab.MaxWordLen)
}
