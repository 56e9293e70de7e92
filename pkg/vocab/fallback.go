package vocab

import (
	_ "embed"
	"strings"
)

//go:embed fallback.txt
var fallbackData string

// FallbackWords returns the built-in function words in injection order.
func FallbackWords() []string {
	var words []string
	_, _ = ParseWords(strings.NewReader(fallbackData), MaxWordLen, func(w string) error {
		words = append(words, w)
		return nil
	})
	return words
}

// injectFallback adds the built-in words to t and returns how many it took.
func injectFallback(t *Tier) int {
	n := 0
	for _, w := range FallbackWords() {
		if t.Add(w) == nil {
			n++
		}
	}
	return n
}
