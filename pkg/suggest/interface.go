// Package suggest resolves typed text into word completions drawn from a
// vocab.Store, scanning tiers in a fixed editorial priority.
package suggest

// Suggester defines the interface hosts use to ask for completions.
type Suggester interface {
	// Suggestions returns at most max completions for the word being typed
	// at the end of input.
	Suggestions(input string, max int) []string
}

// Diagnoser reports the advisory vocabulary load status.
type Diagnoser interface {
	DiagnosticMessage() string
}
