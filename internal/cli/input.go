// Package cli handles cmd line input and suggestions for DBG and testing the resolver.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bastiangx/typeaid/internal/utils"
	"github.com/bastiangx/typeaid/pkg/suggest"
	"github.com/charmbracelet/log"
)

// TrailingSpaceMarker at the end of a line is replaced by one space, which
// line-based terminals would otherwise strip. Text before it is kept as typed,
// so "hello |" becomes "hello  ".
const TrailingSpaceMarker = "|"

// InputHandler reads whole lines of typed text and prints the suggestions
// the resolver returns for each.
type InputHandler struct {
	suggester suggest.Suggester
	diag      suggest.Diagnoser
	limit     int
	in        io.Reader
	out       io.Writer
}

// NewInputHandler creates an InputHandler. diag may be nil.
func NewInputHandler(suggester suggest.Suggester, diag suggest.Diagnoser, limit int, in io.Reader, out io.Writer) *InputHandler {
	return &InputHandler{
		suggester: suggester,
		diag:      diag,
		limit:     limit,
		in:        in,
		out:       out,
	}
}

// Start begins the interface loop. It returns nil when the input ends.
func (h *InputHandler) Start() error {
	fmt.Fprintln(h.out, "TypeAid CLI [BETA]")
	if h.diag != nil {
		fmt.Fprintf(h.out, "vocabulary: %s\n", h.diag.DiagnosticMessage())
	}
	fmt.Fprintf(h.out, "type text and press Enter; end a line with %q for a trailing space (Ctrl+D to exit)\n", TrailingSpaceMarker)

	scanner := bufio.NewScanner(h.in)
	for {
		fmt.Fprint(h.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(h.out)
			return scanner.Err()
		}
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		if strings.HasSuffix(line, TrailingSpaceMarker) {
			line = strings.TrimSuffix(line, TrailingSpaceMarker) + " "
		}
		h.handleInput(line)
	}
}

// handleInput resolves one line and prints the numbered suggestions.
func (h *InputHandler) handleInput(input string) {
	start := time.Now()
	suggestions := h.suggester.Suggestions(input, h.limit)
	log.Debugf("Took [ %v ] for input %q", time.Since(start), input)

	word := suggest.CurrentWord(input)
	if word == "" {
		fmt.Fprintf(h.out, "no word being typed in %q\n", utils.VisualizeTrailing(input))
		return
	}
	if len(suggestions) == 0 {
		fmt.Fprintf(h.out, "no suggestions for '%s'\n", word)
		return
	}

	fmt.Fprintf(h.out, "%d suggestion(s) for '%s':\n", len(suggestions), word)
	for i, s := range suggestions {
		fmt.Fprintf(h.out, "%2d. \033[38;5;75m%s\033[0m\n", i+1, s)
	}
}
