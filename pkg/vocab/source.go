package vocab

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"unicode"

	"github.com/bastiangx/typeaid/internal/utils"
)

// Source opens the text resource backing a tier.
type Source interface {
	Open(id TierID) (io.ReadCloser, error)
}

// DefaultFiles maps each tier to its conventional file name.
var DefaultFiles = map[TierID]string{
	FunctionWords:   "tier1_function_words.txt",
	CommonLemmas:    "tier2_lemma_list.txt",
	ChatSlang:       "tier3a_chat.txt",
	Fillers:         "tier3b_fillers.txt",
	FormalDiscourse: "tier4_formal_discourse.txt",
}

// FSSource reads tier files out of an fs.FS.
type FSSource struct {
	fsys  fs.FS
	files map[TierID]string
}

// NewFSSource returns a Source over fsys. Tiers missing from files fall back
// to DefaultFiles.
func NewFSSource(fsys fs.FS, files map[TierID]string) *FSSource {
	merged := make(map[TierID]string, len(DefaultFiles))
	for id, name := range DefaultFiles {
		merged[id] = name
	}
	for id, name := range files {
		if name != "" {
			merged[id] = name
		}
	}
	return &FSSource{fsys: fsys, files: merged}
}

// Open implements Source.
func (s *FSSource) Open(id TierID) (io.ReadCloser, error) {
	name, ok := s.files[id]
	if !ok {
		return nil, fmt.Errorf("no source file for %s tier", id)
	}
	f, err := s.fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	return f, nil
}

// FileName returns the resource name used for id.
func (s *FSSource) FileName(id TierID) string {
	return s.files[id]
}

// ParseWords reads newline-delimited words from r and passes each accepted
// line to add. Lines are split on '\n' or a lone '\r' and trimmed of trailing
// whitespace. Blank lines and lines starting with '#' are skipped; leading
// whitespace is kept, so "  #x" is a word. Lines longer than maxLen bytes are
// cut on a rune boundary.
//
// An error from add drops that word only. A read error stops parsing and is
// returned; words added before it stay added. The returned count is the number
// of words add accepted.
func ParseWords(r io.Reader, maxLen int, add func(word string) error) (int, error) {
	br := bufio.NewReader(r)
	added := 0

	handle := func(line string) {
		// A lone '\r' also ends a line.
		for _, part := range strings.Split(line, "\r") {
			word, ok := cleanLine(part, maxLen)
			if !ok {
				continue
			}
			if err := add(word); err == nil {
				added++
			}
		}
	}

	for {
		line, err := br.ReadString('\n')
		switch {
		case err == nil:
			handle(strings.TrimSuffix(line, "\n"))
		case errors.Is(err, io.EOF):
			if line != "" {
				handle(line)
			}
			return added, nil
		default:
			// The unterminated tail of a failed read is not a word.
			return added, err
		}
	}
}

func cleanLine(line string, maxLen int) (string, bool) {
	line = strings.TrimRightFunc(line, unicode.IsSpace)
	if line == "" || line[0] == '#' {
		return "", false
	}
	line = strings.TrimRightFunc(utils.TruncateBytes(line, maxLen), unicode.IsSpace)
	return line, line != ""
}
