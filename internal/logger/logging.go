// Package logger builds charmbracelet/log loggers for typeaid's packages.
// Everything goes to stderr; stdout is reserved for the IPC stream.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// New creates a default charm log with the given prefix at the global level.
func New(prefix string) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          prefix,
		ReportCaller:    false,
		ReportTimestamp: true,
		Formatter:       log.TextFormatter,
		Level:           log.GetLevel(),
	})
}

// Discard returns a logger that drops everything, for tests.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// SetGlobalLevel parses level ("debug", "info", "warn", "error") and applies
// it to the default logger. Unknown names leave the level unchanged.
func SetGlobalLevel(level string) bool {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return false
	}
	log.SetLevel(lvl)
	return true
}
