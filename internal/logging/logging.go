// Package logging sets up the application logger. The TUI owns the
// terminal, so the logger writes to a file; nothing is ever printed
// over the live screen.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// Options holds logger configuration.
type Options struct {
	Level           log.Level
	ReportTimestamp bool
	Prefix          string
}

// DefaultOptions returns the options used by the app binary.
func DefaultOptions() Options {
	return Options{
		Level:           log.InfoLevel,
		ReportTimestamp: true,
		Prefix:          "tuido",
	}
}

// New opens the log file (creating parent directories) and returns a logger
// plus a closer to call on shutdown.
func New(path string, opts Options) (*log.Logger, func() error, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("mkdir log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return NewWithWriter(f, opts), f.Close, nil
}

// NewWithWriter builds a logger on an arbitrary writer. Used by tests and by
// CLI subcommands that log to stderr instead of the file.
func NewWithWriter(w io.Writer, opts Options) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           opts.Level,
		Formatter:       log.TextFormatter,
		ReportTimestamp: opts.ReportTimestamp,
		Prefix:          opts.Prefix,
	})
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

// ParseLevel converts a config string to a log level, defaulting to info.
func ParseLevel(s string) log.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}
