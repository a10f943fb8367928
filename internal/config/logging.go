package config

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/maze-escape/internal/storage"
)

// NewLogger builds a timestamped logger with the given prefix and level
// name. An unknown level falls back to info.
func NewLogger(w io.Writer, prefix, level string) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	if lvl, err := log.ParseLevel(level); err == nil {
		l.SetLevel(lvl)
	}
	return l
}

// OpenLogFile returns a logger for the terminal UI. Without a file the
// logger discards everything, since stderr would corrupt the alt screen.
// The returned closer is never nil.
func OpenLogFile(path, prefix, level string) (*log.Logger, io.Closer, error) {
	if path == "" {
		return NewLogger(io.Discard, prefix, level), nopCloser{}, nil
	}
	path, err := storage.ExpandPath(path)
	if err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("config: cannot open log file: %w", err)
	}
	return NewLogger(f, prefix, level), f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
