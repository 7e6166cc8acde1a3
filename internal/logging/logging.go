// Package logging builds the application logger. The terminal belongs to the
// UI, so logs only go to a file, and only when debugging is enabled.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New returns a JSON logger appending to path when debug is set and a
// discarding logger otherwise. The returned closer releases the log file.
func New(path string, debug bool) (*slog.Logger, io.Closer, error) {
	if !debug {
		return slog.New(slog.DiscardHandler), nopCloser{}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	logger.Debug("logger initialized", "path", path)
	return logger, f, nil
}
