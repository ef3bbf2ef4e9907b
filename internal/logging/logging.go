// Package logging sets up the viewer's structured log. The terminal is
// owned by the UI, so records go to a file.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// DebugEnv enables debug-level records when set to a non-empty value.
const DebugEnv = "VU_DEBUG"

// DefaultPath returns $XDG_STATE_HOME/vu/vu.log, creating the directory.
func DefaultPath() (string, error) {
	return xdg.StateFile(filepath.Join("vu", "vu.log"))
}

// Open returns a text logger appending to path, or to DefaultPath when
// path is empty. The returned closer releases the file.
func Open(path string, level slog.Level) (*slog.Logger, io.Closer, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, nil, err
		}
		path = p
	} else if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, err
	}
	return New(f, level), f, nil
}

// New returns a text logger writing to w.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// LevelFromEnv returns slog.LevelDebug when DebugEnv is set, otherwise
// slog.LevelInfo.
func LevelFromEnv() slog.Level {
	if os.Getenv(DebugEnv) != "" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
