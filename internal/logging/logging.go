// Package logging sets up the zerolog logger. Logs always go to a file: the
// terminal belongs to the user interface.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

const (
	dirPerm  = 0o700
	filePerm = 0o600

	// SourceField names the component that wrote a log line.
	SourceField = "src"
)

// Open appends JSON log lines to the file at path. The returned closer
// closes the file.
func Open(path, level string) (zerolog.Logger, io.Closer, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, filePerm)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return New(f, lvl), f, nil
}

// New returns a timestamped logger writing to w.
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// For returns a child logger tagged with the component name.
func For(logger zerolog.Logger, source string) zerolog.Logger {
	return logger.With().Str(SourceField, source).Logger()
}
