// Package logging configures diagnostic logging. The terminal is owned
// by the TUI, so diagnostics go to a file when one is configured and are
// discarded otherwise.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Open returns a logger writing to the given file path, plus a closer
// for the underlying file. An empty path yields a disabled logger.
func Open(path string) (zerolog.Logger, func(), error) {
	if path == "" {
		return zerolog.Nop(), func() {}, nil
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("open debug log: %w", err)
	}

	logger := zerolog.New(file).With().Timestamp().Logger()
	return logger, func() { file.Close() }, nil
}

// Console returns a human-readable logger for pre-TUI startup output.
func Console(w io.Writer) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: w}).With().Timestamp().Logger()
}
