// Package logging builds the zerolog loggers used by the client and the command line.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// New creates a logger writing to w at level. Terminals get a human readable
// console format, anything else gets JSON lines.
func New(level string, w io.Writer) (zerolog.Logger, error) {
	if level == "" {
		level = zerolog.LevelWarnValue
	}
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if file, ok := w.(*os.File); ok && isatty.IsTerminal(file.Fd()) {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}
	return zerolog.New(w).Level(parsed).With().Timestamp().Logger(), nil
}
