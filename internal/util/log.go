package util

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// NewLogger builds the application logger. Output goes to stderr through the
// console writer so tables on stdout stay clean.
func NewLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	return zerolog.New(w).With().Timestamp().Logger().Level(lvl)
}
