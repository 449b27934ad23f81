// Package log builds the zerolog loggers used across the server.
package log

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

type Logger = zerolog.Logger

// New returns the root logger. env "local" switches to the human-readable
// console writer; anything else emits JSON lines on stdout.
func New(level, env string) Logger {
	var out io.Writer = os.Stdout
	if env == "local" {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
	}

	return zerolog.New(out).
		Level(parseLevel(level)).
		With().
		Timestamp().
		Logger()
}

// Component tags every event with the subsystem that produced it.
func Component(logger Logger, name string) Logger {
	return logger.With().Str("component", name).Logger()
}

func parseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
