// ABOUTME: Structured logger setup
// ABOUTME: Configures the global zerolog logger used by every package
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ParseLevel maps a level name to a zerolog level, defaulting to info
func ParseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Init sets the global logger. A nil w writes to stderr.
func Init(level string, pretty bool, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}

	zerolog.SetGlobalLevel(ParseLevel(level))

	if pretty {
		// Pretty console output for terminals
		w = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
			NoColor:    w != os.Stderr && w != os.Stdout,
		}
	}

	logger := zerolog.New(w).With().Timestamp().Logger()
	log.Logger = logger
	return logger
}

// WithRequestID returns a logger tagged with a request id
func WithRequestID(id string) zerolog.Logger {
	return log.With().Str("request_id", id).Logger()
}
