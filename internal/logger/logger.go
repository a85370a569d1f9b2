package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// New builds the process logger. Cloud Logging reads the level from "severity".
func New(environment string) zerolog.Logger {
	return newWithWriter(os.Stderr, environment)
}

func newWithWriter(w io.Writer, environment string) zerolog.Logger {
	zerolog.LevelFieldName = "severity"
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	logger := zerolog.New(w).With().Timestamp().Logger()

	if environment == "development" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: w})
		return logger.Level(zerolog.DebugLevel)
	}

	return logger.Level(zerolog.InfoLevel)
}

// Nop is used by tests and by components built without a logger.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
