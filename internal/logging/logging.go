package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global logger for CLI use: human-readable console
// output on stderr, info level unless verbose.
func Init(verbose bool) {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
}

// WithComponent returns a child logger tagged with the subsystem name.
func WithComponent(name string) zerolog.Logger {
	return log.Logger.With().Str("component", name).Logger()
}
