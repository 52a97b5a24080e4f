package infra

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger builds the process-wide zerolog.Logger. The level comes from
// LOG_LEVEL when set, otherwise debug in development and info everywhere
// else. Development gets the human-readable console writer.
func NewLogger(appEnv string) zerolog.Logger {
	level := zerolog.InfoLevel
	if appEnv == "development" {
		level = zerolog.DebugLevel
	}
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		if parsed, err := zerolog.ParseLevel(raw); err == nil {
			level = parsed
		}
	}

	var out zerolog.LevelWriter = zerolog.MultiLevelWriter(os.Stderr)
	if appEnv == "development" {
		out = zerolog.MultiLevelWriter(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", "envision").
		Logger()
}
