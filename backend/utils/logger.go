package utils

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LoggerConfig defines logger configuration
type LoggerConfig struct {
	// Level is a zerolog level name ("debug", "info", ...).
	Level string
	// Format is "console" or "json".
	Format string
	// Output defaults to os.Stdout.
	Output io.Writer
}

// InitLogger builds the application logger and installs it as the global one.
func InitLogger(config ...LoggerConfig) zerolog.Logger {
	var cfg LoggerConfig
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	out := cfg.Output
	if cfg.Format != "json" {
		out = zerolog.ConsoleWriter{Out: cfg.Output, TimeFormat: time.RFC3339}
	}

	logger := zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", "simple-lms").
		Logger()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = logger

	return logger
}
