package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/sqlainsaad5/eventify-bell/internal/model"
)

// SetupFile points the global logger at the configured log file. The TUI owns
// the terminal, so nothing is written to stderr. The returned closer flushes
// the file.
func SetupFile(cfg model.LogConfig) (io.Closer, error) {
	level := parseLevel(cfg.Level)

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening log file %s: %w", cfg.Path, err)
	}

	log.Logger = zerolog.New(f).Level(level).With().Timestamp().Logger()
	return f, nil
}

// SetupConsole sends the global logger to stderr for one-shot subcommands.
func SetupConsole(cfg model.LogConfig) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(parseLevel(cfg.Level))
}

func parseLevel(s string) zerolog.Level {
	level, err := zerolog.ParseLevel(s)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}
