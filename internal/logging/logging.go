// Package logging builds the zerolog loggers used across queuewatch.
package logging

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	FormatConsole = "console"
	FormatJSON    = "json"

	laneField    = "lane"
	accountField = "account"
)

type Config struct {
	Level  string
	Format string
}

// New returns a logger writing to out. An empty level means info and an
// empty format means console.
func New(cfg Config, out io.Writer) (zerolog.Logger, error) {
	levelName := strings.ToLower(strings.TrimSpace(cfg.Level))
	if levelName == "" {
		levelName = zerolog.InfoLevel.String()
	}
	level, err := zerolog.ParseLevel(levelName)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", FormatConsole:
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.DateTime,
		}
	case FormatJSON:
	default:
		return zerolog.Nop(), fmt.Errorf("unsupported log format %q", cfg.Format)
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}

// ForSession tags logger with the lane label and the account name, the way
// every per-session console line is prefixed.
func ForSession(logger zerolog.Logger, lane string, account string) zerolog.Logger {
	return logger.With().Str(laneField, lane).Str(accountField, account).Logger()
}

// ForLane tags logger with the lane label only.
func ForLane(logger zerolog.Logger, lane string) zerolog.Logger {
	return logger.With().Str(laneField, lane).Logger()
}
