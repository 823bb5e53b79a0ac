// Package logger holds the process-wide zerolog logger. Services and
// controllers receive children of it built with Component.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var root zerolog.Logger

// LogLevel is a textual zerolog level
type LogLevel string

const (
	DebugLevel LogLevel = "debug"
	InfoLevel  LogLevel = "info"
	WarnLevel  LogLevel = "warn"
	ErrorLevel LogLevel = "error"
)

// Config selects level, output and whether entries are rendered for a terminal
type Config struct {
	Level  LogLevel
	Pretty bool
	Output io.Writer
}

// Configure replaces the root logger and the global level.
// Unknown or empty levels fall back to info.
func Configure(cfg Config) {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	level, err := zerolog.ParseLevel(string(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	root = zerolog.New(out).With().Timestamp().Logger()
	log.Logger = root
}

// FromSettings maps the logging section of the application config.
// Format "pretty" or "console" enables the console writer; anything else is JSON.
func FromSettings(level, format string) Config {
	format = strings.ToLower(strings.TrimSpace(format))
	return Config{
		Level:  LogLevel(strings.ToLower(strings.TrimSpace(level))),
		Pretty: format == "pretty" || format == "console",
		Output: os.Stdout,
	}
}

// Component returns a child logger tagged with component=name
func Component(name string) zerolog.Logger {
	return root.With().Str("component", name).Logger()
}

func Debug() *zerolog.Event { return root.Debug() }

func Info() *zerolog.Event { return root.Info() }

func Warn() *zerolog.Event { return root.Warn() }

func Error() *zerolog.Event { return root.Error() }

func init() {
	Configure(Config{Level: InfoLevel, Pretty: true})
}
