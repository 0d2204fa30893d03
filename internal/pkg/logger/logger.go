// Package logger configures the process-wide zerolog logger.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var defaultLogger zerolog.Logger

// LogLevel is a configured level name
type LogLevel string

// Supported level names
const (
	DebugLevel LogLevel = "debug"
	InfoLevel  LogLevel = "info"
	WarnLevel  LogLevel = "warn"
	ErrorLevel LogLevel = "error"
	FatalLevel LogLevel = "fatal"
)

var levels = map[LogLevel]zerolog.Level{
	DebugLevel: zerolog.DebugLevel,
	InfoLevel:  zerolog.InfoLevel,
	WarnLevel:  zerolog.WarnLevel,
	ErrorLevel: zerolog.ErrorLevel,
	FatalLevel: zerolog.FatalLevel,
}

// Config represents logger configuration
type Config struct {
	Level LogLevel
	// Pretty switches from JSON lines to the human-readable console writer
	Pretty bool
	// Output defaults to os.Stdout
	Output io.Writer
}

// ParseLevel maps a configuration string onto a LogLevel, defaulting to info
func ParseLevel(level string) LogLevel {
	l := LogLevel(strings.ToLower(strings.TrimSpace(level)))
	if _, ok := levels[l]; ok {
		return l
	}
	return InfoLevel
}

// Configure installs the global logger and returns it
func Configure(config Config) zerolog.Logger {
	out := config.Output
	if out == nil {
		out = os.Stdout
	}
	if config.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(levels[ParseLevel(string(config.Level))])

	defaultLogger = zerolog.New(out).With().Timestamp().Logger()
	log.Logger = defaultLogger
	return defaultLogger
}

// Component returns a child logger tagged with the component name
func Component(name string) zerolog.Logger {
	return defaultLogger.With().Str("component", name).Logger()
}

// Debug starts a debug event on the global logger
func Debug() *zerolog.Event { return defaultLogger.Debug() }

// Info starts an info event on the global logger
func Info() *zerolog.Event { return defaultLogger.Info() }

// Warn starts a warning event on the global logger
func Warn() *zerolog.Event { return defaultLogger.Warn() }

// Error starts an error event on the global logger
func Error() *zerolog.Event { return defaultLogger.Error() }

func init() {
	Configure(Config{Level: InfoLevel, Pretty: true})
}
