// Package logging provides structured logging for gamedeals.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Config holds logging configuration.
type Config struct {
	Format string // "json" or "text"
	Level  string // "debug", "info", "warn", "error"
}

// DefaultConfig returns sensible logging defaults.
func DefaultConfig() Config {
	return Config{
		Format: "text",
		Level:  "info",
	}
}

var logger *slog.Logger

// Setup initializes the global logger with the given configuration.
func Setup(cfg Config) {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	logger = slog.New(handler)
	slog.SetDefault(logger)
}

var levelNames = map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

// parseLevel converts a string level to slog.Level, defaulting to info.
func parseLevel(level string) slog.Level {
	if l, ok := levelNames[strings.ToLower(level)]; ok {
		return l
	}
	return slog.LevelInfo
}

// Get returns the configured logger, or the default if not set up.
func Get() *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// Debug logs at debug level.
func Debug(msg string, args ...any) {
	Get().Debug(msg, args...)
}

// Info logs at info level.
func Info(msg string, args ...any) {
	Get().Info(msg, args...)
}

// Warn logs at warn level.
func Warn(msg string, args ...any) {
	Get().Warn(msg, args...)
}

// Error logs at error level.
func Error(msg string, args ...any) {
	Get().Error(msg, args...)
}
