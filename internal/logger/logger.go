package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds logging configuration.
type Config struct {
	Level string

	// FilePath enables a rotated log file when set.
	FilePath       string
	FileMaxSizeMB  int
	FileMaxBackups int
	FileMaxAgeDays int

	// Console writes to stderr as well. Turned off when the terminal is
	// owned by a full-screen UI.
	Console bool
}

var (
	logger *slog.Logger
	closer io.Closer
)

// Initialize sets up the package logger. It may be called again to replace it.
func Initialize(config Config) error {
	Close()

	level := parseLogLevel(config.Level)
	opts := &slog.HandlerOptions{Level: level}

	var writers []io.Writer
	if config.Console {
		writers = append(writers, os.Stderr)
	}
	if config.FilePath != "" {
		logFile := &lumberjack.Logger{
			Filename:   config.FilePath,
			MaxSize:    config.FileMaxSizeMB,
			MaxBackups: config.FileMaxBackups,
			MaxAge:     config.FileMaxAgeDays,
		}
		writers = append(writers, logFile)
		closer = logFile
	}

	switch len(writers) {
	case 0:
		logger = slog.New(slog.NewTextHandler(io.Discard, opts))
	case 1:
		logger = slog.New(slog.NewTextHandler(writers[0], opts))
	default:
		logger = slog.New(slog.NewTextHandler(io.MultiWriter(writers...), opts))
	}

	return nil
}

// Close flushes and closes the log file if one is open.
func Close() {
	if closer != nil {
		_ = closer.Close()
		closer = nil
	}
}

// parseLogLevel converts a string log level to slog.Level
func parseLogLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARNING", "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Debug logs a debug message
func Debug(msg string, args ...any) {
	if logger != nil {
		logger.Debug(msg, args...)
	}
}

// Info logs an info message
func Info(msg string, args ...any) {
	if logger != nil {
		logger.Info(msg, args...)
	}
}

// Infof logs a formatted info message
func Infof(format string, args ...any) {
	Info(fmt.Sprintf(format, args...))
}

// Warning logs a warning message
func Warning(msg string, args ...any) {
	if logger != nil {
		logger.Warn(msg, args...)
	}
}

// Warningf logs a formatted warning message
func Warningf(format string, args ...any) {
	Warning(fmt.Sprintf(format, args...))
}

// Error logs an error message
func Error(msg string, args ...any) {
	if logger != nil {
		logger.Error(msg, args...)
	}
}

// Errorf logs a formatted error message
func Errorf(format string, args ...any) {
	Error(fmt.Sprintf(format, args...))
}
