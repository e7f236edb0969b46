package mrcgo

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with mrcgo-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// This is the default for interpreters constructed without WithLogger.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithPath adds a file path field to the logger.
func (l *Logger) WithPath(path string) *Logger {
	return &Logger{
		Logger: l.Logger.With("path", path),
	}
}

// WithMode adds a mode field to the logger.
func (l *Logger) WithMode(mode Mode) *Logger {
	return &Logger{
		Logger: l.Logger.With("mode", int32(mode)),
	}
}

// LogWarning logs a permissive-mode recovery.
func (l *Logger) LogWarning(stage string, err error) {
	l.Warn("permissive recovery",
		"stage", stage,
		"error", err,
	)
}

// LogOpen logs the outcome of interpreting a stream.
func (l *Logger) LogOpen(mode Mode, nz, ny, nx int, err error) {
	if err != nil {
		l.Error("open failed",
			"error", err,
		)
	} else {
		l.Debug("open completed",
			"mode", int32(mode),
			"nz", nz,
			"ny", ny,
			"nx", nx,
		)
	}
}

// LogFlush logs the outcome of a flush.
func (l *Logger) LogFlush(bytes int64, err error) {
	if err != nil {
		l.Error("flush failed",
			"error", err,
		)
	} else {
		l.Debug("flush completed",
			"bytes", bytes,
		)
	}
}
