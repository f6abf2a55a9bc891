// Package debug provides opt-in structured logging using log/slog.
package debug

import (
	"log/slog"
	"os"
	"sync"
)

var (
	logger  *slog.Logger
	enabled bool
	mu      sync.RWMutex
)

func init() {
	Init(os.Getenv("GOQUENT_DEBUG") != "")
}

// Init configures the package logger. When enable is true, records at
// Debug level and above are written to os.Stderr; otherwise only the
// Warn/Error levels are emitted, so cast and execution warnings remain
// visible without enabling full query tracing.
func Init(enable bool) {
	mu.Lock()
	defer mu.Unlock()

	enabled = enable

	level := slog.LevelWarn
	if enable {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	logger = slog.New(handler)
}

// Enabled reports whether debug-level logging is active.
func Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// Debug logs a debug message.
func Debug(msg string, args ...any) {
	get().Debug(msg, args...)
}

// Info logs an info message.
func Info(msg string, args ...any) {
	get().Info(msg, args...)
}

// Warn logs a warning message.
func Warn(msg string, args ...any) {
	get().Warn(msg, args...)
}

// Error logs an error message.
func Error(msg string, args ...any) {
	get().Error(msg, args...)
}

// Logger returns the underlying slog.Logger.
func Logger() *slog.Logger {
	return get()
}

func get() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}
