package logger

import (
	"sync"
)

// Log levels accepted by log.level.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

var (
	// globalLogger holds the singleton logger instance.
	globalLogger *Logger
	once         sync.Once
)

// Get returns the process logger. The first call fixes the level; later
// calls return the same instance.
func Get(level string) *Logger {
	once.Do(func() {
		globalLogger = newZapLogger(level)
	})
	return globalLogger
}

// Nop returns a logger that discards everything. Used by tests and as the
// fallback for components constructed without one.
func Nop() *Logger {
	return newNopLogger()
}
