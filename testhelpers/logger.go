package testhelpers

import (
	"fmt"
	"sync"
)

// LogRecorder captures log messages by level
type LogRecorder struct {
	mu     sync.Mutex
	Lines  []string
	Warns  []string
	Errors []string
}

func (l *LogRecorder) record(level string, format string, args ...interface{}) string {
	msg := fmt.Sprintf(format, args...)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Lines = append(l.Lines, level+": "+msg)
	return msg
}

// Debug records a debug message
func (l *LogRecorder) Debug(format string, args ...interface{}) {
	l.record("debug", format, args...)
}

// Info records an info message
func (l *LogRecorder) Info(format string, args ...interface{}) {
	l.record("info", format, args...)
}

// Warn records a warning
func (l *LogRecorder) Warn(format string, args ...interface{}) {
	msg := l.record("warn", format, args...)
	l.mu.Lock()
	l.Warns = append(l.Warns, msg)
	l.mu.Unlock()
}

// Error records an error
func (l *LogRecorder) Error(format string, args ...interface{}) {
	msg := l.record("error", format, args...)
	l.mu.Lock()
	l.Errors = append(l.Errors, msg)
	l.mu.Unlock()
}
