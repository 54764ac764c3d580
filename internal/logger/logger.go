// Package logger provides structured JSON logging and timing metrics for the
// neutrino-alerts pipeline.
//
// The logger supports multiple log levels (DEBUG, INFO, WARN, ERROR) and
// writes one JSON object per line. Base fields attached at construction time
// (the run ID, for example) appear on every entry. The metrics tracker keeps
// counters and phase timings for a single run.
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Level represents log severity.
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

var levelRank = map[Level]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// Fields represents structured log fields.
type Fields map[string]interface{}

// Logger writes structured log entries.
type Logger struct {
	mu       sync.Mutex
	minLevel Level
	output   io.Writer
	base     Fields
}

// LogEntry is the wire shape of a single entry.
type LogEntry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Message   string `json:"message"`
	Fields    Fields `json:"fields,omitempty"`
	Error     string `json:"error,omitempty"`
}

var defaultLogger = New(LevelInfo, os.Stderr, nil)

// New creates a logger. Messages below level are discarded; base fields are
// merged into every entry.
func New(level Level, output io.Writer, base Fields) *Logger {
	return &Logger{
		minLevel: level,
		output:   output,
		base:     base,
	}
}

// SetDefault replaces the package-level logger used by the convenience
// functions, centralizing configuration in main.
func SetDefault(l *Logger) {
	defaultLogger = l
}

func (l *Logger) log(level Level, message string, fields Fields, err error) {
	if levelRank[level] < levelRank[l.minLevel] {
		return
	}

	merged := fields
	if len(l.base) > 0 {
		merged = make(Fields, len(l.base)+len(fields))
		for k, v := range l.base {
			merged[k] = v
		}
		for k, v := range fields {
			merged[k] = v
		}
	}

	entry := LogEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     string(level),
		Message:   message,
		Fields:    merged,
	}
	if err != nil {
		entry.Error = err.Error()
	}

	data, marshalErr := json.Marshal(entry)

	l.mu.Lock()
	defer l.mu.Unlock()
	if marshalErr != nil {
		fmt.Fprintf(l.output, "[%s] %s: %s (marshal error: %v)\n",
			entry.Timestamp, entry.Level, entry.Message, marshalErr)
		return
	}
	fmt.Fprintln(l.output, string(data))
}

// Debug logs a debug message with optional structured fields.
func (l *Logger) Debug(message string, fields Fields) { l.log(LevelDebug, message, fields, nil) }

// Info logs an informational message with optional structured fields.
func (l *Logger) Info(message string, fields Fields) { l.log(LevelInfo, message, fields, nil) }

// Warn logs a warning message with optional structured fields.
func (l *Logger) Warn(message string, fields Fields) { l.log(LevelWarn, message, fields, nil) }

// Error logs an error message with optional fields and an error object.
func (l *Logger) Error(message string, fields Fields, err error) {
	l.log(LevelError, message, fields, err)
}

// Package-level convenience functions using the default logger.

func Debug(message string, fields Fields) { defaultLogger.Debug(message, fields) }

func Info(message string, fields Fields) { defaultLogger.Info(message, fields) }

func Warn(message string, fields Fields) { defaultLogger.Warn(message, fields) }
func Error(message string, fields Fields, err error) {
	defaultLogger.Error(message, fields, err)
}
