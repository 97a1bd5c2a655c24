package logging

import (
	"fmt"
	"io"
	"log"
	"os"
)

// Logger wraps the standard library logger with structured logging methods
type Logger struct {
	logger *log.Logger
	debug  bool
}

// New creates a new Logger instance writing to stdout.
// level "debug" enables Debug output; every other value suppresses it.
func New(level string) *Logger {
	return NewWithWriter(os.Stdout, level)
}

// NewWithWriter is New with an explicit destination
func NewWithWriter(w io.Writer, level string) *Logger {
	return &Logger{
		logger: log.New(w, "", log.LstdFlags),
		debug:  level == "debug",
	}
}

// Discard returns a logger that drops everything, handy in tests
func Discard() *Logger {
	return NewWithWriter(io.Discard, "info")
}

// Debug logs a diagnostic message, only when debug logging is enabled
func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	if !l.debug {
		return
	}
	l.log("DEBUG", msg, keysAndValues...)
}

// Info logs an informational message with structured key-value pairs
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.log("INFO", msg, keysAndValues...)
}

// Warn logs a recoverable problem with structured key-value pairs
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.log("WARN", msg, keysAndValues...)
}

// Error logs an error message with structured key-value pairs
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.log("ERROR", msg, keysAndValues...)
}

// log formats and outputs a log message with key-value pairs
// keysAndValues should be pairs like: "key1", value1, "key2", value2
func (l *Logger) log(level, msg string, keysAndValues ...interface{}) {
	output := fmt.Sprintf("[%s] %s", level, msg)

	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 < len(keysAndValues) {
			output += fmt.Sprintf(" %v=%v", keysAndValues[i], keysAndValues[i+1])
		}
	}

	l.logger.Println(output)
}
