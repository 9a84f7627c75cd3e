package manager

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"
)

// LogLevel represents the severity level of a log message.
type LogLevel int

const (
	// LogLevelDebug is for detailed debugging information.
	LogLevelDebug LogLevel = iota
	// LogLevelInfo is for general informational messages.
	LogLevelInfo
	// LogLevelWarn is for warning messages.
	LogLevelWarn
	// LogLevelError is for error messages.
	LogLevelError
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger provides leveled logging for the controller. A nil output
// discards everything, which is the default for library use.
type Logger struct {
	mu     sync.Mutex
	level  LogLevel
	output io.Writer
}

// NewLogger creates a logger writing to output at the given minimum
// level. A nil output disables logging.
func NewLogger(output io.Writer, level LogLevel) *Logger {
	return &Logger{level: level, output: output}
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, fields ...Field) { l.log(LogLevelDebug, msg, fields) }

// Info logs an informational message.
func (l *Logger) Info(msg string, fields ...Field) { l.log(LogLevelInfo, msg, fields) }

// Warn logs a warning message.
func (l *Logger) Warn(msg string, fields ...Field) { l.log(LogLevelWarn, msg, fields) }

// Error logs an error message.
func (l *Logger) Error(msg string, fields ...Field) { l.log(LogLevelError, msg, fields) }

// Field is a key/value pair attached to a log message.
type Field struct {
	Key   string
	Value any
}

// F creates a log field.
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

func (l *Logger) log(level LogLevel, msg string, fields []Field) {
	if l == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.output == nil || level < l.level {
		return
	}

	line := fmt.Sprintf("%s [%s] %s", time.Now().Format(time.RFC3339), level, msg)
	if len(fields) > 0 {
		sorted := append([]Field(nil), fields...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].Key < sorted[j].Key })
		for _, f := range sorted {
			line += fmt.Sprintf(" %s=%v", f.Key, f.Value)
		}
	}
	fmt.Fprintln(l.output, line)
}
