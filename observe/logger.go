package observe

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"
)

// LogLevel represents a logging level.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLogLevel parses a string log level, defaulting to info.
func ParseLogLevel(s string) LogLevel {
	switch s {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// structuredLogger is a JSON structured logger implementation.
type structuredLogger struct {
	level     LogLevel
	writer    io.Writer
	mu        *sync.Mutex
	baseAttrs map[string]any
}

// NewLogger creates a new structured logger writing to stderr.
func NewLogger(level string) Logger {
	return NewLoggerWithWriter(level, os.Stderr)
}

// NewLoggerWithWriter creates a new structured logger with a custom writer.
func NewLoggerWithWriter(level string, w io.Writer) Logger {
	return &structuredLogger{
		level:     ParseLogLevel(level),
		writer:    w,
		mu:        &sync.Mutex{},
		baseAttrs: make(map[string]any),
	}
}

// WithRequest returns a logger with request context attached.
func (l *structuredLogger) WithRequest(meta RequestMeta) Logger {
	attrs := make(map[string]any, len(l.baseAttrs)+3)
	for k, v := range l.baseAttrs {
		attrs[k] = v
	}
	if meta.RequestID != "" {
		attrs["request_id"] = meta.RequestID
	}
	attrs["method"] = meta.Method
	attrs["route"] = meta.Route

	return &structuredLogger{
		level:     l.level,
		writer:    l.writer,
		mu:        l.mu,
		baseAttrs: attrs,
	}
}

func (l *structuredLogger) Info(ctx context.Context, msg string, fields ...Field) {
	l.log(LevelInfo, msg, fields)
}

func (l *structuredLogger) Warn(ctx context.Context, msg string, fields ...Field) {
	l.log(LevelWarn, msg, fields)
}

func (l *structuredLogger) Error(ctx context.Context, msg string, fields ...Field) {
	l.log(LevelError, msg, fields)
}

func (l *structuredLogger) Debug(ctx context.Context, msg string, fields ...Field) {
	l.log(LevelDebug, msg, fields)
}

func (l *structuredLogger) log(level LogLevel, msg string, fields []Field) {
	if level < l.level {
		return
	}

	entry := make(map[string]any, len(l.baseAttrs)+len(fields)+3)
	entry["timestamp"] = time.Now().UTC().Format(time.RFC3339Nano)
	entry["level"] = level.String()
	entry["msg"] = msg

	for k, v := range l.baseAttrs {
		entry[k] = v
	}
	for _, f := range fields {
		if isRedactedField(f.Key) {
			entry[f.Key] = "[REDACTED]"
		} else {
			entry[f.Key] = f.Value
		}
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return // Silently drop malformed log entries
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.writer.Write(data)
	_, _ = l.writer.Write([]byte("\n"))
}

var redactedKeys = func() map[string]bool {
	m := make(map[string]bool, len(RedactedFields))
	for _, k := range RedactedFields {
		m[k] = true
	}
	return m
}()

// isRedactedField returns true if the field should be redacted.
func isRedactedField(key string) bool {
	return redactedKeys[key]
}

// Ensure structuredLogger implements Logger
var _ Logger = (*structuredLogger)(nil)
