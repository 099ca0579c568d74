package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"sync"
	"time"
)

const (
	// LogFilePermissions is the default file permissions for log files (rw-------)
	LogFilePermissions = 0o600

	consoleTimeFormat = "02.01.2006 15:04:05"
)

// SlogLogger implements Logger interface using Go's standard log/slog
type SlogLogger struct {
	handler  slog.Handler
	level    slog.Level
	module   string
	timezone *time.Location
	fields   []Field
	logFile  *os.File
	mu       *sync.Mutex // shared by derived loggers, protects logFile
}

// NewSlogLogger creates a new slog-based logger with JSON output
func NewSlogLogger(writer io.Writer, level LogLevel, timezone *time.Location) *SlogLogger {
	if writer == nil {
		writer = os.Stdout
	}
	if timezone == nil {
		timezone = time.UTC
	}

	opts := &slog.HandlerOptions{
		Level:       parseSlogLevel(level),
		ReplaceAttr: timeInZone(timezone, time.RFC3339),
	}

	return &SlogLogger{
		handler:  slog.NewJSONHandler(writer, opts),
		level:    parseSlogLevel(level),
		timezone: timezone,
		mu:       &sync.Mutex{},
	}
}

// NewConsoleLogger creates a console logger with human-readable text format.
func NewConsoleLogger(module string, level LogLevel) *SlogLogger {
	return NewTextLogger(os.Stderr, module, level)
}

// NewTextLogger creates a text logger over any writer.
func NewTextLogger(writer io.Writer, module string, level LogLevel) *SlogLogger {
	tz := time.Local
	opts := &slog.HandlerOptions{
		Level:       parseSlogLevel(level),
		ReplaceAttr: timeInZone(tz, consoleTimeFormat),
	}

	return &SlogLogger{
		handler:  slog.NewTextHandler(writer, opts),
		level:    parseSlogLevel(level),
		module:   module,
		timezone: tz,
		mu:       &sync.Mutex{},
	}
}

// NewSlogLoggerWithFile creates a new slog-based logger appending JSON to filePath
func NewSlogLoggerWithFile(filePath string, level LogLevel, timezone *time.Location) (*SlogLogger, error) {
	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, LogFilePermissions)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", filePath, err)
	}

	l := NewSlogLogger(file, level, timezone)
	l.logFile = file
	return l, nil
}

// Discard returns a logger that drops everything.
func Discard() *SlogLogger {
	return NewSlogLogger(io.Discard, LogLevelError, time.UTC)
}

// OrDiscard returns l, or a discarding logger when l is nil.
func OrDiscard(l Logger) Logger {
	if l == nil {
		return Discard()
	}
	return l
}

// Module returns a logger scoped to a specific module
func (l *SlogLogger) Module(name string) Logger {
	moduleName := name
	if l.module != "" {
		moduleName = l.module + "." + name
	}

	derived := l.clone()
	derived.module = moduleName
	return derived
}

// Debug logs a debug message
func (l *SlogLogger) Debug(msg string, fields ...Field) {
	l.log(slog.LevelDebug, msg, fields...)
}

// Info logs an info message
func (l *SlogLogger) Info(msg string, fields ...Field) {
	l.log(slog.LevelInfo, msg, fields...)
}

// Warn logs a warning message
func (l *SlogLogger) Warn(msg string, fields ...Field) {
	l.log(slog.LevelWarn, msg, fields...)
}

// Error logs an error message
func (l *SlogLogger) Error(msg string, fields ...Field) {
	l.log(slog.LevelError, msg, fields...)
}

// With returns a new logger with accumulated fields
func (l *SlogLogger) With(fields ...Field) Logger {
	derived := l.clone()
	derived.fields = slices.Concat(l.fields, fields)
	return derived
}

// Flush syncs the log file if the logger writes to one
func (l *SlogLogger) Flush() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.logFile != nil {
		if err := l.logFile.Sync(); err != nil {
			return fmt.Errorf("failed to sync log file: %w", err)
		}
	}
	return nil
}

// Close closes the log file if open
func (l *SlogLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.logFile != nil {
		if err := l.logFile.Close(); err != nil {
			return fmt.Errorf("failed to close log file: %w", err)
		}
		l.logFile = nil
	}
	return nil
}

func (l *SlogLogger) clone() *SlogLogger {
	return &SlogLogger{
		handler:  l.handler,
		level:    l.level,
		module:   l.module,
		timezone: l.timezone,
		fields:   l.fields,
		logFile:  l.logFile,
		mu:       l.mu,
	}
}

func (l *SlogLogger) log(level slog.Level, msg string, fields ...Field) {
	if l == nil || level < l.level {
		return
	}

	attrs := make([]slog.Attr, 0, len(l.fields)+len(fields)+1)
	if l.module != "" {
		attrs = append(attrs, slog.String("module", l.module))
	}
	for _, f := range l.fields {
		attrs = append(attrs, fieldToAttr(f))
	}
	for _, f := range fields {
		attrs = append(attrs, fieldToAttr(f))
	}

	slog.New(l.handler).LogAttrs(context.Background(), level, msg, attrs...)
}

// fieldToAttr converts Field to slog.Attr
func fieldToAttr(f Field) slog.Attr {
	switch v := f.Value.(type) {
	case string:
		return slog.String(f.Key, v)
	case int:
		return slog.Int(f.Key, v)
	case int64:
		return slog.Int64(f.Key, v)
	case float64:
		return slog.Float64(f.Key, v)
	case bool:
		return slog.Bool(f.Key, v)
	case time.Time:
		return slog.Time(f.Key, v)
	default:
		return slog.Any(f.Key, v)
	}
}

// timeInZone renders the record time in tz with the given layout
func timeInZone(tz *time.Location, layout string) func([]string, slog.Attr) slog.Attr {
	return func(groups []string, a slog.Attr) slog.Attr {
		if len(groups) == 0 && a.Key == slog.TimeKey && a.Value.Kind() == slog.KindTime {
			return slog.String(slog.TimeKey, a.Value.Time().In(tz).Format(layout))
		}
		return a
	}
}

// parseSlogLevel converts LogLevel to slog.Level
func parseSlogLevel(level LogLevel) slog.Level {
	switch level {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelInfo:
		return slog.LevelInfo
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
