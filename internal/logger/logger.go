package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

// Level represents log severity
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

// String returns the string representation of the log level
func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a string to a Level, defaulting to INFO
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return DEBUG
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}

// Field is a key-value pair attached to a log entry
type Field struct {
	Key   string
	Value interface{}
}

// F is a shorthand for creating a Field
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Config holds logger configuration
type Config struct {
	Level      Level
	FilePath   string // empty disables the file sink
	MaxSize    int64  // bytes before rotation
	MaxAge     int    // days before rotation
	MaxBackups int
	Console    bool      // mirror entries to Output
	Output     io.Writer // console sink, os.Stderr when nil
}

// DefaultConfig returns the default logger configuration
func DefaultConfig() Config {
	logPath := ""
	if home, err := os.UserHomeDir(); err == nil {
		logPath = filepath.Join(home, ".lifelist", "logs", "lifelist.log")
	}

	return Config{
		Level:      INFO,
		FilePath:   logPath,
		MaxSize:    10 * 1024 * 1024, // 10MB
		MaxAge:     7,
		MaxBackups: 5,
		Console:    false, // keeps the TUI clean
	}
}

// sink owns the open file and is shared by loggers derived with WithFields
type sink struct {
	mu      sync.Mutex
	config  Config
	file    *os.File
	writers []io.Writer
}

// Logger writes leveled entries with structured fields. A nil *Logger discards everything.
type Logger struct {
	sink   *sink
	fields []Field
}

var (
	globalLogger *Logger
	once         sync.Once
)

// Init initializes the global logger
func Init(config Config) error {
	var err error
	once.Do(func() {
		globalLogger, err = New(config)
	})
	return err
}

// New creates a new logger instance
func New(config Config) (*Logger, error) {
	if config.MaxSize <= 0 {
		config.MaxSize = 10 * 1024 * 1024
	}
	if config.MaxBackups <= 0 {
		config.MaxBackups = 1
	}

	s := &sink{config: config}
	if config.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(config.FilePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		if err := s.open(); err != nil {
			return nil, err
		}
		if err := s.rotateIfNeeded(); err != nil {
			return nil, err
		}
	}
	s.resetWriters()

	return &Logger{sink: s}, nil
}

// Discard returns a logger that drops every entry
func Discard() *Logger {
	return &Logger{sink: &sink{config: Config{Level: ERROR + 1}}}
}

func (s *sink) open() error {
	file, err := os.OpenFile(s.config.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	s.file = file
	return nil
}

func (s *sink) resetWriters() {
	s.writers = s.writers[:0]
	if s.file != nil {
		s.writers = append(s.writers, s.file)
	}
	if s.config.Console {
		out := s.config.Output
		if out == nil {
			out = os.Stderr
		}
		s.writers = append(s.writers, out)
	}
}

// rotateIfNeeded rotates by size or age. Caller holds mu (or is the constructor).
func (s *sink) rotateIfNeeded() error {
	if s.file == nil {
		return nil
	}

	info, err := s.file.Stat()
	if err != nil {
		return err
	}

	tooOld := s.config.MaxAge > 0 && info.Size() > 0 &&
		time.Since(info.ModTime()) > time.Duration(s.config.MaxAge)*24*time.Hour
	if info.Size() >= s.config.MaxSize || tooOld {
		return s.rotate()
	}
	return nil
}

func (s *sink) rotate() error {
	_ = s.file.Close()

	for i := s.config.MaxBackups - 1; i >= 1; i-- {
		_ = os.Rename(fmt.Sprintf("%s.%d", s.config.FilePath, i), fmt.Sprintf("%s.%d", s.config.FilePath, i+1))
	}
	if _, err := os.Stat(s.config.FilePath); err == nil {
		if err := os.Rename(s.config.FilePath, s.config.FilePath+".1"); err != nil {
			return err
		}
	}

	if err := s.open(); err != nil {
		return err
	}
	s.resetWriters()
	return nil
}

func (l *Logger) log(level Level, msg string, fields []Field) {
	if l == nil || l.sink == nil || level < l.sink.config.Level {
		return
	}

	caller := "???"
	if _, file, line, ok := runtime.Caller(2); ok {
		caller = fmt.Sprintf("%s:%d", filepath.Base(file), line)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s %s: %s", time.Now().Format("2006-01-02 15:04:05.000"), level, caller, msg)
	if len(l.fields)+len(fields) > 0 {
		b.WriteString(" |")
		for _, f := range l.fields {
			fmt.Fprintf(&b, " %s=%v", f.Key, f.Value)
		}
		for _, f := range fields {
			fmt.Fprintf(&b, " %s=%v", f.Key, f.Value)
		}
	}
	b.WriteByte('\n')

	s := l.sink
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.rotateIfNeeded()
	for _, w := range s.writers {
		_, _ = io.WriteString(w, b.String())
	}
}

// WithFields returns a logger that prepends fields to every entry
func (l *Logger) WithFields(fields ...Field) *Logger {
	if l == nil {
		return nil
	}
	merged := make([]Field, 0, len(l.fields)+len(fields))
	merged = append(merged, l.fields...)
	merged = append(merged, fields...)
	return &Logger{sink: l.sink, fields: merged}
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, fields ...Field) { l.log(DEBUG, msg, fields) }

// Info logs an info message
func (l *Logger) Info(msg string, fields ...Field) { l.log(INFO, msg, fields) }

// Warn logs a warning message
func (l *Logger) Warn(msg string, fields ...Field) { l.log(WARN, msg, fields) }

// Error logs an error message
func (l *Logger) Error(msg string, fields ...Field) { l.log(ERROR, msg, fields) }

// Close closes the log file
func (l *Logger) Close() error {
	if l == nil || l.sink == nil {
		return nil
	}
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	if l.sink.file != nil {
		err := l.sink.file.Close()
		l.sink.file = nil
		l.sink.resetWriters()
		return err
	}
	return nil
}

// Global logger functions

// Default returns the global logger, or nil before Init
func Default() *Logger {
	return globalLogger
}

// Debug logs a debug message using the global logger
func Debug(msg string, fields ...Field) { globalLogger.log(DEBUG, msg, fields) }

// Info logs an info message using the global logger
func Info(msg string, fields ...Field) { globalLogger.log(INFO, msg, fields) }

// Warn logs a warning message using the global logger
func Warn(msg string, fields ...Field) { globalLogger.log(WARN, msg, fields) }

// Error logs an error message using the global logger
func Error(msg string, fields ...Field) { globalLogger.log(ERROR, msg, fields) }

// WithFields derives from the global logger
func WithFields(fields ...Field) *Logger {
	return globalLogger.WithFields(fields...)
}

// Close closes the global logger
func Close() error {
	return globalLogger.Close()
}
