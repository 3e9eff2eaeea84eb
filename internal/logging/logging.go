// Package logging provides a leveled logger on top of zerolog.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Level represents log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l Level) zerolog() zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelInfo:
		return zerolog.InfoLevel
	case LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

// ParseLevel parses a log level string. Unknown input selects LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// TimeFormat is the timestamp layout of every log line.
const TimeFormat = "15:04:05.000"

// sink is the output and threshold shared by a logger and everything
// derived from it with With.
type sink struct {
	mu    sync.Mutex
	level Level
	out   io.Writer
}

func (s *sink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.out.Write(p)
}

func (s *sink) enabled(level Level) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return level >= s.level
}

// Logger is a leveled printf-style logger.
type Logger struct {
	sink *sink
	zl   zerolog.Logger
}

// New creates a logger writing to stderr.
func New(level Level) *Logger {
	return newLogger(&sink{level: level, out: os.Stderr})
}

func newLogger(s *sink) *Logger {
	cw := zerolog.ConsoleWriter{
		Out:        s,
		NoColor:    true,
		TimeFormat: TimeFormat,
	}
	return &Logger{
		sink: s,
		zl:   zerolog.New(cw).With().Timestamp().Logger(),
	}
}

// SetOutput sets the log output destination for this logger and every
// logger derived from it.
func (l *Logger) SetOutput(w io.Writer) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.out = w
}

// SetLevel sets the minimum log level.
func (l *Logger) SetLevel(level Level) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.level = level
}

// With returns a logger that adds key=value to every line.
func (l *Logger) With(key string, value interface{}) *Logger {
	return &Logger{
		sink: l.sink,
		zl:   l.zl.With().Interface(key, value).Logger(),
	}
}

func (l *Logger) log(level Level, format string, args ...interface{}) {
	if !l.sink.enabled(level) {
		return
	}
	l.zl.WithLevel(level.zerolog()).Msg(fmt.Sprintf(format, args...))
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(LevelDebug, format, args...)
}

// Info logs an info message.
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(LevelInfo, format, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(LevelWarn, format, args...)
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(LevelError, format, args...)
}

// Discard returns a logger that discards all output.
func Discard() *Logger {
	return newLogger(&sink{
		level: LevelError + 1, // Higher than any level
		out:   io.Discard,
	})
}
