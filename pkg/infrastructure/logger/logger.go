// Package logger provides the leveled logger used by the pantry service,
// the event store and the CLI. Levels are off, normal (info, warn, error)
// and verbose (adds debug). A Logger is safe for concurrent use and a nil
// *Logger discards everything.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// Level controls how much the logger writes.
type Level int

const (
	LevelOff Level = iota
	LevelNormal
	LevelVerbose
)

// String returns the config name of the level.
func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelNormal:
		return "normal"
	case LevelVerbose:
		return "verbose"
	default:
		return "unknown"
	}
}

// ParseLevel maps a config value onto a Level. "info" and "debug" are
// accepted as aliases for normal and verbose.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "none", "quiet":
		return LevelOff, nil
	case "", "normal", "info":
		return LevelNormal, nil
	case "verbose", "debug":
		return LevelVerbose, nil
	default:
		return LevelNormal, fmt.Errorf("invalid log level: %s (expected off, normal or verbose)", s)
	}
}

// Logger writes prefixed lines per level.
type Logger struct {
	mu     sync.RWMutex
	level  Level
	debug  *log.Logger
	info   *log.Logger
	warn   *log.Logger
	errLog *log.Logger
}

// New creates a logger at level writing to out, or os.Stderr when out is nil.
func New(level Level, out io.Writer) *Logger {
	if out == nil {
		out = os.Stderr
	}

	flags := log.Ltime

	return &Logger{
		level:  level,
		debug:  log.New(out, "[DBG] ", flags),
		info:   log.New(out, "[INF] ", flags),
		warn:   log.New(out, "[WRN] ", flags),
		errLog: log.New(out, "[ERR] ", flags),
	}
}

// Discard returns a logger that writes nothing.
func Discard() *Logger {
	return New(LevelOff, io.Discard)
}

// SetLevel changes the level at runtime.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// Level returns the current level.
func (l *Logger) Level() Level {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.level
}

func (l *Logger) output(min Level, target *log.Logger, format string, args []any) {
	if l == nil {
		return
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.level >= min {
		target.Output(3, fmt.Sprintf(format, args...))
	}
}

// Debug logs at debug level, visible only when verbose.
func (l *Logger) Debug(format string, args ...any) {
	if l == nil {
		return
	}
	l.output(LevelVerbose, l.debug, format, args)
}

// Info logs at info level.
func (l *Logger) Info(format string, args ...any) {
	if l == nil {
		return
	}
	l.output(LevelNormal, l.info, format, args)
}

// Warn logs at warn level.
func (l *Logger) Warn(format string, args ...any) {
	if l == nil {
		return
	}
	l.output(LevelNormal, l.warn, format, args)
}

// Error logs at error level.
func (l *Logger) Error(format string, args ...any) {
	if l == nil {
		return
	}
	l.output(LevelNormal, l.errLog, format, args)
}
