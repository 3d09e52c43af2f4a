package logger

import (
	"log"
	"strings"
)

type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	ErrorLevel
)

func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

type Logger interface {
	Debug(format string, v ...interface{})
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// DefaultLogger writes through the standard log package.
type DefaultLogger struct {
	level  Level
	logger *log.Logger
}

func New(level Level) *DefaultLogger {
	return &DefaultLogger{level: level, logger: log.Default()}
}

func (l *DefaultLogger) Debug(format string, v ...interface{}) {
	if l.level <= DebugLevel {
		l.logger.Printf("[DEBUG] "+format, v...)
	}
}

func (l *DefaultLogger) Info(format string, v ...interface{}) {
	if l.level <= InfoLevel {
		l.logger.Printf("[INFO] "+format, v...)
	}
}

func (l *DefaultLogger) Error(format string, v ...interface{}) {
	if l.level <= ErrorLevel {
		l.logger.Printf("[ERROR] "+format, v...)
	}
}

type nop struct{}

// Nop discards everything. Handy in tests.
func Nop() Logger { return nop{} }

func (nop) Debug(string, ...interface{}) {}
func (nop) Info(string, ...interface{})  {}
func (nop) Error(string, ...interface{}) {}
