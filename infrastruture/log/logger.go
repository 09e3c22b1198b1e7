// Package log provides a coloured, prefixed logger used across the service.
package log

import (
	"errors"
	"io"
	"log"
	"strings"
)

const colorReset = "\033[0m"

var ErrEmptyPrefix = errors.New("logger prefix must not be empty")

// Logger writes lines as "[PREFIX] [LEVEL] message".
type Logger struct {
	out *log.Logger
}

// New creates a Logger writing to w. The prefix is upper-cased and
// wrapped in color; color may be empty.
func New(prefix, color string, w io.Writer) (*Logger, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return nil, ErrEmptyPrefix
	}

	tag := "[" + strings.ToUpper(prefix) + "] "
	if color != "" {
		tag = color + tag + colorReset
	}
	return &Logger{out: log.New(w, tag, log.LstdFlags)}, nil
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.out.Println("[INFO] " + msg)
}

// Warning logs a recoverable problem.
func (l *Logger) Warning(msg string) {
	l.out.Println("[WARNING] " + msg)
}

// Error logs a failure.
func (l *Logger) Error(msg string) {
	l.out.Println("[ERROR] " + msg)
}
