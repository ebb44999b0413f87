package logger

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// Severity orders log entries; entries below the logger's level are dropped.
type Severity int

const (
	Debug Severity = iota
	Info
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Debug:
		return "DEBUG"
	case Info:
		return "INFO"
	case Warning:
		return "WARNING"
	default:
		return "ERROR"
	}
}

// ParseSeverity maps a config value to a Severity, defaulting to Info.
func ParseSeverity(s string) Severity {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return Debug
	case "warn", "warning":
		return Warning
	case "error":
		return Error
	default:
		return Info
	}
}

type ctxKey struct{}

// Logger writes severity-prefixed lines through the standard log package.
type Logger struct {
	out   *log.Logger
	level Severity
}

func New(w io.Writer, level Severity) *Logger {
	return &Logger{
		out:   log.New(w, "", log.LstdFlags|log.Lshortfile),
		level: level,
	}
}

var defaultLogger = New(os.Stderr, Info)

// SetDefault replaces the logger returned by FromContext when none is stored.
func SetDefault(l *Logger) {
	if l != nil {
		defaultLogger = l
	}
}

// NewContext stores l in ctx.
func NewContext(ctx context.Context, l ILogger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the logger that was stored in context.
// If there isn't logger stored, returns the default logger.
func FromContext(ctx context.Context) ILogger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(ILogger); ok {
			return l
		}
	}

	return defaultLogger
}

// Static returns a Provider that always yields l.
func Static(l ILogger) Provider {
	return func(context.Context) ILogger { return l }
}

func (l *Logger) emit(s Severity, msg string) {
	if s < l.level {
		return
	}
	// depth 3: emit <- Infof <- caller
	_ = l.out.Output(3, s.String()+" "+msg)
}

func (l *Logger) Debug(v ...interface{})   { l.emit(Debug, fmt.Sprint(v...)) }
func (l *Logger) Info(v ...interface{})    { l.emit(Info, fmt.Sprint(v...)) }
func (l *Logger) Warning(v ...interface{}) { l.emit(Warning, fmt.Sprint(v...)) }
func (l *Logger) Error(v ...interface{})   { l.emit(Error, fmt.Sprint(v...)) }

func (l *Logger) Debugf(format string, v ...interface{}) {
	l.emit(Debug, fmt.Sprintf(format, v...))
}

func (l *Logger) Infof(format string, v ...interface{}) {
	l.emit(Info, fmt.Sprintf(format, v...))
}

func (l *Logger) Warningf(format string, v ...interface{}) {
	l.emit(Warning, fmt.Sprintf(format, v...))
}

func (l *Logger) Errorf(format string, v ...interface{}) {
	l.emit(Error, fmt.Sprintf(format, v...))
}
