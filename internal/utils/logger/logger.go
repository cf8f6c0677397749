package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/fatih/color"
)

// Logger writes leveled, colorized console output tagged with the
// originating subsystem name.
type Logger struct {
	serviceName string
}

var levelEmoji = map[string]string{
	"INFO":    "ℹ️ ",
	"SUCCESS": "✅ ",
	"WARN":    "⚠️ ",
	"ERROR":   "❌ ",
	"DEBUG":   "🔍 ",
	"FATAL":   "💀 ",
}

func New(serviceName string) *Logger {
	return &Logger{
		serviceName: serviceName,
	}
}

func (l *Logger) formatMessage(level, msg string) string {
	_, file, line, _ := runtime.Caller(2)
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	fileName := filepath.Base(file)

	return fmt.Sprintf("%s | %s | %s | %s:%d | %s | %s",
		levelEmoji[level],
		timestamp,
		level,
		fileName,
		line,
		l.serviceName,
		msg,
	)
}

func (l *Logger) Info(msg string, args ...interface{}) {
	color.Cyan(l.formatMessage("INFO", fmt.Sprintf(msg, args...)))
}

func (l *Logger) Success(msg string, args ...interface{}) {
	color.Green(l.formatMessage("SUCCESS", fmt.Sprintf(msg, args...)))
}

func (l *Logger) Warn(msg string, args ...interface{}) {
	color.Yellow(l.formatMessage("WARN", fmt.Sprintf(msg, args...)))
}

// Error logs the message and returns it wrapped around err so callers can
// log and propagate in one statement.
func (l *Logger) Error(msg string, err error, args ...interface{}) error {
	formatted := fmt.Sprintf(msg, args...)
	color.Red(l.formatMessage("ERROR", fmt.Sprintf("%s: %v", formatted, err)))
	return fmt.Errorf("%s: %w", formatted, err)
}

func (l *Logger) Debug(msg string, args ...interface{}) {
	color.Magenta(l.formatMessage("DEBUG", fmt.Sprintf(msg, args...)))
}

// Fatal logs the message and exits the process.
func (l *Logger) Fatal(msg string, err error, args ...interface{}) {
	formatted := fmt.Sprintf(msg, args...)
	color.Red(l.formatMessage("FATAL", fmt.Sprintf("%s: %v", formatted, err)))
	os.Exit(1)
}
