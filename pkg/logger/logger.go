// Package logger предоставляет логгер приложения поверх log/slog.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger — логгер, которым пользуются все слои приложения.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(err error, format string, args ...any)
}

// SlogLogger реализует Logger через slog с JSON-выводом.
type SlogLogger struct {
	log   *slog.Logger
	level *slog.LevelVar
}

// NewSlogLogger создаёт логгер уровня info, пишущий в stdout.
func NewSlogLogger() *SlogLogger {
	return newSlogLogger(os.Stdout)
}

// NewNopLogger создаёт логгер, который ничего не пишет.
func NewNopLogger() *SlogLogger {
	return newSlogLogger(io.Discard)
}

func newSlogLogger(w io.Writer) *SlogLogger {
	level := new(slog.LevelVar)
	level.Set(slog.LevelInfo)

	return &SlogLogger{
		log:   slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})),
		level: level,
	}
}

// SetLevel меняет уровень логирования: debug, info, warn, error.
func (l *SlogLogger) SetLevel(level string) error {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		l.level.Set(slog.LevelDebug)
	case "", "info":
		l.level.Set(slog.LevelInfo)
	case "warn", "warning":
		l.level.Set(slog.LevelWarn)
	case "error":
		l.level.Set(slog.LevelError)
	default:
		return fmt.Errorf("unknown log level %q", level)
	}

	return nil
}

func (l *SlogLogger) Debugf(format string, args ...any) {
	l.log.Debug(fmt.Sprintf(format, args...))
}

func (l *SlogLogger) Infof(format string, args ...any) {
	l.log.Info(fmt.Sprintf(format, args...))
}

func (l *SlogLogger) Warnf(format string, args ...any) {
	l.log.Warn(fmt.Sprintf(format, args...))
}

func (l *SlogLogger) Errorf(err error, format string, args ...any) {
	l.log.Error(fmt.Sprintf(format, args...), slog.Any("error", err))
}
