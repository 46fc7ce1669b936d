package logger

import (
	"log/slog"
	"os"
)

// Logger is a thin wrapper over slog that stamps every record with the
// service name, hostname and an action tag so log lines from different
// terminals can be correlated.
type Logger struct {
	sl *slog.Logger
}

func New(service string) *Logger {
	hostname, _ := os.Hostname()

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})

	return &Logger{
		sl: slog.New(handler).With(
			slog.String("service", service),
			slog.String("hostname", hostname),
		),
	}
}

func (l *Logger) Debug(action, message string, args ...any) {
	l.sl.Debug(message, append([]any{slog.String("action", action)}, args...)...)
}

func (l *Logger) Info(action, message string, args ...any) {
	l.sl.Info(message, append([]any{slog.String("action", action)}, args...)...)
}

func (l *Logger) Warn(action, message string, args ...any) {
	l.sl.Warn(message, append([]any{slog.String("action", action)}, args...)...)
}

func (l *Logger) Error(action, message string, err error, args ...any) {
	attrs := []any{slog.String("action", action)}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	l.sl.Error(message, append(attrs, args...)...)
}
