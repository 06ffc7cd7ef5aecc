package logger

import (
	"io"
	"log/slog"
	"time"

	"github.com/rs/zerolog"
)

// zerologLogger backs the console format: colored, human-readable lines for local development.
type zerologLogger struct {
	base zerolog.Logger
}

func newZerolog(output io.Writer, level slog.Level) Logger {
	writer := zerolog.ConsoleWriter{
		Out:        output,
		TimeFormat: time.RFC3339,
	}
	base := zerolog.New(writer).Level(toZerologLevel(level)).With().Timestamp().Logger()
	return &zerologLogger{base: base}
}

func (l *zerologLogger) Debug(message string, args ...any) {
	l.base.Debug().Fields(args).Msg(message)
}

func (l *zerologLogger) Info(message string, args ...any) {
	l.base.Info().Fields(args).Msg(message)
}

func (l *zerologLogger) Warn(message string, args ...any) {
	l.base.Warn().Fields(args).Msg(message)
}

func (l *zerologLogger) Error(message string, args ...any) {
	l.base.Error().Fields(args).Msg(message)
}

// Critical uses WithLevel so the process is not terminated.
func (l *zerologLogger) Critical(message string, args ...any) {
	l.base.WithLevel(zerolog.FatalLevel).Fields(args).Msg(message)
}

func (l *zerologLogger) BusinessError(message string, err error, args ...any) {
	if err == nil {
		return
	}
	l.base.Warn().Err(err).Fields(args).Msg(message)
}

func (l *zerologLogger) InternalError(message string, err error, args ...any) {
	if err == nil {
		return
	}
	l.base.Error().Err(err).Fields(args).Msg(message)
}

func (l *zerologLogger) With(args ...any) Logger {
	return &zerologLogger{base: l.base.With().Fields(args).Logger()}
}

func toZerologLevel(level slog.Level) zerolog.Level {
	switch {
	case level > LevelCritical:
		return zerolog.Disabled
	case level >= LevelCritical:
		return zerolog.FatalLevel
	case level >= slog.LevelError:
		return zerolog.ErrorLevel
	case level >= slog.LevelWarn:
		return zerolog.WarnLevel
	case level >= slog.LevelInfo:
		return zerolog.InfoLevel
	default:
		return zerolog.DebugLevel
	}
}
