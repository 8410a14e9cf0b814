package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
)

type contextKey struct{}

var loggerKey = contextKey{}

// Level resolves the CLI verbosity flags to a slog level.
func Level(debug, verbose bool) slog.Level {
	switch {
	case debug:
		return slog.LevelDebug
	case verbose:
		return slog.LevelInfo
	default:
		return slog.LevelWarn
	}
}

// Initialize installs the human-friendly handler on stderr as the default logger.
func Initialize(debug, verbose bool) {
	slog.SetDefault(New(os.Stderr, debug, verbose))
}

// InitializeJSON installs a JSON handler, used when running as a server.
func InitializeJSON(w io.Writer, debug, verbose bool) {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     Level(debug, verbose),
		AddSource: debug,
	})
	slog.SetDefault(slog.New(handler))
}

// New builds a logger writing through PrettyHandler.
func New(w io.Writer, debug, verbose bool) *slog.Logger {
	return slog.New(NewPrettyHandler(w, &slog.HandlerOptions{
		Level:     Level(debug, verbose),
		AddSource: debug,
	}))
}

func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

func With(ctx context.Context, args ...any) context.Context {
	l := FromContext(ctx).With(args...)
	return WithLogger(ctx, l)
}

func Debug(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Debug(msg, args...)
}

func Info(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Info(msg, args...)
}

func Warn(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Warn(msg, args...)
}

func Error(ctx context.Context, msg string, err error, args ...any) {
	if err != nil {
		args = append(args, slog.Any("error", err))
	}
	FromContext(ctx).Error(msg, args...)
}
