// Package logger provides a structured, levelled logger built on log/slog.
//
// WithCtx returns the logger injected for the current request, already
// tagged with its request_id:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("user looked up", "screen_name", name)
//	// → time=... level=INFO msg="user looked up" request_id=a1b2c3d4 screen_name=foo
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/shashiranjanraj/lookup/config"
)

var L *slog.Logger

func init() {
	L = New(os.Stdout, config.AppEnv())
	slog.SetDefault(L)
}

// New builds a logger for env: JSON at INFO for production, text at DEBUG
// everywhere else.
func New(w io.Writer, env string) *slog.Logger {
	switch env {
	case "production", "prod":
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}

// ctxKey is the unexported key used to store a per-request *slog.Logger.
type ctxKey struct{}

// WithCtx returns the *slog.Logger stored in ctx by InjectLogger, or the
// base logger when there is none.
func WithCtx(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores a *slog.Logger (pre-tagged with request_id) into ctx.
// Called by the Logger middleware.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// Debug logs at DEBUG level.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs at INFO level.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs at WARN level.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs at ERROR level.
func Error(msg string, args ...any) { L.Error(msg, args...) }
