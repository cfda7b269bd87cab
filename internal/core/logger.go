package core

import (
	"context"
	"io"
	"log/slog"

	"fangindex/internal/types"
)

// slogAdapter wraps *slog.Logger to implement types.Logger. slog.Logger has
// Info, Warn and Error already but its With returns *slog.Logger.
type slogAdapter struct {
	logger *slog.Logger
}

// NewLogger adapts logger to types.Logger. A nil logger uses slog.Default.
func NewLogger(logger *slog.Logger) types.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &slogAdapter{logger: logger}
}

func (a *slogAdapter) Info(msg string, args ...any)  { a.logger.Info(msg, args...) }
func (a *slogAdapter) Error(msg string, args ...any) { a.logger.Error(msg, args...) }
func (a *slogAdapter) Warn(msg string, args ...any)  { a.logger.Warn(msg, args...) }
func (a *slogAdapter) With(args ...any) types.Logger {
	return &slogAdapter{logger: a.logger.With(args...)}
}

// NewJSONLogger builds the process logger: JSON lines to w at the given level
// ("debug", "info", "warn", "error"; anything else is info).
func NewJSONLogger(level string, w io.Writer) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// requestLogger returns the request-scoped logger, or the default logger
// when RequestIDMiddleware did not run.
func requestLogger(ctx context.Context) types.Logger {
	if l := types.LoggerFromContext(ctx); l != nil {
		return l
	}
	return NewLogger(nil)
}
