// internal/pkg/logger/logger.go
package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

// ContextKey represents keys for context values carried into log records.
type ContextKey string

const (
	ContextKeyRequestID ContextKey = "request_id"
	ContextKeyClientIP  ContextKey = "client_ip"
	ContextKeyMethod    ContextKey = "method"
	ContextKeyPath      ContextKey = "path"
)

// contextKeys are the values the handler lifts out of the request context.
var contextKeys = []ContextKey{
	ContextKeyRequestID,
	ContextKeyClientIP,
	ContextKeyMethod,
	ContextKeyPath,
}

// SetupLogger initializes the process-wide slog logger and returns it.
func SetupLogger(level string, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     parseLevel(level),
		AddSource: parseLevel(level) == slog.LevelDebug,
	}

	var handler slog.Handler
	if strings.EqualFold(format, "text") {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	logger := slog.New(&contextHandler{Handler: handler})
	slog.SetDefault(logger)

	return logger
}

// WithValue stores a loggable value on the context.
func WithValue(ctx context.Context, key ContextKey, value string) context.Context {
	return context.WithValue(ctx, key, value)
}

// RequestID returns the request id carried on the context, if any.
func RequestID(ctx context.Context) string {
	if v, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return v
	}
	return ""
}

// contextHandler enriches every record with the request-scoped attributes
// present on the context.
type contextHandler struct {
	slog.Handler
}

func (h *contextHandler) Handle(ctx context.Context, record slog.Record) error {
	for _, key := range contextKeys {
		if v, ok := ctx.Value(key).(string); ok && v != "" {
			record.AddAttrs(slog.String(string(key), v))
		}
	}
	return h.Handler.Handle(ctx, record)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithGroup(name)}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
