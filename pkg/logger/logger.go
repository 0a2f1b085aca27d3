package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
)

type ctxKey int8

const (
	ctxKeyRequestID ctxKey = iota
)

// Handler adds request scoped attributes from the context to every record.
type Handler struct {
	slog.Handler
}

func (h *Handler) Handle(ctx context.Context, record slog.Record) error {
	if v, ok := ctx.Value(ctxKeyRequestID).(string); ok {
		record.Add("request_id", v)
	}

	return h.Handler.Handle(ctx, record)
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{h.Handler.WithAttrs(attrs)}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{h.Handler.WithGroup(name)}
}

type SentryConfig struct {
	DSN         string
	Environment string
}

// New builds the process logger and installs it as the slog default.
// Records go to stdout as JSON; with a Sentry DSN errors are also reported to Sentry.
func New(level string, sentryCfg SentryConfig) (*slog.Logger, error) {
	var sLevel slog.Level

	err := sLevel.UnmarshalText([]byte(level))
	if err != nil {
		return nil, err
	}

	var h slog.Handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: sLevel,
	})

	if sentryCfg.DSN != "" {
		sh, err := newSentryHandler(sentryCfg)
		if err != nil {
			return nil, fmt.Errorf("init sentry: %w", err)
		}

		h = newMultiHandler(h, sh)
	}

	l := slog.New(&Handler{h})

	slog.SetDefault(l)

	return l, nil
}

// Flush waits for buffered Sentry events. It is a no-op without Sentry.
func Flush(timeout time.Duration) {
	sentry.Flush(timeout)
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, requestID)
}

func RequestIDFromCtx(ctx context.Context) string {
	requestID, ok := ctx.Value(ctxKeyRequestID).(string)
	if !ok {
		return ""
	}

	return requestID
}
