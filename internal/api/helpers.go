package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
)

type ResponseError struct {
	Message string `json:"message"`
}

type ResponseMessage struct {
	Message string `json:"message"`
}

// SendErr logs the origin error and answers with a JSON message that does not expose it.
func SendErr(ctx context.Context, w http.ResponseWriter, code int, err error, msg string) {
	logErr(ctx, code, err)
	SendJSON(ctx, w, code, ResponseError{Message: msg})
}

// SendTextErr is SendErr with a plain text body.
func SendTextErr(ctx context.Context, w http.ResponseWriter, code int, err error, msg string) {
	logErr(ctx, code, err)
	SendText(w, code, msg)
}

// logErr logs client errors at warn so they do not reach Sentry as issues.
func logErr(ctx context.Context, code int, err error) {
	level := slog.LevelError
	if code < http.StatusInternalServerError {
		level = slog.LevelWarn
	}

	slog.Log(ctx, level, "api error", "error", err, "code", code)
}

func SendJSON(ctx context.Context, w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		slog.ErrorContext(ctx, "encode response", "error", err)
	}
}

func SendText(w http.ResponseWriter, code int, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(text))
}
