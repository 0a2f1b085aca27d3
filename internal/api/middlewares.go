package api

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/gofrs/uuid/v5"

	"github.com/samandr77/microservices/formrelay/pkg/logger"
)

var skipLogging = map[string]struct{}{
	"/health": {},
}

type Middleware struct {
	log *slog.Logger
}

func NewMiddleware(log *slog.Logger) *Middleware {
	return &Middleware{
		log: log,
	}
}

// Log tags the request with an id taken from X-Request-Id or generated, and
// logs the request and its outcome.
func (m *Middleware) Log(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-Id")
		if requestID == "" {
			requestID = uuid.Must(uuid.NewV4()).String()
		}

		ctx := logger.WithRequestID(r.Context(), requestID)
		w.Header().Set("X-Request-Id", requestID)

		if _, ok := skipLogging[r.URL.Path]; ok {
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		m.log.InfoContext(ctx, "incoming request", "method", r.Method, "url", r.URL.Redacted(), "from", r.RemoteAddr)

		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r.WithContext(ctx))

		m.log.InfoContext(ctx, "request completed",
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).String(),
		)
	})
}

func (m *Middleware) Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			if rec == http.ErrAbortHandler { //nolint:errorlint,err113
				panic(rec)
			}

			m.log.ErrorContext(ctx, "panic", "error", rec, "stack", string(debug.Stack()))
			SendJSON(ctx, w, http.StatusInternalServerError, ResponseError{Message: "Internal server error."})
		}()

		next.ServeHTTP(w, r)
	})
}

// DefaultMaxBodyBytes is the body limit used when none is configured.
const DefaultMaxBodyBytes = 10 << 20

// BodyLimit caps the request body at n bytes.
func BodyLimit(n int64) func(http.Handler) http.Handler {
	if n <= 0 {
		n = DefaultMaxBodyBytes
	}

	return middleware.RequestSize(n)
}
