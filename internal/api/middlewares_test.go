package api_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/samandr77/microservices/formrelay/internal/api"
)

func TestMiddleware_Recover(t *testing.T) {
	t.Parallel()

	buf := new(bytes.Buffer)
	mw := api.NewMiddleware(slog.New(slog.NewJSONHandler(buf, nil)))

	h := mw.Recover(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/send-ppr-form", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp api.ResponseError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Internal server error.", resp.Message)

	require.Contains(t, buf.String(), `"msg":"panic"`)
	require.Contains(t, buf.String(), "boom")
}

func TestMiddleware_Recover_AbortHandler(t *testing.T) {
	t.Parallel()

	mw := api.NewMiddleware(slog.New(slog.NewJSONHandler(new(bytes.Buffer), nil)))

	h := mw.Recover(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	require.PanicsWithValue(t, http.ErrAbortHandler, func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

func TestMiddleware_Log_RequestID(t *testing.T) {
	t.Parallel()

	buf := new(bytes.Buffer)
	mw := api.NewMiddleware(slog.New(slog.NewJSONHandler(buf, nil)))

	h := mw.Log(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))

	req := httptest.NewRequest(http.MethodPost, "/send-ppr-form", nil)
	req.Header.Set("X-Request-Id", "req-42")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, "req-42", rec.Header().Get("X-Request-Id"))
	require.Contains(t, buf.String(), `"status":202`)
}
