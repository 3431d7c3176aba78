package server

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestLoggingMiddleware_RedactsSecrets(t *testing.T) {
	buf := captureLogs(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/progression", nil)
	req.Header.Set(HeaderAPIKey, "secret-key-123")
	req.Header.Set(HeaderAuthorization, "Bearer mytoken")
	req.Header.Set("User-Agent", "TestAgent")

	loggingMiddleware(okHandler()).ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	require.Contains(t, out, LogMsgRequestHeaders)
	assert.NotContains(t, out, "secret-key-123")
	assert.NotContains(t, out, "Bearer mytoken")
	assert.Contains(t, out, "TestAgent")
	assert.Contains(t, out, RedactedValue)
}

func TestLoggingMiddleware_RequestID(t *testing.T) {
	captureLogs(t)

	t.Run("Generated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		loggingMiddleware(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/achievements", nil))
		assert.Len(t, rec.Header().Get(HeaderRequestID), 36)
	})

	t.Run("Caller supplied", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/achievements", nil)
		req.Header.Set(HeaderRequestID, "trace-abc")
		rec := httptest.NewRecorder()
		loggingMiddleware(okHandler()).ServeHTTP(rec, req)
		assert.Equal(t, "trace-abc", rec.Header().Get(HeaderRequestID))
	})

	t.Run("Oversized id replaced", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/achievements", nil)
		req.Header.Set(HeaderRequestID, strings.Repeat("x", MaxRequestIDLength+1))
		rec := httptest.NewRecorder()
		loggingMiddleware(okHandler()).ServeHTTP(rec, req)
		assert.Len(t, rec.Header().Get(HeaderRequestID), 36)
	})
}

func TestLoggingMiddleware_SkipsProbes(t *testing.T) {
	buf := captureLogs(t)

	loggingMiddleware(okHandler()).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.NotContains(t, buf.String(), LogMsgRequestStarted)
}
