package webui

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggingMiddlewareLogsRequests(t *testing.T) {
	observed, logs := observer.New(zapcore.InfoLevel)
	mw := NewLoggingMiddleware(zap.New(observed), nil)

	handler := mw.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/modes", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("response missing request ID header")
	}

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d log entries, want 1", len(entries))
	}
	fields := map[string]any{}
	for _, f := range entries[0].Context {
		switch f.Type {
		case zapcore.StringType:
			fields[f.Key] = f.String
		case zapcore.Int64Type:
			fields[f.Key] = f.Integer
		}
	}
	if fields["path"] != "/api/modes" {
		t.Errorf("path field = %v", fields["path"])
	}
	if fields["status"] != int64(http.StatusTeapot) {
		t.Errorf("status field = %v", fields["status"])
	}
}

func TestLoggingMiddlewareSkipsConfiguredPaths(t *testing.T) {
	observed, logs := observer.New(zapcore.InfoLevel)
	mw := NewLoggingMiddleware(zap.New(observed), []string{"/api/health"})

	handler := mw.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if logs.Len() != 0 {
		t.Errorf("health probe was logged %d times", logs.Len())
	}
}
