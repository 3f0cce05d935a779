package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLoggerWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	logger, err := NewLogger(false, path)
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	logger.Info("startup complete", zap.String("mode", "production"))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "startup complete") {
		t.Errorf("log file missing entry, got: %s", data)
	}
}

func TestRedactingCoreFiltersMessageAndFields(t *testing.T) {
	observed, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(redactingCore{observed})

	logger.Info("configured key sk-abcdefghijklmnopqrstuvwx1234",
		zap.String("password", "hunter2"),
		zap.String("username", "alice"),
	)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	entry := entries[0]
	if strings.Contains(entry.Message, "sk-abcdef") {
		t.Errorf("message leaked key: %q", entry.Message)
	}

	fields := map[string]string{}
	for _, f := range entry.Context {
		fields[f.Key] = f.String
	}
	if fields["password"] != redactedPlaceholder {
		t.Errorf("password field = %q, want placeholder", fields["password"])
	}
	if fields["username"] != "alice" {
		t.Errorf("username field = %q, want passthrough", fields["username"])
	}
}

func TestRedactingCoreRespectsLevel(t *testing.T) {
	observed, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(redactingCore{observed})

	logger.Debug("should be dropped")
	if logs.Len() != 0 {
		t.Errorf("debug entry passed an info-level core")
	}
}
