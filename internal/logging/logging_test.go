package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestDiscard(t *testing.T) {
	logger, err := New(Discard, "info", true)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if logger.Core().Enabled(zapcore.DebugLevel) {
		t.Fatal("discard logger should be disabled")
	}
}

func TestWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "climg.log")
	logger, err := New(path, "warn", false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("texture failed")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	out := string(data)
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line written at warn level: %s", out)
	}
	if !strings.Contains(out, `"msg":"texture failed"`) {
		t.Fatalf("warn line missing: %s", out)
	}
}

func TestVerboseEnablesDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "climg.log")
	logger, err := New(path, "error", true)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !logger.Core().Enabled(zapcore.DebugLevel) {
		t.Fatal("verbose logger should enable debug")
	}
}

func TestBadLevel(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "x.log"), "loud", false); err == nil {
		t.Fatal("expected level error")
	}
}
