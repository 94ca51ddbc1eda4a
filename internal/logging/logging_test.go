package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "warn", Format: "json"}, WithOutput(&buf), WithFields(zap.String("component", "test")))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("hidden")
	logger.Warn("shown", zap.Int("value", 7))
	_ = logger.Sync()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("entry is not JSON: %v", err)
	}
	if entry["msg"] != "shown" || entry["level"] != "warn" || entry["component"] != "test" {
		t.Fatalf("unexpected entry %v", entry)
	}
	if entry["value"] != float64(7) {
		t.Fatalf("value = %v, want 7", entry["value"])
	}
	if _, ok := entry["ts"].(string); !ok {
		t.Fatalf("ts = %v, want RFC3339 string", entry["ts"])
	}
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "debug", Format: "console"}, WithOutput(&buf))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Debug("tick skipped")
	_ = logger.Sync()

	if !strings.Contains(buf.String(), "tick skipped") {
		t.Fatalf("console output %q lacks message", buf.String())
	}
}

func TestNewDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{}, WithOutput(&buf))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Debug("hidden")
	logger.Info("shown")
	_ = logger.Sync()

	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("default level is not info: %q", buf.String())
	}
}

func TestNewInvalid(t *testing.T) {
	if _, err := New(Config{Level: "loud"}); err == nil {
		t.Error("unknown level accepted")
	}
	if _, err := New(Config{Format: "xml"}); err == nil {
		t.Error("unknown format accepted")
	}
}
