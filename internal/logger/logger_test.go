package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSanitizeKVs(t *testing.T) {
	got := sanitizeKVs([]any{"api_key", "sk-or-123", "model", "deepseek/deepseek-chat", "input_tokens", 12, "dangling"})

	want := []any{"api_key", "[REDACTED]", "model", "deepseek/deepseek-chat", "input_tokens", 12, "dangling"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("kv[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	l, err := New(Options{Level: "debug", Path: path})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	l.Warn("invalid json from model", "raw", "not json", "authorization", "Bearer abc")
	l.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	line := strings.TrimSpace(string(data))

	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, line)
	}
	if entry["msg"] != "invalid json from model" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if entry["authorization"] != "[REDACTED]" {
		t.Errorf("authorization = %v, want redacted", entry["authorization"])
	}
	if entry["raw"] != "not json" {
		t.Errorf("raw = %v", entry["raw"])
	}
}

func TestLevelFiltering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l, err := New(Options{Level: "error", Path: path})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	l.Info("dropped")
	l.Sync()

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "dropped") {
		t.Error("info line written at error level")
	}
}
