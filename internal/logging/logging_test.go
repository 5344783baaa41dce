package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithWriter(slog.LevelInfo, "json", &buf)
	l.Debug("hidden")
	l.Info("switch", "task", 1)

	line := strings.TrimSpace(buf.String())
	var rec map[string]any
	if err := json.Unmarshal([]byte(line), &rec); err != nil {
		t.Fatalf("log line %q is not json: %v", line, err)
	}
	if rec["msg"] != "switch" || rec["task"] != float64(1) {
		t.Fatalf("record = %v", rec)
	}
}

func TestResolveFormat(t *testing.T) {
	var buf bytes.Buffer
	if got := ResolveFormat("auto", &buf); got != "json" {
		t.Fatalf("ResolveFormat(auto, buffer) = %q, want json", got)
	}
	if got := ResolveFormat("text", &buf); got != "text" {
		t.Fatalf("ResolveFormat(text) = %q, want text", got)
	}
}
