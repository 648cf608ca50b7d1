package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func decodeLine(t *testing.T, line string) LogEntry {
	t.Helper()
	var entry LogEntry
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("Failed to decode log line %q: %v", line, err)
	}
	return entry
}

func TestJSONLogger_OneObjectPerLine(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	logger.Info("audit started", Layer("service"))
	logger.Warn("file excluded", File("layers/broken.yaml"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 log lines, got %d", len(lines))
	}

	first := decodeLine(t, lines[0])
	if first.Level != "INFO" || first.Message != "audit started" {
		t.Errorf("First entry = %+v", first)
	}
	if first.Fields["layer"] != "service" {
		t.Errorf("Layer field = %v", first.Fields["layer"])
	}
	second := decodeLine(t, lines[1])
	if second.Level != "WARN" || second.Fields["file"] != "layers/broken.yaml" {
		t.Errorf("Second entry = %+v", second)
	}
}

func TestJSONLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, WarnLevel)

	logger.Debug("ignored")
	logger.Info("ignored")
	logger.Warn("kept")
	logger.Error("kept")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Errorf("Expected 2 lines above the threshold, got %d: %q", len(lines), buf.String())
	}

	logger.SetLevel(DebugLevel)
	buf.Reset()
	logger.Debug("now visible")
	if !strings.Contains(buf.String(), "now visible") {
		t.Error("Lowered level should admit debug lines")
	}
}

func TestJSONLogger_WithInheritsFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)
	child := logger.With(Session("abc"), Component("engine"))

	child.Info("item resolved", Count(3))

	entry := decodeLine(t, strings.TrimSpace(buf.String()))
	if entry.Fields["session"] != "abc" || entry.Fields["component"] != "engine" {
		t.Errorf("Inherited fields missing: %+v", entry.Fields)
	}
	if entry.Fields["count"] != float64(3) {
		t.Errorf("Call-site field missing: %+v", entry.Fields)
	}

	// The parent carries none of the child's fields.
	buf.Reset()
	logger.Info("parent line")
	entry = decodeLine(t, strings.TrimSpace(buf.String()))
	if _, ok := entry.Fields["session"]; ok {
		t.Error("Parent logger leaked child fields")
	}
}

func TestJSONLogger_CallSiteOverridesPreset(t *testing.T) {
	var buf bytes.Buffer
	child := NewJSONLogger(&buf, InfoLevel).With(Layer("service"))
	child.Info("scoped", Layer("data"))

	entry := decodeLine(t, strings.TrimSpace(buf.String()))
	if entry.Fields["layer"] != "data" {
		t.Errorf("Call-site field should win, got %v", entry.Fields["layer"])
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", DebugLevel},
		{"DEBUG", DebugLevel},
		{"warn", WarnLevel},
		{"WARNING", WarnLevel},
		{"error", ErrorLevel},
		{"info", InfoLevel},
		{"bogus", InfoLevel},
		{"", InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFieldHelpers(t *testing.T) {
	if f := Error(errors.New("boom")); f.Key != "error" || f.Value != "boom" {
		t.Errorf("Error field = %+v", f)
	}
	if f := Error(nil); f.Value != nil {
		t.Errorf("Nil error field = %+v", f)
	}
	if f := Duration("took", 1500*time.Millisecond); f.Value != "1.5s" {
		t.Errorf("Duration field = %+v", f)
	}
	if f := Bool("ok", true); f.Value != true {
		t.Errorf("Bool field = %+v", f)
	}
}

func TestNopLogger(t *testing.T) {
	logger := NewNopLogger()
	logger.Info("discarded", String("k", "v"))
	if child := logger.With(Session("x")); child == nil {
		t.Error("NopLogger.With should return a usable logger")
	}
}
