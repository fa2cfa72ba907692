package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNewLoggerWithWriter_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(slog.LevelInfo, "text", &buf)

	logger.Info("parsed specification", "panels", 2)

	output := buf.String()
	if !strings.Contains(output, "parsed specification") || !strings.Contains(output, "panels=2") {
		t.Errorf("unexpected text output: %s", output)
	}
}

func TestNewLoggerWithWriter_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(slog.LevelInfo, "JSON", &buf)

	logger.Warn("unhandled parameter type", "tag", "widget")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("expected JSON output: %v (%s)", err, buf.String())
	}
	if record["tag"] != "widget" || record["level"] != "WARN" {
		t.Errorf("unexpected record %v", record)
	}
}

func TestNewLoggerWithWriter_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(slog.LevelWarn, "text", &buf)

	logger.Info("dropped")
	if buf.Len() != 0 {
		t.Errorf("info should be filtered at warn level, got %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
