package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNewLoggerWithWriter_Formats(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(slog.LevelInfo, "text", &buf)
	logger.Info("frame begun", "frame", 1)

	output := buf.String()
	if !strings.Contains(output, "frame begun") {
		t.Errorf("expected 'frame begun' in output, got: %s", output)
	}
	if !strings.Contains(output, "frame=1") {
		t.Errorf("expected 'frame=1' in output, got: %s", output)
	}

	buf.Reset()
	logger = NewLoggerWithWriter(slog.LevelInfo, "json", &buf)
	logger.Info("frame begun", "frame", 1)

	output = buf.String()
	if !strings.Contains(output, `"msg":"frame begun"`) {
		t.Errorf("expected JSON msg field in output, got: %s", output)
	}
	if !strings.Contains(output, `"frame":1`) {
		t.Errorf("expected JSON frame field in output, got: %s", output)
	}
}

func TestNewLoggerWithWriter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(slog.LevelWarn, "text", &buf)

	logger.Debug("dispatch task", "task", 3)
	logger.Warn("event stream full")

	output := buf.String()
	if strings.Contains(output, "dispatch task") {
		t.Errorf("DEBUG message should be filtered at WARN level, got: %s", output)
	}
	if !strings.Contains(output, "event stream full") {
		t.Errorf("WARN message should appear at WARN level, got: %s", output)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
