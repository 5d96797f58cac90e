package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLogLevel_String(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LogLevelDebug, "DEBUG"},
		{LogLevelInfo, "INFO"},
		{LogLevelWarn, "WARN"},
		{LogLevelError, "ERROR"},
		{LogLevel(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.expected {
			t.Errorf("LogLevel(%d).String() = %q, want %q", tt.level, got, tt.expected)
		}
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
	}{
		{"debug", LogLevelDebug},
		{"DEBUG", LogLevelDebug},
		{"info", LogLevelInfo},
		{"warn", LogLevelWarn},
		{"warning", LogLevelWarn},
		{"error", LogLevelError},
		{"unknown", LogLevelInfo},
		{"", LogLevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLogLevel(tt.input); got != tt.expected {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Level: LogLevelWarn, Output: &buf})

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("messages below level were written: %q", out)
	}
	if !strings.Contains(out, "warn message") {
		t.Errorf("warn message missing: %q", out)
	}

	logger.SetLevel(LogLevelDebug)
	logger.Debug("now visible")
	if !strings.Contains(buf.String(), "now visible") {
		t.Error("SetLevel(debug) did not lower the threshold")
	}
}

func TestLogger_FormatsArgs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Level: LogLevelInfo, Output: &buf})

	logger.Info("loaded %d bytes from %s", 42, "pong")

	if !strings.Contains(buf.String(), "loaded 42 bytes from pong") {
		t.Errorf("formatted message missing: %q", buf.String())
	}
}

func TestLogger_WithComponentFansOutToJSON(t *testing.T) {
	var text, js bytes.Buffer
	logger := NewLogger(LoggerConfig{
		Level:      LogLevelInfo,
		Output:     &text,
		JSONOutput: &js,
		Prefix:     "test",
	}).WithComponent("host")

	logger.Info("screen transition")

	if !strings.Contains(text.String(), "component=host") {
		t.Errorf("text output missing component: %q", text.String())
	}

	var record map[string]any
	if err := json.Unmarshal(js.Bytes(), &record); err != nil {
		t.Fatalf("json output is not a single record: %v (%q)", err, js.String())
	}
	if record["component"] != "host" || record["app"] != "test" {
		t.Errorf("json record = %v", record)
	}
}

func TestNullLogger(t *testing.T) {
	NullLogger.Info("ignored")
	NullLogger.WithComponent("x").Error("ignored")
	if NullLogger.Enabled(LogLevelError) {
		t.Error("NullLogger should not be enabled")
	}
	if OrNull(nil) != NullLogger {
		t.Error("OrNull(nil) should return NullLogger")
	}
}
