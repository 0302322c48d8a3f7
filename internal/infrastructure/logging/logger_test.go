package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/opencell/reactor-core/internal/infrastructure/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewHandlerFormats(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		slog.New(newHandler(&buf, "text", slog.LevelInfo)).Info("rig ready")
		if !strings.Contains(buf.String(), "msg=") {
			t.Errorf("text handler output = %q, want key=value form", buf.String())
		}
	})

	t.Run("json is the fallback", func(t *testing.T) {
		var buf bytes.Buffer
		slog.New(newHandler(&buf, "not-a-format", slog.LevelInfo)).Info("rig ready")
		var entry map[string]any
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("fallback output is not JSON: %v", err)
		}
		if entry["msg"] != "rig ready" {
			t.Errorf("msg = %v, want %q", entry["msg"], "rig ready")
		}
	})
}

func TestNewCarriesServiceFields(t *testing.T) {
	var buf bytes.Buffer

	handler := newHandler(&buf, "json", slog.LevelInfo).WithAttrs([]slog.Attr{
		slog.String("service", "reactord"),
		slog.String("version", "0.3.0"),
	})
	logger := &Logger{Logger: slog.New(handler)}
	logger.Info("step accepted", "kind", "heat")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("parsing log line: %v", err)
	}
	if entry["service"] != "reactord" || entry["version"] != "0.3.0" {
		t.Errorf("default fields missing from %v", entry)
	}
	if entry["kind"] != "heat" {
		t.Errorf("kind = %v, want heat", entry["kind"])
	}
}

func TestWithReturnsChild(t *testing.T) {
	logger := New(config.LoggingConfig{Level: "info", Format: "json", Output: "stdout"}, "test")

	child := logger.With("component", "telemetry")
	if child == nil || child == logger {
		t.Fatal("With() should return a distinct child logger")
	}
}

func TestDefault(t *testing.T) {
	if Default() == nil {
		t.Fatal("Default() returned nil")
	}
}
