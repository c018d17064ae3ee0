package shared

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

func TestParseLogLevel(t *testing.T) {
	tc := []struct {
		name  string
		level string
		want  log.Level
	}{
		{name: "debug", level: "debug", want: log.DebugLevel},
		{name: "mixed case warn", level: " WARN ", want: log.WarnLevel},
		{name: "warning alias", level: "warning", want: log.WarnLevel},
		{name: "error", level: "error", want: log.ErrorLevel},
		{name: "fatal", level: "fatal", want: log.FatalLevel},
		{name: "empty defaults to info", level: "", want: log.InfoLevel},
		{name: "unknown defaults to info", level: "verbose", want: log.InfoLevel},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseLogLevel(tt.level); got != tt.want {
				t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.level, got, tt.want)
			}
		})
	}
}

func TestLogger(t *testing.T) {
	t.Run("WithLogger adds fields", func(t *testing.T) {
		var buf bytes.Buffer
		logger := WithLogger(NewLogger(&buf), "component", "test")
		logger.Info("hello")

		out := buf.String()
		if !strings.Contains(out, "hello") || !strings.Contains(out, "component=test") {
			t.Errorf("expected message and field in output, got %q", out)
		}
	})

	t.Run("SetLogLevel filters", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		SetLogLevel(logger, log.ErrorLevel)
		logger.Info("hidden")

		if buf.Len() != 0 {
			t.Errorf("expected info to be filtered, got %q", buf.String())
		}
	})

	t.Run("NewFileLogger creates directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "dir", "app.log")
		logger, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("NewFileLogger() error = %v", err)
		}
		logger.Info("written")

		content, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read log file: %v", err)
		}
		if !strings.Contains(string(content), "written") {
			t.Errorf("expected log file to contain message, got %q", content)
		}
	})
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	if a == b {
		t.Error("expected unique IDs")
	}
	if _, err := uuid.Parse(a); err != nil {
		t.Errorf("expected valid uuid, got %q: %v", a, err)
	}
}

func TestMarshalJSON(t *testing.T) {
	data := map[string]string{"key": "value"}

	compact, err := MarshalJSON(data, false)
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	if string(compact) != `{"key":"value"}` {
		t.Errorf("unexpected compact output %s", compact)
	}

	pretty, err := MarshalJSON(data, true)
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	if !strings.Contains(string(pretty), "\n  \"key\": \"value\"") {
		t.Errorf("unexpected pretty output %s", pretty)
	}
}
