package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]log.Level{
		"debug":   log.DebugLevel,
		"INFO":    log.InfoLevel,
		"warning": log.WarnLevel,
		"error":   log.ErrorLevel,
		"":        log.WarnLevel,
		"verbose": log.WarnLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNew_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "warn")
	logger.Info("hidden")
	logger.Warn("shown", "path", "/tmp/x")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line should be filtered, got %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, Prefix) {
		t.Errorf("expected prefixed warn line, got %q", out)
	}
}
