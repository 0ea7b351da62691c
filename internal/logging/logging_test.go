package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestLevel(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		want    log.Level
	}{
		{"", false, log.InfoLevel},
		{"warn", false, log.WarnLevel},
		{"error", false, log.ErrorLevel},
		{"warn", true, log.DebugLevel},
		{"nonsense", false, log.InfoLevel},
	}
	for _, tt := range tests {
		if got := Level(tt.name, tt.verbose); got != tt.want {
			t.Errorf("Level(%q, %v) = %v, want %v", tt.name, tt.verbose, got, tt.want)
		}
	}
}

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, log.WarnLevel)
	l.Info("hidden")
	l.Warn("shown", "key", "value")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info message should be filtered at warn level")
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "key=value") {
		t.Errorf("warn message missing from output: %q", out)
	}
}

func TestContextRoundTrip(t *testing.T) {
	l := Discard()
	ctx := WithLogger(context.Background(), l)
	if FromContext(ctx) != l {
		t.Error("FromContext should return the attached logger")
	}
	if FromContext(context.Background()) == nil {
		t.Error("FromContext without a logger should fall back to the default")
	}
}
