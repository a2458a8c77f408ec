// ABOUTME: Tests for the leveled logger: filtering and output routing
// ABOUTME: Uses SetOutput to capture lines; restores defaults afterwards

package log

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(nil)
	t.Cleanup(func() { SetLevel(LevelInfo) })

	SetLevel(LevelWarn)
	Debug("hidden %d", 1)
	Info("hidden %d", 2)
	Warn("shown %d", 3)
	Error("shown %d", 4)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("suppressed levels leaked: %q", out)
	}
	if !strings.Contains(out, "[WARN] shown 3") || !strings.Contains(out, "[ERROR] shown 4") {
		t.Errorf("expected warn and error lines, got %q", out)
	}
}

func TestErrorAlwaysEmitted(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(nil)
	t.Cleanup(func() { SetLevel(LevelInfo) })

	SetLevel(LevelError)
	Error("boom")

	if !strings.Contains(buf.String(), "[ERROR] boom") {
		t.Errorf("error line missing: %q", buf.String())
	}
}
