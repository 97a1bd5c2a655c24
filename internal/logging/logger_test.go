package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestLogger_FormatsKeyValues(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "info")

	logger.Warn("Fetch failed", "url", "http://example.com", "status", 500, "dangling")

	out := buf.String()
	if !strings.Contains(out, "[WARN] Fetch failed url=http://example.com status=500") {
		t.Errorf("unexpected log line: %q", out)
	}
	if strings.Contains(out, "dangling") {
		t.Errorf("odd trailing key should be dropped: %q", out)
	}
}

func TestLogger_DebugLevel(t *testing.T) {
	var buf bytes.Buffer
	NewWithWriter(&buf, "info").Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug output at info level: %q", buf.String())
	}

	NewWithWriter(&buf, "debug").Debug("shown", "k", "v")
	if !strings.Contains(buf.String(), "[DEBUG] shown k=v") {
		t.Errorf("expected debug line, got %q", buf.String())
	}
}
