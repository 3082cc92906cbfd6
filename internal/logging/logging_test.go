package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]Level{"debug": DebugLevel, " INFO ": InfoLevel, "warn": WarnLevel, "Error": ErrorLevel} {
		got, err := ParseLevel(in)
		if err != nil {
			t.Fatalf("ParseLevel(%q) error: %v", in, err)
		}
		if got != want {
			t.Errorf("ParseLevel(%q) = %q, want %q", in, got, want)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestParseFormat(t *testing.T) {
	if got, err := ParseFormat("JSON"); err != nil || got != JSONFormat {
		t.Errorf("ParseFormat(JSON) = %q, %v", got, err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestNew_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: WarnLevel, Output: &buf})

	logger.Info("hidden")
	logger.Warn("shown", "key", "role_clan_war")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line should be filtered, got %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "role_clan_war") {
		t.Errorf("expected warn line with key, got %q", out)
	}
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: DebugLevel, Format: JSONFormat, Output: &buf})

	logger.Debug("allocated", "type", "emoji")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", buf.String(), err)
	}
	if line["msg"] != "allocated" || line["type"] != "emoji" {
		t.Errorf("unexpected JSON line: %v", line)
	}
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: InfoLevel, Output: &buf})

	ctx := WithContext(context.Background(), logger)
	FromContext(ctx).Info("from context")

	if !strings.Contains(buf.String(), "from context") {
		t.Errorf("expected logger from context to write to buffer, got %q", buf.String())
	}
}
