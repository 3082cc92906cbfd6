package config

import (
	"strings"
	"testing"

	"baneslab/guildkeys/internal/config"
)

func TestGet_GuildID_NotSet(t *testing.T) {
	setupTestConfig(t)

	stdout, stderr := execConfig(t, "get", "guild-id")

	if stderr != "" {
		t.Errorf("unexpected stderr: %s", stderr)
	}
	if !strings.Contains(stdout, "not set") {
		t.Errorf("expected 'not set', got: %s", stdout)
	}
}

func TestGet_GuildID_Set(t *testing.T) {
	path := setupTestConfig(t)

	cfg := &config.Config{GuildID: "4242"}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	for _, args := range [][]string{{"get", "guild-id"}, {"get", "--key", "guild-id"}} {
		stdout, stderr := execConfig(t, args...)
		if stderr != "" {
			t.Errorf("%v: unexpected stderr: %s", args, stderr)
		}
		if strings.TrimSpace(stdout) != "4242" {
			t.Errorf("%v: expected '4242', got: %s", args, stdout)
		}
	}
}

func TestGet_ListsAllWhenNotInteractive(t *testing.T) {
	path := setupTestConfig(t)
	if err := (&config.Config{LogLevel: "info"}).SaveTo(path); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	stdout, _ := execConfig(t, "get")

	for _, want := range []string{"database-path: (not set)", "guild-id: (not set)", "log-level: info", "log-format: (not set)"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in output:\n%s", want, stdout)
		}
	}
}

func TestGet_UnknownKey(t *testing.T) {
	setupTestConfig(t)

	_, stderr := execConfig(t, "get", "bogus-key")

	if !strings.Contains(stderr, "unknown configuration key") {
		t.Errorf("expected 'unknown configuration key' error, got: %s", stderr)
	}
}
