package tui

import (
	"path/filepath"
	"strings"
	"testing"

	"baneslab/guildkeys/internal/config"

	tea "github.com/charmbracelet/bubbletea"
)

func setupTestConfig(t *testing.T) {
	t.Helper()
	config.SetPath(filepath.Join(t.TempDir(), "config.json"))
	t.Cleanup(config.ResetPath)
}

func updateConfig(t *testing.T, m configViewModel, msg tea.Msg) configViewModel {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(configViewModel)
	if cmd == nil {
		return m
	}
	switch out := cmd().(type) {
	case configSavedMsg, configSaveErrorMsg:
		next, _ = m.Update(out)
		m = next.(configViewModel)
	}
	return m
}

func cursorTo(t *testing.T, m configViewModel, name string) configViewModel {
	t.Helper()
	for i, k := range m.keys {
		if k.Name == name {
			m.cursor = i
			return m
		}
	}
	t.Fatalf("unknown config key %q", name)
	return m
}

func TestConfigView_EditValidatesAndSaves(t *testing.T) {
	setupTestConfig(t)
	m := newConfigViewModel(&config.Config{}, nil, "")
	m = updateConfig(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m = cursorTo(t, m, "log-level")

	m = updateConfig(t, m, key("e"))
	if !m.editing {
		t.Fatal("expected edit mode")
	}
	m.editor.SetValue("  DEBUG ")
	m = updateConfig(t, m, key("enter"))

	if m.isError {
		t.Fatalf("unexpected error status %q", m.status)
	}
	if m.cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want normalized %q", m.cfg.LogLevel, "debug")
	}

	loaded, err := config.Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if loaded.LogLevel != "debug" {
		t.Errorf("saved LogLevel = %q", loaded.LogLevel)
	}
}

func TestConfigView_RejectsInvalidValue(t *testing.T) {
	setupTestConfig(t)
	m := newConfigViewModel(&config.Config{GuildID: "123"}, nil, "")
	m = cursorTo(t, m, "guild-id")

	m = updateConfig(t, m, key("e"))
	m.editor.SetValue("not-a-snowflake")
	m = updateConfig(t, m, key("enter"))

	if !m.isError || !strings.HasPrefix(m.status, "Invalid value") {
		t.Errorf("status = %q, isError = %v", m.status, m.isError)
	}
	if !m.editing {
		t.Error("expected to stay in edit mode")
	}
	if m.cfg.GuildID != "123" {
		t.Errorf("GuildID = %q, want unchanged", m.cfg.GuildID)
	}
}

func TestConfigView_ClearValue(t *testing.T) {
	setupTestConfig(t)
	m := newConfigViewModel(&config.Config{LogFormat: "json"}, nil, "")
	m = cursorTo(t, m, "log-format")

	m = updateConfig(t, m, key("x"))
	if m.cfg.LogFormat != "" {
		t.Errorf("LogFormat = %q, want cleared", m.cfg.LogFormat)
	}
	if m.status != "Saved log-format" {
		t.Errorf("status = %q", m.status)
	}
}

func TestConfigView_ShowsDefaultsForUnsetKeys(t *testing.T) {
	setupTestConfig(t)
	defaults := map[string]string{"log-level": "warn"}
	m := newConfigViewModel(&config.Config{LogFormat: "json"}, defaults, "/tmp/guildkeys/config.json")
	m = updateConfig(t, m, tea.WindowSizeMsg{Width: 120, Height: 30})

	view := m.View()
	for _, want := range []string{"(default: warn)", "json", "guild-id", "(not set)"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
