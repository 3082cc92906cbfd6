package key

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"baneslab/guildkeys/internal/database"
	"baneslab/guildkeys/internal/domain"

	"github.com/google/go-cmp/cmp"
)

// setupTestDB points the database package at a temp file.
func setupTestDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "guild.db")
	database.SetPath(path)
	t.Cleanup(database.ResetPath)

	prev := isTerminal
	isTerminal = func() bool { return false }
	t.Cleanup(func() { isTerminal = prev })
	return path
}

// execKey creates the key command, wires up output buffers, runs with the
// given args, and returns what was written to stdout and stderr.
func execKey(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	cmd := NewCommand()
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return outBuf.String(), errBuf.String(), err
}

func mustExec(t *testing.T, args ...string) string {
	t.Helper()
	stdout, stderr, err := execKey(t, args...)
	if err != nil {
		t.Fatalf("%v failed: %v\nstderr: %s", args, err, stderr)
	}
	return stdout
}

func TestNew_PrintsKey(t *testing.T) {
	setupTestDB(t)

	stdout := mustExec(t, "new", "role", "Clan", "War!!")
	if strings.TrimSpace(stdout) != "role_clan_war" {
		t.Errorf("stdout = %q, want role_clan_war", stdout)
	}
}

func TestNew_AccountsForStoredKeys(t *testing.T) {
	setupTestDB(t)

	mustExec(t, "register", "emoji", "1", "fire")
	stdout := mustExec(t, "new", "emoji", "Fire")
	if strings.TrimSpace(stdout) != "emoji_fire_1" {
		t.Errorf("stdout = %q, want emoji_fire_1", stdout)
	}
}

func TestNew_UnknownType(t *testing.T) {
	setupTestDB(t)

	_, stderr, err := execKey(t, "new", "sticker", "x")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(stderr, "valid: emoji, channel, role, webhook") {
		t.Errorf("expected valid types in stderr, got: %s", stderr)
	}
}

func TestNew_NonInteractiveRequiresArgs(t *testing.T) {
	setupTestDB(t)

	_, _, err := execKey(t, "new")
	if err == nil || !strings.Contains(err.Error(), "required when not running in a terminal") {
		t.Fatalf("expected terminal error, got %v", err)
	}
}

func TestRegister_JSON(t *testing.T) {
	setupTestDB(t)

	stdout := mustExec(t, "register", "emoji", "77", "party_time", "--animated", "-o", "json")

	var got domain.GuildEntity
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, stdout)
	}
	if got.Key != "emoji_party_time" || got.Format != "<a:party_time:77>" || !got.Animated {
		t.Errorf("unexpected entity %+v", got)
	}
}

func TestRegister_KeepsKeyOnRename(t *testing.T) {
	setupTestDB(t)

	mustExec(t, "register", "channel", "5", "general", "--category", "Text")
	stdout := mustExec(t, "register", "channel", "5", "town", "square")

	if !strings.Contains(stdout, "channel_general") {
		t.Errorf("expected key to survive rename, got:\n%s", stdout)
	}
	if !strings.Contains(stdout, "town square") {
		t.Errorf("expected new name, got:\n%s", stdout)
	}
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"too few args", []string{"register", "role", "1"}, "requires <type> <id> <name...>"},
		{"bad id", []string{"register", "role", "abc", "Boss"}, "ID"},
		{"webhook without url", []string{"register", "webhook", "1", "Alerts"}, "--url is required"},
		{"bad output", []string{"register", "role", "1", "Boss", "-o", "yaml"}, "unsupported output format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestDB(t)
			_, _, err := execKey(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestList_AllTypesOrdered(t *testing.T) {
	setupTestDB(t)

	mustExec(t, "register", "role", "2", "b")
	mustExec(t, "register", "role", "1", "a")
	mustExec(t, "register", "emoji", "3", "z")

	stdout := mustExec(t, "list", "-o", "json")
	var got []domain.GuildEntity
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	var gotKeys []string
	for _, e := range got {
		gotKeys = append(gotKeys, e.Key)
	}
	if diff := cmp.Diff([]string{"emoji_z", "role_a", "role_b"}, gotKeys); diff != "" {
		t.Errorf("list mismatch (-want +got):\n%s", diff)
	}
}

func TestList_TableAndEmpty(t *testing.T) {
	setupTestDB(t)

	if stdout := mustExec(t, "list", "webhook"); !strings.Contains(stdout, "No keys found.") {
		t.Errorf("expected empty message, got: %s", stdout)
	}

	mustExec(t, "register", "webhook", "9", "Alerts", "--url", "https://example.test/hook")
	stdout := mustExec(t, "list", "webhook")
	if !strings.Contains(stdout, "KEY") || !strings.Contains(stdout, "webhook_alerts") {
		t.Errorf("unexpected table:\n%s", stdout)
	}
}

func TestShow_ByKeyAndID(t *testing.T) {
	setupTestDB(t)
	mustExec(t, "register", "role", "42", "Boss", "--color", "16711680")

	for _, ref := range []string{"role_boss", "42"} {
		stdout := mustExec(t, "show", "role", ref)
		if !strings.Contains(stdout, "role_boss") || !strings.Contains(stdout, "#FF0000") {
			t.Errorf("show %s:\n%s", ref, stdout)
		}
	}

	_, _, err := execKey(t, "show", "role", "role_missing")
	if err == nil || !strings.Contains(err.Error(), `no role stored with key or ID "role_missing"`) {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestDelete_FreesKey(t *testing.T) {
	setupTestDB(t)
	mustExec(t, "register", "emoji", "1", "fire")

	stdout := mustExec(t, "delete", "emoji", "emoji_fire")
	if !strings.Contains(stdout, "Deleted emoji_fire") {
		t.Errorf("unexpected output: %s", stdout)
	}

	if got := strings.TrimSpace(mustExec(t, "new", "emoji", "fire")); got != "emoji_fire" {
		t.Errorf("new = %q, want freed key emoji_fire", got)
	}

	if _, _, err := execKey(t, "delete", "emoji", "emoji_fire"); err == nil {
		t.Error("expected error deleting twice")
	}
}
