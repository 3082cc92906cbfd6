package auth

import (
	"bytes"
	"strings"
	"testing"

	"baneslab/guildkeys/internal/services/auth"

	"github.com/spf13/cobra"
	"github.com/zalando/go-keyring"
)

func setupKeyring(t *testing.T) {
	t.Helper()
	keyring.MockInit()

	prev := readToken
	readToken = func(*cobra.Command) (string, error) { return "", nil }
	t.Cleanup(func() { readToken = prev })
}

func execAuth(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	cmd := NewCommand()
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return outBuf.String(), errBuf.String(), err
}

func TestLoginStatusLogout(t *testing.T) {
	setupKeyring(t)

	stdout, _, err := execAuth(t, "status")
	if err != nil || !strings.Contains(stdout, "discord: not logged in") {
		t.Fatalf("status before login: %q, %v", stdout, err)
	}

	stdout, _, err = execAuth(t, "login", "--token", " bot-token ")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if !strings.Contains(stdout, "Saved token for provider discord") {
		t.Errorf("unexpected login output: %s", stdout)
	}

	token, err := auth.DefaultStore().GetToken("discord")
	if err != nil || token != "bot-token" {
		t.Errorf("stored token = %q, %v", token, err)
	}

	stdout, _, _ = execAuth(t, "status")
	if !strings.Contains(stdout, "discord: logged in") {
		t.Errorf("status after login: %s", stdout)
	}

	stdout, _, err = execAuth(t, "logout", "Discord")
	if err != nil || !strings.Contains(stdout, "Removed token for provider discord") {
		t.Errorf("logout: %q, %v", stdout, err)
	}

	stdout, _, err = execAuth(t, "logout")
	if err != nil || !strings.Contains(stdout, "No token stored") {
		t.Errorf("second logout: %q, %v", stdout, err)
	}
}

func TestLogin_UnknownProvider(t *testing.T) {
	setupKeyring(t)

	_, _, err := execAuth(t, "login", "slack", "--token", "x")
	if err == nil || !strings.Contains(err.Error(), "unknown provider") {
		t.Fatalf("expected unknown provider error, got %v", err)
	}
}

func TestLogin_EmptyToken(t *testing.T) {
	setupKeyring(t)

	_, _, err := execAuth(t, "login")
	if err == nil || !strings.Contains(err.Error(), "token cannot be empty") {
		t.Fatalf("expected empty token error, got %v", err)
	}
}
