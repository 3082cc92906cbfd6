package util

import (
	"strings"
	"testing"
)

func TestValidateKey_Valid(t *testing.T) {
	valid := []struct {
		prefix string
		key    string
	}{
		{"role", "role_clan_war"},
		{"role", "role_clan_war_1"},
		{"emoji", "emoji"},
		{"emoji", "emoji_1"},
		{"channel", "channel_99_problems"},
		{"webhook", "webhook_" + strings.Repeat("a", 24)},
	}
	for _, tt := range valid {
		t.Run(tt.key, func(t *testing.T) {
			if err := ValidateKey(tt.prefix, tt.key); err != nil {
				t.Errorf("expected %q to be valid, got error: %v", tt.key, err)
			}
		})
	}
}

func TestValidateKey_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		prefix  string
		key     string
		wantMsg string
	}{
		{"empty", "role", "", "must not be empty"},
		{"too long", "role", "role_" + strings.Repeat("x", 28), "at most 32"},
		{"uppercase", "role", "role_Clan", "invalid characters"},
		{"hyphen", "role", "role_clan-war", "invalid characters"},
		{"double underscore", "role", "role__clan", "invalid characters"},
		{"trailing underscore", "role", "role_clan_", "invalid characters"},
		{"leading underscore", "role", "_role_clan", "invalid characters"},
		{"space", "role", "role clan", "invalid characters"},
		{"wrong prefix", "role", "emoji_clan", "must start with"},
		{"prefix without separator", "role", "roleclan", "must start with"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateKey(tt.prefix, tt.key)
			if err == nil {
				t.Fatalf("expected %q to be invalid, got nil", tt.key)
			}
			if got := err.Error(); !strings.Contains(got, tt.wantMsg) {
				t.Errorf("expected error containing %q, got %q", tt.wantMsg, got)
			}
		})
	}
}

func TestValidateDiscordID(t *testing.T) {
	for _, id := range []string{"1", "123456789012345678"} {
		if err := ValidateDiscordID(id); err != nil {
			t.Errorf("expected %q to be valid, got %v", id, err)
		}
	}
	for _, id := range []string{"", "abc", "12-34", strings.Repeat("1", 21)} {
		if err := ValidateDiscordID(id); err == nil {
			t.Errorf("expected %q to be invalid", id)
		}
	}
}
