package util

import "testing"

func TestNormalizeKey(t *testing.T) {
	if got := NormalizeKey("  Log-Level "); got != "log-level" {
		t.Errorf("NormalizeKey = %q, want %q", got, "log-level")
	}
}

func TestCapitalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"clan_war", "Clan War"},
		{"boss", "Boss"},
		{"", ""},
		{"already Fine", "Already Fine"},
		{"double__underscore", "Double  Underscore"},
		{"_leading", " Leading"},
		{"élan_vital", "Élan Vital"},
		{"99_problems", "99 Problems"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Capitalize(tt.in); got != tt.want {
				t.Errorf("Capitalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSnakeCase(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Clan War", "clan_war"},
		{"clan - war", "clan_war"},
		{"Multi   Space", "multi_space"},
		{"keep.punct!", "keep.punct!"},
		{"", ""},
		{"tab\there", "tab_here"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := SnakeCase(tt.in); got != tt.want {
				t.Errorf("SnakeCase(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLooseMatch(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Iron_Man-99", "iron man 99"},
		{"  iron   man 99 ", "iron man 99"},
		{"Zezima", "zezima"},
		{"", ""},
		{"__--__", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := LooseMatch(tt.in); got != tt.want {
				t.Errorf("LooseMatch(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
	if LooseMatch("Iron_Man-99") != LooseMatch("iron man 99") {
		t.Error("expected equivalent names to compare equal")
	}
}
