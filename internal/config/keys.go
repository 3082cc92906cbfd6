package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"baneslab/guildkeys/internal/logging"
	"baneslab/guildkeys/internal/util"
)

// KeySpec describes a single configuration key.
type KeySpec struct {
	// Name is the CLI-facing key name (e.g. "guild-id").
	Name string

	// Description is a short human-readable explanation shown in help text.
	Description string

	// Get returns the current value for this key from a loaded Config.
	Get func(cfg *Config) string

	// Set applies a value for this key to the given Config (in memory only;
	// the caller is responsible for calling Save).
	Set func(cfg *Config, value string)

	// Normalize validates a user-supplied value and returns the form to
	// store. Nil means the value is stored trimmed.
	Normalize func(value string) (string, error)
}

// Keys is the authoritative list of all supported configuration keys.
// To add a new option: add a field to Config and append a KeySpec here.
var Keys = []KeySpec{
	{
		Name:        "database-path",
		Description: "SQLite file holding guild entities and the audit log",
		Get:         func(cfg *Config) string { return cfg.DatabasePath },
		Set:         func(cfg *Config, v string) { cfg.DatabasePath = v },
		Normalize: func(v string) (string, error) {
			if v == "" {
				return "", nil
			}
			abs, err := filepath.Abs(v)
			if err != nil {
				return "", fmt.Errorf("invalid path %q: %w", v, err)
			}
			return abs, nil
		},
	},
	{
		Name:        "guild-id",
		Description: "Discord guild synced when --guild is not specified",
		Get:         func(cfg *Config) string { return cfg.GuildID },
		Set:         func(cfg *Config, v string) { cfg.GuildID = v },
		Normalize: func(v string) (string, error) {
			if v == "" {
				return "", nil
			}
			if err := util.ValidateDiscordID(v); err != nil {
				return "", err
			}
			return v, nil
		},
	},
	{
		Name:        "log-level",
		Description: "Minimum log level: debug, info, warn or error",
		Get:         func(cfg *Config) string { return cfg.LogLevel },
		Set:         func(cfg *Config, v string) { cfg.LogLevel = v },
		Normalize: func(v string) (string, error) {
			if v == "" {
				return "", nil
			}
			l, err := logging.ParseLevel(v)
			return string(l), err
		},
	},
	{
		Name:        "log-format",
		Description: "Log output format: text or json",
		Get:         func(cfg *Config) string { return cfg.LogFormat },
		Set:         func(cfg *Config, v string) { cfg.LogFormat = v },
		Normalize: func(v string) (string, error) {
			if v == "" {
				return "", nil
			}
			f, err := logging.ParseFormat(v)
			return string(f), err
		},
	},
}

// Lookup returns the KeySpec for the given name, or nil if not found.
// The name is matched case-insensitively after trimming whitespace.
func Lookup(name string) *KeySpec {
	normalized := util.NormalizeKey(name)
	for i := range Keys {
		if Keys[i].Name == normalized {
			return &Keys[i]
		}
	}
	return nil
}

// Apply normalizes value and sets it on cfg. It returns the stored value.
func (k *KeySpec) Apply(cfg *Config, value string) (string, error) {
	value = strings.TrimSpace(value)
	if k.Normalize != nil {
		var err error
		value, err = k.Normalize(value)
		if err != nil {
			return "", err
		}
	}
	k.Set(cfg, value)
	return value, nil
}

// KeyNames returns the names of all registered keys.
func KeyNames() []string {
	names := make([]string, len(Keys))
	for i, k := range Keys {
		names[i] = k.Name
	}
	return names
}

// KeysHelp builds a formatted block listing all available keys and their
// descriptions, suitable for inclusion in Cobra Long help text.
func KeysHelp() string {
	if len(Keys) == 0 {
		return ""
	}

	maxLen := 0
	for _, k := range Keys {
		if len(k.Name) > maxLen {
			maxLen = len(k.Name)
		}
	}

	var b strings.Builder
	b.WriteString("Available keys:\n")
	for _, k := range Keys {
		fmt.Fprintf(&b, "  %-*s   %s\n", maxLen, k.Name, k.Description)
	}
	return b.String()
}

// LoggingConfig returns the logger settings from cfg, falling back to
// defaults for unset or invalid values.
func (c *Config) LoggingConfig() logging.Config {
	out := logging.DefaultConfig()
	if l, err := logging.ParseLevel(c.LogLevel); err == nil {
		out.Level = l
	}
	if f, err := logging.ParseFormat(c.LogFormat); err == nil {
		out.Format = f
	}
	return out
}
