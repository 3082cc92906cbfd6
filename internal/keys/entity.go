package keys

import (
	"strings"
)

// EntityType partitions the key namespace. Each type maps to its own
// table in the guild database and keys are unique only within a type.
type EntityType string

const (
	Emoji   EntityType = "emoji"
	Channel EntityType = "channel"
	Role    EntityType = "role"
	Webhook EntityType = "webhook"
)

// MaxKeyLength is the upper bound on the length of any generated key.
const MaxKeyLength = 32

// truncatedBaseLength is how much of the base key survives when a
// suffixed candidate would not fit in MaxKeyLength.
const truncatedBaseLength = 29

// AllTypes lists every supported entity type in display order.
var AllTypes = []EntityType{Emoji, Channel, Role, Webhook}

// Valid reports whether t is one of the supported entity types.
func (t EntityType) Valid() bool {
	switch t {
	case Emoji, Channel, Role, Webhook:
		return true
	}
	return false
}

func (t EntityType) String() string { return string(t) }

// ParseEntityType converts user input into an EntityType. Matching is
// case-insensitive and ignores surrounding whitespace; a trailing "s"
// ("roles", "emojis") is accepted for convenience on the command line.
func ParseEntityType(s string) (EntityType, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	t := EntityType(normalized)
	if t.Valid() {
		return t, nil
	}
	if trimmed := EntityType(strings.TrimSuffix(normalized, "s")); trimmed.Valid() {
		return trimmed, nil
	}
	return "", &UnsupportedTypeError{Type: s}
}

// TypeNames returns the names of all supported entity types.
func TypeNames() []string {
	names := make([]string, len(AllTypes))
	for i, t := range AllTypes {
		names[i] = string(t)
	}
	return names
}
