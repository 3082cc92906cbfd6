package util

import (
	"fmt"
	"regexp"
	"strings"
)

// MaxKeyLength mirrors the limit enforced by the key normalizer.
const MaxKeyLength = 32

// validKeyShape matches lowercase alphanumeric words joined by single underscores.
var validKeyShape = regexp.MustCompile(`^[a-z0-9]+(_[a-z0-9]+)*$`)

// validDiscordID matches Discord snowflake IDs.
var validDiscordID = regexp.MustCompile(`^[0-9]{1,20}$`)

// ValidateKey checks that key is a well-formed stored key for the given
// entity type prefix:
//   - Between 1 and 32 characters
//   - Only a-z, 0-9 and underscores
//   - No leading, trailing or repeated underscores
//   - Equal to prefix or starting with prefix followed by an underscore
func ValidateKey(prefix, key string) error {
	if key == "" {
		return fmt.Errorf("key must not be empty")
	}

	if len(key) > MaxKeyLength {
		return fmt.Errorf("key %q is %d characters long, at most %d are allowed", key, len(key), MaxKeyLength)
	}

	if !validKeyShape.MatchString(key) {
		return fmt.Errorf("key %q contains invalid characters (only a-z, 0-9 and single underscores between words are allowed)", key)
	}

	if key != prefix && !strings.HasPrefix(key, prefix+"_") {
		return fmt.Errorf("key %q must start with %q", key, prefix+"_")
	}

	return nil
}

// ValidateDiscordID checks that id looks like a Discord snowflake.
func ValidateDiscordID(id string) error {
	if !validDiscordID.MatchString(id) {
		return fmt.Errorf("id %q is not a valid Discord ID (expected up to 20 digits)", id)
	}
	return nil
}
