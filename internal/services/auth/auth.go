// Package auth stores API tokens in the OS keychain.
package auth

import (
	"errors"
	"fmt"
	"slices"

	"baneslab/guildkeys/internal/util"
)

const ServiceName = "guildkeys"

var (
	ErrTokenNotFound = errors.New("auth token not found")
	ErrEmptyToken    = errors.New("token cannot be empty")
)

// Providers lists the services guildkeys can hold a token for.
var Providers = []string{"discord"}

type Store interface {
	SetToken(provider string, token string) error
	GetToken(provider string) (string, error)
	DeleteToken(provider string) error
}

// DefaultStore returns the standard auth store backed by the OS keychain.
func DefaultStore() Store {
	return NewKeyringStore(ServiceName)
}

// NormalizeProvider normalizes a provider name for consistent key lookup.
func NormalizeProvider(provider string) string {
	return util.NormalizeKey(provider)
}

// ValidateProvider returns the normalized provider name, or an error if
// guildkeys has no use for a token from it.
func ValidateProvider(provider string) (string, error) {
	p := NormalizeProvider(provider)
	if !slices.Contains(Providers, p) {
		return "", fmt.Errorf("unknown provider %q (valid: %v)", provider, Providers)
	}
	return p, nil
}
