package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

// KeyringStore keeps provider tokens in the OS keychain, one entry per
// provider under a shared service name.
type KeyringStore struct {
	serviceName string
}

// NewKeyringStore returns a store using serviceName, or ServiceName
// when empty.
func NewKeyringStore(serviceName string) *KeyringStore {
	if serviceName == "" {
		serviceName = ServiceName
	}
	return &KeyringStore{serviceName: serviceName}
}

// SetToken stores token for provider. Only providers listed in
// Providers are accepted.
func (k *KeyringStore) SetToken(provider string, token string) error {
	account, err := ValidateProvider(provider)
	if err != nil {
		return err
	}
	token, err = CleanToken(token)
	if err != nil {
		return err
	}
	if err := keyring.Set(k.serviceName, account, token); err != nil {
		return fmt.Errorf("auth: failed to store %s token: %w", account, err)
	}
	return nil
}

func (k *KeyringStore) GetToken(provider string) (string, error) {
	account, err := ValidateProvider(provider)
	if err != nil {
		return "", err
	}
	token, err := keyring.Get(k.serviceName, account)
	switch {
	case errors.Is(err, keyring.ErrNotFound):
		return "", ErrTokenNotFound
	case err != nil:
		return "", fmt.Errorf("auth: failed to read %s token: %w", account, err)
	}
	return token, nil
}

func (k *KeyringStore) DeleteToken(provider string) error {
	account, err := ValidateProvider(provider)
	if err != nil {
		return err
	}
	err = keyring.Delete(k.serviceName, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrTokenNotFound
	}
	return err
}

// CleanToken trims token and drops a leading "Bot " scheme, which
// Discord's developer portal users often paste along with the token.
// The client adds the scheme itself.
func CleanToken(token string) (string, error) {
	token = strings.TrimSpace(token)
	if scheme, rest, ok := strings.Cut(token, " "); ok && strings.EqualFold(scheme, "bot") {
		token = strings.TrimSpace(rest)
	} else if strings.EqualFold(token, "bot") {
		token = ""
	}
	if token == "" {
		return "", ErrEmptyToken
	}
	return token, nil
}
