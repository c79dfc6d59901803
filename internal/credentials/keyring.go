// Package credentials resolves the API key used for completion requests and
// manages the copy stored in the operating system keyring.
package credentials

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	serviceName = "dillma"
	// APIKeyName is both the keyring entry name and the environment variable
	// consulted for the API key.
	APIKeyName = "OPENAI_API_KEY"
)

// Sources reported by ResolveAPIKey.
const (
	SourceExplicit = "config"
	SourceEnv      = "environment"
	SourceKeyring  = "keyring"
)

var (
	// ErrNotFound indicates that a requested secret was not found in the keyring.
	ErrNotFound = errors.New("secret not found")
	// ErrNoAPIKey is returned when no source provides an API key.
	ErrNoAPIKey = errors.New("no API key configured: set OPENAI_API_KEY, pass --api-key, or run 'dillma auth login'")
)

// GetSecret retrieves the named secret from the system keyring.
func GetSecret(name string) (string, error) {
	secret, err := keyring.Get(serviceName, name)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("read secret %q: %w", name, err)
	}
	return secret, nil
}

// SetSecret stores value under name, trimming surrounding whitespace.
func SetSecret(name, value string) error {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fmt.Errorf("secret %q cannot be empty", name)
	}
	if err := keyring.Set(serviceName, name, trimmed); err != nil {
		return fmt.Errorf("store secret %q: %w", name, err)
	}
	return nil
}

// DeleteSecret removes the named secret from the keyring.
func DeleteSecret(name string) error {
	if err := keyring.Delete(serviceName, name); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete secret %q: %w", name, err)
	}
	return nil
}

// HasSecret reports whether the named secret exists in the keyring.
func HasSecret(name string) (bool, error) {
	_, err := GetSecret(name)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return false, err
}

// Helpers for the OPENAI_API_KEY entry.

func GetAPIKey() (string, error) { return GetSecret(APIKeyName) }

func SetAPIKey(key string) error { return SetSecret(APIKeyName, key) }

func DeleteAPIKey() error { return DeleteSecret(APIKeyName) }

func HasAPIKey() (bool, error) { return HasSecret(APIKeyName) }

// ResolveAPIKey picks the API key from, in order, the explicit value (flag or
// config file), the OPENAI_API_KEY environment variable and the keyring. It
// returns the key together with the name of the source it came from.
func ResolveAPIKey(explicit string) (key, source string, err error) {
	if k := strings.TrimSpace(explicit); k != "" {
		return k, SourceExplicit, nil
	}
	if k := strings.TrimSpace(os.Getenv(APIKeyName)); k != "" {
		return k, SourceEnv, nil
	}

	k, err := GetAPIKey()
	switch {
	case err == nil:
		return k, SourceKeyring, nil
	case errors.Is(err, ErrNotFound):
		return "", "", ErrNoAPIKey
	default:
		return "", "", fmt.Errorf("%w (keyring unavailable: %v)", ErrNoAPIKey, err)
	}
}
