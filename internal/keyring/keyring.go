// Package keyring keeps provider API keys in the OS keychain.
package keyring

import (
	"errors"
	"fmt"
	"os"
	"strings"

	zkr "github.com/zalando/go-keyring"
)

const serviceName = "mindsort"

// ErrNotFound is returned when no key is stored for the provider.
var ErrNotFound = errors.New("api key not found in keychain")

func account(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider)) + "-api-key"
}

// GetAPIKey retrieves the API key stored for a provider.
func GetAPIKey(provider string) (string, error) {
	key, err := zkr.Get(serviceName, account(provider))
	if errors.Is(err, zkr.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("keychain get: %w", err)
	}
	return key, nil
}

// SetAPIKey stores the API key for a provider.
func SetAPIKey(provider, key string) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("api key is empty")
	}
	return zkr.Set(serviceName, account(provider), key)
}

// DeleteAPIKey removes the stored key. Deleting a missing key is not an error.
func DeleteAPIKey(provider string) error {
	err := zkr.Delete(serviceName, account(provider))
	if errors.Is(err, zkr.ErrNotFound) {
		return nil
	}
	return err
}

// Available returns true if the OS keychain is functional.
// Returns false if MINDSORT_KEYRING_DISABLED=1 is set (headless/CI/Docker).
func Available() bool {
	if os.Getenv("MINDSORT_KEYRING_DISABLED") == "1" {
		return false
	}
	testService := "mindsort-keyring-check"
	testAccount := "availability"
	if err := zkr.Set(testService, testAccount, "ok"); err != nil {
		return false
	}
	_ = zkr.Delete(testService, testAccount)
	return true
}

// ResolveAPIKey returns configured when set, otherwise the keychain entry
// for the provider. A missing or unavailable keychain yields "".
func ResolveAPIKey(provider, configured string) string {
	if configured != "" {
		return configured
	}
	if !Available() {
		return ""
	}
	key, err := GetAPIKey(provider)
	if err != nil {
		return ""
	}
	return key
}
