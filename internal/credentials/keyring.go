package credentials

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	// KeyringServicePrefix is the prefix for all qatrack keyring entries
	KeyringServicePrefix = "qatrack"
)

// getServiceName returns the keyring service name for a gateway
func getServiceName(gatewayName string) string {
	return fmt.Sprintf("%s-%s", KeyringServicePrefix, gatewayName)
}

// Set stores an API token in the OS keyring. account is usually the server host.
func Set(gatewayName, account, token string) error {
	if gatewayName == "" {
		return fmt.Errorf("gateway name cannot be empty")
	}
	if account == "" {
		return fmt.Errorf("account cannot be empty")
	}
	if token == "" {
		return fmt.Errorf("token cannot be empty")
	}

	if err := keyring.Set(getServiceName(gatewayName), account, token); err != nil {
		return fmt.Errorf("failed to store token in keyring: %w", err)
	}
	return nil
}

// Get retrieves an API token from the OS keyring
func Get(gatewayName, account string) (string, error) {
	if gatewayName == "" {
		return "", fmt.Errorf("gateway name cannot be empty")
	}
	if account == "" {
		return "", fmt.Errorf("account cannot be empty")
	}

	token, err := keyring.Get(getServiceName(gatewayName), account)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", fmt.Errorf("no token found in keyring for gateway %q and account %q", gatewayName, account)
		}
		return "", fmt.Errorf("failed to retrieve token from keyring: %w", err)
	}
	return token, nil
}

// Delete removes an API token from the OS keyring
func Delete(gatewayName, account string) error {
	if gatewayName == "" {
		return fmt.Errorf("gateway name cannot be empty")
	}
	if account == "" {
		return fmt.Errorf("account cannot be empty")
	}

	if err := keyring.Delete(getServiceName(gatewayName), account); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no token found in keyring for gateway %q and account %q", gatewayName, account)
		}
		return fmt.Errorf("failed to delete token from keyring: %w", err)
	}
	return nil
}

// IsAvailable checks if the keyring is accessible
func IsAvailable() bool {
	// ErrNotFound means the keyring answered
	_, err := keyring.Get(KeyringServicePrefix+"-keyring-test", "test")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
