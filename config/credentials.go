package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrCredentialMissing is returned when no API key is available for the
// configured provider.
var ErrCredentialMissing = errors.New("API key not configured")

// CredentialEnvVar returns the environment variable holding the API key for
// the given provider, e.g. ANTHROPIC_API_KEY.
func CredentialEnvVar(provider string) string {
	return strings.ToUpper(provider) + "_API_KEY"
}

// Credential reads the upstream API key from the environment. It is called on
// every request and never cached, so a rotated key is picked up immediately.
// The <NAME>_FILE variant points at a secret file, as mounted by Docker.
func (c *Config) Credential() (string, error) {
	name := CredentialEnvVar(c.Provider)
	if key := strings.TrimSpace(os.Getenv(name)); key != "" {
		return key, nil
	}

	keyFile := os.Getenv(name + "_FILE")
	if keyFile == "" {
		return "", ErrCredentialMissing
	}

	data, err := os.ReadFile(keyFile)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read %s_FILE: %v", ErrCredentialMissing, name, err)
	}

	key := strings.TrimSpace(string(data))
	if key == "" {
		return "", fmt.Errorf("%w: %s_FILE is empty", ErrCredentialMissing, name)
	}
	return key, nil
}
