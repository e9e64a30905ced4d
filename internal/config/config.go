// Package config stores MercadoUnico credentials in the OS keyring and
// resolves the account a command should use.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	serviceName    = "mu-cli"
	defaultProfile = "default"

	envUsername = "MU_USERNAME"
	envPassword = "MU_PASSWORD"
	envSandbox  = "MU_SANDBOX"
	envProfile  = "MU_PROFILE"
	envBaseURL  = "MU_BASE_URL"
)

var userConfigDir = os.UserConfigDir

// Account holds MercadoUnico API credentials.
type Account struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Sandbox  bool   `json:"sandbox,omitempty"`
	// BaseURL overrides the production/sandbox host, e.g. for a mirror.
	BaseURL string `json:"base_url,omitempty"`
}

// ErrNotConfigured is returned when no account is configured
var ErrNotConfigured = errors.New("mercadounico not configured - run 'mu auth login' first")

// ConfigDir returns the per-user directory for mu-cli state.
func ConfigDir() string {
	if dir, err := userConfigDir(); err == nil && strings.TrimSpace(dir) != "" {
		return filepath.Join(dir, serviceName)
	}
	if home, err := os.UserHomeDir(); err == nil && strings.TrimSpace(home) != "" {
		return filepath.Join(home, ".config", serviceName)
	}
	return filepath.Join(os.TempDir(), serviceName)
}

// LoadAccount resolves credentials from the environment, then from the
// profile named by MU_PROFILE, then from the current keyring profile.
func LoadAccount() (Account, error) {
	if account, ok, err := accountFromEnv(); ok || err != nil {
		return account, err
	}

	v, err := openVault()
	if err != nil {
		return Account{}, err
	}
	profile := strings.TrimSpace(os.Getenv(envProfile))
	if profile == "" {
		if profile, err = v.current(); err != nil {
			return Account{}, err
		}
	}
	return v.account(profile)
}

// accountFromEnv reads MU_USERNAME/MU_PASSWORD. ok is false when neither
// is set.
func accountFromEnv() (account Account, ok bool, err error) {
	username := strings.TrimSpace(os.Getenv(envUsername))
	password := os.Getenv(envPassword)
	if username == "" && password == "" {
		return Account{}, false, nil
	}
	if username == "" || password == "" {
		return Account{}, true, fmt.Errorf("environment variables %s and %s must both be set", envUsername, envPassword)
	}
	sandbox, err := envBool(envSandbox)
	if err != nil {
		return Account{}, true, err
	}
	return Account{
		Username: username,
		Password: password,
		Sandbox:  sandbox,
		BaseURL:  strings.TrimSuffix(strings.TrimSpace(os.Getenv(envBaseURL)), "/"),
	}, true, nil
}

func envBool(key string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "", "0", "false", "no", "off":
		return false, nil
	case "1", "true", "yes", "on":
		return true, nil
	default:
		return false, fmt.Errorf("%s must be a boolean (true/false)", key)
	}
}

func firstNonBlankEnv(keys ...string) string {
	for _, key := range keys {
		if trimmed := strings.TrimSpace(os.Getenv(key)); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
