package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/99designs/keyring"
)

const (
	envKeyringBackend  = "MU_KEYRING_BACKEND"
	envKeyringPassword = "MU_KEYRING_PASSWORD"
	envCredentialsDir  = "MU_CREDENTIALS_DIR"

	keyringBackendAuto   = "auto"
	keyringBackendFile   = "file"
	keyringBackendSystem = "system"
)

var openKeyring = func(cfg keyring.Config) (keyring.Keyring, error) {
	return keyring.Open(cfg)
}

var stdinHasTTY = func() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// SetOpenKeyring replaces the keyring opener and returns a function that
// restores the previous one.
func SetOpenKeyring(fn func(keyring.Config) (keyring.Keyring, error)) func() {
	original := openKeyring
	openKeyring = fn
	return func() { openKeyring = original }
}

// keyringConfig picks the backend from MU_KEYRING_BACKEND. In auto mode the
// encrypted file backend is configured as a fallback, and forced on Linux
// without a D-Bus session where the Secret Service is unreachable.
func keyringConfig() keyring.Config {
	cfg := keyring.Config{ServiceName: serviceName}

	backend := keyringBackendMode()
	if backend == keyringBackendSystem {
		return cfg
	}

	cfg.FileDir = keyringFileDir()
	cfg.FilePasswordFunc = keyringFilePassword
	if shouldForceFileBackend(runtime.GOOS, backend, os.Getenv("DBUS_SESSION_BUS_ADDRESS")) {
		cfg.AllowedBackends = []keyring.BackendType{keyring.FileBackend}
	}
	return cfg
}

func keyringBackendMode() string {
	switch strings.ToLower(firstNonBlankEnv(envKeyringBackend)) {
	case keyringBackendFile:
		return keyringBackendFile
	case keyringBackendSystem, "os", "native":
		return keyringBackendSystem
	default:
		return keyringBackendAuto
	}
}

func shouldForceFileBackend(goos, backend, dbusAddr string) bool {
	switch backend {
	case keyringBackendFile:
		return true
	case keyringBackendAuto:
		return goos == "linux" && strings.TrimSpace(dbusAddr) == ""
	default:
		return false
	}
}

func keyringFileDir() string {
	base := firstNonBlankEnv(envCredentialsDir)
	if base == "" {
		base = ConfigDir()
	}
	return filepath.Join(base, "keyring")
}

func keyringFilePassword(prompt string) (string, error) {
	if password := os.Getenv(envKeyringPassword); strings.TrimSpace(password) != "" {
		return password, nil
	}
	if !stdinHasTTY() {
		return "", fmt.Errorf("set %s when using file keyring in non-interactive environments", envKeyringPassword)
	}
	return keyring.TerminalPrompt(prompt)
}
