package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

const envFileVar = "MU_ENV_FILE"

// DefaultEnvFile is the dotenv file read when MU_ENV_FILE is unset.
func DefaultEnvFile() string {
	return filepath.Join(ConfigDir(), ".env")
}

// LoadEnvFile loads MU_* variables from a dotenv file. Variables already set
// in the process environment are kept. An explicit path must exist; the
// default file is optional.
func LoadEnvFile(path string) error {
	explicit := strings.TrimSpace(path)
	if explicit == "" {
		explicit = strings.TrimSpace(os.Getenv(envFileVar))
	}
	if explicit != "" {
		if err := godotenv.Load(explicit); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", explicit, err)
		}
		return nil
	}

	if err := godotenv.Load(DefaultEnvFile()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load env file %s: %w", DefaultEnvFile(), err)
	}
	return nil
}

// ReadEnvFile parses a dotenv file without touching the process environment.
func ReadEnvFile(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read env file %s: %w", path, err)
	}
	return values, nil
}

// AccountFromEnvFile builds an account from the MU_* entries of a dotenv file.
func AccountFromEnvFile(path string) (Account, error) {
	values, err := ReadEnvFile(path)
	if err != nil {
		return Account{}, err
	}
	account := Account{
		Username: strings.TrimSpace(values[envUsername]),
		Password: values[envPassword],
		BaseURL:  strings.TrimSuffix(strings.TrimSpace(values[envBaseURL]), "/"),
	}
	switch strings.ToLower(strings.TrimSpace(values[envSandbox])) {
	case "1", "true", "yes", "on":
		account.Sandbox = true
	}
	if account.Username == "" || account.Password == "" {
		return Account{}, fmt.Errorf("%s must define %s and %s", path, envUsername, envPassword)
	}
	return account, nil
}
