package config

import (
	"os"
	"strings"
)

// ClientConfig contains resolved API client settings.
type ClientConfig struct {
	Profile  string
	Username string
	Password string
	Sandbox  bool
	BaseURL  string
}

// Overrides are per-invocation settings from command-line flags.
type Overrides struct {
	Profile string
	// Sandbox forces the sandbox host when set; it never forces production.
	Sandbox bool
	BaseURL string
}

// ResolveClientConfig resolves the account a command runs as. A profile
// override wins over MU_PROFILE and the current profile; environment
// credentials win over everything.
func ResolveClientConfig(o Overrides) (ClientConfig, error) {
	var (
		account Account
		profile string
		err     error
	)

	if envAccount, ok, envErr := accountFromEnv(); ok || envErr != nil {
		if envErr != nil {
			return ClientConfig{}, envErr
		}
		account, profile = envAccount, "env"
	} else {
		profile = strings.TrimSpace(o.Profile)
		if profile == "" {
			profile = strings.TrimSpace(os.Getenv(envProfile))
		}
		if profile == "" {
			if profile, err = CurrentProfile(); err != nil {
				return ClientConfig{}, err
			}
		}
		if account, err = LoadProfile(profile); err != nil {
			return ClientConfig{}, err
		}
	}

	cfg := ClientConfig{
		Profile:  profile,
		Username: account.Username,
		Password: account.Password,
		Sandbox:  account.Sandbox || o.Sandbox,
		BaseURL:  account.BaseURL,
	}
	if envURL := strings.TrimSpace(os.Getenv(envBaseURL)); envURL != "" {
		cfg.BaseURL = strings.TrimSuffix(envURL, "/")
	}
	if o.BaseURL != "" {
		cfg.BaseURL = strings.TrimSuffix(o.BaseURL, "/")
	}
	return cfg, nil
}
