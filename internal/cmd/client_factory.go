package cmd

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/mercadounico/mu-cli/internal/config"
	"github.com/mercadounico/mu-cli/internal/debug"
	"github.com/mercadounico/mu-cli/internal/validation"
	"github.com/mercadounico/mu-cli/mu"
)

type clientFactory struct {
	timeout   time.Duration
	userAgent string
	overrides config.Overrides
	debug     bool
}

func newClientFactory(cmd *cobra.Command) *clientFactory {
	return &clientFactory{
		timeout:   flags.Timeout,
		userAgent: fmt.Sprintf("mu-cli/%s (MercadoUnico Go SDK v%s)", version, mu.Version),
		overrides: config.Overrides{
			Profile: flags.Profile,
			Sandbox: flags.Sandbox,
			BaseURL: flags.BaseURL,
		},
		debug: debug.IsEnabled(cmd.Context()),
	}
}

// getClient creates a connected API client from the resolved account.
func getClient(cmd *cobra.Command) (*mu.Client, error) {
	return newClientFactory(cmd).account()
}

func (f *clientFactory) account() (*mu.Client, error) {
	cfg, err := config.ResolveClientConfig(f.overrides)
	if err != nil {
		return nil, err
	}
	return f.newClient(cfg)
}

func (f *clientFactory) newClient(cfg config.ClientConfig) (*mu.Client, error) {
	opts := []mu.Option{mu.WithUserAgent(f.userAgent)}
	if f.timeout > 0 {
		opts = append(opts, mu.WithHTTPClient(&http.Client{Timeout: f.timeout}))
	}
	if cfg.BaseURL != "" {
		if err := validateBaseURL(cfg.BaseURL); err != nil {
			return nil, err
		}
		opts = append(opts, mu.WithBaseURL(cfg.BaseURL))
	}
	if f.debug {
		opts = append(opts, mu.WithLogger(slog.Default()))
	}

	client, err := mu.New(cfg.Username, cfg.Password, cfg.Sandbox, opts...)
	if err != nil {
		return nil, err
	}
	return client.Connect(), nil
}

func validateBaseURL(raw string) error {
	if err := validation.ValidateBaseURL(raw); err != nil {
		return fmt.Errorf("invalid base URL %q: %w", raw, err)
	}
	return nil
}
