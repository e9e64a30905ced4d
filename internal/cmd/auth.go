package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mercadounico/mu-cli/internal/config"
	"github.com/mercadounico/mu-cli/internal/iocontext"
	"github.com/mercadounico/mu-cli/internal/outfmt"
	"github.com/mercadounico/mu-cli/mu"
)

// newAuthCmd returns the auth command with subcommands
func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "auth",
		Aliases: []string{"au"},
		Short:   "Manage authentication credentials",
		Long:    "Configure and manage MercadoUnico API credentials stored securely in your OS keychain.",
	}

	cmd.AddCommand(newAuthLoginCmd())
	cmd.AddCommand(newAuthStatusCmd())
	cmd.AddCommand(newAuthLogoutCmd())
	cmd.AddCommand(newAuthProfilesCmd())
	cmd.AddCommand(newAuthUseCmd())

	return cmd
}

// newAuthLoginCmd creates the auth login command
func newAuthLoginCmd() *cobra.Command {
	var (
		username      string
		password      string
		passwordStdin bool
		envFile       string
		verify        bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Save API credentials",
		Long: strings.TrimSpace(`
Save MercadoUnico credentials securely to your OS keychain.

The account is stored under --profile (default "default") and becomes the
current profile. --sandbox and --base-url are stored with it.
`),
		Example: strings.TrimSpace(`
  # Save production credentials
  mu auth login --username inmobiliaria --password-stdin < secret.txt

  # Save a sandbox profile and check it works
  mu auth login --profile test --sandbox --username demo --password demo --verify

  # Load MU_USERNAME/MU_PASSWORD from a .env file
  mu auth login --env-file .env
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if passwordStdin && password != "" {
				return fmt.Errorf("--password and --password-stdin cannot be used together")
			}

			account := config.Account{
				Username: strings.TrimSpace(username),
				Password: password,
				Sandbox:  flags.Sandbox,
				BaseURL:  strings.TrimSuffix(strings.TrimSpace(flags.BaseURL), "/"),
			}

			if envFile != "" {
				fromFile, err := config.AccountFromEnvFile(envFile)
				if err != nil {
					return err
				}
				if account.Username == "" {
					account.Username = fromFile.Username
				}
				if account.Password == "" && !passwordStdin {
					account.Password = fromFile.Password
				}
				if !flagOrAliasChanged(cmd, "sandbox") {
					account.Sandbox = fromFile.Sandbox
				}
				if account.BaseURL == "" {
					account.BaseURL = fromFile.BaseURL
				}
			}

			if passwordStdin {
				secret, err := readSecret(iocontext.GetIO(cmd.Context()).In)
				if err != nil {
					return err
				}
				account.Password = secret
			}

			if account.Username == "" {
				return fmt.Errorf("--username is required (or use --env-file)")
			}
			if account.Password == "" {
				return fmt.Errorf("--password or --password-stdin is required")
			}

			if account.BaseURL != "" {
				if err := validateBaseURL(account.BaseURL); err != nil {
					return err
				}
			}

			profile := strings.TrimSpace(flags.Profile)
			if profile == "" {
				profile = "default"
			}

			if verify {
				client, err := newClientFactory(cmd).newClient(config.ClientConfig{
					Profile:  profile,
					Username: account.Username,
					Password: account.Password,
					Sandbox:  account.Sandbox,
					BaseURL:  account.BaseURL,
				})
				if err != nil {
					return err
				}
				if _, err := client.Operations().List(cmd.Context()); err != nil {
					return fmt.Errorf("credential check failed: %w", err)
				}
			}

			if err := config.SaveProfile(profile, account); err != nil {
				return fmt.Errorf("failed to save credentials: %w", err)
			}

			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{
					"saved":    true,
					"profile":  profile,
					"username": account.Username,
					"sandbox":  account.Sandbox,
					"host":     hostFor(account.Sandbox, account.BaseURL),
					"verified": verify,
				})
			}

			out := iocontext.GetIO(cmd.Context()).Out
			_, _ = fmt.Fprintln(out, "Authentication credentials saved successfully!")
			_, _ = fmt.Fprintf(out, "  Username: %s\n", account.Username)
			_, _ = fmt.Fprintf(out, "  Host: %s\n", hostFor(account.Sandbox, account.BaseURL))
			if profile != "default" {
				_, _ = fmt.Fprintf(out, "  Profile: %s\n", profile)
			}
			if verify {
				_, _ = fmt.Fprintln(out, "  Verified: yes")
			}
			return nil
		}),
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "API username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "API password (prefer --password-stdin)")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin")
	cmd.Flags().StringVar(&envFile, "env-file", "", "Load MU_USERNAME, MU_PASSWORD and MU_SANDBOX from a .env file")
	cmd.Flags().BoolVar(&verify, "verify", false, "Check the credentials against the API before saving")
	flagAlias(cmd.Flags(), "env-file", "env")

	return cmd
}

func readSecret(in io.Reader) (string, error) {
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read password from stdin: %w", err)
	}
	secret := strings.TrimRight(line, "\r\n")
	if secret == "" {
		return "", fmt.Errorf("no password provided on stdin")
	}
	return secret, nil
}

func hostFor(sandbox bool, baseURL string) string {
	switch {
	case baseURL != "":
		return baseURL
	case sandbox:
		return mu.SandboxAPIBaseURL
	default:
		return mu.APIBaseURL
	}
}

// newAuthStatusCmd creates the auth status command
func newAuthStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show current authentication configuration",
		Long:  "Display the account commands will run as (the password is masked).",
		Example: strings.TrimSpace(`
  # Check authentication status
  mu auth status

  # JSON output for scripting
  mu auth status --json
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			out := iocontext.GetIO(cmd.Context()).Out
			cfg, err := config.ResolveClientConfig(newClientFactory(cmd).overrides)
			if err != nil {
				if errors.Is(err, config.ErrNotConfigured) {
					if isJSON(cmd) {
						return printJSON(cmd, map[string]any{
							"authenticated": false,
							"message":       "Not authenticated. Run 'mu auth login' to configure credentials.",
						})
					}
					_, _ = fmt.Fprintln(out, "Not authenticated.")
					_, _ = fmt.Fprintln(out, "Run 'mu auth login' to configure credentials.")
					return nil
				}
				return fmt.Errorf("failed to load credentials: %w", err)
			}

			source := "keychain"
			if cfg.Profile == "env" {
				source = "env"
			}

			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{
					"authenticated": true,
					"profile":       cfg.Profile,
					"username":      cfg.Username,
					"password":      maskToken(cfg.Password),
					"sandbox":       cfg.Sandbox,
					"host":          hostFor(cfg.Sandbox, cfg.BaseURL),
					"source":        source,
				})
			}

			_, _ = fmt.Fprintln(out, "Authenticated")
			_, _ = fmt.Fprintf(out, "  Username: %s\n", cfg.Username)
			_, _ = fmt.Fprintf(out, "  Password: %s\n", maskToken(cfg.Password))
			_, _ = fmt.Fprintf(out, "  Host: %s\n", hostFor(cfg.Sandbox, cfg.BaseURL))
			if cfg.Sandbox {
				_, _ = fmt.Fprintln(out, "  Sandbox: yes")
			}
			_, _ = fmt.Fprintf(out, "  Profile: %s\n", cfg.Profile)
			_, _ = fmt.Fprintf(out, "  Source: %s\n", source)
			return nil
		}),
	}

	return cmd
}

// newAuthLogoutCmd creates the auth logout command
func newAuthLogoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Remove credentials from keychain",
		Long:  "Delete the stored credentials of --profile (defaults to the current profile).",
		Example: strings.TrimSpace(`
  # Remove the current profile
  mu auth logout

  # Remove a named profile
  mu auth logout --profile test
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			profile := strings.TrimSpace(flags.Profile)
			if profile == "" {
				current, err := config.CurrentProfile()
				if err != nil {
					return err
				}
				profile = current
			}

			if err := config.DeleteProfile(profile); err != nil {
				return fmt.Errorf("failed to remove credentials: %w", err)
			}

			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"removed": true, "profile": profile})
			}
			_, _ = fmt.Fprintf(iocontext.GetIO(cmd.Context()).Out, "Profile %s removed successfully.\n", profile)
			return nil
		}),
	}

	return cmd
}

func newAuthProfilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "profiles",
		Aliases: []string{"ls"},
		Short:   "List saved profiles",
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			profiles, err := config.ListProfiles()
			if err != nil {
				return err
			}
			current, err := config.CurrentProfile()
			if err != nil {
				return err
			}

			rows := make([]map[string]any, 0, len(profiles))
			for _, name := range profiles {
				rows = append(rows, map[string]any{"name": name, "current": name == current})
			}

			ioStreams := iocontext.GetIO(cmd.Context())
			f := outfmt.NewFormatter(cmd.Context(), ioStreams.Out, ioStreams.ErrOut)
			if isJSON(cmd) {
				return f.Output(rows)
			}
			if len(rows) == 0 {
				f.Empty("No profiles saved. Run 'mu auth login'.")
				return nil
			}
			f.StartTable([]string{"CURRENT", "NAME"})
			for _, name := range profiles {
				marker := ""
				if name == current {
					marker = "*"
				}
				f.Row(marker, name)
			}
			return f.EndTable()
		}),
	}
}

func newAuthUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use <profile>",
		Short: "Switch the current profile",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			profile := strings.TrimSpace(args[0])
			if _, err := config.LoadProfile(profile); err != nil {
				if errors.Is(err, config.ErrNotConfigured) {
					return fmt.Errorf("profile %q is not configured", profile)
				}
				return err
			}
			if err := config.SetCurrentProfile(profile); err != nil {
				return err
			}
			printAction(cmd, "Switched to", "profile", profile, "")
			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"current": profile})
			}
			return nil
		}),
	}
}

// maskToken masks a secret for display, showing only first and last 4 characters
func maskToken(token string) string {
	if len(token) < 8 {
		return strings.Repeat("*", len(token))
	}
	return token[:4] + strings.Repeat("*", len(token)-8) + token[len(token)-4:]
}
