package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/mod/semver"

	"github.com/mercadounico/mu-cli/internal/iocontext"
	"github.com/mercadounico/mu-cli/internal/update"
	"github.com/mercadounico/mu-cli/mu"
)

// version is set at build time via ldflags
var version = "dev"

func newVersionCmd() *cobra.Command {
	var (
		require string
		check   bool
	)

	cmd := &cobra.Command{
		Use:     "version",
		Aliases: []string{"v"},
		Short:   "Print version information",
		Example: strings.TrimSpace(`
  mu version
  mu version --require 1.0.5   # exit non-zero when the SDK is older
  mu version --check           # look for a newer mu-cli release
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if require != "" {
				if err := checkMinimumVersion(mu.Version, require); err != nil {
					return err
				}
			}

			var result *update.CheckResult
			if check {
				result = update.CheckForUpdate(cmd.Context(), nil, version)
			}

			if isJSON(cmd) {
				out := map[string]any{
					"version":     version,
					"sdk_version": mu.Version,
				}
				if result != nil {
					out["update"] = result
				}
				return printJSON(cmd, out)
			}

			ioStreams := iocontext.GetIO(cmd.Context())
			_, _ = fmt.Fprintf(ioStreams.Out, "mu-cli version %s (MercadoUnico Go SDK v%s)\n", version, mu.Version)
			switch {
			case !check:
			case result == nil:
				_, _ = fmt.Fprintln(ioStreams.ErrOut, "Could not check for updates")
			case result.UpdateAvailable:
				_, _ = fmt.Fprintf(ioStreams.Out, "A newer release is available: %s\n  %s\n", result.LatestVersion, result.UpdateURL)
			default:
				_, _ = fmt.Fprintln(ioStreams.Out, "mu-cli is up to date")
			}
			return nil
		}),
	}

	cmd.Flags().StringVar(&require, "require", "", "Fail unless the SDK version is at least this semver")
	cmd.Flags().BoolVar(&check, "check", false, "Check GitHub for a newer mu-cli release")

	return cmd
}

// checkMinimumVersion fails when current is older than minimum.
func checkMinimumVersion(current, minimum string) error {
	cur, want := update.NormalizeVersion(current), update.NormalizeVersion(minimum)
	if !semver.IsValid(want) {
		return fmt.Errorf("invalid argument %q for --require: must be a semantic version", minimum)
	}
	if !semver.IsValid(cur) {
		return fmt.Errorf("current version %q is not a semantic version", current)
	}
	if semver.Compare(cur, want) < 0 {
		return fmt.Errorf("SDK version %s is older than required %s", current, strings.TrimPrefix(minimum, "v"))
	}
	return nil
}
