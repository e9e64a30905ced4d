package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mercadounico/mu-cli/internal/cache"
	"github.com/mercadounico/mu-cli/internal/iocontext"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage cached catalog listings",
		Long: `City and property type listings used to resolve names are cached for
five minutes per host and user. Set MU_NO_CACHE=1 to bypass the cache.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove all cached listings",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			dir, err := cache.DefaultDir()
			if err != nil {
				return fmt.Errorf("failed to locate cache dir: %w", err)
			}
			removed, err := cache.ClearAll(dir)
			if err != nil {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"removed": removed})
			}
			if !flags.Quiet {
				_, _ = fmt.Fprintf(iocontext.GetIO(cmd.Context()).Out, "Removed %d cached listing(s)\n", removed)
			}
			return nil
		}),
	})

	return cmd
}
