package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mercadounico/mu-cli/internal/config"
	"github.com/mercadounico/mu-cli/internal/debug"
	"github.com/mercadounico/mu-cli/internal/dryrun"
	"github.com/mercadounico/mu-cli/internal/iocontext"
	"github.com/mercadounico/mu-cli/internal/outfmt"
	"github.com/mercadounico/mu-cli/mu"
)

// rootFlags holds global CLI flags
type rootFlags struct {
	Output   string
	JSON     bool
	Query    string
	Template string
	Compact  bool
	Debug    bool
	DryRun   bool
	Quiet    bool
	Timeout  time.Duration
	Profile  string
	Sandbox  bool
	BaseURL  string
}

// flags holds the global command flags. This is package-level mutable state
// that MUST be reset at the start of every Execute() call. Tests depend on
// this reset to get clean state; any code that reads flags outside of a
// command's RunE is reading stale data from the previous Execute() call.
var flags = defaultFlags()

func defaultFlags() rootFlags {
	return rootFlags{
		Output:  defaultOutput(),
		Timeout: mu.DefaultTimeout,
	}
}

func defaultOutput() string {
	value := strings.TrimSpace(os.Getenv("MU_OUTPUT"))
	if value != "" {
		return normalizeOutputFormat(value)
	}
	return "text"
}

func normalizeOutputFormat(value string) string {
	value = strings.TrimSpace(value)
	if value == "ndjson" {
		return "jsonl"
	}
	return value
}

// Execute runs the root command
func Execute(ctx context.Context, args []string) error {
	// Runs before the flag reset so MU_OUTPUT from the env file is honored.
	if err := config.LoadEnvFile(""); err != nil {
		_, _ = fmt.Fprintf(iocontext.GetIO(ctx).ErrOut, "Warning: %v\n", err)
	}

	flags = defaultFlags()

	root := &cobra.Command{
		Use:   "mu",
		Short: "CLI for the MercadoUnico real-estate listing API",
		Long: `mu manages MercadoUnico listings from the command line: properties,
cities, property types, operations, search alerts and documents.

Credentials come from MU_USERNAME/MU_PASSWORD, a .env file, or a profile
saved with 'mu auth login'. Use --sandbox to target the test environment.`,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true, // We provide our own did-you-mean via enhanceUnknownError
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			flags.Output = normalizeOutputFormat(flags.Output)
			if flags.JSON {
				if flagOrAliasChanged(cmd, "output") && flags.Output != "json" {
					return fmt.Errorf("--json conflicts with --output %s", flags.Output)
				}
				flags.Output = "json"
			}
			needsJSON := flags.Query != "" || flags.Template != ""
			if needsJSON && flags.Output != "json" && flags.Output != "jsonl" {
				if flagOrAliasChanged(cmd, "output") {
					return fmt.Errorf("--query/--template require --output json or jsonl (or --json)")
				}
				flags.Output = "json"
			}

			mode, err := outfmt.Parse(flags.Output)
			if err != nil {
				return err
			}
			ctx = outfmt.WithMode(ctx, mode)
			ctx = outfmt.WithCompact(ctx, flags.Compact)

			if flags.Timeout < 0 {
				return fmt.Errorf("--timeout must be >= 0")
			}

			// Quiet drops stderr chatter and text output; JSON still prints.
			ioStreams := iocontext.GetIO(ctx).Copy()
			if flags.Quiet {
				ioStreams.ErrOut = io.Discard
				if mode == outfmt.Text {
					ioStreams.Out = io.Discard
				}
			}
			ctx = iocontext.WithIO(ctx, ioStreams)
			cmd.SetOut(ioStreams.Out)
			cmd.SetErr(ioStreams.ErrOut)

			debug.SetupLoggerTo(ioStreams.ErrOut, flags.Debug)
			ctx = debug.WithDebug(ctx, flags.Debug)

			ctx = dryrun.WithDryRun(ctx, flags.DryRun)

			if flags.Query != "" {
				ctx = outfmt.WithQuery(ctx, flags.Query)
			}
			if flags.Template != "" {
				tmpl, err := loadTemplate(flags.Template)
				if err != nil {
					return err
				}
				ctx = outfmt.WithTemplate(ctx, tmpl)
			}

			cmd.SetContext(ctx)
			return nil
		},
	}

	root.SetContext(ctx)
	root.SetArgs(args)
	streams := iocontext.GetIO(ctx)
	root.SetIn(streams.In)
	root.SetOut(streams.Out)
	root.SetErr(streams.ErrOut)

	root.PersistentFlags().StringVarP(&flags.Output, "output", "o", flags.Output, "Output format: text|json|jsonl|ndjson (env MU_OUTPUT)")
	root.PersistentFlags().BoolVarP(&flags.JSON, "json", "j", false, "Shorthand for --output json")
	root.PersistentFlags().StringVarP(&flags.Query, "query", "q", "", "JQ expression to filter JSON output")
	root.PersistentFlags().StringVar(&flags.Template, "template", "", "Go template string (or @path) to render JSON output")
	root.PersistentFlags().BoolVar(&flags.Compact, "compact-json", false, "Compact JSON output (no indentation)")
	root.PersistentFlags().BoolVar(&flags.Debug, "debug", false, "Log requests to stderr (credentials redacted)")
	root.PersistentFlags().BoolVar(&flags.DryRun, "dry-run", false, "Print the request instead of sending it")
	root.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "Q", false, "Suppress non-essential output")
	root.PersistentFlags().DurationVar(&flags.Timeout, "timeout", flags.Timeout, "HTTP request timeout (e.g., 30s, 2m)")
	root.PersistentFlags().StringVar(&flags.Profile, "profile", "", "Saved profile to use (env MU_PROFILE)")
	root.PersistentFlags().BoolVar(&flags.Sandbox, "sandbox", false, "Use the sandbox API (env MU_SANDBOX)")
	root.PersistentFlags().StringVar(&flags.BaseURL, "base-url", "", "Override the API host (env MU_BASE_URL)")

	// Short aliases for persistent flags
	flagAlias(root.PersistentFlags(), "dry-run", "dr")
	flagAlias(root.PersistentFlags(), "output", "out")
	flagAlias(root.PersistentFlags(), "query", "jq")
	flagAlias(root.PersistentFlags(), "compact-json", "cj")
	flagAlias(root.PersistentFlags(), "template", "tpl")
	flagAlias(root.PersistentFlags(), "timeout", "to")

	root.AddCommand(newAuthCmd())
	root.AddCommand(newPropertiesCmd())
	root.AddCommand(newCitiesCmd())
	root.AddCommand(newPropertyTypesCmd())
	root.AddCommand(newOperationsCmd())
	root.AddCommand(newAlertsCmd())
	root.AddCommand(newDocumentsCmd())
	root.AddCommand(newAPICmd())
	root.AddCommand(newCacheCmd())
	root.AddCommand(newVersionCmd())

	targetCmd, err := root.ExecuteC()
	if err != nil {
		if !errors.Is(err, errAlreadyHandled) {
			enhanced := enhanceUnknownError(err, root, targetCmd)
			_, _ = fmt.Fprintln(root.ErrOrStderr(), enhanced)
		}
		return err
	}
	return nil
}

// enhanceUnknownError adds "did you mean?" suggestions to unknown command/flag errors.
// targetCmd is the command Cobra resolved before the error (may be root itself).
func enhanceUnknownError(err error, root *cobra.Command, targetCmd *cobra.Command) string {
	msg := err.Error()

	if strings.Contains(msg, "unknown command") {
		if unknown := extractQuoted(msg); unknown != "" {
			var names []string
			parent := root
			if targetCmd != nil {
				parent = targetCmd
			}
			for _, c := range parent.Commands() {
				if c.IsAvailableCommand() || c.Name() == "help" {
					names = append(names, c.Name())
					names = append(names, c.Aliases...)
				}
			}
			if suggestion := suggestCommand(unknown, names); suggestion != "" {
				return fmt.Sprintf("%s\n\nDid you mean %q?", msg, suggestion)
			}
		}
	}

	if strings.Contains(msg, "unknown flag") || strings.Contains(msg, "unknown shorthand flag") {
		if unknown := extractFlag(msg); unknown != "" {
			seen := make(map[string]bool)
			var flagNames []string
			addFlags := func(fs *pflag.FlagSet) {
				fs.VisitAll(func(f *pflag.Flag) {
					if f.Hidden {
						return
					}
					name := "--" + f.Name
					if !seen[name] {
						seen[name] = true
						flagNames = append(flagNames, name)
					}
				})
			}
			cmd := root
			if targetCmd != nil {
				cmd = targetCmd
			}
			addFlags(cmd.Flags())
			addFlags(cmd.InheritedFlags())

			helpCmd := strings.TrimSpace(cmd.CommandPath()) + " --help"
			if suggestion := suggestFlag(unknown, flagNames); suggestion != "" {
				return fmt.Sprintf("%s\n\nDid you mean %q?\nRun %q to see supported flags.", msg, suggestion, helpCmd)
			}
			return fmt.Sprintf("%s\n\nRun %q to see supported flags.", msg, helpCmd)
		}
	}

	return msg
}

// extractQuoted extracts the first double-quoted substring from s.
func extractQuoted(s string) string {
	start := strings.IndexByte(s, '"')
	if start < 0 {
		return ""
	}
	end := strings.IndexByte(s[start+1:], '"')
	if end < 0 {
		return ""
	}
	return s[start+1 : start+1+end]
}

// extractFlag extracts a flag name (e.g., "--foo") from an error message.
func extractFlag(s string) string {
	idx := strings.Index(s, "--")
	if idx < 0 {
		// Shorthand errors look like: unknown shorthand flag: 'a' in -a
		idx = strings.LastIndex(s, " -")
		if idx < 0 {
			return ""
		}
		rest := strings.TrimSpace(s[idx+1:])
		if end := strings.IndexByte(rest, ' '); end >= 0 {
			rest = rest[:end]
		}
		rest = strings.TrimRight(rest, ".,;:!?\"'")
		if strings.HasPrefix(rest, "-") && len(rest) > 1 {
			return rest
		}
		return ""
	}
	rest := s[idx:]
	end := strings.IndexByte(rest, ' ')
	if end < 0 {
		end = len(rest)
	}
	rest = rest[:end]
	if eq := strings.IndexByte(rest, '='); eq >= 0 {
		rest = rest[:eq]
	}
	return strings.TrimRight(rest, ".,;:!?\"'")
}

func loadTemplate(value string) (string, error) {
	if strings.HasPrefix(value, "@") {
		path := strings.TrimPrefix(value, "@")
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read template file: %w", err)
		}
		return string(data), nil
	}
	return value, nil
}
