package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mercadounico/mu-cli/internal/dryrun"
	"github.com/mercadounico/mu-cli/internal/iocontext"
	"github.com/mercadounico/mu-cli/mu"
)

var propertyColumns = []string{"id", "titulo", "operacion", "tipo_propiedad", "ciudad", "precio"}

func newPropertiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "properties",
		Aliases: []string{"property", "props", "propiedades"},
		Short:   "Manage property listings",
	}

	cmd.AddCommand(newPropertiesListCmd())
	cmd.AddCommand(newPropertiesGetCmd())
	cmd.AddCommand(newPropertiesCreateCmd())
	cmd.AddCommand(newPropertiesUpdateCmd())
	cmd.AddCommand(newPropertiesScopesCmd())
	cmd.AddCommand(newPropertiesDeleteCmd())

	return cmd
}

func newPropertiesListCmd() *cobra.Command {
	var (
		params      []string
		rawParams   []string
		scopes      string
		clearScopes bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List properties",
		Long: strings.TrimSpace(`
List properties. Filters are sent as query parameters.

--clear-scopes sends an explicit empty scopes filter (scopes[]=), which the API
treats differently from not filtering by scope at all.
`),
		Example: strings.TrimSpace(`
  mu properties list --param operacion=venta
  mu properties list --scopes portal,web --json
  mu properties list --clear-scopes
  mu properties list --raw-param 'precio={"min":1000,"max":5000}'
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if scopes != "" && clearScopes {
				return fmt.Errorf("--scopes and --clear-scopes cannot be used together")
			}

			query, err := buildRequestBody(params, rawParams, nil, "")
			if err != nil {
				return err
			}
			if scopes != "" {
				query["scopes"] = splitCommaList(scopes)
			}
			if clearScopes {
				query["scopes"] = []string{}
			}

			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			resp, previewed, err := callAPI(cmd, client, "list", "properties", func(ctx context.Context, c *mu.Client) (*mu.Response, error) {
				return c.Properties().List(ctx, query)
			})
			if err != nil || previewed {
				return err
			}
			return printResponse(cmd, resp, propertyColumns...)
		}),
	}

	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "Query parameter as key=value (repeatable)")
	cmd.Flags().StringArrayVarP(&rawParams, "raw-param", "P", nil, "Query parameter as key=json (arrays and objects are expanded)")
	cmd.Flags().StringVar(&scopes, "scopes", "", "Comma-separated publication scopes to filter by")
	cmd.Flags().BoolVar(&clearScopes, "clear-scopes", false, "Send an explicit empty scopes filter")

	return cmd
}

func newPropertiesGetCmd() *cobra.Command {
	var concurrency int64

	cmd := &cobra.Command{
		Use:     "get <id>...",
		Aliases: []string{"show"},
		Short:   "Show one or more properties",
		Example: strings.TrimSpace(`
  mu properties get 42
  mu properties get 42 43 44 --json
`),
		Args: cobra.MinimumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient(cmd)
			if err != nil {
				return err
			}

			if len(args) == 1 {
				resp, previewed, err := callAPI(cmd, client, "get", "property "+args[0], func(ctx context.Context, c *mu.Client) (*mu.Response, error) {
					return c.Properties().Find(ctx, args[0])
				})
				if err != nil || previewed {
					return err
				}
				return printResponse(cmd, resp, propertyColumns...)
			}

			return runBulk(cmd, client, "get", "Fetched", args, concurrency, func(ctx context.Context, c *mu.Client, id string) (*mu.Response, error) {
				return c.Properties().Find(ctx, id)
			})
		}),
	}

	cmd.Flags().Int64Var(&concurrency, "concurrency", DefaultConcurrency, "Parallel requests when several ids are given")

	return cmd
}

func newPropertiesCreateCmd() *cobra.Command {
	var body bodyFlags

	cmd := &cobra.Command{
		Use:     "create",
		Aliases: []string{"new"},
		Short:   "Publish a new property",
		Example: strings.TrimSpace(`
  mu properties create -i propiedad.json
  mu properties create -f titulo="Casa en el centro" -F precio=125000 -F ambientes=4
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if !body.set() {
				return fmt.Errorf("a body is required: use --body, --input, --field or --raw-field")
			}
			data, err := body.params(cmd)
			if err != nil {
				return err
			}

			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			resp, previewed, err := callAPI(cmd, client, "create", "property", func(ctx context.Context, c *mu.Client) (*mu.Response, error) {
				return c.Properties().Create(ctx, data)
			})
			if err != nil || previewed {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, resp.Value())
			}
			id, _ := resp.String("id")
			title, _ := resp.String("titulo")
			printAction(cmd, "Created", "property", id, title)
			return nil
		}),
	}

	body.register(cmd)

	return cmd
}

func newPropertiesUpdateCmd() *cobra.Command {
	var body bodyFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update fields of a property",
		Example: strings.TrimSpace(`
  mu properties update 42 -F precio=130000
  mu properties update 42 -d '{"descripcion":"Reciclada a nuevo"}'
`),
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if !body.set() {
				return fmt.Errorf("nothing to update: use --body, --input, --field or --raw-field")
			}
			data, err := body.params(cmd)
			if err != nil {
				return err
			}

			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			resp, previewed, err := callAPI(cmd, client, "update", "property "+args[0], func(ctx context.Context, c *mu.Client) (*mu.Response, error) {
				return c.Properties().Update(ctx, args[0], data)
			})
			if err != nil || previewed {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, resp.Value())
			}
			printAction(cmd, "Updated", "property", args[0], "")
			return nil
		}),
	}

	body.register(cmd)

	return cmd
}

func newPropertiesScopesCmd() *cobra.Command {
	var (
		body   bodyFlags
		scopes string
	)

	cmd := &cobra.Command{
		Use:   "scopes <id>",
		Short: "Replace the publication scopes of a property",
		Example: strings.TrimSpace(`
  mu properties scopes 42 --set portal,web
  mu properties scopes 42 -d '{"scopes":[]}'
`),
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			setChanged := cmd.Flags().Changed("set")
			if !setChanged && !body.set() {
				return fmt.Errorf("scopes are required: use --set or a body flag")
			}
			data, err := body.params(cmd)
			if err != nil {
				return err
			}
			if setChanged {
				list := splitCommaList(scopes)
				if list == nil {
					list = []string{}
				}
				data["scopes"] = list
			}

			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			resp, previewed, err := callAPI(cmd, client, "update scopes of", "property "+args[0], func(ctx context.Context, c *mu.Client) (*mu.Response, error) {
				return c.Properties().UpdateScopes(ctx, args[0], data)
			})
			if err != nil || previewed {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, resp.Value())
			}
			printAction(cmd, "Updated scopes of", "property", args[0], "")
			return nil
		}),
	}

	cmd.Flags().StringVar(&scopes, "set", "", "Comma-separated scopes (empty clears them)")
	body.register(cmd)

	return cmd
}

func newPropertiesDeleteCmd() *cobra.Command {
	var concurrency int64

	cmd := &cobra.Command{
		Use:     "delete <id>...",
		Aliases: []string{"rm"},
		Short:   "Delete one or more properties",
		Example: strings.TrimSpace(`
  mu properties delete 42
  mu properties delete 42 43 --dry-run
`),
		Args: cobra.MinimumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient(cmd)
			if err != nil {
				return err
			}

			if len(args) == 1 {
				resp, previewed, err := callAPI(cmd, client, "delete", "property "+args[0], func(ctx context.Context, c *mu.Client) (*mu.Response, error) {
					return c.Properties().Delete(ctx, args[0])
				})
				if err != nil || previewed {
					return err
				}
				if isJSON(cmd) {
					return printJSON(cmd, resp.Value())
				}
				printAction(cmd, "Deleted", "property", args[0], "")
				return nil
			}

			return runBulk(cmd, client, "delete", "Deleted", args, concurrency, func(ctx context.Context, c *mu.Client, id string) (*mu.Response, error) {
				return c.Properties().Delete(ctx, id)
			})
		}),
	}

	cmd.Flags().Int64Var(&concurrency, "concurrency", DefaultConcurrency, "Parallel requests when several ids are given")

	return cmd
}

// runBulk applies op to every id. Dry-run previews each request in order
// without running them concurrently.
func runBulk(cmd *cobra.Command, client *mu.Client, operation, action string, ids []string, concurrency int64, op func(ctx context.Context, c *mu.Client, id string) (*mu.Response, error)) error {
	if dryrun.IsEnabled(cmd.Context()) {
		for _, id := range ids {
			if _, _, err := callAPI(cmd, client, operation, "property "+id, func(ctx context.Context, c *mu.Client) (*mu.Response, error) {
				return op(ctx, c, id)
			}); err != nil {
				return err
			}
		}
		return nil
	}

	progress := !isJSON(cmd) && !flags.Quiet && len(ids) > 1
	results := runBulkOperation(cmd.Context(), ids, concurrency, progress, iocontext.GetIO(cmd.Context()).ErrOut,
		func(ctx context.Context, id string) (any, error) {
			resp, err := op(ctx, client, id)
			if err != nil {
				return nil, err
			}
			return resp.Value(), nil
		})
	return printBulkResults(cmd, action, results)
}
