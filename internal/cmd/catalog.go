package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mercadounico/mu-cli/internal/validation"
	"github.com/mercadounico/mu-cli/mu"
)

func newPropertyTypesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "property-types",
		Aliases: []string{"types", "tipos"},
		Short:   "Browse property types",
	}

	cmd.AddCommand(&cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List property types",
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			resp, previewed, err := callAPI(cmd, client, "list", "property types", func(ctx context.Context, c *mu.Client) (*mu.Response, error) {
				return c.PropertyTypes().List(ctx)
			})
			if err != nil || previewed {
				return err
			}
			return printResponse(cmd, resp, "id", "nombre")
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <id|name>",
		Short: "Show a property type by id or name",
		Example: strings.TrimSpace(`
  mu property-types get 3
  mu property-types get departamento
`),
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			id, err := resolveByName(cmd.Context(), client, args[0], "property type", client.PropertyTypes().List)
			if err != nil {
				return err
			}
			resp, previewed, err := callAPI(cmd, client, "get", "property type "+id, func(ctx context.Context, c *mu.Client) (*mu.Response, error) {
				return c.PropertyTypes().Find(ctx, id)
			})
			if err != nil || previewed {
				return err
			}
			return printResponse(cmd, resp)
		}),
	})

	return cmd
}

func newOperationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "operations",
		Aliases: []string{"ops", "operaciones"},
		Short:   "Browse operation kinds (sale, rent, ...)",
	}

	cmd.AddCommand(&cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List operation kinds",
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			resp, previewed, err := callAPI(cmd, client, "list", "operations", func(ctx context.Context, c *mu.Client) (*mu.Response, error) {
				return c.Operations().List(ctx)
			})
			if err != nil || previewed {
				return err
			}
			return printResponse(cmd, resp, "id", "nombre")
		}),
	})

	return cmd
}

func newAlertsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "alerts",
		Aliases: []string{"alert", "alertas"},
		Short:   "Manage search alerts",
	}

	var body bodyFlags
	create := &cobra.Command{
		Use:   "create",
		Short: "Register a search alert",
		Example: strings.TrimSpace(`
  mu alerts create -f email=cliente@example.com -F filtros='{"operacion":"alquiler"}'
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
			if email, ok := data["email"].(string); ok {
				if err := validation.ValidateEmail(email); err != nil {
					return err
				}
			}
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			resp, previewed, err := callAPI(cmd, client, "create", "alert", func(ctx context.Context, c *mu.Client) (*mu.Response, error) {
				return c.Alerts().Create(ctx, data)
			})
			if err != nil || previewed {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, resp.Value())
			}
			id, _ := resp.String("id")
			printAction(cmd, "Created", "alert", id, "")
			return nil
		}),
	}
	body.register(create)
	cmd.AddCommand(create)

	return cmd
}
