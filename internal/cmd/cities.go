package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mercadounico/mu-cli/mu"
)

var cityColumns = []string{"id", "nombre", "provincia"}

func newCitiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "cities",
		Aliases: []string{"city", "ciudades"},
		Short:   "Manage cities",
	}

	cmd.AddCommand(newCitiesListCmd())
	cmd.AddCommand(newCitiesGetCmd())
	cmd.AddCommand(newCitiesCreateCmd())

	return cmd
}

func newCitiesListCmd() *cobra.Command {
	var agency string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List cities",
		Example: strings.TrimSpace(`
  mu cities list
  mu cities list --agency 99
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			resp, previewed, err := callAPI(cmd, client, "list", "cities", func(ctx context.Context, c *mu.Client) (*mu.Response, error) {
				return c.Cities().List(ctx, agency)
			})
			if err != nil || previewed {
				return err
			}
			return printResponse(cmd, resp, cityColumns...)
		}),
	}

	cmd.Flags().StringVar(&agency, "agency", "", "Only cities of this realty agency id")

	return cmd
}

func newCitiesGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <id|name>",
		Short: "Show a city by id or name",
		Example: strings.TrimSpace(`
  mu cities get 12
  mu cities get "mar del plata"
`),
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			id, err := resolveByName(cmd.Context(), client, args[0], "city", func(ctx context.Context) (*mu.Response, error) {
				return client.Cities().List(ctx, "")
			})
			if err != nil {
				return err
			}
			resp, previewed, err := callAPI(cmd, client, "get", "city "+id, func(ctx context.Context, c *mu.Client) (*mu.Response, error) {
				return c.Cities().Find(ctx, id)
			})
			if err != nil || previewed {
				return err
			}
			return printResponse(cmd, resp)
		}),
	}

	return cmd
}

func newCitiesCreateCmd() *cobra.Command {
	var body bodyFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a new city",
		Example: strings.TrimSpace(`
  mu cities create -f nombre="Villa Gesell" -F provincia_id=1
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
			resp, previewed, err := callAPI(cmd, client, "create", "city", func(ctx context.Context, c *mu.Client) (*mu.Response, error) {
				return c.Cities().Create(ctx, data)
			})
			if err != nil || previewed {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, resp.Value())
			}
			id, _ := resp.String("id")
			name, _ := resp.String("nombre")
			printAction(cmd, "Created", "city", id, name)
			return nil
		}),
	}

	body.register(cmd)

	return cmd
}
