package cmd

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mercadounico/mu-cli/internal/iocontext"
	"github.com/mercadounico/mu-cli/internal/outfmt"
	"github.com/mercadounico/mu-cli/mu"
)

func newAPICmd() *cobra.Command {
	var (
		method         string
		body           bodyFlags
		silent         bool
		includeHeaders bool
	)

	cmd := &cobra.Command{
		Use:   "api <path>",
		Short: "Make raw requests to any MercadoUnico endpoint",
		Long: strings.TrimSpace(`
Make raw requests to any MercadoUnico endpoint, with the same authentication,
headers and error mapping as the dedicated commands.

For GET requests the body flags become query parameters; for POST, PUT and
PATCH they are sent as the JSON body. DELETE sends no body.
`),
		Example: strings.TrimSpace(`
  # GET request (default)
  mu api /propiedades/42

  # Query parameters
  mu api /propiedades -f operacion=venta -F 'scopes=[]'

  # PATCH with an inline JSON body
  mu api /propiedades/42 -X PATCH -d '{"precio":130000}'

  # Show response headers
  mu api /operaciones --include
`),
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if !strings.HasPrefix(path, "/") {
				path = "/" + path
			}

			method = strings.ToUpper(method)
			switch method {
			case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
			default:
				return fmt.Errorf("invalid HTTP method %q: must be one of GET, POST, PUT, PATCH, DELETE", method)
			}

			payload, err := body.params(cmd)
			if err != nil {
				return err
			}
			if method == http.MethodDelete && len(payload) > 0 {
				return fmt.Errorf("DELETE requests must be sent without a body")
			}

			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			resp, previewed, err := callAPI(cmd, client, method, path, func(ctx context.Context, c *mu.Client) (*mu.Response, error) {
				return c.Execute(ctx, method, path, payload)
			})
			if err != nil || previewed {
				return err
			}

			if silent {
				return nil
			}

			if isJSON(cmd) {
				if includeHeaders {
					return printJSON(cmd, map[string]any{
						"status":  resp.StatusCode,
						"headers": resp.Header,
						"body":    resp.Value(),
					})
				}
				return printJSON(cmd, resp.Value())
			}

			out := iocontext.GetIO(cmd.Context()).Out
			if includeHeaders {
				_, _ = fmt.Fprintf(out, "HTTP %d\n", resp.StatusCode)
				keys := make([]string, 0, len(resp.Header))
				for k := range resp.Header {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				for _, k := range keys {
					for _, v := range resp.Header[k] {
						_, _ = fmt.Fprintf(out, "%s: %s\n", k, v)
					}
				}
				_, _ = fmt.Fprintln(out)
			}
			return printRawBody(cmd, resp)
		}),
	}

	cmd.Flags().StringVarP(&method, "method", "X", "GET", "HTTP method (GET, POST, PUT, PATCH, DELETE)")
	cmd.Flags().BoolVarP(&silent, "silent", "s", false, "Suppress output")
	cmd.Flags().BoolVar(&includeHeaders, "include", false, "Include response status and headers in output")
	body.register(cmd)
	flagAlias(cmd.Flags(), "include", "inc")

	return cmd
}

// printRawBody pretty-prints the response body as JSON in text mode.
func printRawBody(cmd *cobra.Command, resp *mu.Response) error {
	if len(resp.Raw()) == 0 {
		return nil
	}
	ioStreams := iocontext.GetIO(cmd.Context())
	return outfmt.WriteJSON(ioStreams.Out, resp.Value())
}
