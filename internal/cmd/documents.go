package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mercadounico/mu-cli/internal/iocontext"
	"github.com/mercadounico/mu-cli/mu"
)

func newDocumentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "documents",
		Aliases: []string{"docs", "documentos"},
		Short:   "Upload documents",
	}

	cmd.AddCommand(newDocumentsUploadCmd())

	return cmd
}

func newDocumentsUploadCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a document",
		Long: strings.TrimSpace(`
Upload a file as a document. The file is sent as the multipart field "files";
its content type is detected from the content.

Use "-" to read the document from stdin (--name is then required).
`),
		Example: strings.TrimSpace(`
  mu documents upload escritura.pdf
  mu documents upload ./scan-0001.pdf --name escritura.pdf
  cat plano.png | mu documents upload - --name plano.png
`),
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if path == "-" && strings.TrimSpace(name) == "" {
				return fmt.Errorf("--name is required when reading from stdin")
			}
			target := name
			if strings.TrimSpace(target) == "" {
				target = filepath.Base(path)
			}

			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			resp, previewed, err := callAPI(cmd, client, "upload", "document "+target, func(ctx context.Context, c *mu.Client) (*mu.Response, error) {
				if path == "-" {
					return c.Documents().UploadReader(ctx, iocontext.GetIO(ctx).In, target)
				}
				return c.Documents().Upload(ctx, path, target)
			})
			if err != nil || previewed {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, resp.Value())
			}
			id, _ := resp.String("id")
			printAction(cmd, "Uploaded", "document", id, target)
			return nil
		}),
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Filename to store the document under (defaults to the file's base name)")

	return cmd
}
