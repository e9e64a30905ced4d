package mu

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const documentsPath = "/documentos"

// Upload sends the file at path as a document. filename is the name the API
// stores it under; it defaults to the base name of path.
func (s DocumentsService) Upload(ctx context.Context, path, filename string, opts ...CallOption) (*Response, error) {
	if strings.TrimSpace(path) == "" {
		return nil, &ValidationError{Field: "file", Message: "Debe indicar el documento a subir."}
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	defer func() { _ = f.Close() }()

	if strings.TrimSpace(filename) == "" {
		filename = filepath.Base(path)
	}
	return uploadDocument(ctx, s.Client, f, filename, opts...)
}

// UploadReader sends the content of r as a document named filename.
func (s DocumentsService) UploadReader(ctx context.Context, r io.Reader, filename string, opts ...CallOption) (*Response, error) {
	return uploadDocument(ctx, s.Client, r, filename, opts...)
}

func uploadDocument(ctx context.Context, r Requester, file io.Reader, filename string, opts ...CallOption) (*Response, error) {
	return r.Upload(ctx, documentsPath, file, filename, opts...)
}
