package mu

import (
	"context"
	"io"
	"net/http"
)

// HTTPExecutor issues a single HTTP request. *http.Client satisfies it;
// tests substitute recording or failing executors.
type HTTPExecutor interface {
	Do(req *http.Request) (*http.Response, error)
}

// Requester is the request surface resource helpers depend on. It lets the
// facade be exercised against a mock without an HTTP server.
type Requester interface {
	// Execute builds a JSON request, sends it, and maps the response.
	Execute(ctx context.Context, method, path string, payload Params, opts ...CallOption) (*Response, error)

	// Upload sends a single file as the multipart field "files".
	Upload(ctx context.Context, path string, file io.Reader, filename string, opts ...CallOption) (*Response, error)
}
