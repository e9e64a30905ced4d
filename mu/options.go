package mu

import (
	"log/slog"
	"net/http"
	"strings"
)

// Option customizes a Client at construction time.
type Option func(*Client)

// WithHTTPClient replaces the HTTP executor. Passing nil makes New fail with
// a *ConfigurationError.
func WithHTTPClient(h HTTPExecutor) Option { return func(c *Client) { c.HTTP = h } }

func WithUserAgent(ua string) Option   { return func(c *Client) { c.UserAgent = ua } }
func WithLogger(l *slog.Logger) Option { return func(c *Client) { c.Logger = l } }
func WithBaseURL(u string) Option      { return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") } }
func WithToken(token string) Option    { return func(c *Client) { c.token = token } }

// WithQueryExceptions replaces the set of query parameters that are sent as
// name[]= when empty.
func WithQueryExceptions(names ...string) Option {
	return func(c *Client) { c.queryExceptions = append([]string(nil), names...) }
}

// CallOption customizes a single API call.
type CallOption func(*callOptions)

type callOptions struct {
	headers http.Header
}

// WithHeader sets a header on a single API call, replacing the default value
// for that key.
func WithHeader(key, value string) CallOption {
	return func(co *callOptions) {
		if co.headers == nil {
			co.headers = http.Header{}
		}
		co.headers.Set(key, value)
	}
}

func collectCallOptions(opts []CallOption) *callOptions {
	co := &callOptions{}
	for _, o := range opts {
		if o != nil {
			o(co)
		}
	}
	return co
}
