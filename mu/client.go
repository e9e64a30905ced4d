// Package mu is a Go client for the MercadoUnico real-estate listing API.
//
// A Client is built with credentials and a sandbox flag, then connected once
// with Connect, which derives the Basic token reused by every request:
//
//	client, err := mu.New("user", "secret", true)
//	if err != nil {
//		return err
//	}
//	client.Connect()
//	resp, err := client.Properties().Find(ctx, "42")
//
// Every operation performs exactly one HTTP round-trip and returns either a
// *Response or one of the error types in errors.go.
package mu

import (
	"crypto/tls"
	"encoding/base64"
	"log/slog"
	"net/http"
	"reflect"
	"time"
)

const (
	// Version is the SDK version reported in the User-Agent header.
	Version = "1.0.5"

	APIBaseURL        = "https://api.mercado-unico.com"
	SandboxAPIBaseURL = "https://api.prop44.info"

	DefaultTimeout = 30 * time.Second
)

// DefaultQueryExceptions lists the query parameters sent as an explicit empty
// array marker (name[]=) when present but empty.
var DefaultQueryExceptions = []string{"scopes"}

// Client is the MercadoUnico API client.
//
// The only state written after construction is the token, set by Connect.
// Callers sharing a Client across goroutines must not call Connect
// concurrently with requests.
type Client struct {
	HTTP      HTTPExecutor
	UserAgent string
	Logger    *slog.Logger

	username        string
	password        string
	sandbox         bool
	baseURL         string
	token           string
	queryExceptions []string
}

// Compile-time interface implementation checks
var (
	_ Requester    = (*Client)(nil)
	_ HTTPExecutor = (*http.Client)(nil)
)

// New creates a client for the production or sandbox API. It fails with a
// *ConfigurationError when the options leave it without an HTTP executor.
func New(username, password string, sandbox bool, opts ...Option) (*Client, error) {
	c := &Client{
		HTTP:            newDefaultHTTPClient(),
		UserAgent:       "MercadoUnico Go SDK v" + Version,
		username:        username,
		password:        password,
		sandbox:         sandbox,
		baseURL:         APIBaseURL,
		queryExceptions: append([]string(nil), DefaultQueryExceptions...),
	}
	if sandbox {
		c.baseURL = SandboxAPIBaseURL
	}
	for _, opt := range opts {
		opt(c)
	}
	if isNilExecutor(c.HTTP) {
		return nil, &ConfigurationError{Reason: "no HTTP executor configured"}
	}
	return c, nil
}

// isNilExecutor also catches typed nils such as a nil *http.Client stored
// in the interface.
func isNilExecutor(h HTTPExecutor) bool {
	if h == nil {
		return true
	}
	v := reflect.ValueOf(h)
	switch v.Kind() {
	case reflect.Pointer, reflect.Func, reflect.Map, reflect.Slice, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}

func newDefaultHTTPClient() *http.Client {
	baseTransport, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		baseTransport = &http.Transport{}
	}
	transport := baseTransport.Clone()
	if transport.TLSClientConfig == nil {
		transport.TLSClientConfig = &tls.Config{}
	} else {
		transport.TLSClientConfig = transport.TLSClientConfig.Clone()
	}
	transport.TLSClientConfig.MinVersion = tls.VersionTLS12

	return &http.Client{
		Timeout:   DefaultTimeout,
		Transport: transport,
	}
}

// ComputeToken returns the Basic credential for username and password.
func ComputeToken(username, password string) string {
	return base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
}

// Connect derives the access token from the client credentials and caches it
// for all subsequent requests. A token supplied with WithToken is kept when
// the client has no username.
func (c *Client) Connect() *Client {
	if c.username == "" && c.token != "" {
		return c
	}
	c.token = ComputeToken(c.username, c.password)
	return c
}

// Connected reports whether requests will carry an Authorization header.
func (c *Client) Connected() bool {
	return c.token != ""
}

// IsSandbox reports whether the client targets the sandbox API.
func (c *Client) IsSandbox() bool {
	return c.sandbox
}

// BaseURL returns the API origin requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Username returns the configured account name.
func (c *Client) Username() string {
	return c.username
}
