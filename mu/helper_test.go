package mu

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// newTestClient creates a connected client pointed at a test server.
func newTestClient(t *testing.T, baseURL string, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{WithBaseURL(baseURL)}, opts...)
	c, err := New("inmobiliaria", "secreto", false, opts...)
	require.NoError(t, err)
	return c.Connect()
}

// recordingExecutor captures requests and answers with a canned response.
type recordingExecutor struct {
	requests []*http.Request
	bodies   [][]byte
	status   int
	body     string
	header   http.Header
	err      error
}

func (e *recordingExecutor) Do(req *http.Request) (*http.Response, error) {
	e.requests = append(e.requests, req)
	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
	}
	e.bodies = append(e.bodies, body)
	if e.err != nil {
		return nil, e.err
	}
	status := e.status
	if status == 0 {
		status = http.StatusOK
	}
	header := e.header
	if header == nil {
		header = http.Header{"Content-Type": []string{"application/json"}}
	}
	return &http.Response{
		StatusCode: status,
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(e.body)),
		Request:    req,
	}, nil
}

// mockRequester records facade calls without building HTTP requests.
type mockRequester struct {
	calls    int
	method   string
	path     string
	payload  Params
	filename string
}

func (m *mockRequester) Execute(_ context.Context, method, path string, payload Params, _ ...CallOption) (*Response, error) {
	m.calls++
	m.method = method
	m.path = path
	m.payload = payload
	return &Response{StatusCode: http.StatusOK, value: map[string]any{}}, nil
}

func (m *mockRequester) Upload(_ context.Context, path string, _ io.Reader, filename string, _ ...CallOption) (*Response, error) {
	m.calls++
	m.method = http.MethodPost
	m.path = path
	m.filename = filename
	return &Response{StatusCode: http.StatusCreated, value: map[string]any{}}, nil
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }
