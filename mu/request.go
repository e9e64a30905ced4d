package mu

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

// UploadField is the multipart field that carries uploaded documents.
const UploadField = "files"

// Request is a fully built request that has not been sent yet. Headers are
// owned by the request; building one never changes the Client.
type Request struct {
	Method string
	Path   string
	URL    string
	Header http.Header
	Body   []byte
}

// NewRequest builds a JSON API request. POST, PUT and PATCH encode payload as
// the JSON body, GET encodes it as the query string and DELETE ignores it.
func (c *Client) NewRequest(method, path string, payload Params, opts ...CallOption) (*Request, error) {
	method = strings.ToUpper(method)
	req := &Request{
		Method: method,
		Path:   path,
		Header: c.defaultHeaders("application/json"),
	}

	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		if payload == nil {
			payload = Params{}
		}
		body, err := json.Marshal(payload)
		if err != nil {
			return nil, &SerializationError{Code: serializationCode(err), Payload: payload, Err: err}
		}
		req.Body = body
	case http.MethodGet:
		if query := EncodeQuery(payload, c.queryExceptions); query != "" {
			sep := "?"
			if strings.Contains(path, "?") {
				sep = "&"
			}
			req.Path = path + sep + query
		}
	}

	applyCallOptions(req.Header, opts)
	req.URL = c.baseURL + req.Path
	return req, nil
}

// NewUploadRequest builds a multipart POST carrying file as the single field
// "files" with the given target filename. The part's MIME type is detected
// from the content.
func (c *Client) NewUploadRequest(path string, file io.Reader, filename string, opts ...CallOption) (*Request, error) {
	if strings.TrimSpace(filename) == "" {
		return nil, &ValidationError{Field: "filename", Message: "Debe indicar el nombre del documento."}
	}
	if file == nil {
		return nil, &ValidationError{Field: "file", Message: "Debe indicar el documento a subir."}
	}

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read document %s: %w", filename, err)
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	partHeader := make(textproto.MIMEHeader)
	partHeader.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="%s"; filename="%s"`, UploadField, escapeQuotes(filename)))
	partHeader.Set("Content-Type", mimetype.Detect(content).String())

	part, err := writer.CreatePart(partHeader)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file %s: %w", filename, err)
	}
	if _, err := part.Write(content); err != nil {
		return nil, fmt.Errorf("failed to write file content %s: %w", filename, err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req := &Request{
		Method: http.MethodPost,
		Path:   path,
		Header: c.defaultHeaders(writer.FormDataContentType()),
		Body:   body.Bytes(),
	}
	applyCallOptions(req.Header, opts)
	req.URL = c.baseURL + req.Path
	return req, nil
}

func (c *Client) defaultHeaders(contentType string) http.Header {
	h := http.Header{}
	h.Set("Accept", "application/json")
	h.Set("Content-Type", contentType)
	if c.UserAgent != "" {
		h.Set("User-Agent", c.UserAgent)
	}
	if c.token != "" {
		h.Set("Authorization", "Basic "+c.token)
	}
	return h
}

func applyCallOptions(h http.Header, opts []CallOption) {
	co := collectCallOptions(opts)
	for k, vs := range co.headers {
		h.Del(k)
		for _, v := range vs {
			h.Add(k, v)
		}
	}
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

// Execute builds, sends and maps a JSON API request.
func (c *Client) Execute(ctx context.Context, method, path string, payload Params, opts ...CallOption) (*Response, error) {
	req, err := c.NewRequest(method, path, payload, opts...)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, req)
}

// Upload builds, sends and maps a multipart document upload.
func (c *Client) Upload(ctx context.Context, path string, file io.Reader, filename string, opts ...CallOption) (*Response, error) {
	req, err := c.NewUploadRequest(path, file, filename, opts...)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, req)
}

// Do sends a built request with one round-trip and maps the response to a
// *Response or an error.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	var bodyReader io.Reader
	if req.Body != nil {
		bodyReader = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}

	start := time.Now()
	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Method: req.Method, URL: req.URL, Err: err}
	}
	raw, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return nil, &TransportError{Method: req.Method, URL: req.URL, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if c.Logger != nil {
		c.Logger.DebugContext(ctx, "request complete",
			"method", req.Method,
			"url", req.URL,
			"status", resp.StatusCode,
			"duration", time.Since(start),
			"headers", RedactHeaders(req.Header))
	}

	return mapResponse(resp.StatusCode, resp.Header, raw)
}

// mapResponse turns a raw status and body into a *Response or an error.
func mapResponse(status int, header http.Header, raw []byte) (*Response, error) {
	value, decodeErr := decodeBody(raw)

	if status >= http.StatusBadRequest {
		data, _ := value.(map[string]any)
		if data == nil {
			data = map[string]any{}
		}
		msg := DefaultAPIErrorMessage
		if m, ok := data["message"].(string); ok && m != "" {
			msg = m
		}
		return nil, &APIError{
			StatusCode: status,
			Message:    msg,
			Data:       data,
			RequestID:  requestIDFromHeader(header),
		}
	}

	if decodeErr != nil {
		return nil, &MalformedResponseError{StatusCode: status, Body: raw, Err: decodeErr}
	}

	return &Response{
		StatusCode: status,
		Header:     header,
		raw:        raw,
		value:      value,
	}, nil
}

func requestIDFromHeader(header http.Header) string {
	if header == nil {
		return ""
	}
	return header.Get("X-Request-Id")
}

// RedactHeaders returns a copy of h with credentials masked, for logs and
// request previews.
func RedactHeaders(h http.Header) http.Header {
	if h == nil {
		return nil
	}
	cp := http.Header{}
	for k, vs := range h {
		for _, v := range vs {
			if strings.EqualFold(k, "Authorization") {
				scheme, _, _ := strings.Cut(v, " ")
				cp.Add(k, scheme+" ********")
				continue
			}
			cp.Add(k, v)
		}
	}
	return cp
}
