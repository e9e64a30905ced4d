package mu

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Response wraps a decoded success body and its status code. Statuses in
// [200, 400) are all successes; the exact code is exposed as-is.
type Response struct {
	StatusCode int
	Header     http.Header

	raw   []byte
	value any
}

// Body returns the decoded body as an object. Non-object bodies yield an
// empty, non-nil map.
func (r *Response) Body() map[string]any {
	if m, ok := r.value.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

// Get looks up a top-level field. ok is false when the body is not an object
// or the key is absent.
func (r *Response) Get(key string) (any, bool) {
	m, isObject := r.value.(map[string]any)
	if !isObject {
		return nil, false
	}
	v, ok := m[key]
	return v, ok
}

// String looks up a top-level field and renders scalars as strings. Numbers
// keep their original JSON text.
func (r *Response) String(key string) (string, bool) {
	v, ok := r.Get(key)
	if !ok || v == nil {
		return "", false
	}
	switch val := v.(type) {
	case string:
		return val, true
	case json.Number:
		return val.String(), true
	case bool:
		return fmt.Sprint(val), true
	default:
		return "", false
	}
}

// Int64 looks up a numeric top-level field.
func (r *Response) Int64(key string) (int64, bool) {
	v, ok := r.Get(key)
	if !ok {
		return 0, false
	}
	n, isNumber := v.(json.Number)
	if !isNumber {
		return 0, false
	}
	i, err := n.Int64()
	if err != nil {
		return 0, false
	}
	return i, true
}

// Items returns the body when the API answered with a top-level JSON array.
func (r *Response) Items() ([]any, bool) {
	items, ok := r.value.([]any)
	return items, ok
}

// Value returns the decoded body as produced by the JSON decoder.
func (r *Response) Value() any {
	return r.value
}

// Raw returns the undecoded response body.
func (r *Response) Raw() []byte {
	return r.raw
}

// Decode unmarshals the raw body into v.
func (r *Response) Decode(v any) error {
	if len(bytes.TrimSpace(r.raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.raw, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeBody decodes a response body, preserving numbers as json.Number. An
// empty body or JSON null decodes to an empty object.
func decodeBody(raw []byte) (any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return map[string]any{}, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("trailing data after JSON value")
	}
	if v == nil {
		return map[string]any{}, nil
	}
	return v, nil
}
