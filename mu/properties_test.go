package mu

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProperties_RequireID(t *testing.T) {
	ops := map[string]func(c *Client) (*Response, error){
		"find": func(c *Client) (*Response, error) {
			return c.Properties().Find(context.Background(), "")
		},
		"update": func(c *Client) (*Response, error) {
			return c.Properties().Update(context.Background(), "", Params{"precio": 1})
		},
		"update scopes": func(c *Client) (*Response, error) {
			return c.Properties().UpdateScopes(context.Background(), " ", Params{"scopes": []string{"web"}})
		},
		"delete": func(c *Client) (*Response, error) {
			return c.Properties().Delete(context.Background(), "")
		},
	}

	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			exec := &recordingExecutor{}
			c := newTestClient(t, "https://api.test", WithHTTPClient(exec))

			resp, err := op(c)
			assert.Nil(t, resp)

			var valErr *ValidationError
			require.ErrorAs(t, err, &valErr)
			assert.Equal(t, MissingPropertyIDMessage, valErr.Message)
			assert.Equal(t, KindValidation, KindOf(err))
			assert.Empty(t, exec.requests, "no HTTP call may be attempted")
		})
	}
}

func TestProperties_RequireIDBeforeRequester(t *testing.T) {
	m := &mockRequester{}
	ctx := context.Background()

	_, err := updateProperty(ctx, m, "", nil)
	assert.True(t, IsValidationError(err))
	_, err = updatePropertyScopes(ctx, m, "", nil)
	assert.True(t, IsValidationError(err))
	_, err = deleteProperty(ctx, m, "")
	assert.True(t, IsValidationError(err))

	assert.Zero(t, m.calls)
}

func TestProperties_Routes(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name   string
		call   func(r Requester) (*Response, error)
		method string
		path   string
	}{
		{"find", func(r Requester) (*Response, error) { return findProperty(ctx, r, "42") }, http.MethodGet, "/propiedades/42"},
		{"list", func(r Requester) (*Response, error) { return listProperties(ctx, r, Params{"page": 1}) }, http.MethodGet, "/propiedades"},
		{"create", func(r Requester) (*Response, error) { return createProperty(ctx, r, Params{"titulo": "Casa"}) }, http.MethodPost, "/propiedades"},
		{"update", func(r Requester) (*Response, error) { return updateProperty(ctx, r, "42", Params{"precio": 10}) }, http.MethodPatch, "/propiedades/42"},
		{"scopes", func(r Requester) (*Response, error) { return updatePropertyScopes(ctx, r, "42", Params{}) }, http.MethodPatch, "/propiedades/42/scopes"},
		{"delete", func(r Requester) (*Response, error) { return deleteProperty(ctx, r, "42") }, http.MethodDelete, "/propiedades/42"},
		{"escaped id", func(r Requester) (*Response, error) { return findProperty(ctx, r, "a/b") }, http.MethodGet, "/propiedades/a%2Fb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mockRequester{}
			_, err := tt.call(m)
			require.NoError(t, err)
			assert.Equal(t, 1, m.calls)
			assert.Equal(t, tt.method, m.method)
			assert.Equal(t, tt.path, m.path)
		})
	}
}

func TestProperties_ListSendsScopesMarker(t *testing.T) {
	var rawQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/propiedades", r.URL.Path)
		rawQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"data": [], "total": 0}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	resp, err := c.Properties().List(context.Background(), Params{"scopes": []string{}, "operacion": "venta"})
	require.NoError(t, err)

	assert.Equal(t, "operacion=venta&scopes[]=", rawQuery)
	total, ok := resp.Int64("total")
	require.True(t, ok)
	assert.Zero(t, total)
}

func TestProperties_CreateSendsJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/propiedades", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "inmobiliaria", user)
		assert.Equal(t, "secreto", pass)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Casa en Yerba Buena", body["titulo"])

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": 7, "titulo": "Casa en Yerba Buena"}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	resp, err := c.Properties().Create(context.Background(), Params{"titulo": "Casa en Yerba Buena"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	id, ok := resp.String("id")
	require.True(t, ok)
	assert.Equal(t, "7", id)
}

func TestProperties_DeleteSendsNoBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/propiedades/42", r.URL.Path)
		assert.Zero(t, r.ContentLength)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	resp, err := c.Properties().Delete(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, resp.Body())
}
