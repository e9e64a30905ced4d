package cmd

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPI_GetWithQuery(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/propiedades", jsonResponse(200, `[{"id": 1}]`))
	setupTestEnvWithHandler(t, handler)

	stdout, _, err := runCommand(t, "", "api", "propiedades", "-f", "operacion=venta", "-F", "scopes=[]")
	require.NoError(t, err)

	rows, ok := decodeJSON(t, stdout).([]any)
	require.True(t, ok)
	assert.Len(t, rows, 1)

	reqs := handler.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "operacion=venta&scopes[]=", reqs[0].RawQuery)
}

func TestAPI_PatchBody(t *testing.T) {
	handler := newRouteHandler().
		On("PATCH", "/propiedades/42", jsonResponse(200, `{"id": 42}`))
	setupTestEnvWithHandler(t, handler)

	_, _, err := runCommand(t, "", "api", "/propiedades/42", "-X", "patch", "-d", `{"precio": 130000}`)
	require.NoError(t, err)

	reqs := handler.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPatch, reqs[0].Method)
	assert.JSONEq(t, `{"precio":130000}`, string(reqs[0].Body))
}

func TestAPI_Include(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/operaciones", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Request-Id", "abc")
			_, _ = w.Write([]byte(`[]`))
		})
	setupTestEnvWithHandler(t, handler)

	stdout, _, err := runCommand(t, "", "api", "/operaciones", "--include")
	require.NoError(t, err)
	assert.Contains(t, stdout, "HTTP 200\n")
	assert.Contains(t, stdout, "X-Request-Id: abc\n")

	stdout, _, err = runCommand(t, "", "api", "/operaciones", "--inc", "--json")
	require.NoError(t, err)
	obj := decodeJSONObject(t, stdout)
	assert.Equal(t, float64(200), obj["status"])
	assert.Equal(t, []any{}, obj["body"])
}

func TestAPI_Silent(t *testing.T) {
	handler := newRouteHandler().
		On("DELETE", "/propiedades/42", jsonResponse(200, `{"ok": true}`))
	setupTestEnvWithHandler(t, handler)

	stdout, _, err := runCommand(t, "", "api", "/propiedades/42", "-X", "DELETE", "-s")
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Len(t, handler.Requests(), 1)
}

func TestAPI_Validation(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "bad method", args: []string{"api", "/x", "-X", "TRACE"}, want: "invalid HTTP method"},
		{name: "delete with body", args: []string{"api", "/x", "-X", "DELETE", "-f", "a=b"}, want: "DELETE requests must be sent without a body"},
		{name: "body and input", args: []string{"api", "/x", "-X", "POST", "-d", "{}", "-i", "file.json"}, want: "cannot be used together"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newRouteHandler()
			setupTestEnvWithHandler(t, handler)

			_, stderr, err := runCommand(t, "", tt.args...)
			require.Error(t, err)
			assert.Contains(t, stderr, tt.want)
			assert.Equal(t, exitUsage, ExitCode(err))
			assert.Empty(t, handler.Requests())
		})
	}
}

func TestAPI_ErrorStatus(t *testing.T) {
	handler := newRouteHandler()
	setupTestEnvWithHandler(t, handler)

	_, stderr, err := runCommand(t, "", "api", "/nada")
	require.Error(t, err)
	assert.Equal(t, exitNotFound, ExitCode(err))
	assert.Contains(t, stderr, "API error (HTTP 404)")
}
