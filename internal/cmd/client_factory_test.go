package cmd

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mercadounico/mu-cli/internal/config"
	"github.com/mercadounico/mu-cli/internal/debug"
	"github.com/mercadounico/mu-cli/mu"
)

func newFactoryCommand(debugEnabled bool) *cobra.Command {
	cmd := &cobra.Command{Use: "x"}
	cmd.SetContext(debug.WithDebug(context.Background(), debugEnabled))
	return cmd
}

func TestClientFactory_NewClient(t *testing.T) {
	isolateEnv(t)
	flags = defaultFlags()
	flags.Timeout = 5 * time.Second
	t.Cleanup(func() { flags = defaultFlags() })

	f := newClientFactory(newFactoryCommand(true))
	assert.True(t, f.debug)
	assert.True(t, strings.HasPrefix(f.userAgent, "mu-cli/dev (MercadoUnico Go SDK v"+mu.Version))

	client, err := f.newClient(config.ClientConfig{
		Username: testUsername,
		Password: testPassword,
		Sandbox:  true,
	})
	require.NoError(t, err)
	assert.True(t, client.Connected())
	assert.Equal(t, f.userAgent, client.UserAgent)
	assert.NotNil(t, client.Logger)

	httpClient, ok := client.HTTP.(*http.Client)
	require.True(t, ok)
	assert.Equal(t, 5*time.Second, httpClient.Timeout)

	req, err := client.NewRequest(http.MethodGet, "/operaciones", nil)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(req.URL, mu.SandboxAPIBaseURL))
	assert.Equal(t, "Basic "+testToken, req.Header.Get("Authorization"))
}

func TestClientFactory_BaseURLOverride(t *testing.T) {
	isolateEnv(t)
	flags = defaultFlags()
	t.Cleanup(func() { flags = defaultFlags() })

	f := newClientFactory(newFactoryCommand(false))
	assert.False(t, f.debug)

	client, err := f.newClient(config.ClientConfig{
		Username: testUsername,
		Password: testPassword,
		BaseURL:  "http://localhost:8080",
	})
	require.NoError(t, err)
	assert.Nil(t, client.Logger)

	req, err := client.NewRequest(http.MethodGet, "/operaciones", nil)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/operaciones", req.URL)
}

func TestGetClient_NotConfigured(t *testing.T) {
	isolateEnv(t)
	flags = defaultFlags()
	t.Cleanup(func() { flags = defaultFlags() })

	_, err := getClient(newFactoryCommand(false))
	assert.ErrorIs(t, err, config.ErrNotConfigured)
}
