package cmd

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mercadounico/mu-cli/internal/update"
	"github.com/mercadounico/mu-cli/mu"
)

func TestVersionCommand(t *testing.T) {
	isolateEnv(t)

	stdout, _, err := runCommand(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "mu-cli version dev (MercadoUnico Go SDK v"+mu.Version+")\n", stdout)

	stdout, _, err = runCommand(t, "", "version", "--json")
	require.NoError(t, err)
	obj := decodeJSONObject(t, stdout)
	assert.Equal(t, "dev", obj["version"])
	assert.Equal(t, mu.Version, obj["sdk_version"])
}

func TestVersionRequire(t *testing.T) {
	isolateEnv(t)

	_, _, err := runCommand(t, "", "version", "--require", "1.0.0")
	require.NoError(t, err)

	_, stderr, err := runCommand(t, "", "version", "--require", "v99.0.0")
	require.Error(t, err)
	assert.Contains(t, stderr, "is older than required 99.0.0")
	assert.Equal(t, exitGeneric, ExitCode(err))

	_, _, err = runCommand(t, "", "version", "--require", "latest")
	require.Error(t, err)
	assert.Equal(t, exitUsage, ExitCode(err))
}

func TestCheckMinimumVersion(t *testing.T) {
	tests := []struct {
		current, minimum string
		wantErr          bool
	}{
		{"1.0.5", "1.0.5", false},
		{"1.0.5", "v1.0.4", false},
		{"1.0.5", "1.1", true},
		{"1.0.5", "2.0.0", true},
		{"dev", "1.0.0", true},
		{"1.0.5", "not-a-version", true},
	}

	for _, tt := range tests {
		err := checkMinimumVersion(tt.current, tt.minimum)
		if tt.wantErr {
			assert.Error(t, err, "%s >= %s", tt.current, tt.minimum)
		} else {
			assert.NoError(t, err, "%s >= %s", tt.current, tt.minimum)
		}
	}
}

func TestVersionCheck(t *testing.T) {
	isolateEnv(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"tag_name":"v1.4.0","html_url":"https://github.com/mercadounico/mu-cli/releases/tag/v1.4.0"}`))
	}))
	t.Cleanup(server.Close)
	originalURL := update.ReleasesURL
	update.ReleasesURL = server.URL
	t.Cleanup(func() { update.ReleasesURL = originalURL })

	_, stderr, err := runCommand(t, "", "version", "--check")
	require.NoError(t, err)
	assert.Equal(t, "Could not check for updates\n", stderr)

	originalVersion := version
	version = "1.2.0"
	t.Cleanup(func() { version = originalVersion })

	stdout, _, err := runCommand(t, "", "version", "--check")
	require.NoError(t, err)
	assert.Contains(t, stdout, "A newer release is available: 1.4.0")

	stdout, _, err = runCommand(t, "", "version", "--check", "--json")
	require.NoError(t, err)
	upd, ok := decodeJSONObject(t, stdout)["update"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, upd["update_available"])
	assert.Equal(t, "1.4.0", upd["latest_version"])

	version = "1.4.0"
	stdout, _, err = runCommand(t, "", "version", "--check")
	require.NoError(t, err)
	assert.Contains(t, stdout, "mu-cli is up to date")
}
