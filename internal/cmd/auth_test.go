package cmd

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mercadounico/mu-cli/internal/config"
	"github.com/mercadounico/mu-cli/mu"
)

func TestAuthLogin_PasswordStdin(t *testing.T) {
	isolateEnv(t)

	stdout, _, err := runCommand(t, testPassword+"\n", "auth", "login", "--username", testUsername, "--password-stdin")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Authentication credentials saved successfully!")
	assert.Contains(t, stdout, "Username: "+testUsername)
	assert.Contains(t, stdout, "Host: "+mu.APIBaseURL)

	account, err := config.LoadProfile("default")
	require.NoError(t, err)
	assert.Equal(t, testUsername, account.Username)
	assert.Equal(t, testPassword, account.Password)
	assert.False(t, account.Sandbox)
}

func TestAuthLogin_SandboxProfileJSON(t *testing.T) {
	isolateEnv(t)

	stdout, _, err := runCommand(t, "", "auth", "login", "--profile", "test", "--sandbox",
		"-u", "demo", "-p", "demo-pass", "--json")
	require.NoError(t, err)

	obj := decodeJSONObject(t, stdout)
	assert.Equal(t, true, obj["saved"])
	assert.Equal(t, "test", obj["profile"])
	assert.Equal(t, true, obj["sandbox"])
	assert.Equal(t, mu.SandboxAPIBaseURL, obj["host"])

	current, err := config.CurrentProfile()
	require.NoError(t, err)
	assert.Equal(t, "test", current)
}

func TestAuthLogin_EnvFile(t *testing.T) {
	isolateEnv(t)

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("MU_USERNAME=desde-archivo\nMU_PASSWORD=clave\nMU_SANDBOX=true\n"), 0o600))

	_, _, err := runCommand(t, "", "auth", "login", "--env", path)
	require.NoError(t, err)

	account, err := config.LoadProfile("default")
	require.NoError(t, err)
	assert.Equal(t, "desde-archivo", account.Username)
	assert.Equal(t, "clave", account.Password)
	assert.True(t, account.Sandbox)
}

func TestAuthLogin_Validation(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{name: "missing username", args: []string{"-p", "x"}, want: "--username is required"},
		{name: "missing password", args: []string{"-u", "x"}, want: "--password or --password-stdin is required"},
		{name: "both password sources", args: []string{"-u", "x", "-p", "y", "--password-stdin"}, want: "cannot be used together"},
		{name: "empty stdin", stdin: "\n", args: []string{"-u", "x", "--password-stdin"}, want: "no password provided on stdin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateEnv(t)

			args := append([]string{"auth", "login"}, tt.args...)
			_, stderr, err := runCommand(t, tt.stdin, args...)
			require.Error(t, err)
			assert.Contains(t, stderr, tt.want)

			profiles, err := config.ListProfiles()
			require.NoError(t, err)
			assert.Empty(t, profiles)
		})
	}
}

func TestAuthLogin_InvalidBaseURL(t *testing.T) {
	isolateEnv(t)

	_, _, err := runCommand(t, "", "auth", "login", "-u", "x", "-p", "y", "--base-url", "api.example.com")
	require.Error(t, err)
	assert.Equal(t, exitUsage, ExitCode(err))

	stdout, _, err := runCommand(t, "", "auth", "status")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Not authenticated.")
}

func TestAuthLogin_Verify(t *testing.T) {
	isolateEnv(t)
	handler := newRouteHandler().
		On("GET", "/operaciones", jsonResponse(200, `[]`))
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	stdout, _, err := runCommand(t, "", "auth", "login", "-u", testUsername, "-p", testPassword,
		"--base-url", server.URL, "--verify")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Verified: yes")

	reqs := handler.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "Basic "+testToken, reqs[0].Header.Get("Authorization"))

	account, err := config.LoadProfile("default")
	require.NoError(t, err)
	assert.Equal(t, server.URL, account.BaseURL)
}

func TestAuthLogin_VerifyRejected(t *testing.T) {
	isolateEnv(t)
	handler := newRouteHandler().
		On("GET", "/operaciones", jsonResponse(401, `{"message": "Credenciales invalidas"}`))
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	_, stderr, err := runCommand(t, "", "auth", "login", "-u", "x", "-p", "y", "--base-url", server.URL, "--verify")
	require.Error(t, err)
	assert.Equal(t, exitAuth, ExitCode(err))
	assert.Contains(t, stderr, "Credenciales invalidas")

	_, err = config.LoadProfile("default")
	assert.ErrorIs(t, err, config.ErrNotConfigured)
}

func TestAuthStatus(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		isolateEnv(t)

		stdout, _, err := runCommand(t, "", "auth", "status")
		require.NoError(t, err)
		assert.Contains(t, stdout, "Not authenticated.")

		stdout, _, err = runCommand(t, "", "auth", "status", "--json")
		require.NoError(t, err)
		assert.Equal(t, false, decodeJSONObject(t, stdout)["authenticated"])
	})

	t.Run("keychain profile", func(t *testing.T) {
		isolateEnv(t)
		require.NoError(t, config.SaveProfile("default", config.Account{Username: testUsername, Password: "supersecreto", Sandbox: true}))

		stdout, _, err := runCommand(t, "", "auth", "status")
		require.NoError(t, err)
		assert.Contains(t, stdout, "Username: "+testUsername)
		assert.Contains(t, stdout, "Password: supe****reto")
		assert.NotContains(t, stdout, "supersecreto")
		assert.Contains(t, stdout, "Sandbox: yes")
		assert.Contains(t, stdout, "Source: keychain")
	})

	t.Run("environment wins", func(t *testing.T) {
		setupTestEnv(t, jsonResponse(200, `{}`))
		require.NoError(t, config.SaveProfile("default", config.Account{Username: "otro", Password: "otro-pass"}))

		stdout, _, err := runCommand(t, "", "auth", "status", "--json")
		require.NoError(t, err)
		obj := decodeJSONObject(t, stdout)
		assert.Equal(t, testUsername, obj["username"])
		assert.Equal(t, "env", obj["source"])
		assert.Equal(t, "*******", obj["password"])
	})
}

func TestAuthLogout(t *testing.T) {
	isolateEnv(t)
	require.NoError(t, config.SaveProfile("prod", config.Account{Username: "a", Password: "b"}))
	require.NoError(t, config.SaveProfile("test", config.Account{Username: "c", Password: "d"}))

	stdout, _, err := runCommand(t, "", "auth", "logout")
	require.NoError(t, err)
	assert.Equal(t, "Profile test removed successfully.\n", stdout)

	profiles, err := config.ListProfiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"prod"}, profiles)

	current, err := config.CurrentProfile()
	require.NoError(t, err)
	assert.Equal(t, "prod", current)
}

func TestAuthProfilesAndUse(t *testing.T) {
	isolateEnv(t)

	_, stderr, err := runCommand(t, "", "auth", "profiles")
	require.NoError(t, err)
	assert.Contains(t, stderr, "No profiles saved")

	require.NoError(t, config.SaveProfile("prod", config.Account{Username: "a", Password: "b"}))
	require.NoError(t, config.SaveProfile("test", config.Account{Username: "c", Password: "d"}))

	stdout, _, err := runCommand(t, "", "auth", "profiles")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "CURRENT")
	assert.NotContains(t, lines[1], "*")
	assert.Contains(t, lines[2], "*")

	stdout, _, err = runCommand(t, "", "auth", "use", "prod")
	require.NoError(t, err)
	assert.Equal(t, "Switched to profile prod\n", stdout)

	stdout, _, err = runCommand(t, "", "auth", "profiles", "--json")
	require.NoError(t, err)
	rows, ok := decodeJSON(t, stdout).([]any)
	require.True(t, ok)
	require.Len(t, rows, 2)
	assert.Equal(t, map[string]any{"name": "prod", "current": true}, rows[0])

	_, stderr, err = runCommand(t, "", "auth", "use", "missing")
	require.Error(t, err)
	assert.Contains(t, stderr, `profile "missing" is not configured`)
}

func TestProfileFlagSelectsAccount(t *testing.T) {
	isolateEnv(t)
	handler := newRouteHandler().
		On("GET", "/operaciones", jsonResponse(200, `[]`))
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	require.NoError(t, config.SaveProfile("prod", config.Account{Username: "prod", Password: "x", BaseURL: "http://127.0.0.1:1"}))
	require.NoError(t, config.SaveProfile("local", config.Account{Username: testUsername, Password: testPassword, BaseURL: server.URL}))
	require.NoError(t, config.SetCurrentProfile("prod"))

	_, _, err := runCommand(t, "", "operations", "list", "--profile", "local")
	require.NoError(t, err)

	reqs := handler.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "Basic "+testToken, reqs[0].Header.Get("Authorization"))
}

func TestNotConfigured(t *testing.T) {
	isolateEnv(t)

	_, stderr, err := runCommand(t, "", "operations", "list")
	require.Error(t, err)
	assert.Equal(t, exitAuth, ExitCode(err))
	assert.Contains(t, stderr, "No MercadoUnico account configured.")
}

func TestMaskToken(t *testing.T) {
	assert.Equal(t, "", maskToken(""))
	assert.Equal(t, "***", maskToken("abc"))
	assert.Equal(t, "abcd****mnop", maskToken("abcdefghmnop"))
}
