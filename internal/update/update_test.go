package update

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// serveRelease points ReleasesURL at a test server for the duration of t.
func serveRelease(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	server := httptest.NewServer(handler)
	original := ReleasesURL
	ReleasesURL = server.URL
	t.Cleanup(func() {
		server.Close()
		ReleasesURL = original
	})
}

func releaseHandler(tag string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Release{
			TagName: tag,
			HTMLURL: "https://github.com/mercadounico/mu-cli/releases/tag/" + tag,
		})
	}
}

func TestNormalizeVersion(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1.0.0", "v1.0.0"},
		{"v1.0.0", "v1.0.0"},
		{" v2.3.4 ", "v2.3.4"},
		{"", "v"},
	}
	for _, tt := range tests {
		if got := NormalizeVersion(tt.input); got != tt.expected {
			t.Errorf("NormalizeVersion(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestCheckForUpdate_DevVersion(t *testing.T) {
	if result := CheckForUpdate(context.Background(), nil, "dev"); result != nil {
		t.Error("Expected nil for dev version, got result")
	}
	if result := CheckForUpdate(context.Background(), nil, ""); result != nil {
		t.Error("Expected nil for empty version, got result")
	}
}

func TestCheckForUpdate_Versions(t *testing.T) {
	tests := []struct {
		name      string
		current   string
		latest    string
		available bool
	}{
		{"major", "1.0.0", "v3.0.0", true},
		{"minor", "1.0.0", "v1.1.0", true},
		{"patch", "1.0.0", "v1.0.1", true},
		{"pre-release", "1.0.0", "v2.0.0-beta.1", true},
		{"prefixed current", "v1.0.0", "v2.0.0", true},
		{"same", "1.0.0", "v1.0.0", false},
		{"current newer", "2.0.0", "v1.0.0", false},
		{"invalid current", "not-a-version", "v2.0.0", false},
		{"invalid latest", "1.0.0", "not-a-version", false},
		{"empty tag", "1.0.0", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serveRelease(t, releaseHandler(tt.latest))

			result := CheckForUpdate(context.Background(), nil, tt.current)
			if result == nil {
				t.Fatal("Expected result, got nil")
			}
			if result.UpdateAvailable != tt.available {
				t.Errorf("UpdateAvailable = %v, want %v", result.UpdateAvailable, tt.available)
			}
			if result.CurrentVersion != tt.current {
				t.Errorf("CurrentVersion = %q, want %q", result.CurrentVersion, tt.current)
			}
		})
	}
}

func TestCheckForUpdate_Request(t *testing.T) {
	serveRelease(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("Expected GET request, got %s", r.Method)
		}
		if r.Header.Get("Accept") != "application/vnd.github.v3+json" {
			t.Error("Expected GitHub API accept header")
		}
		releaseHandler("v2.0.0")(w, r)
	})

	result := CheckForUpdate(context.Background(), &http.Client{Timeout: time.Second}, "1.0.0")
	if result == nil {
		t.Fatal("Expected result, got nil")
	}
	if result.LatestVersion != "2.0.0" {
		t.Errorf("LatestVersion = %q, want 2.0.0", result.LatestVersion)
	}
	if result.UpdateURL != "https://github.com/mercadounico/mu-cli/releases/tag/v2.0.0" {
		t.Errorf("Unexpected update URL: %s", result.UpdateURL)
	}
}

func TestCheckForUpdate_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusInternalServerError) }},
		{"not found", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNotFound) }},
		{"invalid json", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("invalid json")) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serveRelease(t, tt.handler)
			if result := CheckForUpdate(context.Background(), nil, "1.0.0"); result != nil {
				t.Errorf("Expected nil, got %+v", result)
			}
		})
	}
}

func TestCheckForUpdate_ContextCanceled(t *testing.T) {
	serveRelease(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		releaseHandler("v2.0.0")(w, r)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if result := CheckForUpdate(ctx, nil, "1.0.0"); result != nil {
		t.Error("Expected nil on canceled context, got result")
	}
}

func TestCheckForUpdate_ConnectionError(t *testing.T) {
	original := ReleasesURL
	ReleasesURL = "http://localhost:1"
	defer func() { ReleasesURL = original }()

	if result := CheckForUpdate(context.Background(), nil, "1.0.0"); result != nil {
		t.Error("Expected nil on connection error, got result")
	}
}
