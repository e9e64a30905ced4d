// Package cache keeps short-lived copies of catalog listings (cities,
// property types) so name lookups do not list the catalog on every command.
//
// Cache files are JSON, scoped per resource, API host and username.
// Default TTL is 5 minutes. Disable with MU_NO_CACHE=1.
package cache

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const DefaultTTL = 5 * time.Minute

type entry struct {
	CachedAt time.Time       `json:"cached_at"`
	Items    json.RawMessage `json:"items"`
}

// Store reads and writes a single cache key (resource+host+username).
type Store struct {
	path string
	ttl  time.Duration
}

// NewStore creates a Store with the default 5-minute TTL.
// key is the resource type (e.g. "cities").
func NewStore(dir, key, baseURL, username string) *Store {
	return NewStoreWithTTL(dir, key, baseURL, username, DefaultTTL)
}

// NewStoreWithTTL creates a Store with a custom TTL.
func NewStoreWithTTL(dir, key, baseURL, username string, ttl time.Duration) *Store {
	key = sanitizeKey(key)
	hash := sha1.Sum([]byte(strings.TrimSuffix(baseURL, "/") + "\x00" + username))
	filename := fmt.Sprintf("%s_%s.json", key, hex.EncodeToString(hash[:6]))
	return &Store{
		path: filepath.Join(dir, filename),
		ttl:  ttl,
	}
}

// Path returns the cache file backing the store.
func (s *Store) Path() string {
	return s.path
}

// Get loads cached items into dst. Returns false on miss (no file, expired, disabled).
func (s *Store) Get(dst any) bool {
	if Disabled() {
		return false
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return false
	}
	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return false
	}
	if time.Since(e.CachedAt) > s.ttl {
		return false
	}
	return json.Unmarshal(e.Items, dst) == nil
}

// Put writes items to the cache. Silently no-ops on error or when disabled.
func (s *Store) Put(items any) {
	if Disabled() {
		return
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return
	}
	data, err := json.Marshal(entry{
		CachedAt: time.Now(),
		Items:    raw,
	})
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return
	}

	// write temp then rename
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		_ = os.Remove(tmp)
		return
	}
	_ = os.Rename(tmp, s.path)
}

// Clear removes this cache file.
func (s *Store) Clear() {
	_ = os.Remove(s.path)
}

// ClearAll removes every cache file from dir and reports how many were
// removed. Only files matching the cache filename scheme are touched.
func ClearAll(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read cache dir: %w", err)
	}
	removed := 0
	for _, e := range entries {
		if e.IsDir() || !isCacheFilename(e.Name()) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err == nil {
			removed++
		}
	}
	return removed, nil
}

// DefaultDir returns "$XDG_CACHE_HOME/mu-cli" or the platform equivalent.
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "mu-cli"), nil
}

// Disabled reports whether MU_NO_CACHE is set.
func Disabled() bool {
	return strings.TrimSpace(os.Getenv("MU_NO_CACHE")) != ""
}

func sanitizeKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return "cache"
	}
	r := strings.NewReplacer("/", "-", "\\", "-", "_", "-", " ", "-")
	return r.Replace(key)
}

func isCacheFilename(name string) bool {
	// "<key>_<12hex>.json"
	if filepath.Ext(name) != ".json" {
		return false
	}
	key, suffix, ok := strings.Cut(strings.TrimSuffix(name, ".json"), "_")
	if !ok || key == "" || strings.Contains(suffix, "_") {
		return false
	}
	if len(suffix) != 12 {
		return false
	}
	_, err := hex.DecodeString(suffix)
	return err == nil
}
