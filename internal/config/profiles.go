package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/99designs/keyring"
)

// Keyring layout: the default profile lives under accountKey, others under
// profilePrefix+name. The index and current-profile entries are plain data.
const (
	accountKey        = "default"
	profilePrefix     = "profile:"
	profileIndexKey   = "profiles_index"
	currentProfileKey = "current_profile"
)

// vault is an opened keyring holding profiles.
type vault struct {
	ring keyring.Keyring
}

func openVault() (*vault, error) {
	ring, err := openKeyring(keyringConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring: %w", err)
	}
	return &vault{ring: ring}, nil
}

func profileKey(name string) string {
	if name == "" || name == defaultProfile {
		return accountKey
	}
	return profilePrefix + name
}

func orDefault(profile string) string {
	if profile == "" {
		return defaultProfile
	}
	return profile
}

func (v *vault) account(profile string) (Account, error) {
	item, err := v.ring.Get(profileKey(profile))
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return Account{}, ErrNotConfigured
	}
	if err != nil {
		return Account{}, fmt.Errorf("failed to get profile: %w", err)
	}
	var account Account
	if err := json.Unmarshal(item.Data, &account); err != nil {
		return Account{}, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return account, nil
}

func (v *vault) putAccount(profile string, account Account) error {
	data, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("failed to marshal account: %w", err)
	}
	err = v.ring.Set(keyring.Item{
		Key:   profileKey(profile),
		Data:  data,
		Label: serviceName + " " + profile,
	})
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

func (v *vault) index() ([]string, error) {
	item, err := v.ring.Get(profileIndexKey)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile index: %w", err)
	}
	var profiles []string
	if err := json.Unmarshal(item.Data, &profiles); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile index: %w", err)
	}
	return profiles, nil
}

func (v *vault) setIndex(profiles []string) error {
	data, err := json.Marshal(normalizeProfiles(profiles))
	if err != nil {
		return fmt.Errorf("failed to marshal profile index: %w", err)
	}
	return v.ring.Set(keyring.Item{Key: profileIndexKey, Data: data})
}

func (v *vault) current() (string, error) {
	item, err := v.ring.Get(currentProfileKey)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return defaultProfile, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get current profile: %w", err)
	}
	return string(item.Data), nil
}

func (v *vault) setCurrent(profile string) error {
	return v.ring.Set(keyring.Item{Key: currentProfileKey, Data: []byte(orDefault(profile))})
}

// normalizeProfiles trims names and drops blanks and duplicates, keeping
// first occurrences in order.
func normalizeProfiles(profiles []string) []string {
	var out []string
	for _, p := range profiles {
		p = strings.TrimSpace(p)
		if p != "" && !slices.Contains(out, p) {
			out = append(out, p)
		}
	}
	return out
}

// SaveProfile stores the account credentials under a named profile and makes
// it current.
func SaveProfile(profile string, account Account) error {
	profile = orDefault(profile)
	v, err := openVault()
	if err != nil {
		return err
	}
	if err := v.putAccount(profile, account); err != nil {
		return err
	}
	profiles, err := v.index()
	if err != nil {
		return err
	}
	if err := v.setIndex(append(profiles, profile)); err != nil {
		return err
	}
	return v.setCurrent(profile)
}

// LoadProfile retrieves credentials for a named profile.
func LoadProfile(profile string) (Account, error) {
	v, err := openVault()
	if err != nil {
		return Account{}, err
	}
	return v.account(orDefault(profile))
}

// DeleteProfile removes a stored profile. When it was current, the first
// remaining profile becomes current.
func DeleteProfile(profile string) error {
	profile = orDefault(profile)
	v, err := openVault()
	if err != nil {
		return err
	}
	if err := v.ring.Remove(profileKey(profile)); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("failed to remove profile: %w", err)
	}

	profiles, err := v.index()
	if err != nil {
		return err
	}
	remaining := slices.DeleteFunc(profiles, func(p string) bool { return p == profile })
	if err := v.setIndex(remaining); err != nil {
		return err
	}

	if current, err := v.current(); err == nil && current == profile {
		next := defaultProfile
		if len(remaining) > 0 {
			next = remaining[0]
		}
		_ = v.setCurrent(next)
	}
	return nil
}

// ListProfiles returns the known profile names. A default account saved
// without an index is still listed.
func ListProfiles() ([]string, error) {
	v, err := openVault()
	if err != nil {
		return nil, err
	}
	profiles, err := v.index()
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		if _, err := v.ring.Get(accountKey); err == nil {
			return []string{defaultProfile}, nil
		}
		return []string{}, nil
	}
	return profiles, nil
}

// CurrentProfile returns the active profile name.
func CurrentProfile() (string, error) {
	v, err := openVault()
	if err != nil {
		return "", err
	}
	return v.current()
}

// SetCurrentProfile sets the active profile name.
func SetCurrentProfile(profile string) error {
	v, err := openVault()
	if err != nil {
		return err
	}
	return v.setCurrent(profile)
}
