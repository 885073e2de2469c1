package config

import (
	"strings"

	"github.com/spf13/viper"
)

// activeConfigKey is the single slot holding the path of the SSH configuration
// the connection layer should use. It is swapped to the freshly written
// overlay on connect and restored afterwards.
const activeConfigKey = "ssh.active_config"

// cacheKeyPrefix namespaces the persisted per-host cluster-info cache.
const cacheKeyPrefix = "cluster_cache"

// SettingsStore exposes the persisted key-value settings backing store.
// The zero value is usable; all methods operate on the process-wide viper
// instance so persisted state survives between runs.
type SettingsStore struct{}

// GetString reads a persisted settings value.
func (SettingsStore) GetString(key string) string {
	return viper.GetString(key)
}

// Set stages a settings value.
func (SettingsStore) Set(key string, value interface{}) {
	viper.Set(key, value)
}

// Save persists staged settings to the user config file.
func (SettingsStore) Save() error {
	return SaveConfig()
}

// PointerStore manages the active-SSH-config pointer slot. This is a single
// global slot, not a stack: concurrent flows race on it and the last writer
// wins (documented behavior).
type PointerStore struct{}

// Get returns the currently active SSH config path ("" = none set).
func (PointerStore) Get() string {
	return viper.GetString(activeConfigKey)
}

// Set updates the active SSH config path and persists it.
func (PointerStore) Set(path string) error {
	viper.Set(activeConfigKey, path)
	return SaveConfig()
}

// CacheKey returns the settings key for a host's cached cluster info.
// Dots are viper key separators, so host names are flattened.
func CacheKey(host string) string {
	return cacheKeyPrefix + "." + strings.ReplaceAll(host, ".", "_")
}
