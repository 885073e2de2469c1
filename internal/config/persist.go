package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// ConfigFilename is the name of the config file
const ConfigFilename = "config"

// ConfigType is the type of config file (yaml, json, toml)
const ConfigType = "yaml"

// InitViper initializes Viper with proper search paths and defaults
// Priority (highest to lowest):
// 1. Command-line flags (handled by cobra)
// 2. Environment variables (SCIAMA_VSCODE_*)
// 3. User config file (~/.config/sciama-vscode/config.yaml)
// 4. Defaults
func InitViper() error {
	viper.SetConfigName(ConfigFilename)
	viper.SetConfigType(ConfigType)

	// User config (highest priority)
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		viper.AddConfigPath(filepath.Join(userConfigDir, "sciama-vscode"))
	}

	// Home directory fallback
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".sciama-vscode"))
	}

	// Current directory (for development)
	viper.AddConfigPath(".")

	// Environment variables
	viper.SetEnvPrefix("SCIAMA_VSCODE")
	viper.AutomaticEnv()

	// Set defaults (lowest priority)
	setDefaults()

	// Read config file (non-fatal if not found)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}

	return nil
}

// setDefaults sets default values for all config keys
func setDefaults() {
	viper.SetDefault("login_hosts", []string{})
	viper.SetDefault("discovery_host", "")
	viper.SetDefault("discovery_command", "")

	viper.SetDefault("report_command", "")
	viper.SetDefault("timeout_seconds", 30)
	viper.SetDefault("cache_ttl_minutes", 15)

	viper.SetDefault("proxy_command", "")
	viper.SetDefault("proxy_args", []string{})
	viper.SetDefault("module_load_prefix", "")
	viper.SetDefault("extra_args", []string{})
	viper.SetDefault("prompt_extra_args", false)

	// Sizing defaults are deliberately unset: batch mode requires the user
	// to configure them explicitly, interactive mode prompts.
	viper.SetDefault("defaults.partition", "")
	viper.SetDefault("defaults.qos", "")
	viper.SetDefault("defaults.account", "")
	viper.SetDefault("defaults.nodes", 0)
	viper.SetDefault("defaults.tasks_per_node", 0)
	viper.SetDefault("defaults.cpus_per_task", 0)
	viper.SetDefault("defaults.time", "")
	viper.SetDefault("defaults.memory_mb", 0)
	viper.SetDefault("defaults.gpu_type", "")
	viper.SetDefault("defaults.gpu_count", 0)

	viper.SetDefault("ssh.bin", "ssh")
	viper.SetDefault("ssh.user", "")
	viper.SetDefault("ssh.identity_file", "")
	viper.SetDefault("ssh.config_file", "")
	viper.SetDefault("ssh.request_tty", true)
	viper.SetDefault("ssh.forward_agent", false)
	viper.SetDefault("ssh.options", map[string]string{})
	viper.SetDefault("ssh.overlay_path", "~/.ssh/sciama-vscode.conf")
	viper.SetDefault("ssh.includes", []string{"~/.ssh/config"})
	viper.SetDefault("alias_prefix", "sciama")

	viper.SetDefault("connect_command", "")
	viper.SetDefault("restore_delay_seconds", 30)
}

// GetUserConfigPath returns the path to the user config file
func GetUserConfigPath() (string, error) {
	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".sciama-vscode", ConfigFilename+"."+ConfigType), nil
	}

	return filepath.Join(userConfigDir, "sciama-vscode", ConfigFilename+"."+ConfigType), nil
}

// SaveConfig saves current Viper config to the user config file
func SaveConfig() error {
	configPath, err := GetUserConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := viper.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
