package config

import (
	"time"

	"github.com/spf13/viper"
	"github.com/xangma/sciama-vscode/internal/utils"
)

const VERSION = "0.3.1"

// Config holds global application settings
type Config struct {
	Debug       bool
	Interactive bool

	// Login host resolution
	LoginHosts       []string
	DiscoveryHost    string
	DiscoveryCommand string

	// Cluster report fetching
	ReportCommand   string
	TimeoutSeconds  int
	CacheTTLMinutes int

	// Remote launch helper
	ProxyCommand     string
	ProxyArgs        []string
	ModuleLoadPrefix string
	ExtraArgs        []string
	PromptExtraArgs  bool

	// Negotiation defaults
	DefaultPartition string
	DefaultQos       string
	DefaultAccount   string
	DefaultNodes     int
	DefaultTasks     int
	DefaultCpus      int
	DefaultTime      string
	DefaultMemoryMB  int
	DefaultGpuType   string
	DefaultGpuCount  int

	// SSH configuration overlay
	SSHBin          string
	SSHUser         string
	SSHIdentityFile string
	SSHConfigFile   string
	SSHRequestTTY   bool
	SSHForwardAgent bool
	SSHOptions      map[string]string
	OverlayPath     string
	IncludePaths    []string
	AliasPrefix     string

	// Connect + restore lifecycle
	ConnectCommand      string
	RestoreDelaySeconds int
}

// Global holds the singleton configuration instance
var Global Config

// LoadFromViper loads config from Viper into the Global struct.
// Defaults are set in persist.go, so viper always returns a value.
func LoadFromViper() {
	Global = Config{
		Interactive: true,

		LoginHosts:       viper.GetStringSlice("login_hosts"),
		DiscoveryHost:    viper.GetString("discovery_host"),
		DiscoveryCommand: viper.GetString("discovery_command"),

		ReportCommand:   viper.GetString("report_command"),
		TimeoutSeconds:  viper.GetInt("timeout_seconds"),
		CacheTTLMinutes: viper.GetInt("cache_ttl_minutes"),

		ProxyCommand:     viper.GetString("proxy_command"),
		ProxyArgs:        viper.GetStringSlice("proxy_args"),
		ModuleLoadPrefix: viper.GetString("module_load_prefix"),
		ExtraArgs:        viper.GetStringSlice("extra_args"),
		PromptExtraArgs:  viper.GetBool("prompt_extra_args"),

		DefaultPartition: viper.GetString("defaults.partition"),
		DefaultQos:       viper.GetString("defaults.qos"),
		DefaultAccount:   viper.GetString("defaults.account"),
		DefaultNodes:     viper.GetInt("defaults.nodes"),
		DefaultTasks:     viper.GetInt("defaults.tasks_per_node"),
		DefaultCpus:      viper.GetInt("defaults.cpus_per_task"),
		DefaultTime:      viper.GetString("defaults.time"),
		DefaultMemoryMB:  viper.GetInt("defaults.memory_mb"),
		DefaultGpuType:   viper.GetString("defaults.gpu_type"),
		DefaultGpuCount:  viper.GetInt("defaults.gpu_count"),

		SSHBin:          viper.GetString("ssh.bin"),
		SSHUser:         viper.GetString("ssh.user"),
		SSHIdentityFile: utils.ExpandHome(viper.GetString("ssh.identity_file")),
		SSHConfigFile:   utils.ExpandHome(viper.GetString("ssh.config_file")),
		SSHRequestTTY:   viper.GetBool("ssh.request_tty"),
		SSHForwardAgent: viper.GetBool("ssh.forward_agent"),
		SSHOptions:      viper.GetStringMapString("ssh.options"),
		OverlayPath:     utils.ExpandHome(viper.GetString("ssh.overlay_path")),
		IncludePaths:    viper.GetStringSlice("ssh.includes"),
		AliasPrefix:     viper.GetString("alias_prefix"),

		ConnectCommand:      viper.GetString("connect_command"),
		RestoreDelaySeconds: viper.GetInt("restore_delay_seconds"),
	}
}

// Timeout returns the remote command timeout as a duration.
func (c *Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// CacheTTL returns the cluster-info cache lifetime.
func (c *Config) CacheTTL() time.Duration {
	if c.CacheTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(c.CacheTTLMinutes) * time.Minute
}

// RestoreDelay returns the delay before the SSH config pointer is restored.
// Zero disables the scheduled restore.
func (c *Config) RestoreDelay() time.Duration {
	if c.RestoreDelaySeconds <= 0 {
		return 0
	}
	return time.Duration(c.RestoreDelaySeconds) * time.Second
}
