package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/xangma/sciama-vscode/internal/config"
	"github.com/xangma/sciama-vscode/internal/utils"
)

// configKeys is the list of known configuration keys for shell completion
var configKeys = []string{
	"login_hosts",
	"discovery_host",
	"discovery_command",
	"report_command",
	"timeout_seconds",
	"cache_ttl_minutes",
	"proxy_command",
	"proxy_args",
	"module_load_prefix",
	"extra_args",
	"prompt_extra_args",
	"defaults.partition",
	"defaults.qos",
	"defaults.account",
	"defaults.nodes",
	"defaults.tasks_per_node",
	"defaults.cpus_per_task",
	"defaults.time",
	"defaults.memory_mb",
	"defaults.gpu_type",
	"defaults.gpu_count",
	"ssh.bin",
	"ssh.user",
	"ssh.identity_file",
	"ssh.config_file",
	"ssh.request_tty",
	"ssh.forward_agent",
	"ssh.overlay_path",
	"ssh.includes",
	"alias_prefix",
	"connect_command",
	"restore_delay_seconds",
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and edit persisted settings",
}

var configGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Print a config value",
	Args:  cobra.ExactArgs(1),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return configKeys, cobra.ShellCompDirectiveNoFileComp
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(viper.Get(args[0]))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a config value and save it",
	Args:  cobra.ExactArgs(2),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) == 0 {
			return configKeys, cobra.ShellCompDirectiveNoFileComp
		}
		return nil, cobra.ShellCompDirectiveNoFileComp
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		viper.Set(args[0], args[1])
		if err := config.SaveConfig(); err != nil {
			return err
		}
		utils.PrintSuccess("%s = %s", utils.StyleName(args[0]), args[1])
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the user config file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.GetUserConfigPath()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the current (default) settings to the user config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.SaveConfig(); err != nil {
			return err
		}
		path, _ := config.GetUserConfigPath()
		utils.PrintSuccess("Config written to %s", utils.StylePath(path))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configGetCmd, configSetCmd, configPathCmd, configInitCmd)
	rootCmd.AddCommand(configCmd)
}
