package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xangma/sciama-vscode/internal/config"
	"github.com/xangma/sciama-vscode/internal/remote"
	"github.com/xangma/sciama-vscode/internal/utils"
)

var hostsCmd = &cobra.Command{
	Use:   "hosts",
	Short: "List the candidate login hosts (static or discovered)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := &config.Global
		resolver := &remote.HostResolver{
			Static:           cfg.LoginHosts,
			DiscoveryHost:    cfg.DiscoveryHost,
			DiscoveryCommand: cfg.DiscoveryCommand,
			Runner:           newRunner(cfg),
			Prompter:         utils.NewConsolePrompter(),
			Interactive:      cfg.Interactive,
		}
		hosts, err := resolver.Resolve()
		if err != nil {
			return err
		}
		if len(hosts) == 0 {
			utils.PrintWarning("No login hosts found; set login_hosts or discovery_command in the config")
			return nil
		}
		for _, host := range hosts {
			fmt.Println(host)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(hostsCmd)
}
