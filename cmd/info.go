package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xangma/sciama-vscode/internal/config"
	"github.com/xangma/sciama-vscode/internal/session"
	"github.com/xangma/sciama-vscode/internal/utils"
)

var infoNoCache bool

var infoCmd = &cobra.Command{
	Use:   "info [login-host]",
	Short: "Show the normalized partition table for a login host",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := &config.Global
		runner := newRunner(cfg)

		host := ""
		if len(args) == 1 {
			host = args[0]
		} else if len(cfg.LoginHosts) > 0 {
			host = cfg.LoginHosts[0]
		}
		if host == "" {
			return session.ErrNoLoginHosts
		}

		fetcher := newFetcher(cfg, runner)
		if infoNoCache {
			fetcher.Cache = nil
		}
		info, err := fetcher.Fetch(host)
		if err != nil {
			return err
		}
		if len(info.Partitions) == 0 {
			utils.PrintWarning("No partitions reported by %s", host)
			return nil
		}

		fmt.Printf("%-16s %8s %8s %10s %8s  %s\n", "PARTITION", "NODES", "CPUS", "MEM(MB)", "GPUS", "GPU TYPES")
		for _, p := range info.Partitions {
			name := p.Name
			if p.Name == info.DefaultPartition {
				name += "*"
			}
			types := make([]string, 0, len(p.GpuTypes))
			for gpuType, count := range p.GpuTypes {
				if gpuType == "" {
					gpuType = "(untyped)"
				}
				types = append(types, fmt.Sprintf("%s:%d", gpuType, count))
			}
			sort.Strings(types)
			fmt.Printf("%-16s %8d %8d %10d %8d  %s\n",
				name, p.Nodes, p.Cpus, p.MemMB, p.GpuMax, strings.Join(types, ","))
		}
		return nil
	},
}

func init() {
	infoCmd.Flags().BoolVar(&infoNoCache, "no-cache", false, "Bypass the cluster info cache")
	rootCmd.AddCommand(infoCmd)
}
