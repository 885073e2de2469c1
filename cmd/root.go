package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/xangma/sciama-vscode/internal/config"
	"github.com/xangma/sciama-vscode/internal/utils"
)

var (
	debugMode bool
	quietMode bool
	batchMode bool
)

var rootCmd = &cobra.Command{
	Use:           "sciama-vscode",
	Short:         "Open a VS Code session inside a Slurm allocation on the Sciama cluster",
	Long: `sciama-vscode brokers a VS Code remote session through a cluster login host:
it negotiates an allocation request, writes a scoped SSH configuration overlay
whose RemoteCommand launches the allocation helper, and connects through it.`,
	Version:       config.VERSION,
	SilenceErrors: true,
	SilenceUsage:  true,

	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Step 1: Initialize Viper (read config file, env vars)
		if err := config.InitViper(); err != nil {
			utils.PrintWarning("Error reading config file: %v", err)
		}

		// Step 2: Load values from Viper into the Global config
		config.LoadFromViper()

		// Step 3: Apply command-line flags (highest priority)
		if debugMode {
			utils.DebugMode = true
			config.Global.Debug = true
			utils.PrintDebug("Debug mode enabled")
			utils.PrintDebug("Version: %s", utils.StyleInfo(config.VERSION))
		}
		if quietMode {
			utils.QuietMode = true
		}
		if batchMode || !utils.IsInteractiveShell() {
			config.Global.Interactive = false
			utils.PrintDebug("Batch mode enabled (no prompts)")
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug mode with verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quietMode, "quiet", "q", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&batchMode, "batch", false, "Never prompt; use configured defaults only")
}
