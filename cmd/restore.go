package cmd

import (
	"github.com/spf13/cobra"
	"github.com/xangma/sciama-vscode/internal/config"
	"github.com/xangma/sciama-vscode/internal/utils"
)

var restoreCmd = &cobra.Command{
	Use:   "restore [config-path]",
	Short: "Restore the active SSH config pointer",
	Long: `Restore manually clears (or sets) the active SSH configuration pointer.
Useful after an aborted flow, or when two overlapping sessions raced on the
scheduled restore and left the pointer on the wrong overlay.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := ""
		if len(args) == 1 {
			target = utils.ExpandHome(args[0])
		}
		pointer := config.PointerStore{}
		previous := pointer.Get()
		if err := pointer.Set(target); err != nil {
			return err
		}
		if target == "" {
			utils.PrintSuccess("SSH config pointer cleared (was %s)", utils.StylePath(previous))
		} else {
			utils.PrintSuccess("SSH config pointer set to %s", utils.StylePath(target))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(restoreCmd)
}
