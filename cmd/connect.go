package cmd

import (
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/xangma/sciama-vscode/internal/cluster"
	"github.com/xangma/sciama-vscode/internal/config"
	"github.com/xangma/sciama-vscode/internal/remote"
	"github.com/xangma/sciama-vscode/internal/session"
	"github.com/xangma/sciama-vscode/internal/sshconfig"
	"github.com/xangma/sciama-vscode/internal/utils"
)

var (
	connectPartition string
	connectTime      string
	connectNodes     int
	connectTasks     int
	connectCpus      int
	connectMemMB     int
	connectGpuType   string
	connectGpuCount  int
	noConnect        bool
	noRestore        bool
	reuseWindow      bool
)

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Negotiate an allocation and open a session through a login host",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := &config.Global
		applyConnectFlags(cmd.Flags(), cfg)

		prompter := utils.NewConsolePrompter()
		runner := newRunner(cfg)

		orchestrator := &session.Orchestrator{
			Resolver: &remote.HostResolver{
				Static:           cfg.LoginHosts,
				DiscoveryHost:    cfg.DiscoveryHost,
				DiscoveryCommand: cfg.DiscoveryCommand,
				Runner:           runner,
				Prompter:         prompter,
				Interactive:      cfg.Interactive,
			},
			Fetcher: newFetcher(cfg, runner),
			Qos: func(host string) ([]string, error) {
				return remote.QosList(runner, host)
			},
			Accounts: func(host string) ([]string, error) {
				return remote.AccountList(runner, host)
			},
			Negotiator: &session.Negotiator{
				Prompter:    prompter,
				Interactive: cfg.Interactive,
				Defaults: session.Defaults{
					Partition:    cfg.DefaultPartition,
					Qos:          cfg.DefaultQos,
					Account:      cfg.DefaultAccount,
					Nodes:        cfg.DefaultNodes,
					TasksPerNode: cfg.DefaultTasks,
					CpusPerTask:  cfg.DefaultCpus,
					Time:         cfg.DefaultTime,
					MemoryMB:     cfg.DefaultMemoryMB,
					GpuType:      cfg.DefaultGpuType,
					GpuCount:     cfg.DefaultGpuCount,
				},
			},
			Builder: &session.CommandBuilder{
				ProxyCommand:     cfg.ProxyCommand,
				ProxyArgs:        cfg.ProxyArgs,
				ModuleLoadPrefix: cfg.ModuleLoadPrefix,
				DefaultExtraArgs: cfg.ExtraArgs,
			},
			Writer: &sshconfig.Writer{
				Path: cfg.OverlayPath,
				Tool: "sciama-vscode " + config.VERSION,
			},
			Pointer:  config.PointerStore{},
			Prompter: prompter,

			Interactive:     cfg.Interactive,
			PromptExtraArgs: cfg.PromptExtraArgs,

			AliasPrefix:  cfg.AliasPrefix,
			Includes:     cfg.IncludePaths,
			SSHUser:      cfg.SSHUser,
			IdentityFile: cfg.SSHIdentityFile,
			RequestTTY:   cfg.SSHRequestTTY,
			ForwardAgent: cfg.SSHForwardAgent,
			ExtraOptions: cfg.SSHOptions,

			RestoreDelay: cfg.RestoreDelay(),
		}
		if noRestore {
			orchestrator.RestoreDelay = 0
		}
		if !noConnect {
			orchestrator.Connect = connectTrigger(cfg)
		}

		sess, err := orchestrator.Run()
		if err != nil {
			return err
		}
		utils.PrintMessage("Connect with: %s", utils.StyleCommand("ssh "+sess.Alias))
		return nil
	},
}

// applyConnectFlags copies explicitly set command-line overrides into the
// negotiation defaults.
func applyConnectFlags(flags *pflag.FlagSet, cfg *config.Config) {
	if flags.Changed("partition") {
		cfg.DefaultPartition = connectPartition
	}
	if flags.Changed("time") {
		cfg.DefaultTime = connectTime
	}
	if flags.Changed("nodes") {
		cfg.DefaultNodes = connectNodes
	}
	if flags.Changed("tasks-per-node") {
		cfg.DefaultTasks = connectTasks
	}
	if flags.Changed("cpus-per-task") {
		cfg.DefaultCpus = connectCpus
	}
	if flags.Changed("mem") {
		cfg.DefaultMemoryMB = connectMemMB
	}
	if flags.Changed("gpu-type") {
		cfg.DefaultGpuType = connectGpuType
	}
	if flags.Changed("gpus") {
		cfg.DefaultGpuCount = connectGpuCount
	}
}

func newRunner(cfg *config.Config) *remote.SSHRunner {
	return &remote.SSHRunner{
		SSHBin:       cfg.SSHBin,
		IdentityFile: cfg.SSHIdentityFile,
		ConfigFile:   cfg.SSHConfigFile,
		Timeout:      cfg.Timeout(),
	}
}

func newFetcher(cfg *config.Config, runner *remote.SSHRunner) *cluster.Fetcher {
	return &cluster.Fetcher{
		Runner:        runner,
		CustomCommand: cfg.ReportCommand,
		Cache: &cluster.Cache{
			Store: config.SettingsStore{},
			TTL:   cfg.CacheTTL(),
			Key:   config.CacheKey,
		},
	}
}

// connectTrigger builds the connect action: the configured connect_command
// with {alias} substituted, run through the shell. The window-placement
// preference swaps --new-window for --reuse-window.
func connectTrigger(cfg *config.Config) func(alias string) error {
	command := cfg.ConnectCommand
	if command == "" {
		return nil
	}
	if reuseWindow {
		command = strings.ReplaceAll(command, "--new-window", "--reuse-window")
	}
	return func(alias string) error {
		line := strings.ReplaceAll(command, "{alias}", alias)
		utils.PrintMessage("Connecting: %s", utils.StyleCommand(line))
		c := exec.Command("sh", "-c", line)
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		return c.Run()
	}
}

func init() {
	connectCmd.Flags().StringVarP(&connectPartition, "partition", "p", "", "Partition to request")
	connectCmd.Flags().StringVarP(&connectTime, "time", "t", "", "Wall time (HH:MM:SS or D-HH:MM:SS)")
	connectCmd.Flags().IntVarP(&connectNodes, "nodes", "N", 0, "Number of nodes")
	connectCmd.Flags().IntVar(&connectTasks, "tasks-per-node", 0, "Tasks per node")
	connectCmd.Flags().IntVarP(&connectCpus, "cpus-per-task", "c", 0, "CPUs per task")
	connectCmd.Flags().IntVar(&connectMemMB, "mem", 0, "Memory per node in MB (0 = scheduler default)")
	connectCmd.Flags().StringVar(&connectGpuType, "gpu-type", "", "GPU type to request")
	connectCmd.Flags().IntVar(&connectGpuCount, "gpus", 0, "Number of GPUs")
	connectCmd.Flags().BoolVar(&noConnect, "no-connect", false, "Write the overlay but do not launch the editor")
	connectCmd.Flags().BoolVar(&noRestore, "no-restore", false, "Do not schedule the SSH config pointer restore")
	connectCmd.Flags().BoolVar(&reuseWindow, "reuse-window", false, "Reuse the current editor window")
	rootCmd.AddCommand(connectCmd)
}
