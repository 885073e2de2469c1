package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xangma/sciama-vscode/internal/cluster"
	"github.com/xangma/sciama-vscode/internal/sshconfig"
	"github.com/xangma/sciama-vscode/internal/utils"
)

// Step names the states of the connection flow.
type Step int

const (
	StepResolveHosts Step = iota
	StepSelectHost
	StepQueryResources
	StepSelectPartition
	StepSelectQos
	StepSelectAccount
	StepSelectSizing
	StepExtraArgs
	StepBuildCommand
	StepBuildAlias
	StepWriteConfig
	StepApplyAndConnect
	StepScheduleRestore
)

var stepNames = map[Step]string{
	StepResolveHosts:    "resolve hosts",
	StepSelectHost:      "select host",
	StepQueryResources:  "query resources",
	StepSelectPartition: "select partition",
	StepSelectQos:       "select qos",
	StepSelectAccount:   "select account",
	StepSelectSizing:    "select sizing",
	StepExtraArgs:       "extra args",
	StepBuildCommand:    "build launch command",
	StepBuildAlias:      "build alias",
	StepWriteConfig:     "write ssh config",
	StepApplyAndConnect: "apply and connect",
	StepScheduleRestore: "schedule restore",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// Flow is the context accumulated across steps. Steps are strictly
// sequential; each performs at most one blocking external operation.
type Flow struct {
	Hosts     []string
	Host      string
	Info      cluster.ClusterInfo
	QosList   []string
	Accounts  []string
	Selection ResourceSelection
	Command   string
	Alias     string
	Overlay   string
	Session   *Session
}

// HostsResolver resolves the candidate login hosts.
type HostsResolver interface {
	Resolve() ([]string, error)
}

// ClusterFetcher fetches normalized cluster info for a login host.
type ClusterFetcher interface {
	Fetch(host string) (cluster.ClusterInfo, error)
}

// OverlayWriter persists the SSH configuration overlay.
type OverlayWriter interface {
	WriteOverlay(entry *sshconfig.HostEntry, includes []string) (string, error)
}

// Pointer is the single global slot naming the active SSH configuration.
type Pointer interface {
	Get() string
	Set(path string) error
}

// Orchestrator sequences the connection flow. Only resolve-hosts,
// batch-mode sizing, build-launch-command, build-alias and write-ssh-config
// can abort the flow; refinement queries and the connect trigger degrade
// with a warning instead.
type Orchestrator struct {
	Resolver   HostsResolver
	Fetcher    ClusterFetcher
	Qos        func(host string) ([]string, error)
	Accounts   func(host string) ([]string, error)
	Negotiator *Negotiator
	Builder    *CommandBuilder
	Writer     OverlayWriter
	Pointer    Pointer
	Prompter   Prompter

	Interactive     bool
	PromptExtraArgs bool

	AliasPrefix  string
	Includes     []string
	SSHUser      string
	IdentityFile string
	RequestTTY   bool
	ForwardAgent bool
	ExtraOptions map[string]string

	// Connect triggers the connection once the overlay is applied.
	// Nil disables the trigger; failure is non-fatal either way.
	Connect func(alias string) error

	// RestoreDelay schedules the pointer restore after the swap.
	// Zero disables the scheduled restore.
	RestoreDelay time.Duration

	// NewSessionKey is overridable in tests; defaults to a random UUID.
	NewSessionKey func() string
}

// transitions is the ordered state table. Abort-vs-degrade behavior is a
// property of each step function, not of conditionals scattered through one
// long procedure.
var transitions = []struct {
	step Step
	run  func(*Orchestrator, *Flow) error
}{
	{StepResolveHosts, (*Orchestrator).resolveHosts},
	{StepSelectHost, (*Orchestrator).selectHost},
	{StepQueryResources, (*Orchestrator).queryResources},
	{StepSelectPartition, (*Orchestrator).selectPartition},
	{StepSelectQos, (*Orchestrator).selectQos},
	{StepSelectAccount, (*Orchestrator).selectAccount},
	{StepSelectSizing, (*Orchestrator).selectSizing},
	{StepExtraArgs, (*Orchestrator).extraArgs},
	{StepBuildCommand, (*Orchestrator).buildCommand},
	{StepBuildAlias, (*Orchestrator).buildAlias},
	{StepWriteConfig, (*Orchestrator).writeConfig},
	{StepApplyAndConnect, (*Orchestrator).applyAndConnect},
	{StepScheduleRestore, (*Orchestrator).scheduleRestore},
}

// Run drives the flow to completion and returns the created session.
// Artifacts already committed before an abort (e.g. a written overlay) are
// not rolled back.
func (o *Orchestrator) Run() (*Session, error) {
	flow := &Flow{}
	for _, t := range transitions {
		utils.PrintDebug("Step: %s", t.step)
		if err := t.run(o, flow); err != nil {
			return nil, fmt.Errorf("%s: %w", t.step, err)
		}
	}
	return flow.Session, nil
}

func (o *Orchestrator) resolveHosts(flow *Flow) error {
	hosts, err := o.Resolver.Resolve()
	if err != nil {
		return err
	}
	if len(hosts) == 0 {
		return ErrNoLoginHosts
	}
	flow.Hosts = hosts
	return nil
}

func (o *Orchestrator) selectHost(flow *Flow) error {
	if len(flow.Hosts) == 1 || !o.Interactive {
		flow.Host = flow.Hosts[0]
		return nil
	}
	idx, err := o.Prompter.Select("Login host", flow.Hosts)
	if err != nil {
		return err
	}
	flow.Host = flow.Hosts[idx]
	return nil
}

// queryResources gathers cluster info, QoS and accounts for the interactive
// prompts. Every individual failure degrades that list to empty with a
// warning; this step never aborts.
func (o *Orchestrator) queryResources(flow *Flow) error {
	if !o.Interactive {
		return nil
	}
	info, err := o.Fetcher.Fetch(flow.Host)
	if err != nil {
		utils.PrintWarning("Could not fetch cluster info: %v", err)
	} else {
		flow.Info = info
	}
	if o.Qos != nil {
		if qosList, err := o.Qos(flow.Host); err != nil {
			utils.PrintWarning("Could not fetch QoS list: %v", err)
		} else {
			flow.QosList = qosList
		}
	}
	if o.Accounts != nil {
		if accounts, err := o.Accounts(flow.Host); err != nil {
			utils.PrintWarning("Could not fetch account list: %v", err)
		} else {
			flow.Accounts = accounts
		}
	}
	return nil
}

func (o *Orchestrator) selectPartition(flow *Flow) error {
	return o.Negotiator.SelectPartition(&flow.Info, &flow.Selection)
}

func (o *Orchestrator) selectQos(flow *Flow) error {
	return o.Negotiator.SelectQos(flow.QosList, &flow.Selection)
}

func (o *Orchestrator) selectAccount(flow *Flow) error {
	return o.Negotiator.SelectAccount(flow.Accounts, &flow.Selection)
}

func (o *Orchestrator) selectSizing(flow *Flow) error {
	return o.Negotiator.SelectSizing(&flow.Info, &flow.Selection)
}

func (o *Orchestrator) extraArgs(flow *Flow) error {
	if !o.PromptExtraArgs {
		return nil
	}
	return o.Negotiator.ExtraArgs(&flow.Selection)
}

func (o *Orchestrator) buildCommand(flow *Flow) error {
	newKey := o.NewSessionKey
	if newKey == nil {
		newKey = uuid.NewString
	}
	command := o.Builder.Build(flow.Selection, newKey())
	if command == "" {
		return ErrEmptyRemoteCommand
	}
	flow.Command = command
	return nil
}

func (o *Orchestrator) buildAlias(flow *Flow) error {
	short := flow.Host
	if idx := strings.Index(short, "."); idx > 0 {
		short = short[:idx]
	}
	parts := []string{o.AliasPrefix, short}
	if flow.Selection.Partition != "" {
		parts = append(parts, flow.Selection.Partition)
	}
	parts = append(parts,
		fmt.Sprintf("%dn", flow.Selection.Nodes),
		fmt.Sprintf("%dc", flow.Selection.CpusPerTask),
	)
	alias := sshconfig.SanitizeAlias(strings.Join(parts, "-"))

	if o.Interactive {
		answer, err := o.Prompter.Input("Host alias", alias)
		if err != nil {
			return err
		}
		alias = sshconfig.SanitizeAlias(strings.TrimSpace(answer))
	}
	if alias == "" {
		return ErrEmptyAlias
	}
	flow.Alias = alias
	return nil
}

func (o *Orchestrator) writeConfig(flow *Flow) error {
	entry := &sshconfig.HostEntry{
		Alias:         flow.Alias,
		HostName:      flow.Host,
		User:          o.SSHUser,
		RequestTTY:    o.RequestTTY,
		ForwardAgent:  o.ForwardAgent,
		IdentityFile:  o.IdentityFile,
		RemoteCommand: flow.Command,
		Options:       o.ExtraOptions,
	}
	path, err := o.Writer.WriteOverlay(entry, o.Includes)
	if err != nil {
		return &ConfigWriteError{Path: path, Err: err}
	}
	flow.Overlay = path
	return nil
}

// applyAndConnect swaps the active configuration pointer to the new overlay
// and optionally triggers the connect action. Connect failure is non-fatal:
// the created host entry remains usable.
func (o *Orchestrator) applyAndConnect(flow *Flow) error {
	previous := o.Pointer.Get()
	if err := o.Pointer.Set(flow.Overlay); err != nil {
		utils.PrintWarning("Could not update active SSH config pointer: %v", err)
	}
	flow.Session = &Session{
		Alias:           flow.Alias,
		OverlayPath:     flow.Overlay,
		PreviousPointer: previous,
	}
	utils.PrintSuccess("Host %s ready (config %s)", utils.StyleName(flow.Alias), utils.StylePath(flow.Overlay))

	if o.Connect != nil {
		if err := o.Connect(flow.Alias); err != nil {
			connectErr := &ConnectError{Alias: flow.Alias, Err: err}
			utils.PrintWarning("%v — the host entry is still usable", connectErr)
		}
	}
	return nil
}

// scheduleRestore arms the deferred pointer restore. It is fire-and-forget
// and operates on a single global slot: overlapping flows race on it and the
// last writer wins.
func (o *Orchestrator) scheduleRestore(flow *Flow) error {
	if o.RestoreDelay <= 0 || flow.Session == nil {
		return nil
	}
	ScheduleRestore(o.Pointer, flow.Session.PreviousPointer, o.RestoreDelay)
	utils.PrintDebug("SSH config pointer restore scheduled in %s", o.RestoreDelay)
	return nil
}
