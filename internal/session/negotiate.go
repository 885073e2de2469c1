package session

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/xangma/sciama-vscode/internal/cluster"
	"github.com/xangma/sciama-vscode/internal/utils"
)

// Prompter collects interactive answers during negotiation.
type Prompter interface {
	Input(label, def string) (string, error)
	Select(label string, options []string) (int, error)
	Confirm(label string, def bool) (bool, error)
}

// wallTimeRe matches Slurm wall time strings: HH:MM:SS or D-HH:MM:SS.
var wallTimeRe = regexp.MustCompile(`^(\d+-)?\d{2}:\d{2}:\d{2}$`)

// schedulerDefault is the sentinel offered for "let the scheduler decide".
const schedulerDefault = "Cluster default"

// noneChoice is the sentinel mapping an optional refinement to unset.
const noneChoice = "None"

// Defaults are the configured negotiation defaults. In batch mode the four
// sizing values are mandatory; everything else falls back to unset.
type Defaults struct {
	Partition    string
	Qos          string
	Account      string
	Nodes        int
	TasksPerNode int
	CpusPerTask  int
	Time         string
	MemoryMB     int
	GpuType      string
	GpuCount     int
}

// Negotiator collects the allocation request parameters, interactively or
// from configured defaults.
type Negotiator struct {
	Prompter    Prompter
	Interactive bool
	Defaults    Defaults
}

// SelectPartition picks the partition. An explicitly configured default takes
// precedence over the cluster-reported default; the sentinel choice resolves
// to unset so the scheduler decides. Cancellation propagates as a hard abort.
func (n *Negotiator) SelectPartition(info *cluster.ClusterInfo, sel *ResourceSelection) error {
	if !n.Interactive {
		sel.Partition = n.Defaults.Partition
		return nil
	}

	configured := n.Defaults.Partition
	if configured == "" {
		configured = info.DefaultPartition
	}

	sentinel := schedulerDefault
	if info.DefaultPartition != "" {
		sentinel = fmt.Sprintf("%s (%s)", schedulerDefault, info.DefaultPartition)
	}
	options := []string{sentinel}
	for _, p := range info.Partitions {
		label := fmt.Sprintf("%s — %d nodes, %d CPUs, %d MB", p.Name, p.Nodes, p.Cpus, p.MemMB)
		if p.GpuMax > 0 {
			label += fmt.Sprintf(", up to %d GPUs", p.GpuMax)
		}
		if p.Name == configured {
			label += " (default)"
		}
		options = append(options, label)
	}

	idx, err := n.Prompter.Select("Partition", options)
	if err != nil {
		return err
	}
	if idx == 0 {
		sel.Partition = ""
		return nil
	}
	sel.Partition = info.Partitions[idx-1].Name
	return nil
}

// SelectQos picks the QoS, with "None" mapping to unset. Skipped entirely
// when the cluster reported no QoS list.
func (n *Negotiator) SelectQos(qosList []string, sel *ResourceSelection) error {
	sel.Qos = n.Defaults.Qos
	if !n.Interactive || len(qosList) == 0 {
		return nil
	}
	idx, err := n.Prompter.Select("QoS", append([]string{noneChoice}, qosList...))
	if err != nil {
		return err
	}
	if idx == 0 {
		sel.Qos = ""
		return nil
	}
	sel.Qos = qosList[idx-1]
	return nil
}

// SelectAccount picks the charge account, with "None" mapping to unset.
func (n *Negotiator) SelectAccount(accounts []string, sel *ResourceSelection) error {
	sel.Account = n.Defaults.Account
	if !n.Interactive || len(accounts) == 0 {
		return nil
	}
	idx, err := n.Prompter.Select("Account", append([]string{noneChoice}, accounts...))
	if err != nil {
		return err
	}
	if idx == 0 {
		sel.Account = ""
		return nil
	}
	sel.Account = accounts[idx-1]
	return nil
}

// SelectSizing collects nodes, tasks per node, CPUs per task and wall time.
// Interactive mode re-prompts on invalid input; batch mode requires all four
// to be valid configured values and aborts naming the missing field.
func (n *Negotiator) SelectSizing(info *cluster.ClusterInfo, sel *ResourceSelection) error {
	if !n.Interactive {
		if n.Defaults.Nodes <= 0 {
			return &ValidationError{Field: "defaults.nodes", Reason: "must be a positive integer in batch mode"}
		}
		if n.Defaults.TasksPerNode <= 0 {
			return &ValidationError{Field: "defaults.tasks_per_node", Reason: "must be a positive integer in batch mode"}
		}
		if n.Defaults.CpusPerTask <= 0 {
			return &ValidationError{Field: "defaults.cpus_per_task", Reason: "must be a positive integer in batch mode"}
		}
		if !wallTimeRe.MatchString(n.Defaults.Time) {
			return &ValidationError{Field: "defaults.time", Value: n.Defaults.Time, Reason: "must match HH:MM:SS or D-HH:MM:SS"}
		}
		sel.Nodes = n.Defaults.Nodes
		sel.TasksPerNode = n.Defaults.TasksPerNode
		sel.CpusPerTask = n.Defaults.CpusPerTask
		sel.Time = n.Defaults.Time
		sel.MemoryMB = n.Defaults.MemoryMB
		sel.GpuType = n.Defaults.GpuType
		sel.GpuCount = n.Defaults.GpuCount
		return nil
	}

	var err error
	if sel.Nodes, err = n.promptPositiveInt("Nodes", n.Defaults.Nodes, 1); err != nil {
		return err
	}
	if sel.TasksPerNode, err = n.promptPositiveInt("Tasks per node", n.Defaults.TasksPerNode, 1); err != nil {
		return err
	}
	if sel.CpusPerTask, err = n.promptPositiveInt("CPUs per task", n.Defaults.CpusPerTask, 1); err != nil {
		return err
	}
	if sel.Time, err = n.promptWallTime(); err != nil {
		return err
	}
	if sel.MemoryMB, err = n.promptMemory(); err != nil {
		return err
	}
	return n.promptGpus(info, sel)
}

// ExtraArgs collects free-form launch tokens, split on whitespace.
func (n *Negotiator) ExtraArgs(sel *ResourceSelection) error {
	if !n.Interactive {
		return nil
	}
	answer, err := n.Prompter.Input("Extra launch arguments (optional)", "")
	if err != nil {
		return err
	}
	sel.ExtraArgs = strings.Fields(answer)
	return nil
}

func (n *Negotiator) promptPositiveInt(label string, def, fallback int) (int, error) {
	if def <= 0 {
		def = fallback
	}
	for {
		answer, err := n.Prompter.Input(label, strconv.Itoa(def))
		if err != nil {
			return 0, err
		}
		value, convErr := strconv.Atoi(strings.TrimSpace(answer))
		if convErr == nil && value > 0 {
			return value, nil
		}
		utils.PrintWarning("%s must be a positive integer, got %q", label, answer)
	}
}

func (n *Negotiator) promptWallTime() (string, error) {
	def := n.Defaults.Time
	if def == "" {
		def = "02:00:00"
	}
	for {
		answer, err := n.Prompter.Input("Wall time (HH:MM:SS or D-HH:MM:SS)", def)
		if err != nil {
			return "", err
		}
		answer = strings.TrimSpace(answer)
		if wallTimeRe.MatchString(answer) {
			return answer, nil
		}
		utils.PrintWarning("Invalid wall time %q", answer)
	}
}

func (n *Negotiator) promptMemory() (int, error) {
	def := n.Defaults.MemoryMB
	for {
		answer, err := n.Prompter.Input("Memory MB (0 = scheduler default)", strconv.Itoa(def))
		if err != nil {
			return 0, err
		}
		value, convErr := strconv.Atoi(strings.TrimSpace(answer))
		if convErr == nil && value >= 0 {
			return value, nil
		}
		utils.PrintWarning("Memory must be a non-negative integer, got %q", answer)
	}
}

// promptGpus offers the GPU types reported for the selected partition (or the
// whole cluster when no partition was picked). Skipped when the report shows
// no GPUs.
func (n *Negotiator) promptGpus(info *cluster.ClusterInfo, sel *ResourceSelection) error {
	gpuTypes := map[string]int{}
	if rec, ok := info.Partition(sel.Partition); ok {
		gpuTypes = rec.GpuTypes
	} else {
		for _, p := range info.Partitions {
			for gpuType, count := range p.GpuTypes {
				if count > gpuTypes[gpuType] {
					gpuTypes[gpuType] = count
				}
			}
		}
	}
	if len(gpuTypes) == 0 {
		sel.GpuType = n.Defaults.GpuType
		sel.GpuCount = n.Defaults.GpuCount
		return nil
	}

	names := make([]string, 0, len(gpuTypes))
	for gpuType := range gpuTypes {
		names = append(names, gpuType)
	}
	sort.Strings(names)

	options := []string{noneChoice}
	for _, name := range names {
		label := name
		if label == "" {
			label = "gpu (untyped)"
		}
		options = append(options, fmt.Sprintf("%s (up to %d)", label, gpuTypes[name]))
	}
	idx, err := n.Prompter.Select("GPU type", options)
	if err != nil {
		return err
	}
	if idx == 0 {
		sel.GpuType = ""
		sel.GpuCount = 0
		return nil
	}
	sel.GpuType = names[idx-1]

	def := n.Defaults.GpuCount
	if def <= 0 {
		def = 1
	}
	count, err := n.promptPositiveInt("GPU count", def, 1)
	if err != nil {
		return err
	}
	sel.GpuCount = count
	return nil
}
