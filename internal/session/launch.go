package session

import (
	"fmt"
	"strings"

	"github.com/alessio/shellescape"
)

// CommandBuilder composes the remote launch command: an optional module-load
// prefix, the proxy command and its arguments, the scheduler resource flags
// each wrapped as a single pass-through token, default and session extra
// arguments, and the session key. Identical selection and configuration
// always yield a byte-identical command.
type CommandBuilder struct {
	ProxyCommand     string
	ProxyArgs        []string
	ModuleLoadPrefix string
	DefaultExtraArgs []string
}

// Build returns the full remote command, or "" when no proxy command is
// configured.
func (b *CommandBuilder) Build(sel ResourceSelection, sessionKey string) string {
	if b.ProxyCommand == "" {
		return ""
	}

	parts := []string{}
	if b.ModuleLoadPrefix != "" {
		parts = append(parts, b.ModuleLoadPrefix)
	}
	parts = append(parts, b.ProxyCommand)
	parts = append(parts, b.ProxyArgs...)

	for _, flag := range sallocFlags(sel) {
		parts = append(parts, shellescape.Quote("--salloc-arg="+flag))
	}

	parts = append(parts, b.DefaultExtraArgs...)
	parts = append(parts, sel.ExtraArgs...)
	parts = append(parts, shellescape.Quote("--session-key="+sessionKey))

	return strings.Join(parts, " ")
}

// sallocFlags emits the scheduler request flags in a fixed order so the
// resulting command is deterministic.
func sallocFlags(sel ResourceSelection) []string {
	flags := []string{}
	if sel.Partition != "" {
		flags = append(flags, "--partition="+sel.Partition)
	}
	flags = append(flags,
		fmt.Sprintf("--nodes=%d", sel.Nodes),
		fmt.Sprintf("--ntasks-per-node=%d", sel.TasksPerNode),
		fmt.Sprintf("--cpus-per-task=%d", sel.CpusPerTask),
		"--time="+sel.Time,
	)
	if sel.Qos != "" {
		flags = append(flags, "--qos="+sel.Qos)
	}
	if sel.Account != "" {
		flags = append(flags, "--account="+sel.Account)
	}
	if sel.MemoryMB > 0 {
		flags = append(flags, fmt.Sprintf("--mem=%d", sel.MemoryMB))
	}
	if sel.GpuCount > 0 {
		if sel.GpuType != "" {
			flags = append(flags, fmt.Sprintf("--gres=gpu:%s:%d", sel.GpuType, sel.GpuCount))
		} else {
			flags = append(flags, fmt.Sprintf("--gres=gpu:%d", sel.GpuCount))
		}
	}
	return flags
}
