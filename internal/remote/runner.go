// Package remote is the command-execution boundary to the cluster's login
// hosts. Transport-level SSH is delegated to the system ssh client; this
// package only shapes the invocation and bounds it with a timeout.
package remote

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/xangma/sciama-vscode/internal/utils"
)

// SSHRunner executes commands on a remote host via the ssh binary.
// BatchMode is forced so a missing key fails fast instead of hanging on a
// password prompt.
type SSHRunner struct {
	SSHBin       string
	IdentityFile string
	ConfigFile   string
	Timeout      time.Duration
}

// Run executes command on host and returns its stdout. A timeout is reported
// like any other transport failure.
func (r *SSHRunner) Run(host, command string) (string, error) {
	bin := r.SSHBin
	if bin == "" {
		bin = "ssh"
	}
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	args := []string{"-o", "BatchMode=yes"}
	if r.IdentityFile != "" {
		args = append(args, "-i", utils.ExpandHome(r.IdentityFile))
	}
	if r.ConfigFile != "" {
		args = append(args, "-F", utils.ExpandHome(r.ConfigFile))
	}
	args = append(args, host, command)

	utils.PrintDebug("Running on %s: %s", host, utils.StyleCommand(command))

	cmd := exec.CommandContext(ctx, bin, args...)
	output, err := cmd.Output()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("command timed out after %s on %s: %s", timeout, host, command)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			stderr := strings.TrimSpace(string(exitErr.Stderr))
			if stderr != "" {
				return "", fmt.Errorf("command failed on %s: %v: %s", host, err, stderr)
			}
		}
		return "", fmt.Errorf("command failed on %s: %w", host, err)
	}

	return string(output), nil
}
