package remote

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// Substituting echo for ssh turns the invocation's argument vector into the
// command output, so the shape of the call can be asserted directly.
func TestRunArgumentShape(t *testing.T) {
	r := &SSHRunner{
		SSHBin:       "echo",
		IdentityFile: "/keys/id_ed25519",
		ConfigFile:   "/cfg/ssh_config",
	}

	out, err := r.Run("login1.example.org", "sinfo --version")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := "-o BatchMode=yes -i /keys/id_ed25519 -F /cfg/ssh_config login1.example.org sinfo --version"
	if strings.TrimSpace(out) != want {
		t.Errorf("args = %q, want %q", strings.TrimSpace(out), want)
	}
}

func TestRunOmitsUnsetOptions(t *testing.T) {
	r := &SSHRunner{SSHBin: "echo"}

	out, err := r.Run("login1", "true")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, flag := range []string{"-i", "-F"} {
		if strings.Contains(out, flag+" ") {
			t.Errorf("unset option emitted %s: %q", flag, out)
		}
	}
}

func TestRunTimeout(t *testing.T) {
	stub := filepath.Join(t.TempDir(), "slow-ssh")
	if err := os.WriteFile(stub, []byte("#!/bin/sh\nsleep 5\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	r := &SSHRunner{SSHBin: stub, Timeout: 50 * time.Millisecond}
	_, err := r.Run("login1", "true")
	if err == nil {
		t.Fatal("expected a timeout error")
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("err = %v, want a timeout report", err)
	}
}
