package session

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/xangma/sciama-vscode/internal/cluster"
	"github.com/xangma/sciama-vscode/internal/sshconfig"
)

type fakeResolver struct {
	hosts []string
	err   error
}

func (r *fakeResolver) Resolve() ([]string, error) { return r.hosts, r.err }

type fakeFetcher struct {
	info cluster.ClusterInfo
	err  error
}

func (f *fakeFetcher) Fetch(host string) (cluster.ClusterInfo, error) { return f.info, f.err }

type fakeWriter struct {
	path    string
	err     error
	entry   *sshconfig.HostEntry
	include []string
}

func (w *fakeWriter) WriteOverlay(entry *sshconfig.HostEntry, includes []string) (string, error) {
	w.entry = entry
	w.include = includes
	if w.err != nil {
		return "", w.err
	}
	return w.path, nil
}

type fakePointer struct {
	mu     sync.Mutex
	value  string
	sets   []string
	setErr error
}

func (p *fakePointer) Get() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.value
}

func (p *fakePointer) Set(path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.setErr != nil {
		return p.setErr
	}
	p.value = path
	p.sets = append(p.sets, path)
	return nil
}

func (p *fakePointer) history() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.sets...)
}

// batchOrchestrator wires a minimal non-interactive flow over fakes.
func batchOrchestrator(pointer *fakePointer, writer *fakeWriter) *Orchestrator {
	return &Orchestrator{
		Resolver: &fakeResolver{hosts: []string{"login1.example.org"}},
		Fetcher:  &fakeFetcher{},
		Negotiator: &Negotiator{Interactive: false, Defaults: Defaults{
			Partition: "gpu", Nodes: 2, TasksPerNode: 1, CpusPerTask: 8, Time: "02:00:00",
		}},
		Builder:       &CommandBuilder{ProxyCommand: "proxy"},
		Writer:        writer,
		Pointer:       pointer,
		AliasPrefix:   "sciama",
		Includes:      []string{"~/.ssh/config"},
		NewSessionKey: func() string { return "test-key" },
	}
}

func TestRunBatchHappyPath(t *testing.T) {
	pointer := &fakePointer{value: "/old/config"}
	writer := &fakeWriter{path: "/home/u/.ssh/sciama-vscode.conf"}
	o := batchOrchestrator(pointer, writer)

	sess, err := o.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sess.Alias != "sciama-login1-gpu-2n-8c" {
		t.Errorf("Alias = %q", sess.Alias)
	}
	if sess.OverlayPath != writer.path {
		t.Errorf("OverlayPath = %q", sess.OverlayPath)
	}
	if sess.PreviousPointer != "/old/config" {
		t.Errorf("PreviousPointer = %q, want the value captured before the swap", sess.PreviousPointer)
	}
	if pointer.Get() != writer.path {
		t.Errorf("pointer = %q, want swapped to the overlay", pointer.Get())
	}

	if writer.entry == nil {
		t.Fatal("no host entry written")
	}
	if writer.entry.HostName != "login1.example.org" {
		t.Errorf("HostName = %q", writer.entry.HostName)
	}
	if !strings.Contains(writer.entry.RemoteCommand, "--session-key=test-key") {
		t.Errorf("RemoteCommand = %q", writer.entry.RemoteCommand)
	}
	if !strings.Contains(writer.entry.RemoteCommand, "--salloc-arg=--partition=gpu") {
		t.Errorf("RemoteCommand = %q", writer.entry.RemoteCommand)
	}
	if len(writer.include) != 1 || writer.include[0] != "~/.ssh/config" {
		t.Errorf("includes = %v", writer.include)
	}
}

func TestRunNoHostsAborts(t *testing.T) {
	o := batchOrchestrator(&fakePointer{}, &fakeWriter{path: "p"})
	o.Resolver = &fakeResolver{hosts: nil}

	_, err := o.Run()
	if !errors.Is(err, ErrNoLoginHosts) {
		t.Fatalf("err = %v, want ErrNoLoginHosts", err)
	}
	if !strings.Contains(err.Error(), "resolve hosts") {
		t.Errorf("err = %v, want the failing step named", err)
	}
}

func TestRunResolverErrorAborts(t *testing.T) {
	o := batchOrchestrator(&fakePointer{}, &fakeWriter{path: "p"})
	boom := errors.New("dns down")
	o.Resolver = &fakeResolver{err: boom}

	if _, err := o.Run(); !errors.Is(err, boom) {
		t.Errorf("err = %v, want resolver failure to propagate", err)
	}
}

func TestRunBatchSizingValidationAborts(t *testing.T) {
	o := batchOrchestrator(&fakePointer{}, &fakeWriter{path: "p"})
	o.Negotiator.Defaults.Time = ""

	_, err := o.Run()
	if !IsValidationError(err) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if !strings.Contains(err.Error(), "select sizing") {
		t.Errorf("err = %v, want the failing step named", err)
	}
}

func TestRunNoProxyCommandAborts(t *testing.T) {
	o := batchOrchestrator(&fakePointer{}, &fakeWriter{path: "p"})
	o.Builder = &CommandBuilder{}

	if _, err := o.Run(); !errors.Is(err, ErrEmptyRemoteCommand) {
		t.Errorf("err = %v, want ErrEmptyRemoteCommand", err)
	}
}

func TestRunWriteFailureAborts(t *testing.T) {
	o := batchOrchestrator(&fakePointer{}, &fakeWriter{err: errors.New("disk full")})

	_, err := o.Run()
	var cwe *ConfigWriteError
	if !errors.As(err, &cwe) {
		t.Fatalf("err = %v, want ConfigWriteError", err)
	}
	if !strings.Contains(err.Error(), "disk full") {
		t.Errorf("err = %v, want the underlying message surfaced", err)
	}
}

func TestRunPointerSetFailureDegrades(t *testing.T) {
	pointer := &fakePointer{setErr: errors.New("read-only settings")}
	o := batchOrchestrator(pointer, &fakeWriter{path: "p"})

	sess, err := o.Run()
	if err != nil {
		t.Fatalf("Run: %v, want pointer failure to degrade", err)
	}
	if sess == nil {
		t.Fatal("no session returned")
	}
}

func TestRunConnectFailureDegrades(t *testing.T) {
	o := batchOrchestrator(&fakePointer{}, &fakeWriter{path: "p"})
	called := ""
	o.Connect = func(alias string) error {
		called = alias
		return errors.New("editor not found")
	}

	sess, err := o.Run()
	if err != nil {
		t.Fatalf("Run: %v, want connect failure to degrade", err)
	}
	if called != sess.Alias {
		t.Errorf("connect called with %q, want %q", called, sess.Alias)
	}
}

func TestRunInteractiveQueryFailuresDegrade(t *testing.T) {
	pointer := &fakePointer{}
	writer := &fakeWriter{path: "p"}
	prompter := &scriptPrompter{
		selects: []int{1, 0},                          // host, partition sentinel
		inputs:  []string{"2", "1", "8", "01:00:00", "0", ""}, // sizing, memory, alias default
	}
	o := &Orchestrator{
		Resolver:      &fakeResolver{hosts: []string{"login1.example.org", "login2.example.org"}},
		Fetcher:       &fakeFetcher{err: errors.New("sinfo missing")},
		Qos:           func(host string) ([]string, error) { return nil, errors.New("sacctmgr missing") },
		Accounts:      func(host string) ([]string, error) { return nil, errors.New("sacctmgr missing") },
		Negotiator:    &Negotiator{Prompter: prompter, Interactive: true},
		Builder:       &CommandBuilder{ProxyCommand: "proxy"},
		Writer:        writer,
		Pointer:       pointer,
		Prompter:      prompter,
		Interactive:   true,
		AliasPrefix:   "sciama",
		NewSessionKey: func() string { return "k" },
	}

	sess, err := o.Run()
	if err != nil {
		t.Fatalf("Run: %v, want refinement query failures to degrade", err)
	}
	if sess.Alias != "sciama-login2-2n-8c" {
		t.Errorf("Alias = %q, want second host chosen, no partition segment", sess.Alias)
	}
}

func TestRunBatchPicksFirstHost(t *testing.T) {
	o := batchOrchestrator(&fakePointer{}, &fakeWriter{path: "p"})
	o.Resolver = &fakeResolver{hosts: []string{"a.example.org", "b.example.org"}}

	sess, err := o.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.HasPrefix(sess.Alias, "sciama-a-") {
		t.Errorf("Alias = %q, want first host in batch mode", sess.Alias)
	}
}

func TestRunInteractiveAliasOverride(t *testing.T) {
	prompter := &scriptPrompter{
		selects: []int{0}, // partition sentinel
		inputs:  []string{"1", "1", "4", "01:00:00", "0", "my dev box!"},
	}
	o := &Orchestrator{
		Resolver:      &fakeResolver{hosts: []string{"login1"}},
		Fetcher:       &fakeFetcher{},
		Negotiator:    &Negotiator{Prompter: prompter, Interactive: true},
		Builder:       &CommandBuilder{ProxyCommand: "proxy"},
		Writer:        &fakeWriter{path: "p"},
		Pointer:       &fakePointer{},
		Prompter:      prompter,
		Interactive:   true,
		AliasPrefix:   "sciama",
		NewSessionKey: func() string { return "k" },
	}

	sess, err := o.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sess.Alias != "my-dev-box-" {
		t.Errorf("Alias = %q, want the override sanitized", sess.Alias)
	}
}

func TestRunSchedulesRestore(t *testing.T) {
	pointer := &fakePointer{value: "/old/config"}
	o := batchOrchestrator(pointer, &fakeWriter{path: "/new/overlay"})
	o.RestoreDelay = 10 * time.Millisecond

	if _, err := o.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if pointer.Get() == "/old/config" {
			history := pointer.history()
			if len(history) != 2 || history[0] != "/new/overlay" {
				t.Errorf("pointer history = %v, want swap then restore", history)
			}
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("pointer never restored to the previous value")
}

func TestRunZeroDelaySkipsRestore(t *testing.T) {
	pointer := &fakePointer{value: "/old/config"}
	o := batchOrchestrator(pointer, &fakeWriter{path: "/new/overlay"})
	o.RestoreDelay = 0

	if _, err := o.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	time.Sleep(50 * time.Millisecond)
	if pointer.Get() != "/new/overlay" {
		t.Errorf("pointer = %q, want no restore scheduled", pointer.Get())
	}
}

func TestScheduleRestoreLastWriterWins(t *testing.T) {
	pointer := &fakePointer{}

	ScheduleRestore(pointer, "first", 10*time.Millisecond)
	ScheduleRestore(pointer, "second", 30*time.Millisecond)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(pointer.history()) == 2 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if got := pointer.Get(); got != "second" {
		t.Errorf("pointer = %q, want the later restore to win", got)
	}
}
