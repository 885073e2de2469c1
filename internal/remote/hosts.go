package remote

import (
	"strings"

	"github.com/xangma/sciama-vscode/internal/utils"
)

// Runner executes a command on a remote host and returns its stdout.
type Runner interface {
	Run(host, command string) (string, error)
}

// Prompter asks the user for a value when discovery comes up empty.
type Prompter interface {
	Input(label, def string) (string, error)
}

// HostResolver determines the candidate login hosts: a static configured
// list if present, otherwise the output of a discovery command run on a
// designated query host.
type HostResolver struct {
	Static           []string
	DiscoveryHost    string
	DiscoveryCommand string
	Runner           Runner
	Prompter         Prompter
	Interactive      bool
}

// Resolve returns the candidate login hosts, deduplicated preserving
// first-occurrence order. Discovery failure degrades to the static list with
// a warning; an empty result is returned as-is for the caller to judge.
func (r *HostResolver) Resolve() ([]string, error) {
	if len(r.Static) > 0 {
		return dedupe(r.Static), nil
	}

	hosts := []string{}
	if r.DiscoveryCommand != "" {
		queryHost := r.DiscoveryHost
		if queryHost == "" && r.Interactive && r.Prompter != nil {
			answer, err := r.Prompter.Input("Host to query for login nodes", "")
			if err != nil {
				return nil, err
			}
			queryHost = strings.TrimSpace(answer)
		}
		if queryHost != "" {
			out, err := r.Runner.Run(queryHost, r.DiscoveryCommand)
			if err != nil {
				utils.PrintWarning("Login host discovery failed on %s: %v", queryHost, err)
			} else {
				hosts = dedupe(strings.Fields(out))
			}
		}
	}

	if len(hosts) == 0 && r.Interactive && r.Prompter != nil {
		answer, err := r.Prompter.Input("Login host", "")
		if err != nil {
			return nil, err
		}
		if answer = strings.TrimSpace(answer); answer != "" {
			hosts = []string{answer}
		}
	}

	return hosts, nil
}

func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
