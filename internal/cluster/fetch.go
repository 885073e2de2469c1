package cluster

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xangma/sciama-vscode/internal/utils"
)

// ErrReportUnavailable indicates every candidate report command failed to
// execute on the login host.
var ErrReportUnavailable = errors.New("no cluster report command could be executed")

// Report-shape fallbacks, tried after any configured custom command.
// The node shape (one row per node) yields exact node counts but is not
// supported everywhere; the partition shape (one row per partition) is the
// lowest common denominator.
const (
	nodeReportCommand      = `sinfo -N -o "%P|%N|%C|%m|%G" --noheader`
	partitionReportCommand = `sinfo -o "%P|%D|%C|%m|%G" --noheader`
)

// minReportFields is the minimum pipe-delimited column count for a report to
// be considered usable.
const minReportFields = 5

// gpuMarker flags raw report text that mentions GPU GRES. A report showing
// the marker but parsing to zero GPU partitions has an unparseable GRES
// column, so a later candidate gets a chance.
const gpuMarker = "gpu:"

// Runner executes a command on a remote host and returns its stdout.
type Runner interface {
	Run(host, command string) (string, error)
}

// Fetcher retrieves and normalizes cluster reports from a login host, trying
// an ordered list of report commands until one produces a meaningful result.
// A non-nil Cache is consulted before fetching and refreshed after a
// meaningful fetch.
type Fetcher struct {
	Runner        Runner
	CustomCommand string
	Cache         *Cache
}

// Candidates returns the ordered report commands to try.
func (f *Fetcher) Candidates() []string {
	return []string{f.CustomCommand, nodeReportCommand, partitionReportCommand}
}

// Fetch runs the candidate report commands on host in order and returns the
// first meaningful ClusterInfo. Individual execution failures are logged and
// skipped; an error is returned only when every candidate's execution itself
// failed. If no candidate is accepted but at least one parsed, the last
// parsed result is returned as-is — callers must tolerate a partial or empty
// ClusterInfo.
func (f *Fetcher) Fetch(host string) (ClusterInfo, error) {
	if f.Cache != nil {
		if info, ok := f.Cache.Get(host); ok {
			utils.PrintDebug("Using cached cluster info for %s", host)
			return *info, nil
		}
	}

	var lastParsed *ClusterInfo
	var lastErr error
	attempted := 0
	failed := 0

	for _, command := range f.Candidates() {
		if command == "" {
			continue
		}
		attempted++

		raw, err := f.Runner.Run(host, command)
		if err != nil {
			utils.PrintDebug("Report command failed on %s: %v", host, err)
			lastErr = err
			failed++
			continue
		}

		info := ParseReport(raw)
		lastParsed = &info

		if strings.Contains(raw, gpuMarker) && !info.HasGpuPartitions() {
			utils.PrintDebug("Report on %s mentions GPUs but none parsed; trying next shape", host)
			continue
		}
		if MaxReportFields(raw) < minReportFields {
			utils.PrintDebug("Report on %s has too few columns; trying next shape", host)
			continue
		}
		if info.Meaningful() {
			f.store(host, info)
			return info, nil
		}
	}

	// A non-meaningful fallback is returned but never cached: pinning empty
	// data for the TTL would outlive whatever transient condition caused it.
	if lastParsed != nil {
		return *lastParsed, nil
	}
	if attempted > 0 && failed == attempted {
		return ClusterInfo{}, fmt.Errorf("%w on %s: %v", ErrReportUnavailable, host, lastErr)
	}
	return ClusterInfo{}, nil
}

func (f *Fetcher) store(host string, info ClusterInfo) {
	if f.Cache == nil {
		return
	}
	if err := f.Cache.Put(host, info); err != nil {
		utils.PrintDebug("Failed to cache cluster info for %s: %v", host, err)
	}
}
