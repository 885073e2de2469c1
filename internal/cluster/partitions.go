package cluster

import (
	"sort"
	"strings"

	"github.com/xangma/sciama-vscode/internal/utils"
)

// ParseReport folds one raw pipe-delimited scheduler report into a ClusterInfo.
//
// Expected field layout per line:
//
//	0: partition name(s), comma-separated, "*" suffix = cluster default
//	1: node count (numeric) or a single node identifier, depending on shape
//	2: CPU capacity, possibly "alloc/idle/other/total" (total taken)
//	3: memory in MB (unit suffixes ignored)
//	4: GRES descriptor
//
// Lines with fewer than 3 fields or an empty name are discarded. The same
// partition may appear on many lines (one per node in the -N shape); capacity
// fields merge via elementwise max, never sum — a report row per node repeats
// the per-node capacity, and summing would overcount shared resources. Node
// counts derived from a distinct node-identifier set are exact and override
// any reported numeric count. Unparsable tokens contribute 0/empty; this
// function never fails.
func ParseReport(raw string) ClusterInfo {
	records := make(map[string]*PartitionRecord)
	nodeSets := make(map[string]map[string]struct{})
	defaultPartition := ""

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fields := strings.Split(line, "|")
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		if len(fields) < 3 || fields[0] == "" {
			continue
		}

		// Field 1 disambiguates the two report shapes: an all-digit value is
		// a node count, anything else is a node identifier. Mere leading
		// digits are not enough — node names like "2gpu-01" exist.
		nodeField := fields[1]
		nodeCount := 0
		nodeID := ""
		if nodeField != "" {
			if utils.IsAllDigits(nodeField) {
				nodeCount = utils.ExtractInt(nodeField)
			} else {
				nodeID = nodeField
			}
		}

		cpus := 0
		if len(fields) > 2 {
			cpuField := fields[2]
			// "alloc/idle/other/total" — the rightmost segment is the total
			if idx := strings.LastIndex(cpuField, "/"); idx >= 0 {
				cpuField = cpuField[idx+1:]
			}
			cpus = utils.ExtractInt(cpuField)
		}

		memMB := 0
		if len(fields) > 3 {
			memMB = utils.ExtractInt(fields[3])
		}

		gpuMax := 0
		var gpuTypes map[string]int
		if len(fields) > 4 {
			gpuMax, gpuTypes = ParseGres(fields[4])
		}

		for _, name := range strings.Split(fields[0], ",") {
			name = strings.TrimSpace(name)
			isDefault := strings.HasSuffix(name, "*")
			name = strings.TrimSuffix(name, "*")
			if name == "" {
				continue
			}
			if isDefault && defaultPartition == "" {
				defaultPartition = name
			}

			rec, ok := records[name]
			if !ok {
				rec = &PartitionRecord{Name: name, GpuTypes: make(map[string]int)}
				records[name] = rec
			}

			if nodeID != "" {
				set, ok := nodeSets[name]
				if !ok {
					set = make(map[string]struct{})
					nodeSets[name] = set
				}
				set[nodeID] = struct{}{}
			} else if nodeCount > rec.Nodes {
				rec.Nodes = nodeCount
			}

			if cpus > rec.Cpus {
				rec.Cpus = cpus
			}
			if memMB > rec.MemMB {
				rec.MemMB = memMB
			}
			if gpuMax > rec.GpuMax {
				rec.GpuMax = gpuMax
			}
			for gpuType, count := range gpuTypes {
				if count > rec.GpuTypes[gpuType] {
					rec.GpuTypes[gpuType] = count
				}
			}
			rec.IsDefault = rec.IsDefault || isDefault
		}
	}

	// A distinct node-identifier set gives an exact count; exact beats the
	// reported maximum.
	for name, set := range nodeSets {
		if len(set) > 0 {
			records[name].Nodes = len(set)
		}
	}

	partitions := make([]PartitionRecord, 0, len(records))
	for _, rec := range records {
		partitions = append(partitions, *rec)
	}
	sort.Slice(partitions, func(i, j int) bool {
		return partitions[i].Name < partitions[j].Name
	})

	return ClusterInfo{Partitions: partitions, DefaultPartition: defaultPartition}
}

// MaxReportFields returns the maximum number of pipe-delimited fields across
// all non-empty lines of raw. Used as an acceptance signal: too few columns
// means the report shape is not usable.
func MaxReportFields(raw string) int {
	maxFields := 0
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if n := strings.Count(line, "|") + 1; n > maxFields {
			maxFields = n
		}
	}
	return maxFields
}
