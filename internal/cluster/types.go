// Package cluster normalizes Slurm cluster reports into a single resource model.
//
// Different clusters expose different sinfo column sets, and the same
// partition may appear once per node or once per partition depending on the
// report shape. Everything here folds those shapes into one merged, sorted
// partition list that the connection flow can negotiate against.
package cluster

// PartitionRecord describes one partition's aggregated capacity.
// Numeric fields default to 0 meaning "unknown" and are never negative.
type PartitionRecord struct {
	Name      string         `json:"name"`
	Nodes     int            `json:"nodes"`
	Cpus      int            `json:"cpus"`
	MemMB     int            `json:"mem_mb"`
	GpuMax    int            `json:"gpu_max"`
	GpuTypes  map[string]int `json:"gpu_types,omitempty"`
	IsDefault bool           `json:"is_default"`
}

// ClusterInfo is the normalized result of one report fetch: partitions sorted
// ascending by name, plus the cluster-reported default partition (first
// "*"-flagged name seen, if any).
type ClusterInfo struct {
	Partitions       []PartitionRecord `json:"partitions"`
	DefaultPartition string            `json:"default_partition,omitempty"`
}

// Meaningful reports whether at least one partition carries any capacity
// signal (CPUs, memory or GPUs). A non-meaningful result is still returned to
// callers as a last resort; they must tolerate it.
func (c *ClusterInfo) Meaningful() bool {
	for _, p := range c.Partitions {
		if p.Cpus > 0 || p.MemMB > 0 || p.GpuMax > 0 {
			return true
		}
	}
	return false
}

// HasGpuPartitions reports whether any partition parsed with GPU capacity.
func (c *ClusterInfo) HasGpuPartitions() bool {
	for _, p := range c.Partitions {
		if p.GpuMax > 0 {
			return true
		}
	}
	return false
}

// Partition returns the record with the given name, if present.
func (c *ClusterInfo) Partition(name string) (PartitionRecord, bool) {
	for _, p := range c.Partitions {
		if p.Name == name {
			return p, true
		}
	}
	return PartitionRecord{}, false
}
