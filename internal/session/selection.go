// Package session drives the connection flow: negotiate resource parameters,
// compose the remote launch command, write the SSH overlay and manage the
// pointer swap/restore lifecycle.
package session

// ResourceSelection holds the negotiated allocation request parameters. It is
// built incrementally across negotiation steps and treated as immutable once
// handed to the command builder.
type ResourceSelection struct {
	// Partition empty means "let the scheduler decide".
	Partition string
	Qos       string
	Account   string

	Nodes        int
	TasksPerNode int
	CpusPerTask  int
	// Time is a Slurm wall time string: HH:MM:SS or D-HH:MM:SS.
	Time string

	MemoryMB int
	GpuType  string
	GpuCount int

	// ExtraArgs are free launch tokens appended after the resource flags.
	ExtraArgs []string
}
