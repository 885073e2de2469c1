package session

import (
	"errors"
	"reflect"
	"testing"

	"github.com/xangma/sciama-vscode/internal/cluster"
)

// scriptPrompter replays scripted answers. An empty scripted input means the
// user hit enter and accepted the default.
type scriptPrompter struct {
	inputs  []string
	selects []int
	err     error
}

func (p *scriptPrompter) Input(label, def string) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	if len(p.inputs) == 0 {
		return def, nil
	}
	answer := p.inputs[0]
	p.inputs = p.inputs[1:]
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

func (p *scriptPrompter) Select(label string, options []string) (int, error) {
	if p.err != nil {
		return 0, p.err
	}
	if len(p.selects) == 0 {
		return 0, errors.New("unexpected Select: " + label)
	}
	idx := p.selects[0]
	p.selects = p.selects[1:]
	return idx, nil
}

func (p *scriptPrompter) Confirm(label string, def bool) (bool, error) {
	return def, p.err
}

func gpuClusterInfo() *cluster.ClusterInfo {
	return &cluster.ClusterInfo{
		Partitions: []cluster.PartitionRecord{
			{Name: "cpu", Nodes: 10, Cpus: 32, MemMB: 64000},
			{Name: "gpu", Nodes: 2, Cpus: 64, MemMB: 128000, GpuMax: 4,
				GpuTypes: map[string]int{"a100": 4}, IsDefault: true},
		},
		DefaultPartition: "gpu",
	}
}

func TestSelectPartitionBatchUsesDefault(t *testing.T) {
	n := &Negotiator{Interactive: false, Defaults: Defaults{Partition: "cpu"}}
	var sel ResourceSelection
	if err := n.SelectPartition(gpuClusterInfo(), &sel); err != nil {
		t.Fatal(err)
	}
	if sel.Partition != "cpu" {
		t.Errorf("Partition = %q, want %q", sel.Partition, "cpu")
	}
}

func TestSelectPartitionSentinelUnsets(t *testing.T) {
	p := &scriptPrompter{selects: []int{0}}
	n := &Negotiator{Prompter: p, Interactive: true, Defaults: Defaults{Partition: "gpu"}}
	var sel ResourceSelection
	if err := n.SelectPartition(gpuClusterInfo(), &sel); err != nil {
		t.Fatal(err)
	}
	if sel.Partition != "" {
		t.Errorf("Partition = %q, want unset for the scheduler-default choice", sel.Partition)
	}
}

func TestSelectPartitionPicksEntry(t *testing.T) {
	p := &scriptPrompter{selects: []int{2}}
	n := &Negotiator{Prompter: p, Interactive: true}
	var sel ResourceSelection
	if err := n.SelectPartition(gpuClusterInfo(), &sel); err != nil {
		t.Fatal(err)
	}
	if sel.Partition != "gpu" {
		t.Errorf("Partition = %q, want %q", sel.Partition, "gpu")
	}
}

func TestSelectPartitionCancellationAborts(t *testing.T) {
	cancel := errors.New("cancelled")
	n := &Negotiator{Prompter: &scriptPrompter{err: cancel}, Interactive: true}
	var sel ResourceSelection
	if err := n.SelectPartition(gpuClusterInfo(), &sel); !errors.Is(err, cancel) {
		t.Errorf("err = %v, want the cancellation to propagate", err)
	}
}

func TestSelectQosEmptyListSkipsPrompt(t *testing.T) {
	// A scriptPrompter with no scripted selects errors if Select is called.
	n := &Negotiator{Prompter: &scriptPrompter{}, Interactive: true, Defaults: Defaults{Qos: "standard"}}
	var sel ResourceSelection
	if err := n.SelectQos(nil, &sel); err != nil {
		t.Fatal(err)
	}
	if sel.Qos != "standard" {
		t.Errorf("Qos = %q, want configured default", sel.Qos)
	}
}

func TestSelectQosNoneUnsetsDefault(t *testing.T) {
	p := &scriptPrompter{selects: []int{0}}
	n := &Negotiator{Prompter: p, Interactive: true, Defaults: Defaults{Qos: "standard"}}
	var sel ResourceSelection
	if err := n.SelectQos([]string{"standard", "long"}, &sel); err != nil {
		t.Fatal(err)
	}
	if sel.Qos != "" {
		t.Errorf("Qos = %q, want unset for None", sel.Qos)
	}
}

func TestSelectAccountPicksEntry(t *testing.T) {
	p := &scriptPrompter{selects: []int{2}}
	n := &Negotiator{Prompter: p, Interactive: true}
	var sel ResourceSelection
	if err := n.SelectAccount([]string{"astro", "bio"}, &sel); err != nil {
		t.Fatal(err)
	}
	if sel.Account != "bio" {
		t.Errorf("Account = %q, want %q", sel.Account, "bio")
	}
}

func TestSelectSizingBatchValidation(t *testing.T) {
	valid := Defaults{Nodes: 2, TasksPerNode: 1, CpusPerTask: 8, Time: "02:00:00"}

	tests := []struct {
		name      string
		mutate    func(*Defaults)
		wantField string
	}{
		{"missing nodes", func(d *Defaults) { d.Nodes = 0 }, "defaults.nodes"},
		{"missing tasks", func(d *Defaults) { d.TasksPerNode = 0 }, "defaults.tasks_per_node"},
		{"missing cpus", func(d *Defaults) { d.CpusPerTask = 0 }, "defaults.cpus_per_task"},
		{"missing time", func(d *Defaults) { d.Time = "" }, "defaults.time"},
		{"malformed time", func(d *Defaults) { d.Time = "2h" }, "defaults.time"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defaults := valid
			tt.mutate(&defaults)
			n := &Negotiator{Interactive: false, Defaults: defaults}
			var sel ResourceSelection
			err := n.SelectSizing(&cluster.ClusterInfo{}, &sel)
			if !IsValidationError(err) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
			var ve *ValidationError
			errors.As(err, &ve)
			if ve.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", ve.Field, tt.wantField)
			}
		})
	}
}

func TestSelectSizingBatchCopiesDefaults(t *testing.T) {
	n := &Negotiator{Interactive: false, Defaults: Defaults{
		Nodes: 2, TasksPerNode: 1, CpusPerTask: 8, Time: "1-00:00:00",
		MemoryMB: 32000, GpuType: "a100", GpuCount: 2,
	}}
	var sel ResourceSelection
	if err := n.SelectSizing(&cluster.ClusterInfo{}, &sel); err != nil {
		t.Fatal(err)
	}
	want := ResourceSelection{
		Nodes: 2, TasksPerNode: 1, CpusPerTask: 8, Time: "1-00:00:00",
		MemoryMB: 32000, GpuType: "a100", GpuCount: 2,
	}
	if !reflect.DeepEqual(sel, want) {
		t.Errorf("sel = %+v, want %+v", sel, want)
	}
}

func TestSelectSizingInteractiveRepromptsBadWallTime(t *testing.T) {
	p := &scriptPrompter{inputs: []string{"2", "1", "8", "junk", "04:00:00", "0"}}
	n := &Negotiator{Prompter: p, Interactive: true}
	var sel ResourceSelection
	if err := n.SelectSizing(&cluster.ClusterInfo{}, &sel); err != nil {
		t.Fatal(err)
	}
	if sel.Nodes != 2 || sel.TasksPerNode != 1 || sel.CpusPerTask != 8 {
		t.Errorf("sizing = %+v", sel)
	}
	if sel.Time != "04:00:00" {
		t.Errorf("Time = %q, want the re-prompted value", sel.Time)
	}
	if sel.MemoryMB != 0 {
		t.Errorf("MemoryMB = %d, want 0", sel.MemoryMB)
	}
}

func TestSelectSizingInteractiveGpuChoice(t *testing.T) {
	// Partition "gpu" was picked, so its single type is offered: choose it
	// (index 1 after None) and request 2.
	p := &scriptPrompter{
		inputs:  []string{"1", "1", "4", "01:00:00", "0", "2"},
		selects: []int{1},
	}
	n := &Negotiator{Prompter: p, Interactive: true}
	sel := ResourceSelection{Partition: "gpu"}
	if err := n.SelectSizing(gpuClusterInfo(), &sel); err != nil {
		t.Fatal(err)
	}
	if sel.GpuType != "a100" || sel.GpuCount != 2 {
		t.Errorf("gpu = %s:%d, want a100:2", sel.GpuType, sel.GpuCount)
	}
}

func TestSelectSizingInteractiveGpuNone(t *testing.T) {
	p := &scriptPrompter{
		inputs:  []string{"1", "1", "4", "01:00:00", "0"},
		selects: []int{0},
	}
	n := &Negotiator{Prompter: p, Interactive: true, Defaults: Defaults{GpuType: "a100", GpuCount: 4}}
	sel := ResourceSelection{Partition: "gpu"}
	if err := n.SelectSizing(gpuClusterInfo(), &sel); err != nil {
		t.Fatal(err)
	}
	if sel.GpuType != "" || sel.GpuCount != 0 {
		t.Errorf("gpu = %s:%d, want none", sel.GpuType, sel.GpuCount)
	}
}

func TestExtraArgsSplitsFields(t *testing.T) {
	p := &scriptPrompter{inputs: []string{"  --foo   --bar=1 "}}
	n := &Negotiator{Prompter: p, Interactive: true}
	var sel ResourceSelection
	if err := n.ExtraArgs(&sel); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(sel.ExtraArgs, []string{"--foo", "--bar=1"}) {
		t.Errorf("ExtraArgs = %v", sel.ExtraArgs)
	}
}

func TestExtraArgsBatchNoop(t *testing.T) {
	n := &Negotiator{Interactive: false}
	var sel ResourceSelection
	if err := n.ExtraArgs(&sel); err != nil {
		t.Fatal(err)
	}
	if sel.ExtraArgs != nil {
		t.Errorf("ExtraArgs = %v, want nil", sel.ExtraArgs)
	}
}
