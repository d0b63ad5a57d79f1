package engine

import (
	"fmt"

	"github.com/fyerfyer/logicsim/pkg/circuit"
)

// Transition records one committed net-value change. Times are
// non-decreasing within a trace; transitions at the same time appear in
// commit order.
type Transition struct {
	Time int
	Net  int
	Old  circuit.LogicValue
	New  circuit.LogicValue
}

// String returns a string representation of the transition
func (t Transition) String() string {
	return fmt.Sprintf("t=%d net%d %s->%s", t.Time, t.Net, t.Old, t.New)
}

// Trace is the ordered sequence of transitions committed during one
// vector's simulation. It is the source of truth for hazard analysis and
// intermediate-output history.
type Trace []Transition

// Snapshot holds the primary-output values observed at the end of one
// time step.
type Snapshot struct {
	Time    int
	Outputs map[string]circuit.LogicValue
}

// Result is the immutable record produced by simulating one vector.
type Result struct {
	Engine        Kind
	Outputs       map[string]circuit.LogicValue // Final primary-output values by name
	Trace         Trace
	GateEvals     int   // Total gate evaluations
	EvalCounts    []int // Evaluations per gate, indexed by gate ID
	Hazards       map[string]Hazard // Classification per driven net
	OutputHistory []Snapshot        // Output values after each time step
}

// buildHistory replays the trace over the initial net values and records
// the primary outputs after each distinct time step.
func buildHistory(nl *circuit.Netlist, tr Trace, final []circuit.LogicValue) []Snapshot {
	values := make([]circuit.LogicValue, len(final))
	copy(values, final)
	// Rewind the trace to recover the state at the start of the episode.
	for i := len(tr) - 1; i >= 0; i-- {
		values[tr[i].Net] = tr[i].Old
	}
	snap := func(t int) Snapshot {
		outs := make(map[string]circuit.LogicValue, len(nl.Outputs()))
		for _, id := range nl.Outputs() {
			outs[nl.NetName(id)] = values[id]
		}
		return Snapshot{Time: t, Outputs: outs}
	}
	var history []Snapshot
	for i := 0; i < len(tr); {
		t := tr[i].Time
		for i < len(tr) && tr[i].Time == t {
			values[tr[i].Net] = tr[i].New
			i++
		}
		history = append(history, snap(t))
	}
	return history
}
