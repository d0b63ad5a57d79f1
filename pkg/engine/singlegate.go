package engine

import (
	"sort"

	"github.com/fyerfyer/logicsim/pkg/circuit"
)

// runSingleListGate implements unit-delay simulation that schedules
// gates, not net changes. Each unit evaluates every scheduled gate
// exactly once, staging new output values in next-value slots; staged
// values commit at the unit boundary and the fanout of every net that
// actually changed is scheduled for the following unit. The run converges
// when a unit commits no change.
func (s *state) runSingleListGate(assign map[int]circuit.LogicValue, force bool) error {
	// Primary-input updates commit at time 0.
	var scheduled []int
	for _, id := range s.nl.Inputs() {
		v := assign[id]
		changed := v != s.values[id]
		if changed {
			s.record(0, id, s.values[id], v)
			s.values[id] = v
		}
		if !changed && !force {
			continue
		}
		for _, g := range s.nl.Net(id).Fanout {
			if !s.flags[g] {
				s.flags[g] = true
				scheduled = append(scheduled, g)
			}
		}
	}

	type stagedChange struct {
		net   int
		value circuit.LogicValue
	}
	for now := 1; len(scheduled) > 0; now++ {
		if now > s.opts.MaxUnits {
			return &NonConvergence{Engine: SingleListGate, Limit: s.opts.MaxUnits, Partial: s.result(SingleListGate)}
		}

		// Evaluate this unit's gates in index order, staging changes.
		sort.Ints(scheduled)
		var staged []stagedChange
		for _, id := range scheduled {
			s.flags[id] = false
			g := s.nl.Gate(id)
			v := s.evaluate(g)
			if v != s.values[g.Output] {
				staged = append(staged, stagedChange{net: g.Output, value: v})
			}
		}

		// Commit at the unit boundary and schedule the fanout of every
		// changed net for the next unit.
		scheduled = scheduled[:0]
		for _, c := range staged {
			s.record(now, c.net, s.values[c.net], c.value)
			s.values[c.net] = c.value
			for _, g := range s.nl.Net(c.net).Fanout {
				if !s.flags[g] {
					s.flags[g] = true
					scheduled = append(scheduled, g)
				}
			}
		}
	}
	return nil
}
