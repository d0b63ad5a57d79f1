package engine

import (
	"sort"

	"github.com/fyerfyer/logicsim/pkg/circuit"
)

// tlEvent is a pending net update in the two-list engine. Events are
// applied one unit after they were produced; insertion order is the
// tie-break within a unit.
type tlEvent struct {
	net   int
	value circuit.LogicValue
	force bool
}

// runTwoList implements unit-delay simulation with two scheduling
// structures: the list of net updates applied at the current unit and the
// list of gates to evaluate afterwards. Gates whose output changes
// produce events for the next unit; the run terminates when a unit ends
// with both lists empty.
func (s *state) runTwoList(assign map[int]circuit.LogicValue, force bool) error {
	var current []tlEvent
	for _, id := range s.nl.Inputs() {
		v := assign[id]
		if force || v != s.values[id] {
			current = append(current, tlEvent{net: id, value: v, force: force})
		}
	}

	gateList := make([]int, 0, s.nl.NumGates())
	for now := 0; len(current) > 0; now++ {
		if now > s.opts.MaxUnits {
			return &NonConvergence{Engine: TwoList, Limit: s.opts.MaxUnits, Partial: s.result(TwoList)}
		}

		// Apply this unit's events in insertion order, then collect the
		// fanout of every net that changed. Forced events schedule their
		// fanout even without a value change.
		gateList = gateList[:0]
		for _, ev := range current {
			changed := ev.value != s.values[ev.net]
			if changed {
				s.record(now, ev.net, s.values[ev.net], ev.value)
				s.values[ev.net] = ev.value
			}
			if !changed && !ev.force {
				continue
			}
			for _, g := range s.nl.Net(ev.net).Fanout {
				if !s.flags[g] {
					s.flags[g] = true
					gateList = append(gateList, g)
				}
			}
		}

		// Evaluate the queued gates in gate-index order; output changes
		// become events for the next unit.
		sort.Ints(gateList)
		var next []tlEvent
		for _, id := range gateList {
			s.flags[id] = false
			g := s.nl.Gate(id)
			v := s.evaluate(g)
			if v != s.values[g.Output] {
				next = append(next, tlEvent{net: g.Output, value: v})
			}
		}
		current = next
	}
	return nil
}
