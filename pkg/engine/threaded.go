package engine

import "github.com/fyerfyer/logicsim/pkg/circuit"

// runThreaded implements the threaded-code style: every gate is a
// callable unit resolved at freeze time (its record is just the gate
// index, with input and output indices pre-bound in the gate table), and
// a work stack drives execution. Applying a primary input pushes its
// fanout callables; executing a callable reads its inputs, writes its
// output, stamps any transition with a monotonically increasing logical
// time and pushes the fanout of its output net. A per-gate flag keeps a
// callable from sitting on the stack twice.
func (s *state) runThreaded(assign map[int]circuit.LogicValue, force bool) error {
	var stack []int
	ltime := 0
	push := func(net int) {
		for _, g := range s.nl.Net(net).Fanout {
			if !s.flags[g] {
				s.flags[g] = true
				stack = append(stack, g)
			}
		}
	}

	for _, id := range s.nl.Inputs() {
		v := assign[id]
		changed := v != s.values[id]
		if changed {
			s.record(ltime, id, s.values[id], v)
			ltime++
			s.values[id] = v
		}
		if changed || force {
			push(id)
		}
	}

	for pops := 0; len(stack) > 0; pops++ {
		if pops > s.opts.MaxUnits {
			return &NonConvergence{Engine: Threaded, Limit: s.opts.MaxUnits, Partial: s.result(Threaded)}
		}
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		s.flags[id] = false
		g := s.nl.Gate(id)
		v := s.evaluate(g)
		if v != s.values[g.Output] {
			s.record(ltime, g.Output, s.values[g.Output], v)
			ltime++
			s.values[g.Output] = v
			push(g.Output)
		}
	}
	return nil
}
