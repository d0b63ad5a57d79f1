package engine

import (
	"github.com/pkg/errors"

	"github.com/fyerfyer/logicsim/pkg/circuit"
)

// runZeroDelay implements the levelized sweep: primary inputs are applied
// and every levelized gate evaluates exactly once in (level, index)
// order. Gates the levelizer left in the feedback set are then iterated
// together with their forward cones until no net changes or the pass cap
// is reached. The trace exposes no intermediate glitches: it holds one
// transition per net whose final value differs from its initial value,
// so hazard reports on this engine are always clean.
func (s *state) runZeroDelay(assign map[int]circuit.LogicValue) error {
	if s.opts.Strict && s.nl.HasFeedback() {
		return errors.Wrapf(circuit.ErrFeedback, "%d gates in feedback", len(s.nl.Feedback()))
	}

	initial := make([]circuit.LogicValue, len(s.values))
	copy(initial, s.values)

	for _, id := range s.nl.Inputs() {
		s.values[id] = assign[id]
	}

	for _, id := range s.nl.LevelOrder() {
		g := s.nl.Gate(id)
		s.values[g.Output] = s.evaluate(g)
	}

	if s.nl.HasFeedback() {
		converged := false
		for pass := 0; pass < s.opts.MaxPasses; pass++ {
			changed := false
			for _, id := range s.nl.FeedbackCone() {
				g := s.nl.Gate(id)
				v := s.evaluate(g)
				if v != s.values[g.Output] {
					s.values[g.Output] = v
					changed = true
				}
			}
			if !changed {
				converged = true
				break
			}
		}
		if !converged {
			s.recordFinal(initial)
			return &NonConvergence{Engine: ZeroDelay, Limit: s.opts.MaxPasses, Partial: s.result(ZeroDelay)}
		}
	}

	s.recordFinal(initial)
	return nil
}

// recordFinal writes the zero-delay trace: initial and final values only,
// stamped at time 0 in net-index order.
func (s *state) recordFinal(initial []circuit.LogicValue) {
	for id := 0; id < s.nl.NumNets(); id++ {
		if s.values[id] != initial[id] {
			s.record(0, id, initial[id], s.values[id])
		}
	}
}
