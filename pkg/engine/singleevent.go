package engine

import "github.com/fyerfyer/logicsim/pkg/circuit"

// runSingleListEvent implements unit-delay simulation over a single
// time-stamped queue. Net updates at time t drain before any gate
// evaluation at t; evaluations order by gate index. A gate evaluation
// whose output differs from the net's current value schedules an update
// at t+1 unless an equal-valued update is already pending; an evaluation
// that restores the current value cancels a pending contrary update by
// invalidating its sequence number in a side table.
func (s *state) runSingleListEvent(assign map[int]circuit.LogicValue, force bool) error {
	var queue eventQueue
	cancelled := make(map[int]bool)
	pendingSeq := make([]int, s.nl.NumNets())
	pendingVal := make([]circuit.LogicValue, s.nl.NumNets())
	for i := range pendingSeq {
		pendingSeq[i] = -1
	}
	// schedAt tracks the unit a gate evaluation is already queued for.
	schedAt := make([]int, s.nl.NumGates())
	for i := range schedAt {
		schedAt[i] = -1
	}

	for _, id := range s.nl.Inputs() {
		v := assign[id]
		if force || v != s.values[id] {
			queue.push(&entry{time: 0, phase: phaseApply, order: s.seq, net: id, value: v, seq: s.seq, force: force})
			s.seq++
		}
	}

	for queue.Len() > 0 {
		e := queue.pop()
		if e.time > s.opts.MaxUnits {
			return &NonConvergence{Engine: SingleListEvent, Limit: s.opts.MaxUnits, Partial: s.result(SingleListEvent)}
		}

		if e.phase == phaseApply {
			if cancelled[e.seq] {
				continue
			}
			if pendingSeq[e.net] == e.seq {
				pendingSeq[e.net] = -1
			}
			changed := e.value != s.values[e.net]
			if changed {
				s.record(e.time, e.net, s.values[e.net], e.value)
				s.values[e.net] = e.value
			}
			if !changed && !e.force {
				continue
			}
			for _, g := range s.nl.Net(e.net).Fanout {
				if schedAt[g] != e.time {
					schedAt[g] = e.time
					queue.push(&entry{time: e.time, phase: phaseEval, order: g, gate: g})
				}
			}
			continue
		}

		g := s.nl.Gate(e.gate)
		v := s.evaluate(g)
		out := g.Output
		if v != s.values[out] {
			if pendingSeq[out] >= 0 && pendingVal[out] == v {
				continue // An equal-valued update is already pending
			}
			queue.push(&entry{time: e.time + 1, phase: phaseApply, order: s.seq, net: out, value: v, seq: s.seq})
			pendingSeq[out] = s.seq
			pendingVal[out] = v
			s.seq++
		} else if pendingSeq[out] >= 0 && pendingVal[out] != v {
			// The pending update would be reversed immediately: cancel it.
			s.log.Event("t=%d cancel pending %s -> %s", e.time, s.nl.NetName(out), pendingVal[out])
			cancelled[pendingSeq[out]] = true
			pendingSeq[out] = -1
		}
	}
	return nil
}
