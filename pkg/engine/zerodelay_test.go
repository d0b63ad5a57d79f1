package engine_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyerfyer/logicsim/pkg/circuit"
	"github.com/fyerfyer/logicsim/pkg/engine"
)

// A ring of three inverters has no stable 2-valued solution: the
// feedback iteration oscillates until the pass cap.
func TestRingNonConvergence(t *testing.T) {
	nl := buildRing(t)
	_, err := engine.SimulateVector(nl, engine.ZeroDelay, nil, engine.Options{})
	require.Error(t, err)

	var nc *engine.NonConvergence
	require.True(t, errors.As(err, &nc), "got %v", err)
	assert.Equal(t, engine.ZeroDelay, nc.Engine)
	assert.Equal(t, engine.DefaultMaxPasses, nc.Limit)
	require.NotNil(t, nc.Partial, "error should carry the partial result")
}

// In 3-valued mode the all-U assignment is the ring's fixed point.
func TestRingThreeValuedConverges(t *testing.T) {
	nl := buildRing(t)
	r, err := engine.SimulateVector(nl, engine.ZeroDelay, nil, engine.Options{Model: circuit.ThreeValued})
	require.NoError(t, err)
	assert.Equal(t, circuit.U, r.Outputs["a"])
	assert.Empty(t, r.Trace, "nothing changes from the all-U reset")
}

func TestStrictFeedback(t *testing.T) {
	nl := buildRing(t)
	_, err := engine.SimulateVector(nl, engine.ZeroDelay, nil, engine.Options{Model: circuit.ThreeValued, Strict: true})
	assert.True(t, errors.Is(err, circuit.ErrFeedback), "got %v", err)
}

// The event-driven engines tolerate feedback: with no primary inputs
// nothing is ever scheduled and the ring simply holds its reset state.
func TestRingEventDriven(t *testing.T) {
	nl := buildRing(t)
	for _, k := range []engine.Kind{engine.TwoList, engine.SingleListEvent, engine.SingleListGate, engine.Threaded} {
		r, err := engine.SimulateVector(nl, k, nil, engine.Options{Model: circuit.ThreeValued})
		require.NoError(t, err, "engine %s", k)
		assert.Equal(t, circuit.U, r.Outputs["a"], "engine %s", k)
	}
}

// The zero-delay trace holds only initial and final values, so every
// acyclic run reports hazard-free nets even when the unit-delay engines
// see glitches.
func TestZeroDelayFinalOnlyTrace(t *testing.T) {
	nl := buildLadder(t)
	r, err := engine.SimulateVector(nl, engine.ZeroDelay, vec("A", circuit.One, "B", circuit.One, "C", circuit.Zero), engine.Options{})
	require.NoError(t, err)

	assert.Equal(t, circuit.One, r.Outputs["Y"])
	seen := make(map[int]int)
	for _, tr := range r.Trace {
		assert.Equal(t, 0, tr.Time)
		seen[tr.Net]++
	}
	for net, n := range seen {
		assert.Equal(t, 1, n, "net %s has %d transitions", nl.NetName(net), n)
	}
	for _, h := range r.Hazards {
		assert.Equal(t, engine.HazardNone, h)
	}
}
