package engine

import (
	"github.com/pkg/errors"

	"github.com/fyerfyer/logicsim/pkg/circuit"
	"github.com/fyerfyer/logicsim/pkg/utils"
)

// Kind selects one of the five simulation engines. All engines agree on
// final output values for race-free acyclic netlists; they differ in the
// intermediate trace, the hazard report and the evaluation counts.
type Kind int

const (
	TwoList Kind = iota
	SingleListEvent
	SingleListGate
	ZeroDelay
	Threaded
)

// Kinds lists every engine in a fixed order.
var Kinds = []Kind{TwoList, SingleListEvent, SingleListGate, ZeroDelay, Threaded}

// String returns a string representation of the engine kind
func (k Kind) String() string {
	switch k {
	case TwoList:
		return "two-list"
	case SingleListEvent:
		return "single-event"
	case SingleListGate:
		return "single-gate"
	case ZeroDelay:
		return "zero-delay"
	case Threaded:
		return "threaded"
	default:
		return "unknown"
	}
}

// ParseKind converts an engine name as accepted on the command line.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if k.String() == s {
			return k, nil
		}
	}
	return TwoList, errors.Errorf("unknown engine %q", s)
}

const (
	// DefaultMaxUnits bounds the time units (or work-stack pops) of the
	// event-driven, gate-driven and threaded engines.
	DefaultMaxUnits = 10000
	// DefaultMaxPasses bounds the zero-delay engine's feedback iteration.
	DefaultMaxPasses = 64
)

// Options configures one simulation episode.
type Options struct {
	// Model selects 2- or 3-valued evaluation. Default: TwoValued.
	Model circuit.LogicModel
	// MaxUnits caps the scheduler loop; 0 means DefaultMaxUnits.
	MaxUnits int
	// MaxPasses caps the zero-delay feedback iteration; 0 means
	// DefaultMaxPasses.
	MaxPasses int
	// Initial is the reset value of every net in 3-valued mode (default
	// U). In 2-valued mode nets always reset to 0.
	Initial circuit.LogicValue
	// Baseline is the settled input assignment the episode starts from.
	// Inputs not listed settle at the reset value. The engine settles the
	// netlist under the baseline with the trace suppressed, then runs the
	// vector as the episode proper, so a vector value that differs from
	// the baseline is observed as an input transition.
	Baseline map[string]circuit.LogicValue
	// Strict makes the zero-delay engine reject netlists with feedback.
	Strict bool
	// Logger receives engine diagnostics; nil means errors only.
	Logger *utils.Logger
}

func (o Options) withDefaults() Options {
	if o.MaxUnits <= 0 {
		o.MaxUnits = DefaultMaxUnits
	}
	if o.MaxPasses <= 0 {
		o.MaxPasses = DefaultMaxPasses
	}
	if o.Model == circuit.TwoValued {
		o.Initial = circuit.Zero
	}
	if o.Logger == nil {
		o.Logger = utils.NewLogger(utils.ErrorLevel)
	}
	return o
}

// state holds everything one vector's simulation mutates. The frozen
// netlist is shared and read-only; a fresh state is built per vector so
// nothing leaks between episodes.
type state struct {
	nl   *circuit.Netlist
	opts Options
	log  *utils.Logger

	values []circuit.LogicValue
	staged []circuit.LogicValue // Next-value slots for the gate-driven engine
	flags  []bool               // Per-gate scheduled flags
	trace  Trace
	counts []int
	evals  int
	seq    int
}

func newState(nl *circuit.Netlist, opts Options) *state {
	s := &state{
		nl:     nl,
		opts:   opts,
		log:    opts.Logger,
		values: make([]circuit.LogicValue, nl.NumNets()),
		staged: make([]circuit.LogicValue, nl.NumNets()),
		flags:  make([]bool, nl.NumGates()),
		counts: make([]int, nl.NumGates()),
	}
	for i := range s.values {
		s.values[i] = opts.Initial
	}
	return s
}

// beginEpisode clears the trace and the counters accumulated by the
// settle phase so the recorded episode covers only the vector itself.
func (s *state) beginEpisode() {
	s.trace = nil
	s.evals = 0
	for i := range s.counts {
		s.counts[i] = 0
	}
}

// record commits a transition to the trace.
func (s *state) record(time, net int, old, new circuit.LogicValue) {
	s.trace = append(s.trace, Transition{Time: time, Net: net, Old: old, New: new})
	s.log.Event("t=%d %s %s -> %s", time, s.nl.NetName(net), old, new)
}

// evaluate runs one gate and bumps the evaluation counters.
func (s *state) evaluate(g *circuit.Gate) circuit.LogicValue {
	s.evals++
	s.counts[g.ID]++
	return g.Evaluate(s.values, s.opts.Model)
}

// assignment resolves an input mapping to per-net values for every
// primary input. Unlisted inputs fall back to the base assignment (or the
// reset value when base is nil). Names must be declared primary inputs
// and values must be legal under the logic model.
func (s *state) assignment(m map[string]circuit.LogicValue, base map[int]circuit.LogicValue) (map[int]circuit.LogicValue, error) {
	out := make(map[int]circuit.LogicValue, len(s.nl.Inputs()))
	for _, id := range s.nl.Inputs() {
		if base != nil {
			out[id] = base[id]
		} else {
			out[id] = s.opts.Initial
		}
	}
	for name, v := range m {
		id, ok := s.nl.NetIndex(name)
		if !ok {
			return nil, errors.Wrapf(circuit.ErrUnknownNet, "input %q", name)
		}
		if s.nl.Net(id).Kind != circuit.PrimaryInput {
			return nil, errors.Wrapf(circuit.ErrUnknownNet, "net %q is not a primary input", name)
		}
		if err := s.opts.Model.Validate(v); err != nil {
			return nil, errors.Wrapf(err, "input %q", name)
		}
		out[id] = v
	}
	return out, nil
}

// run executes one pass of the chosen engine. A forced pass schedules
// every primary input regardless of value change; it is used to settle
// the baseline state before the episode proper.
func (s *state) run(k Kind, assign map[int]circuit.LogicValue, force bool) error {
	switch k {
	case TwoList:
		return s.runTwoList(assign, force)
	case SingleListEvent:
		return s.runSingleListEvent(assign, force)
	case SingleListGate:
		return s.runSingleListGate(assign, force)
	case ZeroDelay:
		return s.runZeroDelay(assign)
	case Threaded:
		return s.runThreaded(assign, force)
	default:
		return errors.Errorf("unknown engine kind %d", int(k))
	}
}

// result assembles the immutable vector result from the episode state.
func (s *state) result(k Kind) *Result {
	outputs := make(map[string]circuit.LogicValue, len(s.nl.Outputs()))
	for _, id := range s.nl.Outputs() {
		outputs[s.nl.NetName(id)] = s.values[id]
	}
	counts := make([]int, len(s.counts))
	copy(counts, s.counts)
	hazards := AnalyzeTrace(s.nl, s.trace)
	for name, h := range hazards {
		if h != HazardNone {
			s.log.Hazard("net %s: %s", name, h)
		}
	}
	return &Result{
		Engine:        k,
		Outputs:       outputs,
		Trace:         s.trace,
		GateEvals:     s.evals,
		EvalCounts:    counts,
		Hazards:       hazards,
		OutputHistory: buildHistory(s.nl, s.trace, s.values),
	}
}

// SimulateVector runs one input vector through the chosen engine and
// returns the vector result. The netlist is never mutated; every call
// starts from the same well-defined initial state, so repeated calls with
// the same arguments yield identical results.
func SimulateVector(nl *circuit.Netlist, k Kind, vector map[string]circuit.LogicValue, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	s := newState(nl, opts)

	base, err := s.assignment(opts.Baseline, nil)
	if err != nil {
		return nil, err
	}
	full, err := s.assignment(vector, base)
	if err != nil {
		return nil, err
	}

	// Evaluate the levelized gates once over the reset values, so gates the
	// settle pass never reaches still hold the value their inputs imply.
	for _, id := range nl.LevelOrder() {
		g := nl.Gate(id)
		s.values[g.Output] = g.Evaluate(s.values, opts.Model)
	}

	s.log.Engine("%s: settling baseline for %s", k, nl.Name())
	if err := s.run(k, base, true); err != nil {
		return nil, err
	}
	s.beginEpisode()
	s.log.Engine("%s: simulating vector", k)
	if err := s.run(k, full, false); err != nil {
		return nil, err
	}
	return s.result(k), nil
}

// SimulateSequence runs each vector as an independent episode. Vectors
// share nothing: every episode resets to the same initial state.
func SimulateSequence(nl *circuit.Netlist, k Kind, vectors []map[string]circuit.LogicValue, opts Options) ([]*Result, error) {
	results := make([]*Result, 0, len(vectors))
	for i, vec := range vectors {
		r, err := SimulateVector(nl, k, vec, opts)
		if err != nil {
			return results, errors.Wrapf(err, "vector %d", i)
		}
		results = append(results, r)
	}
	return results, nil
}
