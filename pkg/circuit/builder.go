package circuit

import "github.com/pkg/errors"

// Builder constructs a netlist gate by gate. Nets are created implicitly
// the first time a name is mentioned; Freeze validates the construction,
// materializes fanout lists, levelizes, and hands out the immutable
// Netlist. A Builder is single-use: after Freeze every mutating call
// fails with ErrNetlistFrozen.
type Builder struct {
	name   string
	nets   []*Net
	gates  []*Gate
	index  map[string]int
	inputs []int
	frozen bool
}

// NewBuilder creates an empty circuit builder with the given name.
func NewBuilder(name string) *Builder {
	return &Builder{
		name:  name,
		index: make(map[string]int),
	}
}

// addNet returns the index of the named net, creating it if unknown.
func (b *Builder) addNet(name string) int {
	if id, ok := b.index[name]; ok {
		return id
	}
	id := len(b.nets)
	b.nets = append(b.nets, newNet(id, name, Internal))
	b.index[name] = id
	return id
}

// DeclareInputs creates (or marks) the named nets as primary inputs.
func (b *Builder) DeclareInputs(names ...string) error {
	if b.frozen {
		return errors.WithStack(ErrNetlistFrozen)
	}
	for _, name := range names {
		id := b.addNet(name)
		net := b.nets[id]
		if net.IsDriven() {
			return errors.Wrapf(ErrMultipleDrivers, "net %q is gate-driven and cannot be a primary input", name)
		}
		if net.Kind == PrimaryInput {
			continue
		}
		net.Kind = PrimaryInput
		b.inputs = append(b.inputs, id)
	}
	return nil
}

// DeclareOutputs marks the named nets as primary outputs. The nets may be
// created before or after this call; an output that never receives a
// driver is rejected at Freeze.
func (b *Builder) DeclareOutputs(names ...string) error {
	if b.frozen {
		return errors.WithStack(ErrNetlistFrozen)
	}
	for _, name := range names {
		id := b.addNet(name)
		net := b.nets[id]
		if net.Kind == PrimaryInput {
			return errors.Wrapf(ErrMultipleDrivers, "net %q is a primary input and cannot be a primary output", name)
		}
		net.Kind = PrimaryOutput
	}
	return nil
}

// AddGate creates a gate of the given type reading the named input nets
// and driving the named output net. Unknown nets are created implicitly.
func (b *Builder) AddGate(gt GateType, inputs []string, output string) (*Gate, error) {
	if b.frozen {
		return nil, errors.WithStack(ErrNetlistFrozen)
	}
	if !gt.checkArity(len(inputs)) {
		return nil, errors.Wrapf(ErrArityMismatch, "%s gate with %d inputs", gt, len(inputs))
	}
	inIDs := make([]int, len(inputs))
	for i, name := range inputs {
		inIDs[i] = b.addNet(name)
	}
	outID := b.addNet(output)
	out := b.nets[outID]
	if out.IsDriven() {
		return nil, errors.Wrapf(ErrMultipleDrivers, "net %q already driven by g%d", output, out.Driver)
	}
	if out.Kind == PrimaryInput {
		return nil, errors.Wrapf(ErrMultipleDrivers, "net %q is a primary input", output)
	}
	gate := &Gate{
		ID:     len(b.gates),
		Type:   gt,
		Inputs: inIDs,
		Output: outID,
		Level:  -1,
	}
	out.Driver = gate.ID
	b.gates = append(b.gates, gate)
	return gate, nil
}

// Freeze validates the netlist, builds fanout lists, runs the levelizer
// and returns the immutable netlist handle. The builder rejects further
// mutation afterwards.
func (b *Builder) Freeze() (*Netlist, error) {
	if b.frozen {
		return nil, errors.WithStack(ErrNetlistFrozen)
	}
	var outputs []int
	for _, net := range b.nets {
		if !net.IsDriven() && net.Kind != PrimaryInput {
			return nil, errors.Wrapf(ErrUndriven, "net %q has no driver and is not a primary input", net.Name)
		}
		if net.Kind == PrimaryOutput {
			outputs = append(outputs, net.ID)
		}
	}
	buildFanout(b.nets, b.gates)
	feedback, maxLevel := levelize(b.nets, b.gates)
	b.frozen = true
	return &Netlist{
		name:     b.name,
		nets:     b.nets,
		gates:    b.gates,
		index:    b.index,
		inputs:   b.inputs,
		outputs:  outputs,
		feedback: feedback,
		cone:     feedbackCone(b.nets, b.gates, feedback),
		order:    levelOrder(b.gates),
		maxLevel: maxLevel,
	}, nil
}

// buildFanout materializes the per-net fanout lists by scanning each
// gate's inputs once. A gate reading the same net on two pins appears a
// single time in that net's fanout.
func buildFanout(nets []*Net, gates []*Gate) {
	for _, g := range gates {
		for _, in := range g.Inputs {
			net := nets[in]
			if n := len(net.Fanout); n > 0 && net.Fanout[n-1] == g.ID {
				continue
			}
			net.Fanout = append(net.Fanout, g.ID)
		}
	}
}
