package circuit

import "fmt"

// NetKind classifies a net within the netlist
type NetKind int

const (
	Internal NetKind = iota
	PrimaryInput
	PrimaryOutput
)

// String returns a string representation of the net kind
func (k NetKind) String() string {
	switch k {
	case Internal:
		return "internal"
	case PrimaryInput:
		return "input"
	case PrimaryOutput:
		return "output"
	default:
		return "unknown"
	}
}

// Net represents a named wire in the circuit. Nets are stored in a dense
// array and referenced by index everywhere else; per-vector values live in
// the engines, not here.
type Net struct {
	ID     int     // Dense index into the net table
	Name   string  // User-supplied name
	Kind   NetKind // Input/output/internal classification
	Driver int     // Index of the driving gate, -1 for primary inputs
	Fanout []int   // Indices of gates reading this net, built at freeze
}

func newNet(id int, name string, kind NetKind) *Net {
	return &Net{
		ID:     id,
		Name:   name,
		Kind:   kind,
		Driver: -1,
	}
}

// IsDriven returns true if a gate drives this net.
func (n *Net) IsDriven() bool {
	return n.Driver >= 0
}

// String returns a string representation of the net
func (n *Net) String() string {
	return fmt.Sprintf("%s(%s)", n.Name, n.Kind)
}
