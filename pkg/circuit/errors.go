package circuit

import "github.com/pkg/errors"

// Error kinds reported by circuit construction and value handling.
// Callers can test for them with errors.Is.
var (
	ErrBadValue        = errors.New("bad logic value")
	ErrUnknownNet      = errors.New("unknown net")
	ErrMultipleDrivers = errors.New("multiple drivers")
	ErrUndriven        = errors.New("undriven net")
	ErrArityMismatch   = errors.New("arity mismatch")
	ErrNetlistFrozen   = errors.New("netlist frozen")
	ErrFeedback        = errors.New("feedback in levelized netlist")
)
