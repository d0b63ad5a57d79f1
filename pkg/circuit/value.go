package circuit

import "github.com/pkg/errors"

// LogicValue represents the value carried by a net
type LogicValue int

const (
	U    LogicValue = iota // Unknown/uninitialized
	Zero                   // Logic 0
	One                    // Logic 1
)

// String returns a string representation of the logic value
func (v LogicValue) String() string {
	switch v {
	case U:
		return "U"
	case Zero:
		return "0"
	case One:
		return "1"
	default:
		return "?"
	}
}

// ParseLogicValue converts a value symbol ("0", "1" or "U") to a LogicValue.
func ParseLogicValue(s string) (LogicValue, error) {
	switch s {
	case "0":
		return Zero, nil
	case "1":
		return One, nil
	case "U", "u":
		return U, nil
	default:
		return U, errors.Wrapf(ErrBadValue, "symbol %q", s)
	}
}

// LogicModel selects between strict two-valued evaluation and
// three-valued evaluation with the unknown value U.
type LogicModel int

const (
	TwoValued LogicModel = iota
	ThreeValued
)

// String returns a string representation of the logic model
func (m LogicModel) String() string {
	switch m {
	case TwoValued:
		return "2-valued"
	case ThreeValued:
		return "3-valued"
	default:
		return "unknown"
	}
}

// Validate checks that v is a legal value under the model.
func (m LogicModel) Validate(v LogicValue) error {
	switch v {
	case Zero, One:
		return nil
	case U:
		if m == ThreeValued {
			return nil
		}
		return errors.Wrap(ErrBadValue, "U is not a 2-valued symbol")
	default:
		return errors.Wrapf(ErrBadValue, "value %d", int(v))
	}
}

// invert returns the complement of v. The complement of U is U.
func invert(v LogicValue) LogicValue {
	switch v {
	case Zero:
		return One
	case One:
		return Zero
	default:
		return U
	}
}
