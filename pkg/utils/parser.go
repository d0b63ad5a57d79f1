package utils

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pkg/errors"

	"github.com/fyerfyer/logicsim/pkg/circuit"
)

// Regular expressions for parsing BENCH format
var (
	inputRegex  = regexp.MustCompile(`^INPUT\((\w+)\)$`)
	outputRegex = regexp.MustCompile(`^OUTPUT\((\w+)\)$`)
	gateRegex   = regexp.MustCompile(`^(\w+)\s*=\s*(\w+)\((.+)\)$`)
)

// ParseBenchFile reads a circuit description in BENCH format and returns
// the frozen netlist.
func ParseBenchFile(filename string) (*circuit.Netlist, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open file")
	}
	defer file.Close()

	name := strings.TrimSuffix(filepath.Base(filename), ".bench")
	return ParseBench(file, name)
}

// ParseBench reads a BENCH description from r and builds the netlist
// through the circuit builder. Nets referenced before declaration are
// created implicitly, exactly as the builder allows.
func ParseBench(r io.Reader, name string) (*circuit.Netlist, error) {
	b := circuit.NewBuilder(name)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		// Skip comments and empty lines
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if matches := inputRegex.FindStringSubmatch(line); matches != nil {
			if err := b.DeclareInputs(matches[1]); err != nil {
				return nil, errors.Wrapf(err, "line %d", lineNo)
			}
			continue
		}

		if matches := outputRegex.FindStringSubmatch(line); matches != nil {
			if err := b.DeclareOutputs(matches[1]); err != nil {
				return nil, errors.Wrapf(err, "line %d", lineNo)
			}
			continue
		}

		matches := gateRegex.FindStringSubmatch(line)
		if matches == nil {
			return nil, errors.Errorf("line %d: unrecognized statement %q", lineNo, line)
		}
		gt, err := parseGateType(matches[2])
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", lineNo)
		}
		inputs := strings.Split(matches[3], ",")
		for i := range inputs {
			inputs[i] = strings.TrimSpace(inputs[i])
		}
		if _, err := b.AddGate(gt, inputs, matches[1]); err != nil {
			return nil, errors.Wrapf(err, "line %d", lineNo)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "error reading input")
	}

	return b.Freeze()
}

// parseGateType converts a BENCH gate-type name to a GateType
func parseGateType(typeString string) (circuit.GateType, error) {
	switch strings.ToUpper(typeString) {
	case "AND":
		return circuit.AND, nil
	case "OR":
		return circuit.OR, nil
	case "NOT", "INV":
		return circuit.NOT, nil
	case "NAND":
		return circuit.NAND, nil
	case "NOR":
		return circuit.NOR, nil
	case "XOR":
		return circuit.XOR, nil
	case "XNOR":
		return circuit.XNOR, nil
	default:
		return circuit.AND, errors.Errorf("unsupported gate type: %s", typeString)
	}
}

// ParseVectorFile reads input vectors, one per line, as whitespace
// separated name=value assignments. Lines starting with '#' are
// comments.
func ParseVectorFile(filename string) ([]map[string]circuit.LogicValue, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open file")
	}
	defer file.Close()
	return ParseVectors(file)
}

// ParseVectors reads vectors from r; see ParseVectorFile for the format.
func ParseVectors(r io.Reader) ([]map[string]circuit.LogicValue, error) {
	var vectors []map[string]circuit.LogicValue
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		vec := make(map[string]circuit.LogicValue)
		for _, field := range strings.Fields(line) {
			name, sym, found := strings.Cut(field, "=")
			if !found {
				return nil, errors.Errorf("line %d: expected name=value, got %q", lineNo, field)
			}
			v, err := circuit.ParseLogicValue(sym)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d", lineNo)
			}
			vec[name] = v
		}
		vectors = append(vectors, vec)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "error reading input")
	}
	return vectors, nil
}
