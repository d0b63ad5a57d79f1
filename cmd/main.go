package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/fyerfyer/logicsim/pkg/circuit"
	"github.com/fyerfyer/logicsim/pkg/engine"
	"github.com/fyerfyer/logicsim/pkg/utils"
)

func main() {
	// Parse command-line arguments
	circuitFile := flag.String("circuit", "", "Circuit file in BENCH format")
	vectorFile := flag.String("vectors", "", "Input vector file (name=value pairs, one vector per line)")
	engineName := flag.String("engine", "all", "Engine to run: two-list, single-event, single-gate, zero-delay, threaded or all")
	model := flag.Int("model", 2, "Logic model: 2 or 3 valued")
	baselineStr := flag.String("baseline", "", "Settled input assignment the episode starts from (name=value pairs)")
	strict := flag.Bool("strict", false, "Fail the zero-delay engine on netlists with feedback")
	outputFile := flag.String("output", "", "Output file for results (default: stdout summary only)")
	verbose := flag.Bool("verbose", false, "Verbose output")
	logFile := flag.String("log", "", "Log file (default: stdout)")
	flag.Parse()

	// Configure logger
	logLevel := utils.InfoLevel
	if *verbose {
		logLevel = utils.DebugLevel
	}

	var logger *utils.Logger
	var err error

	if *logFile != "" {
		logger, err = utils.NewFileLogger(logLevel, *logFile)
		if err != nil {
			fmt.Printf("Error creating log file: %v\n", err)
			os.Exit(1)
		}
	} else {
		logger = utils.NewLogger(logLevel)
	}

	// Check required arguments
	if *circuitFile == "" || *vectorFile == "" {
		fmt.Println("Error: Circuit file and vector file are required")
		flag.Usage()
		os.Exit(1)
	}

	var logicModel circuit.LogicModel
	switch *model {
	case 2:
		logicModel = circuit.TwoValued
	case 3:
		logicModel = circuit.ThreeValued
	default:
		fmt.Printf("Error: invalid logic model %d (expected 2 or 3)\n", *model)
		os.Exit(1)
	}

	// Select engines
	var kinds []engine.Kind
	if *engineName == "all" {
		kinds = engine.Kinds
	} else {
		kind, err := engine.ParseKind(*engineName)
		if err != nil {
			logger.Error("%v", err)
			os.Exit(1)
		}
		kinds = []engine.Kind{kind}
	}

	// Parse circuit file
	logger.Info("Parsing circuit from %s", *circuitFile)
	netlist, err := utils.ParseBenchFile(*circuitFile)
	if err != nil {
		logger.Error("Failed to parse circuit: %v", err)
		os.Exit(1)
	}
	logger.Info("Circuit: %s", netlist.Name())
	logger.Info("Gates: %d", netlist.NumGates())
	logger.Info("Nets: %d", netlist.NumNets())
	logger.Info("Primary inputs: %d", len(netlist.Inputs()))
	logger.Info("Primary outputs: %d", len(netlist.Outputs()))
	if netlist.HasFeedback() {
		logger.Warning("Netlist has %d gates in feedback loops", len(netlist.Feedback()))
	}

	// Parse vector file
	vectors, err := utils.ParseVectorFile(*vectorFile)
	if err != nil {
		logger.Error("Failed to parse vectors: %v", err)
		os.Exit(1)
	}
	logger.Info("Loaded %d vectors", len(vectors))

	baseline, err := parseBaseline(*baselineStr)
	if err != nil {
		logger.Error("Failed to parse baseline: %v", err)
		os.Exit(1)
	}

	opts := engine.Options{
		Model:    logicModel,
		Baseline: baseline,
		Strict:   *strict,
		Logger:   logger,
	}

	var report []string
	for _, kind := range kinds {
		logger.Info("Running %s engine over %d vectors", kind, len(vectors))
		results, err := engine.SimulateSequence(netlist, kind, vectors, opts)
		if err != nil {
			logger.Error("%s engine failed: %v", kind, err)
			os.Exit(1)
		}
		for i, r := range results {
			logger.Info("%s vector %d: %s evals=%d", kind, i+1, formatOutputs(r.Outputs), r.GateEvals)
			for _, name := range sortedKeys(r.Hazards) {
				if h := r.Hazards[name]; h != engine.HazardNone {
					logger.Info("%s vector %d: hazard on %s: %s", kind, i+1, name, h)
				}
			}
			report = append(report, formatResult(kind, i+1, r))
		}
	}

	if *outputFile != "" {
		if err := writeReport(*outputFile, report); err != nil {
			logger.Error("Error writing results: %v", err)
			os.Exit(1)
		}
		logger.Info("Results written to %s", *outputFile)
	}
}

// parseBaseline reads a name=value list like "A=1 B=0".
func parseBaseline(s string) (map[string]circuit.LogicValue, error) {
	if s == "" {
		return nil, nil
	}
	baseline := make(map[string]circuit.LogicValue)
	for _, field := range strings.Fields(s) {
		name, sym, found := strings.Cut(field, "=")
		if !found {
			return nil, fmt.Errorf("expected name=value, got %q", field)
		}
		v, err := circuit.ParseLogicValue(sym)
		if err != nil {
			return nil, err
		}
		baseline[name] = v
	}
	return baseline, nil
}

func formatOutputs(outputs map[string]circuit.LogicValue) string {
	var b strings.Builder
	for _, name := range sortedKeys(outputs) {
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "%s=%s", name, outputs[name])
	}
	return b.String()
}

func formatResult(kind engine.Kind, vector int, r *engine.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Vector %d (%s)\n%s\n", vector, kind, formatOutputs(r.Outputs))
	fmt.Fprintf(&b, "# Gate evaluations: %d\n", r.GateEvals)
	for _, name := range sortedKeys(r.Hazards) {
		if h := r.Hazards[name]; h != engine.HazardNone {
			fmt.Fprintf(&b, "# Hazard on %s: %s\n", name, h)
		}
	}
	return b.String()
}

func writeReport(filename string, report []string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	defer writer.Flush()
	for _, entry := range report {
		if _, err := writer.WriteString(entry); err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
