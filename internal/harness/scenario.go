package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Circuit is the inline circuit description.
	Circuit string `yaml:"circuit,omitempty"`

	// CircuitFile is a path to the description, relative to the scenario
	// file. Exactly one of Circuit and CircuitFile is set.
	CircuitFile string `yaml:"circuit_file,omitempty"`

	// SinkName overrides the part 2 sink.
	SinkName string `yaml:"sink_name,omitempty"`

	// Warmup presses run before recording starts.
	Warmup int `yaml:"warmup,omitempty"`

	// Presses is the number of recorded presses.
	Presses int `yaml:"presses"`

	// Part1Presses overrides the press count of the part1 assertion.
	Part1Presses int `yaml:"part1_presses,omitempty"`

	// Assertions validate the recorded run and the answers.
	Assertions []Assertion `yaml:"assertions"`
}

// Assertion validates one property of a run.
type Assertion struct {
	// Type selects the check; see the Assert constants.
	Type string `yaml:"type"`

	// From, To and Level filter pulses for trace_contains and
	// trace_count. Empty fields match anything.
	From  string `yaml:"from,omitempty"`
	To    string `yaml:"to,omitempty"`
	Level string `yaml:"level,omitempty"`

	// Count is the expected number of matching pulses (trace_count).
	Count *int `yaml:"count,omitempty"`

	// Pulses lists "from -level-> to" entries expected in order
	// (trace_order). Other pulses may appear between them.
	Pulses []string `yaml:"pulses,omitempty"`

	// Module names the module checked by flipflop and memory.
	Module string `yaml:"module,omitempty"`

	// State is the expected flip-flop state.
	State *bool `yaml:"state,omitempty"`

	// Levels are the expected conjunction slots, "low" or "high".
	Levels []string `yaml:"levels,omitempty"`

	// Low and High are the expected tally.
	Low  *int64 `yaml:"low,omitempty"`
	High *int64 `yaml:"high,omitempty"`

	// Value is the expected answer (part1, part2).
	Value *int64 `yaml:"value,omitempty"`

	// Strategy optionally pins how part 2 must be solved.
	Strategy string `yaml:"strategy,omitempty"`
}

// Assertion type constants.
const (
	AssertTally         = "tally"
	AssertTraceContains = "trace_contains"
	AssertTraceCount    = "trace_count"
	AssertTraceOrder    = "trace_order"
	AssertFlipFlop      = "flipflop"
	AssertMemory        = "memory"
	AssertPart1         = "part1"
	AssertPart2         = "part2"
)

// LoadScenario reads and parses a scenario YAML file. Unknown fields are
// rejected and circuit_file is read relative to the scenario.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Circuit != "" && scenario.CircuitFile != "" {
		return nil, fmt.Errorf("invalid scenario: circuit and circuit_file are mutually exclusive")
	}
	if scenario.CircuitFile != "" {
		circuitPath := scenario.CircuitFile
		if !filepath.IsAbs(circuitPath) {
			circuitPath = filepath.Join(filepath.Dir(path), circuitPath)
		}
		src, err := os.ReadFile(circuitPath)
		if err != nil {
			return nil, fmt.Errorf("invalid scenario: circuit file: %w", err)
		}
		scenario.Circuit = string(src)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if strings.TrimSpace(s.Circuit) == "" {
		return fmt.Errorf("circuit or circuit_file is required")
	}
	if s.Presses < 0 {
		return fmt.Errorf("presses must be non-negative")
	}
	if s.Warmup < 0 {
		return fmt.Errorf("warmup must be non-negative")
	}
	if s.Part1Presses < 0 {
		return fmt.Errorf("part1_presses must be non-negative")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Level != "" && a.Level != "low" && a.Level != "high" {
		return fmt.Errorf("assertions[%d]: level must be low or high, got %q", index, a.Level)
	}

	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertTally:
		if a.Low == nil && a.High == nil {
			return fmt.Errorf("assertions[%d]: low or high is required for tally", index)
		}
	case AssertTraceContains:
		if a.From == "" && a.To == "" && a.Level == "" {
			return fmt.Errorf("assertions[%d]: from, to or level is required for trace_contains", index)
		}
	case AssertTraceCount:
		if a.Count == nil {
			return fmt.Errorf("assertions[%d]: count is required for trace_count", index)
		}
		if *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertTraceOrder:
		if len(a.Pulses) == 0 {
			return fmt.Errorf("assertions[%d]: pulses list is required for trace_order", index)
		}
	case AssertFlipFlop:
		if a.Module == "" || a.State == nil {
			return fmt.Errorf("assertions[%d]: module and state are required for flipflop", index)
		}
	case AssertMemory:
		if a.Module == "" || len(a.Levels) == 0 {
			return fmt.Errorf("assertions[%d]: module and levels are required for memory", index)
		}
		for _, l := range a.Levels {
			if l != "low" && l != "high" {
				return fmt.Errorf("assertions[%d]: levels must be low or high, got %q", index, l)
			}
		}
	case AssertPart1, AssertPart2:
		if a.Value == nil {
			return fmt.Errorf("assertions[%d]: value is required for %s", index, a.Type)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
