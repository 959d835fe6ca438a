// Package config loads pulsenet settings from YAML and the environment
// and validates them against an embedded CUE schema.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/roach88/pulsenet/internal/circuit"
)

//go:embed schema.cue
var schemaSource string

// DefaultFileName is read from the working directory when Load is given
// no explicit path.
const DefaultFileName = "pulsenet.yaml"

// Config holds every pulsenet setting.
type Config struct {
	Circuit    CircuitConfig    `json:"circuit" yaml:"circuit"`
	Simulation SimulationConfig `json:"simulation" yaml:"simulation"`
	Store      StoreConfig      `json:"store" yaml:"store"`
	Logging    LoggingConfig    `json:"logging" yaml:"logging"`
}

// CircuitConfig controls how descriptions are resolved.
type CircuitConfig struct {
	// SinkName is the module watched by part 2, created implicitly when
	// referenced but never declared.
	SinkName string `json:"sink_name" yaml:"sink_name"`

	// Broadcaster is the unprefixed name that declares the broadcast module.
	Broadcaster string `json:"broadcaster" yaml:"broadcaster"`
}

// ParseOptions returns the circuit.Parse options for c.
func (c CircuitConfig) ParseOptions() []circuit.ParseOption {
	return []circuit.ParseOption{
		circuit.WithSinkName(c.SinkName),
		circuit.WithBroadcasterName(c.Broadcaster),
	}
}

// SimulationConfig bounds the solver.
type SimulationConfig struct {
	// Part1Presses is the number of presses whose pulses part 1 counts.
	Part1Presses int `json:"part1_presses" yaml:"part1_presses"`

	// MaxPresses caps the brute-force part 2 search.
	MaxPresses int `json:"max_presses" yaml:"max_presses"`

	// MaxCyclePresses caps cycle detection on each subgraph.
	MaxCyclePresses int `json:"max_cycle_presses" yaml:"max_cycle_presses"`

	// Workers limits how many subgraphs are analysed at once.
	// 0 runs one worker per subgraph.
	Workers int `json:"workers" yaml:"workers"`
}

// StoreConfig locates the answer database.
type StoreConfig struct {
	// Path is the SQLite file. Empty disables recording.
	Path string `json:"path" yaml:"path"`
}

// LoggingConfig sets log verbosity: "info", "debug" or "trace".
type LoggingConfig struct {
	Level string `json:"level" yaml:"level"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Circuit: CircuitConfig{
			SinkName:    circuit.DefaultSinkName,
			Broadcaster: circuit.BroadcasterName,
		},
		Simulation: DefaultSimulation(),
		Logging:    LoggingConfig{Level: "info"},
	}
}

// DefaultSimulation returns the built-in solver bounds.
func DefaultSimulation() SimulationConfig {
	return SimulationConfig{
		Part1Presses:    1000,
		MaxPresses:      100_000_000,
		MaxCyclePresses: 1 << 20,
		Workers:         0,
	}
}

// Load builds the effective configuration: defaults, then the file at
// path (or DefaultFileName if path is empty and that file exists), then
// PULSENET_* environment variables. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		if _, err := os.Stat(DefaultFileName); err == nil {
			path = DefaultFileName
		}
	}
	if path != "" {
		fileCfg, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
	}

	if err := applyEnvOverrides(cfg, os.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile reads a YAML file over the defaults. Unknown keys are
// rejected.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks c against the CUE schema, then the constraints CUE
// cannot express.
func (c *Config) Validate() error {
	if err := validateSchema(c); err != nil {
		return err
	}
	if c.Circuit.SinkName == c.Circuit.Broadcaster {
		return fmt.Errorf("invalid config: circuit.sink_name and circuit.broadcaster are both %q", c.Circuit.SinkName)
	}
	if c.Simulation.Part1Presses > c.Simulation.MaxPresses {
		return fmt.Errorf("invalid config: simulation.part1_presses (%d) exceeds simulation.max_presses (%d)",
			c.Simulation.Part1Presses, c.Simulation.MaxPresses)
	}
	return nil
}

func validateSchema(c *Config) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compiling config schema: %w", err)
	}

	value := ctx.Encode(c)
	if err := value.Err(); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	unified := schema.LookupPath(cue.ParsePath("#Config")).Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies PULSENET_* variables read through getenv.
func applyEnvOverrides(cfg *Config, getenv func(string) string) error {
	if v := getenv("PULSENET_SINK_NAME"); v != "" {
		cfg.Circuit.SinkName = v
	}
	if v := getenv("PULSENET_BROADCASTER"); v != "" {
		cfg.Circuit.Broadcaster = v
	}
	if v := getenv("PULSENET_STORE"); v != "" {
		cfg.Store.Path = v
	}
	if v := getenv("PULSENET_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"PULSENET_PART1_PRESSES", &cfg.Simulation.Part1Presses},
		{"PULSENET_MAX_PRESSES", &cfg.Simulation.MaxPresses},
		{"PULSENET_MAX_CYCLE_PRESSES", &cfg.Simulation.MaxCyclePresses},
		{"PULSENET_WORKERS", &cfg.Simulation.Workers},
	}
	for _, o := range ints {
		v := getenv(o.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(strings.ReplaceAll(v, "_", ""))
		if err != nil {
			return fmt.Errorf("%s: %q is not an integer", o.name, v)
		}
		*o.dst = n
	}
	return nil
}
