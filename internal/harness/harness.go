package harness

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/pulsenet/internal/circuit"
	"github.com/roach88/pulsenet/internal/config"
	"github.com/roach88/pulsenet/internal/engine"
	"github.com/roach88/pulsenet/internal/logging"
	"github.com/roach88/pulsenet/internal/solver"
	"github.com/roach88/pulsenet/internal/testutil"
)

// Harness executes one scenario against a fresh simulator.
type Harness struct {
	scenario *Scenario
	network  *circuit.Network
	sim      *engine.Simulator
	clock    *testutil.TraceClock
	logger   *slog.Logger
}

// Run executes a scenario with a background context.
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext executes a scenario and evaluates its assertions.
//
// Execution flow:
//  1. Parse the circuit
//  2. Run the warm-up presses unrecorded, then reset the clock
//  3. Record every pulse of the scenario's presses
//  4. Solve part 1 and part 2 if an assertion needs them
//  5. Evaluate assertions
//
// An error means the scenario could not run; failed assertions are
// reported in the Result.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	var opts []circuit.ParseOption
	if scenario.SinkName != "" {
		opts = append(opts, circuit.WithSinkName(scenario.SinkName))
	}
	n, err := circuit.Parse(scenario.Circuit, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse circuit: %w", err)
	}

	h := &Harness{
		scenario: scenario,
		network:  n,
		clock:    testutil.NewTraceClock(),
		logger:   logging.Discard(),
	}
	result := NewResult()

	recording := false
	h.sim = engine.New(n,
		engine.WithClock(h.clock),
		engine.WithLogger(h.logger),
		engine.WithObserver(func(d engine.Delivery) {
			if !recording {
				return
			}
			result.Trace = append(result.Trace, TraceEvent{
				Seq:   d.Seq,
				Press: d.Press - scenario.Warmup,
				From:  engine.NodeName(n, d.From),
				To:    engine.NodeName(n, d.To),
				Level: d.Level.String(),
			})
		}),
	)

	h.sim.PressN(scenario.Warmup)
	h.clock.Reset()
	recording = true
	result.Tally = h.sim.PressN(scenario.Presses)

	actx := &AssertionContext{
		Network: n,
		State:   h.sim.State(),
	}
	if err := h.solve(ctx, result, actx); err != nil {
		return nil, err
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(msg)
	}
	return result, nil
}

// solve computes the answers the assertions ask for. A part 2 failure is
// kept for its assertion to report; cancellation and a part 1 overflow
// abort the run.
func (h *Harness) solve(ctx context.Context, result *Result, actx *AssertionContext) error {
	var needPart1, needPart2 bool
	for _, a := range h.scenario.Assertions {
		needPart1 = needPart1 || a.Type == AssertPart1
		needPart2 = needPart2 || a.Type == AssertPart2
	}

	cfg := config.DefaultSimulation()
	if h.scenario.Part1Presses > 0 {
		cfg.Part1Presses = h.scenario.Part1Presses
	}
	sinkName := h.scenario.SinkName
	if sinkName == "" {
		sinkName = circuit.DefaultSinkName
	}
	s := solver.New(cfg, solver.WithLogger(h.logger), solver.WithSinkName(sinkName))

	if needPart1 {
		ans, err := s.Part1Answer(h.network)
		if err != nil {
			return err
		}
		result.Part1 = &ans
	}
	if needPart2 {
		ans, err := s.Part2(ctx, h.network)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			actx.Part2Err = err
			return nil
		}
		result.Part2 = &ans
	}
	return nil
}
