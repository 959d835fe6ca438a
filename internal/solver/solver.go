// Package solver computes both answers for a circuit.
//
// Part 1 is a plain simulation. Part 2 first tries to split the network
// into independent subgraphs, find each subgraph's cycle in parallel and
// combine the resulting congruences. When the network does not have the
// required shape, or the cycles do not line up, it falls back to pressing
// the button until the sink sees a Low pulse.
package solver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/pulsenet/internal/circuit"
	"github.com/roach88/pulsenet/internal/config"
	"github.com/roach88/pulsenet/internal/engine"
	"github.com/roach88/pulsenet/internal/recurrence"
	"github.com/roach88/pulsenet/internal/subgraph"
)

// Strategy names how an answer was computed.
type Strategy string

const (
	StrategySimulation    Strategy = "simulation"
	StrategyDecomposition Strategy = "decomposition"
	StrategyBruteForce    Strategy = "brute_force"
)

// SubgraphCycle pairs a subgraph with the cycle found for it.
type SubgraphCycle struct {
	Index    int                `json:"index"`
	Label    string             `json:"label"`
	Modules  int                `json:"modules"`
	Cycle    engine.Cycle       `json:"cycle"`
	Subgraph *subgraph.Subgraph `json:"-"`
}

// Answer is one computed part.
type Answer struct {
	Part     int             `json:"part"`
	Value    int64           `json:"value"`
	Strategy Strategy        `json:"strategy"`
	Tally    *engine.Tally   `json:"tally,omitempty"`
	Cycles   []SubgraphCycle `json:"cycles,omitempty"`
	Fallback string          `json:"fallback,omitempty"`
	Elapsed  time.Duration   `json:"elapsed_ns"`
}

// Solver holds the simulation bounds. It carries no per-circuit state and
// may be reused.
type Solver struct {
	cfg      config.SimulationConfig
	sinkName string
	logger   *slog.Logger
}

// Option configures a Solver.
type Option func(*Solver)

// WithLogger sets the solver's logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Solver) {
		s.logger = l
	}
}

// WithSinkName sets the name reported when a network has no sink.
func WithSinkName(name string) Option {
	return func(s *Solver) {
		s.sinkName = name
	}
}

// New creates a solver bounded by cfg.
func New(cfg config.SimulationConfig, opts ...Option) *Solver {
	s := &Solver{
		cfg:      cfg,
		sinkName: circuit.DefaultSinkName,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Part1 returns Low × High over the configured number of presses from a
// fresh state. The only error is an ANSWER_OVERFLOW when the product does
// not fit in an int64.
func (s *Solver) Part1(g circuit.Graph) (int64, error) {
	ans, err := s.Part1Answer(g)
	return ans.Value, err
}

// Part1Answer is Part1 with the tally and timing.
func (s *Solver) Part1Answer(g circuit.Graph) (Answer, error) {
	began := time.Now()
	sim := engine.New(g, engine.WithLogger(s.logger))
	tally := sim.PressN(s.cfg.Part1Presses)
	product, err := tally.Product()
	if err != nil {
		return Answer{}, fmt.Errorf("part 1: %w", err)
	}
	ans := Answer{
		Part:     1,
		Value:    product,
		Strategy: StrategySimulation,
		Tally:    &tally,
		Elapsed:  time.Since(began),
	}
	s.logger.Info("part 1 solved",
		"presses", s.cfg.Part1Presses,
		"low", tally.Low,
		"high", tally.High,
		"value", ans.Value,
	)
	return ans, nil
}

// Part2 returns the first press on which the sink receives a Low pulse.
//
// Decomposition problems (wrong topology, misaligned cycles, no common
// solution) fall back to brute force and are reported in
// Answer.Fallback. A subgraph without a cycle within MaxCyclePresses, an
// answer past int64, a brute force exceeding MaxPresses, a missing sink
// and context cancellation are errors.
func (s *Solver) Part2(ctx context.Context, n *circuit.Network) (Answer, error) {
	began := time.Now()
	if len(n.Sinks()) == 0 {
		return Answer{}, engine.NewNoSinkError("", s.sinkName)
	}

	ans, derr := s.Decompose(ctx, n)
	if derr == nil {
		ans.Elapsed = time.Since(began)
		return ans, nil
	}
	if !fallsBack(derr) {
		return Answer{}, derr
	}

	s.logger.Info("decomposition unavailable, falling back to brute force", "reason", derr.Error())
	ans, err := s.BruteForce(ctx, n)
	if err != nil {
		return Answer{}, err
	}
	ans.Fallback = derr.Error()
	ans.Elapsed = time.Since(began)
	return ans, nil
}

// fallsBack reports whether err is a decomposition precondition failure.
func fallsBack(err error) bool {
	return errors.Is(err, subgraph.ErrNoDecomposition) ||
		errors.Is(err, recurrence.ErrCannotCombine) ||
		errors.Is(err, recurrence.ErrNoSolution)
}

// Decompose computes part 2 from per-subgraph cycles without a
// fallback.
func (s *Solver) Decompose(ctx context.Context, n *circuit.Network) (Answer, error) {
	cycles, err := s.Cycles(ctx, n)
	if err != nil {
		return Answer{}, err
	}

	candidates := make([][]recurrence.Recurrence, len(cycles))
	for i, sc := range cycles {
		rs, err := sc.Cycle.Recurrences()
		if err != nil {
			return Answer{}, fmt.Errorf("subgraph %q: %w", sc.Label, err)
		}
		candidates[i] = rs
	}

	value, err := recurrence.Combine(candidates)
	if errors.Is(err, recurrence.ErrOverflow) {
		return Answer{}, engine.NewOverflowError("", "part 2", err)
	}
	if err != nil {
		return Answer{}, err
	}

	s.logger.Info("part 2 solved",
		"strategy", StrategyDecomposition,
		"subgraphs", len(cycles),
		"value", value,
	)
	return Answer{
		Part:     2,
		Value:    value,
		Strategy: StrategyDecomposition,
		Cycles:   cycles,
	}, nil
}

// Cycles extracts n's subgraphs and finds the cycle of each, running at
// most Workers detections at once. Results are in subgraph order. The
// first failure cancels the remaining detections.
func (s *Solver) Cycles(ctx context.Context, n *circuit.Network) ([]SubgraphCycle, error) {
	subs, err := subgraph.Extract(n, subgraph.WithLogger(s.logger))
	if err != nil {
		return nil, err
	}

	out := make([]SubgraphCycle, len(subs))
	g, gctx := errgroup.WithContext(ctx)
	if s.cfg.Workers > 0 {
		g.SetLimit(s.cfg.Workers)
	}
	for i, sub := range subs {
		i, sub := i, sub
		g.Go(func() error {
			c, err := engine.FindCycle(gctx, sub, s.cfg.MaxCyclePresses, engine.WithLogger(s.logger))
			if err != nil {
				return fmt.Errorf("subgraph %q: %w", sub.Label(), err)
			}
			out[i] = SubgraphCycle{
				Index:    i,
				Label:    sub.Label(),
				Modules:  sub.Len(),
				Cycle:    c,
				Subgraph: sub,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// BruteForce presses the button on the whole network until the sink
// receives a Low pulse, up to MaxPresses.
func (s *Solver) BruteForce(ctx context.Context, n *circuit.Network) (Answer, error) {
	if len(n.Sinks()) == 0 {
		return Answer{}, engine.NewNoSinkError("", s.sinkName)
	}
	sim := engine.New(n, engine.WithLogger(s.logger))
	press, err := engine.PressUntil(ctx, sim, s.cfg.MaxPresses, "brute force", func(ps engine.PressStats) bool {
		return ps.Sink.Low > 0
	})
	if err != nil {
		return Answer{}, err
	}
	s.logger.Info("part 2 solved",
		"strategy", StrategyBruteForce,
		"value", press,
	)
	return Answer{
		Part:     2,
		Value:    int64(press),
		Strategy: StrategyBruteForce,
	}, nil
}
