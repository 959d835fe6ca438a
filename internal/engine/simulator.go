package engine

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/roach88/pulsenet/internal/circuit"
	"github.com/roach88/pulsenet/internal/logging"
)

// Tally counts pulses by level.
type Tally struct {
	Low  int64 `json:"low"`
	High int64 `json:"high"`
}

func (t *Tally) add(l circuit.Level) {
	if l == circuit.High {
		t.High++
	} else {
		t.Low++
	}
}

// Plus returns the element-wise sum of t and o.
func (t Tally) Plus(o Tally) Tally {
	return Tally{Low: t.Low + o.Low, High: t.High + o.High}
}

// Product returns Low*High, or an ANSWER_OVERFLOW error when it does not
// fit in an int64.
func (t Tally) Product() (int64, error) {
	if t.Low == 0 || t.High == 0 {
		return 0, nil
	}
	if t.Low > math.MaxInt64/t.High {
		return 0, NewOverflowError("", fmt.Sprintf("%d low × %d high", t.Low, t.High), nil)
	}
	return t.Low * t.High, nil
}

// Total returns Low+High.
func (t Tally) Total() int64 {
	return t.Low + t.High
}

// PressStats summarizes one press.
type PressStats struct {
	// Press is the 1-based index of the press within its run.
	Press int
	// Sent counts every emitted pulse, the button pulse included.
	Sent Tally
	// Sink counts pulses delivered to output modules.
	Sink Tally
}

// Delivery is one emitted pulse as seen by an Observer. To is
// circuit.NoTarget when the edge leads nowhere; From is ButtonID for the
// press itself.
type Delivery struct {
	Seq   int64
	Press int
	From  int
	To    int
	Level circuit.Level
}

// Observer receives every pulse in emission order.
type Observer func(Delivery)

// Simulator runs button presses against one graph and one State.
//
// Not safe for concurrent use; create one simulator per goroutine.
type Simulator struct {
	graph    circuit.Graph
	state    *State
	queue    *pulseQueue
	clock    SeqSource
	observer Observer
	logger   *slog.Logger

	presses int
	totals  Tally
	sink    Tally
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithClock stamps pulses from c instead of a private clock.
func WithClock(c SeqSource) Option {
	return func(s *Simulator) {
		s.clock = c
	}
}

// WithObserver registers fn to see every emitted pulse.
func WithObserver(fn Observer) Option {
	return func(s *Simulator) {
		s.observer = fn
	}
}

// WithLogger replaces slog.Default as the destination for trace output.
func WithLogger(l *slog.Logger) Option {
	return func(s *Simulator) {
		s.logger = l
	}
}

// New creates a simulator over g with freshly initialized state.
func New(g circuit.Graph, opts ...Option) *Simulator {
	s := &Simulator{
		graph: g,
		state: NewState(g),
		queue: newPulseQueue(),
		clock: NewClock(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Graph returns the graph being simulated.
func (s *Simulator) Graph() circuit.Graph { return s.graph }

// State returns the live state. Callers must not modify it; use Clone to
// keep a snapshot.
func (s *Simulator) State() *State { return s.state }

// Presses returns the number of presses performed.
func (s *Simulator) Presses() int { return s.presses }

// Totals returns the pulses emitted across every press so far.
func (s *Simulator) Totals() Tally { return s.totals }

// SinkTotals returns the pulses delivered to output modules so far.
func (s *Simulator) SinkTotals() Tally { return s.sink }

// Press injects one Low pulse into the start module and drains the queue.
func (s *Simulator) Press() PressStats {
	s.presses++
	stats := PressStats{Press: s.presses}
	trace := s.observer != nil || logging.TraceEnabled(s.logger)

	s.emit(&stats, trace, ButtonID, circuit.Low, circuit.Edge{Target: s.graph.Start(), Slot: 0})
	for {
		p, ok := s.queue.TryDequeue()
		if !ok {
			break
		}
		s.deliver(&stats, trace, p)
	}

	s.totals = s.totals.Plus(stats.Sent)
	s.sink = s.sink.Plus(stats.Sink)
	return stats
}

// PressN performs n presses and returns the tally they emitted.
func (s *Simulator) PressN(n int) Tally {
	var t Tally
	for i := 0; i < n; i++ {
		t = t.Plus(s.Press().Sent)
	}
	return t
}

func (s *Simulator) deliver(stats *PressStats, trace bool, p pulse) {
	id := p.edge.Target
	switch s.graph.Kind(id) {
	case circuit.KindBroadcast:
		s.emitAll(stats, trace, id, p.level)

	case circuit.KindFlipFlop:
		if p.level == circuit.High {
			return
		}
		s.state.flops[id] = !s.state.flops[id]
		s.emitAll(stats, trace, id, circuit.LevelOf(s.state.flops[id]))

	case circuit.KindConjunction:
		mem := s.state.memory[id]
		mem[p.edge.Slot] = p.level
		out := circuit.Low
		for _, l := range mem {
			if l == circuit.Low {
				out = circuit.High
				break
			}
		}
		s.emitAll(stats, trace, id, out)

	case circuit.KindInverter:
		s.emitAll(stats, trace, id, p.level.Invert())

	case circuit.KindOutput:
		stats.Sink.add(p.level)
	}
}

func (s *Simulator) emitAll(stats *PressStats, trace bool, from int, level circuit.Level) {
	for _, e := range s.graph.Outputs(from) {
		s.emit(stats, trace, from, level, e)
	}
}

func (s *Simulator) emit(stats *PressStats, trace bool, from int, level circuit.Level, e circuit.Edge) {
	stats.Sent.add(level)
	seq := s.clock.Next()

	if trace {
		d := Delivery{Seq: seq, Press: s.presses, From: from, To: e.Target, Level: level}
		if s.observer != nil {
			s.observer(d)
		}
		logging.Trace(s.logger, "pulse",
			"seq", seq,
			"press", s.presses,
			"from", s.name(from),
			"to", s.name(e.Target),
			"level", level.String(),
		)
	}

	if e.Resolved() {
		s.queue.Enqueue(pulse{seq: seq, from: from, level: level, edge: e})
	}
}

func (s *Simulator) name(id int) string {
	return NodeName(s.graph, id)
}

// NodeName returns the name of id in g, "button" for ButtonID and
// "unknown" for circuit.NoTarget.
func NodeName(g circuit.Graph, id int) string {
	switch id {
	case ButtonID:
		return "button"
	case circuit.NoTarget:
		return "unknown"
	}
	return g.Name(id)
}
