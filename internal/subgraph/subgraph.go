// Package subgraph splits a network whose sink is fed by one conjunction
// into independent pieces, one per input of that conjunction.
//
// Each piece keeps every module that is both reachable from the
// broadcaster and able to reach its conjunction input (the exit). Modules
// are renumbered in depth-first order from the broadcaster, and the exit's
// edges are replaced by a single edge to a copy of the sink. Edges leaving
// the piece become unresolved. The original network is never modified.
package subgraph

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/roach88/pulsenet/internal/circuit"
)

// ErrNoDecomposition means the network lacks the single-sink,
// single-conjunction shape. Callers fall back to direct simulation.
var ErrNoDecomposition = errors.New("subgraph: network does not decompose")

// Subgraph is a renumbered slice of a Network. Local id 0 is the
// broadcaster; the last local id is the synthetic sink.
type Subgraph struct {
	network     *circuit.Network
	translation []int // local id -> network id
	edges       [][]circuit.Edge
	exit        int
}

var _ circuit.Graph = (*Subgraph)(nil)

// Start returns 0, the broadcaster's local id.
func (s *Subgraph) Start() int { return 0 }

// Len returns the number of modules, synthetic sink included.
func (s *Subgraph) Len() int { return len(s.translation) }

// Outputs returns the local edges of id.
func (s *Subgraph) Outputs(id int) []circuit.Edge { return s.edges[id] }

// Kind returns the kind of the module id was copied from.
func (s *Subgraph) Kind(id int) circuit.Kind { return s.network.Kind(s.translation[id]) }

// InputCount returns the input count in the full network, so conjunction
// slots keep their original numbering.
func (s *Subgraph) InputCount(id int) int { return s.network.InputCount(s.translation[id]) }

// Name returns the name of the module id was copied from.
func (s *Subgraph) Name(id int) string { return s.network.Name(s.translation[id]) }

// Label names the subgraph after its exit module.
func (s *Subgraph) Label() string { return s.Name(s.exit) }

// Exit returns the local id of the exit module.
func (s *Subgraph) Exit() int { return s.exit }

// Sink returns the local id of the synthetic sink.
func (s *Subgraph) Sink() int { return len(s.translation) - 1 }

// Original maps a local id back to its id in the network.
func (s *Subgraph) Original(id int) int { return s.translation[id] }

// String lists every local module with its kind and edges.
func (s *Subgraph) String() string {
	var b strings.Builder
	for id := range s.translation {
		fmt.Fprintf(&b, "  %d %s %s\n", id, s.Name(id), s.Kind(id))
		for _, e := range s.edges[id] {
			if !e.Resolved() {
				b.WriteString("    -> unknown\n")
				continue
			}
			fmt.Fprintf(&b, "    -> %d %s (slot %d)\n", e.Target, s.Name(e.Target), e.Slot)
		}
	}
	return b.String()
}

// Option adjusts Extract.
type Option func(*extractConfig)

type extractConfig struct {
	logger *slog.Logger
}

// WithLogger sets the logger that reports each extracted subgraph.
func WithLogger(l *slog.Logger) Option {
	return func(c *extractConfig) {
		c.logger = l
	}
}

// Extract checks that n has exactly one output module, fed by exactly one
// conjunction, and returns one Subgraph per input of that conjunction in
// network id order. Otherwise it returns an error wrapping
// ErrNoDecomposition.
func Extract(n *circuit.Network, opts ...Option) ([]*Subgraph, error) {
	cfg := extractConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}

	sinks := n.Sinks()
	if len(sinks) != 1 {
		return nil, fmt.Errorf("%w: found %d output modules", ErrNoDecomposition, len(sinks))
	}
	sink := sinks[0]

	feeders := n.Inputs(sink)
	if len(feeders) != 1 {
		return nil, fmt.Errorf("%w: output %q has %d inputs", ErrNoDecomposition, n.Name(sink), len(feeders))
	}
	combiner := feeders[0]
	if k := n.Kind(combiner); k != circuit.KindConjunction {
		return nil, fmt.Errorf("%w: %q feeding %q is not a conjunction (kind %s)",
			ErrNoDecomposition, n.Name(combiner), n.Name(sink), k)
	}

	var result []*Subgraph
	for _, exit := range n.Inputs(combiner) {
		sg, err := build(n, exit, sink, n.Slice(exit))
		if err != nil {
			return nil, err
		}
		cfg.logger.Debug("subgraph extracted",
			"exit", n.Name(exit),
			"modules", sg.Len(),
		)
		result = append(result, sg)
	}
	return result, nil
}

func build(n *circuit.Network, exit, sink int, included []bool) (*Subgraph, error) {
	local := make([]int, n.Len())
	for i := range local {
		local[i] = circuit.NoTarget
	}

	var translation []int
	pending := []int{n.Start()}
	for len(pending) > 0 {
		cur := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		if local[cur] != circuit.NoTarget {
			continue
		}
		local[cur] = len(translation)
		translation = append(translation, cur)
		for _, e := range n.Outputs(cur) {
			if e.Resolved() && included[e.Target] {
				pending = append(pending, e.Target)
			}
		}
	}

	if local[exit] == circuit.NoTarget {
		return nil, fmt.Errorf("%w: %q is not reachable from %q",
			ErrNoDecomposition, n.Name(exit), n.Name(n.Start()))
	}

	edges := make([][]circuit.Edge, len(translation), len(translation)+1)
	for id, orig := range translation {
		outs := n.Outputs(orig)
		edges[id] = make([]circuit.Edge, len(outs))
		for j, e := range outs {
			if e.Resolved() && local[e.Target] != circuit.NoTarget {
				edges[id][j] = circuit.Edge{Target: local[e.Target], Slot: e.Slot}
			} else {
				edges[id][j] = circuit.Edge{Target: circuit.NoTarget}
			}
		}
	}

	sinkID := len(translation)
	translation = append(translation, sink)
	edges[local[exit]] = []circuit.Edge{{Target: sinkID, Slot: 0}}
	edges = append(edges, nil)

	return &Subgraph{
		network:     n,
		translation: translation,
		edges:       edges,
		exit:        local[exit],
	}, nil
}
