package engine

import (
	"fmt"
	"slices"

	"github.com/cespare/xxhash/v2"

	"github.com/roach88/pulsenet/internal/circuit"
)

// State is the mutable memory of every module in one graph: a boolean per
// flip-flop and a level per input slot of every conjunction. Broadcast,
// inverter and output modules carry nothing.
//
// A State belongs to one simulation run and is never shared.
type State struct {
	flops  []bool
	memory [][]circuit.Level
}

// NewState allocates the all-off state for g: every flip-flop false,
// every conjunction slot Low.
func NewState(g circuit.Graph) *State {
	s := &State{
		flops:  make([]bool, g.Len()),
		memory: make([][]circuit.Level, g.Len()),
	}
	for id := 0; id < g.Len(); id++ {
		if g.Kind(id) == circuit.KindConjunction {
			s.memory[id] = make([]circuit.Level, g.InputCount(id))
		}
	}
	return s
}

// FlipFlop returns the stored boolean of module id.
func (s *State) FlipFlop(id int) bool {
	return s.flops[id]
}

// Memory returns a copy of the remembered input levels of conjunction id,
// indexed by slot. It is nil for any other kind.
func (s *State) Memory(id int) []circuit.Level {
	return slices.Clone(s.memory[id])
}

// Len returns the number of modules the state covers.
func (s *State) Len() int {
	return len(s.flops)
}

// AppendKey appends a packed encoding of s to buf and returns the result.
// One bit per flip-flop and per conjunction slot, in module order. Two
// states of the same graph are equal exactly when their keys are.
func (s *State) AppendKey(buf []byte) []byte {
	var cur byte
	var n uint
	push := func(bit bool) {
		if bit {
			cur |= 1 << n
		}
		n++
		if n == 8 {
			buf = append(buf, cur)
			cur, n = 0, 0
		}
	}
	for id := range s.flops {
		if mem := s.memory[id]; mem != nil {
			for _, l := range mem {
				push(l == circuit.High)
			}
			continue
		}
		push(s.flops[id])
	}
	if n > 0 {
		buf = append(buf, cur)
	}
	return buf
}

// Key returns the packed encoding as a string, usable as a map key.
func (s *State) Key() string {
	return string(s.AppendKey(nil))
}

// Fingerprint is a 64-bit xxhash of the packed encoding. It is for
// reporting and quick comparison; cycle detection keys on the full Key.
func (s *State) Fingerprint() uint64 {
	return xxhash.Sum64(s.AppendKey(nil))
}

// Equal reports whether s and o hold the same values.
func (s *State) Equal(o *State) bool {
	if len(s.flops) != len(o.flops) {
		return false
	}
	for id := range s.flops {
		if s.flops[id] != o.flops[id] || !slices.Equal(s.memory[id], o.memory[id]) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of s.
func (s *State) Clone() *State {
	c := &State{
		flops:  slices.Clone(s.flops),
		memory: make([][]circuit.Level, len(s.memory)),
	}
	for id, mem := range s.memory {
		c.memory[id] = slices.Clone(mem)
	}
	return c
}

func (s *State) String() string {
	return fmt.Sprintf("State{%d modules, fingerprint=%016x}", len(s.flops), s.Fingerprint())
}
