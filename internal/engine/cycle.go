package engine

import (
	"context"
	"fmt"
	"slices"

	"github.com/cespare/xxhash/v2"

	"github.com/roach88/pulsenet/internal/circuit"
	"github.com/roach88/pulsenet/internal/recurrence"
)

// Cycle describes where a graph's state starts repeating.
//
// Press indices are 1-based and name the state after that press. The
// state after press Start equals the state after press Start+Length.
// Hits lists the presses, up to Start+Length-1, during which a High pulse
// reached an output module.
type Cycle struct {
	Start       int    `json:"start"`
	Length      int    `json:"length"`
	Hits        []int  `json:"hits"`
	Fingerprint uint64 `json:"fingerprint"`
}

// InCycleOffsets returns, sorted and without duplicates, hit mod Length
// for every hit at or after Start.
func (c Cycle) InCycleOffsets() []int {
	var offsets []int
	for _, h := range c.Hits {
		if h >= c.Start {
			offsets = append(offsets, h%c.Length)
		}
	}
	slices.Sort(offsets)
	return slices.Compact(offsets)
}

// PreCycleHits returns the hits that happened before Start.
func (c Cycle) PreCycleHits() []int {
	var pre []int
	for _, h := range c.Hits {
		if h < c.Start {
			pre = append(pre, h)
		}
	}
	return pre
}

// Recurrences converts the cycle into one candidate recurrence per
// in-cycle offset. Only cycles starting at press 1 are accepted: a later
// start means the first presses are not yet periodic, and the offsets
// alone no longer describe every hit.
func (c Cycle) Recurrences() ([]recurrence.Recurrence, error) {
	if c.Start != 1 {
		return nil, fmt.Errorf("%w: cycle starts at press %d, not 1", recurrence.ErrCannotCombine, c.Start)
	}
	offsets := c.InCycleOffsets()
	if len(offsets) == 0 {
		return nil, fmt.Errorf("%w: no sink hit inside the cycle", recurrence.ErrCannotCombine)
	}
	rs := make([]recurrence.Recurrence, len(offsets))
	for i, off := range offsets {
		rs[i] = recurrence.Recurrence{Period: int64(c.Length), Remainder: int64(off)}
	}
	return rs, nil
}

// CycleDetector remembers every state observed after a press and reports
// the first repeat. The initial, pre-press state is not recorded.
//
// Not safe for concurrent use.
type CycleDetector struct {
	seen map[string]int
	hits []int
	buf  []byte
}

// NewCycleDetector creates an empty detector.
func NewCycleDetector() *CycleDetector {
	return &CycleDetector{seen: make(map[string]int)}
}

// Observe records the state after press. It returns the cycle, and true,
// when that state was already seen; the repeating press's hit is not
// recorded.
func (d *CycleDetector) Observe(press int, st *State, hit bool) (Cycle, bool) {
	d.buf = st.AppendKey(d.buf[:0])
	if prev, ok := d.seen[string(d.buf)]; ok {
		return Cycle{
			Start:       prev,
			Length:      press - prev,
			Hits:        slices.Clone(d.hits),
			Fingerprint: xxhash.Sum64(d.buf),
		}, true
	}
	d.seen[string(d.buf)] = press
	if hit {
		d.hits = append(d.hits, press)
	}
	return Cycle{}, false
}

// Seen returns the number of distinct states recorded.
func (d *CycleDetector) Seen() int {
	return len(d.seen)
}

// labeled is implemented by graphs that can name themselves in errors.
type labeled interface {
	Label() string
}

func graphLabel(g circuit.Graph) string {
	if l, ok := g.(labeled); ok {
		return l.Label()
	}
	return g.Name(g.Start())
}

func hasOutput(g circuit.Graph) bool {
	for id := 0; id < g.Len(); id++ {
		if g.Kind(id) == circuit.KindOutput {
			return true
		}
	}
	return false
}

// ctxCheckInterval is how many presses pass between context checks.
const ctxCheckInterval = 4096

// FindCycle presses a fresh simulator over g until its state repeats,
// recording the presses that deliver a High pulse to an output module.
// It fails with a CYCLE_NOT_FOUND RuntimeError after limit presses.
func FindCycle(ctx context.Context, g circuit.Graph, limit int, opts ...Option) (Cycle, error) {
	label := graphLabel(g)
	if !hasOutput(g) {
		return Cycle{}, NewNoSinkError(label, "output")
	}

	sim := New(g, opts...)
	det := NewCycleDetector()
	quota := NewPressQuota(limit)

	for {
		if sim.Presses()%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return Cycle{}, err
			}
		}
		if err := quota.Check("cycle detection"); err != nil {
			pe, _ := AsPressLimitError(err)
			return Cycle{}, NewCycleNotFoundError(label, pe)
		}

		stats := sim.Press()
		if c, ok := det.Observe(stats.Press, sim.State(), stats.Sink.High > 0); ok {
			sim.logger.Debug("cycle found",
				"graph", label,
				"start", c.Start,
				"length", c.Length,
				"hits", len(c.Hits),
				"fingerprint", fmt.Sprintf("%016x", c.Fingerprint),
			)
			return c, nil
		}
	}
}

// PressUntil presses sim until done reports true for a press, returning
// that press's index. It gives up with a PressLimitError after limit
// presses; op names the search in that error.
func PressUntil(ctx context.Context, sim *Simulator, limit int, op string, done func(PressStats) bool) (int, error) {
	quota := NewPressQuota(limit)
	for {
		if sim.Presses()%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
		}
		if err := quota.Check(op); err != nil {
			return 0, err
		}
		if stats := sim.Press(); done(stats) {
			sim.logger.Debug("press search finished", "operation", op, "press", stats.Press)
			return stats.Press, nil
		}
		if sim.Presses()%(1<<20) == 0 {
			sim.logger.Debug("press search progress", "operation", op, "press", sim.Presses())
		}
	}
}
