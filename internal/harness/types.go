package harness

import (
	"fmt"

	"github.com/roach88/pulsenet/internal/engine"
	"github.com/roach88/pulsenet/internal/solver"
)

// TraceEvent is one emitted pulse.
type TraceEvent struct {
	Seq   int64  `json:"seq"`
	Press int    `json:"press"`
	From  string `json:"from"`
	To    string `json:"to"`
	Level string `json:"level"`
}

// String renders the event as "from -level-> to".
func (e TraceEvent) String() string {
	return fmt.Sprintf("%s -%s-> %s", e.From, e.Level, e.To)
}

// Result is the outcome of running a scenario.
type Result struct {
	// Pass is true when every assertion held.
	Pass bool `json:"pass"`

	// Trace holds every pulse of the recorded presses in emission order.
	Trace []TraceEvent `json:"trace"`

	// Tally counts the pulses in Trace.
	Tally engine.Tally `json:"tally"`

	// Errors lists failed assertions.
	Errors []string `json:"errors,omitempty"`

	// Part1 and Part2 are set only when an assertion asked for them.
	Part1 *solver.Answer `json:"part1,omitempty"`
	Part2 *solver.Answer `json:"part2,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
