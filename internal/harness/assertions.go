package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/pulsenet/internal/circuit"
	"github.com/roach88/pulsenet/internal/engine"
)

// maxTraceLines bounds the trace printed with a failed assertion.
const maxTraceLines = 40

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nTrace:\n")
		for i, event := range e.Trace {
			if i == maxTraceLines {
				fmt.Fprintf(&buf, "  ... %d more\n", len(e.Trace)-maxTraceLines)
				break
			}
			fmt.Fprintf(&buf, "  [%d] press %d: %s\n", event.Seq, event.Press, event)
		}
	}

	return buf.String()
}

// AssertionContext gives assertions access to the final state.
type AssertionContext struct {
	Network *circuit.Network
	State   *engine.State

	// Part2Err is the solver's failure, if part 2 was requested and failed.
	Part2Err error
}

// EvaluateAssertions evaluates all assertions against the result and
// returns one message per failure.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertTally:
			err = assertTally(result, assertion)
		case AssertTraceContains:
			err = assertTraceContains(result.Trace, assertion)
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, assertion)
		case AssertTraceOrder:
			err = assertTraceOrder(result.Trace, assertion)
		case AssertFlipFlop, AssertMemory:
			if actx == nil || actx.State == nil {
				err = fmt.Errorf("assertion[%d]: %s requires final state", i, assertion.Type)
			} else {
				err = assertModuleState(actx, assertion)
			}
		case AssertPart1:
			err = assertPart1(result, assertion)
		case AssertPart2:
			var part2Err error
			if actx != nil {
				part2Err = actx.Part2Err
			}
			err = assertPart2(result, assertion, part2Err)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}

// matchPulse reports whether event passes the assertion's from/to/level
// filters.
func matchPulse(event TraceEvent, a Assertion) bool {
	return (a.From == "" || a.From == event.From) &&
		(a.To == "" || a.To == event.To) &&
		(a.Level == "" || a.Level == event.Level)
}

func describePulse(a Assertion) string {
	from, to, level := a.From, a.To, a.Level
	if from == "" {
		from = "*"
	}
	if to == "" {
		to = "*"
	}
	if level == "" {
		level = "*"
	}
	return fmt.Sprintf("%s -%s-> %s", from, level, to)
}

func assertTally(result *Result, a Assertion) error {
	if (a.Low == nil || *a.Low == result.Tally.Low) && (a.High == nil || *a.High == result.Tally.High) {
		return nil
	}
	want := make([]string, 0, 2)
	if a.Low != nil {
		want = append(want, fmt.Sprintf("low=%d", *a.Low))
	}
	if a.High != nil {
		want = append(want, fmt.Sprintf("high=%d", *a.High))
	}
	return &AssertionError{
		Type:     AssertTally,
		Expected: strings.Join(want, " "),
		Actual:   fmt.Sprintf("low=%d high=%d", result.Tally.Low, result.Tally.High),
	}
}

func assertTraceContains(trace []TraceEvent, a Assertion) error {
	for _, event := range trace {
		if matchPulse(event, a) {
			return nil
		}
	}
	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: fmt.Sprintf("pulse %s", describePulse(a)),
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

func assertTraceCount(trace []TraceEvent, a Assertion) error {
	count := 0
	for _, event := range trace {
		if matchPulse(event, a) {
			count++
		}
	}
	if count != *a.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d pulses %s", *a.Count, describePulse(a)),
			Actual:   fmt.Sprintf("%d pulses", count),
			Trace:    trace,
		}
	}
	return nil
}

// assertTraceOrder checks that the listed pulses occur as a subsequence
// of the trace. Intervening pulses are allowed.
func assertTraceOrder(trace []TraceEvent, a Assertion) error {
	pos := 0
	for i, want := range a.Pulses {
		want = strings.Join(strings.Fields(want), " ")
		found := false
		for ; pos < len(trace); pos++ {
			if trace[pos].String() == want {
				found = true
				pos++
				break
			}
		}
		if !found {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("pulses in order: %v", a.Pulses),
				Actual:   fmt.Sprintf("pulse %d (%s) not found after the previous one", i+1, want),
				Trace:    trace,
			}
		}
	}
	return nil
}

func assertModuleState(actx *AssertionContext, a Assertion) error {
	id, ok := actx.Network.Lookup(a.Module)
	if !ok {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("module %q", a.Module),
			Actual:   "no such module",
		}
	}
	kind := actx.Network.Kind(id)

	if a.Type == AssertFlipFlop {
		if kind != circuit.KindFlipFlop {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("%q to be a flipflop", a.Module),
				Actual:   kind.String(),
			}
		}
		if got := actx.State.FlipFlop(id); got != *a.State {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("%s state=%t", a.Module, *a.State),
				Actual:   fmt.Sprintf("%s state=%t", a.Module, got),
			}
		}
		return nil
	}

	if kind != circuit.KindConjunction {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%q to be a conjunction", a.Module),
			Actual:   kind.String(),
		}
	}
	mem := actx.State.Memory(id)
	got := make([]string, len(mem))
	for i, l := range mem {
		got[i] = l.String()
	}
	if !slices.Equal(got, a.Levels) {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%s levels %v", a.Module, a.Levels),
			Actual:   fmt.Sprintf("%s levels %v", a.Module, got),
		}
	}
	return nil
}

func assertPart1(result *Result, a Assertion) error {
	if result.Part1 == nil {
		return fmt.Errorf("part1 was not computed")
	}
	if result.Part1.Value != *a.Value {
		return &AssertionError{
			Type:     AssertPart1,
			Expected: fmt.Sprintf("%d", *a.Value),
			Actual:   fmt.Sprintf("%d", result.Part1.Value),
		}
	}
	return nil
}

func assertPart2(result *Result, a Assertion, solveErr error) error {
	if solveErr != nil {
		return &AssertionError{
			Type:     AssertPart2,
			Expected: fmt.Sprintf("%d", *a.Value),
			Actual:   fmt.Sprintf("error: %v", solveErr),
		}
	}
	if result.Part2 == nil {
		return fmt.Errorf("part2 was not computed")
	}
	if result.Part2.Value != *a.Value {
		return &AssertionError{
			Type:     AssertPart2,
			Expected: fmt.Sprintf("%d", *a.Value),
			Actual:   fmt.Sprintf("%d (strategy %s)", result.Part2.Value, result.Part2.Strategy),
		}
	}
	if a.Strategy != "" && string(result.Part2.Strategy) != a.Strategy {
		return &AssertionError{
			Type:     AssertPart2,
			Expected: fmt.Sprintf("strategy %s", a.Strategy),
			Actual:   fmt.Sprintf("strategy %s", result.Part2.Strategy),
		}
	}
	return nil
}
