package harness

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pulsenet/internal/solver"
	"github.com/roach88/pulsenet/internal/testutil"
)

func ptr[T any](v T) *T { return &v }

func TestRun_RecordsTrace(t *testing.T) {
	result, err := Run(&Scenario{
		Name:        "ring",
		Description: "ring",
		Circuit:     testutil.RingCircuit,
		Presses:     2,
		Assertions:  []Assertion{{Type: AssertTally, Low: ptr(int64(16)), High: ptr(int64(8))}},
	})
	require.NoError(t, err)

	assert.True(t, result.Pass, result.Errors)
	require.Len(t, result.Trace, 24)
	for i, e := range result.Trace {
		assert.Equal(t, int64(i+1), e.Seq)
	}
	assert.Equal(t, "button -low-> broadcaster", result.Trace[0].String())
	assert.Equal(t, 1, result.Trace[11].Press)
	assert.Equal(t, 2, result.Trace[12].Press)
	assert.Nil(t, result.Part1)
	assert.Nil(t, result.Part2)
}

func TestRun_WarmupResetsNumbering(t *testing.T) {
	result, err := Run(&Scenario{
		Name:        "warm",
		Description: "warm",
		Circuit:     "broadcaster -> a\n%a -> b\n%b -> rx",
		Warmup:      3,
		Presses:     1,
		Assertions:  []Assertion{{Type: AssertTraceContains, From: "b", To: "rx", Level: "low"}},
	})
	require.NoError(t, err)

	assert.True(t, result.Pass, result.Errors)
	require.Len(t, result.Trace, 4)
	assert.Equal(t, int64(1), result.Trace[0].Seq)
	assert.Equal(t, 1, result.Trace[0].Press)
	assert.Equal(t, int64(4), result.Tally.Low)
}

func TestRun_Answers(t *testing.T) {
	result, err := Run(&Scenario{
		Name:        "sink",
		Description: "sink",
		Circuit:     testutil.SinkCircuit,
		Assertions: []Assertion{
			{Type: AssertPart1, Value: ptr(testutil.SinkPart1)},
			{Type: AssertPart2, Value: ptr(testutil.SinkPart2), Strategy: "decomposition"},
		},
	})
	require.NoError(t, err)

	assert.True(t, result.Pass, result.Errors)
	require.NotNil(t, result.Part1)
	require.NotNil(t, result.Part2)
	assert.Equal(t, solver.StrategyDecomposition, result.Part2.Strategy)
	assert.Empty(t, result.Trace)
}

func TestRun_Part1PressesOverride(t *testing.T) {
	result, err := Run(&Scenario{
		Name:         "ring",
		Description:  "ring",
		Circuit:      testutil.RingCircuit,
		Part1Presses: 1,
		Assertions:   []Assertion{{Type: AssertPart1, Value: ptr(int64(32))}},
	})
	require.NoError(t, err)
	assert.True(t, result.Pass, result.Errors)
}

func TestRun_FailedAssertions(t *testing.T) {
	result, err := Run(&Scenario{
		Name:        "ring",
		Description: "ring",
		Circuit:     testutil.RingCircuit,
		Presses:     1,
		Assertions: []Assertion{
			{Type: AssertTally, Low: ptr(int64(1))},
			{Type: AssertTraceCount, From: "a", Count: ptr(5)},
			{Type: AssertTraceContains, From: "b", To: "a"},
			{Type: AssertTraceOrder, Pulses: []string{"inv -high-> a", "inv -low-> a"}},
			{Type: AssertFlipFlop, Module: "inv", State: ptr(true)},
			{Type: AssertFlipFlop, Module: "zz", State: ptr(true)},
			{Type: AssertMemory, Module: "inv", Levels: []string{"low"}},
			{Type: AssertPart2, Value: ptr(int64(1))},
		},
	})
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 8)
	assert.Contains(t, result.Errors[0], "Actual: low=8 high=4")
	assert.Contains(t, result.Errors[1], "Actual: 2 pulses")
	assert.Contains(t, result.Errors[2], "not found in trace")
	assert.Contains(t, result.Errors[3], "pulse 2 (inv -low-> a) not found")
	assert.Contains(t, result.Errors[4], `"inv" to be a flipflop`)
	assert.Contains(t, result.Errors[5], "no such module")
	// The ring's inv has one input and became an inverter.
	assert.Contains(t, result.Errors[6], "Actual: inverter")
	assert.Contains(t, result.Errors[7], "NO_SINK")
}

func TestRun_MemoryAndFlipFlop(t *testing.T) {
	result, err := Run(&Scenario{
		Name:        "sink",
		Description: "sink",
		Circuit:     testutil.SinkCircuit,
		Presses:     2,
		Assertions: []Assertion{
			{Type: AssertMemory, Module: "con", Levels: []string{"low", "high"}},
			{Type: AssertFlipFlop, Module: "a", State: ptr(false)},
			{Type: AssertFlipFlop, Module: "b", State: ptr(true)},
		},
	})
	require.NoError(t, err)
	assert.True(t, result.Pass, result.Errors)
}

func TestRun_ParseError(t *testing.T) {
	_, err := Run(&Scenario{Name: "bad", Circuit: "%a -> b"})
	assert.ErrorContains(t, err, "failed to parse circuit")
}

func TestRunContext_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RunContext(ctx, &Scenario{
		Name:        "counter",
		Description: "counter",
		Circuit:     testutil.CounterCircuit(4, 11, 13),
		Assertions:  []Assertion{{Type: AssertPart2, Value: ptr(int64(143))}},
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAssertionError_TruncatesTrace(t *testing.T) {
	trace := make([]TraceEvent, maxTraceLines+5)
	err := &AssertionError{Type: "x", Expected: "e", Actual: "a", Trace: trace}
	assert.Contains(t, err.Error(), "... 5 more")
}
