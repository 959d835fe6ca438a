package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCounterCircuit_Layout(t *testing.T) {
	got := CounterCircuit(4, 11, 13)
	want := `broadcaster -> c0b0, c1b0
%c0b0 -> c0b1, c0hub
%c0b1 -> c0b2, c0hub
%c0b2 -> c0b3
%c0b3 -> c0hub
&c0hub -> c0b2, c0b0, c0inv
&c0inv -> gate
%c1b0 -> c1b1, c1hub
%c1b1 -> c1b2
%c1b2 -> c1b3, c1hub
%c1b3 -> c1hub
&c1hub -> c1b1, c1b0, c1inv
&c1inv -> gate
&gate -> rx
`
	assert.Equal(t, want, got)
}

func TestCounterCircuit_RejectsBadPeriods(t *testing.T) {
	assert.Panics(t, func() { CounterCircuit(4, 10) }, "bit 0 clear")
	assert.Panics(t, func() { CounterCircuit(4, 5) }, "top bit clear")
	assert.Panics(t, func() { CounterCircuit(4, 17) }, "too wide")
}

func TestCounterAnswer(t *testing.T) {
	assert.Equal(t, int64(143), CounterAnswer(11, 13))
	assert.Equal(t, int64(45), CounterAnswer(9, 15))
	assert.Equal(t, int64(11), CounterAnswer(11))
}

func TestFixedRunID(t *testing.T) {
	gen := NewFixedRunID("run-7")
	assert.Equal(t, "run-7", gen.Generate())
	assert.Equal(t, "run-7", gen.Generate())
	assert.Equal(t, "test-run-default", NewFixedRunID("").Generate())
}
