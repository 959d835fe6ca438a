package circuit

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ringCircuit = `broadcaster -> a, b, c
%a -> b
%b -> c
%c -> inv
&inv -> a`

const feederCircuit = `broadcaster -> a
%a -> inv, con
&inv -> b
%b -> con
&con -> output`

const sinkCircuit = `broadcaster -> a
%a -> inv, con
&inv -> b
%b -> con
&con -> rx`

func TestParse_AssignsIDsInLineOrder(t *testing.T) {
	n, err := Parse(ringCircuit)
	require.NoError(t, err)

	require.Equal(t, 5, n.Len())
	assert.Equal(t, 0, n.Start())
	for i, name := range []string{"broadcaster", "a", "b", "c", "inv"} {
		id, ok := n.Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, i, id)
		assert.Equal(t, name, n.Name(id))
	}
}

func TestParse_Kinds(t *testing.T) {
	n := MustParse(sinkCircuit)

	kinds := map[string]Kind{
		"broadcaster": KindBroadcast,
		"a":           KindFlipFlop,
		"inv":         KindInverter,
		"b":           KindFlipFlop,
		"con":         KindConjunction,
		"rx":          KindOutput,
	}
	for name, want := range kinds {
		id, ok := n.Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, want, n.Kind(id), name)
	}
}

func TestParse_SlotsCountEdgesPerTarget(t *testing.T) {
	n := MustParse(ringCircuit)

	// b is targeted by broadcaster (slot 0) then by a (slot 1).
	b, _ := n.Lookup("b")
	assert.Equal(t, 2, n.InputCount(b))
	assert.Equal(t, Edge{Target: b, Slot: 0}, n.Outputs(0)[1])
	a, _ := n.Lookup("a")
	assert.Equal(t, Edge{Target: b, Slot: 1}, n.Outputs(a)[0])

	// a is fed by broadcaster and inv.
	assert.Equal(t, 2, n.InputCount(a))
	inv, _ := n.Lookup("inv")
	assert.Equal(t, Edge{Target: a, Slot: 1}, n.Outputs(inv)[0])
}

func TestParse_SingleInputConjunctionBecomesInverter(t *testing.T) {
	n := MustParse(ringCircuit)
	inv, _ := n.Lookup("inv")
	assert.Equal(t, KindInverter, n.Kind(inv))
	assert.Equal(t, 1, n.InputCount(inv))
}

func TestParse_UndefinedDestinationIsUnresolved(t *testing.T) {
	n := MustParse(feederCircuit)

	con, _ := n.Lookup("con")
	outs := n.Outputs(con)
	require.Len(t, outs, 1)
	assert.False(t, outs[0].Resolved())
	assert.Equal(t, NoTarget, outs[0].Target)

	_, ok := n.Lookup("output")
	assert.False(t, ok, "undefined names are not modules")
	assert.Empty(t, n.Sinks())
}

func TestParse_ImplicitSinkOnlyWhenReferenced(t *testing.T) {
	n := MustParse(sinkCircuit)
	rx, ok := n.Lookup("rx")
	require.True(t, ok)
	assert.Equal(t, n.Len()-1, rx, "implicit sink is appended last")
	assert.Equal(t, []int{rx}, n.Sinks())

	n = MustParse(ringCircuit)
	_, ok = n.Lookup("rx")
	assert.False(t, ok)
}

func TestParse_CustomSinkName(t *testing.T) {
	n := MustParse(feederCircuit, WithSinkName("output"))
	out, ok := n.Lookup("output")
	require.True(t, ok)
	assert.Equal(t, KindOutput, n.Kind(out))
}

func TestParse_ToleratesBlankLinesAndSpacing(t *testing.T) {
	n, err := Parse("\n  broadcaster ->  a,b \r\n\n%a -> broadcaster\n")
	require.NoError(t, err)
	assert.Equal(t, 2, n.Len())
	assert.Len(t, n.Outputs(0), 2)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		line    int
		message string
	}{
		{"missing arrow", "broadcaster -> a\n%a b", 2, "missing"},
		{"unknown kind", "broadcaster -> a\na -> b", 2, "cannot determine module kind"},
		{"prefixed broadcaster", "%broadcaster -> a", 1, "broadcaster cannot carry"},
		{"empty name", "broadcaster -> a\n% -> a", 2, "invalid module name"},
		{"empty destination", "broadcaster -> a, , b", 1, "invalid destination"},
		{"duplicate", "broadcaster -> a\n%a -> b\n&a -> b", 3, "defined twice"},
		{"no broadcaster", "%a -> b", 0, "no broadcaster"},
		{"empty", "\n\n", 0, "empty description"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := Parse(tt.input)
			require.Error(t, err)
			assert.Nil(t, n)

			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.line, pe.Line)
			assert.Contains(t, pe.Message, tt.message)
		})
	}
}

func TestMustParse_Panics(t *testing.T) {
	assert.Panics(t, func() { MustParse("nonsense") })
}

func TestParse_CustomBroadcasterName(t *testing.T) {
	n, err := Parse("%a -> b\nstart -> a\n%b -> a", WithBroadcasterName("start"))
	require.NoError(t, err)
	start, ok := n.Lookup("start")
	require.True(t, ok)
	assert.Equal(t, start, n.Start())
	assert.Equal(t, KindBroadcast, n.Kind(start))

	_, err = Parse("broadcaster -> a\n%a -> b", WithBroadcasterName("start"))
	assert.Error(t, err, "the default name is no longer special")
}
