// Package testutil holds circuits and helpers shared by package tests.
package testutil

// Reference circuits with known answers.
const (
	// RingCircuit: part 1 is 32000000 (8000 low, 4000 high). It has no
	// sink, so part 2 is undefined.
	RingCircuit = `broadcaster -> a, b, c
%a -> b
%b -> c
%c -> inv
&inv -> a`

	// FeederCircuit feeds a conjunction into the undefined name "output".
	// Part 1 is 11687500 (4250 low, 2750 high).
	FeederCircuit = `broadcaster -> a
%a -> inv, con
&inv -> b
%b -> con
&con -> output`

	// SinkCircuit is FeederCircuit wired to rx. Part 1 is 11687500 and
	// part 2 is 1.
	SinkCircuit = `broadcaster -> a
%a -> inv, con
&inv -> b
%b -> con
&con -> rx`
)

// Known answers for the reference circuits.
const (
	RingPart1   int64 = 32000000
	FeederPart1 int64 = 11687500
	SinkPart1   int64 = 11687500
	SinkPart2   int64 = 1
)
