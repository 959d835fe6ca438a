// Package harness runs circuit conformance scenarios.
//
// A scenario names a circuit, presses the button a fixed number of times
// while recording every pulse, and then checks assertions against the
// recorded trace, the pulse tally, the final state and the computed
// answers.
//
// # Scenario Format
//
//	name: ring_first_press
//	description: "One press of the ring circuit"
//	circuit: |
//	  broadcaster -> a, b, c
//	  %a -> b
//	  ...
//	presses: 1
//	assertions:
//	  - type: tally
//	    low: 8
//	    high: 4
//	  - type: trace_count
//	    from: a
//	    to: b
//	    level: high
//	    count: 1
//	  - type: flipflop
//	    module: a
//	    "on": true
//	  - type: part1
//	    value: 32000000
//
// circuit_file may replace circuit; it is resolved relative to the
// scenario file.
//
// # Assertion Types
//
//   - tally: pulses emitted over the recorded presses
//   - trace_contains: a pulse matching from/to/level was emitted
//   - trace_count: exactly count pulses match from/to/level
//   - trace_order: the listed pulses appear in order
//   - flipflop: a flip-flop's final on/off state
//   - memory: a conjunction's final remembered levels
//   - part1, part2: the solver's answers, optionally with strategy
//
// # Deterministic Testing
//
// Pulses are numbered by testutil.TraceClock, so traces are identical
// across runs and can be compared against golden files.
package harness
