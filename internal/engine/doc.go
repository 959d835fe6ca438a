// Package engine simulates button presses on a pulse network and finds
// the cycles its state falls into.
//
// ARCHITECTURE:
//
// Single-Writer Press Loop:
// A Simulator owns its pulse queue, its module state and its tallies. A
// press enqueues one Low pulse for the start module and drains the queue
// to empty before returning. Nothing is shared between simulators, so
// separate subgraphs can be analysed on separate goroutines.
//
// Delivery Order:
// Pulses are resolved strictly first-in first-out. A conjunction reacts
// to the latest level on each input slot, so every effect of one delivery
// must be queued behind the pulses already waiting. Reordering changes
// the answers.
//
// Logical Clock:
// Every emitted pulse is stamped from a Clock. Observers see the stamp,
// which gives traces a total order independent of wall time.
//
// Ceilings:
// Loops that press until something happens (cycle detection, the
// brute-force search) run under a PressQuota and fail with a
// PressLimitError instead of spinning forever.
package engine
