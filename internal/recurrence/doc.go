// Package recurrence combines periodic events into the first time at
// which all of them coincide.
//
// A Recurrence states "t ≡ Remainder (mod Period)". Solve folds a set of
// them, largest period first, keeping a running result and the LCM of the
// periods folded so far. Zero remainders on an aligned result take an LCM
// shortcut; everything else steps the running result by the accumulated
// LCM until the next congruence holds. Periods need not be coprime.
//
// Combine accepts several candidate recurrences per component and
// minimizes Solve over their cartesian product.
package recurrence
