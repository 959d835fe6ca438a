package testutil

import (
	"fmt"
	"strings"

	"github.com/roach88/pulsenet/internal/recurrence"
)

// CounterCircuit builds a decomposable circuit: one binary counter per
// period, each width flip-flops long, all feeding a final conjunction
// "gate" that drives rx.
//
// Counter k counts presses on flip-flops c{k}b0..c{k}b{width-1}. Its
// conjunction c{k}hub watches the bits set in the period; when they are
// all on it clears the counter back to zero and pulses c{k}inv, which
// sends High to gate. Counter k therefore fires on every multiple of its
// period, and rx first sees Low at the LCM of all periods.
//
// Every period must fit in width bits and have both bit 0 and bit
// width-1 set. With a single period, gate degrades to an inverter and the
// circuit no longer decomposes.
func CounterCircuit(width int, periods ...int) string {
	for _, p := range periods {
		if p&1 == 0 || p>>(width-1) != 1 {
			panic(fmt.Sprintf("CounterCircuit: period %d needs bits 0 and %d set and nothing above", p, width-1))
		}
	}

	var b strings.Builder
	starts := make([]string, len(periods))
	for k := range periods {
		starts[k] = fmt.Sprintf("c%db0", k)
	}
	fmt.Fprintf(&b, "broadcaster -> %s\n", strings.Join(starts, ", "))

	for k, p := range periods {
		hub := fmt.Sprintf("c%dhub", k)
		var clear []string
		for i := 0; i < width; i++ {
			var outs []string
			if i+1 < width {
				outs = append(outs, fmt.Sprintf("c%db%d", k, i+1))
			}
			if p>>i&1 == 1 {
				outs = append(outs, hub)
			} else {
				clear = append(clear, fmt.Sprintf("c%db%d", k, i))
			}
			fmt.Fprintf(&b, "%%c%db%d -> %s\n", k, i, strings.Join(outs, ", "))
		}
		clear = append(clear, fmt.Sprintf("c%db0", k), fmt.Sprintf("c%dinv", k))
		fmt.Fprintf(&b, "&%s -> %s\n", hub, strings.Join(clear, ", "))
		fmt.Fprintf(&b, "&c%dinv -> gate\n", k)
	}
	b.WriteString("&gate -> rx\n")
	return b.String()
}

// CounterAnswer is the part 2 answer of CounterCircuit(_, periods...).
func CounterAnswer(periods ...int) int64 {
	answer := int64(1)
	for _, p := range periods {
		answer = recurrence.LCM(answer, int64(p))
	}
	return answer
}
