package circuit

import "fmt"

// Kind is the closed set of module behaviors.
type Kind int

const (
	// KindBroadcast re-emits every pulse to all outputs.
	KindBroadcast Kind = iota
	// KindFlipFlop toggles on Low, ignores High.
	KindFlipFlop
	// KindConjunction remembers the last level per input slot and emits
	// Low only when every remembered level is High.
	KindConjunction
	// KindInverter is a conjunction with exactly one input.
	KindInverter
	// KindOutput absorbs pulses.
	KindOutput
)

var kindNames = [...]string{
	KindBroadcast:   "broadcast",
	KindFlipFlop:    "flipflop",
	KindConjunction: "conjunction",
	KindInverter:    "inverter",
	KindOutput:      "output",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Level is a pulse level. Low is the zero value.
type Level uint8

const (
	Low Level = iota
	High
)

// Invert returns the opposite level.
func (l Level) Invert() Level {
	if l == Low {
		return High
	}
	return Low
}

func (l Level) String() string {
	if l == High {
		return "high"
	}
	return "low"
}

// LevelOf maps a boolean onto a level (true is High).
func LevelOf(b bool) Level {
	if b {
		return High
	}
	return Low
}
