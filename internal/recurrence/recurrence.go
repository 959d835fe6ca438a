package recurrence

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrNoSolution means no time satisfies every congruence at once.
	ErrNoSolution = errors.New("recurrence: no common solution")

	// ErrCannotCombine means the inputs are not in a shape the combiner
	// accepts, e.g. a component with no periodic hit.
	ErrCannotCombine = errors.New("recurrence: cannot combine")

	// ErrOverflow means the answer or an intermediate period lcm does not
	// fit in an int64. The constraints may well be satisfiable.
	ErrOverflow = errors.New("recurrence: overflows int64")
)

// Recurrence is the periodic constraint t ≡ Remainder (mod Period).
type Recurrence struct {
	Period    int64 `json:"period"`
	Remainder int64 `json:"remainder"`
}

// Satisfied reports whether t meets the constraint.
func (r Recurrence) Satisfied(t int64) bool {
	return t%r.Period == r.Remainder
}

// First returns the smallest positive time meeting the constraint.
func (r Recurrence) First() int64 {
	if r.Remainder == 0 {
		return r.Period
	}
	return r.Remainder
}

func (r Recurrence) String() string {
	return fmt.Sprintf("t ≡ %d (mod %d)", r.Remainder, r.Period)
}

func (r Recurrence) validate() error {
	if r.Period <= 0 {
		return fmt.Errorf("recurrence: period must be positive, got %d", r.Period)
	}
	if r.Remainder < 0 || r.Remainder >= r.Period {
		return fmt.Errorf("recurrence: remainder %d out of range for period %d", r.Remainder, r.Period)
	}
	return nil
}

// Solve returns the smallest positive time satisfying every recurrence.
// An empty set yields 0.
func Solve(rs []Recurrence) (int64, error) {
	if len(rs) == 0 {
		return 0, nil
	}
	for _, r := range rs {
		if err := r.validate(); err != nil {
			return 0, err
		}
	}

	sorted := slices.Clone(rs)
	slices.SortStableFunc(sorted, func(a, b Recurrence) int {
		if a.Period != b.Period {
			if a.Period > b.Period {
				return -1
			}
			return 1
		}
		return int(a.Remainder - b.Remainder)
	})

	result := sorted[0].First()
	step := sorted[0].Period
	for _, r := range sorted[1:] {
		if r.Remainder == 0 && result%step == 0 {
			l, ok := CheckedLCM(result, r.Period)
			if !ok {
				return 0, fmt.Errorf("%w: lcm of %d and %d while folding %v", ErrOverflow, result, r.Period, r)
			}
			result = l
		} else {
			found := false
			for i := int64(0); i < r.Period; i++ {
				if r.Satisfied(result) {
					found = true
					break
				}
				next, ok := checkedAdd(result, step)
				if !ok {
					return 0, fmt.Errorf("%w: time passes %d while folding %v", ErrOverflow, result, r)
				}
				result = next
			}
			if !found {
				return 0, fmt.Errorf("%w: %v conflicts with step %d", ErrNoSolution, r, step)
			}
		}
		l, ok := CheckedLCM(step, r.Period)
		if !ok {
			return 0, fmt.Errorf("%w: lcm of periods %d and %d", ErrOverflow, step, r.Period)
		}
		step = l
	}
	return result, nil
}

// Combine takes one list of candidate recurrences per component and
// returns the minimum of Solve across every way of picking one candidate
// from each list. Combinations with no common solution are skipped.
func Combine(candidates [][]Recurrence) (int64, error) {
	for i, c := range candidates {
		if len(c) == 0 {
			return 0, fmt.Errorf("%w: component %d has no candidate", ErrCannotCombine, i)
		}
	}
	if len(candidates) == 0 {
		return 0, nil
	}

	pick := make([]int, len(candidates))
	chosen := make([]Recurrence, len(candidates))
	best := int64(-1)
	var lastErr error
	for {
		for i, idx := range pick {
			chosen[i] = candidates[i][idx]
		}
		t, err := Solve(chosen)
		switch {
		case err == nil:
			if best < 0 || t < best {
				best = t
			}
		case errors.Is(err, ErrNoSolution):
			lastErr = err
		default:
			return 0, err
		}

		if !advance(pick, candidates) {
			break
		}
	}

	if best < 0 {
		return 0, lastErr
	}
	return best, nil
}

// advance moves pick to the next combination, odometer style.
func advance(pick []int, candidates [][]Recurrence) bool {
	for i := len(pick) - 1; i >= 0; i-- {
		pick[i]++
		if pick[i] < len(candidates[i]) {
			return true
		}
		pick[i] = 0
	}
	return false
}
