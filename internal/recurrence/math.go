package recurrence

import "golang.org/x/exp/constraints"

// GCD returns the greatest common divisor of a and b. GCD(0, 0) is 0.
func GCD[T constraints.Integer](a, b T) T {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// LCM returns the least common multiple of a and b, or 0 if either is 0.
// It panics if the result does not fit in T; use CheckedLCM when it might
// not.
func LCM[T constraints.Integer](a, b T) T {
	l, ok := CheckedLCM(a, b)
	if !ok {
		panic("recurrence: LCM overflows")
	}
	return l
}

// CheckedLCM is LCM reporting false instead of wrapping when the result
// does not fit in T.
func CheckedLCM[T constraints.Integer](a, b T) (T, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	if a < 0 || b < 0 {
		// Negating the minimum signed value wraps back to itself.
		return 0, false
	}
	return checkedMul(a/GCD(a, b), b)
}

// checkedMul multiplies two non-negative values.
func checkedMul[T constraints.Integer](a, b T) (T, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	p := a * b
	if p/b != a || p < 0 {
		return 0, false
	}
	return p, true
}

// checkedAdd adds two non-negative int64 values.
func checkedAdd(a, b int64) (int64, bool) {
	s := a + b
	if s < a {
		return 0, false
	}
	return s, true
}
