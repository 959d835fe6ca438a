package engine

import (
	"errors"
	"fmt"
)

// PressQuota bounds a loop that presses until some condition holds.
//
// Cycle detection and the brute-force search both run under one: if the
// structural assumption behind them is wrong, the loop ends with a
// PressLimitError instead of running forever.
type PressQuota struct {
	limit   int
	current int
}

// NewPressQuota creates a quota allowing limit presses.
func NewPressQuota(limit int) *PressQuota {
	return &PressQuota{limit: limit}
}

// Check counts one press and fails once the count passes the limit.
// op names the loop for the error message.
func (q *PressQuota) Check(op string) error {
	q.current++
	if q.current > q.limit {
		return &PressLimitError{
			Operation: op,
			Presses:   q.current - 1,
			Limit:     q.limit,
		}
	}
	return nil
}

// Reset sets the count back to 0.
func (q *PressQuota) Reset() {
	q.current = 0
}

// Current returns the presses counted so far.
func (q *PressQuota) Current() int {
	return q.current
}

// Limit returns the ceiling.
func (q *PressQuota) Limit() int {
	return q.limit
}

// PressLimitError is returned when a press loop reaches its ceiling
// without finding what it was looking for.
type PressLimitError struct {
	Operation string // The loop that gave up
	Presses   int    // Presses performed
	Limit     int    // Ceiling
}

func (e *PressLimitError) Error() string {
	return fmt.Sprintf("%s: no answer found within %d presses (limit %d)",
		e.Operation, e.Presses, e.Limit)
}

// RuntimeError returns the code used when the error is reported.
func (e *PressLimitError) RuntimeError() RuntimeErrorCode {
	return ErrCodePressLimit
}

// AsPressLimitError extracts a PressLimitError from err's chain.
func AsPressLimitError(err error) (*PressLimitError, bool) {
	var pe *PressLimitError
	ok := errors.As(err, &pe)
	return pe, ok
}
