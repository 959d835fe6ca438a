package engine

import (
	"errors"
	"fmt"
)

// RuntimeError is a fatal condition met while simulating: a search that
// ran out of presses, or a graph with nothing to watch.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// Graph names the graph being simulated, when known.
	Graph string

	// Details carries additional context.
	Details map[string]string

	// Err is the underlying cause, if any.
	Err error
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodePressLimit indicates a press loop hit its ceiling.
	ErrCodePressLimit RuntimeErrorCode = "PRESS_LIMIT_EXCEEDED"

	// ErrCodeCycleNotFound indicates no state repeated within the ceiling.
	ErrCodeCycleNotFound RuntimeErrorCode = "CYCLE_NOT_FOUND"

	// ErrCodeNoSink indicates the graph has no output module to watch.
	ErrCodeNoSink RuntimeErrorCode = "NO_SINK"

	// ErrCodeOverflow indicates an answer does not fit in an int64.
	ErrCodeOverflow RuntimeErrorCode = "ANSWER_OVERFLOW"
)

func (e *RuntimeError) Error() string {
	if e.Graph != "" {
		return fmt.Sprintf("%s: %s (graph=%s)", e.Code, e.Message, e.Graph)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// IsCycleNotFound reports whether err is a CYCLE_NOT_FOUND RuntimeError.
func IsCycleNotFound(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ErrCodeCycleNotFound
	}
	return false
}

// IsNoSink reports whether err is a NO_SINK RuntimeError.
func IsNoSink(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ErrCodeNoSink
	}
	return false
}

// IsOverflow reports whether err is an ANSWER_OVERFLOW RuntimeError.
func IsOverflow(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ErrCodeOverflow
	}
	return false
}

// IsPressLimitError reports whether err came from a press ceiling, either
// as a PressLimitError or a RuntimeError with ErrCodePressLimit.
func IsPressLimitError(err error) bool {
	var pe *PressLimitError
	if errors.As(err, &pe) {
		return true
	}
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ErrCodePressLimit
	}
	return false
}

// NewCycleNotFoundError reports that graph never repeated a state within
// limit presses.
func NewCycleNotFoundError(graph string, cause *PressLimitError) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeCycleNotFound,
		Message: fmt.Sprintf("no repeated state within %d presses", cause.Limit),
		Graph:   graph,
		Details: map[string]string{
			"presses": fmt.Sprintf("%d", cause.Presses),
			"limit":   fmt.Sprintf("%d", cause.Limit),
		},
		Err: cause,
	}
}

// NewNoSinkError reports that graph has no output module named sink.
func NewNoSinkError(graph, sink string) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeNoSink,
		Message: fmt.Sprintf("no output module %q", sink),
		Graph:   graph,
		Details: map[string]string{"sink": sink},
	}
}

// NewOverflowError reports that the answer named by what does not fit in
// an int64.
func NewOverflowError(graph, what string, cause error) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeOverflow,
		Message: what + " does not fit in int64",
		Graph:   graph,
		Err:     cause,
	}
}
