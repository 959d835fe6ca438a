package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPressQuota_WithinLimit(t *testing.T) {
	q := NewPressQuota(10)
	for i := 0; i < 10; i++ {
		assert.NoError(t, q.Check("search"), "press %d should be allowed", i+1)
	}
	assert.Equal(t, 10, q.Current())
	assert.Equal(t, 10, q.Limit())
}

func TestPressQuota_ExceedsLimit(t *testing.T) {
	q := NewPressQuota(3)
	for i := 0; i < 3; i++ {
		require.NoError(t, q.Check("search"))
	}

	err := q.Check("search")
	require.Error(t, err)

	pe, ok := AsPressLimitError(err)
	require.True(t, ok)
	assert.Equal(t, "search", pe.Operation)
	assert.Equal(t, 3, pe.Presses)
	assert.Equal(t, 3, pe.Limit)
	assert.Contains(t, err.Error(), "no answer found within 3 presses")
	assert.Equal(t, ErrCodePressLimit, pe.RuntimeError())
}

func TestPressQuota_Reset(t *testing.T) {
	q := NewPressQuota(1)
	require.NoError(t, q.Check("x"))
	q.Reset()
	assert.Equal(t, 0, q.Current())
	assert.NoError(t, q.Check("x"))
}

func TestIsPressLimitError(t *testing.T) {
	pe := &PressLimitError{Operation: "brute force", Presses: 5, Limit: 5}

	assert.True(t, IsPressLimitError(pe))
	assert.True(t, IsPressLimitError(fmt.Errorf("part 2: %w", pe)))
	assert.True(t, IsPressLimitError(&RuntimeError{Code: ErrCodePressLimit}))
	assert.True(t, IsPressLimitError(NewCycleNotFoundError("g", pe)), "cause is reachable")
	assert.False(t, IsPressLimitError(errors.New("other")))
}

func TestRuntimeError(t *testing.T) {
	pe := &PressLimitError{Operation: "cycle detection", Presses: 8, Limit: 8}
	err := NewCycleNotFoundError("kx", pe)

	assert.True(t, IsCycleNotFound(err))
	assert.False(t, IsNoSink(err))
	assert.Equal(t, "CYCLE_NOT_FOUND: no repeated state within 8 presses (graph=kx)", err.Error())
	assert.Equal(t, "8", err.Details["limit"])
	assert.ErrorIs(t, err, pe)

	ns := NewNoSinkError("", "rx")
	assert.True(t, IsNoSink(fmt.Errorf("wrapped: %w", ns)))
	assert.Equal(t, `NO_SINK: no output module "rx"`, ns.Error())
}
