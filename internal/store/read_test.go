package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCircuit_NotFound(t *testing.T) {
	s := createTestStore(t)
	_, err := s.ReadCircuit(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestList_EmptyNotNil(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	circuits, err := s.ListCircuits(ctx)
	require.NoError(t, err)
	assert.NotNil(t, circuits)
	assert.Empty(t, circuits)

	runs, err := s.ListRuns(ctx, "")
	require.NoError(t, err)
	assert.NotNil(t, runs)

	answers, err := s.ListAnswers(ctx, "")
	require.NoError(t, err)
	assert.NotNil(t, answers)

	cycles, err := s.ReadCycles(ctx, "none")
	require.NoError(t, err)
	assert.NotNil(t, cycles)
}

func TestList_DeterministicOrder(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	createTestRun(t, s, "bb", "run-2")
	createTestRun(t, s, "aa", "run-1")
	createTestRun(t, s, "bb", "run-3")

	for _, a := range []Answer{
		{ID: "z", CircuitDigest: "bb", Part: 2, Value: 5, Strategy: "brute_force", RunID: "run-3"},
		{ID: "y", CircuitDigest: "bb", Part: 1, Value: 4, Strategy: "simulation", RunID: "run-2"},
		{ID: "x", CircuitDigest: "aa", Part: 1, Value: 3, Strategy: "simulation", RunID: "run-1"},
	} {
		_, err := s.RecordAnswer(ctx, a)
		require.NoError(t, err)
	}

	circuits, err := s.ListCircuits(ctx)
	require.NoError(t, err)
	require.Len(t, circuits, 2)
	assert.Equal(t, "aa", circuits[0].Digest)
	assert.Equal(t, "bb", circuits[1].Digest)

	runs, err := s.ListRuns(ctx, "")
	require.NoError(t, err)
	var ids []string
	for _, r := range runs {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"run-2", "run-1", "run-3"}, ids, "insertion sequence")

	runs, err = s.ListRuns(ctx, "bb")
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	answers, err := s.ListAnswers(ctx, "")
	require.NoError(t, err)
	ids = ids[:0]
	for _, a := range answers {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []string{"x", "y", "z"}, ids)

	answers, err = s.ListAnswers(ctx, "aa")
	require.NoError(t, err)
	require.Len(t, answers, 1)
	assert.Equal(t, int64(3), answers[0].Value)
}
