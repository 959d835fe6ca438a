package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordCircuit_FirstWriteWins(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	inserted, err := s.RecordCircuit(ctx, createTestCircuit("d1"))
	require.NoError(t, err)
	assert.True(t, inserted)

	other := createTestCircuit("d1")
	other.Source = "changed"
	inserted, err = s.RecordCircuit(ctx, other)
	require.NoError(t, err)
	assert.False(t, inserted)

	got, err := s.ReadCircuit(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, createTestCircuit("d1"), got)
}

func TestRecordRun_AssignsSequence(t *testing.T) {
	s := createTestStore(t)

	r1 := createTestRun(t, s, "d1", "run-a")
	r2 := createTestRun(t, s, "d1", "run-b")
	again := createTestRun(t, s, "d1", "run-a")

	assert.Less(t, r1.Seq, r2.Seq)
	assert.Equal(t, r1, again, "re-recording a run id returns the original")
	assert.Equal(t, "d1", r1.CircuitDigest)
	assert.NotEmpty(t, r1.EngineVersion)
}

func TestRecordAnswer_ReportsChanges(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	createTestRun(t, s, "d1", "run-a")
	createTestRun(t, s, "d1", "run-b")

	a := Answer{ID: "ans", CircuitDigest: "d1", Part: 2, Value: 143, Strategy: "decomposition", SinkName: "rx", RunID: "run-a"}

	change, err := s.RecordAnswer(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, Change{Current: 143}, change)

	a.RunID = "run-b"
	change, err = s.RecordAnswer(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, Change{Previous: 143, Current: 143, Existed: true}, change)

	a.Value = 144
	a.Strategy = "brute_force"
	change, err = s.RecordAnswer(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, Change{Previous: 143, Current: 144, Existed: true, Changed: true}, change)

	answers, err := s.ListAnswers(ctx, "d1")
	require.NoError(t, err)
	require.Len(t, answers, 1)
	assert.Equal(t, int64(144), answers[0].Value)
	assert.Equal(t, "brute_force", answers[0].Strategy)
	assert.Equal(t, "run-b", answers[0].RunID)
}

func TestRecordAnswer_RequiresRun(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	_, err := s.RecordCircuit(ctx, createTestCircuit("d1"))
	require.NoError(t, err)

	_, err = s.RecordAnswer(ctx, Answer{ID: "x", CircuitDigest: "d1", Part: 1, Value: 1, Strategy: "simulation", RunID: "missing"})
	assert.Error(t, err, "foreign key on run_id")
}

func TestRecordAnswer_InvalidPart(t *testing.T) {
	s := createTestStore(t)
	_, err := s.RecordAnswer(context.Background(), Answer{ID: "x", Part: 3})
	assert.ErrorContains(t, err, "part must be 1 or 2")
}

func TestRecordCycles_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	createTestRun(t, s, "d1", "run-a")

	cycles := []CycleRecord{
		{Subgraph: 1, Label: "c1inv", Start: 1, Length: 13, Hits: []int{13}, Fingerprint: 0xfedcba9876543210},
		{Subgraph: 0, Label: "c0inv", Start: 1, Length: 11, Hits: nil, Fingerprint: 7},
	}
	require.NoError(t, s.RecordCycles(ctx, "run-a", cycles))

	got, err := s.ReadCycles(ctx, "run-a")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, CycleRecord{Subgraph: 0, Label: "c0inv", Start: 1, Length: 11, Hits: []int{}, Fingerprint: 7}, got[0])
	assert.Equal(t, cycles[0], got[1])
}
