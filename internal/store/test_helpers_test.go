package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func createTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "answers.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestCircuit is a three-module circuit record keyed by digest.
func createTestCircuit(digest string) Circuit {
	return Circuit{
		Digest:      digest,
		Source:      "broadcaster -> a\n%a -> rx\n",
		SinkName:    "rx",
		Broadcaster: "broadcaster",
		Modules:     3,
	}
}

func createTestRun(t *testing.T, s *Store, digest, runID string) Run {
	t.Helper()
	run, err := s.RecordRun(context.Background(), createTestCircuit(digest), runID)
	require.NoError(t, err)
	return run
}
