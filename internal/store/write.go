package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/roach88/pulsenet/internal/digest"
)

// RecordCircuit stores a circuit description. Uses ON CONFLICT(digest) DO
// NOTHING: a digest identifies its content, so the first write wins.
// Reports whether a new row was inserted.
func (s *Store) RecordCircuit(ctx context.Context, c Circuit) (bool, error) {
	return recordCircuit(ctx, s.db, c)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func recordCircuit(ctx context.Context, db execer, c Circuit) (bool, error) {
	result, err := db.ExecContext(ctx, `
		INSERT INTO circuits
		(digest, source, sink_name, broadcaster, modules)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(digest) DO NOTHING
	`,
		c.Digest,
		c.Source,
		c.SinkName,
		c.Broadcaster,
		c.Modules,
	)
	if err != nil {
		return false, fmt.Errorf("record circuit: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("record circuit: rows affected: %w", err)
	}
	return n > 0, nil
}

// RecordRun atomically stores the circuit (if new) and a run for it.
// The returned Run carries the sequence number the store assigned.
// Recording the same run id twice returns the original run.
func (s *Store) RecordRun(ctx context.Context, c Circuit, runID string) (Run, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("record run: begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := recordCircuit(ctx, tx, c); err != nil {
		return Run{}, fmt.Errorf("record run: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, circuit_digest, engine_version)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, runID, c.Digest, digest.EngineVersion)
	if err != nil {
		return Run{}, fmt.Errorf("record run: insert: %w", err)
	}

	run := Run{ID: runID}
	err = tx.QueryRowContext(ctx, `
		SELECT seq, circuit_digest, engine_version FROM runs WHERE id = ?
	`, runID).Scan(&run.Seq, &run.CircuitDigest, &run.EngineVersion)
	if err != nil {
		return Run{}, fmt.Errorf("record run: select: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("record run: commit: %w", err)
	}
	return run, nil
}

// RecordAnswer stores a as the latest value for a.ID and reports how it
// compares with the value stored before. The run referenced by a.RunID
// must exist.
func (s *Store) RecordAnswer(ctx context.Context, a Answer) (Change, error) {
	if a.Part != 1 && a.Part != 2 {
		return Change{}, fmt.Errorf("record answer: part must be 1 or 2, got %d", a.Part)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Change{}, fmt.Errorf("record answer: begin tx: %w", err)
	}
	defer tx.Rollback()

	change := Change{Current: a.Value}
	err = tx.QueryRowContext(ctx, `
		SELECT value FROM answers WHERE id = ?
	`, a.ID).Scan(&change.Previous)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return Change{}, fmt.Errorf("record answer: select existing: %w", err)
	default:
		change.Existed = true
		change.Changed = change.Previous != a.Value
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO answers
		(id, circuit_digest, part, value, strategy, presses, sink_name, run_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			value = excluded.value,
			strategy = excluded.strategy,
			run_id = excluded.run_id
	`,
		a.ID,
		a.CircuitDigest,
		a.Part,
		a.Value,
		a.Strategy,
		a.Presses,
		a.SinkName,
		a.RunID,
	)
	if err != nil {
		return Change{}, fmt.Errorf("record answer: upsert: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Change{}, fmt.Errorf("record answer: commit: %w", err)
	}
	return change, nil
}

// RecordCycles stores the cycle descriptions found during a run. Hits
// are stored as canonical JSON and fingerprints as fixed-width hex, since
// SQLite integers are signed.
func (s *Store) RecordCycles(ctx context.Context, runID string, cycles []CycleRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("record cycles: begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, c := range cycles {
		hits := c.Hits
		if hits == nil {
			hits = []int{}
		}
		hitsJSON, err := digest.MarshalCanonical(hits)
		if err != nil {
			return fmt.Errorf("record cycles: subgraph %d: %w", c.Subgraph, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO cycles
			(run_id, subgraph, label, start, length, hits, fingerprint)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(run_id, subgraph) DO NOTHING
		`,
			runID,
			c.Subgraph,
			c.Label,
			c.Start,
			c.Length,
			string(hitsJSON),
			formatFingerprint(c.Fingerprint),
		)
		if err != nil {
			return fmt.Errorf("record cycles: subgraph %d: %w", c.Subgraph, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("record cycles: commit: %w", err)
	}
	return nil
}

func formatFingerprint(fp uint64) string {
	return fmt.Sprintf("%016x", fp)
}

func parseFingerprint(s string) (uint64, error) {
	return strconv.ParseUint(s, 16, 64)
}
