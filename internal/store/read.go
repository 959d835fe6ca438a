package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// ReadCircuit retrieves a circuit by digest.
// The error wraps sql.ErrNoRows if not found.
func (s *Store) ReadCircuit(ctx context.Context, digest string) (Circuit, error) {
	var c Circuit
	err := s.db.QueryRowContext(ctx, `
		SELECT digest, source, sink_name, broadcaster, modules
		FROM circuits
		WHERE digest = ?
	`, digest).Scan(&c.Digest, &c.Source, &c.SinkName, &c.Broadcaster, &c.Modules)
	if err != nil {
		return Circuit{}, fmt.Errorf("read circuit: %w", err)
	}
	return c, nil
}

// ListCircuits returns every stored circuit ordered by digest.
func (s *Store) ListCircuits(ctx context.Context) ([]Circuit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT digest, source, sink_name, broadcaster, modules
		FROM circuits
		ORDER BY digest COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query circuits: %w", err)
	}
	defer rows.Close()

	circuits := []Circuit{}
	for rows.Next() {
		var c Circuit
		if err := rows.Scan(&c.Digest, &c.Source, &c.SinkName, &c.Broadcaster, &c.Modules); err != nil {
			return nil, fmt.Errorf("scan circuit: %w", err)
		}
		circuits = append(circuits, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate circuits: %w", err)
	}
	return circuits, nil
}

// ListRuns returns the runs of one circuit in sequence order. An empty
// digest lists every run.
func (s *Store) ListRuns(ctx context.Context, circuitDigest string) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, id, circuit_digest, engine_version
		FROM runs
		WHERE ? = '' OR circuit_digest = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, circuitDigest, circuitDigest)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.Seq, &r.ID, &r.CircuitDigest, &r.EngineVersion); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ListAnswers returns stored answers ordered by circuit digest, part and
// id. An empty digest lists every answer.
func (s *Store) ListAnswers(ctx context.Context, circuitDigest string) ([]Answer, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, circuit_digest, part, value, strategy, presses, sink_name, run_id
		FROM answers
		WHERE ? = '' OR circuit_digest = ?
		ORDER BY circuit_digest COLLATE BINARY ASC, part ASC, id COLLATE BINARY ASC
	`, circuitDigest, circuitDigest)
	if err != nil {
		return nil, fmt.Errorf("query answers: %w", err)
	}
	defer rows.Close()

	answers := []Answer{}
	for rows.Next() {
		var a Answer
		err := rows.Scan(&a.ID, &a.CircuitDigest, &a.Part, &a.Value, &a.Strategy, &a.Presses, &a.SinkName, &a.RunID)
		if err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		answers = append(answers, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate answers: %w", err)
	}
	return answers, nil
}

// ReadCycles returns the cycle descriptions recorded for a run, ordered
// by subgraph index.
func (s *Store) ReadCycles(ctx context.Context, runID string) ([]CycleRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT subgraph, label, start, length, hits, fingerprint
		FROM cycles
		WHERE run_id = ?
		ORDER BY subgraph ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query cycles: %w", err)
	}
	defer rows.Close()

	cycles := []CycleRecord{}
	for rows.Next() {
		var (
			c        CycleRecord
			hitsJSON string
			fp       string
		)
		if err := rows.Scan(&c.Subgraph, &c.Label, &c.Start, &c.Length, &hitsJSON, &fp); err != nil {
			return nil, fmt.Errorf("scan cycle: %w", err)
		}
		if err := json.Unmarshal([]byte(hitsJSON), &c.Hits); err != nil {
			return nil, fmt.Errorf("decode hits for subgraph %d: %w", c.Subgraph, err)
		}
		if c.Fingerprint, err = parseFingerprint(fp); err != nil {
			return nil, fmt.Errorf("decode fingerprint for subgraph %d: %w", c.Subgraph, err)
		}
		cycles = append(cycles, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cycles: %w", err)
	}
	return cycles, nil
}
