package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/pulsenet/internal/digest"
	"github.com/roach88/pulsenet/internal/engine"
)

// TraceSnapshot is the golden form of a recorded run.
type TraceSnapshot struct {
	ScenarioName string       `json:"scenario_name"`
	Presses      int          `json:"presses"`
	Tally        engine.Tally `json:"tally"`
	Trace        []TraceEvent `json:"trace"`
}

// NewTraceSnapshot captures result under name.
func NewTraceSnapshot(name string, presses int, result *Result) TraceSnapshot {
	return TraceSnapshot{
		ScenarioName: name,
		Presses:      presses,
		Tally:        result.Tally,
		Trace:        result.Trace,
	}
}

// toCanonicalMap converts the snapshot into values digest.MarshalCanonical
// accepts.
func (s *TraceSnapshot) toCanonicalMap() digest.Object {
	trace := make(digest.Array, len(s.Trace))
	for i, event := range s.Trace {
		trace[i] = digest.Object{
			"seq":   event.Seq,
			"press": event.Press,
			"from":  event.From,
			"to":    event.To,
			"level": event.Level,
		}
	}
	return digest.Object{
		"scenario_name": s.ScenarioName,
		"presses":       s.Presses,
		"tally": digest.Object{
			"low":  s.Tally.Low,
			"high": s.Tally.High,
		},
		"trace": trace,
	}
}

// Marshal returns the canonical JSON of the snapshot followed by a
// newline.
func (s *TraceSnapshot) Marshal() ([]byte, error) {
	data, err := digest.MarshalCanonical(s.toCanonicalMap())
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// RunWithGolden executes a scenario and compares its trace against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, scenario.Presses, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result's trace against its golden
// file.
func AssertGolden(t *testing.T, name string, presses int, result *Result) error {
	t.Helper()

	snapshot := NewTraceSnapshot(name, presses, result)
	data, err := snapshot.Marshal()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}
