package testutil

// FixedRunID returns the same run id on every call.
//
// engine.FixedGenerator hands out a sequence and panics when it runs dry.
// Tests that record many runs but only compare answers use FixedRunID
// instead. The store keys runs by id with ON CONFLICT DO NOTHING, so
// repeated ids are harmless there.
type FixedRunID struct {
	id string
}

// NewFixedRunID creates a generator for id. An empty id becomes
// "test-run-default".
func NewFixedRunID(id string) *FixedRunID {
	if id == "" {
		id = "test-run-default"
	}
	return &FixedRunID{id: id}
}

// Generate returns the fixed id.
func (g *FixedRunID) Generate() string {
	return g.id
}
