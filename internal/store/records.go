package store

// Circuit is a stored circuit description.
type Circuit struct {
	Digest      string `json:"digest"`
	Source      string `json:"source"`
	SinkName    string `json:"sink_name"`
	Broadcaster string `json:"broadcaster"`
	Modules     int    `json:"modules"`
}

// Run is one solve of one circuit. Seq is assigned by the store.
type Run struct {
	Seq           int64  `json:"seq"`
	ID            string `json:"id"`
	CircuitDigest string `json:"circuit_digest"`
	EngineVersion string `json:"engine_version"`
}

// Answer is the latest value recorded for an answer id.
type Answer struct {
	ID            string `json:"id"`
	CircuitDigest string `json:"circuit_digest"`
	Part          int    `json:"part"`
	Value         int64  `json:"value"`
	Strategy      string `json:"strategy"`
	Presses       int    `json:"presses,omitempty"`
	SinkName      string `json:"sink_name,omitempty"`
	RunID         string `json:"run_id"`
}

// Change describes what RecordAnswer did to the stored value.
type Change struct {
	Previous int64 `json:"previous"`
	Current  int64 `json:"current"`
	Existed  bool  `json:"existed"`
	Changed  bool  `json:"changed"`
}

// CycleRecord is the stored cycle description of one subgraph.
type CycleRecord struct {
	Subgraph    int    `json:"subgraph"`
	Label       string `json:"label"`
	Start       int    `json:"start"`
	Length      int    `json:"length"`
	Hits        []int  `json:"hits"`
	Fingerprint uint64 `json:"fingerprint"`
}
