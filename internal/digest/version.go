package digest

const (
	// EngineVersion is recorded with every stored run. Bump it when a
	// change can alter computed answers.
	EngineVersion = "0.1.0"

	// DigestVersion is the suffix shared by every digest domain.
	DigestVersion = "v1"
)
