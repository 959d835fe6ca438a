package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/pulsenet/internal/circuit"
	"github.com/roach88/pulsenet/internal/config"
	"github.com/roach88/pulsenet/internal/digest"
	"github.com/roach88/pulsenet/internal/store"
)

// loadedCircuit is a parsed circuit file together with the settings it
// was parsed under.
type loadedCircuit struct {
	Path        string
	Source      string
	SinkName    string
	Broadcaster string
	Network     *circuit.Network
	Digest      string
}

// Record returns the store row for c.
func (c *loadedCircuit) Record() store.Circuit {
	return store.Circuit{
		Digest:      c.Digest,
		Source:      c.Source,
		SinkName:    c.SinkName,
		Broadcaster: c.Broadcaster,
		Modules:     c.Network.Len(),
	}
}

// readCircuitSource reads path, or standard input when path is "-".
func readCircuitSource(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", WrapExitError(ExitCommandError, "reading standard input", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", NewExitError(ExitCommandError, fmt.Sprintf("circuit file not found: %s", path))
	}
	if err != nil {
		return "", WrapExitError(ExitCommandError, "reading circuit file", err)
	}
	return string(data), nil
}

// parseCircuit parses source with the circuit settings of cfg. A
// non-empty sink overrides cfg's sink name.
func parseCircuit(path, source string, cfg config.CircuitConfig, sink string) (*loadedCircuit, error) {
	if sink != "" {
		cfg.SinkName = sink
	}
	n, err := circuit.Parse(source, cfg.ParseOptions()...)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, fmt.Sprintf("parsing %s", path), err)
	}
	d, err := digest.Circuit(n)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "computing circuit digest", err)
	}
	return &loadedCircuit{
		Path:        path,
		Source:      source,
		SinkName:    cfg.SinkName,
		Broadcaster: cfg.Broadcaster,
		Network:     n,
		Digest:      d,
	}, nil
}

// loadCircuit reads and parses the circuit at path.
func loadCircuit(cmd *cobra.Command, opts *RootOptions, path, sink string) (*loadedCircuit, error) {
	cfg, err := opts.Config()
	if err != nil {
		return nil, err
	}
	source, err := readCircuitSource(cmd, path)
	if err != nil {
		return nil, err
	}
	return parseCircuit(path, source, cfg.Circuit, sink)
}

// openStore opens the database at path, or the configured one when path
// is empty. It fails when neither is set.
func openStore(opts *RootOptions, path string) (*store.Store, error) {
	if path == "" {
		cfg, err := opts.Config()
		if err != nil {
			return nil, err
		}
		path = cfg.Store.Path
	}
	if path == "" {
		return nil, NewExitError(ExitCommandError, "no database: pass --db or set store.path")
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "opening database", err)
	}
	return st, nil
}

// shortDigest abbreviates a digest for text output.
func shortDigest(d string) string {
	if len(d) <= 12 {
		return d
	}
	return d[:12]
}
