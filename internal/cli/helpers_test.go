package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pulsenet/internal/config"
	"github.com/roach88/pulsenet/internal/logging"
	"github.com/roach88/pulsenet/internal/testutil"
)

// testOptions returns root options with default config, a silent logger
// and a fixed run id, so tests do not depend on the environment.
func testOptions(format string) *RootOptions {
	return &RootOptions{
		Format: format,
		RunIDs: testutil.NewFixedRunID("run-1"),
		cfg:    config.Default(),
		logger: logging.Discard(),
	}
}

// execute runs the command built by newCmd and returns its stdout.
func execute(t *testing.T, opts *RootOptions, newCmd func(*RootOptions) *cobra.Command, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := newCmd(opts)
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// decodeData unmarshals the data field of a JSON response into v and
// returns the response status.
func decodeData(t *testing.T, out string, v any) string {
	t.Helper()
	var resp struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
		Error  *CLIError       `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	if v != nil && len(resp.Data) > 0 {
		require.NoError(t, json.Unmarshal(resp.Data, v))
	}
	return resp.Status
}

// circuitPath locates a shared fixture under testdata/circuits.
func circuitPath(name string) string {
	return filepath.Join("..", "..", "testdata", "circuits", name)
}

// writeCircuit writes text to a temporary file.
func writeCircuit(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "circuit.txt")
	require.NoError(t, os.WriteFile(path, []byte(text), 0644))
	return path
}
