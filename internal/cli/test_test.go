package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenariosDir = "../../testdata/scenarios"

func TestTestCommandMissingArgs(t *testing.T) {
	_, err := execute(t, testOptions("text"), NewTestCommand)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestTestCommandNonExistentScenariosDir(t *testing.T) {
	_, err := execute(t, testOptions("text"), NewTestCommand, "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "scenarios directory not found")
}

func TestTestCommandEmptyDir(t *testing.T) {
	out, err := execute(t, testOptions("text"), NewTestCommand, t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found.")
}

func TestTestCommandRunsScenarios(t *testing.T) {
	out, err := execute(t, testOptions("text"), NewTestCommand, scenariosDir)
	require.NoError(t, err, out)

	assert.Contains(t, out, "✓ ring_first_press")
	assert.Contains(t, out, "✓ sink_part2")
	assert.Contains(t, out, "✓ flipflop_chain")
	assert.Contains(t, out, "Test Summary: 5 passed, 0 failed, 5 total")
	assert.Contains(t, out, "✓ All scenarios passed")
}

func TestTestCommandFilterJSON(t *testing.T) {
	out, err := execute(t, testOptions("json"), NewTestCommand, "--filter", "sink_*", scenariosDir)
	require.NoError(t, err)

	var res TestResult
	assert.Equal(t, "ok", decodeData(t, out, &res))
	require.Len(t, res.Scenarios, 1)
	assert.Equal(t, "sink_part2", res.Scenarios[0].Name)
	assert.Equal(t, 1, res.Passed)
}

func TestTestCommandInvalidFilter(t *testing.T) {
	_, err := execute(t, testOptions("text"), NewTestCommand, "--filter", "[", scenariosDir)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func writeScenario(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name+".yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

const ringScenario = `name: ring_once
description: one press of the ring
circuit: |
  broadcaster -> a, b, c
  %a -> b
  %b -> c
  %c -> inv
  &inv -> a
presses: 1
assertions:
  - type: tally
    low: 8
    high: 4
`

func TestTestCommandFailingScenario(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "bad", `name: bad
description: wrong tally
circuit: "broadcaster -> a\n%a -> rx"
presses: 1
assertions:
  - type: tally
    low: 100
`)

	out, err := execute(t, testOptions("json"), NewTestCommand, dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var res TestResult
	assert.Equal(t, "error", decodeData(t, out, &res))
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Scenarios, 1)
	assert.NotEmpty(t, res.Scenarios[0].Errors)
}

func TestTestCommandLoadError(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "broken", "name: broken\nbogus_field: 1\n")

	out, err := execute(t, testOptions("text"), NewTestCommand, dir)
	require.Error(t, err)
	assert.Contains(t, out, "✗ broken.yaml")
	assert.Contains(t, out, "failed to load scenario")
}

func TestTestCommandGoldenUpdateAndCompare(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "ring_once", ringScenario)
	goldenPath := filepath.Join(dir, "golden", "ring_once.golden")

	out, err := execute(t, testOptions("text"), NewTestCommand, "--update", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "✓ ring_once (golden updated)")

	data, err := os.ReadFile(goldenPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"scenario_name":"ring_once"`)
	assert.Contains(t, string(data), `"tally":{"high":4,"low":8}`)

	out, err = execute(t, testOptions("text"), NewTestCommand, dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "✓ ring_once\n")

	require.NoError(t, os.WriteFile(goldenPath, []byte("{}\n"), 0644))
	out, err = execute(t, testOptions("text"), NewTestCommand, dir)
	require.Error(t, err)
	assert.Contains(t, out, "trace does not match golden file")
}

func TestGoldenFilePath(t *testing.T) {
	assert.Equal(t,
		filepath.Join("scenarios", "golden", "sink_part2.golden"),
		goldenFilePath(filepath.Join("scenarios", "sink_part2.yaml")))
}

func TestFindScenarioFilesSkipsGolden(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "one", ringScenario)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "golden"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "golden", "x.yaml"), []byte("name: x"), 0644))

	files, err := findScenarioFiles(dir, "")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "one.yaml")}, files)
}
