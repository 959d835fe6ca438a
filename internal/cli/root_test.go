package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "pulsenet", cmd.Use)
	assert.Contains(t, cmd.Long, "low pulse")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"solve", "press", "trace", "cycles", "dot", "validate", "answers", "verify", "test"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	require.NotNil(t, cmd.PersistentFlags().Lookup("config"))
}

func TestSolveCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	solveCmd, _, err := cmd.Find([]string{"solve"})
	require.NoError(t, err)

	for _, name := range []string{"part", "db", "sink", "presses"} {
		assert.NotNil(t, solveCmd.Flags().Lookup(name), name)
	}
	assert.Equal(t, "0", solveCmd.Flags().Lookup("part").DefValue)
}

func TestPressCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	pressCmd, _, err := cmd.Find([]string{"press"})
	require.NoError(t, err)

	countFlag := pressCmd.Flags().Lookup("count")
	require.NotNil(t, countFlag)
	assert.Equal(t, "n", countFlag.Shorthand)
	assert.Equal(t, "1", countFlag.DefValue)
}

func TestRootCommand_InvalidFormat(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--format", "yaml", "validate", circuitPath("ring.txt")})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "yaml"`)
}

func TestRootCommand_ConfigFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "pulsenet.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("simulation:\n  part1_presses: 1\n"), 0644))

	out := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", cfgPath, "solve", "--part", "1", circuitPath("ring.txt")})

	require.NoError(t, cmd.Execute())
	// One press of the ring sends 8 low and 4 high pulses.
	assert.Contains(t, out.String(), "part 1: 32 (8 low × 4 high")
}

func TestRootCommand_BadConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "pulsenet.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("simulation:\n  nonsense: 1\n"), 0644))

	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", cfgPath, "validate", circuitPath("ring.txt")})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRootOptions_Logger(t *testing.T) {
	opts := &RootOptions{Verbose: true}
	_, err := opts.Config()
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	logger := opts.Logger(buf)
	logger.Debug("visible")
	assert.Contains(t, buf.String(), "visible")
	assert.Same(t, logger, opts.Logger(&bytes.Buffer{}))
}
