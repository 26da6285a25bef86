package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "mutest", cmd.Use)
	assert.Contains(t, cmd.Long, "fresh process per expression")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"test", "summarize", "perf", "perf-report", "storage", "compare", "runs"}

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

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "c", configFlag.Shorthand)
}

func TestTestCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	testCmd, _, err := cmd.Find([]string{"test"})
	require.NoError(t, err)

	for _, name := range []string{"base", "group", "report", "db", "metrics-file", "label", "failures", "strict"} {
		assert.NotNil(t, testCmd.Flags().Lookup(name), "flag --%s", name)
	}
	assert.Equal(t, ".", testCmd.Flags().Lookup("base").DefValue)
}

func TestPerfCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	perfCmd, _, err := cmd.Find([]string{"perf"})
	require.NoError(t, err)

	repeatFlag := perfCmd.Flags().Lookup("repeat")
	require.NotNil(t, repeatFlag)
	assert.Equal(t, "n", repeatFlag.Shorthand)
	assert.Equal(t, "0", repeatFlag.DefValue)
}

func TestExecute_InvalidFormat(t *testing.T) {
	var out, errOut bytes.Buffer
	code := Execute(context.Background(), []string{"--format", "xml", "runs"}, &out, &errOut)

	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, errOut.String(), `invalid format "xml"`)
}

func TestExecute_MissingArgs(t *testing.T) {
	var out, errOut bytes.Buffer
	code := Execute(context.Background(), []string{"test"}, &out, &errOut)

	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, errOut.String(), "accepts 1 arg")
}

func TestExecute_JSONErrorEnvelope(t *testing.T) {
	var out, errOut bytes.Buffer
	code := Execute(context.Background(), []string{"--format", "json", "summarize", "/nonexistent/mu.json"}, &out, &errOut)

	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, out.String(), `"status":"error"`)
	assert.Contains(t, out.String(), "report not found")
}
