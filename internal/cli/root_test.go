package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand(Env{})
	require.NotNil(t, cmd)
	assert.Equal(t, "camod", cmd.Use)
	assert.Contains(t, cmd.Long, "Gillespie")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand(Env{})
	commands := []string{"simulate", "validate", "models", "runs", "show", "replay", "export", "test"}

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
	cmd := NewRootCommand(Env{})

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestSimulateCommandFlags(t *testing.T) {
	cmd := NewRootCommand(Env{})
	simCmd, _, err := cmd.Find([]string{"simulate"})
	require.NoError(t, err)

	for _, name := range []string{"db", "seed", "export", "print"} {
		assert.NotNil(t, simCmd.Flags().Lookup(name), "flag --%s", name)
	}
	assert.Equal(t, "", simCmd.Flags().Lookup("db").DefValue)
}

func TestStoreCommandFlags(t *testing.T) {
	cmd := NewRootCommand(Env{})
	for _, name := range []string{"runs", "show", "replay", "export"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.NotNil(t, sub.Flags().Lookup("db"))
		})
	}

	exportCmd, _, err := cmd.Find([]string{"export"})
	require.NoError(t, err)
	outFlag := exportCmd.Flags().Lookup("out")
	require.NotNil(t, outFlag)
	assert.Equal(t, "o", outFlag.Shorthand)
}

func TestTestCommandFlags(t *testing.T) {
	cmd := NewRootCommand(Env{})
	testCmd, _, err := cmd.Find([]string{"test"})
	require.NoError(t, err)

	updateFlag := testCmd.Flags().Lookup("update")
	require.NotNil(t, updateFlag)
	assert.Equal(t, "false", updateFlag.DefValue)

	filterFlag := testCmd.Flags().Lookup("filter")
	require.NotNil(t, filterFlag)
}

func TestFormatValidation(t *testing.T) {
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))

	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
	assert.False(t, isValidFormat("TEXT"))
}

func TestFormatValidationIntegration(t *testing.T) {
	_, err := execute(t, Env{}, "--format", "invalid", "models")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := execute(t, Env{LogLevel: "loud"}, "models")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestRootOptions_Database(t *testing.T) {
	opts := &RootOptions{Env: Env{Database: "env.db"}}

	path, err := opts.database("flag.db")
	require.NoError(t, err)
	assert.Equal(t, "flag.db", path)

	path, err = opts.database("")
	require.NoError(t, err)
	assert.Equal(t, "env.db", path)

	_, err = (&RootOptions{}).database("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CAMOD_DB")

	_, err = opts.existingDatabase("/nonexistent/camod.db")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database not found")
}
