package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "carreira", cmd.Use)
	assert.Contains(t, cmd.Long, "competency")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"init", "seed", "user", "competency", "course", "assess", "gaps", "recommend", "intend", "report", "sync"}

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

	dbFlag := cmd.PersistentFlags().Lookup("db")
	require.NotNil(t, dbFlag)
	assert.Equal(t, "carreira.db", dbFlag.DefValue)
}

func TestInvalidFormatRejected(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"init", "--format", "xml", "--db", filepath.Join(t.TempDir(), "test.db")})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestIsValidFormat(t *testing.T) {
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))
	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
}

func TestReportSubcommands(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"summary", "levels", "scores", "demand", "engagement", "progress", "trends"} {
		subCmd, _, err := cmd.Find([]string{"report", name})
		require.NoError(t, err, "report %s should exist", name)
		assert.Equal(t, name, subCmd.Name())
	}
}

func TestUserSubcommands(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"create", "list", "show", "delete", "reset"} {
		subCmd, _, err := cmd.Find([]string{"user", name})
		require.NoError(t, err, "user %s should exist", name)
		assert.Equal(t, name, subCmd.Name())
	}
}
