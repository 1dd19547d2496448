package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	assert.Equal(t, "nestegg", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestSubcommandsRegistered(t *testing.T) {
	expected := []string{"project", "validate", "example", "chart", "serve", "version"}
	for _, name := range expected {
		found := false
		for _, c := range rootCmd.Commands() {
			if c.Name() == name {
				found = true
				break
			}
		}
		assert.True(t, found, "command %q not registered", name)
	}
}

func TestRootCommandHelp(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"--help"})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "project")
}

func TestRootCommandInvalidCommand(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"no-such-command"})

	assert.Error(t, rootCmd.Execute())
}

func TestExampleThenValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")

	rootCmd.SetArgs([]string{"example", path})
	require.NoError(t, rootCmd.Execute())

	_, err := os.Stat(path)
	require.NoError(t, err)

	rootCmd.SetArgs([]string{"validate", path})
	require.NoError(t, rootCmd.Execute())
}

func TestProjectFlagDefaults(t *testing.T) {
	format, err := projectCmd.Flags().GetString("format")
	require.NoError(t, err)
	assert.Equal(t, "console", format)
}
