package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := GetRootCmd()
	require.NotNil(t, cmd)
	assert.Equal(t, "livelink", cmd.Use)
	assert.Equal(t, version, cmd.Version)
}

func TestRootCommand_HasServeSubcommand(t *testing.T) {
	cmd := GetRootCmd()

	var found bool
	for _, sub := range cmd.Commands() {
		if sub.Use == "serve" {
			found = true
		}
	}
	assert.True(t, found, "serve subcommand must be registered")
}

func TestRootCommand_GlobalFlags(t *testing.T) {
	cmd := GetRootCmd()
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("log-level"))
}

func TestGetVersion(t *testing.T) {
	assert.Equal(t, version, GetVersion())
}
