package cli_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/forksmith/cmd/cli"
)

func TestNewApplicationRegistersStewardshipCommands(t *testing.T) {
	application := cli.NewApplication()
	require.NotNil(t, application)

	rootCommand := application.RootCommand()
	require.NotNil(t, rootCommand)

	expectedCommandNames := []string{"status", "sync", "build", "run"}
	registeredCommandNames := map[string]bool{}
	for _, registeredCommand := range rootCommand.Commands() {
		registeredCommandNames[registeredCommand.Name()] = true
	}

	for _, expectedCommandName := range expectedCommandNames {
		require.True(t, registeredCommandNames[expectedCommandName], expectedCommandName)
	}
}

func TestRootCommandPrintsHelpWithoutSubcommand(t *testing.T) {
	application := cli.NewApplication()
	rootCommand := application.RootCommand()
	rootCommand.SetArgs([]string{"--help"})

	require.NoError(t, rootCommand.Execute())
}
