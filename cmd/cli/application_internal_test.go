package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewApplicationRegistersSubcommands(testInstance *testing.T) {
	application := NewApplication()

	registeredNames := make(map[string]bool)
	for _, registeredCommand := range application.rootCommand.Commands() {
		registeredNames[registeredCommand.Name()] = true
	}

	require.True(testInstance, registeredNames[statusCommandUseConstant])
	require.True(testInstance, registeredNames[tagCommandUseConstant])
}

func TestApplicationRootCommandPrintsHelp(testInstance *testing.T) {
	application := NewApplication()

	var commandOutput bytes.Buffer
	application.rootCommand.SetOut(&commandOutput)
	application.rootCommand.SetErr(&commandOutput)
	application.rootCommand.SetArgs([]string{})

	require.NoError(testInstance, application.Execute())
	require.Contains(testInstance, commandOutput.String(), applicationNameConstant)
}

func TestApplicationRejectsInvalidLogLevelFlag(testInstance *testing.T) {
	application := NewApplication()

	var commandOutput bytes.Buffer
	application.rootCommand.SetOut(&commandOutput)
	application.rootCommand.SetErr(&commandOutput)
	application.rootCommand.SetArgs([]string{"--log-level", "verbose"})

	executionError := application.Execute()
	require.Error(testInstance, executionError)
	require.Contains(testInstance, executionError.Error(), "unable to create logger")
}
