package git_test

import (
	"context"
	"sync"

	"github.com/RoystonS/changesets/internal/execshell"
	"github.com/RoystonS/changesets/internal/workspace"
)

// stubGitExecutor answers git invocations from a handler function and records
// every command it receives. The handler must be safe for concurrent calls
// because bulk add-commit lookups fan out across goroutines.
type stubGitExecutor struct {
	mutex            sync.Mutex
	handler          func(details execshell.CommandDetails) (execshell.ExecutionResult, error)
	executedCommands []execshell.CommandDetails
}

func (executor *stubGitExecutor) ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.mutex.Lock()
	executor.executedCommands = append(executor.executedCommands, details)
	handler := executor.handler
	executor.mutex.Unlock()

	return handler(details)
}

func (executor *stubGitExecutor) recordedCommands() []execshell.CommandDetails {
	executor.mutex.Lock()
	defer executor.mutex.Unlock()
	return append([]execshell.CommandDetails{}, executor.executedCommands...)
}

func (executor *stubGitExecutor) commandCount(subcommand string) int {
	matchingCount := 0
	for _, command := range executor.recordedCommands() {
		if len(command.Arguments) > 0 && command.Arguments[0] == subcommand {
			matchingCount++
		}
	}
	return matchingCount
}

func successOutput(standardOutput string) (execshell.ExecutionResult, error) {
	return execshell.ExecutionResult{StandardOutput: standardOutput, ExitCode: 0}, nil
}

func commandFailure(details execshell.CommandDetails, exitCode int, standardError string) (execshell.ExecutionResult, error) {
	failedResult := execshell.ExecutionResult{StandardError: standardError, ExitCode: exitCode}
	failedCommand := execshell.ShellCommand{Name: execshell.CommandGit, Details: details}
	return failedResult, execshell.CommandFailedError{Command: failedCommand, Result: failedResult}
}

// stubPackageDiscoverer returns a fixed package set for every repository root.
type stubPackageDiscoverer struct {
	packageSet     workspace.PackageSet
	discoveryError error
}

func (discoverer *stubPackageDiscoverer) DiscoverPackages(repositoryRoot string) (workspace.PackageSet, error) {
	if discoverer.discoveryError != nil {
		return workspace.PackageSet{}, discoverer.discoveryError
	}
	return discoverer.packageSet, nil
}
