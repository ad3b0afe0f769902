package git_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/RoystonS/changesets/internal/execshell"
)

const (
	addCommitsTestRepositoryRootConstant = "/workspace/project"
	addCommitsTestPathAConstant          = "packages/pkg-a/src/index.ts"
	addCommitsTestPathBConstant          = "packages/pkg-b/src/index.ts"
	addCommitsTestMissingPathConstant    = "packages/typo/never-added.ts"
	addCommitsTestDeepPathConstant       = "packages/pkg-a/CHANGELOG.md"
)

func lookupTargetPath(details execshell.CommandDetails) string {
	return details.Arguments[len(details.Arguments)-1]
}

func TestGetCommitsThatAddFilesPreservesOrderAndAbsence(testInstance *testing.T) {
	addCommitOutputs := map[string]string{
		addCommitsTestPathAConstant:       "aaa1111:bbb2222",
		addCommitsTestPathBConstant:       "ccc3333:ddd4444 eee5555",
		addCommitsTestMissingPathConstant: "",
	}
	executor := &stubGitExecutor{handler: func(details execshell.CommandDetails) (execshell.ExecutionResult, error) {
		require.Equal(testInstance, "log", details.Arguments[0])
		return successOutput(addCommitOutputs[lookupTargetPath(details)])
	}}
	client := newTestClient(testInstance, executor)

	commitShas, lookupError := client.GetCommitsThatAddFiles(context.Background(), addCommitsTestRepositoryRootConstant, []string{
		addCommitsTestPathAConstant,
		addCommitsTestMissingPathConstant,
		addCommitsTestPathBConstant,
	})

	require.NoError(testInstance, lookupError)
	require.Equal(testInstance, []string{"aaa1111", "", "ccc3333"}, commitShas)
}

func TestGetCommitsThatAddFilesAcceptsRootCommitOnFullHistory(testInstance *testing.T) {
	executor := &stubGitExecutor{handler: func(details execshell.CommandDetails) (execshell.ExecutionResult, error) {
		switch details.Arguments[0] {
		case "log":
			return successOutput("aaa1111:")
		case "rev-parse":
			return successOutput("false\n")
		default:
			return commandFailure(details, 1, "unexpected command")
		}
	}}
	client := newTestClient(testInstance, executor)

	commitShas, lookupError := client.GetCommitsThatAddFiles(context.Background(), addCommitsTestRepositoryRootConstant, []string{addCommitsTestPathAConstant})

	require.NoError(testInstance, lookupError)
	require.Equal(testInstance, []string{"aaa1111"}, commitShas)
	require.Equal(testInstance, 1, executor.commandCount("rev-parse"))
	require.Zero(testInstance, executor.commandCount("fetch"))
}

func TestGetCommitsThatAddFilesDeepensShallowClone(testInstance *testing.T) {
	var stateMutex sync.Mutex
	historyDeepened := false

	executor := &stubGitExecutor{}
	executor.handler = func(details execshell.CommandDetails) (execshell.ExecutionResult, error) {
		stateMutex.Lock()
		defer stateMutex.Unlock()

		switch details.Arguments[0] {
		case "log":
			if details.Arguments[len(details.Arguments)-1] != addCommitsTestDeepPathConstant {
				return successOutput("aaa1111:bbb2222")
			}
			if historyDeepened {
				return successOutput("eee5555:fff6666")
			}
			return successOutput("eee5555:")
		case "rev-parse":
			if historyDeepened {
				return successOutput("false\n")
			}
			return successOutput("true\n")
		case "fetch":
			require.Equal(testInstance, []string{"fetch", "--deepen=50"}, details.Arguments)
			historyDeepened = true
			return successOutput("")
		default:
			return commandFailure(details, 1, "unexpected command")
		}
	}
	client := newTestClient(testInstance, executor)

	commitShas, lookupError := client.GetCommitsThatAddFiles(context.Background(), addCommitsTestRepositoryRootConstant, []string{
		addCommitsTestPathAConstant,
		addCommitsTestDeepPathConstant,
	})

	require.NoError(testInstance, lookupError)
	require.Equal(testInstance, []string{"aaa1111", "eee5555"}, commitShas)
	require.Equal(testInstance, 1, executor.commandCount("fetch"))

	// Only the ambiguous path is retried after deepening.
	logLookupCount := executor.commandCount("log")
	require.Equal(testInstance, 3, logLookupCount)
}

func TestGetCommitsThatAddFilesTreatsCommandFailureAsAbsent(testInstance *testing.T) {
	executor := &stubGitExecutor{handler: func(details execshell.CommandDetails) (execshell.ExecutionResult, error) {
		if lookupTargetPath(details) == addCommitsTestMissingPathConstant {
			return commandFailure(details, 128, "fatal: bad path")
		}
		return successOutput("aaa1111:bbb2222")
	}}
	client := newTestClient(testInstance, executor)

	commitShas, lookupError := client.GetCommitsThatAddFiles(context.Background(), addCommitsTestRepositoryRootConstant, []string{
		addCommitsTestMissingPathConstant,
		addCommitsTestPathAConstant,
	})

	require.NoError(testInstance, lookupError)
	require.Equal(testInstance, []string{"", "aaa1111"}, commitShas)
}

func TestGetCommitsThatAddFilesPropagatesTransportError(testInstance *testing.T) {
	transportError := errors.New("runner exploded")
	executor := &stubGitExecutor{handler: func(details execshell.CommandDetails) (execshell.ExecutionResult, error) {
		return execshell.ExecutionResult{}, execshell.CommandExecutionError{
			Command: execshell.ShellCommand{Name: execshell.CommandGit, Details: details},
			Cause:   transportError,
		}
	}}
	client := newTestClient(testInstance, executor)

	_, lookupError := client.GetCommitsThatAddFiles(context.Background(), addCommitsTestRepositoryRootConstant, []string{addCommitsTestPathAConstant})

	require.Error(testInstance, lookupError)
	require.ErrorIs(testInstance, lookupError, transportError)
}

func TestGetCommitThatAddsFileDelegatesToBulkLookup(testInstance *testing.T) {
	executor := &stubGitExecutor{handler: func(details execshell.CommandDetails) (execshell.ExecutionResult, error) {
		return successOutput("aaa1111:bbb2222")
	}}
	client := newTestClient(testInstance, executor)

	commitSha, lookupError := client.GetCommitThatAddsFile(context.Background(), addCommitsTestRepositoryRootConstant, addCommitsTestPathAConstant)

	require.NoError(testInstance, lookupError)
	require.Equal(testInstance, "aaa1111", commitSha)
}
