package git

import (
	"context"

	"github.com/RoystonS/changesets/internal/execshell"
)

const (
	addSubcommandConstant     = "add"
	commitSubcommandConstant  = "commit"
	tagSubcommandConstant     = "tag"
	commitMessageFlagConstant = "-m"
	allowEmptyFlagConstant    = "--allow-empty"
)

// Add stages a path. The boolean reports whether git accepted the operation;
// transport failures propagate as errors.
func (client *Client) Add(executionContext context.Context, repositoryRoot string, pathToStage string) (bool, error) {
	return client.runBooleanCommand(executionContext, commandDetails(repositoryRoot, addSubcommandConstant, pathToStage))
}

// Commit records the staged changes under the provided message. Empty commits
// are always permitted so a no-op release commit still succeeds.
func (client *Client) Commit(executionContext context.Context, repositoryRoot string, commitMessage string) (bool, error) {
	return client.runBooleanCommand(executionContext, commandDetails(repositoryRoot, commitSubcommandConstant, commitMessageFlagConstant, commitMessage, allowEmptyFlagConstant))
}

// Tag creates an annotated tag named tagName. The tag must be annotated so a
// later push of the current branch with --follow-tags carries it along.
func (client *Client) Tag(executionContext context.Context, repositoryRoot string, tagName string) (bool, error) {
	return client.runBooleanCommand(executionContext, commandDetails(repositoryRoot, tagSubcommandConstant, tagName, commitMessageFlagConstant, tagName))
}

func (client *Client) runBooleanCommand(executionContext context.Context, details execshell.CommandDetails) (bool, error) {
	_, executionError := client.executor.ExecuteGit(executionContext, details)
	if executionError != nil {
		if IsVCSError(executionError) {
			return false, nil
		}
		return false, executionError
	}
	return true, nil
}
