package git

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"
)

const (
	mergeBaseSubcommandConstant        = "merge-base"
	diffSubcommandConstant             = "diff"
	headReferenceConstant              = "HEAD"
	nameOnlyFlagConstant               = "--name-only"
	excludeDeletionsDiffFilterConstant = "--diff-filter=d"
	diffOutputLineSeparatorConstant    = "\n"
)

// changesetFilePattern recognizes files directly inside the reserved
// .changeset directory with a markdown extension.
var changesetFilePattern = regexp.MustCompile(`^\.changeset/[^/]+\.md$`)

// ChangedFilesOptions configures GetChangedFilesSince queries.
type ChangedFilesOptions struct {
	RepositoryRoot string
	BaselineRef    string
	FullPath       bool
}

// ChangesetFilesOptions configures GetChangedChangesetFilesSinceRef queries.
type ChangesetFilesOptions struct {
	RepositoryRoot string
	BaselineRef    string
}

// GetDivergedCommit locates the nearest common ancestor of the baseline ref
// and the current head.
func (client *Client) GetDivergedCommit(executionContext context.Context, repositoryRoot string, baselineRef string) (string, error) {
	executionResult, executionError := client.executor.ExecuteGit(executionContext, commandDetails(repositoryRoot, mergeBaseSubcommandConstant, baselineRef, headReferenceConstant))
	if executionError != nil {
		return "", DivergenceLookupError{BaselineRef: baselineRef, Cause: executionError}
	}

	return strings.TrimSpace(executionResult.StandardOutput), nil
}

// GetChangedFilesSince lists the files that differ between the divergence
// point of the baseline ref and the working tree. Paths are relative to the
// repository root unless FullPath is set.
func (client *Client) GetChangedFilesSince(executionContext context.Context, options ChangedFilesOptions) ([]string, error) {
	divergedCommit, divergenceError := client.GetDivergedCommit(executionContext, options.RepositoryRoot, options.BaselineRef)
	if divergenceError != nil {
		return nil, divergenceError
	}

	executionResult, executionError := client.executor.ExecuteGit(executionContext, commandDetails(options.RepositoryRoot, diffSubcommandConstant, nameOnlyFlagConstant, divergedCommit))
	if executionError != nil {
		return nil, DivergenceLookupError{BaselineRef: options.BaselineRef, Cause: executionError}
	}

	changedFiles := splitDiffOutput(executionResult.StandardOutput)
	if !options.FullPath {
		return changedFiles, nil
	}

	absoluteFiles := make([]string, 0, len(changedFiles))
	for _, changedFile := range changedFiles {
		absoluteFiles = append(absoluteFiles, filepath.Join(options.RepositoryRoot, filepath.FromSlash(changedFile)))
	}
	return absoluteFiles, nil
}

// GetChangedChangesetFilesSinceRef lists changeset declaration files changed
// since the baseline ref, excluding deletions. Git-level failures degrade to
// an empty result because a broken baseline simply means no changesets were
// found; transport failures still propagate.
func (client *Client) GetChangedChangesetFilesSinceRef(executionContext context.Context, options ChangesetFilesOptions) ([]string, error) {
	divergedCommit, divergenceError := client.GetDivergedCommit(executionContext, options.RepositoryRoot, options.BaselineRef)
	if divergenceError != nil {
		if IsVCSError(divergenceError) {
			return []string{}, nil
		}
		return nil, divergenceError
	}

	executionResult, executionError := client.executor.ExecuteGit(executionContext, commandDetails(options.RepositoryRoot, diffSubcommandConstant, nameOnlyFlagConstant, excludeDeletionsDiffFilterConstant, divergedCommit))
	if executionError != nil {
		if IsVCSError(executionError) {
			return []string{}, nil
		}
		return nil, executionError
	}

	var changesetFiles []string
	for _, changedFile := range splitDiffOutput(executionResult.StandardOutput) {
		if changesetFilePattern.MatchString(changedFile) {
			changesetFiles = append(changesetFiles, changedFile)
		}
	}
	return changesetFiles, nil
}

func splitDiffOutput(diffOutput string) []string {
	changedFiles := []string{}
	for _, outputLine := range strings.Split(diffOutput, diffOutputLineSeparatorConstant) {
		trimmedLine := strings.TrimSpace(outputLine)
		if len(trimmedLine) == 0 {
			continue
		}
		changedFiles = append(changedFiles, trimmedLine)
	}
	return changedFiles
}
