package git

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

const (
	logSubcommandConstant             = "log"
	addedFilesDiffFilterConstant      = "--diff-filter=A"
	singleCommitMaxCountFlagConstant  = "--max-count=1"
	shortHashWithParentFormatConstant = "--pretty=format:%h:%p"
	pathSeparatorArgumentConstant     = "--"
	revParseSubcommandConstant        = "rev-parse"
	shallowRepositoryFlagConstant     = "--is-shallow-repository"
	fetchSubcommandConstant           = "fetch"
	deepenFlagConstant                = "--deepen=50"
	shallowProbeTrueOutputConstant    = "true"
	commitParentSeparatorConstant     = ":"
)

// fileCommitInfo records the outcome of a single add-commit lookup. An empty
// CommitSha means the file has no add commit; an empty ParentSha means the
// commit's parent could not be resolved, which is ambiguous between a true
// root commit and a shallow-clone boundary.
type fileCommitInfo struct {
	Path      string
	CommitSha string
	ParentSha string
}

// GetCommitsThatAddFiles resolves, for every path, the short SHA of the
// commit that introduced it. Results align positionally with the input; an
// empty string marks a path with no add commit. Shallow clones are deepened
// in fixed increments until every ambiguous lookup either resolves a parent
// or the repository reports full history, at which point parentless commits
// are accepted as genuine root commits.
func (client *Client) GetCommitsThatAddFiles(executionContext context.Context, repositoryRoot string, gitPaths []string) ([]string, error) {
	commitShaByPath := make(map[string]string, len(gitPaths))
	pendingPaths := append([]string{}, gitPaths...)

	for len(pendingPaths) > 0 {
		lookupResults, lookupError := client.lookupAddCommits(executionContext, repositoryRoot, pendingPaths)
		if lookupError != nil {
			return nil, lookupError
		}

		var ambiguousResults []fileCommitInfo
		for _, lookupResult := range lookupResults {
			switch {
			case len(lookupResult.CommitSha) == 0:
				commitShaByPath[lookupResult.Path] = ""
			case len(lookupResult.ParentSha) > 0:
				commitShaByPath[lookupResult.Path] = lookupResult.CommitSha
			default:
				ambiguousResults = append(ambiguousResults, lookupResult)
			}
		}

		if len(ambiguousResults) == 0 {
			break
		}

		repositoryIsShallow, shallowProbeError := client.isRepositoryShallow(executionContext, repositoryRoot)
		if shallowProbeError != nil {
			return nil, shallowProbeError
		}

		if !repositoryIsShallow {
			for _, ambiguousResult := range ambiguousResults {
				commitShaByPath[ambiguousResult.Path] = ambiguousResult.CommitSha
			}
			break
		}

		if deepenError := client.deepenHistory(executionContext, repositoryRoot); deepenError != nil {
			return nil, deepenError
		}

		pendingPaths = pendingPaths[:0]
		for _, ambiguousResult := range ambiguousResults {
			pendingPaths = append(pendingPaths, ambiguousResult.Path)
		}
	}

	commitShas := make([]string, len(gitPaths))
	for pathIndex, gitPath := range gitPaths {
		commitShas[pathIndex] = commitShaByPath[gitPath]
	}
	return commitShas, nil
}

// GetCommitThatAddsFile resolves the commit that introduced a single file.
//
// Deprecated: use GetCommitsThatAddFiles, which resolves many paths in one
// pass and shares the shallow-clone deepening work between them.
func (client *Client) GetCommitThatAddsFile(executionContext context.Context, repositoryRoot string, gitPath string) (string, error) {
	commitShas, lookupError := client.GetCommitsThatAddFiles(executionContext, repositoryRoot, []string{gitPath})
	if lookupError != nil {
		return "", lookupError
	}
	return commitShas[0], nil
}

// lookupAddCommits queries every pending path concurrently. Paths whose git
// lookup exits non-zero resolve to an absent commit rather than failing the
// batch; transport failures abort the whole batch.
func (client *Client) lookupAddCommits(executionContext context.Context, repositoryRoot string, gitPaths []string) ([]fileCommitInfo, error) {
	lookupResults := make([]fileCommitInfo, len(gitPaths))
	var resultsMutex sync.Mutex

	lookupGroup, groupContext := errgroup.WithContext(executionContext)
	for pathIndex, gitPath := range gitPaths {
		pathIndex, gitPath := pathIndex, gitPath
		lookupGroup.Go(func() error {
			lookupResult, lookupError := client.lookupAddCommit(groupContext, repositoryRoot, gitPath)
			if lookupError != nil {
				if IsVCSError(lookupError) {
					lookupResult = fileCommitInfo{Path: gitPath}
				} else {
					return lookupError
				}
			}

			resultsMutex.Lock()
			lookupResults[pathIndex] = lookupResult
			resultsMutex.Unlock()
			return nil
		})
	}

	if waitError := lookupGroup.Wait(); waitError != nil {
		return nil, waitError
	}
	return lookupResults, nil
}

func (client *Client) lookupAddCommit(executionContext context.Context, repositoryRoot string, gitPath string) (fileCommitInfo, error) {
	executionResult, executionError := client.executor.ExecuteGit(executionContext, commandDetails(
		repositoryRoot,
		logSubcommandConstant,
		addedFilesDiffFilterConstant,
		singleCommitMaxCountFlagConstant,
		shortHashWithParentFormatConstant,
		pathSeparatorArgumentConstant,
		gitPath,
	))
	if executionError != nil {
		return fileCommitInfo{}, executionError
	}

	trimmedOutput := strings.TrimSpace(executionResult.StandardOutput)
	if len(trimmedOutput) == 0 {
		return fileCommitInfo{Path: gitPath}, nil
	}

	commitSha, parentSha, _ := strings.Cut(trimmedOutput, commitParentSeparatorConstant)
	return fileCommitInfo{
		Path:      gitPath,
		CommitSha: strings.TrimSpace(commitSha),
		ParentSha: strings.TrimSpace(parentSha),
	}, nil
}

func (client *Client) isRepositoryShallow(executionContext context.Context, repositoryRoot string) (bool, error) {
	executionResult, executionError := client.executor.ExecuteGit(executionContext, commandDetails(repositoryRoot, revParseSubcommandConstant, shallowRepositoryFlagConstant))
	if executionError != nil {
		return false, executionError
	}
	return strings.TrimSpace(executionResult.StandardOutput) == shallowProbeTrueOutputConstant, nil
}

func (client *Client) deepenHistory(executionContext context.Context, repositoryRoot string) error {
	_, executionError := client.executor.ExecuteGit(executionContext, commandDetails(repositoryRoot, fetchSubcommandConstant, deepenFlagConstant))
	return executionError
}
