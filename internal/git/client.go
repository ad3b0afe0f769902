package git

import (
	"context"
	"errors"
	"fmt"

	"github.com/RoystonS/changesets/internal/execshell"
	"github.com/RoystonS/changesets/internal/workspace"
)

const (
	executorNotConfiguredMessageConstant   = "git executor not configured"
	discovererNotConfiguredMessageConstant = "package discoverer not configured"
	divergenceLookupErrorTemplateConstant  = "failed to find where HEAD diverged from %q; does the ref exist?"
)

// GitExecutor is the minimal interface required from execshell.ShellExecutor.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// PackageDiscoverer resolves the package set of a repository root.
type PackageDiscoverer interface {
	DiscoverPackages(repositoryRoot string) (workspace.PackageSet, error)
}

// Dependencies captures the collaborators a Client needs.
type Dependencies struct {
	Executor   GitExecutor
	Discoverer PackageDiscoverer
}

// Client answers repository queries by shelling out to git.
type Client struct {
	executor   GitExecutor
	discoverer PackageDiscoverer
}

// Sentinel errors surfaced during client construction and use.
var (
	// ErrExecutorNotConfigured indicates the client was constructed without an executor.
	ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)
	// ErrDiscovererNotConfigured indicates a package-level query ran without a discoverer.
	ErrDiscovererNotConfigured = errors.New(discovererNotConfiguredMessageConstant)
)

// NewClient constructs a git query client. The discoverer may be nil when
// package-level queries are not needed.
func NewClient(dependencies Dependencies) (*Client, error) {
	if dependencies.Executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &Client{executor: dependencies.Executor, discoverer: dependencies.Discoverer}, nil
}

// DivergenceLookupError reports that a baseline ref could not be compared
// against the current head.
type DivergenceLookupError struct {
	BaselineRef string
	Cause       error
}

// Error describes the lookup failure, naming the offending ref.
func (lookupError DivergenceLookupError) Error() string {
	return fmt.Sprintf(divergenceLookupErrorTemplateConstant, lookupError.BaselineRef)
}

// Unwrap exposes the underlying cause.
func (lookupError DivergenceLookupError) Unwrap() error {
	return lookupError.Cause
}

func commandDetails(repositoryRoot string, arguments ...string) execshell.CommandDetails {
	return execshell.CommandDetails{Arguments: arguments, WorkingDirectory: repositoryRoot}
}

// IsVCSError reports whether the error chain contains a git command that ran
// and exited non-zero, as opposed to a transport-level failure where git
// could not be executed at all.
func IsVCSError(candidateError error) bool {
	commandFailedError := execshell.CommandFailedError{}
	return errors.As(candidateError, &commandFailedError)
}
