package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/RoystonS/changesets/internal/changeset"
	"github.com/RoystonS/changesets/internal/config"
	"github.com/RoystonS/changesets/internal/execshell"
	"github.com/RoystonS/changesets/internal/git"
	"github.com/RoystonS/changesets/internal/workspace"
)

const (
	statusCommandUseConstant   = "status"
	statusCommandShortConstant = "List the packages that changed since the baseline ref"
	statusCommandLongConstant  = "status discovers the monorepo packages and reports which of them contain files changed since the baseline ref, along with any changeset declarations recorded since that ref."

	rootFlagNameConstant   = "root"
	rootFlagUsageConstant  = "Repository root to inspect (defaults to the working directory)."
	sinceFlagNameConstant  = "since"
	sinceFlagUsageConstant = "Baseline ref to compare against (defaults to the configured base branch)."

	baseBranchConfigKeySuffixConstant = ".base_branch"

	statusNoChangesMessageConstant                = "No packages changed since %s\n"
	statusChangedPackageLineConstant              = "%s (%s)\n"
	statusChangesetFilesMessageConstant           = "%d changeset file(s) recorded since %s\n"
	statusChangesetDeclarationLineConstant        = "  %s: %s\n"
	declaredReleaseTemplateConstant               = "%s (%s)"
	declaredReleaseSeparatorConstant              = ", "
	releaseConfigurationWarningConstant           = "release configuration warning"
	logFieldWarningConstant                       = "warning"
	repositoryRootResolutionErrorTemplateConstant = "unable to resolve repository root: %w"
	changesetParseErrorTemplateConstant           = "unable to parse changeset %s: %w"
)

// Builder validation sentinels shared by the CLI subcommands.
var (
	ErrLoggerProviderNotConfigured        = errors.New("logger provider not configured")
	ErrConfigurationProviderNotConfigured = errors.New("configuration provider not configured")
)

// StatusConfiguration captures the persisted settings of the status command.
type StatusConfiguration struct {
	BaseBranch string `mapstructure:"base_branch"`
}

// DefaultStatusConfigurationValues exposes the status defaults keyed under the provided prefix.
func DefaultStatusConfigurationValues(configurationKeyPrefix string) map[string]any {
	return map[string]any{
		configurationKeyPrefix + baseBranchConfigKeySuffixConstant: "",
	}
}

// StatusCommandBuilder assembles the status command from its providers.
type StatusCommandBuilder struct {
	LoggerProvider        func() *zap.Logger
	ConfigurationProvider func() StatusConfiguration
}

// Build constructs the Cobra command.
func (builder StatusCommandBuilder) Build() (*cobra.Command, error) {
	if builder.LoggerProvider == nil {
		return nil, ErrLoggerProviderNotConfigured
	}
	if builder.ConfigurationProvider == nil {
		return nil, ErrConfigurationProviderNotConfigured
	}

	var repositoryRootFlagValue string
	var baselineRefFlagValue string

	statusCommand := &cobra.Command{
		Use:   statusCommandUseConstant,
		Short: statusCommandShortConstant,
		Long:  statusCommandLongConstant,
		RunE: func(command *cobra.Command, arguments []string) error {
			return builder.run(command, repositoryRootFlagValue, baselineRefFlagValue)
		},
	}

	statusCommand.Flags().StringVar(&repositoryRootFlagValue, rootFlagNameConstant, "", rootFlagUsageConstant)
	statusCommand.Flags().StringVar(&baselineRefFlagValue, sinceFlagNameConstant, "", sinceFlagUsageConstant)

	return statusCommand, nil
}

func (builder StatusCommandBuilder) run(command *cobra.Command, repositoryRootFlagValue string, baselineRefFlagValue string) error {
	logger := builder.LoggerProvider()

	repositoryRoot, rootResolutionError := resolveRepositoryRoot(repositoryRootFlagValue)
	if rootResolutionError != nil {
		return rootResolutionError
	}

	discoverer := workspace.NewFilesystemDiscoverer()
	client, clientError := newGitClient(logger, discoverer)
	if clientError != nil {
		return clientError
	}

	baselineRef, baselineError := builder.resolveBaselineRef(baselineRefFlagValue, repositoryRoot, discoverer, logger)
	if baselineError != nil {
		return baselineError
	}

	changedPackages, changedPackagesError := client.GetChangedPackagesSinceRef(command.Context(), git.ChangedPackagesOptions{
		RepositoryRoot: repositoryRoot,
		BaselineRef:    baselineRef,
	})
	if changedPackagesError != nil {
		return changedPackagesError
	}

	if len(changedPackages) == 0 {
		fmt.Fprintf(command.OutOrStdout(), statusNoChangesMessageConstant, baselineRef)
	}
	for _, changedPackage := range changedPackages {
		fmt.Fprintf(command.OutOrStdout(), statusChangedPackageLineConstant, changedPackage.PackageJSON.Name, changedPackage.PackageJSON.Version)
	}

	changesetFiles, changesetFilesError := client.GetChangedChangesetFilesSinceRef(command.Context(), git.ChangesetFilesOptions{
		RepositoryRoot: repositoryRoot,
		BaselineRef:    baselineRef,
	})
	if changesetFilesError != nil {
		return changesetFilesError
	}
	fmt.Fprintf(command.OutOrStdout(), statusChangesetFilesMessageConstant, len(changesetFiles), baselineRef)

	declaredChangesets, declarationsError := readChangesetDeclarations(repositoryRoot, changesetFiles)
	if declarationsError != nil {
		return declarationsError
	}
	for _, declaredChangeset := range declaredChangesets {
		fmt.Fprintf(command.OutOrStdout(), statusChangesetDeclarationLineConstant, declaredChangeset.fileName, formatDeclaredReleases(declaredChangeset.declaration))
	}

	return nil
}

// declaredChangeset pairs a changeset file with its parsed declaration.
type declaredChangeset struct {
	fileName    string
	declaration changeset.Changeset
}

// readChangesetDeclarations parses every discovered changeset file. Paths
// arrive relative to the repository root, as the VCS layer reports them.
func readChangesetDeclarations(repositoryRoot string, changesetFiles []string) ([]declaredChangeset, error) {
	declarations := make([]declaredChangeset, 0, len(changesetFiles))
	for _, changesetFile := range changesetFiles {
		documentContents, readError := os.ReadFile(filepath.Join(repositoryRoot, filepath.FromSlash(changesetFile)))
		if readError != nil {
			return nil, readError
		}

		parsedChangeset, parseError := changeset.Parse(string(documentContents))
		if parseError != nil {
			return nil, fmt.Errorf(changesetParseErrorTemplateConstant, changesetFile, parseError)
		}

		declarations = append(declarations, declaredChangeset{
			fileName:    filepath.Base(changesetFile),
			declaration: parsedChangeset,
		})
	}
	return declarations, nil
}

func formatDeclaredReleases(declaration changeset.Changeset) string {
	declaredBumps := make([]string, 0, len(declaration.Releases))
	for _, declaredRelease := range declaration.Releases {
		declaredBumps = append(declaredBumps, fmt.Sprintf(declaredReleaseTemplateConstant, declaredRelease.Name, declaredRelease.Type))
	}
	return strings.Join(declaredBumps, declaredReleaseSeparatorConstant)
}

// resolveBaselineRef prefers the --since flag, then the CLI configuration,
// then the base branch recorded in the repository's release configuration. A
// repository without a release configuration document falls back to the
// canonical defaults.
func (builder StatusCommandBuilder) resolveBaselineRef(baselineRefFlagValue string, repositoryRoot string, discoverer *workspace.FilesystemDiscoverer, logger *zap.Logger) (string, error) {
	if len(baselineRefFlagValue) > 0 {
		return baselineRefFlagValue, nil
	}
	if configuredBaseBranch := builder.ConfigurationProvider().BaseBranch; len(configuredBaseBranch) > 0 {
		return configuredBaseBranch, nil
	}

	packageSet, discoveryError := discoverer.DiscoverPackages(repositoryRoot)
	if discoveryError != nil {
		return "", discoveryError
	}

	warningSink := func(warningMessage string) {
		logger.Warn(releaseConfigurationWarningConstant, zap.String(logFieldWarningConstant, warningMessage))
	}

	releaseConfiguration, readError := config.Read(repositoryRoot, packageSet, warningSink)
	if readError != nil {
		if errors.Is(readError, os.ErrNotExist) {
			return config.Default().BaseBranch, nil
		}
		return "", readError
	}
	return releaseConfiguration.BaseBranch, nil
}

func resolveRepositoryRoot(repositoryRootFlagValue string) (string, error) {
	if len(repositoryRootFlagValue) > 0 {
		return repositoryRootFlagValue, nil
	}
	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return "", fmt.Errorf(repositoryRootResolutionErrorTemplateConstant, workingDirectoryError)
	}
	return workingDirectory, nil
}

func newGitClient(logger *zap.Logger, discoverer *workspace.FilesystemDiscoverer) (*git.Client, error) {
	executor, executorError := execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner())
	if executorError != nil {
		return nil, executorError
	}
	return git.NewClient(git.Dependencies{Executor: executor, Discoverer: discoverer})
}
