package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/RoystonS/changesets/internal/workspace"
)

const (
	tagCommandUseConstant   = "tag"
	tagCommandShortConstant = "Create annotated release tags for every package"
	tagCommandLongConstant  = "tag discovers the monorepo packages and creates an annotated name@version tag for each, skipping tags git refuses to create (for example tags that already exist)."

	packageTagTemplateConstant     = "%s@%s"
	tagCreatedMessageConstant      = "New tag: %s\n"
	tagSkippedMessageConstant      = "Skipping tag (already exists): %s\n"
	tagCreatedLogMessageConstant   = "created release tag"
	tagSkippedLogMessageConstant   = "release tag not created"
	logFieldTagNameConstant        = "tag_name"
	logFieldPackageNameConstant    = "package_name"
	logFieldPackageVersionConstant = "package_version"
)

// TagCommandBuilder assembles the tag command from its providers.
type TagCommandBuilder struct {
	LoggerProvider func() *zap.Logger
}

// Build constructs the Cobra command.
func (builder TagCommandBuilder) Build() (*cobra.Command, error) {
	if builder.LoggerProvider == nil {
		return nil, ErrLoggerProviderNotConfigured
	}

	var repositoryRootFlagValue string

	tagCommand := &cobra.Command{
		Use:   tagCommandUseConstant,
		Short: tagCommandShortConstant,
		Long:  tagCommandLongConstant,
		RunE: func(command *cobra.Command, arguments []string) error {
			return builder.run(command, repositoryRootFlagValue)
		},
	}

	tagCommand.Flags().StringVar(&repositoryRootFlagValue, rootFlagNameConstant, "", rootFlagUsageConstant)

	return tagCommand, nil
}

func (builder TagCommandBuilder) run(command *cobra.Command, repositoryRootFlagValue string) error {
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

	packageSet, discoveryError := discoverer.DiscoverPackages(repositoryRoot)
	if discoveryError != nil {
		return discoveryError
	}

	for _, workspacePackage := range packageSet.Packages {
		tagName := fmt.Sprintf(packageTagTemplateConstant, workspacePackage.PackageJSON.Name, workspacePackage.PackageJSON.Version)

		tagCreated, tagError := client.Tag(command.Context(), repositoryRoot, tagName)
		if tagError != nil {
			return tagError
		}

		if tagCreated {
			logger.Info(
				tagCreatedLogMessageConstant,
				zap.String(logFieldTagNameConstant, tagName),
				zap.String(logFieldPackageNameConstant, workspacePackage.PackageJSON.Name),
				zap.String(logFieldPackageVersionConstant, workspacePackage.PackageJSON.Version),
			)
			fmt.Fprintf(command.OutOrStdout(), tagCreatedMessageConstant, tagName)
			continue
		}

		logger.Debug(tagSkippedLogMessageConstant, zap.String(logFieldTagNameConstant, tagName))
		fmt.Fprintf(command.OutOrStdout(), tagSkippedMessageConstant, tagName)
	}

	return nil
}
