package config

import (
	"fmt"
	"sync"

	"github.com/RoystonS/changesets/internal/workspace"
)

const (
	defaultChangelogGeneratorModuleConstant = "@changesets/cli/changelog"
	defaultChangelogFilenameConstant        = "CHANGELOG.md"
	defaultAccessConstant                   = AccessRestricted
	defaultCommitConstant                   = false
	defaultBaseBranchConstant               = "master"

	defaultConfigFailureMessageTemplateConstant = "default configuration failed to parse: %v"
)

// DefaultWrittenConfig returns the canonical written defaults applied when a
// repository carries no configuration document.
func DefaultWrittenConfig() WrittenConfig {
	return WrittenConfig{
		Changelog: ModulePathWrittenChangelog(defaultChangelogGeneratorModuleConstant),
		Linked:    [][]string{},
	}
}

func defaultChangelogConfig() *ChangelogConfig {
	return &ChangelogConfig{
		Generator:      ChangelogGenerator{ModulePath: defaultChangelogGeneratorModuleConstant},
		Filename:       defaultChangelogFilenameConstant,
		GlobalFilename: defaultChangelogFilenameConstant,
	}
}

var loadDefaultConfig = sync.OnceValue(func() Config {
	defaultConfig, parseError := Parse(DefaultWrittenConfig(), workspace.PackageSet{}, nil)
	if parseError != nil {
		panic(fmt.Sprintf(defaultConfigFailureMessageTemplateConstant, parseError))
	}
	return defaultConfig
})

// Default returns the process-wide normalized default configuration. The
// underlying value is computed once; callers receive defensive copies so no
// caller can mutate the shared defaults.
func Default() Config {
	defaultConfig := loadDefaultConfig()
	defaultConfig.Linked = copyLinkedGroups(defaultConfig.Linked)
	if defaultConfig.Changelog != nil {
		changelogCopy := *defaultConfig.Changelog
		defaultConfig.Changelog = &changelogCopy
	}
	return defaultConfig
}
