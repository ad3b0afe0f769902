package config_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/RoystonS/changesets/internal/config"
	"github.com/RoystonS/changesets/internal/workspace"
)

const (
	parseTestGeneratorModuleConstant  = "@changesets/cli/changelog"
	parseTestCustomGeneratorConstant  = "my-scope/changelog-generator"
	parseTestFirstPackageNameConstant = "pkg-a"
	parseTestOtherPackageNameConstant = "pkg-b"
)

func parseTestPackageSet() workspace.PackageSet {
	return workspace.PackageSet{
		Packages: []workspace.Package{
			{Dir: "/workspace/project/packages/pkg-a", PackageJSON: workspace.PackageJSON{Name: parseTestFirstPackageNameConstant, Version: "1.0.0"}},
			{Dir: "/workspace/project/packages/pkg-b", PackageJSON: workspace.PackageJSON{Name: parseTestOtherPackageNameConstant, Version: "2.0.0"}},
		},
		Tool: workspace.ToolYarn,
	}
}

func stringPointer(value string) *string {
	return &value
}

func booleanPointer(value bool) *bool {
	return &value
}

func decodeWrittenConfig(testInstance *testing.T, documentJSON string) config.WrittenConfig {
	testInstance.Helper()
	var writtenConfig config.WrittenConfig
	require.NoError(testInstance, json.Unmarshal([]byte(documentJSON), &writtenConfig))
	return writtenConfig
}

func TestParseAppliesDefaultsForEmptyDocument(testInstance *testing.T) {
	parsedConfig, parseError := config.Parse(config.WrittenConfig{}, parseTestPackageSet(), nil)

	require.NoError(testInstance, parseError)
	require.Equal(testInstance, config.AccessRestricted, parsedConfig.Access)
	require.False(testInstance, parsedConfig.Commit)
	require.Equal(testInstance, "master", parsedConfig.BaseBranch)
	require.Empty(testInstance, parsedConfig.Linked)
	require.NotNil(testInstance, parsedConfig.Changelog)
	require.Equal(testInstance, parseTestGeneratorModuleConstant, parsedConfig.Changelog.Generator.ModulePath)
	require.Equal(testInstance, "CHANGELOG.md", parsedConfig.Changelog.Filename)
	require.Equal(testInstance, "CHANGELOG.md", parsedConfig.Changelog.GlobalFilename)
}

func TestParseNormalizesChangelogVariants(testInstance *testing.T) {
	generatorOptions := map[string]any{"repo": "RoystonS/changesets"}

	testCases := []struct {
		name              string
		writtenChangelog  config.WrittenChangelog
		expectDisabled    bool
		expectedGenerator string
		expectedOptions   any
		expectedFilename  string
	}{
		{
			name:             "disabled",
			writtenChangelog: config.DisabledWrittenChangelog(),
			expectDisabled:   true,
		},
		{
			name:              "module_path",
			writtenChangelog:  config.ModulePathWrittenChangelog(parseTestCustomGeneratorConstant),
			expectedGenerator: parseTestCustomGeneratorConstant,
			expectedFilename:  "CHANGELOG.md",
		},
		{
			name:              "module_with_options",
			writtenChangelog:  config.ModuleWithOptionsWrittenChangelog(parseTestCustomGeneratorConstant, generatorOptions),
			expectedGenerator: parseTestCustomGeneratorConstant,
			expectedOptions:   generatorOptions,
			expectedFilename:  "CHANGELOG.md",
		},
		{
			name:              "object_with_filenames",
			writtenChangelog:  config.ObjectWrittenChangelog(parseTestCustomGeneratorConstant, nil, "HISTORY.md", "RELEASES.md"),
			expectedGenerator: parseTestCustomGeneratorConstant,
			expectedFilename:  "HISTORY.md",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			parsedConfig, parseError := config.Parse(config.WrittenConfig{Changelog: testCase.writtenChangelog}, parseTestPackageSet(), nil)
			require.NoError(testInstance, parseError)

			if testCase.expectDisabled {
				require.Nil(testInstance, parsedConfig.Changelog)
				return
			}
			require.NotNil(testInstance, parsedConfig.Changelog)
			require.Equal(testInstance, testCase.expectedGenerator, parsedConfig.Changelog.Generator.ModulePath)
			require.Equal(testInstance, testCase.expectedOptions, parsedConfig.Changelog.Generator.Options)
			require.Equal(testInstance, testCase.expectedFilename, parsedConfig.Changelog.Filename)
		})
	}
}

func TestParseNormalizesDeprecatedPrivateAccessWithWarning(testInstance *testing.T) {
	var capturedWarnings []string
	warningSink := func(warningMessage string) {
		capturedWarnings = append(capturedWarnings, warningMessage)
	}

	parsedConfig, parseError := config.Parse(config.WrittenConfig{Access: stringPointer("private")}, parseTestPackageSet(), warningSink)

	require.NoError(testInstance, parseError)
	require.Equal(testInstance, config.AccessRestricted, parsedConfig.Access)
	require.Len(testInstance, capturedWarnings, 1)
	require.Contains(testInstance, capturedWarnings[0], "private")
}

func TestParseRejectsUnknownAccessValue(testInstance *testing.T) {
	_, parseError := config.Parse(config.WrittenConfig{Access: stringPointer("internal")}, parseTestPackageSet(), nil)

	validationError := config.ValidationError{}
	require.ErrorAs(testInstance, parseError, &validationError)
	require.Len(testInstance, validationError.Problems, 1)
	require.Contains(testInstance, validationError.Problems[0], "internal")
}

func TestParseRejectsLinkedNameMissingFromPackageSet(testInstance *testing.T) {
	writtenConfig := config.WrittenConfig{Linked: [][]string{{"missing-pkg"}}}

	_, parseError := config.Parse(writtenConfig, parseTestPackageSet(), nil)

	validationError := config.ValidationError{}
	require.ErrorAs(testInstance, parseError, &validationError)
	require.Len(testInstance, validationError.Problems, 1)
	require.Contains(testInstance, validationError.Problems[0], "missing-pkg")
}

func TestParseRejectsLinkedNameInMultipleGroups(testInstance *testing.T) {
	testCases := []struct {
		name         string
		linkedGroups [][]string
	}{
		{name: "repeated_within_group", linkedGroups: [][]string{{parseTestFirstPackageNameConstant, parseTestFirstPackageNameConstant}}},
		{name: "repeated_across_groups", linkedGroups: [][]string{{parseTestFirstPackageNameConstant}, {parseTestFirstPackageNameConstant, parseTestOtherPackageNameConstant}}},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			_, parseError := config.Parse(config.WrittenConfig{Linked: testCase.linkedGroups}, parseTestPackageSet(), nil)

			validationError := config.ValidationError{}
			require.ErrorAs(testInstance, parseError, &validationError)
			require.Len(testInstance, validationError.Problems, 1)
			require.Contains(testInstance, validationError.Problems[0], parseTestFirstPackageNameConstant)
		})
	}
}

func TestParseCollectsEveryValidationProblem(testInstance *testing.T) {
	writtenConfig := decodeWrittenConfig(testInstance, `{
		"changelog": true,
		"access": "internal",
		"linked": [["missing-pkg"]]
	}`)

	_, parseError := config.Parse(writtenConfig, parseTestPackageSet(), nil)

	validationError := config.ValidationError{}
	require.ErrorAs(testInstance, parseError, &validationError)
	require.Len(testInstance, validationError.Problems, 3)
	require.Contains(testInstance, parseError.Error(), "changelog")
	require.Contains(testInstance, parseError.Error(), "internal")
	require.Contains(testInstance, parseError.Error(), "missing-pkg")
}

func TestParseCollectsMistypedFieldProblems(testInstance *testing.T) {
	testCases := []struct {
		name            string
		documentJSON    string
		expectedMention string
	}{
		{name: "commit_as_string", documentJSON: `{"commit": "always"}`, expectedMention: "commit"},
		{name: "base_branch_as_number", documentJSON: `{"baseBranch": 5}`, expectedMention: "baseBranch"},
		{name: "access_as_boolean", documentJSON: `{"access": true}`, expectedMention: "access"},
		{name: "linked_as_flat_array", documentJSON: `{"linked": ["pkg-a"]}`, expectedMention: "linked"},
		{name: "linked_with_non_string_names", documentJSON: `{"linked": [[1, 2]]}`, expectedMention: "linked"},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			writtenConfig := decodeWrittenConfig(testInstance, testCase.documentJSON)

			_, parseError := config.Parse(writtenConfig, parseTestPackageSet(), nil)

			validationError := config.ValidationError{}
			require.ErrorAs(testInstance, parseError, &validationError)
			require.Len(testInstance, validationError.Problems, 1)
			require.Contains(testInstance, validationError.Problems[0], testCase.expectedMention)
		})
	}
}

func TestParseReportsMistypedFieldAlongsideOtherProblems(testInstance *testing.T) {
	writtenConfig := decodeWrittenConfig(testInstance, `{
		"commit": "always",
		"linked": [["missing-pkg"]]
	}`)

	_, parseError := config.Parse(writtenConfig, parseTestPackageSet(), nil)

	validationError := config.ValidationError{}
	require.ErrorAs(testInstance, parseError, &validationError)
	require.Len(testInstance, validationError.Problems, 2)
	require.Contains(testInstance, parseError.Error(), "commit")
	require.Contains(testInstance, parseError.Error(), "missing-pkg")
}

func TestParseHonorsCommitAndBaseBranchOverrides(testInstance *testing.T) {
	writtenConfig := config.WrittenConfig{
		Commit:     booleanPointer(true),
		BaseBranch: stringPointer("main"),
		Linked:     [][]string{{parseTestFirstPackageNameConstant, parseTestOtherPackageNameConstant}},
	}

	parsedConfig, parseError := config.Parse(writtenConfig, parseTestPackageSet(), nil)

	require.NoError(testInstance, parseError)
	require.True(testInstance, parsedConfig.Commit)
	require.Equal(testInstance, "main", parsedConfig.BaseBranch)
	require.Equal(testInstance, [][]string{{parseTestFirstPackageNameConstant, parseTestOtherPackageNameConstant}}, parsedConfig.Linked)
}

func TestParseOfWrittenDefaultsMatchesDefault(testInstance *testing.T) {
	parsedConfig, parseError := config.Parse(config.DefaultWrittenConfig(), parseTestPackageSet(), nil)

	require.NoError(testInstance, parseError)
	require.Equal(testInstance, config.Default(), parsedConfig)
}

func TestDefaultReturnsDefensiveCopies(testInstance *testing.T) {
	firstDefault := config.Default()
	firstDefault.Linked = append(firstDefault.Linked, []string{"mutated"})
	firstDefault.Changelog.Filename = "MUTATED.md"

	secondDefault := config.Default()

	require.Empty(testInstance, secondDefault.Linked)
	require.Equal(testInstance, "CHANGELOG.md", secondDefault.Changelog.Filename)
}
