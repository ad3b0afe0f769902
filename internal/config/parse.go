package config

import (
	"fmt"
	"strings"

	"github.com/RoystonS/changesets/internal/workspace"
)

const (
	deprecatedPrivateAccessConstant = "private"

	invalidChangelogMessageTemplateConstant       = "changelog must be false, a module path string, a [modulePath, options] pair, or an object with a generator field, got %s"
	invalidAccessMessageTemplateConstant          = "access must be %q or %q, got %q"
	linkedPackageNotFoundMessageTemplateConstant  = "linked package %q does not match any package in the workspace"
	linkedPackageDuplicateMessageTemplateConstant = "linked package %q appears in more than one linked group"
	privateAccessWarningMessageConstant           = "access \"private\" is deprecated; publishing as \"restricted\" instead"
	validationFailureMessagePrefixConstant        = "invalid release configuration:\n"
)

// ValidationError reports every structural and semantic problem found in a
// written configuration document, one message per line. A document with any
// problem is rejected whole; there is no partial acceptance.
type ValidationError struct {
	Problems []string
}

// Error describes the validation failure.
func (validationError ValidationError) Error() string {
	return validationFailureMessagePrefixConstant + strings.Join(validationError.Problems, "\n")
}

// WarningSink receives non-fatal normalization warnings. A nil sink
// discards them.
type WarningSink func(warningMessage string)

// Parse validates a written configuration against the package set and
// normalizes it. All validation problems are collected before failing so a
// user sees every message in one run. The deprecated access value
// "private" normalizes to "restricted" with a warning rather than an error.
func Parse(writtenConfig WrittenConfig, packageSet workspace.PackageSet, warningSink WarningSink) (Config, error) {
	var validationProblems []string
	validationProblems = append(validationProblems, writtenConfig.fieldProblems...)

	changelogConfig, changelogProblem := normalizeChangelog(writtenConfig.Changelog)
	if len(changelogProblem) > 0 {
		validationProblems = append(validationProblems, changelogProblem)
	}

	accessValue, accessProblem := normalizeAccess(writtenConfig.Access, warningSink)
	if len(accessProblem) > 0 {
		validationProblems = append(validationProblems, accessProblem)
	}

	validationProblems = append(validationProblems, validateLinkedGroups(writtenConfig.Linked, packageSet)...)

	if len(validationProblems) > 0 {
		return Config{}, ValidationError{Problems: validationProblems}
	}

	normalizedConfig := Config{
		Changelog:  changelogConfig,
		Access:     accessValue,
		Commit:     defaultCommitConstant,
		Linked:     copyLinkedGroups(writtenConfig.Linked),
		BaseBranch: defaultBaseBranchConstant,
	}
	if writtenConfig.Commit != nil {
		normalizedConfig.Commit = *writtenConfig.Commit
	}
	if writtenConfig.BaseBranch != nil {
		normalizedConfig.BaseBranch = *writtenConfig.BaseBranch
	}

	return normalizedConfig, nil
}

// normalizeChangelog maps every accepted written variant onto either nil
// (disabled) or the full generator-plus-filenames shape.
func normalizeChangelog(writtenChangelog WrittenChangelog) (*ChangelogConfig, string) {
	switch writtenChangelog.kind {
	case changelogVariantUnset:
		return defaultChangelogConfig(), ""
	case changelogVariantDisabled:
		return nil, ""
	case changelogVariantModulePath, changelogVariantModuleWithOptions, changelogVariantObject:
		changelogConfig := &ChangelogConfig{
			Generator: ChangelogGenerator{
				ModulePath: writtenChangelog.modulePath,
				Options:    writtenChangelog.options,
			},
			Filename:       writtenChangelog.filename,
			GlobalFilename: writtenChangelog.globalFilename,
		}
		if len(changelogConfig.Filename) == 0 {
			changelogConfig.Filename = defaultChangelogFilenameConstant
		}
		if len(changelogConfig.GlobalFilename) == 0 {
			changelogConfig.GlobalFilename = defaultChangelogFilenameConstant
		}
		return changelogConfig, ""
	default:
		return nil, fmt.Sprintf(invalidChangelogMessageTemplateConstant, writtenChangelog.rawText)
	}
}

func normalizeAccess(writtenAccess *string, warningSink WarningSink) (string, string) {
	if writtenAccess == nil {
		return defaultAccessConstant, ""
	}

	switch *writtenAccess {
	case AccessPublic, AccessRestricted:
		return *writtenAccess, ""
	case deprecatedPrivateAccessConstant:
		if warningSink != nil {
			warningSink(privateAccessWarningMessageConstant)
		}
		return AccessRestricted, ""
	default:
		return "", fmt.Sprintf(invalidAccessMessageTemplateConstant, AccessPublic, AccessRestricted, *writtenAccess)
	}
}

// validateLinkedGroups checks every linked name against the package set and
// reports names that appear in more than one group. Duplicate messages are
// emitted once per offending name.
func validateLinkedGroups(linkedGroups [][]string, packageSet workspace.PackageSet) []string {
	var validationProblems []string
	groupIndexByName := make(map[string]int)
	duplicateReported := make(map[string]bool)

	for groupIndex, linkedGroup := range linkedGroups {
		for _, linkedName := range linkedGroup {
			if !packageSet.ContainsName(linkedName) {
				validationProblems = append(validationProblems, fmt.Sprintf(linkedPackageNotFoundMessageTemplateConstant, linkedName))
			}

			previousGroupIndex, nameSeen := groupIndexByName[linkedName]
			if !nameSeen {
				groupIndexByName[linkedName] = groupIndex
				continue
			}
			if previousGroupIndex != groupIndex || isNameRepeatedInGroup(linkedGroup, linkedName) {
				if !duplicateReported[linkedName] {
					duplicateReported[linkedName] = true
					validationProblems = append(validationProblems, fmt.Sprintf(linkedPackageDuplicateMessageTemplateConstant, linkedName))
				}
			}
		}
	}

	return validationProblems
}

func isNameRepeatedInGroup(linkedGroup []string, linkedName string) bool {
	occurrenceCount := 0
	for _, candidateName := range linkedGroup {
		if candidateName == linkedName {
			occurrenceCount++
		}
	}
	return occurrenceCount > 1
}

func copyLinkedGroups(linkedGroups [][]string) [][]string {
	copiedGroups := make([][]string, 0, len(linkedGroups))
	for _, linkedGroup := range linkedGroups {
		copiedGroups = append(copiedGroups, append([]string{}, linkedGroup...))
	}
	return copiedGroups
}
