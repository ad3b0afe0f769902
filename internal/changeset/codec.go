package changeset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	frontmatterFenceConstant         = "---"
	markdownFileExtensionConstant    = ".md"
	changesetFilePermissionsConstant = 0o644

	frontmatterDecodeMessageTemplateConstant = "failed to decode changeset frontmatter: %v"
	releaseLineTemplateConstant              = "%q: %s\n"
)

// Codec sentinels.
var (
	ErrMissingFrontmatter = errors.New("changeset file is missing its frontmatter fences")
)

// Parse decodes a changeset document. The frontmatter between the leading
// and trailing fences maps package names to bump types; everything after the
// trailing fence is the summary. Release order follows document order.
func Parse(documentContents string) (Changeset, error) {
	frontmatterText, summaryText, splitError := splitFrontmatter(documentContents)
	if splitError != nil {
		return Changeset{}, splitError
	}

	declaredReleases, decodeError := decodeReleases(frontmatterText)
	if decodeError != nil {
		return Changeset{}, decodeError
	}

	parsedChangeset := Changeset{
		Summary:  strings.TrimSpace(summaryText),
		Releases: declaredReleases,
	}
	if validationError := parsedChangeset.Validate(); validationError != nil {
		return Changeset{}, validationError
	}
	return parsedChangeset, nil
}

// Write renders the changeset back into the on-disk format and stores it as
// <changesetDirectory>/<changesetID>.md, returning the written path.
func Write(changesetDirectory string, changesetID string, changesetValue Changeset) (string, error) {
	if validationError := changesetValue.Validate(); validationError != nil {
		return "", validationError
	}

	var documentBuilder strings.Builder
	documentBuilder.WriteString(frontmatterFenceConstant + "\n")
	for _, declaredRelease := range changesetValue.Releases {
		documentBuilder.WriteString(fmt.Sprintf(releaseLineTemplateConstant, declaredRelease.Name, declaredRelease.Type))
	}
	documentBuilder.WriteString(frontmatterFenceConstant + "\n\n")
	documentBuilder.WriteString(strings.TrimSpace(changesetValue.Summary) + "\n")

	changesetPath := filepath.Join(changesetDirectory, changesetID+markdownFileExtensionConstant)
	if writeError := os.WriteFile(changesetPath, []byte(documentBuilder.String()), changesetFilePermissionsConstant); writeError != nil {
		return "", writeError
	}
	return changesetPath, nil
}

func splitFrontmatter(documentContents string) (string, string, error) {
	remainingContents, leadingFenceFound := strings.CutPrefix(documentContents, frontmatterFenceConstant+"\n")
	if !leadingFenceFound {
		return "", "", ErrMissingFrontmatter
	}

	// An empty frontmatter block closes immediately with no newline before
	// the trailing fence.
	if emptySummary, fenceAdjacent := strings.CutPrefix(remainingContents, frontmatterFenceConstant); fenceAdjacent {
		return "", emptySummary, nil
	}

	frontmatterText, summaryText, trailingFenceFound := strings.Cut(remainingContents, "\n"+frontmatterFenceConstant)
	if !trailingFenceFound {
		return "", "", ErrMissingFrontmatter
	}
	return frontmatterText, summaryText, nil
}

// decodeReleases walks the YAML mapping node directly so releases keep the
// order the author wrote them in.
func decodeReleases(frontmatterText string) ([]Release, error) {
	var frontmatterDocument yaml.Node
	if decodeError := yaml.Unmarshal([]byte(frontmatterText), &frontmatterDocument); decodeError != nil {
		return nil, fmt.Errorf(frontmatterDecodeMessageTemplateConstant, decodeError)
	}
	if len(frontmatterDocument.Content) == 0 {
		return nil, nil
	}

	mappingNode := frontmatterDocument.Content[0]
	if mappingNode.Kind != yaml.MappingNode {
		return nil, fmt.Errorf(frontmatterDecodeMessageTemplateConstant, fmt.Errorf("expected a package-to-bump mapping"))
	}

	declaredReleases := make([]Release, 0, len(mappingNode.Content)/2)
	for pairIndex := 0; pairIndex+1 < len(mappingNode.Content); pairIndex += 2 {
		packageNameNode := mappingNode.Content[pairIndex]
		bumpTypeNode := mappingNode.Content[pairIndex+1]
		declaredReleases = append(declaredReleases, Release{
			Name: packageNameNode.Value,
			Type: BumpType(bumpTypeNode.Value),
		})
	}
	return declaredReleases, nil
}
