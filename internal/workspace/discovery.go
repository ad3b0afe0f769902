package workspace

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	packageManifestFileNameConstant      = "package.json"
	pnpmWorkspaceFileNameConstant        = "pnpm-workspace.yaml"
	workspaceGlobSuffixConstant          = "/*"
	manifestReadErrorTemplateConstant    = "unable to read package manifest %s: %w"
	manifestDecodeErrorTemplateConstant  = "unable to decode package manifest %s: %w"
	rootPathResolveErrorTemplateConstant = "unable to resolve repository root %s: %w"
	workspaceGlobErrorTemplateConstant   = "unable to expand workspace pattern %s: %w"
)

// FilesystemDiscoverer locates workspace packages by reading manifests on disk.
type FilesystemDiscoverer struct{}

// NewFilesystemDiscoverer constructs a discoverer backed by the local filesystem.
func NewFilesystemDiscoverer() *FilesystemDiscoverer {
	return &FilesystemDiscoverer{}
}

// DiscoverPackages reads the root manifest and resolves its workspace globs
// into the full package set. Repositories without workspace declarations are
// treated as single-package roots.
func (discoverer *FilesystemDiscoverer) DiscoverPackages(repositoryRoot string) (PackageSet, error) {
	absoluteRoot, absoluteError := filepath.Abs(repositoryRoot)
	if absoluteError != nil {
		return PackageSet{}, fmt.Errorf(rootPathResolveErrorTemplateConstant, repositoryRoot, absoluteError)
	}

	rootManifest, rootManifestError := readPackageManifest(filepath.Join(absoluteRoot, packageManifestFileNameConstant))
	if rootManifestError != nil {
		return PackageSet{}, rootManifestError
	}

	rootPackage := Package{Dir: absoluteRoot, PackageJSON: rootManifest}
	packageSet := PackageSet{Root: rootPackage, Tool: detectTool(absoluteRoot, rootManifest)}

	if len(rootManifest.Workspaces) == 0 {
		packageSet.Packages = []Package{rootPackage}
		return packageSet, nil
	}

	memberDirectories, expansionError := expandWorkspacePatterns(absoluteRoot, rootManifest.Workspaces)
	if expansionError != nil {
		return PackageSet{}, expansionError
	}

	for _, memberDirectory := range memberDirectories {
		memberManifestPath := filepath.Join(memberDirectory, packageManifestFileNameConstant)
		if _, statError := os.Stat(memberManifestPath); statError != nil {
			continue
		}

		memberManifest, memberManifestError := readPackageManifest(memberManifestPath)
		if memberManifestError != nil {
			return PackageSet{}, memberManifestError
		}

		packageSet.Packages = append(packageSet.Packages, Package{Dir: memberDirectory, PackageJSON: memberManifest})
	}

	sort.Slice(packageSet.Packages, func(firstIndex int, secondIndex int) bool {
		return packageSet.Packages[firstIndex].Dir < packageSet.Packages[secondIndex].Dir
	})

	return packageSet, nil
}

func expandWorkspacePatterns(repositoryRoot string, workspacePatterns []string) ([]string, error) {
	seenDirectories := make(map[string]struct{})
	var memberDirectories []string

	for _, workspacePattern := range workspacePatterns {
		trimmedPattern := strings.TrimSpace(workspacePattern)
		if len(trimmedPattern) == 0 {
			continue
		}

		candidateDirectories, candidateError := resolveWorkspacePattern(repositoryRoot, trimmedPattern)
		if candidateError != nil {
			return nil, candidateError
		}

		for _, candidateDirectory := range candidateDirectories {
			if _, alreadySeen := seenDirectories[candidateDirectory]; alreadySeen {
				continue
			}
			seenDirectories[candidateDirectory] = struct{}{}
			memberDirectories = append(memberDirectories, candidateDirectory)
		}
	}

	return memberDirectories, nil
}

func resolveWorkspacePattern(repositoryRoot string, workspacePattern string) ([]string, error) {
	if !strings.HasSuffix(workspacePattern, workspaceGlobSuffixConstant) {
		return []string{filepath.Join(repositoryRoot, filepath.FromSlash(workspacePattern))}, nil
	}

	parentDirectory := filepath.Join(repositoryRoot, filepath.FromSlash(strings.TrimSuffix(workspacePattern, workspaceGlobSuffixConstant)))
	directoryEntries, readError := os.ReadDir(parentDirectory)
	if readError != nil {
		if os.IsNotExist(readError) {
			return nil, nil
		}
		return nil, fmt.Errorf(workspaceGlobErrorTemplateConstant, workspacePattern, readError)
	}

	var candidateDirectories []string
	for _, directoryEntry := range directoryEntries {
		if !directoryEntry.IsDir() {
			continue
		}
		candidateDirectories = append(candidateDirectories, filepath.Join(parentDirectory, directoryEntry.Name()))
	}

	return candidateDirectories, nil
}

func readPackageManifest(manifestPath string) (PackageJSON, error) {
	manifestContents, readError := os.ReadFile(manifestPath)
	if readError != nil {
		return PackageJSON{}, fmt.Errorf(manifestReadErrorTemplateConstant, manifestPath, readError)
	}

	var manifest PackageJSON
	if decodeError := json.Unmarshal(manifestContents, &manifest); decodeError != nil {
		return PackageJSON{}, fmt.Errorf(manifestDecodeErrorTemplateConstant, manifestPath, decodeError)
	}

	return manifest, nil
}

func detectTool(repositoryRoot string, rootManifest PackageJSON) Tool {
	if _, statError := os.Stat(filepath.Join(repositoryRoot, pnpmWorkspaceFileNameConstant)); statError == nil {
		return ToolPnpm
	}
	if len(rootManifest.Workspaces) > 0 {
		return ToolYarn
	}
	return ToolRoot
}
