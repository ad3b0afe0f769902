package workspace

import (
	"path/filepath"
	"strings"
)

const (
	parentDirectoryReferenceConstant  = ".."
	currentDirectoryReferenceConstant = "."
)

// Tool identifies the monorepo tooling flavor that manages a package set.
type Tool string

// Supported tooling flavors.
const (
	ToolRoot Tool = "root"
	ToolYarn Tool = "yarn"
	ToolNpm  Tool = "npm"
	ToolPnpm Tool = "pnpm"
)

// PackageJSON carries the manifest fields the release engine reads.
type PackageJSON struct {
	Name       string   `json:"name"`
	Version    string   `json:"version"`
	Private    bool     `json:"private,omitempty"`
	Workspaces []string `json:"workspaces,omitempty"`
}

// Package pairs an absolute package directory with its manifest.
type Package struct {
	Dir         string
	PackageJSON PackageJSON
}

// PackageSet is the ordered collection of packages discovered in a repository.
type PackageSet struct {
	Root     Package
	Packages []Package
	Tool     Tool
}

// PackageNames lists the manifest names of every package in the set.
func (packageSet PackageSet) PackageNames() []string {
	packageNames := make([]string, 0, len(packageSet.Packages))
	for _, workspacePackage := range packageSet.Packages {
		packageNames = append(packageNames, workspacePackage.PackageJSON.Name)
	}
	return packageNames
}

// ContainsName reports whether any package in the set carries the provided manifest name.
func (packageSet PackageSet) ContainsName(packageName string) bool {
	for _, workspacePackage := range packageSet.Packages {
		if workspacePackage.PackageJSON.Name == packageName {
			return true
		}
	}
	return false
}

// ContainsPath reports whether candidatePath sits inside the package directory.
// Containment is decided on directory boundaries so sibling directories with a
// shared name prefix never match each other.
func ContainsPath(packageDirectory string, candidatePath string) bool {
	relativePath, relativeError := filepath.Rel(packageDirectory, candidatePath)
	if relativeError != nil {
		return false
	}
	if relativePath == currentDirectoryReferenceConstant {
		return true
	}
	if relativePath == parentDirectoryReferenceConstant {
		return false
	}
	return !strings.HasPrefix(relativePath, parentDirectoryReferenceConstant+string(filepath.Separator))
}
