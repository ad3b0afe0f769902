package git

import (
	"context"

	"github.com/RoystonS/changesets/internal/workspace"
)

// ChangedPackagesOptions configures GetChangedPackagesSinceRef queries.
type ChangedPackagesOptions struct {
	RepositoryRoot string
	BaselineRef    string
}

// GetChangedPackagesSinceRef resolves the packages owning the files changed
// since the baseline ref. A file under several nested package directories is
// attributed to the innermost one; each package appears at most once.
func (client *Client) GetChangedPackagesSinceRef(executionContext context.Context, options ChangedPackagesOptions) ([]workspace.Package, error) {
	if client.discoverer == nil {
		return nil, ErrDiscovererNotConfigured
	}

	packageSet, discoveryError := client.discoverer.DiscoverPackages(options.RepositoryRoot)
	if discoveryError != nil {
		return nil, discoveryError
	}

	changedFiles, changedFilesError := client.GetChangedFilesSince(executionContext, ChangedFilesOptions{
		RepositoryRoot: options.RepositoryRoot,
		BaselineRef:    options.BaselineRef,
		FullPath:       true,
	})
	if changedFilesError != nil {
		return nil, changedFilesError
	}

	seenDirectories := make(map[string]struct{})
	var changedPackages []workspace.Package

	for _, changedFile := range changedFiles {
		owningPackage, packageFound := attributeFileToPackage(packageSet.Packages, changedFile)
		if !packageFound {
			continue
		}
		if _, alreadySeen := seenDirectories[owningPackage.Dir]; alreadySeen {
			continue
		}
		seenDirectories[owningPackage.Dir] = struct{}{}
		changedPackages = append(changedPackages, owningPackage)
	}

	return changedPackages, nil
}

// attributeFileToPackage picks the package whose directory contains the file,
// preferring the longest directory path when package directories nest.
func attributeFileToPackage(candidatePackages []workspace.Package, changedFile string) (workspace.Package, bool) {
	var owningPackage workspace.Package
	packageFound := false

	for _, candidatePackage := range candidatePackages {
		if !workspace.ContainsPath(candidatePackage.Dir, changedFile) {
			continue
		}
		if !packageFound || len(candidatePackage.Dir) > len(owningPackage.Dir) {
			owningPackage = candidatePackage
			packageFound = true
		}
	}

	return owningPackage, packageFound
}
