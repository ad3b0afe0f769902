package changeset

import (
	"errors"
	"fmt"
)

// BumpType is the semantic-version increment a release declares.
type BumpType string

// Supported bump types.
const (
	BumpTypeMajor BumpType = "major"
	BumpTypeMinor BumpType = "minor"
	BumpTypePatch BumpType = "patch"
)

const (
	invalidBumpTypeMessageTemplateConstant = "package %q declares unknown bump type %q; expected major, minor, or patch"
)

// Validation sentinels.
var (
	ErrNoReleases = errors.New("changeset declares no releases")
)

// InvalidBumpTypeError reports a release whose bump type is not one of the
// supported values.
type InvalidBumpTypeError struct {
	PackageName string
	BumpType    string
}

// Error describes the invalid bump type.
func (invalidBumpTypeError InvalidBumpTypeError) Error() string {
	return fmt.Sprintf(invalidBumpTypeMessageTemplateConstant, invalidBumpTypeError.PackageName, invalidBumpTypeError.BumpType)
}

// Release declares one package's intended bump.
type Release struct {
	Name string
	Type BumpType
}

// Changeset pairs a set of declared releases with the changelog summary an
// author wrote for them. Releases keep the order they appear in the file.
type Changeset struct {
	Summary  string
	Releases []Release
}

// Validate checks that the changeset declares at least one release and that
// every declared bump type is supported.
func (changesetValue Changeset) Validate() error {
	if len(changesetValue.Releases) == 0 {
		return ErrNoReleases
	}
	for _, declaredRelease := range changesetValue.Releases {
		switch declaredRelease.Type {
		case BumpTypeMajor, BumpTypeMinor, BumpTypePatch:
		default:
			return InvalidBumpTypeError{PackageName: declaredRelease.Name, BumpType: string(declaredRelease.Type)}
		}
	}
	return nil
}
