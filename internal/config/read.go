package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/RoystonS/changesets/internal/workspace"
)

const (
	changesetDirectoryNameConstant = ".changeset"
	configFileNameConstant         = "config.json"

	readFailureMessageTemplateConstant = "failed to read release configuration at %s: %v"
)

// ReadError reports a missing, unreadable, or undecodable configuration
// document. Read failures are distinct from validation failures; a document
// that cannot be loaded never reaches validation.
type ReadError struct {
	Path  string
	Cause error
}

// Error describes the read failure.
func (readError ReadError) Error() string {
	return fmt.Sprintf(readFailureMessageTemplateConstant, readError.Path, readError.Cause)
}

// Unwrap exposes the underlying I/O or decode error.
func (readError ReadError) Unwrap() error {
	return readError.Cause
}

// ConfigPath resolves the fixed location of the configuration document
// inside a repository.
func ConfigPath(repositoryRoot string) string {
	return filepath.Join(repositoryRoot, changesetDirectoryNameConstant, configFileNameConstant)
}

// Read loads the configuration document from its fixed location under the
// repository root and delegates to Parse.
func Read(repositoryRoot string, packageSet workspace.PackageSet, warningSink WarningSink) (Config, error) {
	configurationPath := ConfigPath(repositoryRoot)

	documentContents, readError := os.ReadFile(configurationPath)
	if readError != nil {
		return Config{}, ReadError{Path: configurationPath, Cause: readError}
	}

	var writtenConfig WrittenConfig
	if decodeError := json.Unmarshal(documentContents, &writtenConfig); decodeError != nil {
		return Config{}, ReadError{Path: configurationPath, Cause: decodeError}
	}

	return Parse(writtenConfig, packageSet, warningSink)
}
