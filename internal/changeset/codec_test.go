package changeset_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/RoystonS/changesets/internal/changeset"
)

const codecTestDocumentConstant = `---
"pkg-a": minor
pkg-b: patch
---

Add retry support to the request client.
`

func TestParseDecodesReleasesInDocumentOrder(testInstance *testing.T) {
	parsedChangeset, parseError := changeset.Parse(codecTestDocumentConstant)

	require.NoError(testInstance, parseError)
	require.Equal(testInstance, "Add retry support to the request client.", parsedChangeset.Summary)
	require.Equal(testInstance, []changeset.Release{
		{Name: "pkg-a", Type: changeset.BumpTypeMinor},
		{Name: "pkg-b", Type: changeset.BumpTypePatch},
	}, parsedChangeset.Releases)
}

func TestParseRejectsInvalidDocuments(testInstance *testing.T) {
	testCases := []struct {
		name             string
		documentContents string
		expectedError    error
	}{
		{
			name:             "missing_leading_fence",
			documentContents: "pkg-a: minor\n---\nSummary.\n",
			expectedError:    changeset.ErrMissingFrontmatter,
		},
		{
			name:             "missing_trailing_fence",
			documentContents: "---\npkg-a: minor\nSummary.\n",
			expectedError:    changeset.ErrMissingFrontmatter,
		},
		{
			name:             "empty_frontmatter",
			documentContents: "---\n---\nSummary.\n",
			expectedError:    changeset.ErrNoReleases,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			_, parseError := changeset.Parse(testCase.documentContents)
			require.ErrorIs(testInstance, parseError, testCase.expectedError)
		})
	}
}

func TestParseRejectsUnknownBumpType(testInstance *testing.T) {
	_, parseError := changeset.Parse("---\npkg-a: gigantic\n---\nSummary.\n")

	bumpTypeError := changeset.InvalidBumpTypeError{}
	require.ErrorAs(testInstance, parseError, &bumpTypeError)
	require.Equal(testInstance, "pkg-a", bumpTypeError.PackageName)
	require.Equal(testInstance, "gigantic", bumpTypeError.BumpType)
	require.Contains(testInstance, parseError.Error(), "gigantic")
}

func TestWriteThenParseRoundTrips(testInstance *testing.T) {
	changesetDirectory := testInstance.TempDir()
	authoredChangeset := changeset.Changeset{
		Summary: "Rework the divergence lookup error message.",
		Releases: []changeset.Release{
			{Name: "pkg-a", Type: changeset.BumpTypeMajor},
			{Name: "pkg-b", Type: changeset.BumpTypePatch},
		},
	}

	writtenPath, writeError := changeset.Write(changesetDirectory, "calm-pandas-sit", authoredChangeset)
	require.NoError(testInstance, writeError)
	require.FileExists(testInstance, writtenPath)

	writtenContents, readError := os.ReadFile(writtenPath)
	require.NoError(testInstance, readError)

	parsedChangeset, parseError := changeset.Parse(string(writtenContents))
	require.NoError(testInstance, parseError)
	require.Equal(testInstance, authoredChangeset, parsedChangeset)
}

func TestWriteRejectsEmptyReleaseList(testInstance *testing.T) {
	_, writeError := changeset.Write(testInstance.TempDir(), "empty-change", changeset.Changeset{Summary: "Nothing."})

	require.ErrorIs(testInstance, writeError, changeset.ErrNoReleases)
}
