// Package git answers the version-control queries the release engine needs:
// where the working tree diverged from a baseline ref, which files and
// packages changed since then, which commits introduced a set of files, and
// the staging, commit, and tag primitives used when persisting a release.
package git
