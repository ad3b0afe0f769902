// Package config parses and validates the release configuration document
// governing changelog generation, publish access, release commits, and
// linked package groups. The written document is untrusted, hand-edited
// input; parsing collects every problem before failing so a user sees the
// full list in one run.
package config
