// Package changeset reads and writes the human-authored changeset files
// that declare intended version bumps. A changeset file is a markdown
// document whose YAML frontmatter maps package names to bump types and
// whose body is the changelog summary.
package changeset
