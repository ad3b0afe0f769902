// Package cli wires the changesets command-line application: the Cobra
// command hierarchy, configuration loading, and structured logging shared by
// every subcommand.
package cli
