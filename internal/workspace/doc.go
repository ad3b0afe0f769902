// Package workspace models the packages of a multi-package repository and
// discovers them from manifest files on disk.
package workspace
