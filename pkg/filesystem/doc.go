// Package filesystem provides the filesystem abstraction leakrules reads
// local sources through and writes the rule set artifact to.
//
// NewOS is backed by the real filesystem; NewAferoFS wraps any afero.Fs
// and is what tests use with an in-memory filesystem.
package filesystem
