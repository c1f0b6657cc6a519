// Package errs carries the error sentinels shared across the compiler.
package errs

import "github.com/cockroachdb/errors"

// ErrFileSystem marks I/O and permission failures on the files the compiler
// reads and writes.
var ErrFileSystem = errors.New("filesystem error")

// FileSystemf wraps err with a message and marks it as a filesystem failure.
func FileSystemf(err error, format string, args ...interface{}) error {
	return errors.Mark(errors.Wrapf(err, format, args...), ErrFileSystem)
}

// IsFileSystem reports whether err is marked as a filesystem failure.
func IsFileSystem(err error) bool {
	return errors.Is(err, ErrFileSystem)
}
