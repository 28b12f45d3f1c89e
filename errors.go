package mgrep

import (
	"errors"
	"io/fs"
	"os"
	"syscall"
)

// Sentinel errors for common failure conditions.
// These can be used with errors.Is() for error handling.
var (
	// ErrNoInput indicates that neither a file path nor piped stdin was
	// available as an input source. This is a usage error.
	ErrNoInput = errors.New("mgrep: no input source: provide a file path or pipe input via stdin")

	// ErrMissingPattern indicates that no match pattern was supplied.
	// This is a usage error.
	ErrMissingPattern = errors.New("mgrep: a match pattern is required")
)

// IsUsageError reports whether err represents a misuse of the command-line
// contract rather than a runtime failure.
func IsUsageError(err error) bool {
	return errors.Is(err, ErrNoInput) || errors.Is(err, ErrMissingPattern)
}

// isBrokenPipe reports whether a write failed because the downstream
// consumer closed its end (e.g. piping into head). The pipeline treats this
// as a clean stop, not a failure.
func isBrokenPipe(err error) bool {
	return errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, os.ErrClosed) ||
		errors.Is(err, fs.ErrClosed)
}
