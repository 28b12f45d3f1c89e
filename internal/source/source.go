// Package source acquires input lines for the filter pipeline.
//
// Input is a lazy, unbounded, non-restartable sequence of lines: a named
// file or a pipe of unknown length (as with tail -f). The scanner holds one
// line at a time; nothing already consumed is retained.
package source

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/bsce/mgrep/internal/pattern"
)

// maxLineSize bounds a single input line at 4 MiB. Lines beyond that fail
// the scan instead of growing the buffer without limit.
const maxLineSize = 4 * 1024 * 1024

// Scanner produces numbered Lines from a reader, one at a time.
type Scanner struct {
	name string
	sc   *bufio.Scanner
	n    int
}

// NewScanner wraps a reader. name identifies the source in error messages
// ("stdin" or the file path).
func NewScanner(name string, r io.Reader) *Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineSize)
	return &Scanner{name: name, sc: sc}
}

// Next returns the next line, or false when the input is exhausted or
// reading failed. After false, Err distinguishes the two.
func (s *Scanner) Next() (pattern.Line, bool) {
	if !s.sc.Scan() {
		return pattern.Line{}, false
	}
	s.n++
	return pattern.Line{Number: s.n, Content: s.sc.Text()}, true
}

// Err returns the first reading error encountered, wrapped with the source
// name. A clean end of input returns nil.
func (s *Scanner) Err() error {
	if err := s.sc.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", s.name, err)
	}
	return nil
}

// Name returns the source identifier.
func (s *Scanner) Name() string { return s.name }

// Open opens a named input file for reading.
func Open(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input: %w", err)
	}
	return f, nil
}

// IsPipe reports whether f is receiving piped or redirected data rather
// than being attached to an interactive terminal.
func IsPipe(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice == 0
}
