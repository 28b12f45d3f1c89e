package pattern

import "unicode/utf8"

// Line represents a single record from the input source. Lines are immutable
// and carry their 1-indexed position in the source.
type Line struct {
	Number  int
	Content string
}

// Length returns the character (rune) count of the line content.
func (l Line) Length() int {
	return utf8.RuneCountInString(l.Content)
}

// CaptureSet maps named regex group identifiers to the text they captured for
// one line. Groups that did not participate in the match are absent, they are
// never recorded as empty strings. Literal patterns always produce an empty set.
type CaptureSet map[string]string

// MatchContext pairs a matched line with its captured groups. It is the
// evaluation context handed to where-clause programs and is immutable for the
// duration of one line's evaluation.
type MatchContext struct {
	Line     Line
	Captures CaptureSet
}
