// Package pattern compiles match patterns and applies them to input lines.
//
// A pattern is either a literal substring or, when wrapped in slash
// delimiters (/.../), a regular expression with optional named capture
// groups. Compilation happens exactly once per invocation, before any input
// is read; the resulting CompiledPattern is immutable.
package pattern

import (
	"fmt"
	"regexp"
	"strings"
)

// Kind distinguishes literal substring patterns from regular expressions.
type Kind int

const (
	KindLiteral Kind = iota
	KindRegex
)

// String returns a short name for the pattern kind, used in logs and traces.
func (k Kind) String() string {
	if k == KindRegex {
		return "regex"
	}
	return "literal"
}

// CaseOverride is the tri-state case-sensitivity request from the caller.
// CaseDefault applies the per-kind default: insensitive for literal patterns,
// sensitive for regex patterns.
type CaseOverride int

const (
	CaseDefault CaseOverride = iota
	CaseSensitive
	CaseInsensitive
)

// ParseCaseOverride parses the external case flag values "sensitive" and
// "insensitive". An empty string selects the per-kind default.
func ParseCaseOverride(s string) (CaseOverride, error) {
	switch s {
	case "":
		return CaseDefault, nil
	case "sensitive":
		return CaseSensitive, nil
	case "insensitive":
		return CaseInsensitive, nil
	}
	return CaseDefault, fmt.Errorf("invalid case mode %q: must be 'sensitive' or 'insensitive'", s)
}

// PatternError reports a pattern that failed to compile, carrying the
// offending pattern text and the underlying syntax problem. Only regex
// patterns can fail to compile.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid regex pattern %q: %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error { return e.Err }

// CompiledPattern is the immutable result of compiling a match pattern.
// It is created once at startup and never mutated afterwards; Match is safe
// to call from any number of lines in sequence.
type CompiledPattern struct {
	kind          Kind
	caseSensitive bool
	// literal holds the (possibly case-folded) needle for literal patterns.
	literal string
	// re is the compiled expression for regex patterns.
	re *regexp.Regexp
	// groupNames lists the declared named capture groups in source order.
	groupNames []string
}

const (
	regexDelimiter = '/'
	// minRegexLength is the shortest possible delimited pattern, "/x/".
	minRegexLength = 3
)

// Compile detects the pattern kind from its surface syntax, resolves the
// case mode, and produces an executable matcher.
func Compile(raw string, override CaseOverride) (*CompiledPattern, error) {
	if isRegexPattern(raw) {
		return compileRegex(raw, override)
	}
	return compileLiteral(raw, override), nil
}

// isRegexPattern reports whether raw is wrapped in slash delimiters with no
// internal unescaped delimiter.
func isRegexPattern(raw string) bool {
	if len(raw) < minRegexLength || raw[0] != regexDelimiter || raw[len(raw)-1] != regexDelimiter {
		return false
	}
	inner := raw[1 : len(raw)-1]
	escaped := false
	for _, ch := range inner {
		if escaped {
			escaped = false
			continue
		}
		switch ch {
		case '\\':
			escaped = true
		case regexDelimiter:
			return false
		}
	}
	return true
}

func compileLiteral(raw string, override CaseOverride) *CompiledPattern {
	// Literal default is case-insensitive.
	sensitive := override == CaseSensitive
	needle := raw
	if !sensitive {
		needle = strings.ToLower(raw)
	}
	return &CompiledPattern{
		kind:          KindLiteral,
		caseSensitive: sensitive,
		literal:       needle,
	}
}

func compileRegex(raw string, override CaseOverride) (*CompiledPattern, error) {
	inner := raw[1 : len(raw)-1]
	expr := normalizeNamedGroups(inner)

	// Regex default is case-sensitive.
	sensitive := override != CaseInsensitive
	if !sensitive {
		expr = "(?i)" + expr
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, &PatternError{Pattern: raw, Err: err}
	}

	var names []string
	for i, name := range re.SubexpNames() {
		if i > 0 && name != "" {
			names = append(names, name)
		}
	}

	return &CompiledPattern{
		kind:          KindRegex,
		caseSensitive: sensitive,
		re:            re,
		groupNames:    names,
	}, nil
}

// normalizeNamedGroups rewrites the external named-group syntax (?<name>...)
// to Go's (?P<name>...). Lookbehind assertions (?<= and (?<! are left alone
// so the regexp engine reports them itself.
func normalizeNamedGroups(expr string) string {
	var b strings.Builder
	for i := 0; i < len(expr); i++ {
		if expr[i] == '\\' && i+1 < len(expr) {
			b.WriteByte(expr[i])
			b.WriteByte(expr[i+1])
			i++
			continue
		}
		if strings.HasPrefix(expr[i:], "(?<") && !strings.HasPrefix(expr[i:], "(?<=") && !strings.HasPrefix(expr[i:], "(?<!") {
			b.WriteString("(?P<")
			i += 2
			continue
		}
		b.WriteByte(expr[i])
	}
	return b.String()
}

// Kind returns the detected pattern kind.
func (p *CompiledPattern) Kind() Kind { return p.kind }

// CaseSensitive reports the resolved case mode.
func (p *CompiledPattern) CaseSensitive() bool { return p.caseSensitive }

// GroupNames returns the named capture groups declared by a regex pattern,
// in source order. Literal patterns have none.
func (p *CompiledPattern) GroupNames() []string { return p.groupNames }
