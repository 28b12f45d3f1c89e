package pattern

import "strings"

// Match applies the compiled pattern to one line. It returns the evaluation
// context and true on a match, or a zero context and false otherwise.
//
// Literal patterns match by substring containment under the resolved case
// mode and always produce an empty capture set. Regex patterns use the first
// match found anywhere in the line; the capture set holds every named group
// that participated in that match.
//
// Match is a pure function: it keeps no state between invocations.
func (p *CompiledPattern) Match(line Line) (MatchContext, bool) {
	if p.kind == KindLiteral {
		content := line.Content
		if !p.caseSensitive {
			content = strings.ToLower(content)
		}
		if !strings.Contains(content, p.literal) {
			return MatchContext{}, false
		}
		return MatchContext{Line: line, Captures: CaptureSet{}}, true
	}

	idx := p.re.FindStringSubmatchIndex(line.Content)
	if idx == nil {
		return MatchContext{}, false
	}

	captures := CaptureSet{}
	for i, name := range p.re.SubexpNames() {
		if i == 0 || name == "" {
			continue
		}
		start, end := idx[2*i], idx[2*i+1]
		// Optional groups that did not participate stay absent.
		if start < 0 {
			continue
		}
		captures[name] = line.Content[start:end]
	}

	return MatchContext{Line: line, Captures: captures}, true
}
