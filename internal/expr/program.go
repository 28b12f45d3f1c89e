// Package expr implements the where-clause expression language: a tokenizer,
// a precedence-climbing parser producing an immutable AST, and an evaluator
// interpreting that AST against one line's match context.
//
// The language is deliberately closed: the parser only admits a fixed
// vocabulary of properties, methods and functions, and the evaluator is an
// exhaustive switch over the AST variants. There is no dynamic code
// execution anywhere.
package expr

import (
	"fmt"

	"github.com/bsce/mgrep/internal/pattern"
)

// Program is a parsed where expression bound to its original source text.
// Programs are compiled once per invocation, before any input is read, and
// reused for every line.
type Program struct {
	Source string
	root   ASTNode
}

// Compile tokenizes and parses a where expression. Lex and parse failures
// are wrapped with the source text so the caller can report which clause
// was malformed.
func Compile(source string) (*Program, error) {
	tokenizer := NewTokenizer(source)
	tokens, err := tokenizer.TokenizeAll()
	if err != nil {
		return nil, fmt.Errorf("where clause %q: %w", source, err)
	}

	parser := NewParser(tokens)
	root, err := parser.Parse()
	if err != nil {
		return nil, fmt.Errorf("where clause %q: %w", source, err)
	}

	return &Program{Source: source, root: root}, nil
}

// Evaluate runs the program against one line's context.
func (p *Program) Evaluate(ctx pattern.MatchContext) (Value, error) {
	return Evaluate(p.root, ctx)
}

// EvaluateBool runs the program and requires a boolean result, the only
// result type a filter predicate may produce.
func (p *Program) EvaluateBool(ctx pattern.MatchContext) (bool, error) {
	value, err := p.Evaluate(ctx)
	if err != nil {
		return false, fmt.Errorf("where clause %q: %w", p.Source, err)
	}
	if value.Kind() != KindBool {
		return false, fmt.Errorf("where clause %q: %w", p.Source,
			typeError(errNonBooleanResult, fmt.Sprintf("expression produced %s %s", value.Kind(), value)))
	}
	return value.Bool(), nil
}
