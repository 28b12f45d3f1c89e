package expr

import (
	"errors"
	"strings"
	"testing"
)

func parseExpression(t *testing.T, input string) (ASTNode, error) {
	t.Helper()
	tokens, err := NewTokenizer(input).TokenizeAll()
	if err != nil {
		t.Fatalf("tokenize %q: %v", input, err)
	}
	return NewParser(tokens).Parse()
}

func mustParse(t *testing.T, input string) ASTNode {
	t.Helper()
	node, err := parseExpression(t, input)
	if err != nil {
		t.Fatalf("parse %q: %v", input, err)
	}
	return node
}

func TestParserValidExpressions(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"Property comparison", "line.number > 100"},
		{"Length property", "line.length <= 80"},
		{"Content property", `line.content == "exact"`},
		{"Line method", `line.contains("ERROR")`},
		{"Starts with", `line.startswith("2026-")`},
		{"Ends with", `line.endswith("ms")`},
		{"Group call", `group("code") >= 500`},
		{"Group method", `group("path").startswith("/api")`},
		{"Modulo", "line.number % 2 == 0"},
		{"Division", "line.length / 2 > 40.5"},
		{"Arithmetic chain", "line.number + 1 * 2 - 3 < 100"},
		{"Logical chain", `line.contains("a") and line.contains("b") or not line.contains("c")`},
		{"Nested parens", `((line.number > 1) and (line.length > 2))`},
		{"String comparison", `group("level") != "DEBUG"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mustParse(t, tt.input)
		})
	}
}

func TestParserPrecedence(t *testing.T) {
	// Multiplication binds tighter than addition, which binds tighter than
	// comparison: 1 + 2 * 3 == 7 must parse as (1 + (2 * 3)) == 7.
	node := mustParse(t, "1 + 2 * 3 == 7")

	cmp, ok := node.(*ComparisonExpr)
	if !ok {
		t.Fatalf("expected ComparisonExpr at root, got %T", node)
	}
	add, ok := cmp.Left.(*BinaryExpr)
	if !ok || add.Operator != "+" {
		t.Fatalf("expected '+' on the left of the comparison, got %T", cmp.Left)
	}
	mul, ok := add.Right.(*BinaryExpr)
	if !ok || mul.Operator != "*" {
		t.Fatalf("expected '*' as the right operand of '+', got %T", add.Right)
	}
}

func TestParserLogicalPrecedence(t *testing.T) {
	// and binds tighter than or: a or b and c is a or (b and c).
	node := mustParse(t, `line.contains("a") or line.contains("b") and line.contains("c")`)

	or, ok := node.(*BinaryExpr)
	if !ok || or.Operator != "or" {
		t.Fatalf("expected 'or' at root, got %T", node)
	}
	and, ok := or.Right.(*BinaryExpr)
	if !ok || and.Operator != "and" {
		t.Fatalf("expected 'and' on the right of 'or', got %T", or.Right)
	}
}

func TestParserNotIsRightAssociative(t *testing.T) {
	node := mustParse(t, `not not line.contains("x")`)

	outer, ok := node.(*UnaryExpr)
	if !ok {
		t.Fatalf("expected UnaryExpr at root, got %T", node)
	}
	if _, ok := outer.Operand.(*UnaryExpr); !ok {
		t.Fatalf("expected nested UnaryExpr, got %T", outer.Operand)
	}
}

func TestParserNumberLiterals(t *testing.T) {
	node := mustParse(t, "42 == 42")
	cmp := node.(*ComparisonExpr)
	lit := cmp.Left.(*LiteralExpr)
	if lit.Value.Kind() != KindInt || lit.Value.Int() != 42 {
		t.Errorf("expected integer 42, got %v", lit.Value)
	}

	node = mustParse(t, "1.5 == 1.5")
	cmp = node.(*ComparisonExpr)
	lit = cmp.Left.(*LiteralExpr)
	if lit.Value.Kind() != KindFloat || lit.Value.Float() != 1.5 {
		t.Errorf("expected float 1.5, got %v", lit.Value)
	}

	// Integer literals beyond int64 fall back to float.
	node = mustParse(t, "99999999999999999999 > 0")
	cmp = node.(*ComparisonExpr)
	lit = cmp.Left.(*LiteralExpr)
	if lit.Value.Kind() != KindFloat {
		t.Errorf("expected float fallback for oversized integer, got %v", lit.Value.Kind())
	}
}

func TestParserErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Chained comparison", "1 < 2 < 3", "at most one comparison operator"},
		{"Unknown property", "line.width > 10", "'number', 'length', 'content'"},
		{"Unknown method", `line.matches("x")`, "'contains', 'startswith', 'endswith'"},
		{"Unknown group method", `group("a").size("x")`, "'contains', 'startswith', 'endswith'"},
		{"Unknown receiver", "price > 5", "'line' or 'group'"},
		{"Group without string arg", "group(5) == 1", "string argument for group()"},
		{"Group with two args", `group("a", "b") == 1`, "exactly one argument for group()"},
		{"Method with two args", `line.contains("a", "b")`, "exactly one argument for contains()"},
		{"Unmatched paren", "(line.number > 1", "')'"},
		{"Trailing tokens", "line.number > 1)", "end of expression"},
		{"Leading minus", "-5 > 0", "expression"},
		{"Empty input", "", "expression"},
		{"Boolean literal is not in the grammar", "true", "'line' or 'group'"},
		{"Bare line", "line > 5", "'.'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseExpression(t, tt.input)
			if err == nil {
				t.Fatal("expected a parse error")
			}
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected *ParseError, got %T: %v", err, err)
			}
			if !strings.Contains(parseErr.Expected, tt.expected) {
				t.Errorf("expected error mentioning %q, got %q", tt.expected, parseErr.Error())
			}
		})
	}
}
