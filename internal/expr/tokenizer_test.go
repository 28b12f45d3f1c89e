package expr

import (
	"errors"
	"testing"
)

func TestTokenizer(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []TokenType
	}{
		{
			name:  "Simple comparison",
			input: "line.number > 100",
			expected: []TokenType{
				TokenIdentifier,
				TokenDot,
				TokenIdentifier,
				TokenOperator,
				TokenNumber,
				TokenEOF,
			},
		},
		{
			name:  "With parentheses",
			input: "(line.length >= 80)",
			expected: []TokenType{
				TokenLParen,
				TokenIdentifier,
				TokenDot,
				TokenIdentifier,
				TokenOperator,
				TokenNumber,
				TokenRParen,
				TokenEOF,
			},
		},
		{
			name:  "Logical AND",
			input: `line.number > 10 and group("code") == "500"`,
			expected: []TokenType{
				TokenIdentifier,
				TokenDot,
				TokenIdentifier,
				TokenOperator,
				TokenNumber,
				TokenLogical,
				TokenIdentifier,
				TokenLParen,
				TokenString,
				TokenRParen,
				TokenOperator,
				TokenString,
				TokenEOF,
			},
		},
		{
			name:  "NOT operator",
			input: `not line.contains("debug")`,
			expected: []TokenType{
				TokenNot,
				TokenIdentifier,
				TokenDot,
				TokenIdentifier,
				TokenLParen,
				TokenString,
				TokenRParen,
				TokenEOF,
			},
		},
		{
			name:  "Arithmetic expression",
			input: "line.number % 2",
			expected: []TokenType{
				TokenIdentifier,
				TokenDot,
				TokenIdentifier,
				TokenArithmetic,
				TokenNumber,
				TokenEOF,
			},
		},
		{
			name:  "All comparison operators",
			input: "1 > 2 < 3 >= 4 <= 5 == 6 != 7",
			expected: []TokenType{
				TokenNumber, TokenOperator,
				TokenNumber, TokenOperator,
				TokenNumber, TokenOperator,
				TokenNumber, TokenOperator,
				TokenNumber, TokenOperator,
				TokenNumber, TokenOperator,
				TokenNumber,
				TokenEOF,
			},
		},
		{
			name:  "Empty input",
			input: "",
			expected: []TokenType{
				TokenEOF,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokenizer := NewTokenizer(tt.input)
			tokens, err := tokenizer.TokenizeAll()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(tokens) != len(tt.expected) {
				t.Fatalf("expected %d tokens, got %d", len(tt.expected), len(tokens))
			}
			for i, token := range tokens {
				if token.Type != tt.expected[i] {
					t.Errorf("token %d: expected %v, got %v (%q)", i, tt.expected[i], token.Type, token.Value)
				}
			}
		})
	}
}

func TestTokenizerNumberLiterals(t *testing.T) {
	tests := []struct {
		input   string
		value   string
		isFloat bool
	}{
		{"42", "42", false},
		{"0", "0", false},
		{"3.14", "3.14", true},
		{"100.0", "100.0", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokenizer := NewTokenizer(tt.input)
			token, err := tokenizer.NextToken()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if token.Type != TokenNumber {
				t.Fatalf("expected number token, got %v", token.Type)
			}
			if token.Value != tt.value {
				t.Errorf("expected value %q, got %q", tt.value, token.Value)
			}
			if token.IsFloat != tt.isFloat {
				t.Errorf("expected IsFloat=%v, got %v", tt.isFloat, token.IsFloat)
			}
		})
	}
}

func TestTokenizerStringLiterals(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Plain", `"hello"`, "hello"},
		{"Empty", `""`, ""},
		{"Escaped quote", `"say \"hi\""`, `say "hi"`},
		{"Escaped backslash", `"a\\b"`, `a\b`},
		{"Multibyte characters", `"größe 中文"`, "größe 中文"},
		{"Single quotes are not delimiters inside", `"it's fine"`, "it's fine"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokenizer := NewTokenizer(tt.input)
			token, err := tokenizer.NextToken()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if token.Type != TokenString {
				t.Fatalf("expected string token, got %v", token.Type)
			}
			if token.Value != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, token.Value)
			}
		})
	}
}

func TestTokenizerErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		pos   int
	}{
		{"Bare equals", "line.number = 5", 12},
		{"Bare bang", "! true", 0},
		{"Unterminated string", `line.contains("oops`, 14},
		{"Unexpected character", "line.number > #", 14},
		{"Single-quoted string", "'text'", 0},
		{"Non-ASCII identifier start", "λ > 5", 0},
		{"Non-ASCII inside identifier", "liné > 5", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokenizer := NewTokenizer(tt.input)
			_, err := tokenizer.TokenizeAll()
			if err == nil {
				t.Fatal("expected a lex error")
			}
			var lexErr *LexError
			if !errors.As(err, &lexErr) {
				t.Fatalf("expected *LexError, got %T: %v", err, err)
			}
			if lexErr.Pos != tt.pos {
				t.Errorf("expected error at position %d, got %d", tt.pos, lexErr.Pos)
			}
		})
	}
}

func TestTokenizerReportsFullRuneOnError(t *testing.T) {
	// Multibyte characters outside string literals are rejected, and the
	// error carries the decoded character rather than its lead byte.
	_, err := NewTokenizer("λ > 5").TokenizeAll()
	if err == nil {
		t.Fatal("expected a lex error")
	}
	var lexErr *LexError
	if !errors.As(err, &lexErr) {
		t.Fatalf("expected *LexError, got %T: %v", err, err)
	}
	if lexErr.Char != 'λ' {
		t.Errorf("expected the decoded rune %q in the error, got %q", 'λ', lexErr.Char)
	}
	if lexErr.Pos != 0 {
		t.Errorf("expected position 0, got %d", lexErr.Pos)
	}
}
