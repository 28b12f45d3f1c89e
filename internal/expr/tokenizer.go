package expr

import (
	"strings"
	"unicode/utf8"
)

// Tokenizer tokenizes where expressions
type Tokenizer struct {
	input string
	pos   int
	ch    rune
}

// NewTokenizer creates a new tokenizer
func NewTokenizer(input string) *Tokenizer {
	t := &Tokenizer{
		input: input,
		pos:   0,
	}
	if len(input) > 0 {
		t.ch = rune(input[0])
	}
	return t
}

// advance moves to the next character
func (t *Tokenizer) advance() {
	t.pos++
	if t.pos >= len(t.input) {
		t.ch = 0 // EOF
	} else {
		t.ch = rune(t.input[t.pos])
	}
}

// peek looks ahead without advancing
func (t *Tokenizer) peek() rune {
	if t.pos+1 >= len(t.input) {
		return 0
	}
	return rune(t.input[t.pos+1])
}

// skipWhitespace skips whitespace characters
func (t *Tokenizer) skipWhitespace() {
	for t.ch == ' ' || t.ch == '\t' || t.ch == '\n' || t.ch == '\r' {
		t.advance()
	}
}

// Identifiers and numbers are ASCII only. Anything beyond ASCII outside a
// string literal is rejected by NextToken as an unexpected character.
func isLetter(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

// readString reads a double-quoted string literal. The opening quote has
// already been seen. Returns the unescaped value, or an error when the
// closing quote is missing.
func (t *Tokenizer) readString(pos int) (string, error) {
	t.advance() // skip opening quote

	// The input is walked byte-wise, so bytes are copied verbatim to keep
	// multi-byte characters intact.
	var result strings.Builder
	for t.ch != 0 && t.ch != '"' {
		if t.ch == '\\' && (t.peek() == '"' || t.peek() == '\\') {
			t.advance()
		}
		result.WriteByte(byte(t.ch))
		t.advance()
	}

	if t.ch != '"' {
		return "", &LexError{Pos: pos, Char: '"', Msg: "unterminated string literal"}
	}
	t.advance() // skip closing quote

	return result.String(), nil
}

// readNumber reads a numeric literal. Integer unless it contains a decimal
// point, in which case it is a float.
func (t *Tokenizer) readNumber() (string, bool) {
	var result strings.Builder
	isFloat := false

	for isDigit(t.ch) {
		result.WriteRune(t.ch)
		t.advance()
	}

	if t.ch == '.' && isDigit(t.peek()) {
		isFloat = true
		result.WriteRune(t.ch)
		t.advance()
		for isDigit(t.ch) {
			result.WriteRune(t.ch)
			t.advance()
		}
	}

	return result.String(), isFloat
}

// readIdentifier reads an identifier or keyword
func (t *Tokenizer) readIdentifier() string {
	var result strings.Builder

	for isLetter(t.ch) || isDigit(t.ch) || t.ch == '_' {
		result.WriteRune(t.ch)
		t.advance()
	}

	return result.String()
}

// NextToken returns the next token
func (t *Tokenizer) NextToken() (Token, error) {
	t.skipWhitespace()

	if t.ch == 0 {
		return Token{Type: TokenEOF, Pos: t.pos}, nil
	}

	pos := t.pos

	if t.ch == '"' {
		value, err := t.readString(pos)
		if err != nil {
			return Token{}, err
		}
		return Token{Type: TokenString, Value: value, Pos: pos}, nil
	}

	if isDigit(t.ch) {
		value, isFloat := t.readNumber()
		return Token{Type: TokenNumber, Value: value, Pos: pos, IsFloat: isFloat}, nil
	}

	if token, ok := t.tokenizeSpecialChar(pos); ok {
		return token, nil
	}

	if token, err, ok := t.tokenizeOperator(pos); ok {
		return token, err
	}

	if isLetter(t.ch) {
		value := t.readIdentifier()
		return classifyIdentifier(value, pos), nil
	}

	// The walk is byte-wise; decode the full rune here so the error names
	// the offending character, not its lead byte.
	ch := t.ch
	if ch >= utf8.RuneSelf {
		ch, _ = utf8.DecodeRuneInString(t.input[pos:])
	}
	return Token{}, &LexError{Pos: pos, Char: ch, Msg: "unexpected character"}
}

// tokenizeSpecialChar tokenizes punctuation and arithmetic operators
func (t *Tokenizer) tokenizeSpecialChar(pos int) (Token, bool) {
	switch t.ch {
	case '(':
		t.advance()
		return Token{Type: TokenLParen, Value: "(", Pos: pos}, true
	case ')':
		t.advance()
		return Token{Type: TokenRParen, Value: ")", Pos: pos}, true
	case ',':
		t.advance()
		return Token{Type: TokenComma, Value: ",", Pos: pos}, true
	case '.':
		t.advance()
		return Token{Type: TokenDot, Value: ".", Pos: pos}, true
	case '+', '-', '*', '/', '%':
		op := string(t.ch)
		t.advance()
		return Token{Type: TokenArithmetic, Value: op, Pos: pos}, true
	}
	return Token{}, false
}

// tokenizeOperator tokenizes comparison operators. Two-character operators
// are matched greedily before their single-character prefixes; a bare '=' or
// '!' is a lex error.
func (t *Tokenizer) tokenizeOperator(pos int) (Token, error, bool) {
	switch t.ch {
	case '>', '<':
		op := string(t.ch)
		if t.peek() == '=' {
			op += "="
			t.advance()
		}
		t.advance()
		return Token{Type: TokenOperator, Value: op, Pos: pos}, nil, true
	case '=', '!':
		ch := t.ch
		if t.peek() == '=' {
			op := string(ch) + "="
			t.advance()
			t.advance()
			return Token{Type: TokenOperator, Value: op, Pos: pos}, nil, true
		}
		return Token{}, &LexError{Pos: pos, Char: ch, Msg: "unexpected character"}, true
	}
	return Token{}, nil, false
}

// classifyIdentifier classifies keywords, leaving everything else as a
// plain identifier.
func classifyIdentifier(value string, pos int) Token {
	switch value {
	case "and", "or":
		return Token{Type: TokenLogical, Value: value, Pos: pos}
	case "not":
		return Token{Type: TokenNot, Value: value, Pos: pos}
	}
	return Token{Type: TokenIdentifier, Value: value, Pos: pos}
}

// TokenizeAll returns all tokens from the input
func (t *Tokenizer) TokenizeAll() ([]Token, error) {
	var tokens []Token

	for {
		token, err := t.NextToken()
		if err != nil {
			return nil, err
		}

		tokens = append(tokens, token)

		if token.Type == TokenEOF {
			break
		}
	}

	return tokens, nil
}
