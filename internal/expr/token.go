package expr

// TokenType represents the type of a token
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenIdentifier
	TokenString
	TokenNumber
	TokenOperator   // > < >= <= == !=
	TokenArithmetic // + - * / %
	TokenLogical    // and or
	TokenNot
	TokenLParen
	TokenRParen
	TokenComma
	TokenDot
)

// String returns a readable name for the token type, used in error messages.
func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "end of expression"
	case TokenIdentifier:
		return "identifier"
	case TokenString:
		return "string literal"
	case TokenNumber:
		return "number literal"
	case TokenOperator:
		return "comparison operator"
	case TokenArithmetic:
		return "arithmetic operator"
	case TokenLogical:
		return "logical operator"
	case TokenNot:
		return "'not'"
	case TokenLParen:
		return "'('"
	case TokenRParen:
		return "')'"
	case TokenComma:
		return "','"
	case TokenDot:
		return "'.'"
	}
	return "unknown token"
}

// Token represents a single token in a where expression. Pos is the byte
// offset of the token in the source string, carried for error reporting.
type Token struct {
	Type    TokenType
	Value   string
	Pos     int
	IsFloat bool // set on TokenNumber when the literal contains a decimal point
}
