package expr

import (
	"fmt"
	"strconv"
)

// lineProperties are the only properties the grammar permits on the line
// receiver.
var lineProperties = map[string]bool{
	"number":  true,
	"length":  true,
	"content": true,
}

// textMethods are the string predicates callable on line or on group(...).
// Each takes exactly one text argument and returns a boolean.
var textMethods = map[string]bool{
	"contains":   true,
	"startswith": true,
	"endswith":   true,
}

// Parser parses where expressions into an AST using precedence climbing.
// Precedence, lowest to highest: or < and < not < comparison < additive <
// multiplicative < primary. Comparisons are non-chaining.
type Parser struct {
	tokens  []Token
	current int
}

// NewParser creates a new parser
func NewParser(tokens []Token) *Parser {
	return &Parser{
		tokens:  tokens,
		current: 0,
	}
}

// currentToken returns the current token
func (p *Parser) currentToken() Token {
	if p.current >= len(p.tokens) {
		return Token{Type: TokenEOF}
	}
	return p.tokens[p.current]
}

// advance moves to the next token
func (p *Parser) advance() Token {
	token := p.currentToken()
	if p.current < len(p.tokens)-1 {
		p.current++
	}
	return token
}

// expect checks that the current token matches the expected type and advances
func (p *Parser) expect(tokenType TokenType) (Token, error) {
	token := p.currentToken()
	if token.Type != tokenType {
		return Token{}, &ParseError{
			Pos:      token.Pos,
			Expected: tokenType.String(),
			Found:    describeToken(token),
		}
	}
	p.advance()
	return token, nil
}

// describeToken renders a token for error messages.
func describeToken(t Token) string {
	if t.Type == TokenEOF {
		return t.Type.String()
	}
	return fmt.Sprintf("%s %q", t.Type, t.Value)
}

// Parse parses the tokens into an AST
func (p *Parser) Parse() (ASTNode, error) {
	node, err := p.parseOr()
	if err != nil {
		return nil, err
	}

	// Verify all tokens were consumed (except EOF)
	if tok := p.currentToken(); tok.Type != TokenEOF {
		return nil, &ParseError{
			Pos:      tok.Pos,
			Expected: "end of expression",
			Found:    describeToken(tok),
		}
	}

	return node, nil
}

// parseOr handles or expressions (lowest precedence)
func (p *Parser) parseOr() (ASTNode, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	for p.currentToken().Type == TokenLogical && p.currentToken().Value == "or" {
		op := p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{
			Left:     left,
			Operator: op.Value,
			Right:    right,
		}
	}

	return left, nil
}

// parseAnd handles and expressions
func (p *Parser) parseAnd() (ASTNode, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}

	for p.currentToken().Type == TokenLogical && p.currentToken().Value == "and" {
		op := p.advance()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{
			Left:     left,
			Operator: op.Value,
			Right:    right,
		}
	}

	return left, nil
}

// parseNot handles prefix not expressions
func (p *Parser) parseNot() (ASTNode, error) {
	if p.currentToken().Type == TokenNot {
		op := p.advance()
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{
			Operator: op.Value,
			Operand:  operand,
		}, nil
	}

	return p.parseComparison()
}

// parseComparison handles comparison expressions. At most one comparison
// operator is accepted at this level: a < b < c is a parse error, not a
// chained comparison.
func (p *Parser) parseComparison() (ASTNode, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}

	if p.currentToken().Type != TokenOperator {
		return left, nil
	}

	op := p.advance()
	right, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}

	if tok := p.currentToken(); tok.Type == TokenOperator {
		return nil, &ParseError{
			Pos:      tok.Pos,
			Expected: "at most one comparison operator",
			Found:    describeToken(tok),
		}
	}

	return &ComparisonExpr{
		Left:     left,
		Operator: op.Value,
		Right:    right,
	}, nil
}

// parseAdditive handles addition and subtraction
func (p *Parser) parseAdditive() (ASTNode, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}

	for p.currentToken().Type == TokenArithmetic &&
		(p.currentToken().Value == "+" || p.currentToken().Value == "-") {
		op := p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{
			Left:     left,
			Operator: op.Value,
			Right:    right,
		}
	}

	return left, nil
}

// parseMultiplicative handles multiplication, division, and modulo
func (p *Parser) parseMultiplicative() (ASTNode, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for p.currentToken().Type == TokenArithmetic &&
		(p.currentToken().Value == "*" || p.currentToken().Value == "/" ||
			p.currentToken().Value == "%") {
		op := p.advance()
		right, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{
			Left:     left,
			Operator: op.Value,
			Right:    right,
		}
	}

	return left, nil
}

// parsePrimary handles primary expressions: literals, line member access,
// group calls, and parenthesized groups.
func (p *Parser) parsePrimary() (ASTNode, error) {
	token := p.currentToken()

	switch token.Type {
	case TokenLParen:
		return p.parseParenExpression()
	case TokenNumber:
		p.advance()
		return parseNumberLiteral(token)
	case TokenString:
		p.advance()
		return &LiteralExpr{Value: TextValue(token.Value)}, nil
	case TokenIdentifier:
		return p.parseReceiver(token)
	}

	return nil, &ParseError{
		Pos:      token.Pos,
		Expected: "expression",
		Found:    describeToken(token),
	}
}

// parseParenExpression parses a parenthesized sub-expression
func (p *Parser) parseParenExpression() (ASTNode, error) {
	p.advance() // consume '('
	inner, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenRParen); err != nil {
		return nil, err
	}
	return &ParenExpr{Expr: inner}, nil
}

// parseNumberLiteral parses a number literal into an integer or float value
func parseNumberLiteral(token Token) (ASTNode, error) {
	if !token.IsFloat {
		if intVal, err := strconv.ParseInt(token.Value, 10, 64); err == nil {
			return &LiteralExpr{Value: IntValue(intVal)}, nil
		}
		// Out of int64 range, fall through to float.
	}
	floatVal, err := strconv.ParseFloat(token.Value, 64)
	if err != nil {
		return nil, &ParseError{
			Pos:      token.Pos,
			Expected: "number literal",
			Found:    fmt.Sprintf("%q", token.Value),
		}
	}
	return &LiteralExpr{Value: FloatValue(floatVal)}, nil
}

// parseReceiver parses the two admissible identifier forms: line member
// access and the group(...) function call.
func (p *Parser) parseReceiver(token Token) (ASTNode, error) {
	switch token.Value {
	case "line":
		p.advance()
		return p.parseLineMember()
	case "group":
		p.advance()
		return p.parseGroupCall()
	}

	return nil, &ParseError{
		Pos:      token.Pos,
		Expected: "'line' or 'group'",
		Found:    fmt.Sprintf("identifier %q", token.Value),
	}
}

// parseLineMember parses line.<property> or line.<method>("arg")
func (p *Parser) parseLineMember() (ASTNode, error) {
	if _, err := p.expect(TokenDot); err != nil {
		return nil, err
	}
	member, err := p.expect(TokenIdentifier)
	if err != nil {
		return nil, err
	}

	if p.currentToken().Type == TokenLParen {
		if !textMethods[member.Value] {
			return nil, &ParseError{
				Pos:      member.Pos,
				Expected: "one of 'contains', 'startswith', 'endswith'",
				Found:    fmt.Sprintf("method %q", member.Value),
			}
		}
		arg, err := p.parseSingleStringArg(member.Value)
		if err != nil {
			return nil, err
		}
		return &MethodCallExpr{
			Receiver: &IdentifierExpr{Name: "line"},
			Method:   member.Value,
			Arg:      arg,
		}, nil
	}

	if !lineProperties[member.Value] {
		return nil, &ParseError{
			Pos:      member.Pos,
			Expected: "one of 'number', 'length', 'content'",
			Found:    fmt.Sprintf("property %q", member.Value),
		}
	}
	return &PropertyExpr{Receiver: "line", Name: member.Value}, nil
}

// parseGroupCall parses group("name") with an optional trailing method call
func (p *Parser) parseGroupCall() (ASTNode, error) {
	name, err := p.parseSingleStringArg("group")
	if err != nil {
		return nil, err
	}

	call := &FunctionCallExpr{
		Function: "group",
		Args:     []ASTNode{name},
	}
	if p.currentToken().Type != TokenDot {
		return call, nil
	}

	p.advance() // consume '.'
	method, err := p.expect(TokenIdentifier)
	if err != nil {
		return nil, err
	}
	if !textMethods[method.Value] {
		return nil, &ParseError{
			Pos:      method.Pos,
			Expected: "one of 'contains', 'startswith', 'endswith'",
			Found:    fmt.Sprintf("method %q", method.Value),
		}
	}
	arg, err := p.parseSingleStringArg(method.Value)
	if err != nil {
		return nil, err
	}
	return &MethodCallExpr{
		Receiver: call,
		Method:   method.Value,
		Arg:      arg,
	}, nil
}

// parseSingleStringArg parses ("literal"), the only call shape the grammar
// admits: every call takes exactly one string-literal argument.
func (p *Parser) parseSingleStringArg(callee string) (ASTNode, error) {
	if _, err := p.expect(TokenLParen); err != nil {
		return nil, err
	}

	arg := p.currentToken()
	if arg.Type != TokenString {
		return nil, &ParseError{
			Pos:      arg.Pos,
			Expected: fmt.Sprintf("string argument for %s()", callee),
			Found:    describeToken(arg),
		}
	}
	p.advance()

	if tok := p.currentToken(); tok.Type == TokenComma {
		return nil, &ParseError{
			Pos:      tok.Pos,
			Expected: fmt.Sprintf("exactly one argument for %s()", callee),
			Found:    describeToken(tok),
		}
	}
	if _, err := p.expect(TokenRParen); err != nil {
		return nil, err
	}

	return &LiteralExpr{Value: TextValue(arg.Value)}, nil
}
