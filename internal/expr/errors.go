package expr

import (
	"errors"
	"fmt"
)

// Pre-defined causes for common evaluation failures. They are wrapped inside
// EvalError so callers can classify failures with errors.Is without parsing
// messages.
var (
	errNonBooleanOperand     = errors.New("logical operators require boolean operands")
	errNonBooleanNotOperand  = errors.New("'not' requires a boolean operand")
	errNonTextReceiver       = errors.New("string methods require a text receiver")
	errNonTextArgument       = errors.New("string methods require a text argument")
	errBooleanNotOrderable   = errors.New("boolean values are not orderable")
	errIncomparableTypes     = errors.New("cannot compare values of incompatible types")
	errNonNumericOperand     = errors.New("arithmetic requires numeric operands")
	errModuloRequiresInts    = errors.New("modulo is defined only for integers")
	errNumericCoercionFailed = errors.New("captured text has no numeric reading")
	errNonBooleanResult      = errors.New("filter expression must produce a boolean")
)

// LexError reports a character the lexer could not tokenize, or an
// unterminated string literal. Pos is a byte offset into the expression.
type LexError struct {
	Pos  int
	Char rune
	Msg  string
}

func (e *LexError) Error() string {
	if e.Msg == "unterminated string literal" {
		return fmt.Sprintf("%s starting at position %d", e.Msg, e.Pos)
	}
	return fmt.Sprintf("%s %q at position %d", e.Msg, e.Char, e.Pos)
}

// ParseError reports a structural problem in a where expression: an
// unexpected token, an unmatched parenthesis, a wrong call arity, or an
// unknown property, method or function name.
type ParseError struct {
	Pos      int
	Expected string
	Found    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("expected %s, found %s at position %d", e.Expected, e.Found, e.Pos)
}

// EvalErrorKind classifies evaluation failures.
type EvalErrorKind int

const (
	// EvalUnknownGroup means group(...) named a capture group that either
	// is not declared by the pattern or did not participate in this
	// line's match.
	EvalUnknownGroup EvalErrorKind = iota
	// EvalTypeMismatch means an operator or method was applied to operand
	// types it is not defined for, including failed numeric coercion.
	EvalTypeMismatch
	// EvalDivisionByZero means division or modulo by zero.
	EvalDivisionByZero
)

// String returns the conventional name for the error kind.
func (k EvalErrorKind) String() string {
	switch k {
	case EvalUnknownGroup:
		return "UnknownGroupError"
	case EvalTypeMismatch:
		return "TypeError"
	case EvalDivisionByZero:
		return "DivisionByZeroError"
	}
	return "EvalError"
}

// EvalError is a typed evaluation failure. Any EvalError aborts evaluation
// of its expression for the current line; it is never silently treated as a
// false predicate.
type EvalError struct {
	Kind EvalErrorKind
	// Group carries the offending group name for EvalUnknownGroup.
	Group string
	// Detail describes the failing operation.
	Detail string
	// Cause is one of the predeclared cause errors, when applicable.
	Cause error
}

func (e *EvalError) Error() string {
	if e.Kind == EvalUnknownGroup {
		return fmt.Sprintf("%s: no capture group %q in this match", e.Kind, e.Group)
	}
	if e.Cause != nil && e.Detail != "" {
		return fmt.Sprintf("%s: %v: %s", e.Kind, e.Cause, e.Detail)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *EvalError) Unwrap() error { return e.Cause }

func typeError(cause error, detail string) *EvalError {
	return &EvalError{Kind: EvalTypeMismatch, Cause: cause, Detail: detail}
}

func unknownGroupError(name string) *EvalError {
	return &EvalError{Kind: EvalUnknownGroup, Group: name}
}

func divisionByZeroError(op string) *EvalError {
	return &EvalError{Kind: EvalDivisionByZero, Detail: fmt.Sprintf("right operand of %q is zero", op)}
}
