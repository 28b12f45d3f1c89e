package expr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bsce/mgrep/internal/pattern"
)

var errUnsupportedASTNode = errors.New("unsupported AST node type")

// Evaluate interprets an AST against one line's evaluation context and
// produces a typed value or a typed failure. The walk is post-order except
// for the logical operators, which short-circuit: the right subtree is not
// evaluated when the left side already determines the result.
//
// Evaluation is deterministic and side-effect-free; the same tree can be
// reused for every line.
func Evaluate(node ASTNode, ctx pattern.MatchContext) (Value, error) {
	switch n := node.(type) {
	case *LiteralExpr:
		return n.Value, nil
	case *ParenExpr:
		return Evaluate(n.Expr, ctx)
	case *PropertyExpr:
		return evalProperty(n, ctx)
	case *FunctionCallExpr:
		return evalGroupCall(n, ctx)
	case *MethodCallExpr:
		return evalMethodCall(n, ctx)
	case *UnaryExpr:
		return evalNot(n, ctx)
	case *BinaryExpr:
		if n.Operator == "and" || n.Operator == "or" {
			return evalLogical(n, ctx)
		}
		return evalArithmetic(n, ctx)
	case *ComparisonExpr:
		return evalComparison(n, ctx)
	}
	return Value{}, errUnsupportedASTNode
}

func evalProperty(n *PropertyExpr, ctx pattern.MatchContext) (Value, error) {
	switch n.Name {
	case "number":
		return IntValue(int64(ctx.Line.Number)), nil
	case "length":
		return IntValue(int64(ctx.Line.Length())), nil
	case "content":
		return TextValue(ctx.Line.Content), nil
	}
	return Value{}, errUnsupportedASTNode
}

func evalGroupCall(n *FunctionCallExpr, ctx pattern.MatchContext) (Value, error) {
	name := n.Args[0].(*LiteralExpr).Value.Text()
	captured, ok := ctx.Captures[name]
	if !ok {
		return Value{}, unknownGroupError(name)
	}
	return CaptureValue(captured), nil
}

func evalMethodCall(n *MethodCallExpr, ctx pattern.MatchContext) (Value, error) {
	var receiver Value
	if ident, ok := n.Receiver.(*IdentifierExpr); ok && ident.Name == "line" {
		receiver = TextValue(ctx.Line.Content)
	} else {
		var err error
		receiver, err = Evaluate(n.Receiver, ctx)
		if err != nil {
			return Value{}, err
		}
	}
	if receiver.Kind() != KindText {
		return Value{}, typeError(errNonTextReceiver,
			fmt.Sprintf("%s() called on %s value", n.Method, receiver.Kind()))
	}

	arg, err := Evaluate(n.Arg, ctx)
	if err != nil {
		return Value{}, err
	}
	if arg.Kind() != KindText {
		return Value{}, typeError(errNonTextArgument,
			fmt.Sprintf("%s() called with %s argument", n.Method, arg.Kind()))
	}

	switch n.Method {
	case "contains":
		return BoolValue(strings.Contains(receiver.Text(), arg.Text())), nil
	case "startswith":
		return BoolValue(strings.HasPrefix(receiver.Text(), arg.Text())), nil
	case "endswith":
		return BoolValue(strings.HasSuffix(receiver.Text(), arg.Text())), nil
	}
	return Value{}, errUnsupportedASTNode
}

func evalNot(n *UnaryExpr, ctx pattern.MatchContext) (Value, error) {
	operand, err := Evaluate(n.Operand, ctx)
	if err != nil {
		return Value{}, err
	}
	if operand.Kind() != KindBool {
		return Value{}, typeError(errNonBooleanNotOperand,
			fmt.Sprintf("operand is %s", operand.Kind()))
	}
	return BoolValue(!operand.Bool()), nil
}

func evalLogical(n *BinaryExpr, ctx pattern.MatchContext) (Value, error) {
	left, err := Evaluate(n.Left, ctx)
	if err != nil {
		return Value{}, err
	}
	if left.Kind() != KindBool {
		return Value{}, typeError(errNonBooleanOperand,
			fmt.Sprintf("left operand of %q is %s", n.Operator, left.Kind()))
	}

	// Short-circuit: the right subtree stays unevaluated when the left side
	// already decides the result.
	if n.Operator == "and" && !left.Bool() {
		return BoolValue(false), nil
	}
	if n.Operator == "or" && left.Bool() {
		return BoolValue(true), nil
	}

	right, err := Evaluate(n.Right, ctx)
	if err != nil {
		return Value{}, err
	}
	if right.Kind() != KindBool {
		return Value{}, typeError(errNonBooleanOperand,
			fmt.Sprintf("right operand of %q is %s", n.Operator, right.Kind()))
	}
	return BoolValue(right.Bool()), nil
}

// numericOperand coerces a value to numeric for arithmetic, classifying the
// failure mode.
func numericOperand(v Value, op string) (Value, error) {
	coerced, ok := coerceNumeric(v)
	if ok {
		return coerced, nil
	}
	if v.Kind() == KindText && v.FromCapture() {
		return Value{}, typeError(errNumericCoercionFailed,
			fmt.Sprintf("operand %s of %q", v, op))
	}
	return Value{}, typeError(errNonNumericOperand,
		fmt.Sprintf("operand of %q is %s", op, v.Kind()))
}

func evalArithmetic(n *BinaryExpr, ctx pattern.MatchContext) (Value, error) {
	leftRaw, err := Evaluate(n.Left, ctx)
	if err != nil {
		return Value{}, err
	}
	rightRaw, err := Evaluate(n.Right, ctx)
	if err != nil {
		return Value{}, err
	}

	left, err := numericOperand(leftRaw, n.Operator)
	if err != nil {
		return Value{}, err
	}
	right, err := numericOperand(rightRaw, n.Operator)
	if err != nil {
		return Value{}, err
	}

	switch n.Operator {
	case "%":
		if left.Kind() != KindInt || right.Kind() != KindInt {
			return Value{}, typeError(errModuloRequiresInts,
				fmt.Sprintf("operands are %s and %s", left.Kind(), right.Kind()))
		}
		if right.Int() == 0 {
			return Value{}, divisionByZeroError("%")
		}
		return IntValue(left.Int() % right.Int()), nil
	case "/":
		if right.AsFloat() == 0 {
			return Value{}, divisionByZeroError("/")
		}
		// Division always produces a float, even for integer operands.
		return FloatValue(left.AsFloat() / right.AsFloat()), nil
	}

	if left.Kind() == KindInt && right.Kind() == KindInt {
		switch n.Operator {
		case "+":
			return IntValue(left.Int() + right.Int()), nil
		case "-":
			return IntValue(left.Int() - right.Int()), nil
		case "*":
			return IntValue(left.Int() * right.Int()), nil
		}
	}
	switch n.Operator {
	case "+":
		return FloatValue(left.AsFloat() + right.AsFloat()), nil
	case "-":
		return FloatValue(left.AsFloat() - right.AsFloat()), nil
	case "*":
		return FloatValue(left.AsFloat() * right.AsFloat()), nil
	}
	return Value{}, errUnsupportedASTNode
}

func evalComparison(n *ComparisonExpr, ctx pattern.MatchContext) (Value, error) {
	left, err := Evaluate(n.Left, ctx)
	if err != nil {
		return Value{}, err
	}
	right, err := Evaluate(n.Right, ctx)
	if err != nil {
		return Value{}, err
	}

	// When one operand is numeric and the other is capture-origin text, the
	// text side is attempted as a numeric coercion before comparing.
	left, right, err = coerceComparisonOperands(left, right, n.Operator)
	if err != nil {
		return Value{}, err
	}

	switch n.Operator {
	case "==", "!=":
		eq, err := valuesEqual(left, right, n.Operator)
		if err != nil {
			return Value{}, err
		}
		if n.Operator == "!=" {
			eq = !eq
		}
		return BoolValue(eq), nil
	}
	return evalOrdering(n.Operator, left, right)
}

func coerceComparisonOperands(left, right Value, op string) (Value, Value, error) {
	coercible := func(v Value) bool { return v.Kind() == KindText && v.FromCapture() }

	if left.IsNumeric() && coercible(right) {
		coerced, ok := coerceNumeric(right)
		if !ok {
			return Value{}, Value{}, typeError(errNumericCoercionFailed,
				fmt.Sprintf("operand %s of %q", right, op))
		}
		right = coerced
	} else if right.IsNumeric() && coercible(left) {
		coerced, ok := coerceNumeric(left)
		if !ok {
			return Value{}, Value{}, typeError(errNumericCoercionFailed,
				fmt.Sprintf("operand %s of %q", left, op))
		}
		left = coerced
	}
	return left, right, nil
}

func valuesEqual(left, right Value, op string) (bool, error) {
	switch {
	case left.Kind() == KindInt && right.Kind() == KindInt:
		return left.Int() == right.Int(), nil
	case left.IsNumeric() && right.IsNumeric():
		return left.AsFloat() == right.AsFloat(), nil
	case left.Kind() == KindText && right.Kind() == KindText:
		return left.Text() == right.Text(), nil
	case left.Kind() == KindBool && right.Kind() == KindBool:
		return left.Bool() == right.Bool(), nil
	}
	return false, typeError(errIncomparableTypes,
		fmt.Sprintf("%s %s %s", left.Kind(), op, right.Kind()))
}

func evalOrdering(op string, left, right Value) (Value, error) {
	if left.Kind() == KindBool || right.Kind() == KindBool {
		return Value{}, typeError(errBooleanNotOrderable,
			fmt.Sprintf("%s %s %s", left.Kind(), op, right.Kind()))
	}

	var cmp int
	switch {
	case left.Kind() == KindInt && right.Kind() == KindInt:
		cmp = compareInt(left.Int(), right.Int())
	case left.IsNumeric() && right.IsNumeric():
		cmp = compareFloat(left.AsFloat(), right.AsFloat())
	case left.Kind() == KindText && right.Kind() == KindText:
		cmp = strings.Compare(left.Text(), right.Text())
	default:
		return Value{}, typeError(errIncomparableTypes,
			fmt.Sprintf("%s %s %s", left.Kind(), op, right.Kind()))
	}

	switch op {
	case ">":
		return BoolValue(cmp > 0), nil
	case "<":
		return BoolValue(cmp < 0), nil
	case ">=":
		return BoolValue(cmp >= 0), nil
	case "<=":
		return BoolValue(cmp <= 0), nil
	}
	return Value{}, errUnsupportedASTNode
}

func compareInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
