package expr

// ASTNode represents a node in the abstract syntax tree. Trees are built
// once per where expression and never mutated; evaluating the same tree
// against different contexts is side-effect-free.
type ASTNode interface {
	astNode()
}

// BinaryExpr represents a logical or arithmetic binary expression
// (e.g., A and B, X + Y)
type BinaryExpr struct {
	Left     ASTNode
	Operator string
	Right    ASTNode
}

func (e *BinaryExpr) astNode() {}

// ComparisonExpr represents a comparison (e.g., line.length > 120)
type ComparisonExpr struct {
	Left     ASTNode
	Operator string
	Right    ASTNode
}

func (e *ComparisonExpr) astNode() {}

// UnaryExpr represents a unary expression (e.g., not X)
type UnaryExpr struct {
	Operator string
	Operand  ASTNode
}

func (e *UnaryExpr) astNode() {}

// PropertyExpr represents a property access on the line receiver
// (e.g., line.number, line.length, line.content)
type PropertyExpr struct {
	Receiver string
	Name     string
}

func (e *PropertyExpr) astNode() {}

// MethodCallExpr represents a text method call on the line receiver or on
// the result of group(...) (e.g., line.contains("x"))
type MethodCallExpr struct {
	Receiver ASTNode
	Method   string
	Arg      ASTNode
}

func (e *MethodCallExpr) astNode() {}

// FunctionCallExpr represents a function call (e.g., group("code"))
type FunctionCallExpr struct {
	Function string
	Args     []ASTNode
}

func (e *FunctionCallExpr) astNode() {}

// IdentifierExpr represents a bare receiver identifier. The only receiver
// the grammar admits is "line", as the target of method calls.
type IdentifierExpr struct {
	Name string
}

func (e *IdentifierExpr) astNode() {}

// LiteralExpr represents a literal value
type LiteralExpr struct {
	Value Value
}

func (e *LiteralExpr) astNode() {}

// ParenExpr represents a parenthesized sub-expression
type ParenExpr struct {
	Expr ASTNode
}

func (e *ParenExpr) astNode() {}
