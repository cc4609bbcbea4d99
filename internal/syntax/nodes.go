package syntax

// ----------------------------------------------------------------------------
// Interfaces
//
// There are 2 classes of nodes: Expressions and Statements. Both sets are
// closed: the marker methods keep implementations inside this package, so a
// type switch over the node types listed here is exhaustive.

// Node is the interface implemented by all AST nodes.
type Node interface {
	Pos() Pos // position of first character belonging to the node
	aNode()
}

// Expr is the interface for all expression nodes.
//
// Expression nodes are always used by pointer. The pointer is the node's
// identity; the resolver keys its side table on it.
type Expr interface {
	Node
	aExpr()
}

// Stmt is the interface for all statement nodes.
type Stmt interface {
	Node
	aStmt()
}

// ----------------------------------------------------------------------------
// Base node types

type node struct {
	pos Pos
}

func (n *node) Pos() Pos { return n.pos }
func (n *node) aNode()   {}

type expr struct{ node }

func (*expr) aExpr() {}

type stmt struct{ node }

func (*stmt) aStmt() {}

// ----------------------------------------------------------------------------
// Program

// Program is the root of a parsed source text.
type Program struct {
	node
	Stmts []Stmt // top-level declarations and statements
}

// ----------------------------------------------------------------------------
// Expressions

// Literal is a number, string, boolean or nil constant.
type Literal struct {
	expr
	Value any // float64, string, bool, or nil
}

// Grouping is a parenthesized expression: (X)
type Grouping struct {
	expr
	X Expr
}

// Unary is a prefix operation: Op X
type Unary struct {
	expr
	Op Token // Minus or Bang
	X  Expr
}

// Binary is an arithmetic, comparison or equality operation: X Op Y
type Binary struct {
	expr
	X  Expr
	Op Token
	Y  Expr
}

// Ternary is a conditional expression: Cond ? Then : Else
type Ternary struct {
	expr
	Cond Expr
	Then Expr
	Else Expr
}

// Logical is a short-circuit operation: X and Y, X or Y
type Logical struct {
	expr
	X  Expr
	Op Token // And or Or
	Y  Expr
}

// Variable is a reference to a named variable.
type Variable struct {
	expr
	Name Token
}

// Assign stores Value into the variable Name.
type Assign struct {
	expr
	Name  Token
	Value Expr
}

// Call is a call expression: Fun(Args...)
type Call struct {
	expr
	Fun   Expr
	Paren Token // closing parenthesis, used for error positions
	Args  []Expr
}

// FuncLit is an anonymous function (lambda): fun (Params) { Body }
type FuncLit struct {
	expr
	Params []Token
	Body   []Stmt
}

// Get reads a property: X.Name
type Get struct {
	expr
	X    Expr
	Name Token
}

// Set writes a property: X.Name = Value
type Set struct {
	expr
	X     Expr
	Name  Token
	Value Expr
}

// This is the `this` keyword inside a method body.
type This struct {
	expr
	Keyword Token
}

// Super is a superclass method reference: super.Method
type Super struct {
	expr
	Keyword Token
	Method  Token
}

// ----------------------------------------------------------------------------
// Statements

// ExprStmt is an expression evaluated for its side effects.
type ExprStmt struct {
	stmt
	X Expr
}

// PrintStmt writes the stringified value of X followed by a newline.
type PrintStmt struct {
	stmt
	X Expr
}

// VarStmt declares a variable: var Name [= Init];
type VarStmt struct {
	stmt
	Name Token
	Init Expr // nil when there is no initializer
}

// BlockStmt is a braced statement list; it introduces a new scope.
type BlockStmt struct {
	stmt
	Stmts []Stmt
}

// IfStmt is: if (Cond) Then [else Else]
type IfStmt struct {
	stmt
	Cond Expr
	Then Stmt
	Else Stmt // nil when absent
}

// WhileStmt is: while (Cond) Body
// For loops are desugared into a WhileStmt by the parser.
type WhileStmt struct {
	stmt
	Cond Expr
	Body Stmt
}

// BreakStmt terminates the nearest enclosing loop.
type BreakStmt struct {
	stmt
	Keyword Token
}

// FuncKind distinguishes the kinds of named function declarations.
type FuncKind uint8

const (
	FuncFunction FuncKind = iota // fun name(...) {...}
	FuncMethod                   // name(...) {...} inside a class
	FuncGetter                   // name {...} inside a class
	FuncStatic                   // class name(...) {...} inside a class
)

var funcKindNames = [...]string{
	FuncFunction: "function",
	FuncMethod:   "method",
	FuncGetter:   "getter",
	FuncStatic:   "static",
}

func (k FuncKind) String() string {
	if int(k) < len(funcKindNames) {
		return funcKindNames[k]
	}
	return "unknown"
}

// FuncStmt declares a named function, method, getter or static method.
type FuncStmt struct {
	stmt
	Name   Token
	Params []Token // always empty for getters
	Body   []Stmt
	Kind   FuncKind
}

// ReturnStmt is: return [Result];
type ReturnStmt struct {
	stmt
	Keyword Token
	Result  Expr // nil for a bare return
}

// ClassStmt declares a class: class Name [< Superclass] { Methods... }
type ClassStmt struct {
	stmt
	Name       Token
	Superclass *Variable // nil when there is no superclass
	Methods    []*FuncStmt
}
