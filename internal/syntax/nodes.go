package syntax

// ----------------------------------------------------------------------------
// Interfaces
//
// Nodes are a closed set: the unexported marker methods restrict
// implementations to this package. Expressions produce values, statements
// are executed, and definitions are statements hoisted by the interpreter
// so that they take effect before any other top-level statement runs.

// Node is the interface implemented by all AST nodes.
type Node interface {
	Pos() Pos // position of first character belonging to the node
	aNode()
}

// Expr is the interface for all expression nodes.
type Expr interface {
	Node
	aExpr()
}

// Stmt is the interface for all statement nodes.
type Stmt interface {
	Node
	aStmt()
}

// Def is the interface for definitions (functions and types).
type Def interface {
	Stmt
	aDef()
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

type def struct{ stmt }

func (*def) aDef() {}

// File is a parsed script: its top-level statements in source order.
type File struct {
	node
	Stmts []Stmt
}

// ----------------------------------------------------------------------------
// Expressions

// Name is a variable reference.
type Name struct {
	expr
	Value string
}

// BasicLit is a constant.
type BasicLit struct {
	expr
	Kind  LitKind
	Lit   string // source text (decoded content for strings)
	Value any    // int32, int64, float32, float64, bool or string
}

// NullLit is the null keyword used as a value.
type NullLit struct {
	expr
}

// TemplateLit is a string template. Fragments appear as string BasicLits,
// interpolations as arbitrary expressions, in source order.
type TemplateLit struct {
	expr
	Parts []Expr
}

// Operation is a binary expression: X Op Y.
type Operation struct {
	expr
	Op Token
	X  Expr
	Y  Expr
}

// CallExpr is a function invocation: Fun(Args...).
type CallExpr struct {
	expr
	Fun  *Name
	Args []Expr
}

// ListLit is a list constructor: [Elems...].
type ListLit struct {
	expr
	Elems []Expr
}

// ParenExpr is a parenthesized expression: (X).
type ParenExpr struct {
	expr
	X Expr
}

// ----------------------------------------------------------------------------
// Statements

// ExprStmt is an expression evaluated for its side effects: a call or an
// identifier-led binary expression.
type ExprStmt struct {
	stmt
	X Expr
}

// VarDecl is a variable initialization: var Name = Value, or var* for a
// mutable binding.
type VarDecl struct {
	stmt
	Name    *Name
	Value   Expr
	Mutable bool
}

// AssignStmt is a reassignment: Name = Value. Define is set when the name
// was not visible, so the assignment declares a new mutable variable.
type AssignStmt struct {
	stmt
	Name   *Name
	Value  Expr
	Define bool
}

// BlockStmt is a braced body: { Stmts... }.
type BlockStmt struct {
	stmt
	Stmts  []Stmt
	Rbrace Pos
}

// IfStmt is an if/elseif/else tree. An else branch has a constant true
// condition.
type IfStmt struct {
	stmt
	Branches []*Branch
}

// Branch is one condition and body of an IfStmt.
type Branch struct {
	node
	Cond Expr
	Body *BlockStmt
}

// ForStmt iterates Key over the elements of X.
type ForStmt struct {
	stmt
	Key  *Name
	X    Expr
	Body *BlockStmt
}

// WhileStmt repeats Body while Cond holds.
type WhileStmt struct {
	stmt
	Cond Expr
	Body *BlockStmt
}

// ReturnStmt leaves the enclosing function. Result is nil for a bare return.
type ReturnStmt struct {
	stmt
	Result Expr
}

// BranchStmt is break or continue.
type BranchStmt struct {
	stmt
	Tok Token // Break or Continue
}

// ----------------------------------------------------------------------------
// Definitions

// FuncDecl is a function definition: fun Name(Params...) { Body }.
type FuncDecl struct {
	def
	Name   *Name
	Params []*Name
	Body   *BlockStmt
}

// TypeDecl is a type definition: type Name.
type TypeDecl struct {
	def
	Name *Name
}
