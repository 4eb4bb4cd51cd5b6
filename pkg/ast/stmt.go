package ast

import "github.com/raymyers/ralph-sol/pkg/diag"

// Stmt is a statement inside a function or modifier body.
type Stmt interface {
	Node
	implStmt()
}

// Block is a braced statement list, optionally 'unchecked'.
type Block struct {
	Loc       diag.Span
	Unchecked bool
	Stmts     []Stmt
}

// VariableDeclaration is a typed binder in a statement or struct body.
type VariableDeclaration struct {
	Loc      diag.Span
	Type     TypeName
	Location string
	Name     string
}

// VariableDeclarationStatement declares one binder, or a tuple of binders
// whose empty slots are nil. The tuple form always has a Value.
type VariableDeclarationStatement struct {
	Loc   diag.Span
	Decls []*VariableDeclaration
	Tuple bool
	Value Expr
}

// ExpressionStatement is an expression followed by ';'.
type ExpressionStatement struct {
	Loc diag.Span
	X   Expr
}

// IfStatement has an optional Else.
type IfStatement struct {
	Loc  diag.Span
	Cond Expr
	Then Stmt
	Else Stmt
}

// ForStatement has independently optional Init, Cond and Post clauses.
type ForStatement struct {
	Loc  diag.Span
	Init Stmt
	Cond Expr
	Post Expr
	Body Stmt
}

type WhileStatement struct {
	Loc  diag.Span
	Cond Expr
	Body Stmt
}

type DoWhileStatement struct {
	Loc  diag.Span
	Body Stmt
	Cond Expr
}

type ContinueStatement struct {
	Loc diag.Span
}

type BreakStatement struct {
	Loc diag.Span
}

// TryStatement wraps an external call. Call is always a *Call.
type TryStatement struct {
	Loc     diag.Span
	Call    Expr
	Returns []*Parameter
	Body    *Block
	Catches []*CatchClause
}

// CatchClause is 'catch Name(params) { ... }' with both parts optional.
// Params is nil when no parameter list is present.
type CatchClause struct {
	Loc    diag.Span
	Name   string
	Params []*Parameter
	Body   *Block
}

// ReturnStatement has an optional Value.
type ReturnStatement struct {
	Loc   diag.Span
	Value Expr
}

// EmitStatement is 'emit Event(args);'.
type EmitStatement struct {
	Loc   diag.Span
	Event Expr
	Args  *CallArguments
}

// RevertStatement is 'revert Error(args);'.
type RevertStatement struct {
	Loc   diag.Span
	Error Expr
	Args  *CallArguments
}

// AssemblyStatement holds an inline low-level block.
type AssemblyStatement struct {
	Loc     diag.Span
	Dialect string
	Flags   []string
	Body    *YulBlock
}

func (n *Block) Span() diag.Span                        { return n.Loc }
func (n *VariableDeclaration) Span() diag.Span          { return n.Loc }
func (n *VariableDeclarationStatement) Span() diag.Span { return n.Loc }
func (n *ExpressionStatement) Span() diag.Span          { return n.Loc }
func (n *IfStatement) Span() diag.Span                  { return n.Loc }
func (n *ForStatement) Span() diag.Span                 { return n.Loc }
func (n *WhileStatement) Span() diag.Span               { return n.Loc }
func (n *DoWhileStatement) Span() diag.Span             { return n.Loc }
func (n *ContinueStatement) Span() diag.Span            { return n.Loc }
func (n *BreakStatement) Span() diag.Span               { return n.Loc }
func (n *TryStatement) Span() diag.Span                 { return n.Loc }
func (n *CatchClause) Span() diag.Span                  { return n.Loc }
func (n *ReturnStatement) Span() diag.Span              { return n.Loc }
func (n *EmitStatement) Span() diag.Span                { return n.Loc }
func (n *RevertStatement) Span() diag.Span              { return n.Loc }
func (n *AssemblyStatement) Span() diag.Span            { return n.Loc }

func (*Block) implStmt()                        {}
func (*VariableDeclarationStatement) implStmt() {}
func (*ExpressionStatement) implStmt()          {}
func (*IfStatement) implStmt()                  {}
func (*ForStatement) implStmt()                 {}
func (*WhileStatement) implStmt()               {}
func (*DoWhileStatement) implStmt()             {}
func (*ContinueStatement) implStmt()            {}
func (*BreakStatement) implStmt()               {}
func (*TryStatement) implStmt()                 {}
func (*ReturnStatement) implStmt()              {}
func (*EmitStatement) implStmt()                {}
func (*RevertStatement) implStmt()              {}
func (*AssemblyStatement) implStmt()            {}
