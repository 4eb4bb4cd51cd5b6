package ast

import "github.com/raymyers/ralph-sol/pkg/diag"

// YulStmt is a statement of the low-level assembly language.
type YulStmt interface {
	Node
	implYulStmt()
}

// YulExpr is a path, literal or call. The language has no operators.
type YulExpr interface {
	Node
	implYulExpr()
}

type YulBlock struct {
	Loc   diag.Span
	Stmts []YulStmt
}

// YulVariableDeclaration is 'let a, b := f()'. Value may be nil.
type YulVariableDeclaration struct {
	Loc   diag.Span
	Names []string
	Value YulExpr
}

// YulAssignment is 'a := e' or 'a, b := f()'.
type YulAssignment struct {
	Loc     diag.Span
	Targets []*YulPath
	Value   YulExpr
}

// YulExpressionStatement is a bare call.
type YulExpressionStatement struct {
	Loc  diag.Span
	Call *YulCall
}

type YulIf struct {
	Loc  diag.Span
	Cond YulExpr
	Body *YulBlock
}

// YulFor is 'for {init} cond {post} {body}'.
type YulFor struct {
	Loc  diag.Span
	Init *YulBlock
	Cond YulExpr
	Post *YulBlock
	Body *YulBlock
}

// YulSwitch has at least one case and at most one default.
type YulSwitch struct {
	Loc     diag.Span
	Expr    YulExpr
	Cases   []*YulCase
	Default *YulBlock
}

type YulCase struct {
	Loc   diag.Span
	Value *YulLiteral
	Body  *YulBlock
}

type YulLeave struct {
	Loc diag.Span
}

type YulBreak struct {
	Loc diag.Span
}

type YulContinue struct {
	Loc diag.Span
}

// YulFunctionDefinition is 'function f(a, b) -> r { ... }'. Parameters are
// untyped.
type YulFunctionDefinition struct {
	Loc     diag.Span
	Name    string
	Params  []string
	Returns []string
	Body    *YulBlock
}

// YulPath is a dotted identifier such as x.slot.
type YulPath struct {
	Loc   diag.Span
	Parts []string
}

// YulCall calls a user function or a builtin operation.
type YulCall struct {
	Loc     diag.Span
	Name    string
	Builtin bool
	Args    []YulExpr
}

// YulLiteralKind classifies low-level literals.
type YulLiteralKind int

const (
	YulNumber YulLiteralKind = iota
	YulHexNumber
	YulString
	YulHexString
	YulBool
)

// YulLiteral keeps the literal's source text in Value.
type YulLiteral struct {
	Loc   diag.Span
	Kind  YulLiteralKind
	Value string
}

func (n *YulBlock) Span() diag.Span               { return n.Loc }
func (n *YulVariableDeclaration) Span() diag.Span { return n.Loc }
func (n *YulAssignment) Span() diag.Span          { return n.Loc }
func (n *YulExpressionStatement) Span() diag.Span { return n.Loc }
func (n *YulIf) Span() diag.Span                  { return n.Loc }
func (n *YulFor) Span() diag.Span                 { return n.Loc }
func (n *YulSwitch) Span() diag.Span              { return n.Loc }
func (n *YulCase) Span() diag.Span                { return n.Loc }
func (n *YulLeave) Span() diag.Span               { return n.Loc }
func (n *YulBreak) Span() diag.Span               { return n.Loc }
func (n *YulContinue) Span() diag.Span            { return n.Loc }
func (n *YulFunctionDefinition) Span() diag.Span  { return n.Loc }
func (n *YulPath) Span() diag.Span                { return n.Loc }
func (n *YulCall) Span() diag.Span                { return n.Loc }
func (n *YulLiteral) Span() diag.Span             { return n.Loc }

func (*YulBlock) implYulStmt()               {}
func (*YulVariableDeclaration) implYulStmt() {}
func (*YulAssignment) implYulStmt()          {}
func (*YulExpressionStatement) implYulStmt() {}
func (*YulIf) implYulStmt()                  {}
func (*YulFor) implYulStmt()                 {}
func (*YulSwitch) implYulStmt()              {}
func (*YulLeave) implYulStmt()               {}
func (*YulBreak) implYulStmt()               {}
func (*YulContinue) implYulStmt()            {}
func (*YulFunctionDefinition) implYulStmt()  {}

func (*YulPath) implYulExpr()    {}
func (*YulCall) implYulExpr()    {}
func (*YulLiteral) implYulExpr() {}
