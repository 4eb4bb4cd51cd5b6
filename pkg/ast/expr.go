package ast

import "github.com/raymyers/ralph-sol/pkg/diag"

// Expr is an expression. Each operation kind is its own type; binary
// operations are grouped by precedence category.
type Expr interface {
	Node
	implExpr()
}

// Operator is the source text of an operator, e.g. "+" or ">>>=".
type Operator string

// Binary is implemented by every binary-operator category.
type Binary interface {
	Expr
	Operands() (Operator, Expr, Expr)
}

// IndexAccess is e[i]. Index is nil for e[], which names an array type.
type IndexAccess struct {
	Loc   diag.Span
	Base  Expr
	Index Expr
}

// IndexRangeAccess is e[start:end]; either bound may be nil.
type IndexRangeAccess struct {
	Loc   diag.Span
	Base  Expr
	Start Expr
	End   Expr
}

// MemberAccess is e.name, including e.address.
type MemberAccess struct {
	Loc    diag.Span
	X      Expr
	Member string
}

// CallOptions is e{name: value, ...}.
type CallOptions struct {
	Loc     diag.Span
	Callee  Expr
	Options []*NamedArgument
}

// Call is e(args).
type Call struct {
	Loc    diag.Span
	Callee Expr
	Args   *CallArguments
}

// PayableConversion is payable(args).
type PayableConversion struct {
	Loc  diag.Span
	Args *CallArguments
}

// MetaType is type(T).
type MetaType struct {
	Loc  diag.Span
	Type TypeName
}

// UnaryPrefix is ++x, --x, !x, ~x, delete x or -x.
type UnaryPrefix struct {
	Loc diag.Span
	Op  Operator
	X   Expr
}

// UnarySuffix is x++ or x--.
type UnarySuffix struct {
	Loc diag.Span
	Op  Operator
	X   Expr
}

// ExpOp is a ** b (right-associative).
type ExpOp struct {
	Loc         diag.Span
	Op          Operator
	Left, Right Expr
}

// MulDivMod is a * b, a / b or a % b.
type MulDivMod struct {
	Loc         diag.Span
	Op          Operator
	Left, Right Expr
}

// AddSub is a + b or a - b.
type AddSub struct {
	Loc         diag.Span
	Op          Operator
	Left, Right Expr
}

// Shift is a << b, a >> b or a >>> b.
type Shift struct {
	Loc         diag.Span
	Op          Operator
	Left, Right Expr
}

type BitAnd struct {
	Loc         diag.Span
	Op          Operator
	Left, Right Expr
}

type BitXor struct {
	Loc         diag.Span
	Op          Operator
	Left, Right Expr
}

type BitOr struct {
	Loc         diag.Span
	Op          Operator
	Left, Right Expr
}

// OrderComparison is <, >, <= or >=.
type OrderComparison struct {
	Loc         diag.Span
	Op          Operator
	Left, Right Expr
}

// EqualityComparison is == or !=.
type EqualityComparison struct {
	Loc         diag.Span
	Op          Operator
	Left, Right Expr
}

type AndOp struct {
	Loc         diag.Span
	Op          Operator
	Left, Right Expr
}

type OrOp struct {
	Loc         diag.Span
	Op          Operator
	Left, Right Expr
}

// Conditional is cond ? then : else.
type Conditional struct {
	Loc  diag.Span
	Cond Expr
	Then Expr
	Else Expr
}

// Assignment is a plain or compound assignment (right-associative).
type Assignment struct {
	Loc         diag.Span
	Op          Operator
	Left, Right Expr
}

// NewExpr is 'new T'.
type NewExpr struct {
	Loc  diag.Span
	Type TypeName
}

// TupleExpr is a parenthesised list. Omitted elements are nil; a
// parenthesised single expression is a one-element tuple.
type TupleExpr struct {
	Loc   diag.Span
	Elems []Expr
}

// InlineArray is [a, b, c].
type InlineArray struct {
	Loc   diag.Span
	Elems []Expr
}

type Identifier struct {
	Loc  diag.Span
	Name string
}

// StringKind tells plain, unicode and hex string literals apart.
type StringKind int

const (
	StringPlain StringKind = iota
	StringUnicode
	StringHex
)

// StringLiteral is one or more adjacent literal tokens of the same kind.
// Value is the concatenated content between the quotes, escapes untouched.
type StringLiteral struct {
	Loc   diag.Span
	Kind  StringKind
	Value string
	Parts int
}

// NumberLiteral is a decimal or hex number with an optional unit
// (wei, ether, days, ...).
type NumberLiteral struct {
	Loc   diag.Span
	Value string
	Hex   bool
	Unit  string
}

type BoolLiteral struct {
	Loc   diag.Span
	Value bool
}

// ElementaryTypeExpr is an elementary type name in value position, as in
// uint256(x) or address(this).
type ElementaryTypeExpr struct {
	Loc  diag.Span
	Type *ElementaryType
}

func (n *IndexAccess) Span() diag.Span        { return n.Loc }
func (n *IndexRangeAccess) Span() diag.Span   { return n.Loc }
func (n *MemberAccess) Span() diag.Span       { return n.Loc }
func (n *CallOptions) Span() diag.Span        { return n.Loc }
func (n *Call) Span() diag.Span               { return n.Loc }
func (n *PayableConversion) Span() diag.Span  { return n.Loc }
func (n *MetaType) Span() diag.Span           { return n.Loc }
func (n *UnaryPrefix) Span() diag.Span        { return n.Loc }
func (n *UnarySuffix) Span() diag.Span        { return n.Loc }
func (n *ExpOp) Span() diag.Span              { return n.Loc }
func (n *MulDivMod) Span() diag.Span          { return n.Loc }
func (n *AddSub) Span() diag.Span             { return n.Loc }
func (n *Shift) Span() diag.Span              { return n.Loc }
func (n *BitAnd) Span() diag.Span             { return n.Loc }
func (n *BitXor) Span() diag.Span             { return n.Loc }
func (n *BitOr) Span() diag.Span              { return n.Loc }
func (n *OrderComparison) Span() diag.Span    { return n.Loc }
func (n *EqualityComparison) Span() diag.Span { return n.Loc }
func (n *AndOp) Span() diag.Span              { return n.Loc }
func (n *OrOp) Span() diag.Span               { return n.Loc }
func (n *Conditional) Span() diag.Span        { return n.Loc }
func (n *Assignment) Span() diag.Span         { return n.Loc }
func (n *NewExpr) Span() diag.Span            { return n.Loc }
func (n *TupleExpr) Span() diag.Span          { return n.Loc }
func (n *InlineArray) Span() diag.Span        { return n.Loc }
func (n *Identifier) Span() diag.Span         { return n.Loc }
func (n *StringLiteral) Span() diag.Span      { return n.Loc }
func (n *NumberLiteral) Span() diag.Span      { return n.Loc }
func (n *BoolLiteral) Span() diag.Span        { return n.Loc }
func (n *ElementaryTypeExpr) Span() diag.Span { return n.Loc }

func (n *ExpOp) Operands() (Operator, Expr, Expr)              { return n.Op, n.Left, n.Right }
func (n *MulDivMod) Operands() (Operator, Expr, Expr)          { return n.Op, n.Left, n.Right }
func (n *AddSub) Operands() (Operator, Expr, Expr)             { return n.Op, n.Left, n.Right }
func (n *Shift) Operands() (Operator, Expr, Expr)              { return n.Op, n.Left, n.Right }
func (n *BitAnd) Operands() (Operator, Expr, Expr)             { return n.Op, n.Left, n.Right }
func (n *BitXor) Operands() (Operator, Expr, Expr)             { return n.Op, n.Left, n.Right }
func (n *BitOr) Operands() (Operator, Expr, Expr)              { return n.Op, n.Left, n.Right }
func (n *OrderComparison) Operands() (Operator, Expr, Expr)    { return n.Op, n.Left, n.Right }
func (n *EqualityComparison) Operands() (Operator, Expr, Expr) { return n.Op, n.Left, n.Right }
func (n *AndOp) Operands() (Operator, Expr, Expr)              { return n.Op, n.Left, n.Right }
func (n *OrOp) Operands() (Operator, Expr, Expr)               { return n.Op, n.Left, n.Right }
func (n *Assignment) Operands() (Operator, Expr, Expr)         { return n.Op, n.Left, n.Right }

// Marker methods for interface implementation
func (*IndexAccess) implExpr()        {}
func (*IndexRangeAccess) implExpr()   {}
func (*MemberAccess) implExpr()       {}
func (*CallOptions) implExpr()        {}
func (*Call) implExpr()               {}
func (*PayableConversion) implExpr()  {}
func (*MetaType) implExpr()           {}
func (*UnaryPrefix) implExpr()        {}
func (*UnarySuffix) implExpr()        {}
func (*ExpOp) implExpr()              {}
func (*MulDivMod) implExpr()          {}
func (*AddSub) implExpr()             {}
func (*Shift) implExpr()              {}
func (*BitAnd) implExpr()             {}
func (*BitXor) implExpr()             {}
func (*BitOr) implExpr()              {}
func (*OrderComparison) implExpr()    {}
func (*EqualityComparison) implExpr() {}
func (*AndOp) implExpr()              {}
func (*OrOp) implExpr()               {}
func (*Conditional) implExpr()        {}
func (*Assignment) implExpr()         {}
func (*NewExpr) implExpr()            {}
func (*TupleExpr) implExpr()          {}
func (*InlineArray) implExpr()        {}
func (*Identifier) implExpr()         {}
func (*StringLiteral) implExpr()      {}
func (*NumberLiteral) implExpr()      {}
func (*BoolLiteral) implExpr()        {}
func (*ElementaryTypeExpr) implExpr() {}
