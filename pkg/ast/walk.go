package ast

// children collects non-nil child nodes in source order.
type children []Node

func (c *children) expr(e Expr) {
	if e != nil {
		*c = append(*c, e)
	}
}

func (c *children) typ(t TypeName) {
	if t != nil {
		*c = append(*c, t)
	}
}

func (c *children) stmt(s Stmt) {
	if s != nil {
		*c = append(*c, s)
	}
}

func (c *children) block(b *Block) {
	if b != nil {
		*c = append(*c, b)
	}
}

func (c *children) yulBlock(b *YulBlock) {
	if b != nil {
		*c = append(*c, b)
	}
}

func (c *children) yul(e YulExpr) {
	if e != nil {
		*c = append(*c, e)
	}
}

func (c *children) path(p *IdentifierPath) {
	if p != nil {
		*c = append(*c, p)
	}
}

func (c *children) args(a *CallArguments) {
	if a != nil {
		*c = append(*c, a)
	}
}

func (c *children) overrides(o *OverrideSpecifier) {
	if o != nil {
		*c = append(*c, o)
	}
}

func (c *children) params(ps []*Parameter) {
	for _, p := range ps {
		*c = append(*c, p)
	}
}

// Children returns the direct children of n in source order.
func Children(n Node) []Node {
	var c children
	switch n := n.(type) {
	case *SourceUnit:
		for _, it := range n.Items {
			c = append(c, it)
		}
	case *ImportDirective, *PragmaDirective, *EnumDefinition, *IdentifierPath,
		*ElementaryType, *Identifier, *StringLiteral, *NumberLiteral, *BoolLiteral,
		*ContinueStatement, *BreakStatement, *YulLeave, *YulBreak, *YulContinue,
		*YulPath, *YulLiteral:
	case *ContractDefinition:
		for _, b := range n.Bases {
			c = append(c, b)
		}
		for _, el := range n.Body {
			c = append(c, el)
		}
	case *InheritanceSpecifier:
		c.path(n.Base)
		c.args(n.Args)
	case *StructDefinition:
		for _, m := range n.Members {
			c = append(c, m)
		}
	case *UserDefinedValueType:
		if n.Underlying != nil {
			c = append(c, n.Underlying)
		}
	case *ErrorDefinition:
		c.params(n.Params)
	case *EventDefinition:
		for _, p := range n.Params {
			c = append(c, p)
		}
	case *EventParameter:
		c.typ(n.Type)
	case *UsingDirective:
		c.path(n.Library)
		for _, f := range n.Functions {
			c.path(f.Path)
		}
		c.typ(n.Target)
	case *FunctionDefinition:
		c.params(n.Params)
		for _, m := range n.Modifiers {
			c = append(c, m)
		}
		c.overrides(n.Overrides)
		c.params(n.Returns)
		c.block(n.Body)
	case *ModifierDefinition:
		c.params(n.Params)
		c.overrides(n.Overrides)
		c.block(n.Body)
	case *ModifierInvocation:
		c.path(n.Path)
		c.args(n.Args)
	case *OverrideSpecifier:
		for _, b := range n.Bases {
			c = append(c, b)
		}
	case *Parameter:
		c.typ(n.Type)
	case *StateVariableDeclaration:
		c.typ(n.Type)
		c.overrides(n.Overrides)
		c.expr(n.Value)
	case *ConstantVariableDeclaration:
		c.typ(n.Type)
		c.expr(n.Value)
	case *CallArguments:
		for _, e := range n.Positional {
			c.expr(e)
		}
		for _, a := range n.Named {
			c = append(c, a)
		}
	case *NamedArgument:
		c.expr(n.Value)
	case *UserDefinedType:
		c.path(n.Path)
	case *MappingType:
		c.typ(n.Key)
		c.typ(n.Value)
	case *FunctionType:
		c.params(n.Params)
		c.params(n.Returns)
	case *ArrayType:
		c.typ(n.Elem)
		c.expr(n.Length)

	case *Block:
		for _, s := range n.Stmts {
			c.stmt(s)
		}
	case *VariableDeclaration:
		c.typ(n.Type)
	case *VariableDeclarationStatement:
		for _, d := range n.Decls {
			if d != nil {
				c = append(c, d)
			}
		}
		c.expr(n.Value)
	case *ExpressionStatement:
		c.expr(n.X)
	case *IfStatement:
		c.expr(n.Cond)
		c.stmt(n.Then)
		c.stmt(n.Else)
	case *ForStatement:
		c.stmt(n.Init)
		c.expr(n.Cond)
		c.expr(n.Post)
		c.stmt(n.Body)
	case *WhileStatement:
		c.expr(n.Cond)
		c.stmt(n.Body)
	case *DoWhileStatement:
		c.stmt(n.Body)
		c.expr(n.Cond)
	case *TryStatement:
		c.expr(n.Call)
		c.params(n.Returns)
		c.block(n.Body)
		for _, cc := range n.Catches {
			c = append(c, cc)
		}
	case *CatchClause:
		c.params(n.Params)
		c.block(n.Body)
	case *ReturnStatement:
		c.expr(n.Value)
	case *EmitStatement:
		c.expr(n.Event)
		c.args(n.Args)
	case *RevertStatement:
		c.expr(n.Error)
		c.args(n.Args)
	case *AssemblyStatement:
		c.yulBlock(n.Body)

	case *IndexAccess:
		c.expr(n.Base)
		c.expr(n.Index)
	case *IndexRangeAccess:
		c.expr(n.Base)
		c.expr(n.Start)
		c.expr(n.End)
	case *MemberAccess:
		c.expr(n.X)
	case *CallOptions:
		c.expr(n.Callee)
		for _, o := range n.Options {
			c = append(c, o)
		}
	case *Call:
		c.expr(n.Callee)
		c.args(n.Args)
	case *PayableConversion:
		c.args(n.Args)
	case *MetaType:
		c.typ(n.Type)
	case *UnaryPrefix:
		c.expr(n.X)
	case *UnarySuffix:
		c.expr(n.X)
	case Binary:
		_, l, r := n.Operands()
		c.expr(l)
		c.expr(r)
	case *Conditional:
		c.expr(n.Cond)
		c.expr(n.Then)
		c.expr(n.Else)
	case *NewExpr:
		c.typ(n.Type)
	case *TupleExpr:
		for _, e := range n.Elems {
			c.expr(e)
		}
	case *InlineArray:
		for _, e := range n.Elems {
			c.expr(e)
		}
	case *ElementaryTypeExpr:
		if n.Type != nil {
			c = append(c, n.Type)
		}

	case *YulBlock:
		for _, s := range n.Stmts {
			c = append(c, s)
		}
	case *YulVariableDeclaration:
		c.yul(n.Value)
	case *YulAssignment:
		for _, t := range n.Targets {
			c = append(c, t)
		}
		c.yul(n.Value)
	case *YulExpressionStatement:
		if n.Call != nil {
			c = append(c, n.Call)
		}
	case *YulIf:
		c.yul(n.Cond)
		c.yulBlock(n.Body)
	case *YulFor:
		c.yulBlock(n.Init)
		c.yul(n.Cond)
		c.yulBlock(n.Post)
		c.yulBlock(n.Body)
	case *YulSwitch:
		c.yul(n.Expr)
		for _, cs := range n.Cases {
			c = append(c, cs)
		}
		c.yulBlock(n.Default)
	case *YulCase:
		if n.Value != nil {
			c = append(c, n.Value)
		}
		c.yulBlock(n.Body)
	case *YulFunctionDefinition:
		c.yulBlock(n.Body)
	case *YulCall:
		for _, a := range n.Args {
			c.yul(a)
		}
	}
	return c
}

// Inspect traverses the tree depth-first. If f returns false the children of
// that node are skipped.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	for _, child := range Children(n) {
		Inspect(child, f)
	}
}

// Depth returns the number of nodes on the longest root-to-leaf path.
func Depth(n Node) int {
	if n == nil {
		return 0
	}
	deepest := 0
	for _, child := range Children(n) {
		if d := Depth(child); d > deepest {
			deepest = d
		}
	}
	return deepest + 1
}

// Count returns the number of nodes in the tree.
func Count(n Node) int {
	total := 0
	Inspect(n, func(Node) bool {
		total++
		return true
	})
	return total
}
