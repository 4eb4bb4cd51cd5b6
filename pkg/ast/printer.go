package ast

import (
	"fmt"
	"io"
	"strings"
)

// Printer writes the tree back out as source text. Every operator expression
// is parenthesised so the output shows exactly how the expression was
// grouped.
type Printer struct {
	w      io.Writer
	indent int
}

// NewPrinter creates a new AST printer
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, indent: 0}
}

// ExprString renders an expression on one line.
func ExprString(e Expr) string {
	var sb strings.Builder
	NewPrinter(&sb).printExpr(e)
	return sb.String()
}

// TypeString renders a type name.
func TypeString(t TypeName) string {
	var sb strings.Builder
	NewPrinter(&sb).printType(t)
	return sb.String()
}

// PrintSourceUnit prints a complete source unit
func (p *Printer) PrintSourceUnit(unit *SourceUnit) {
	for _, item := range unit.Items {
		p.printSourceItem(item)
	}
}

// PrintStmt prints a single statement.
func (p *Printer) PrintStmt(s Stmt) {
	p.printStmt(s)
}

func (p *Printer) writeIndent() {
	fmt.Fprint(p.w, strings.Repeat("  ", p.indent))
}

func (p *Printer) printSourceItem(item SourceItem) {
	p.writeIndent()
	switch it := item.(type) {
	case *PragmaDirective:
		fmt.Fprintf(p.w, "pragma %s;\n", strings.Join(it.Tokens, " "))
	case *ImportDirective:
		p.printImport(it)
	case *ContractDefinition:
		p.printContract(it)
	case *ConstantVariableDeclaration:
		p.printType(it.Type)
		fmt.Fprintf(p.w, " constant %s = ", it.Name)
		p.printExpr(it.Value)
		fmt.Fprintln(p.w, ";")
	case BodyElement:
		p.printBodyElement(it)
	default:
		fmt.Fprintf(p.w, "/* unknown item %T */\n", item)
	}
}

func (p *Printer) printImport(it *ImportDirective) {
	fmt.Fprint(p.w, "import ")
	switch {
	case it.Wildcard:
		fmt.Fprintf(p.w, "* as %s from %q", it.UnitAlias, it.Path)
	case it.Symbols != nil:
		fmt.Fprint(p.w, "{")
		for i, sym := range it.Symbols {
			if i > 0 {
				fmt.Fprint(p.w, ", ")
			}
			fmt.Fprint(p.w, sym.Name)
			if sym.Alias != "" {
				fmt.Fprintf(p.w, " as %s", sym.Alias)
			}
		}
		fmt.Fprintf(p.w, "} from %q", it.Path)
	default:
		fmt.Fprintf(p.w, "%q", it.Path)
		if it.UnitAlias != "" {
			fmt.Fprintf(p.w, " as %s", it.UnitAlias)
		}
	}
	fmt.Fprintln(p.w, ";")
}

func (p *Printer) printContract(c *ContractDefinition) {
	if c.Abstract {
		fmt.Fprint(p.w, "abstract ")
	}
	fmt.Fprintf(p.w, "%s %s", c.Kind, c.Name)
	for i, base := range c.Bases {
		if i == 0 {
			fmt.Fprint(p.w, " is ")
		} else {
			fmt.Fprint(p.w, ", ")
		}
		fmt.Fprint(p.w, base.Base)
		if base.Args != nil {
			p.printArgs(base.Args)
		}
	}
	fmt.Fprintln(p.w, " {")
	p.indent++
	for _, el := range c.Body {
		p.writeIndent()
		p.printBodyElement(el)
	}
	p.indent--
	p.writeIndent()
	fmt.Fprintln(p.w, "}")
}

func (p *Printer) printBodyElement(el BodyElement) {
	switch e := el.(type) {
	case *StructDefinition:
		fmt.Fprintf(p.w, "struct %s {\n", e.Name)
		p.indent++
		for _, m := range e.Members {
			p.writeIndent()
			p.printType(m.Type)
			fmt.Fprintf(p.w, " %s;\n", m.Name)
		}
		p.indent--
		p.writeIndent()
		fmt.Fprintln(p.w, "}")
	case *EnumDefinition:
		fmt.Fprintf(p.w, "enum %s { %s }\n", e.Name, strings.Join(e.Members, ", "))
	case *UserDefinedValueType:
		fmt.Fprintf(p.w, "type %s is ", e.Name)
		p.printType(e.Underlying)
		fmt.Fprintln(p.w, ";")
	case *ErrorDefinition:
		fmt.Fprintf(p.w, "error %s(", e.Name)
		p.printParams(e.Params)
		fmt.Fprintln(p.w, ");")
	case *EventDefinition:
		fmt.Fprintf(p.w, "event %s(", e.Name)
		for i, param := range e.Params {
			if i > 0 {
				fmt.Fprint(p.w, ", ")
			}
			p.printType(param.Type)
			if param.Indexed {
				fmt.Fprint(p.w, " indexed")
			}
			if param.Name != "" {
				fmt.Fprintf(p.w, " %s", param.Name)
			}
		}
		fmt.Fprint(p.w, ")")
		if e.Anonymous {
			fmt.Fprint(p.w, " anonymous")
		}
		fmt.Fprintln(p.w, ";")
	case *UsingDirective:
		p.printUsing(e)
	case *FunctionDefinition:
		p.printFunction(e)
	case *ModifierDefinition:
		fmt.Fprintf(p.w, "modifier %s", e.Name)
		if e.Params != nil {
			fmt.Fprint(p.w, "(")
			p.printParams(e.Params)
			fmt.Fprint(p.w, ")")
		}
		if e.Virtual {
			fmt.Fprint(p.w, " virtual")
		}
		p.printOverrides(e.Overrides)
		p.printOptionalBody(e.Body)
	case *StateVariableDeclaration:
		p.printType(e.Type)
		if e.Visibility != "" {
			fmt.Fprintf(p.w, " %s", e.Visibility)
		}
		if e.Constant {
			fmt.Fprint(p.w, " constant")
		}
		if e.Immutable {
			fmt.Fprint(p.w, " immutable")
		}
		if e.Transient {
			fmt.Fprint(p.w, " transient")
		}
		p.printOverrides(e.Overrides)
		fmt.Fprintf(p.w, " %s", e.Name)
		if e.Value != nil {
			fmt.Fprint(p.w, " = ")
			p.printExpr(e.Value)
		}
		fmt.Fprintln(p.w, ";")
	default:
		fmt.Fprintf(p.w, "/* unknown element %T */\n", el)
	}
}

func (p *Printer) printUsing(u *UsingDirective) {
	fmt.Fprint(p.w, "using ")
	if u.Library != nil {
		fmt.Fprint(p.w, u.Library)
	} else {
		fmt.Fprint(p.w, "{")
		for i, f := range u.Functions {
			if i > 0 {
				fmt.Fprint(p.w, ", ")
			}
			fmt.Fprint(p.w, f.Path)
			if f.Operator != "" {
				fmt.Fprintf(p.w, " as %s", f.Operator)
			}
		}
		fmt.Fprint(p.w, "}")
	}
	fmt.Fprint(p.w, " for ")
	if u.Target == nil {
		fmt.Fprint(p.w, "*")
	} else {
		p.printType(u.Target)
	}
	if u.Global {
		fmt.Fprint(p.w, " global")
	}
	fmt.Fprintln(p.w, ";")
}

func (p *Printer) printFunction(f *FunctionDefinition) {
	switch f.Kind {
	case FuncFunction:
		fmt.Fprintf(p.w, "function %s(", f.Name)
	default:
		fmt.Fprintf(p.w, "%s(", f.Kind)
	}
	p.printParams(f.Params)
	fmt.Fprint(p.w, ")")
	if f.Visibility != "" {
		fmt.Fprintf(p.w, " %s", f.Visibility)
	}
	if f.Mutability != "" {
		fmt.Fprintf(p.w, " %s", f.Mutability)
	}
	if f.Virtual {
		fmt.Fprint(p.w, " virtual")
	}
	p.printOverrides(f.Overrides)
	for _, m := range f.Modifiers {
		fmt.Fprintf(p.w, " %s", m.Path)
		if m.Args != nil {
			p.printArgs(m.Args)
		}
	}
	if f.Returns != nil {
		fmt.Fprint(p.w, " returns (")
		p.printParams(f.Returns)
		fmt.Fprint(p.w, ")")
	}
	p.printOptionalBody(f.Body)
}

func (p *Printer) printOptionalBody(b *Block) {
	if b == nil {
		fmt.Fprintln(p.w, ";")
		return
	}
	fmt.Fprint(p.w, " ")
	p.printBlockBody(b)
}

func (p *Printer) printOverrides(o *OverrideSpecifier) {
	if o == nil {
		return
	}
	fmt.Fprint(p.w, " override")
	if len(o.Bases) > 0 {
		fmt.Fprint(p.w, "(")
		for i, b := range o.Bases {
			if i > 0 {
				fmt.Fprint(p.w, ", ")
			}
			fmt.Fprint(p.w, b)
		}
		fmt.Fprint(p.w, ")")
	}
}

func (p *Printer) printParams(params []*Parameter) {
	for i, param := range params {
		if i > 0 {
			fmt.Fprint(p.w, ", ")
		}
		p.printType(param.Type)
		if param.Location != "" {
			fmt.Fprintf(p.w, " %s", param.Location)
		}
		if param.Name != "" {
			fmt.Fprintf(p.w, " %s", param.Name)
		}
	}
}

// printBlockBody prints '{', the statements and '}' starting at the current
// column.
func (p *Printer) printBlockBody(b *Block) {
	if b.Unchecked {
		fmt.Fprint(p.w, "unchecked ")
	}
	fmt.Fprintln(p.w, "{")
	p.indent++
	for _, s := range b.Stmts {
		p.printStmt(s)
	}
	p.indent--
	p.writeIndent()
	fmt.Fprintln(p.w, "}")
}

func (p *Printer) printStmt(stmt Stmt) {
	p.writeIndent()
	p.printStmtInline(stmt)
}

// printStmtInline prints a statement without leading indentation.
func (p *Printer) printStmtInline(stmt Stmt) {
	switch s := stmt.(type) {
	case *Block:
		p.printBlockBody(s)
	case *VariableDeclarationStatement:
		p.printVarDecl(s)
		fmt.Fprintln(p.w, ";")
	case *ExpressionStatement:
		p.printExpr(s.X)
		fmt.Fprintln(p.w, ";")
	case *IfStatement:
		fmt.Fprint(p.w, "if (")
		p.printExpr(s.Cond)
		fmt.Fprintln(p.w, ")")
		p.indent++
		p.printStmt(s.Then)
		p.indent--
		if s.Else != nil {
			p.writeIndent()
			fmt.Fprintln(p.w, "else")
			p.indent++
			p.printStmt(s.Else)
			p.indent--
		}
	case *ForStatement:
		fmt.Fprint(p.w, "for (")
		switch init := s.Init.(type) {
		case *VariableDeclarationStatement:
			p.printVarDecl(init)
		case *ExpressionStatement:
			p.printExpr(init.X)
		}
		fmt.Fprint(p.w, "; ")
		if s.Cond != nil {
			p.printExpr(s.Cond)
		}
		fmt.Fprint(p.w, "; ")
		if s.Post != nil {
			p.printExpr(s.Post)
		}
		fmt.Fprintln(p.w, ")")
		p.indent++
		p.printStmt(s.Body)
		p.indent--
	case *WhileStatement:
		fmt.Fprint(p.w, "while (")
		p.printExpr(s.Cond)
		fmt.Fprintln(p.w, ")")
		p.indent++
		p.printStmt(s.Body)
		p.indent--
	case *DoWhileStatement:
		fmt.Fprintln(p.w, "do")
		p.indent++
		p.printStmt(s.Body)
		p.indent--
		p.writeIndent()
		fmt.Fprint(p.w, "while (")
		p.printExpr(s.Cond)
		fmt.Fprintln(p.w, ");")
	case *ContinueStatement:
		fmt.Fprintln(p.w, "continue;")
	case *BreakStatement:
		fmt.Fprintln(p.w, "break;")
	case *TryStatement:
		fmt.Fprint(p.w, "try ")
		p.printExpr(s.Call)
		if s.Returns != nil {
			fmt.Fprint(p.w, " returns (")
			p.printParams(s.Returns)
			fmt.Fprint(p.w, ")")
		}
		fmt.Fprint(p.w, " ")
		p.printBlockBody(s.Body)
		for _, c := range s.Catches {
			p.writeIndent()
			fmt.Fprint(p.w, "catch ")
			if c.Name != "" {
				fmt.Fprint(p.w, c.Name)
			}
			if c.Params != nil {
				fmt.Fprint(p.w, "(")
				p.printParams(c.Params)
				fmt.Fprint(p.w, ") ")
			}
			p.printBlockBody(c.Body)
		}
	case *ReturnStatement:
		fmt.Fprint(p.w, "return")
		if s.Value != nil {
			fmt.Fprint(p.w, " ")
			p.printExpr(s.Value)
		}
		fmt.Fprintln(p.w, ";")
	case *EmitStatement:
		fmt.Fprint(p.w, "emit ")
		p.printExpr(s.Event)
		p.printArgs(s.Args)
		fmt.Fprintln(p.w, ";")
	case *RevertStatement:
		fmt.Fprint(p.w, "revert ")
		p.printExpr(s.Error)
		p.printArgs(s.Args)
		fmt.Fprintln(p.w, ";")
	case *AssemblyStatement:
		fmt.Fprint(p.w, "assembly ")
		if s.Dialect != "" {
			fmt.Fprintf(p.w, "%q ", s.Dialect)
		}
		if len(s.Flags) > 0 {
			fmt.Fprint(p.w, "(")
			for i, f := range s.Flags {
				if i > 0 {
					fmt.Fprint(p.w, ", ")
				}
				fmt.Fprintf(p.w, "%q", f)
			}
			fmt.Fprint(p.w, ") ")
		}
		p.printYulBlockBody(s.Body)
	default:
		fmt.Fprintf(p.w, "/* unknown statement %T */\n", stmt)
	}
}

func (p *Printer) printVarDecl(s *VariableDeclarationStatement) {
	if s.Tuple {
		fmt.Fprint(p.w, "(")
		for i, d := range s.Decls {
			if i > 0 {
				fmt.Fprint(p.w, ", ")
			}
			if d != nil {
				p.printDecl(d)
			}
		}
		fmt.Fprint(p.w, ")")
	} else {
		p.printDecl(s.Decls[0])
	}
	if s.Value != nil {
		fmt.Fprint(p.w, " = ")
		p.printExpr(s.Value)
	}
}

func (p *Printer) printDecl(d *VariableDeclaration) {
	p.printType(d.Type)
	if d.Location != "" {
		fmt.Fprintf(p.w, " %s", d.Location)
	}
	fmt.Fprintf(p.w, " %s", d.Name)
}

func (p *Printer) printType(t TypeName) {
	switch t := t.(type) {
	case *ElementaryType:
		fmt.Fprint(p.w, t.Name)
		if t.Payable {
			fmt.Fprint(p.w, " payable")
		}
	case *UserDefinedType:
		fmt.Fprint(p.w, t.Path)
	case *MappingType:
		fmt.Fprint(p.w, "mapping(")
		p.printType(t.Key)
		if t.KeyName != "" {
			fmt.Fprintf(p.w, " %s", t.KeyName)
		}
		fmt.Fprint(p.w, " => ")
		p.printType(t.Value)
		if t.ValueName != "" {
			fmt.Fprintf(p.w, " %s", t.ValueName)
		}
		fmt.Fprint(p.w, ")")
	case *FunctionType:
		fmt.Fprint(p.w, "function(")
		p.printParams(t.Params)
		fmt.Fprint(p.w, ")")
		if t.Visibility != "" {
			fmt.Fprintf(p.w, " %s", t.Visibility)
		}
		if t.Mutability != "" {
			fmt.Fprintf(p.w, " %s", t.Mutability)
		}
		if t.Returns != nil {
			fmt.Fprint(p.w, " returns (")
			p.printParams(t.Returns)
			fmt.Fprint(p.w, ")")
		}
	case *ArrayType:
		p.printType(t.Elem)
		fmt.Fprint(p.w, "[")
		if t.Length != nil {
			p.printExpr(t.Length)
		}
		fmt.Fprint(p.w, "]")
	default:
		fmt.Fprintf(p.w, "/* unknown type %T */", t)
	}
}

func (p *Printer) printArgs(a *CallArguments) {
	fmt.Fprint(p.w, "(")
	if a.IsNamed {
		fmt.Fprint(p.w, "{")
		p.printNamed(a.Named)
		fmt.Fprint(p.w, "}")
	} else {
		p.printExprList(a.Positional)
	}
	fmt.Fprint(p.w, ")")
}

func (p *Printer) printNamed(args []*NamedArgument) {
	for i, arg := range args {
		if i > 0 {
			fmt.Fprint(p.w, ", ")
		}
		fmt.Fprintf(p.w, "%s: ", arg.Name)
		p.printExpr(arg.Value)
	}
}

// printExprList prints a comma-separated list; nil entries print as empty
// slots.
func (p *Printer) printExprList(list []Expr) {
	for i, e := range list {
		if i > 0 {
			fmt.Fprint(p.w, ", ")
		}
		if e != nil {
			p.printExpr(e)
		}
	}
}

func (p *Printer) printExpr(expr Expr) {
	switch e := expr.(type) {
	case *Identifier:
		fmt.Fprint(p.w, e.Name)
	case *BoolLiteral:
		fmt.Fprint(p.w, e.Value)
	case *NumberLiteral:
		fmt.Fprint(p.w, e.Value)
		if e.Unit != "" {
			fmt.Fprintf(p.w, " %s", e.Unit)
		}
	case *StringLiteral:
		switch e.Kind {
		case StringUnicode:
			fmt.Fprint(p.w, "unicode")
		case StringHex:
			fmt.Fprint(p.w, "hex")
		}
		fmt.Fprintf(p.w, "\"%s\"", e.Value)
	case *ElementaryTypeExpr:
		p.printType(e.Type)
	case *IndexAccess:
		p.printExpr(e.Base)
		fmt.Fprint(p.w, "[")
		if e.Index != nil {
			p.printExpr(e.Index)
		}
		fmt.Fprint(p.w, "]")
	case *IndexRangeAccess:
		p.printExpr(e.Base)
		fmt.Fprint(p.w, "[")
		if e.Start != nil {
			p.printExpr(e.Start)
		}
		fmt.Fprint(p.w, ":")
		if e.End != nil {
			p.printExpr(e.End)
		}
		fmt.Fprint(p.w, "]")
	case *MemberAccess:
		p.printExpr(e.X)
		fmt.Fprintf(p.w, ".%s", e.Member)
	case *CallOptions:
		p.printExpr(e.Callee)
		fmt.Fprint(p.w, "{")
		p.printNamed(e.Options)
		fmt.Fprint(p.w, "}")
	case *Call:
		p.printExpr(e.Callee)
		p.printArgs(e.Args)
	case *PayableConversion:
		fmt.Fprint(p.w, "payable")
		p.printArgs(e.Args)
	case *MetaType:
		fmt.Fprint(p.w, "type(")
		p.printType(e.Type)
		fmt.Fprint(p.w, ")")
	case *UnaryPrefix:
		if e.Op == "delete" {
			fmt.Fprint(p.w, "(delete ")
		} else {
			fmt.Fprintf(p.w, "(%s", e.Op)
		}
		p.printExpr(e.X)
		fmt.Fprint(p.w, ")")
	case *UnarySuffix:
		fmt.Fprint(p.w, "(")
		p.printExpr(e.X)
		fmt.Fprintf(p.w, "%s)", e.Op)
	case Binary:
		op, l, r := e.Operands()
		fmt.Fprint(p.w, "(")
		p.printExpr(l)
		fmt.Fprintf(p.w, " %s ", op)
		p.printExpr(r)
		fmt.Fprint(p.w, ")")
	case *Conditional:
		fmt.Fprint(p.w, "(")
		p.printExpr(e.Cond)
		fmt.Fprint(p.w, " ? ")
		p.printExpr(e.Then)
		fmt.Fprint(p.w, " : ")
		p.printExpr(e.Else)
		fmt.Fprint(p.w, ")")
	case *NewExpr:
		fmt.Fprint(p.w, "new ")
		p.printType(e.Type)
	case *TupleExpr:
		fmt.Fprint(p.w, "(")
		p.printExprList(e.Elems)
		fmt.Fprint(p.w, ")")
	case *InlineArray:
		fmt.Fprint(p.w, "[")
		p.printExprList(e.Elems)
		fmt.Fprint(p.w, "]")
	default:
		fmt.Fprintf(p.w, "/* unknown expression %T */", expr)
	}
}

func (p *Printer) printYulBlockBody(b *YulBlock) {
	fmt.Fprintln(p.w, "{")
	p.indent++
	for _, s := range b.Stmts {
		p.writeIndent()
		p.printYulStmt(s)
	}
	p.indent--
	p.writeIndent()
	fmt.Fprintln(p.w, "}")
}

func (p *Printer) printYulStmt(stmt YulStmt) {
	switch s := stmt.(type) {
	case *YulBlock:
		p.printYulBlockBody(s)
	case *YulVariableDeclaration:
		fmt.Fprintf(p.w, "let %s", strings.Join(s.Names, ", "))
		if s.Value != nil {
			fmt.Fprint(p.w, " := ")
			p.printYulExpr(s.Value)
		}
		fmt.Fprintln(p.w)
	case *YulAssignment:
		for i, t := range s.Targets {
			if i > 0 {
				fmt.Fprint(p.w, ", ")
			}
			p.printYulExpr(t)
		}
		fmt.Fprint(p.w, " := ")
		p.printYulExpr(s.Value)
		fmt.Fprintln(p.w)
	case *YulExpressionStatement:
		p.printYulExpr(s.Call)
		fmt.Fprintln(p.w)
	case *YulIf:
		fmt.Fprint(p.w, "if ")
		p.printYulExpr(s.Cond)
		fmt.Fprint(p.w, " ")
		p.printYulBlockBody(s.Body)
	case *YulFor:
		fmt.Fprint(p.w, "for ")
		p.printYulInline(s.Init)
		fmt.Fprint(p.w, " ")
		p.printYulExpr(s.Cond)
		fmt.Fprint(p.w, " ")
		p.printYulInline(s.Post)
		fmt.Fprint(p.w, " ")
		p.printYulBlockBody(s.Body)
	case *YulSwitch:
		fmt.Fprint(p.w, "switch ")
		p.printYulExpr(s.Expr)
		fmt.Fprintln(p.w)
		for _, c := range s.Cases {
			p.writeIndent()
			fmt.Fprint(p.w, "case ")
			p.printYulExpr(c.Value)
			fmt.Fprint(p.w, " ")
			p.printYulBlockBody(c.Body)
		}
		if s.Default != nil {
			p.writeIndent()
			fmt.Fprint(p.w, "default ")
			p.printYulBlockBody(s.Default)
		}
	case *YulLeave:
		fmt.Fprintln(p.w, "leave")
	case *YulBreak:
		fmt.Fprintln(p.w, "break")
	case *YulContinue:
		fmt.Fprintln(p.w, "continue")
	case *YulFunctionDefinition:
		fmt.Fprintf(p.w, "function %s(%s)", s.Name, strings.Join(s.Params, ", "))
		if len(s.Returns) > 0 {
			fmt.Fprintf(p.w, " -> %s", strings.Join(s.Returns, ", "))
		}
		fmt.Fprint(p.w, " ")
		p.printYulBlockBody(s.Body)
	default:
		fmt.Fprintf(p.w, "/* unknown assembly statement %T */\n", stmt)
	}
}

// printYulInline prints a block on one line, as used in for-loop headers.
func (p *Printer) printYulInline(b *YulBlock) {
	var sb strings.Builder
	inner := &Printer{w: &sb}
	for i, s := range b.Stmts {
		if i > 0 {
			sb.WriteString(" ")
		}
		inner.printYulStmt(s)
	}
	fmt.Fprintf(p.w, "{ %s }", strings.ReplaceAll(strings.TrimSpace(sb.String()), "\n", " "))
}

func (p *Printer) printYulExpr(expr YulExpr) {
	switch e := expr.(type) {
	case *YulPath:
		fmt.Fprint(p.w, strings.Join(e.Parts, "."))
	case *YulLiteral:
		fmt.Fprint(p.w, e.Value)
	case *YulCall:
		fmt.Fprintf(p.w, "%s(", e.Name)
		for i, a := range e.Args {
			if i > 0 {
				fmt.Fprint(p.w, ", ")
			}
			p.printYulExpr(a)
		}
		fmt.Fprint(p.w, ")")
	default:
		fmt.Fprintf(p.w, "/* unknown assembly expression %T */", expr)
	}
}
