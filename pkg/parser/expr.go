package parser

import (
	"strings"

	"github.com/raymyers/ralph-sol/pkg/ast"
	"github.com/raymyers/ralph-sol/pkg/diag"
	"github.com/raymyers/ralph-sol/pkg/lexer"
)

// binaryLevel is one precedence level of binary operators.
type binaryLevel struct {
	ops   []lexer.Kind
	right bool
	build func(span diag.Span, op ast.Operator, left, right ast.Expr) ast.Expr
}

func (l binaryLevel) matches(k lexer.Kind) bool {
	for _, op := range l.ops {
		if op == k {
			return true
		}
	}
	return false
}

// binaryLevels lists the binary operators from lowest to highest precedence.
// Assignment and the conditional sit below the first level; prefix and
// postfix operators sit above the last.
var binaryLevels = []binaryLevel{
	{ops: []lexer.Kind{lexer.Or}, build: func(s diag.Span, op ast.Operator, l, r ast.Expr) ast.Expr {
		return &ast.OrOp{Loc: s, Op: op, Left: l, Right: r}
	}},
	{ops: []lexer.Kind{lexer.And}, build: func(s diag.Span, op ast.Operator, l, r ast.Expr) ast.Expr {
		return &ast.AndOp{Loc: s, Op: op, Left: l, Right: r}
	}},
	{ops: []lexer.Kind{lexer.Equal, lexer.NotEqual}, build: func(s diag.Span, op ast.Operator, l, r ast.Expr) ast.Expr {
		return &ast.EqualityComparison{Loc: s, Op: op, Left: l, Right: r}
	}},
	{ops: []lexer.Kind{lexer.LessThan, lexer.GreaterThan, lexer.LessEqual, lexer.GreaterEqual}, build: func(s diag.Span, op ast.Operator, l, r ast.Expr) ast.Expr {
		return &ast.OrderComparison{Loc: s, Op: op, Left: l, Right: r}
	}},
	{ops: []lexer.Kind{lexer.BitOr}, build: func(s diag.Span, op ast.Operator, l, r ast.Expr) ast.Expr {
		return &ast.BitOr{Loc: s, Op: op, Left: l, Right: r}
	}},
	{ops: []lexer.Kind{lexer.BitXor}, build: func(s diag.Span, op ast.Operator, l, r ast.Expr) ast.Expr {
		return &ast.BitXor{Loc: s, Op: op, Left: l, Right: r}
	}},
	{ops: []lexer.Kind{lexer.BitAnd}, build: func(s diag.Span, op ast.Operator, l, r ast.Expr) ast.Expr {
		return &ast.BitAnd{Loc: s, Op: op, Left: l, Right: r}
	}},
	{ops: []lexer.Kind{lexer.Shl, lexer.Sar, lexer.Shr}, build: func(s diag.Span, op ast.Operator, l, r ast.Expr) ast.Expr {
		return &ast.Shift{Loc: s, Op: op, Left: l, Right: r}
	}},
	{ops: []lexer.Kind{lexer.Add, lexer.Sub}, build: func(s diag.Span, op ast.Operator, l, r ast.Expr) ast.Expr {
		return &ast.AddSub{Loc: s, Op: op, Left: l, Right: r}
	}},
	{ops: []lexer.Kind{lexer.Mul, lexer.Div, lexer.Mod}, build: func(s diag.Span, op ast.Operator, l, r ast.Expr) ast.Expr {
		return &ast.MulDivMod{Loc: s, Op: op, Left: l, Right: r}
	}},
	{ops: []lexer.Kind{lexer.Exp}, right: true, build: func(s diag.Span, op ast.Operator, l, r ast.Expr) ast.Expr {
		return &ast.ExpOp{Loc: s, Op: op, Left: l, Right: r}
	}},
}

func isAssignOp(k lexer.Kind) bool {
	switch k {
	case lexer.Assign, lexer.AssignBitOr, lexer.AssignBitXor, lexer.AssignBitAnd,
		lexer.AssignShl, lexer.AssignSar, lexer.AssignShr, lexer.AssignAdd,
		lexer.AssignSub, lexer.AssignMul, lexer.AssignDiv, lexer.AssignMod:
		return true
	}
	return false
}

func isPrefixOp(k lexer.Kind) bool {
	switch k {
	case lexer.Inc, lexer.Dec, lexer.Not, lexer.BitNot, lexer.Delete, lexer.Sub:
		return true
	}
	return false
}

// parseExpression parses an assignment, the lowest precedence level.
func (p *Parser) parseExpression() ast.Expr {
	left := p.parseConditional()
	if isAssignOp(p.cur().Kind) {
		op := p.next()
		right := p.parseExpression()
		return &ast.Assignment{Loc: left.Span().To(right.Span()), Op: ast.Operator(op.Text), Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseConditional() ast.Expr {
	cond := p.parseBinary(0)
	if !p.accept(lexer.Question) {
		return cond
	}
	then := p.parseExpression()
	p.expect(lexer.Colon)
	els := p.parseConditional()
	return &ast.Conditional{Loc: cond.Span().To(els.Span()), Cond: cond, Then: then, Else: els}
}

func (p *Parser) parseBinary(level int) ast.Expr {
	if level == len(binaryLevels) {
		return p.parseUnary()
	}
	lvl := binaryLevels[level]
	left := p.parseBinary(level + 1)
	for lvl.matches(p.cur().Kind) {
		op := p.next()
		var right ast.Expr
		if lvl.right {
			right = p.parseBinary(level)
		} else {
			right = p.parseBinary(level + 1)
		}
		left = lvl.build(left.Span().To(right.Span()), ast.Operator(op.Text), left, right)
	}
	return left
}

func (p *Parser) parseUnary() ast.Expr {
	if isPrefixOp(p.cur().Kind) {
		op := p.next()
		x := p.parseUnary()
		return &ast.UnaryPrefix{Loc: op.Span.To(x.Span()), Op: ast.Operator(op.Text), X: x}
	}
	x := p.parseSuffixes(p.parsePrimary())
	for p.at(lexer.Inc) || p.at(lexer.Dec) {
		op := p.next()
		x = &ast.UnarySuffix{Loc: x.Span().To(op.Span), Op: ast.Operator(op.Text), X: x}
	}
	return x
}

// atCallOptions reports whether '{' opens call options. The brace must be
// followed by 'name :' so that a block after a call stays a block.
func (p *Parser) atCallOptions() bool {
	return p.at(lexer.LBrace) && isIdent(p.peek(1).Kind) && p.peek(2).Kind == lexer.Colon
}

func (p *Parser) parseSuffixes(x ast.Expr) ast.Expr {
	start := x.Span().Start
	for {
		switch {
		case p.accept(lexer.LBrack):
			x = p.parseIndexSuffix(x, start)
		case p.accept(lexer.Period):
			var member string
			if tok := p.cur(); tok.Kind == lexer.ElementaryType && tok.Text == "address" {
				member = p.next().Text
			} else {
				member = p.ident()
			}
			x = &ast.MemberAccess{Loc: p.spanFrom(start), X: x, Member: member}
		case p.atCallOptions():
			p.next()
			opts := p.parseNamedArguments()
			x = &ast.CallOptions{Loc: p.spanFrom(start), Callee: x, Options: opts}
		case p.at(lexer.LParen):
			args := p.parseCallArguments()
			x = &ast.Call{Loc: p.spanFrom(start), Callee: x, Args: args}
		default:
			return x
		}
	}
}

// parseIndexSuffix parses what follows '[': 'e[]', 'e[i]' or a range with
// optional bounds.
func (p *Parser) parseIndexSuffix(base ast.Expr, start diag.Pos) ast.Expr {
	if p.accept(lexer.RBrack) {
		return &ast.IndexAccess{Loc: p.spanFrom(start), Base: base}
	}
	var first ast.Expr
	if !p.at(lexer.Colon) {
		first = p.parseExpression()
	}
	if !p.accept(lexer.Colon) {
		p.expect(lexer.RBrack)
		return &ast.IndexAccess{Loc: p.spanFrom(start), Base: base, Index: first}
	}
	r := &ast.IndexRangeAccess{Base: base, Start: first}
	if !p.at(lexer.RBrack) {
		r.End = p.parseExpression()
	}
	p.expect(lexer.RBrack)
	r.Loc = p.spanFrom(start)
	return r
}

// parseNamedArguments parses 'name: value, ...' up to and including the
// closing '}'. The opening brace has been consumed.
func (p *Parser) parseNamedArguments() []*ast.NamedArgument {
	args := []*ast.NamedArgument{}
	if p.accept(lexer.RBrace) {
		return args
	}
	for {
		start := p.cur().Span.Start
		name := p.ident()
		p.expect(lexer.Colon)
		value := p.parseExpression()
		args = append(args, &ast.NamedArgument{Loc: p.spanFrom(start), Name: name, Value: value})
		if !p.accept(lexer.Comma) {
			break
		}
	}
	p.expect(lexer.RBrace)
	return args
}

// parseCallArguments parses '(' args ')' where args is either a positional
// list or a single braced list of named arguments.
func (p *Parser) parseCallArguments() *ast.CallArguments {
	start := p.expect(lexer.LParen).Span.Start
	args := &ast.CallArguments{}
	switch {
	case p.accept(lexer.LBrace):
		args.IsNamed = true
		args.Named = p.parseNamedArguments()
	case !p.at(lexer.RParen):
		for {
			args.Positional = append(args.Positional, p.parseExpression())
			if !p.accept(lexer.Comma) {
				break
			}
		}
	}
	p.expect(lexer.RParen)
	args.Loc = p.spanFrom(start)
	return args
}

func (p *Parser) parsePrimary() ast.Expr {
	tok := p.cur()
	switch tok.Kind {
	case lexer.Identifier, lexer.From:
		p.next()
		return &ast.Identifier{Loc: tok.Span, Name: tok.Text}
	case lexer.True, lexer.False:
		p.next()
		return &ast.BoolLiteral{Loc: tok.Span, Value: tok.Kind == lexer.True}
	case lexer.DecimalNumber, lexer.HexNumber:
		p.next()
		n := &ast.NumberLiteral{Value: tok.Text, Hex: tok.Kind == lexer.HexNumber}
		if p.at(lexer.NumberUnit) {
			n.Unit = p.next().Text
		}
		n.Loc = p.spanFrom(tok.Span.Start)
		return n
	case lexer.StringLiteral:
		return p.parseStringLiteral(ast.StringPlain, 0)
	case lexer.UnicodeString:
		return p.parseStringLiteral(ast.StringUnicode, len("unicode"))
	case lexer.HexString:
		return p.parseStringLiteral(ast.StringHex, len("hex"))
	case lexer.ElementaryType:
		t := p.parseElementaryType(false)
		return &ast.ElementaryTypeExpr{Loc: t.Loc, Type: t}
	case lexer.Payable:
		p.next()
		args := p.parseCallArguments()
		return &ast.PayableConversion{Loc: p.spanFrom(tok.Span.Start), Args: args}
	case lexer.Type:
		p.next()
		p.expect(lexer.LParen)
		t := p.parseTypeName()
		p.expect(lexer.RParen)
		return &ast.MetaType{Loc: p.spanFrom(tok.Span.Start), Type: t}
	case lexer.NewKeyword:
		p.next()
		t := p.parseTypeName()
		return &ast.NewExpr{Loc: p.spanFrom(tok.Span.Start), Type: t}
	case lexer.LParen:
		return p.parseTuple()
	case lexer.LBrack:
		p.next()
		arr := &ast.InlineArray{}
		for {
			arr.Elems = append(arr.Elems, p.parseExpression())
			if !p.accept(lexer.Comma) {
				break
			}
		}
		p.expect(lexer.RBrack)
		arr.Loc = p.spanFrom(tok.Span.Start)
		return arr
	}
	p.errorExpected("expression")
	return nil
}

// parseStringLiteral joins adjacent literal tokens of the same kind into one
// literal. prefix is the length of the kind's prefix before the quote.
func (p *Parser) parseStringLiteral(kind ast.StringKind, prefix int) *ast.StringLiteral {
	k := p.cur().Kind
	start := p.cur().Span.Start
	var sb strings.Builder
	lit := &ast.StringLiteral{Kind: kind}
	for p.at(k) {
		text := p.next().Text
		sb.WriteString(text[prefix+1 : len(text)-1])
		lit.Parts++
	}
	lit.Value = sb.String()
	lit.Loc = p.spanFrom(start)
	return lit
}

// parseTuple parses a parenthesised list whose elements may be empty, as in
// '(a, , b)'.
func (p *Parser) parseTuple() *ast.TupleExpr {
	start := p.next().Span.Start
	tuple := &ast.TupleExpr{}
	if p.accept(lexer.RParen) {
		tuple.Loc = p.spanFrom(start)
		return tuple
	}
	for {
		var e ast.Expr
		if !p.at(lexer.Comma) && !p.at(lexer.RParen) {
			e = p.parseExpression()
		}
		tuple.Elems = append(tuple.Elems, e)
		if !p.accept(lexer.Comma) {
			break
		}
	}
	p.expect(lexer.RParen)
	tuple.Loc = p.spanFrom(start)
	return tuple
}
