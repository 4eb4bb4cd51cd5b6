package parser

import (
	"github.com/raymyers/ralph-sol/pkg/ast"
	"github.com/raymyers/ralph-sol/pkg/diag"
	"github.com/raymyers/ralph-sol/pkg/lexer"
)

// Inline assembly. The tokens come from the lexer's LowLevel mode, so
// keywords here are the Yul* kinds.

func (p *Parser) parseYulBlock() *ast.YulBlock {
	start := p.expect(lexer.LBrace).Span.Start
	b := &ast.YulBlock{}
	for !p.at(lexer.RBrace) && !p.at(lexer.EOF) {
		b.Stmts = append(b.Stmts, p.parseYulStatement())
	}
	p.expect(lexer.RBrace)
	b.Loc = p.spanFrom(start)
	return b
}

func (p *Parser) parseYulStatement() ast.YulStmt {
	tok := p.cur()
	switch tok.Kind {
	case lexer.LBrace:
		return p.parseYulBlock()
	case lexer.YulLet:
		return p.parseYulLet()
	case lexer.YulIf:
		p.next()
		s := &ast.YulIf{Cond: p.parseYulExpression()}
		s.Body = p.parseYulBlock()
		s.Loc = p.spanFrom(tok.Span.Start)
		return s
	case lexer.YulFor:
		p.next()
		s := &ast.YulFor{Init: p.parseYulBlock()}
		s.Cond = p.parseYulExpression()
		s.Post = p.parseYulBlock()
		s.Body = p.parseYulBlock()
		s.Loc = p.spanFrom(tok.Span.Start)
		return s
	case lexer.YulSwitch:
		return p.parseYulSwitch()
	case lexer.YulLeave:
		p.next()
		return &ast.YulLeave{Loc: tok.Span}
	case lexer.YulBreak:
		p.next()
		return &ast.YulBreak{Loc: tok.Span}
	case lexer.YulContinue:
		p.next()
		return &ast.YulContinue{Loc: tok.Span}
	case lexer.YulFunction:
		return p.parseYulFunction()
	case lexer.YulBuiltin:
		call := p.parseYulCall()
		return &ast.YulExpressionStatement{Loc: call.Loc, Call: call}
	case lexer.YulIdentifier:
		if p.peek(1).Kind == lexer.LParen {
			call := p.parseYulCall()
			return &ast.YulExpressionStatement{Loc: call.Loc, Call: call}
		}
		return p.parseYulAssignment()
	}
	p.fail(diag.CodeUnexpected, tok.Span, "unexpected %s at start of assembly statement", tok.Describe())
	return nil
}

// parseYulLet parses 'let a := e' or 'let a, b := f()'. The value is
// optional; with several names it must be a call.
func (p *Parser) parseYulLet() *ast.YulVariableDeclaration {
	start := p.next().Span.Start
	d := &ast.YulVariableDeclaration{}
	for {
		d.Names = append(d.Names, p.expect(lexer.YulIdentifier).Text)
		if !p.accept(lexer.Comma) {
			break
		}
	}
	if p.accept(lexer.YulAssign) {
		if len(d.Names) > 1 {
			d.Value = p.parseYulCall()
		} else {
			d.Value = p.parseYulExpression()
		}
	}
	d.Loc = p.spanFrom(start)
	return d
}

func (p *Parser) parseYulAssignment() *ast.YulAssignment {
	start := p.cur().Span.Start
	a := &ast.YulAssignment{}
	for {
		a.Targets = append(a.Targets, p.parseYulPath())
		if !p.accept(lexer.Comma) {
			break
		}
	}
	p.expect(lexer.YulAssign)
	if len(a.Targets) > 1 {
		a.Value = p.parseYulCall()
	} else {
		a.Value = p.parseYulExpression()
	}
	a.Loc = p.spanFrom(start)
	return a
}

// parseYulSwitch parses a switch with one or more cases and at most one
// default, or a lone default which is rejected.
func (p *Parser) parseYulSwitch() *ast.YulSwitch {
	start := p.next().Span.Start
	s := &ast.YulSwitch{Expr: p.parseYulExpression()}
	for p.at(lexer.YulCase) {
		caseStart := p.next().Span.Start
		c := &ast.YulCase{Value: p.parseYulLiteral()}
		c.Body = p.parseYulBlock()
		c.Loc = p.spanFrom(caseStart)
		s.Cases = append(s.Cases, c)
	}
	if p.accept(lexer.YulDefault) {
		s.Default = p.parseYulBlock()
	}
	s.Loc = p.spanFrom(start)
	switch {
	case len(s.Cases) == 0 && s.Default == nil:
		p.errorExpected("'case' or 'default'")
	case len(s.Cases) == 0:
		p.fail(diag.CodeCardinality, s.Loc, "switch statement with only a default case")
	case p.at(lexer.YulDefault):
		p.fail(diag.CodeCardinality, p.cur().Span, "switch statement with more than one default case")
	case p.at(lexer.YulCase):
		p.fail(diag.CodeCardinality, p.cur().Span, "case after the default case")
	}
	return s
}

func (p *Parser) parseYulFunction() *ast.YulFunctionDefinition {
	start := p.next().Span.Start
	f := &ast.YulFunctionDefinition{Name: p.expect(lexer.YulIdentifier).Text}
	p.expect(lexer.LParen)
	if !p.at(lexer.RParen) {
		for {
			f.Params = append(f.Params, p.expect(lexer.YulIdentifier).Text)
			if !p.accept(lexer.Comma) {
				break
			}
		}
	}
	p.expect(lexer.RParen)
	if p.accept(lexer.RightArrow) {
		for {
			f.Returns = append(f.Returns, p.expect(lexer.YulIdentifier).Text)
			if !p.accept(lexer.Comma) {
				break
			}
		}
	}
	f.Body = p.parseYulBlock()
	f.Loc = p.spanFrom(start)
	return f
}

func (p *Parser) parseYulExpression() ast.YulExpr {
	switch tok := p.cur(); tok.Kind {
	case lexer.YulBuiltin:
		return p.parseYulCall()
	case lexer.YulIdentifier:
		if p.peek(1).Kind == lexer.LParen {
			return p.parseYulCall()
		}
		return p.parseYulPath()
	case lexer.YulDecimalNumber, lexer.YulHexNumber, lexer.YulStringLiteral,
		lexer.YulHexString, lexer.YulTrue, lexer.YulFalse:
		return p.parseYulLiteral()
	}
	p.errorExpected("assembly expression")
	return nil
}

func (p *Parser) parseYulCall() *ast.YulCall {
	tok := p.cur()
	if tok.Kind != lexer.YulIdentifier && tok.Kind != lexer.YulBuiltin {
		p.errorExpected("function call")
	}
	p.next()
	call := &ast.YulCall{Name: tok.Text, Builtin: tok.Kind == lexer.YulBuiltin}
	p.expect(lexer.LParen)
	if !p.at(lexer.RParen) {
		for {
			call.Args = append(call.Args, p.parseYulExpression())
			if !p.accept(lexer.Comma) {
				break
			}
		}
	}
	p.expect(lexer.RParen)
	call.Loc = p.spanFrom(tok.Span.Start)
	return call
}

// parseYulPath parses 'a' or 'a.b.c'. Members after a dot may be any word,
// as in x.slot or x.address.
func (p *Parser) parseYulPath() *ast.YulPath {
	tok := p.expect(lexer.YulIdentifier)
	path := &ast.YulPath{Parts: []string{tok.Text}}
	for p.accept(lexer.Period) {
		member := p.cur()
		if member.Kind != lexer.YulIdentifier && member.Kind != lexer.YulBuiltin {
			p.errorExpected("identifier")
		}
		path.Parts = append(path.Parts, p.next().Text)
	}
	path.Loc = p.spanFrom(tok.Span.Start)
	return path
}

func (p *Parser) parseYulLiteral() *ast.YulLiteral {
	tok := p.cur()
	lit := &ast.YulLiteral{Loc: tok.Span, Value: tok.Text}
	switch tok.Kind {
	case lexer.YulDecimalNumber:
		lit.Kind = ast.YulNumber
	case lexer.YulHexNumber:
		lit.Kind = ast.YulHexNumber
	case lexer.YulStringLiteral:
		lit.Kind = ast.YulString
	case lexer.YulHexString:
		lit.Kind = ast.YulHexString
	case lexer.YulTrue, lexer.YulFalse:
		lit.Kind = ast.YulBool
	default:
		p.errorExpected("literal")
	}
	p.next()
	return lit
}
