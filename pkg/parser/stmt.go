package parser

import (
	"github.com/raymyers/ralph-sol/pkg/ast"
	"github.com/raymyers/ralph-sol/pkg/diag"
	"github.com/raymyers/ralph-sol/pkg/lexer"
)

// parseBlock parses a plain block. An unchecked block is only allowed as
// an item directly inside another block.
func (p *Parser) parseBlock() *ast.Block {
	start := p.expect(lexer.LBrace).Span.Start
	block := &ast.Block{}
	for !p.at(lexer.RBrace) && !p.at(lexer.EOF) {
		if p.at(lexer.Unchecked) {
			block.Stmts = append(block.Stmts, p.parseUncheckedBlock())
			continue
		}
		block.Stmts = append(block.Stmts, p.parseStatement())
	}
	p.expect(lexer.RBrace)
	block.Loc = p.spanFrom(start)
	return block
}

func (p *Parser) parseUncheckedBlock() *ast.Block {
	start := p.next().Span.Start
	block := p.parseBlock()
	block.Unchecked = true
	block.Loc = p.spanFrom(start)
	return block
}

func (p *Parser) parseStatement() ast.Stmt {
	switch p.cur().Kind {
	case lexer.LBrace:
		return p.parseBlock()
	case lexer.If:
		return p.parseIf()
	case lexer.For:
		return p.parseFor()
	case lexer.While:
		return p.parseWhile()
	case lexer.Do:
		return p.parseDoWhile()
	case lexer.Continue:
		start := p.next().Span.Start
		p.expect(lexer.Semicolon)
		return &ast.ContinueStatement{Loc: p.spanFrom(start)}
	case lexer.Break:
		start := p.next().Span.Start
		p.expect(lexer.Semicolon)
		return &ast.BreakStatement{Loc: p.spanFrom(start)}
	case lexer.Try:
		return p.parseTry()
	case lexer.Return:
		return p.parseReturn()
	case lexer.Emit:
		return p.parseEmit()
	case lexer.Assembly:
		return p.parseAssembly()
	}
	if p.atContextual("revert") && isIdent(p.peek(1).Kind) {
		return p.parseRevert()
	}
	return p.parseSimpleStatement()
}

// parseSimpleStatement parses a variable declaration or an expression
// statement, trying the declaration first.
func (p *Parser) parseSimpleStatement() ast.Stmt {
	start := p.cur().Span.Start
	if decl := p.tryVariableDeclaration(); decl != nil {
		decl.Loc = p.spanFrom(start)
		return decl
	}
	x := p.parseExpression()
	p.expect(lexer.Semicolon)
	return &ast.ExpressionStatement{Loc: p.spanFrom(start), X: x}
}

// tryVariableDeclaration parses a declaration statement if one starts here
// and returns nil otherwise, leaving the cursor unchanged. Only the binders are
// parsed speculatively; once they match, errors in the initializer are
// reported normally.
func (p *Parser) tryVariableDeclaration() *ast.VariableDeclarationStatement {
	var stmt *ast.VariableDeclarationStatement
	switch {
	case p.at(lexer.LParen):
		p.speculate(func() {
			decls := p.parseTupleBinders()
			p.expect(lexer.Assign)
			stmt = &ast.VariableDeclarationStatement{Decls: decls, Tuple: true}
		})
		if stmt == nil {
			return nil
		}
		stmt.Value = p.parseExpression()
	case p.atTypeStart():
		p.speculate(func() {
			decl := p.parseVariableDeclaration()
			if !p.at(lexer.Assign) && !p.at(lexer.Semicolon) {
				p.errorExpected("'=' or ';'")
			}
			stmt = &ast.VariableDeclarationStatement{Decls: []*ast.VariableDeclaration{decl}}
		})
		if stmt == nil {
			return nil
		}
		if p.accept(lexer.Assign) {
			stmt.Value = p.parseExpression()
		}
	default:
		return nil
	}
	p.expect(lexer.Semicolon)
	return stmt
}

func (p *Parser) parseVariableDeclaration() *ast.VariableDeclaration {
	start := p.cur().Span.Start
	decl := &ast.VariableDeclaration{Type: p.parseTypeName()}
	if isDataLocation(p.cur().Kind) {
		decl.Location = p.next().Text
	}
	decl.Name = p.ident()
	decl.Loc = p.spanFrom(start)
	return decl
}

// parseTupleBinders parses '(T a, , T b)'. At least one slot must hold a
// declaration.
func (p *Parser) parseTupleBinders() []*ast.VariableDeclaration {
	p.expect(lexer.LParen)
	var decls []*ast.VariableDeclaration
	named := 0
	for {
		var d *ast.VariableDeclaration
		if !p.at(lexer.Comma) && !p.at(lexer.RParen) {
			d = p.parseVariableDeclaration()
			named++
		}
		decls = append(decls, d)
		if !p.accept(lexer.Comma) {
			break
		}
	}
	p.expect(lexer.RParen)
	if named == 0 {
		p.errorExpected("variable declaration")
	}
	return decls
}

func (p *Parser) parseIf() *ast.IfStatement {
	start := p.next().Span.Start
	p.expect(lexer.LParen)
	s := &ast.IfStatement{Cond: p.parseExpression()}
	p.expect(lexer.RParen)
	s.Then = p.parseStatement()
	if p.accept(lexer.Else) {
		s.Else = p.parseStatement()
	}
	s.Loc = p.spanFrom(start)
	return s
}

func (p *Parser) parseFor() *ast.ForStatement {
	start := p.next().Span.Start
	s := &ast.ForStatement{}
	p.expect(lexer.LParen)
	if !p.accept(lexer.Semicolon) {
		s.Init = p.parseSimpleStatement()
	}
	if !p.at(lexer.Semicolon) {
		s.Cond = p.parseExpression()
	}
	p.expect(lexer.Semicolon)
	if !p.at(lexer.RParen) {
		s.Post = p.parseExpression()
	}
	p.expect(lexer.RParen)
	s.Body = p.parseStatement()
	s.Loc = p.spanFrom(start)
	return s
}

func (p *Parser) parseWhile() *ast.WhileStatement {
	start := p.next().Span.Start
	p.expect(lexer.LParen)
	s := &ast.WhileStatement{Cond: p.parseExpression()}
	p.expect(lexer.RParen)
	s.Body = p.parseStatement()
	s.Loc = p.spanFrom(start)
	return s
}

func (p *Parser) parseDoWhile() *ast.DoWhileStatement {
	start := p.next().Span.Start
	s := &ast.DoWhileStatement{Body: p.parseStatement()}
	p.expect(lexer.While)
	p.expect(lexer.LParen)
	s.Cond = p.parseExpression()
	p.expect(lexer.RParen)
	p.expect(lexer.Semicolon)
	s.Loc = p.spanFrom(start)
	return s
}

func (p *Parser) parseTry() *ast.TryStatement {
	start := p.next().Span.Start
	s := &ast.TryStatement{}
	call := p.parseExpression()
	if _, ok := call.(*ast.Call); !ok {
		p.fail(diag.CodeNotCallable, call.Span(), "try expression must be a function call")
	}
	s.Call = call
	if p.accept(lexer.Returns) {
		s.Returns = p.parseNonEmptyParameterList()
	}
	s.Body = p.parseBlock()
	if !p.at(lexer.Catch) {
		p.errorExpected("'catch'")
	}
	for p.at(lexer.Catch) {
		catchStart := p.next().Span.Start
		c := &ast.CatchClause{}
		if p.atIdent() {
			c.Name = p.next().Text
		}
		if c.Name != "" || p.at(lexer.LParen) {
			c.Params = p.parseNonEmptyParameterList()
		}
		c.Body = p.parseBlock()
		c.Loc = p.spanFrom(catchStart)
		s.Catches = append(s.Catches, c)
	}
	s.Loc = p.spanFrom(start)
	return s
}

func (p *Parser) parseReturn() *ast.ReturnStatement {
	start := p.next().Span.Start
	s := &ast.ReturnStatement{}
	if !p.at(lexer.Semicolon) {
		s.Value = p.parseExpression()
	}
	p.expect(lexer.Semicolon)
	s.Loc = p.spanFrom(start)
	return s
}

// parseEventCall parses the 'Name(args)' part shared by emit and revert.
func (p *Parser) parseEventCall(what string) (ast.Expr, *ast.CallArguments) {
	x := p.parseExpression()
	call, ok := x.(*ast.Call)
	if !ok {
		p.fail(diag.CodeNotCallable, x.Span(), "%s requires a call", what)
	}
	return call.Callee, call.Args
}

func (p *Parser) parseEmit() *ast.EmitStatement {
	start := p.next().Span.Start
	s := &ast.EmitStatement{}
	s.Event, s.Args = p.parseEventCall("emit")
	p.expect(lexer.Semicolon)
	s.Loc = p.spanFrom(start)
	return s
}

func (p *Parser) parseRevert() *ast.RevertStatement {
	start := p.next().Span.Start
	s := &ast.RevertStatement{}
	s.Error, s.Args = p.parseEventCall("revert")
	p.expect(lexer.Semicolon)
	s.Loc = p.spanFrom(start)
	return s
}

func (p *Parser) parseAssembly() *ast.AssemblyStatement {
	start := p.next().Span.Start
	s := &ast.AssemblyStatement{}
	if p.at(lexer.AssemblyDialect) {
		s.Dialect = unquote(p.next().Text)
	}
	if p.accept(lexer.LParen) {
		for {
			s.Flags = append(s.Flags, unquote(p.expect(lexer.AssemblyFlag).Text))
			if !p.accept(lexer.Comma) {
				break
			}
		}
		p.expect(lexer.RParen)
	}
	s.Body = p.parseYulBlock()
	s.Loc = p.spanFrom(start)
	return s
}
