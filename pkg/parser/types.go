package parser

import (
	"github.com/raymyers/ralph-sol/pkg/ast"
	"github.com/raymyers/ralph-sol/pkg/lexer"
)

// atTypeStart reports whether a type name can begin at the current token.
func (p *Parser) atTypeStart() bool {
	switch p.cur().Kind {
	case lexer.ElementaryType, lexer.Mapping, lexer.Function, lexer.Identifier, lexer.From:
		return true
	}
	return false
}

func (p *Parser) parseTypeName() ast.TypeName {
	start := p.cur().Span.Start
	var t ast.TypeName
	switch p.cur().Kind {
	case lexer.ElementaryType:
		t = p.parseElementaryType(true)
	case lexer.Mapping:
		t = p.parseMapping()
	case lexer.Function:
		t = p.parseFunctionType()
	case lexer.Identifier, lexer.From:
		path := p.parseIdentifierPath()
		t = &ast.UserDefinedType{Loc: path.Loc, Path: path}
	default:
		p.errorExpected("type name")
	}
	for p.accept(lexer.LBrack) {
		arr := &ast.ArrayType{Elem: t}
		if !p.at(lexer.RBrack) {
			arr.Length = p.parseExpression()
		}
		p.expect(lexer.RBrack)
		arr.Loc = p.spanFrom(start)
		t = arr
	}
	return t
}

// parseElementaryType parses a built-in type name. 'address payable' is only
// accepted in type position.
func (p *Parser) parseElementaryType(allowPayable bool) *ast.ElementaryType {
	tok := p.expect(lexer.ElementaryType)
	t := &ast.ElementaryType{Name: tok.Text}
	if allowPayable && tok.Text == "address" && p.accept(lexer.Payable) {
		t.Payable = true
	}
	t.Loc = p.spanFrom(tok.Span.Start)
	return t
}

func (p *Parser) parseMapping() *ast.MappingType {
	start := p.next().Span.Start
	m := &ast.MappingType{}
	p.expect(lexer.LParen)
	switch {
	case p.at(lexer.ElementaryType):
		m.Key = p.parseElementaryType(false)
	case p.atIdent():
		path := p.parseIdentifierPath()
		m.Key = &ast.UserDefinedType{Loc: path.Loc, Path: path}
	default:
		p.errorExpected("mapping key type")
	}
	if p.atIdent() {
		m.KeyName = p.next().Text
	}
	p.expect(lexer.DoubleArrow)
	m.Value = p.parseTypeName()
	if p.atIdent() {
		m.ValueName = p.next().Text
	}
	p.expect(lexer.RParen)
	m.Loc = p.spanFrom(start)
	return m
}

func (p *Parser) parseFunctionType() *ast.FunctionType {
	start := p.next().Span.Start
	f := &ast.FunctionType{Params: p.parseParameterList()}
	for {
		if isVisibility(p.cur().Kind) {
			f.Visibility = p.next().Text
		} else if isMutability(p.cur().Kind) {
			f.Mutability = p.next().Text
		} else {
			break
		}
	}
	if p.accept(lexer.Returns) {
		f.Returns = p.parseNonEmptyParameterList()
	}
	f.Loc = p.spanFrom(start)
	return f
}

func isDataLocation(k lexer.Kind) bool {
	switch k {
	case lexer.Memory, lexer.Storage, lexer.Calldata:
		return true
	}
	return false
}

// parseParameterList parses '(' [param {',' param}] ')'. The result is never
// nil.
func (p *Parser) parseParameterList() []*ast.Parameter {
	p.expect(lexer.LParen)
	params := []*ast.Parameter{}
	if p.accept(lexer.RParen) {
		return params
	}
	for {
		params = append(params, p.parseParameter())
		if !p.accept(lexer.Comma) {
			break
		}
	}
	p.expect(lexer.RParen)
	return params
}

// parseNonEmptyParameterList parses the lists after 'returns' and in a
// catch clause, which need at least one parameter.
func (p *Parser) parseNonEmptyParameterList() []*ast.Parameter {
	if p.at(lexer.LParen) && p.peek(1).Kind == lexer.RParen {
		p.next()
		p.errorExpected("parameter")
	}
	return p.parseParameterList()
}

func (p *Parser) parseParameter() *ast.Parameter {
	start := p.cur().Span.Start
	param := &ast.Parameter{Type: p.parseTypeName()}
	if isDataLocation(p.cur().Kind) {
		param.Location = p.next().Text
	}
	if p.atIdent() {
		param.Name = p.next().Text
	}
	param.Loc = p.spanFrom(start)
	return param
}
