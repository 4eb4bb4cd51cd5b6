// Package parser implements a recursive descent parser for contract source
// units.
//
// The parser works over the visible token slice produced by the lexer. It
// looks at one token at a time except in three places: call options need two
// tokens of lookahead, and variable declarations are told apart from
// expression statements by parsing speculatively and rewinding on failure.
// Parsing stops at the first error.
package parser

import (
	"io"
	"log/slog"

	"github.com/raymyers/ralph-sol/pkg/ast"
	"github.com/raymyers/ralph-sol/pkg/diag"
	"github.com/raymyers/ralph-sol/pkg/lexer"
)

// Parser parses a token slice into an AST. A Parser is single use.
type Parser struct {
	toks     []lexer.Token
	pos      int
	rep      *diag.Reporter
	logger   *slog.Logger
	restrict bool

	// speculating is non-zero while a rewindable attempt is running. Errors
	// raised then unwind without being reported.
	speculating int
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the debug logger. A nil logger is ignored.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithContractRestrictions rejects body elements that interfaces and
// libraries may not contain: state variables and constructors in interfaces,
// and mutable state variables, constructors, fallback and receive functions
// in libraries.
func WithContractRestrictions(on bool) Option {
	return func(p *Parser) {
		p.restrict = on
	}
}

// bailout unwinds the parser after an error has been recorded.
type bailout struct{}

// New creates a Parser for the given tokens. Suppressed tokens are dropped and
// an EOF token is appended if missing.
func New(tokens []lexer.Token, opts ...Option) *Parser {
	p := &Parser{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.rep = diag.NewReporter(p.logger)
	p.setTokens(tokens)
	return p
}

func (p *Parser) setTokens(tokens []lexer.Token) {
	toks := lexer.Visible(tokens)
	if len(toks) == 0 || toks[len(toks)-1].Kind != lexer.EOF {
		var end diag.Pos
		if len(toks) > 0 {
			end = toks[len(toks)-1].Span.End
		}
		toks = append(toks, lexer.Token{Kind: lexer.EOF, Span: diag.Span{Start: end, End: end}})
	}
	p.toks = toks
	p.pos = 0
}

// ParseFile tokenizes and parses src. On success the diagnostics are empty;
// otherwise the unit is nil and there is exactly one diagnostic.
func ParseFile(src string, opts ...Option) (*ast.SourceUnit, []diag.Diagnostic) {
	p := New(nil, opts...)
	if !p.lex(src) {
		return nil, p.Diagnostics()
	}
	unit := p.ParseSourceUnit()
	return unit, p.Diagnostics()
}

// ParseExpression parses src as a single expression.
func ParseExpression(src string, opts ...Option) (ast.Expr, []diag.Diagnostic) {
	p := New(nil, opts...)
	if !p.lex(src) {
		return nil, p.Diagnostics()
	}
	e := p.ParseExpr()
	return e, p.Diagnostics()
}

func (p *Parser) lex(src string) bool {
	toks, err := lexer.New(src, lexer.WithLogger(p.logger), lexer.WithReporter(p.rep)).Tokenize()
	if err != nil {
		return false
	}
	p.setTokens(toks)
	return true
}

// Diagnostics returns the errors recorded so far.
func (p *Parser) Diagnostics() []diag.Diagnostic {
	return p.rep.Diagnostics()
}

// ParseSourceUnit parses the whole token slice. It returns nil if a syntax
// error was found.
func (p *Parser) ParseSourceUnit() (unit *ast.SourceUnit) {
	defer p.recover(func() { unit = nil })

	start := p.cur().Span.Start
	unit = &ast.SourceUnit{}
	for !p.at(lexer.EOF) {
		unit.Items = append(unit.Items, p.parseSourceItem())
	}
	unit.Loc = diag.Span{Start: start, End: p.cur().Span.End}
	p.logger.Debug("parsed source unit", slog.Int("items", len(unit.Items)), slog.Int("tokens", len(p.toks)))
	return unit
}

// ParseExpr parses one expression that must span the whole token slice.
func (p *Parser) ParseExpr() (e ast.Expr) {
	defer p.recover(func() { e = nil })

	e = p.parseExpression()
	p.expect(lexer.EOF)
	return e
}

func (p *Parser) recover(onBailout func()) {
	if r := recover(); r != nil {
		if _, ok := r.(bailout); !ok {
			panic(r)
		}
		onBailout()
	}
}

// Token helpers

func (p *Parser) cur() lexer.Token {
	return p.toks[p.pos]
}

// peek returns the token n positions ahead, clamped to EOF.
func (p *Parser) peek(n int) lexer.Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *Parser) at(k lexer.Kind) bool {
	return p.toks[p.pos].Kind == k
}

// next consumes the current token and returns it. EOF is never consumed.
func (p *Parser) next() lexer.Token {
	tok := p.toks[p.pos]
	if tok.Kind != lexer.EOF {
		p.pos++
	}
	return tok
}

func (p *Parser) accept(k lexer.Kind) bool {
	if p.at(k) {
		p.next()
		return true
	}
	return false
}

func (p *Parser) expect(k lexer.Kind) lexer.Token {
	if !p.at(k) {
		p.errorExpected(k.String())
	}
	return p.next()
}

// last returns the most recently consumed token.
func (p *Parser) last() lexer.Token {
	if p.pos == 0 {
		return p.toks[0]
	}
	return p.toks[p.pos-1]
}

// spanFrom returns the span from start to the end of the last consumed token.
func (p *Parser) spanFrom(start diag.Pos) diag.Span {
	return diag.Span{Start: start, End: p.last().Span.End}
}

// Errors

func (p *Parser) fail(code string, span diag.Span, format string, args ...any) {
	if p.speculating == 0 {
		p.rep.Syntax(code, span, format, args...)
	}
	panic(bailout{})
}

func (p *Parser) errorExpected(what string) {
	tok := p.cur()
	p.fail(diag.CodeExpected, tok.Span, "expected %s, got %s", what, tok.Describe())
}

// speculate runs f and reports whether it finished without error. On failure
// the cursor is rewound and nothing is reported.
func (p *Parser) speculate(f func()) (ok bool) {
	saved := p.pos
	p.speculating++
	defer func() {
		p.speculating--
		if r := recover(); r != nil {
			if _, isBailout := r.(bailout); !isBailout {
				panic(r)
			}
			p.pos = saved
			ok = false
		}
	}()
	f()
	return true
}

// Identifiers

// atIdent reports whether the current token can serve as an identifier.
// 'from' is a keyword but is accepted wherever a name is expected.
func (p *Parser) atIdent() bool {
	return isIdent(p.cur().Kind)
}

func isIdent(k lexer.Kind) bool {
	return k == lexer.Identifier || k == lexer.From
}

// atContextual reports whether the current token is the plain identifier
// word, such as 'error' or 'global'.
func (p *Parser) atContextual(word string) bool {
	tok := p.cur()
	return tok.Kind == lexer.Identifier && tok.Text == word
}

func (p *Parser) ident() string {
	if !p.atIdent() {
		p.errorExpected("identifier")
	}
	return p.next().Text
}

func (p *Parser) parseIdentifierPath() *ast.IdentifierPath {
	start := p.cur().Span.Start
	path := &ast.IdentifierPath{Parts: []string{p.ident()}}
	for p.at(lexer.Period) && isIdent(p.peek(1).Kind) {
		p.next()
		path.Parts = append(path.Parts, p.ident())
	}
	path.Loc = p.spanFrom(start)
	return path
}

// Source units

func (p *Parser) parseSourceItem() ast.SourceItem {
	switch tok := p.cur(); tok.Kind {
	case lexer.Pragma:
		return p.parsePragma()
	case lexer.Import:
		return p.parseImport()
	case lexer.Abstract, lexer.Contract, lexer.Interface, lexer.Library:
		return p.parseContract()
	case lexer.Struct:
		return p.parseStruct()
	case lexer.Enum:
		return p.parseEnum()
	case lexer.Type:
		return p.parseUserDefinedValueType()
	case lexer.Event:
		return p.parseEvent()
	case lexer.Using:
		return p.parseUsing()
	case lexer.Function:
		if p.peek(1).Kind != lexer.LParen {
			return p.parseFunction()
		}
	}
	if p.atErrorDefinition() {
		return p.parseError()
	}
	return p.parseConstant()
}

func (p *Parser) parsePragma() *ast.PragmaDirective {
	start := p.next().Span.Start
	pragma := &ast.PragmaDirective{}
	for p.at(lexer.PragmaToken) {
		pragma.Tokens = append(pragma.Tokens, p.next().Text)
	}
	if len(pragma.Tokens) == 0 {
		p.errorExpected("pragma name")
	}
	p.expect(lexer.Semicolon)
	pragma.Loc = p.spanFrom(start)
	return pragma
}

func (p *Parser) parseImport() *ast.ImportDirective {
	start := p.next().Span.Start
	imp := &ast.ImportDirective{}
	switch {
	case p.at(lexer.StringLiteral):
		imp.Path = unquote(p.next().Text)
		if p.accept(lexer.As) {
			imp.UnitAlias = p.ident()
		}
	case p.accept(lexer.Mul):
		imp.Wildcard = true
		p.expect(lexer.As)
		imp.UnitAlias = p.ident()
		p.expect(lexer.From)
		imp.Path = unquote(p.expect(lexer.StringLiteral).Text)
	case p.accept(lexer.LBrace):
		imp.Symbols = []ast.ImportSymbol{}
		for {
			sym := ast.ImportSymbol{Name: p.ident()}
			if p.accept(lexer.As) {
				sym.Alias = p.ident()
			}
			imp.Symbols = append(imp.Symbols, sym)
			if !p.accept(lexer.Comma) {
				break
			}
		}
		p.expect(lexer.RBrace)
		p.expect(lexer.From)
		imp.Path = unquote(p.expect(lexer.StringLiteral).Text)
	default:
		p.errorExpected("import path")
	}
	p.expect(lexer.Semicolon)
	imp.Loc = p.spanFrom(start)
	return imp
}

func (p *Parser) parseContract() *ast.ContractDefinition {
	start := p.cur().Span.Start
	c := &ast.ContractDefinition{}
	if p.accept(lexer.Abstract) {
		c.Abstract = true
		p.expect(lexer.Contract)
	} else {
		switch p.next().Kind {
		case lexer.Interface:
			c.Kind = ast.KindInterface
		case lexer.Library:
			c.Kind = ast.KindLibrary
		}
	}
	c.Name = p.ident()

	if c.Kind != ast.KindLibrary && p.accept(lexer.Is) {
		for {
			specStart := p.cur().Span.Start
			base := &ast.InheritanceSpecifier{Base: p.parseIdentifierPath()}
			if p.at(lexer.LParen) {
				base.Args = p.parseCallArguments()
			}
			base.Loc = p.spanFrom(specStart)
			c.Bases = append(c.Bases, base)
			if !p.accept(lexer.Comma) {
				break
			}
		}
	}

	p.expect(lexer.LBrace)
	for !p.at(lexer.RBrace) && !p.at(lexer.EOF) {
		el := p.parseBodyElement()
		if p.restrict {
			p.checkRestricted(c.Kind, el)
		}
		c.Body = append(c.Body, el)
	}
	p.expect(lexer.RBrace)
	c.Loc = p.spanFrom(start)
	return c
}

func (p *Parser) checkRestricted(kind ast.ContractKind, el ast.BodyElement) {
	if kind == ast.KindContract {
		return
	}
	var what string
	switch el := el.(type) {
	case *ast.StateVariableDeclaration:
		if kind == ast.KindInterface || !el.Constant {
			what = "state variable"
		}
	case *ast.FunctionDefinition:
		switch {
		case el.Kind == ast.FuncConstructor:
			what = "constructor"
		case kind == ast.KindLibrary && el.Kind == ast.FuncFallback:
			what = "fallback function"
		case kind == ast.KindLibrary && el.Kind == ast.FuncReceive:
			what = "receive function"
		}
	}
	if what != "" {
		p.fail(diag.CodeRestricted, el.Span(), "%s not allowed in %s", what, kind)
	}
}

func (p *Parser) parseBodyElement() ast.BodyElement {
	switch p.cur().Kind {
	case lexer.Function:
		if p.peek(1).Kind == lexer.LParen {
			return p.parseStateVariable()
		}
		return p.parseFunction()
	case lexer.Constructor, lexer.Fallback, lexer.Receive:
		return p.parseFunction()
	case lexer.Modifier:
		return p.parseModifier()
	case lexer.Struct:
		return p.parseStruct()
	case lexer.Enum:
		return p.parseEnum()
	case lexer.Type:
		return p.parseUserDefinedValueType()
	case lexer.Event:
		return p.parseEvent()
	case lexer.Using:
		return p.parseUsing()
	}
	if p.atErrorDefinition() {
		return p.parseError()
	}
	return p.parseStateVariable()
}

// atErrorDefinition recognises 'error Name(' where error is a plain
// identifier.
func (p *Parser) atErrorDefinition() bool {
	return p.atContextual("error") && isIdent(p.peek(1).Kind) && p.peek(2).Kind == lexer.LParen
}

func (p *Parser) parseStruct() *ast.StructDefinition {
	start := p.next().Span.Start
	s := &ast.StructDefinition{Name: p.ident()}
	p.expect(lexer.LBrace)
	for {
		memberStart := p.cur().Span.Start
		member := &ast.VariableDeclaration{Type: p.parseTypeName()}
		member.Name = p.ident()
		p.expect(lexer.Semicolon)
		member.Loc = p.spanFrom(memberStart)
		s.Members = append(s.Members, member)
		if p.at(lexer.RBrace) {
			break
		}
	}
	p.expect(lexer.RBrace)
	s.Loc = p.spanFrom(start)
	return s
}

func (p *Parser) parseEnum() *ast.EnumDefinition {
	start := p.next().Span.Start
	e := &ast.EnumDefinition{Name: p.ident()}
	p.expect(lexer.LBrace)
	for {
		e.Members = append(e.Members, p.ident())
		if !p.accept(lexer.Comma) {
			break
		}
	}
	p.expect(lexer.RBrace)
	e.Loc = p.spanFrom(start)
	return e
}

func (p *Parser) parseUserDefinedValueType() *ast.UserDefinedValueType {
	start := p.next().Span.Start
	u := &ast.UserDefinedValueType{Name: p.ident()}
	p.expect(lexer.Is)
	u.Underlying = p.parseElementaryType(false)
	p.expect(lexer.Semicolon)
	u.Loc = p.spanFrom(start)
	return u
}

func (p *Parser) parseError() *ast.ErrorDefinition {
	start := p.next().Span.Start
	e := &ast.ErrorDefinition{Name: p.ident()}
	e.Params = p.parseParameterList()
	p.expect(lexer.Semicolon)
	e.Loc = p.spanFrom(start)
	return e
}

func (p *Parser) parseEvent() *ast.EventDefinition {
	start := p.next().Span.Start
	e := &ast.EventDefinition{Name: p.ident()}
	p.expect(lexer.LParen)
	if !p.at(lexer.RParen) {
		for {
			paramStart := p.cur().Span.Start
			param := &ast.EventParameter{Type: p.parseTypeName()}
			param.Indexed = p.accept(lexer.Indexed)
			if p.atIdent() {
				param.Name = p.next().Text
			}
			param.Loc = p.spanFrom(paramStart)
			e.Params = append(e.Params, param)
			if !p.accept(lexer.Comma) {
				break
			}
		}
	}
	p.expect(lexer.RParen)
	e.Anonymous = p.accept(lexer.Anonymous)
	p.expect(lexer.Semicolon)
	e.Loc = p.spanFrom(start)
	return e
}

// usingOperators are the operators a function may be bound to with 'as'.
var usingOperators = map[lexer.Kind]bool{
	lexer.BitOr: true, lexer.BitAnd: true, lexer.BitXor: true, lexer.BitNot: true,
	lexer.Add: true, lexer.Sub: true, lexer.Mul: true, lexer.Div: true, lexer.Mod: true,
	lexer.Equal: true, lexer.NotEqual: true, lexer.LessThan: true, lexer.GreaterThan: true,
	lexer.LessEqual: true, lexer.GreaterEqual: true,
}

func (p *Parser) parseUsing() *ast.UsingDirective {
	start := p.next().Span.Start
	u := &ast.UsingDirective{}
	if p.accept(lexer.LBrace) {
		for {
			alias := ast.UsingAlias{Path: p.parseIdentifierPath()}
			if p.accept(lexer.As) {
				if !usingOperators[p.cur().Kind] {
					p.errorExpected("user-definable operator")
				}
				alias.Operator = p.next().Text
			}
			u.Functions = append(u.Functions, alias)
			if !p.accept(lexer.Comma) {
				break
			}
		}
		p.expect(lexer.RBrace)
	} else {
		u.Library = p.parseIdentifierPath()
	}
	p.expect(lexer.For)
	if !p.accept(lexer.Mul) {
		u.Target = p.parseTypeName()
	}
	if p.atContextual("global") {
		p.next()
		u.Global = true
	}
	p.expect(lexer.Semicolon)
	u.Loc = p.spanFrom(start)
	return u
}

func (p *Parser) parseConstant() *ast.ConstantVariableDeclaration {
	start := p.cur().Span.Start
	c := &ast.ConstantVariableDeclaration{Type: p.parseTypeName()}
	p.expect(lexer.Constant)
	c.Name = p.ident()
	p.expect(lexer.Assign)
	c.Value = p.parseExpression()
	p.expect(lexer.Semicolon)
	c.Loc = p.spanFrom(start)
	return c
}

func (p *Parser) parseStateVariable() *ast.StateVariableDeclaration {
	start := p.cur().Span.Start
	v := &ast.StateVariableDeclaration{Type: p.parseTypeName()}
	for {
		switch tok := p.cur(); {
		case isVisibility(tok.Kind):
			v.Visibility = p.next().Text
			continue
		case tok.Kind == lexer.Constant:
			p.next()
			v.Constant = true
			continue
		case tok.Kind == lexer.Immutable:
			p.next()
			v.Immutable = true
			continue
		case tok.Kind == lexer.Override:
			v.Overrides = p.parseOverride()
			continue
		case p.atContextual("transient") && isIdent(p.peek(1).Kind):
			p.next()
			v.Transient = true
			continue
		}
		break
	}
	v.Name = p.ident()
	if p.accept(lexer.Assign) {
		v.Value = p.parseExpression()
	}
	p.expect(lexer.Semicolon)
	v.Loc = p.spanFrom(start)
	return v
}

func isVisibility(k lexer.Kind) bool {
	switch k {
	case lexer.Public, lexer.Private, lexer.Internal, lexer.External:
		return true
	}
	return false
}

func isMutability(k lexer.Kind) bool {
	switch k {
	case lexer.Pure, lexer.View, lexer.Payable:
		return true
	}
	return false
}

func (p *Parser) parseFunction() *ast.FunctionDefinition {
	start := p.cur().Span.Start
	f := &ast.FunctionDefinition{}
	switch p.next().Kind {
	case lexer.Constructor:
		f.Kind = ast.FuncConstructor
	case lexer.Fallback:
		f.Kind = ast.FuncFallback
	case lexer.Receive:
		f.Kind = ast.FuncReceive
	default:
		switch p.cur().Kind {
		case lexer.Fallback, lexer.Receive:
			f.Name = p.next().Text
		default:
			f.Name = p.ident()
		}
	}
	f.Params = p.parseParameterList()

header:
	for {
		tok := p.cur()
		switch {
		case isVisibility(tok.Kind):
			f.Visibility = p.next().Text
		case isMutability(tok.Kind):
			f.Mutability = p.next().Text
		case tok.Kind == lexer.Virtual:
			p.next()
			f.Virtual = true
		case tok.Kind == lexer.Override:
			f.Overrides = p.parseOverride()
		case isIdent(tok.Kind):
			f.Modifiers = append(f.Modifiers, p.parseModifierInvocation())
		default:
			break header
		}
	}
	if p.accept(lexer.Returns) {
		f.Returns = p.parseNonEmptyParameterList()
	}
	if !p.accept(lexer.Semicolon) {
		f.Body = p.parseBlock()
	}
	f.Loc = p.spanFrom(start)
	return f
}

func (p *Parser) parseModifierInvocation() *ast.ModifierInvocation {
	start := p.cur().Span.Start
	m := &ast.ModifierInvocation{Path: p.parseIdentifierPath()}
	if p.at(lexer.LParen) {
		m.Args = p.parseCallArguments()
	}
	m.Loc = p.spanFrom(start)
	return m
}

func (p *Parser) parseOverride() *ast.OverrideSpecifier {
	start := p.next().Span.Start
	o := &ast.OverrideSpecifier{}
	if p.accept(lexer.LParen) {
		for {
			o.Bases = append(o.Bases, p.parseIdentifierPath())
			if !p.accept(lexer.Comma) {
				break
			}
		}
		p.expect(lexer.RParen)
	}
	o.Loc = p.spanFrom(start)
	return o
}

func (p *Parser) parseModifier() *ast.ModifierDefinition {
	start := p.next().Span.Start
	m := &ast.ModifierDefinition{Name: p.ident()}
	if p.at(lexer.LParen) {
		m.Params = p.parseParameterList()
	}
	for {
		if p.accept(lexer.Virtual) {
			m.Virtual = true
		} else if p.at(lexer.Override) {
			m.Overrides = p.parseOverride()
		} else {
			break
		}
	}
	if !p.accept(lexer.Semicolon) {
		m.Body = p.parseBlock()
	}
	m.Loc = p.spanFrom(start)
	return m
}

func unquote(s string) string {
	if len(s) >= 2 {
		return s[1 : len(s)-1]
	}
	return s
}
