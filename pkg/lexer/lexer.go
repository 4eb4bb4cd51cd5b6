// Package lexer tokenizes contract source text.
//
// The tokenizer keeps an explicit stack of modes. Default covers ordinary
// code, Pragma turns a pragma directive into opaque chunks, AssemblyBlock
// reads the header of an inline assembly statement and LowLevel covers the
// untyped assembly language inside it. Transitions are pushes and pops
// triggered by specific tokens.
package lexer

import (
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/raymyers/ralph-sol/pkg/diag"
)

// Lexer tokenizes one source text. A Lexer is single use.
type Lexer struct {
	input  string
	pos    int
	line   int
	column int
	modes  modeStack
	rep    *diag.Reporter
	logger *slog.Logger
}

// Option configures a Lexer.
type Option func(*Lexer)

// WithLogger sets the debug logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Lexer) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithReporter makes the lexer report into a shared reporter.
func WithReporter(rep *diag.Reporter) Option {
	return func(l *Lexer) {
		if rep != nil {
			l.rep = rep
		}
	}
}

// New creates a Lexer for input with a mode stack of [Default].
func New(input string, opts ...Option) *Lexer {
	l := &Lexer{
		input:  input,
		line:   1,
		column: 1,
		modes:  newModeStack(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.rep == nil {
		l.rep = diag.NewReporter(l.logger)
	}
	return l
}

// Modes returns a copy of the current mode stack, bottom first.
func (l *Lexer) Modes() []Mode {
	out := make([]Mode, len(l.modes))
	copy(out, l.modes)
	return out
}

// Tokenize consumes the whole input. The result includes suppressed tokens and
// ends with an EOF token. The error, if any, is a *diag.Diagnostic.
func (l *Lexer) Tokenize() ([]Token, error) {
	var toks []Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Kind == EOF {
			l.logger.Debug("tokenized", slog.Int("tokens", len(toks)), slog.Int("bytes", len(l.input)))
			return toks, nil
		}
	}
}

// NextToken returns the next token in the current mode.
func (l *Lexer) NextToken() (Token, error) {
	if l.pos >= len(l.input) {
		if len(l.modes) > 1 {
			span := l.spanFrom(l.here())
			return Token{}, l.rep.Lexical(diag.CodeUnbalancedModes, span,
				"unexpected end of input inside %s block", l.modes.top())
		}
		return Token{Kind: EOF, Span: l.spanFrom(l.here()), Mode: ModeDefault}, nil
	}
	switch l.modes.top() {
	case ModePragma:
		return l.lexPragma()
	case ModeAssemblyBlock:
		return l.lexAssemblyBlock()
	case ModeLowLevel:
		return l.lexLowLevel()
	}
	return l.lexDefault()
}

func (l *Lexer) here() diag.Pos {
	return diag.Pos{Offset: l.pos, Line: l.line, Column: l.column}
}

func (l *Lexer) spanFrom(start diag.Pos) diag.Span {
	return diag.Span{Start: start, End: l.here()}
}

func (l *Lexer) peekAt(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

// advance moves n bytes forward, keeping line and column current.
func (l *Lexer) advance(n int) {
	for i := 0; i < n && l.pos < len(l.input); i++ {
		if l.input[l.pos] == '\n' {
			l.line++
			l.column = 1
		} else {
			l.column++
		}
		l.pos++
	}
}

// emit builds a token from start to the current position.
func (l *Lexer) emit(kind Kind, start diag.Pos) Token {
	ch := ChannelVisible
	switch kind {
	case Whitespace, Comment, DocComment:
		ch = ChannelSuppressed
	}
	return Token{
		Kind:    kind,
		Text:    l.input[start.Offset:l.pos],
		Span:    l.spanFrom(start),
		Channel: ch,
		Mode:    l.modes.top(),
	}
}

func (l *Lexer) pushMode(m Mode) {
	l.modes.push(m)
	l.logger.Debug("mode push", slog.String("mode", m.String()), slog.Int("depth", len(l.modes)))
}

// popMode leaves a Pragma or LowLevel frame. Braces in Default mode never
// pop, so an unmatched '}' there is left to the parser.
func (l *Lexer) popMode() {
	if !l.modes.pop() {
		panic("lexer: pop of the default mode frame")
	}
	l.logger.Debug("mode pop", slog.String("mode", l.modes.top().String()), slog.Int("depth", len(l.modes)))
}

func (l *Lexer) unexpectedChar() error {
	start := l.here()
	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	l.advance(size)
	return l.rep.Lexical(diag.CodeUnexpectedChar, l.spanFrom(start),
		"unexpected character %q in %s mode", r, l.modes.top())
}

// lexTrivia consumes whitespace or a comment if one starts here.
func (l *Lexer) lexTrivia() (Token, bool, error) {
	start := l.here()
	c := l.input[l.pos]
	if isSpace(c) {
		for l.pos < len(l.input) && isSpace(l.input[l.pos]) {
			l.advance(1)
		}
		return l.emit(Whitespace, start), true, nil
	}
	if c != '/' {
		return Token{}, false, nil
	}
	switch l.peekAt(1) {
	case '/':
		doc := l.peekAt(2) == '/' && l.peekAt(3) != '/'
		end := strings.IndexByte(l.input[l.pos:], '\n')
		if end < 0 {
			end = len(l.input) - l.pos
		}
		l.advance(end)
		if doc {
			return l.emit(DocComment, start), true, nil
		}
		return l.emit(Comment, start), true, nil
	case '*':
		doc := l.peekAt(2) == '*' && l.peekAt(3) != '/'
		end := strings.Index(l.input[l.pos+2:], "*/")
		if end < 0 {
			l.advance(len(l.input) - l.pos)
			return Token{}, true, l.rep.Lexical(diag.CodeUnterminatedBlock, l.spanFrom(start), "unterminated block comment")
		}
		l.advance(end + 4)
		if doc {
			return l.emit(DocComment, start), true, nil
		}
		return l.emit(Comment, start), true, nil
	}
	return Token{}, false, nil
}

// punctuation lists Default-mode operators longest first so the first match
// is the longest.
var punctuation = []struct {
	text string
	kind Kind
}{
	{">>>=", AssignShr},
	{"<<=", AssignShl}, {">>=", AssignSar}, {">>>", Shr},
	{"=>", DoubleArrow}, {"->", RightArrow}, {"|=", AssignBitOr}, {"^=", AssignBitXor},
	{"&=", AssignBitAnd}, {"+=", AssignAdd}, {"-=", AssignSub}, {"*=", AssignMul},
	{"/=", AssignDiv}, {"%=", AssignMod}, {"||", Or}, {"&&", And}, {"<<", Shl},
	{">>", Sar}, {"**", Exp}, {"==", Equal}, {"!=", NotEqual}, {"<=", LessEqual},
	{">=", GreaterEqual}, {"++", Inc}, {"--", Dec},
	{"(", LParen}, {")", RParen}, {"[", LBrack}, {"]", RBrack}, {"{", LBrace},
	{"}", RBrace}, {":", Colon}, {";", Semicolon}, {".", Period}, {",", Comma},
	{"?", Question}, {"=", Assign}, {"|", BitOr}, {"^", BitXor}, {"&", BitAnd},
	{"+", Add}, {"-", Sub}, {"*", Mul}, {"/", Div}, {"%", Mod}, {"<", LessThan},
	{">", GreaterThan}, {"!", Not}, {"~", BitNot},
}

func (l *Lexer) lexDefault() (Token, error) {
	if tok, ok, err := l.lexTrivia(); ok || err != nil {
		return tok, err
	}
	start := l.here()
	c := l.input[l.pos]

	switch {
	case isIdentStart(c):
		word := l.readIdentifier()
		if q := l.peekAt(0); q == '"' || q == '\'' {
			switch word {
			case "hex":
				return l.readHexString(start, HexString)
			case "unicode":
				if err := l.readQuoted(start); err != nil {
					return Token{}, err
				}
				return l.emit(UnicodeString, start), nil
			}
		}
		kind := LookupIdent(word)
		tok := l.emit(kind, start)
		switch kind {
		case Pragma:
			l.pushMode(ModePragma)
		case Assembly:
			l.pushMode(ModeAssemblyBlock)
		}
		return tok, nil
	case isDigit(c) || (c == '.' && isDigit(l.peekAt(1))):
		return l.readNumber(start)
	case c == '"' || c == '\'':
		if err := l.readQuoted(start); err != nil {
			return Token{}, err
		}
		return l.emit(StringLiteral, start), nil
	}

	rest := l.input[l.pos:]
	for _, p := range punctuation {
		if strings.HasPrefix(rest, p.text) {
			l.advance(len(p.text))
			return l.emit(p.kind, start), nil
		}
	}
	return Token{}, l.unexpectedChar()
}

func (l *Lexer) lexPragma() (Token, error) {
	if tok, ok, err := l.lexTrivia(); ok || err != nil {
		return tok, err
	}
	start := l.here()
	if l.input[l.pos] == ';' {
		l.advance(1)
		tok := l.emit(Semicolon, start)
		l.popMode()
		return tok, nil
	}
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		if c == ';' || isSpace(c) || (c == '/' && (l.peekAt(1) == '/' || l.peekAt(1) == '*')) {
			break
		}
		l.advance(1)
	}
	return l.emit(PragmaToken, start), nil
}

func (l *Lexer) lexAssemblyBlock() (Token, error) {
	if tok, ok, err := l.lexTrivia(); ok || err != nil {
		return tok, err
	}
	start := l.here()
	switch l.input[l.pos] {
	case '"', '\'':
		if err := l.readQuoted(start); err != nil {
			return Token{}, err
		}
		if l.input[start.Offset:l.pos] == `"evmasm"` {
			return l.emit(AssemblyDialect, start), nil
		}
		return l.emit(AssemblyFlag, start), nil
	case '(':
		l.advance(1)
		return l.emit(LParen, start), nil
	case ')':
		l.advance(1)
		return l.emit(RParen, start), nil
	case ',':
		l.advance(1)
		return l.emit(Comma, start), nil
	case '{':
		l.advance(1)
		tok := l.emit(LBrace, start)
		l.modes.replace(ModeLowLevel)
		l.logger.Debug("mode replace", slog.String("mode", ModeLowLevel.String()), slog.Int("depth", len(l.modes)))
		return tok, nil
	}
	return Token{}, l.unexpectedChar()
}

func (l *Lexer) lexLowLevel() (Token, error) {
	if tok, ok, err := l.lexTrivia(); ok || err != nil {
		return tok, err
	}
	start := l.here()
	c := l.input[l.pos]

	switch {
	case isIdentStart(c):
		word := l.readIdentifier()
		if q := l.peekAt(0); word == "hex" && (q == '"' || q == '\'') {
			return l.readHexString(start, YulHexString)
		}
		return l.emit(LookupYul(word), start), nil
	case isDigit(c):
		return l.readYulNumber(start)
	case c == '"' || c == '\'':
		if err := l.readQuoted(start); err != nil {
			return Token{}, err
		}
		return l.emit(YulStringLiteral, start), nil
	}

	switch c {
	case '{':
		l.advance(1)
		tok := l.emit(LBrace, start)
		l.pushMode(ModeLowLevel)
		return tok, nil
	case '}':
		l.advance(1)
		tok := l.emit(RBrace, start)
		l.popMode()
		return tok, nil
	case '(':
		l.advance(1)
		return l.emit(LParen, start), nil
	case ')':
		l.advance(1)
		return l.emit(RParen, start), nil
	case ',':
		l.advance(1)
		return l.emit(Comma, start), nil
	case '.':
		l.advance(1)
		return l.emit(Period, start), nil
	case ':':
		if l.peekAt(1) == '=' {
			l.advance(2)
			return l.emit(YulAssign, start), nil
		}
	case '-':
		if l.peekAt(1) == '>' {
			l.advance(2)
			return l.emit(RightArrow, start), nil
		}
	}
	return Token{}, l.unexpectedChar()
}

func (l *Lexer) readIdentifier() string {
	start := l.pos
	for l.pos < len(l.input) && isIdentPart(l.input[l.pos]) {
		l.advance(1)
	}
	return l.input[start:l.pos]
}

// readQuoted consumes a quoted literal starting at the current quote
// character. A backslash escapes any single following byte; raw line breaks
// are not allowed.
func (l *Lexer) readQuoted(start diag.Pos) error {
	quote := l.input[l.pos]
	l.advance(1)
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		switch {
		case c == quote:
			l.advance(1)
			return nil
		case c == '\\' && l.pos+1 < len(l.input):
			l.advance(2)
		case c == '\n' || c == '\r' || c == '\\':
			return l.rep.Lexical(diag.CodeUnterminatedString, l.spanFrom(start), "unterminated string literal")
		default:
			l.advance(1)
		}
	}
	return l.rep.Lexical(diag.CodeUnterminatedString, l.spanFrom(start), "unterminated string literal")
}

// readHexString consumes the quoted part of hex"..." and validates that the
// digits come in pairs, optionally separated by single underscores.
func (l *Lexer) readHexString(start diag.Pos, kind Kind) (Token, error) {
	if err := l.readQuoted(start); err != nil {
		return Token{}, err
	}
	text := l.input[start.Offset:l.pos]
	body := text[len("hex")+1 : len(text)-1]
	if msg := checkHexDigits(body); msg != "" {
		return Token{}, l.rep.Lexical(diag.CodeInvalidHexString, l.spanFrom(start), "invalid hex string %s: %s", text, msg)
	}
	return l.emit(kind, start), nil
}

func checkHexDigits(body string) string {
	if body == "" {
		return ""
	}
	for _, group := range strings.Split(body, "_") {
		if group == "" {
			return "misplaced underscore"
		}
		for i := 0; i < len(group); i++ {
			if !isHexDigit(group[i]) {
				return "non-hex character " + string(rune(group[i]))
			}
		}
		if len(group)%2 != 0 {
			return "odd number of hex digits"
		}
	}
	return ""
}

// readDigits consumes digits matching ok, allowing single underscores
// between them.
func (l *Lexer) readDigits(ok func(byte) bool) int {
	n := 0
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		if ok(c) {
			l.advance(1)
			n++
			continue
		}
		if c == '_' && n > 0 && ok(l.peekAt(1)) {
			l.advance(1)
			continue
		}
		break
	}
	return n
}

func (l *Lexer) readNumber(start diag.Pos) (Token, error) {
	kind := DecimalNumber
	if l.input[l.pos] == '0' && (l.peekAt(1) == 'x' || l.peekAt(1) == 'X') && isHexDigit(l.peekAt(2)) {
		l.advance(2)
		l.readDigits(isHexDigit)
		kind = HexNumber
	} else {
		l.readDigits(isDigit)
		if l.pos < len(l.input) && l.input[l.pos] == '.' && isDigit(l.peekAt(1)) {
			l.advance(1)
			l.readDigits(isDigit)
		}
		if c := l.peekAt(0); c == 'e' || c == 'E' {
			if isDigit(l.peekAt(1)) {
				l.advance(1)
				l.readDigits(isDigit)
			} else if l.peekAt(1) == '-' && isDigit(l.peekAt(2)) {
				l.advance(2)
				l.readDigits(isDigit)
			}
		}
	}
	if l.pos < len(l.input) && isIdentPart(l.input[l.pos]) {
		l.readIdentifier()
		return Token{}, l.rep.Lexical(diag.CodeInvalidNumber, l.spanFrom(start),
			"invalid number literal %s", l.input[start.Offset:l.pos])
	}
	return l.emit(kind, start), nil
}

func (l *Lexer) readYulNumber(start diag.Pos) (Token, error) {
	kind := YulDecimalNumber
	if l.input[l.pos] == '0' && l.peekAt(1) == 'x' && isHexDigit(l.peekAt(2)) {
		l.advance(2)
		for l.pos < len(l.input) && isHexDigit(l.input[l.pos]) {
			l.advance(1)
		}
		kind = YulHexNumber
	} else {
		for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
			l.advance(1)
		}
	}
	text := l.input[start.Offset:l.pos]
	if l.pos < len(l.input) && isIdentPart(l.input[l.pos]) {
		l.readIdentifier()
		text = l.input[start.Offset:l.pos]
		return Token{}, l.rep.Lexical(diag.CodeInvalidNumber, l.spanFrom(start), "invalid number literal %s", text)
	}
	if kind == YulDecimalNumber && len(text) > 1 && text[0] == '0' {
		return Token{}, l.rep.Lexical(diag.CodeInvalidNumber, l.spanFrom(start), "invalid number literal %s: leading zero", text)
	}
	return l.emit(kind, start), nil
}

// Visible returns the tokens on the visible channel, in order.
func Visible(toks []Token) []Token {
	out := make([]Token, 0, len(toks))
	for _, t := range toks {
		if t.Channel == ChannelVisible {
			out = append(out, t)
		}
	}
	return out
}

// Reconstruct concatenates the text of every token. For a complete token
// sequence this is the original input.
func Reconstruct(toks []Token) string {
	var sb strings.Builder
	for _, t := range toks {
		sb.WriteString(t.Text)
	}
	return sb.String()
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func isIdentStart(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || c == '_' || c == '$'
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
