package lexer

import (
	"strings"
	"testing"

	"github.com/raymyers/ralph-sol/pkg/diag"
)

func visibleKinds(t *testing.T, input string) []Token {
	t.Helper()
	toks, err := New(input).Tokenize()
	if err != nil {
		t.Fatalf("Tokenize(%q) failed: %v", input, err)
	}
	return Visible(toks)
}

func TestNextToken(t *testing.T) {
	input := `contract C { function f() public returns (uint256) { return 42; } }`

	tests := []struct {
		expectedKind Kind
		expectedText string
	}{
		{Contract, "contract"},
		{Identifier, "C"},
		{LBrace, "{"},
		{Function, "function"},
		{Identifier, "f"},
		{LParen, "("},
		{RParen, ")"},
		{Public, "public"},
		{Returns, "returns"},
		{LParen, "("},
		{ElementaryType, "uint256"},
		{RParen, ")"},
		{LBrace, "{"},
		{Return, "return"},
		{DecimalNumber, "42"},
		{Semicolon, ";"},
		{RBrace, "}"},
		{RBrace, "}"},
		{EOF, ""},
	}

	toks := visibleKinds(t, input)
	if len(toks) != len(tests) {
		t.Fatalf("expected %d tokens, got %d", len(tests), len(toks))
	}
	for i, tt := range tests {
		if toks[i].Kind != tt.expectedKind {
			t.Fatalf("tests[%d] - kind wrong. expected=%s, got=%s", i, tt.expectedKind, toks[i].Kind)
		}
		if toks[i].Text != tt.expectedText {
			t.Fatalf("tests[%d] - text wrong. expected=%q, got=%q", i, tt.expectedText, toks[i].Text)
		}
	}
}

func TestOperators(t *testing.T) {
	input := `= |= ^= &= <<= >>= >>>= += -= *= /= %= || && | ^ & << >> >>> + - * / % ** == != < > <= >= ! ~ ++ -- => ? :`

	expected := []Kind{
		Assign, AssignBitOr, AssignBitXor, AssignBitAnd, AssignShl, AssignSar, AssignShr,
		AssignAdd, AssignSub, AssignMul, AssignDiv, AssignMod, Or, And, BitOr, BitXor,
		BitAnd, Shl, Sar, Shr, Add, Sub, Mul, Div, Mod, Exp, Equal, NotEqual, LessThan,
		GreaterThan, LessEqual, GreaterEqual, Not, BitNot, Inc, Dec, DoubleArrow,
		Question, Colon, EOF,
	}

	toks := visibleKinds(t, input)
	if len(toks) != len(expected) {
		t.Fatalf("expected %d tokens, got %d", len(expected), len(toks))
	}
	for i, k := range expected {
		if toks[i].Kind != k {
			t.Errorf("tests[%d] - expected %s, got %s (%q)", i, k, toks[i].Kind, toks[i].Text)
		}
	}
}

func TestWordClassification(t *testing.T) {
	tests := []struct {
		word string
		kind Kind
	}{
		{"from", From},
		{"new", NewKeyword},
		{"delete", Delete},
		{"error", Identifier},
		{"revert", Identifier},
		{"global", Identifier},
		{"transient", Identifier},
		{"var", Reserved},
		{"switch", Reserved},
		{"ether", NumberUnit},
		{"days", NumberUnit},
		{"address", ElementaryType},
		{"bytes32", ElementaryType},
		{"bytes33", Identifier},
		{"uint8", ElementaryType},
		{"uint7", Identifier},
		{"int256", ElementaryType},
		{"fixed128x18", ElementaryType},
		{"ufixed8x80", ElementaryType},
		{"ufixed8x81", Identifier},
		{"uint08", Identifier},
		{"$x", Identifier},
		{"_y", Identifier},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			if got := LookupIdent(tt.word); got != tt.kind {
				t.Errorf("LookupIdent(%q) = %s, want %s", tt.word, got, tt.kind)
			}
		})
	}
}

func TestNumbersAndUnits(t *testing.T) {
	tests := []struct {
		input string
		kinds []Kind
	}{
		{"1_000", []Kind{DecimalNumber}},
		{"1.5e-3", []Kind{DecimalNumber}},
		{".5", []Kind{DecimalNumber}},
		{"2E10", []Kind{DecimalNumber}},
		{"0xff_ff", []Kind{HexNumber}},
		{"1 ether", []Kind{DecimalNumber, NumberUnit}},
		{"3 days", []Kind{DecimalNumber, NumberUnit}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks := visibleKinds(t, tt.input)
			if len(toks) != len(tt.kinds)+1 {
				t.Fatalf("expected %d tokens, got %d", len(tt.kinds)+1, len(toks))
			}
			for i, k := range tt.kinds {
				if toks[i].Kind != k {
					t.Errorf("token %d: expected %s, got %s", i, k, toks[i].Kind)
				}
			}
		})
	}
}

func TestStringLiterals(t *testing.T) {
	toks := visibleKinds(t, `"a\"b" 'c' unicode"d" hex"00ff" hex'0a_0b' hex""`)
	expected := []struct {
		kind Kind
		text string
	}{
		{StringLiteral, `"a\"b"`},
		{StringLiteral, `'c'`},
		{UnicodeString, `unicode"d"`},
		{HexString, `hex"00ff"`},
		{HexString, `hex'0a_0b'`},
		{HexString, `hex""`},
	}
	for i, e := range expected {
		if toks[i].Kind != e.kind || toks[i].Text != e.text {
			t.Errorf("token %d: expected %s %s, got %s %s", i, e.kind, e.text, toks[i].Kind, toks[i].Text)
		}
	}
}

func TestLexicalErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  string
	}{
		{"odd hex digits", `hex"abc"`, diag.CodeInvalidHexString},
		{"leading underscore", `hex"_ab"`, diag.CodeInvalidHexString},
		{"double underscore", `hex"ab__cd"`, diag.CodeInvalidHexString},
		{"split pair", `hex"a_b"`, diag.CodeInvalidHexString},
		{"non-hex digit", `hex"zz"`, diag.CodeInvalidHexString},
		{"number then letters", `123abc`, diag.CodeInvalidNumber},
		{"unterminated string", `"abc`, diag.CodeUnterminatedString},
		{"newline in string", "\"ab\ncd\"", diag.CodeUnterminatedString},
		{"unterminated comment", `/* abc`, diag.CodeUnterminatedBlock},
		{"unexpected char", `#`, diag.CodeUnexpectedChar},
		{"assembly missing brace", `assembly { let x := 1`, diag.CodeUnbalancedModes},
		{"pragma missing semicolon", `pragma solidity ^0.8.0`, diag.CodeUnbalancedModes},
		{"yul leading zero", `assembly { let x := 01 }`, diag.CodeInvalidNumber},
		{"yul bad char", `assembly { let x := 1 + 2 }`, diag.CodeUnexpectedChar},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.input).Tokenize()
			if err == nil {
				t.Fatalf("expected a lexical error for %q", tt.input)
			}
			d, ok := err.(*diag.Diagnostic)
			if !ok {
				t.Fatalf("expected *diag.Diagnostic, got %T", err)
			}
			if d.Kind != diag.KindLexical {
				t.Errorf("expected lexical kind, got %s", d.Kind)
			}
			if d.Code != tt.code {
				t.Errorf("expected code %s, got %s (%s)", tt.code, d.Code, d.Message)
			}
		})
	}
}

func TestPragmaMode(t *testing.T) {
	toks := visibleKinds(t, `pragma solidity >=0.8.0 <0.9.0; uint x;`)
	expected := []struct {
		kind Kind
		text string
		mode Mode
	}{
		{Pragma, "pragma", ModeDefault},
		{PragmaToken, "solidity", ModePragma},
		{PragmaToken, ">=0.8.0", ModePragma},
		{PragmaToken, "<0.9.0", ModePragma},
		{Semicolon, ";", ModePragma},
		{ElementaryType, "uint", ModeDefault},
		{Identifier, "x", ModeDefault},
		{Semicolon, ";", ModeDefault},
	}
	for i, e := range expected {
		if toks[i].Kind != e.kind || toks[i].Text != e.text || toks[i].Mode != e.mode {
			t.Errorf("token %d: expected %s %q in %s, got %s %q in %s",
				i, e.kind, e.text, e.mode, toks[i].Kind, toks[i].Text, toks[i].Mode)
		}
	}
}

func TestAssemblyModes(t *testing.T) {
	input := `assembly "evmasm" ("memory-safe") { let x := add(1, 0x2) if x { sstore(0, x) } } x`
	l := New(input)
	toks, err := l.Tokenize()
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}
	if depth := len(l.Modes()); depth != 1 {
		t.Fatalf("expected mode stack depth 1 at EOF, got %d", depth)
	}

	vis := Visible(toks)
	expected := []Kind{
		Assembly, AssemblyDialect, LParen, AssemblyFlag, RParen, LBrace,
		YulLet, YulIdentifier, YulAssign, YulBuiltin, LParen, YulDecimalNumber, Comma,
		YulHexNumber, RParen, YulIf, YulIdentifier, LBrace, YulBuiltin, LParen,
		YulDecimalNumber, Comma, YulIdentifier, RParen, RBrace, RBrace, Identifier, EOF,
	}
	if len(vis) != len(expected) {
		t.Fatalf("expected %d tokens, got %d", len(expected), len(vis))
	}
	for i, k := range expected {
		if vis[i].Kind != k {
			t.Errorf("token %d: expected %s, got %s (%q)", i, k, vis[i].Kind, vis[i].Text)
		}
	}
	if vis[len(vis)-2].Mode != ModeDefault {
		t.Errorf("expected the identifier after the block in default mode, got %s", vis[len(vis)-2].Mode)
	}
}

func TestModeStackBalance(t *testing.T) {
	l := New(`assembly { { { } } }`)
	for {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("NextToken failed: %v", err)
		}
		if tok.Kind == EOF {
			break
		}
	}
	modes := l.Modes()
	if len(modes) != 1 || modes[0] != ModeDefault {
		t.Errorf("expected [default], got %v", modes)
	}
}

func TestUnmatchedBraceInAssembly(t *testing.T) {
	_, err := New(`assembly { } }`).Tokenize()
	if err != nil {
		t.Fatalf("a stray '}' in default mode is a token, got error %v", err)
	}

	_, err = New(`assembly { { }`).Tokenize()
	if err == nil {
		t.Fatal("expected a lexical error for an unclosed assembly block")
	}
	if !strings.Contains(err.Error(), "lowlevel") {
		t.Errorf("expected the error to name the open mode, got %q", err.Error())
	}
}

func TestComments(t *testing.T) {
	toks, err := New("/// doc\n// line\n/* block */ /** natspec */ x").Tokenize()
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}
	var kinds []Kind
	for _, tok := range toks {
		if tok.Kind != Whitespace {
			kinds = append(kinds, tok.Kind)
		}
	}
	expected := []Kind{DocComment, Comment, Comment, DocComment, Identifier, EOF}
	if len(kinds) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, kinds)
	}
	for i := range expected {
		if kinds[i] != expected[i] {
			t.Errorf("token %d: expected %s, got %s", i, expected[i], kinds[i])
		}
	}
	for _, tok := range toks {
		if tok.Kind == Comment && tok.Channel != ChannelSuppressed {
			t.Errorf("comment %q should be suppressed", tok.Text)
		}
	}
}

func TestReconstructIdempotent(t *testing.T) {
	inputs := []string{
		"pragma solidity ^0.8.0;\n\ncontract C {\n  uint x; // state\n}\n",
		"function f() pure { assembly { let a := 1 /* c */ } }",
		"import {a as b} from \"./x.sol\";",
		"x = hex\"00_ff\" ; y = unicode'z';\t\r\n",
	}
	for _, input := range inputs {
		toks, err := New(input).Tokenize()
		if err != nil {
			t.Fatalf("Tokenize(%q) failed: %v", input, err)
		}
		text := Reconstruct(toks)
		if text != input {
			t.Fatalf("Reconstruct mismatch:\nwant %q\ngot  %q", input, text)
		}
		again, err := New(text).Tokenize()
		if err != nil {
			t.Fatalf("re-tokenize failed: %v", err)
		}
		if len(again) != len(toks) {
			t.Fatalf("re-tokenize produced %d tokens, want %d", len(again), len(toks))
		}
		for i := range toks {
			if again[i].Kind != toks[i].Kind || again[i].Text != toks[i].Text {
				t.Errorf("token %d differs: %s %q vs %s %q", i, again[i].Kind, again[i].Text, toks[i].Kind, toks[i].Text)
			}
		}
	}
}

func TestSpans(t *testing.T) {
	toks := visibleKinds(t, "a\n  bb")
	if toks[1].Span.Start.Line != 2 || toks[1].Span.Start.Column != 3 {
		t.Errorf("expected bb at 2:3, got %s", toks[1].Span.Start)
	}
	if toks[1].Span.Len() != 2 {
		t.Errorf("expected span length 2, got %d", toks[1].Span.Len())
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		tok  Token
		want string
	}{
		{Token{Kind: EOF}, "end of input"},
		{Token{Kind: Semicolon, Text: ";"}, "';'"},
		{Token{Kind: Identifier, Text: "x"}, `identifier "x"`},
		{Token{Kind: Contract, Text: "contract"}, "'contract'"},
		{Token{Kind: Reserved, Text: "var"}, `reserved keyword "var"`},
	}
	for _, tt := range tests {
		if got := tt.tok.Describe(); got != tt.want {
			t.Errorf("Describe() = %q, want %q", got, tt.want)
		}
	}
}
