package lexer

import (
	"fmt"
	"strconv"

	"github.com/raymyers/ralph-sol/pkg/diag"
)

// Kind classifies a token.
type Kind int

const (
	// Special tokens
	EOF Kind = iota
	Whitespace
	Comment
	DocComment

	// Identifiers and literals
	Identifier      // foo, $x, _y
	Reserved        // reserved for future use: var, switch, ...
	ElementaryType  // address, bool, string, bytes, uint256, bytes32, fixed128x18, ...
	DecimalNumber   // 1_000, 1.5e-3, .5
	HexNumber       // 0xff_ff
	StringLiteral   // "abc", 'abc'
	UnicodeString   // unicode"☃"
	HexString       // hex"00ff"
	NumberUnit      // wei, ether, days, ...
	PragmaToken     // opaque chunk inside a pragma directive
	AssemblyDialect // "evmasm"
	AssemblyFlag    // "memory-safe"

	// Keywords
	Abstract
	Anonymous
	As
	Assembly
	Break
	Calldata
	Catch
	Constant
	Constructor
	Continue
	Contract
	Delete
	Do
	Else
	Emit
	Enum
	Event
	External
	Fallback
	False
	For
	From
	Function
	If
	Immutable
	Import
	Indexed
	Interface
	Internal
	Is
	Library
	Mapping
	Memory
	Modifier
	NewKeyword // new
	Override
	Payable
	Pragma
	Private
	Public
	Pure
	Receive
	Return
	Returns
	Storage
	Struct
	True
	Try
	Type
	Unchecked
	Using
	View
	Virtual
	While

	// Punctuation
	LParen      // (
	RParen      // )
	LBrack      // [
	RBrack      // ]
	LBrace      // {
	RBrace      // }
	Colon       // :
	Semicolon   // ;
	Period      // .
	Comma       // ,
	Question    // ?
	DoubleArrow // =>
	RightArrow  // ->

	// Operators
	Assign       // =
	AssignBitOr  // |=
	AssignBitXor // ^=
	AssignBitAnd // &=
	AssignShl    // <<=
	AssignSar    // >>=
	AssignShr    // >>>=
	AssignAdd    // +=
	AssignSub    // -=
	AssignMul    // *=
	AssignDiv    // /=
	AssignMod    // %=
	Or           // ||
	And          // &&
	BitOr        // |
	BitXor       // ^
	BitAnd       // &
	Shl          // <<
	Sar          // >>
	Shr          // >>>
	Add          // +
	Sub          // -
	Mul          // *
	Div          // /
	Mod          // %
	Exp          // **
	Equal        // ==
	NotEqual     // !=
	LessThan     // <
	GreaterThan  // >
	LessEqual    // <=
	GreaterEqual // >=
	Not          // !
	BitNot       // ~
	Inc          // ++
	Dec          // --

	// Low-level (assembly) vocabulary
	YulIdentifier
	YulBuiltin
	YulDecimalNumber
	YulHexNumber
	YulStringLiteral
	YulHexString
	YulAssign // :=
	YulBreak
	YulCase
	YulContinue
	YulDefault
	YulFalse
	YulFor
	YulFunction
	YulIf
	YulLeave
	YulLet
	YulSwitch
	YulTrue
)

var kindNames = map[Kind]string{
	EOF:              "end of input",
	Whitespace:       "whitespace",
	Comment:          "comment",
	DocComment:       "doc comment",
	Identifier:       "identifier",
	Reserved:         "reserved keyword",
	ElementaryType:   "elementary type name",
	DecimalNumber:    "number",
	HexNumber:        "hex number",
	StringLiteral:    "string literal",
	UnicodeString:    "unicode string literal",
	HexString:        "hex string literal",
	NumberUnit:       "number unit",
	PragmaToken:      "pragma token",
	AssemblyDialect:  "assembly dialect",
	AssemblyFlag:     "assembly flag",
	LParen:           "'('",
	RParen:           "')'",
	LBrack:           "'['",
	RBrack:           "']'",
	LBrace:           "'{'",
	RBrace:           "'}'",
	Colon:            "':'",
	Semicolon:        "';'",
	Period:           "'.'",
	Comma:            "','",
	Question:         "'?'",
	DoubleArrow:      "'=>'",
	RightArrow:       "'->'",
	Assign:           "'='",
	AssignBitOr:      "'|='",
	AssignBitXor:     "'^='",
	AssignBitAnd:     "'&='",
	AssignShl:        "'<<='",
	AssignSar:        "'>>='",
	AssignShr:        "'>>>='",
	AssignAdd:        "'+='",
	AssignSub:        "'-='",
	AssignMul:        "'*='",
	AssignDiv:        "'/='",
	AssignMod:        "'%='",
	Or:               "'||'",
	And:              "'&&'",
	BitOr:            "'|'",
	BitXor:           "'^'",
	BitAnd:           "'&'",
	Shl:              "'<<'",
	Sar:              "'>>'",
	Shr:              "'>>>'",
	Add:              "'+'",
	Sub:              "'-'",
	Mul:              "'*'",
	Div:              "'/'",
	Mod:              "'%'",
	Exp:              "'**'",
	Equal:            "'=='",
	NotEqual:         "'!='",
	LessThan:         "'<'",
	GreaterThan:      "'>'",
	LessEqual:        "'<='",
	GreaterEqual:     "'>='",
	Not:              "'!'",
	BitNot:           "'~'",
	Inc:              "'++'",
	Dec:              "'--'",
	YulIdentifier:    "identifier",
	YulBuiltin:       "builtin",
	YulDecimalNumber: "number",
	YulHexNumber:     "hex number",
	YulStringLiteral: "string literal",
	YulHexString:     "hex string literal",
	YulAssign:        "':='",
}

func init() {
	for word, k := range keywords {
		kindNames[k] = "'" + word + "'"
	}
	for word, k := range yulKeywords {
		kindNames[k] = "'" + word + "'"
	}
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Channel says whether the parser sees a token.
type Channel int

const (
	ChannelVisible Channel = iota
	ChannelSuppressed
)

func (c Channel) String() string {
	if c == ChannelSuppressed {
		return "suppressed"
	}
	return "visible"
}

// Token is an immutable lexical token. Text is the exact source slice.
type Token struct {
	Kind    Kind
	Text    string
	Span    diag.Span
	Channel Channel
	Mode    Mode // mode that was active when the token was produced
}

// Describe renders the token for error messages.
func (t Token) Describe() string {
	switch t.Kind {
	case EOF:
		return "end of input"
	case Identifier, YulIdentifier, Reserved, ElementaryType, NumberUnit, YulBuiltin,
		DecimalNumber, HexNumber, YulDecimalNumber, YulHexNumber,
		StringLiteral, UnicodeString, HexString, YulStringLiteral, YulHexString,
		PragmaToken, AssemblyDialect, AssemblyFlag:
		return fmt.Sprintf("%s %q", t.Kind, t.Text)
	}
	return t.Kind.String()
}

// keywords maps Default-mode keyword strings to token kinds.
var keywords = map[string]Kind{
	"abstract":    Abstract,
	"anonymous":   Anonymous,
	"as":          As,
	"assembly":    Assembly,
	"break":       Break,
	"calldata":    Calldata,
	"catch":       Catch,
	"constant":    Constant,
	"constructor": Constructor,
	"continue":    Continue,
	"contract":    Contract,
	"delete":      Delete,
	"do":          Do,
	"else":        Else,
	"emit":        Emit,
	"enum":        Enum,
	"event":       Event,
	"external":    External,
	"fallback":    Fallback,
	"false":       False,
	"for":         For,
	"from":        From,
	"function":    Function,
	"if":          If,
	"immutable":   Immutable,
	"import":      Import,
	"indexed":     Indexed,
	"interface":   Interface,
	"internal":    Internal,
	"is":          Is,
	"library":     Library,
	"mapping":     Mapping,
	"memory":      Memory,
	"modifier":    Modifier,
	"new":         NewKeyword,
	"override":    Override,
	"payable":     Payable,
	"pragma":      Pragma,
	"private":     Private,
	"public":      Public,
	"pure":        Pure,
	"receive":     Receive,
	"return":      Return,
	"returns":     Returns,
	"storage":     Storage,
	"struct":      Struct,
	"true":        True,
	"try":         Try,
	"type":        Type,
	"unchecked":   Unchecked,
	"using":       Using,
	"view":        View,
	"virtual":     Virtual,
	"while":       While,
}

var numberUnits = map[string]bool{
	"wei": true, "gwei": true, "ether": true,
	"seconds": true, "minutes": true, "hours": true, "days": true, "weeks": true, "years": true,
}

var reserved = map[string]bool{
	"after": true, "alias": true, "apply": true, "auto": true, "byte": true,
	"case": true, "copyof": true, "default": true, "define": true, "final": true,
	"implements": true, "in": true, "inline": true, "let": true, "macro": true,
	"match": true, "mutable": true, "null": true, "of": true, "partial": true,
	"promise": true, "reference": true, "relocatable": true, "sealed": true,
	"sizeof": true, "static": true, "supports": true, "switch": true,
	"typedef": true, "typeof": true, "var": true,
}

// yulKeywords maps LowLevel-mode keywords to token kinds. The set is disjoint
// from the Default-mode keywords.
var yulKeywords = map[string]Kind{
	"break":    YulBreak,
	"case":     YulCase,
	"continue": YulContinue,
	"default":  YulDefault,
	"false":    YulFalse,
	"for":      YulFor,
	"function": YulFunction,
	"if":       YulIf,
	"leave":    YulLeave,
	"let":      YulLet,
	"switch":   YulSwitch,
	"true":     YulTrue,
}

var yulBuiltins = map[string]bool{}

func init() {
	for _, name := range []string{
		"stop", "add", "sub", "mul", "div", "sdiv", "mod", "smod", "exp", "not",
		"lt", "gt", "slt", "sgt", "eq", "iszero", "and", "or", "xor", "byte",
		"shl", "shr", "sar", "addmod", "mulmod", "signextend", "keccak256", "pop",
		"mload", "mstore", "mstore8", "sload", "sstore", "tload", "tstore", "msize",
		"gas", "address", "balance", "selfbalance", "caller", "callvalue",
		"calldataload", "calldatasize", "calldatacopy", "extcodesize",
		"extcodecopy", "returndatasize", "returndatacopy", "mcopy", "extcodehash",
		"create", "create2", "call", "callcode", "delegatecall", "staticcall",
		"return", "revert", "selfdestruct", "invalid", "log0", "log1", "log2",
		"log3", "log4", "chainid", "origin", "gasprice", "blockhash", "blobhash",
		"coinbase", "timestamp", "number", "difficulty", "prevrandao", "gaslimit",
		"basefee", "blobbasefee",
	} {
		yulBuiltins[name] = true
	}
}

// LookupIdent returns the Default-mode kind for an identifier-shaped word.
func LookupIdent(word string) Kind {
	if k, ok := keywords[word]; ok {
		return k
	}
	if isElementaryType(word) {
		return ElementaryType
	}
	if numberUnits[word] {
		return NumberUnit
	}
	if reserved[word] {
		return Reserved
	}
	return Identifier
}

// LookupYul returns the LowLevel-mode kind for an identifier-shaped word.
func LookupYul(word string) Kind {
	if k, ok := yulKeywords[word]; ok {
		return k
	}
	if yulBuiltins[word] {
		return YulBuiltin
	}
	return YulIdentifier
}

// IsReserved reports whether word is reserved for future use.
func IsReserved(word string) bool {
	return reserved[word]
}

// isElementaryType matches address, bool, string, bytes, bytesN, intN, uintN,
// fixedMxN and ufixedMxN with the sizes the language permits.
func isElementaryType(word string) bool {
	switch word {
	case "address", "bool", "string", "bytes", "int", "uint", "fixed", "ufixed":
		return true
	}
	if n, ok := sizeSuffix(word, "bytes"); ok {
		return n >= 1 && n <= 32
	}
	if n, ok := sizeSuffix(word, "uint"); ok {
		return validBits(n)
	}
	if n, ok := sizeSuffix(word, "int"); ok {
		return validBits(n)
	}
	for _, prefix := range []string{"ufixed", "fixed"} {
		if len(word) > len(prefix) && word[:len(prefix)] == prefix {
			var m, n int
			rest := word[len(prefix):]
			if c, err := fmt.Sscanf(rest, "%dx%d", &m, &n); err != nil || c != 2 {
				return false
			}
			if fmt.Sprintf("%dx%d", m, n) != rest {
				return false
			}
			return validBits(m) && n >= 0 && n <= 80
		}
	}
	return false
}

func sizeSuffix(word, prefix string) (int, bool) {
	if len(word) <= len(prefix) || word[:len(prefix)] != prefix {
		return 0, false
	}
	digits := word[len(prefix):]
	if digits[0] == '0' {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}

func validBits(n int) bool {
	return n >= 8 && n <= 256 && n%8 == 0
}
