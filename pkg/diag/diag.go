// Package diag defines source positions and the diagnostics produced by the
// lexer and parser.
//
// A Diagnostic is an immutable value record. Both the tokenizer and the parser
// report through a single Reporter, which decides how many diagnostics are
// kept before parsing is abandoned.
package diag

import "fmt"

// Pos is a position in the source text.
type Pos struct {
	Offset int `json:"offset" yaml:"offset"` // byte offset, 0-based
	Line   int `json:"line" yaml:"line"`     // 1-based
	Column int `json:"column" yaml:"column"` // 1-based, in bytes
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span is a half-open byte range [Start, End) of the source text.
type Span struct {
	Start Pos `json:"start" yaml:"start"`
	End   Pos `json:"end" yaml:"end"`
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End.Offset - s.Start.Offset
}

// To returns the span from the start of s to the end of other.
func (s Span) To(other Span) Span {
	return Span{Start: s.Start, End: other.End}
}

func (s Span) String() string {
	return fmt.Sprintf("%d-%d", s.Start.Offset, s.End.Offset)
}

// Severity of a diagnostic. Only errors exist at this layer.
type Severity string

const (
	SeverityError Severity = "error"
)

// Kind separates tokenizer failures from grammar failures.
type Kind string

const (
	KindLexical Kind = "lexical"
	KindSyntax  Kind = "syntax"
)

// Error codes, grouped by kind.
const (
	CodeUnexpectedChar     = "LEX-0001"
	CodeUnterminatedString = "LEX-0002"
	CodeInvalidHexString   = "LEX-0003"
	CodeInvalidNumber      = "LEX-0004"
	CodeUnterminatedBlock  = "LEX-0005"
	CodeUnbalancedModes    = "LEX-0006"

	CodeExpected    = "PARSE-0001"
	CodeUnexpected  = "PARSE-0002"
	CodeCardinality = "PARSE-0003"
	CodeRestricted  = "PARSE-0004"
	CodeNotCallable = "PARSE-0005"
)

// Diagnostic is a positioned error.
type Diagnostic struct {
	Severity Severity `json:"severity" yaml:"severity"`
	Kind     Kind     `json:"kind" yaml:"kind"`
	Code     string   `json:"code" yaml:"code"`
	Message  string   `json:"message" yaml:"message"`
	Span     Span     `json:"span" yaml:"span"`
}

// Error implements the error interface.
func (d *Diagnostic) Error() string {
	return d.String()
}

func (d *Diagnostic) String() string {
	return fmt.Sprintf("line %d, col %d: %s %s: %s",
		d.Span.Start.Line, d.Span.Start.Column, d.Kind, d.Severity, d.Message)
}

// IsLexical reports whether the diagnostic came from the tokenizer.
func (d *Diagnostic) IsLexical() bool {
	return d.Kind == KindLexical
}

// IsSyntax reports whether the diagnostic came from the parser.
func (d *Diagnostic) IsSyntax() bool {
	return d.Kind == KindSyntax
}
