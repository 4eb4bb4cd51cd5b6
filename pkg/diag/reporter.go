package diag

import (
	"fmt"
	"io"
	"log/slog"
)

// Reporter collects diagnostics for one parse. It is the single policy object
// consulted by the tokenizer and the parser: Limit bounds how many diagnostics
// are kept, and the caller stops as soon as Full returns true.
type Reporter struct {
	Limit  int
	diags  []Diagnostic
	logger *slog.Logger
}

// NewReporter returns a fail-fast reporter (Limit 1). A nil logger discards
// log output.
func NewReporter(logger *slog.Logger) *Reporter {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Reporter{Limit: 1, logger: logger}
}

// Lexical records a tokenizer error.
func (r *Reporter) Lexical(code string, span Span, format string, args ...any) *Diagnostic {
	return r.report(KindLexical, code, span, fmt.Sprintf(format, args...))
}

// Syntax records a grammar error.
func (r *Reporter) Syntax(code string, span Span, format string, args ...any) *Diagnostic {
	return r.report(KindSyntax, code, span, fmt.Sprintf(format, args...))
}

func (r *Reporter) report(kind Kind, code string, span Span, msg string) *Diagnostic {
	d := Diagnostic{
		Severity: SeverityError,
		Kind:     kind,
		Code:     code,
		Message:  msg,
		Span:     span,
	}
	if r.Limit > 0 && len(r.diags) >= r.Limit {
		r.logger.Debug("diagnostic dropped", slog.String("code", code), slog.String("message", msg))
		return &d
	}
	r.diags = append(r.diags, d)
	r.logger.Debug("diagnostic",
		slog.String("kind", string(kind)),
		slog.String("code", code),
		slog.Int("line", span.Start.Line),
		slog.Int("column", span.Start.Column),
		slog.String("message", msg))
	return &d
}

// Full reports whether the limit has been reached.
func (r *Reporter) Full() bool {
	return r.Limit > 0 && len(r.diags) >= r.Limit
}

// HasErrors reports whether any diagnostic was recorded.
func (r *Reporter) HasErrors() bool {
	return len(r.diags) > 0
}

// Diagnostics returns a copy of the recorded diagnostics.
func (r *Reporter) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(r.diags))
	copy(out, r.diags)
	return out
}
