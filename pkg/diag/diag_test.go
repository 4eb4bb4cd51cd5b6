package diag

import (
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func span(line, col, offset, length int) Span {
	return Span{
		Start: Pos{Offset: offset, Line: line, Column: col},
		End:   Pos{Offset: offset + length, Line: line, Column: col + length},
	}
}

func TestDiagnosticString(t *testing.T) {
	d := &Diagnostic{Severity: SeverityError, Kind: KindSyntax, Code: CodeExpected, Message: "expected ';', got '}'", Span: span(3, 7, 20, 1)}
	want := "line 3, col 7: syntax error: expected ';', got '}'"
	if d.Error() != want {
		t.Errorf("want %q, got %q", want, d.Error())
	}
	if !d.IsSyntax() || d.IsLexical() {
		t.Errorf("expected a syntax diagnostic")
	}
}

func TestReporterFailFast(t *testing.T) {
	r := NewReporter(nil)
	first := r.Lexical(CodeUnexpectedChar, span(1, 1, 0, 1), "unexpected character %q", '#')
	if first.Message != `unexpected character '#'` {
		t.Errorf("unexpected message %q", first.Message)
	}
	if !r.Full() || !r.HasErrors() {
		t.Fatal("expected the reporter to be full after one diagnostic")
	}
	r.Syntax(CodeExpected, span(1, 2, 1, 1), "ignored")
	diags := r.Diagnostics()
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(diags))
	}
	if diags[0].Kind != KindLexical {
		t.Errorf("expected the first diagnostic to be kept, got %s", diags[0].Kind)
	}

	diags[0].Message = "changed"
	if r.Diagnostics()[0].Message == "changed" {
		t.Error("Diagnostics should return a copy")
	}
}

func TestReporterUnlimited(t *testing.T) {
	r := NewReporter(nil)
	r.Limit = 0
	for i := 0; i < 3; i++ {
		r.Syntax(CodeUnexpected, span(1, i+1, i, 1), "error %d", i)
	}
	if r.Full() {
		t.Error("an unlimited reporter is never full")
	}
	if n := len(r.Diagnostics()); n != 3 {
		t.Errorf("expected 3 diagnostics, got %d", n)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"text", FormatText, false},
		{"YAML", FormatYAML, false},
		{"json", FormatJSON, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRenderText(t *testing.T) {
	src := "contract C {\n    uint x\n}\n"
	d := Diagnostic{Severity: SeverityError, Kind: KindSyntax, Code: CodeExpected, Message: "expected ';', got '}'", Span: span(3, 1, 24, 1)}
	var sb strings.Builder
	if err := (Renderer{Format: FormatText}).Render(&sb, "c.sol", src, []Diagnostic{d}); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	want := "c.sol:3:1: syntax error [PARSE-0001]: expected ';', got '}'\n  }\n  ^\n"
	if sb.String() != want {
		t.Errorf("want %q, got %q", want, sb.String())
	}
}

func TestRenderTextCaretWidth(t *testing.T) {
	src := "x = hex\"abc\";"
	d := Diagnostic{Severity: SeverityError, Kind: KindLexical, Code: CodeInvalidHexString, Message: "invalid hex string", Span: span(1, 5, 4, 8)}
	var sb strings.Builder
	if err := (Renderer{Format: FormatText}).Render(&sb, "x.sol", src, []Diagnostic{d}); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	lines := strings.Split(sb.String(), "\n")
	if len(lines) < 3 || lines[2] != "      ^~~~~~~~" {
		t.Errorf("unexpected caret line %q", lines[2])
	}
}

func TestRenderStructured(t *testing.T) {
	d := Diagnostic{Severity: SeverityError, Kind: KindSyntax, Code: CodeCardinality, Message: "m", Span: span(1, 1, 0, 1)}

	var js strings.Builder
	if err := (Renderer{Format: FormatJSON}).Render(&js, "a.sol", "", []Diagnostic{d}); err != nil {
		t.Fatalf("json render failed: %v", err)
	}
	var fromJSON fileReport
	if err := json.Unmarshal([]byte(js.String()), &fromJSON); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if fromJSON.File != "a.sol" || len(fromJSON.Diagnostics) != 1 || fromJSON.Diagnostics[0].Code != CodeCardinality {
		t.Errorf("unexpected json report %+v", fromJSON)
	}

	var ys strings.Builder
	if err := (Renderer{Format: FormatYAML}).Render(&ys, "a.sol", "", []Diagnostic{d}); err != nil {
		t.Fatalf("yaml render failed: %v", err)
	}
	if !strings.Contains(ys.String(), "code: PARSE-0003") {
		t.Errorf("expected yaml to contain the code, got:\n%s", ys.String())
	}
	var fromYAML fileReport
	if err := yaml.Unmarshal([]byte(ys.String()), &fromYAML); err != nil {
		t.Fatalf("invalid yaml: %v", err)
	}
	if fromYAML.Diagnostics[0].Span.Start.Line != 1 {
		t.Errorf("unexpected yaml report %+v", fromYAML)
	}
}
