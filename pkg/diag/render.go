package diag

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// Format selects how diagnostics are written.
type Format string

const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatYAML, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("unknown diagnostic format %q (want text, yaml or json)", s)
}

var (
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
	locationStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#94A3B8"))
	caretStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")).Bold(true)
	codeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#64748B"))
)

// Renderer writes diagnostics for one file.
type Renderer struct {
	Format Format
	Color  bool
}

// fileReport is the structured form written for yaml and json output.
type fileReport struct {
	File        string       `json:"file" yaml:"file"`
	Diagnostics []Diagnostic `json:"diagnostics" yaml:"diagnostics"`
}

// Render writes diags for file. src is the file's text, used to show the
// offending line in text output.
func (r Renderer) Render(w io.Writer, file, src string, diags []Diagnostic) error {
	switch r.Format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(fileReport{File: file, Diagnostics: diags}); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(fileReport{File: file, Diagnostics: diags}); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	}
	for i := range diags {
		if _, err := io.WriteString(w, r.text(file, src, &diags[i])); err != nil {
			return err
		}
	}
	return nil
}

func (r Renderer) paint(s lipgloss.Style, text string) string {
	if !r.Color {
		return text
	}
	return s.Render(text)
}

func (r Renderer) text(file, src string, d *Diagnostic) string {
	var sb strings.Builder
	loc := fmt.Sprintf("%s:%d:%d:", file, d.Span.Start.Line, d.Span.Start.Column)
	sb.WriteString(r.paint(locationStyle, loc))
	sb.WriteString(" ")
	sb.WriteString(r.paint(errorStyle, fmt.Sprintf("%s error", d.Kind)))
	sb.WriteString(" ")
	sb.WriteString(r.paint(codeStyle, "["+d.Code+"]"))
	sb.WriteString(": ")
	sb.WriteString(d.Message)
	sb.WriteString("\n")

	line := sourceLine(src, d.Span.Start.Line)
	if line == "" {
		return sb.String()
	}
	sb.WriteString("  ")
	sb.WriteString(line)
	sb.WriteString("\n  ")
	col := d.Span.Start.Column - 1
	if col > len(line) {
		col = len(line)
	}
	for _, ch := range line[:col] {
		if ch == '\t' {
			sb.WriteByte('\t')
		} else {
			sb.WriteByte(' ')
		}
	}
	width := 1
	if d.Span.End.Line == d.Span.Start.Line && d.Span.Len() > 1 {
		width = d.Span.Len()
	}
	sb.WriteString(r.paint(caretStyle, "^"+strings.Repeat("~", width-1)))
	sb.WriteString("\n")
	return sb.String()
}

func sourceLine(src string, n int) string {
	if n < 1 {
		return ""
	}
	lines := strings.Split(src, "\n")
	if n > len(lines) {
		return ""
	}
	return strings.TrimRight(lines[n-1], "\r")
}
