// Package harness checks annotated sample files against the parser.
//
// A sample says whether it should fail to parse. The annotation is either a
// comment on the first line naming a category ("// ParserError") or an
// expectations section introduced by "// ----" whose lines start with a
// category. ParserError means a diagnostic is expected and no annotation means
// none is. Samples that only carry categories from later compiler stages are
// skipped, since this front end cannot reproduce those errors.
package harness

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/raymyers/ralph-sol/pkg/diag"
	"github.com/raymyers/ralph-sol/pkg/parser"
)

// ParserError is the category that expects a diagnostic.
const ParserError = "ParserError"

// Config controls how samples are interpreted.
type Config struct {
	// SourceMarker starts a new unit in a multi-unit sample. The rest of the
	// line up to a closing "====" is the unit name.
	SourceMarker string
	// ExcludeCategories are skipped unless ParserError is also present.
	ExcludeCategories []string
	// Extensions select files when a directory is given.
	Extensions    []string
	ParserOptions []parser.Option
}

// DefaultConfig returns the settings used when no configuration file exists.
func DefaultConfig() Config {
	return Config{
		SourceMarker: "==== Source:",
		ExcludeCategories: []string{
			"TypeError", "DeclarationError", "SyntaxError", "DocstringParsingError",
			"Warning", "Info", "CodeGenerationError", "UnimplementedFeatureError",
		},
		Extensions: []string{".sol"},
	}
}

// Sample is one loaded fixture file.
type Sample struct {
	Path       string
	Text       string
	Categories []string
}

// Unit is one independently parsed piece of a sample.
type Unit struct {
	Name string
	Text string
}

var categoryRe = regexp.MustCompile(`^//\s*([A-Z][A-Za-z]*(?:Error|Warning)|Warning|Info)\b`)

// Load reads a sample and extracts its annotation categories.
func Load(path string) (Sample, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Sample{}, fmt.Errorf("read sample: %w", err)
	}
	text := string(data)
	return Sample{Path: path, Text: text, Categories: Categories(text)}, nil
}

// Categories returns the annotation categories of a sample text, in order of
// appearance and without duplicates.
func Categories(text string) []string {
	var cats []string
	seen := map[string]bool{}
	add := func(line string) {
		if m := categoryRe.FindStringSubmatch(strings.TrimSpace(line)); m != nil && !seen[m[1]] {
			seen[m[1]] = true
			cats = append(cats, m[1])
		}
	}

	lines := strings.Split(text, "\n")
	if len(lines) > 0 {
		add(lines[0])
	}
	inExpectations := false
	for _, line := range lines[1:] {
		trimmed := strings.TrimSpace(line)
		if trimmed == "// ----" {
			inExpectations = true
			continue
		}
		if inExpectations {
			add(trimmed)
		}
	}
	return cats
}

// Split divides text into units at lines starting with marker. Text before the
// first marker forms an unnamed unit if it holds anything but blank lines.
// Other "==== ... ====" metadata lines are dropped.
func Split(text, marker string) []Unit {
	var units []Unit
	cur := Unit{}
	var body []string
	flush := func() {
		joined := strings.Join(body, "\n")
		if cur.Name != "" || strings.TrimSpace(joined) != "" {
			cur.Text = joined
			units = append(units, cur)
		}
		body = nil
	}
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if marker != "" && strings.HasPrefix(trimmed, marker) {
			flush()
			name := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(trimmed, marker), "===="))
			cur = Unit{Name: name}
			continue
		}
		if strings.HasPrefix(trimmed, "==== ") && strings.HasSuffix(trimmed, " ====") {
			continue
		}
		body = append(body, line)
	}
	flush()
	return units
}

// Status is the outcome of checking one sample.
type Status int

const (
	StatusPass Status = iota
	StatusFail
	StatusSkip
)

func (s Status) String() string {
	switch s {
	case StatusPass:
		return "pass"
	case StatusFail:
		return "fail"
	}
	return "skip"
}

// UnitDiagnostic ties a diagnostic to the unit it came from.
type UnitDiagnostic struct {
	Unit       string
	Diagnostic diag.Diagnostic
}

// Result is the outcome for one sample.
type Result struct {
	Path        string
	Status      Status
	ExpectError bool
	Diagnostics []UnitDiagnostic
	Reason      string
}

// Expectation reports whether a sample expects a diagnostic and whether it
// should be skipped.
func (c Config) Expectation(categories []string) (expectError, skip bool) {
	excluded := map[string]bool{}
	for _, cat := range c.ExcludeCategories {
		excluded[cat] = true
	}
	for _, cat := range categories {
		if cat == ParserError {
			return true, false
		}
	}
	for _, cat := range categories {
		if excluded[cat] {
			return false, true
		}
	}
	return false, false
}

// Check parses every unit of a sample and compares the outcome with its
// annotation.
func Check(s Sample, cfg Config) Result {
	res := Result{Path: s.Path}
	expectError, skip := cfg.Expectation(s.Categories)
	res.ExpectError = expectError
	if skip {
		res.Status = StatusSkip
		res.Reason = "only categories from later stages: " + strings.Join(s.Categories, ", ")
		return res
	}

	for _, u := range Split(s.Text, cfg.SourceMarker) {
		_, diags := parser.ParseFile(u.Text, cfg.ParserOptions...)
		for _, d := range diags {
			res.Diagnostics = append(res.Diagnostics, UnitDiagnostic{Unit: u.Name, Diagnostic: d})
		}
	}

	hasErrors := len(res.Diagnostics) > 0
	switch {
	case expectError && !hasErrors:
		res.Status = StatusFail
		res.Reason = "expected a parser error, got none"
	case !expectError && hasErrors:
		res.Status = StatusFail
		first := res.Diagnostics[0]
		res.Reason = fmt.Sprintf("unexpected error: %s", first.Diagnostic.String())
		if first.Unit != "" {
			res.Reason = fmt.Sprintf("unexpected error in %s: %s", first.Unit, first.Diagnostic.String())
		}
	default:
		res.Status = StatusPass
	}
	return res
}

// Summary counts results by status.
type Summary struct {
	Passed   int
	Failed   int
	Skipped  int
	Failures []Result
}

// Total returns the number of results summarized.
func (s Summary) Total() int {
	return s.Passed + s.Failed + s.Skipped
}

// Summarize counts results and collects the failures.
func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		switch r.Status {
		case StatusPass:
			s.Passed++
		case StatusFail:
			s.Failed++
			s.Failures = append(s.Failures, r)
		default:
			s.Skipped++
		}
	}
	return s
}
