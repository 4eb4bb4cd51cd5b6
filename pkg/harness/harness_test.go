package harness

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/raymyers/ralph-sol/pkg/diag"
)

const samplesDir = "../../testdata/samples"

func TestCategories(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"none", "contract C {}\n", nil},
		{"first line", "// ParserError\ncontract C {\n", []string{"ParserError"}},
		{"license header", "// SPDX-License-Identifier: MIT\ncontract C {}\n", nil},
		{"expectations", "contract C {}\n// ----\n// TypeError 1234: (0-1): bad\n// Warning 42: (0-1): meh\n", []string{"TypeError", "Warning"}},
		{"duplicates", "contract C {}\n// ----\n// ParserError 1: a\n// ParserError 2: b\n", []string{"ParserError"}},
		{"comment before marker", "// note\ncontract C {} // TypeError\n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Categories(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("want %v, got %v", tt.want, got)
			}
		})
	}
}

func TestSplit(t *testing.T) {
	text := "==== Source: a.sol ====\ncontract A {}\n==== ExternalSource: x ====\n==== Source: b.sol ====\ncontract B {}\n"
	units := Split(text, "==== Source:")
	if len(units) != 2 {
		t.Fatalf("expected 2 units, got %d: %+v", len(units), units)
	}
	if units[0].Name != "a.sol" || units[1].Name != "b.sol" {
		t.Errorf("unexpected names %q, %q", units[0].Name, units[1].Name)
	}
	if units[0].Text != "contract A {}" {
		t.Errorf("unexpected first unit %q", units[0].Text)
	}
}

func TestSplitSingleUnit(t *testing.T) {
	units := Split("contract C {}\n", "==== Source:")
	if len(units) != 1 || units[0].Name != "" {
		t.Fatalf("expected one unnamed unit, got %+v", units)
	}
	if got := Split("\n\n", "==== Source:"); len(got) != 0 {
		t.Errorf("blank text should give no units, got %+v", got)
	}
}

func TestExpectation(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		cats       []string
		wantExpect bool
		wantSkip   bool
	}{
		{nil, false, false},
		{[]string{"ParserError"}, true, false},
		{[]string{"TypeError"}, false, true},
		{[]string{"TypeError", "ParserError"}, true, false},
		{[]string{"Warning"}, false, true},
		{[]string{"FooError"}, false, false},
	}
	for _, tt := range tests {
		expect, skip := cfg.Expectation(tt.cats)
		if expect != tt.wantExpect || skip != tt.wantSkip {
			t.Errorf("Expectation(%v) = (%v, %v), want (%v, %v)", tt.cats, expect, skip, tt.wantExpect, tt.wantSkip)
		}
	}
}

func TestCheck(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		name   string
		sample Sample
		want   Status
	}{
		{"clean", Sample{Text: "contract C {}"}, StatusPass},
		{"expected error", Sample{Text: "contract C {", Categories: []string{ParserError}}, StatusPass},
		{"missing error", Sample{Text: "contract C {}", Categories: []string{ParserError}}, StatusFail},
		{"unexpected error", Sample{Text: "contract C {"}, StatusFail},
		{"skipped", Sample{Text: "contract C {", Categories: []string{"TypeError"}}, StatusSkip},
		{"error in second unit", Sample{Text: "==== Source: a ====\ncontract A {}\n==== Source: b ====\ncontract B {\n", Categories: []string{ParserError}}, StatusPass},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Check(tt.sample, cfg)
			if res.Status != tt.want {
				t.Errorf("want %s, got %s (%s)", tt.want, res.Status, res.Reason)
			}
		})
	}
}

func TestCheckRecordsUnit(t *testing.T) {
	s := Sample{Text: "==== Source: a ====\ncontract A {}\n==== Source: b ====\ncontract B {\n"}
	res := Check(s, DefaultConfig())
	if res.Status != StatusFail {
		t.Fatalf("expected failure, got %s", res.Status)
	}
	if len(res.Diagnostics) != 1 || res.Diagnostics[0].Unit != "b" {
		t.Fatalf("expected one diagnostic from unit b, got %+v", res.Diagnostics)
	}
	if res.Diagnostics[0].Diagnostic.Code != diag.CodeExpected {
		t.Errorf("unexpected code %s", res.Diagnostics[0].Diagnostic.Code)
	}
}

func TestCollect(t *testing.T) {
	files, err := Collect([]string{samplesDir}, []string{".sol"})
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	var rel []string
	for _, f := range files {
		r, _ := filepath.Rel(samplesDir, f)
		rel = append(rel, filepath.ToSlash(r))
	}
	want := []string{
		"multi_unit.sol",
		"ok_contract.sol",
		"syntax/first_line.sol",
		"syntax/missing_semicolon.sol",
		"type_error.sol",
		"yul_switch.sol",
	}
	if !reflect.DeepEqual(rel, want) {
		t.Errorf("want %v, got %v", want, rel)
	}
}

func TestCollectMissingPath(t *testing.T) {
	if _, err := Collect([]string{filepath.Join(t.TempDir(), "nope")}, []string{".sol"}); err == nil {
		t.Error("expected an error for a missing path")
	}
}

func TestRunnerCorpus(t *testing.T) {
	r := &Runner{Workers: 3, Config: DefaultConfig()}
	results, err := r.Run(context.Background(), []string{samplesDir})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	sum := Summarize(results)
	if sum.Failed != 0 {
		for _, f := range sum.Failures {
			t.Errorf("%s: %s", f.Path, f.Reason)
		}
	}
	if sum.Passed != 5 || sum.Skipped != 1 || sum.Total() != 6 {
		t.Errorf("unexpected summary %+v", sum)
	}
	if filepath.Base(results[4].Path) != "type_error.sol" || results[4].Status != StatusSkip {
		t.Errorf("expected type_error.sol to be skipped, got %+v", results[4])
	}
}

func TestRunnerNoFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	r := &Runner{Config: DefaultConfig()}
	if _, err := r.Run(context.Background(), []string{dir}); !errors.Is(err, ErrNoFiles) {
		t.Errorf("expected ErrNoFiles, got %v", err)
	}
}

func TestRunnerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := &Runner{Workers: 1, Config: DefaultConfig()}
	if _, err := r.Run(ctx, []string{samplesDir}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
