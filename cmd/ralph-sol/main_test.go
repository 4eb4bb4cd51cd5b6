package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/raymyers/ralph-sol/pkg/harness"
)

// resetFlags restores every package-level flag to its default.
func resetFlags() {
	dParse = false
	dTokens = false
	formatFlag = "text"
	colorFlag = false
	configPath = ""
	verbose = false
	workers = 0
}

func writeSource(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	return path
}

func execute(args ...string) (string, string, error) {
	resetFlags()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs(normalizeFlags(args))
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestVersion(t *testing.T) {
	if version == "" {
		t.Error("version should not be empty")
	}
}

func TestFlagsExist(t *testing.T) {
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)

	for _, flagName := range []string{"dparse", "dtokens"} {
		if cmd.Flags().Lookup(flagName) == nil {
			t.Errorf("expected flag --%s to exist", flagName)
		}
	}
	for _, flagName := range []string{"format", "color", "config", "verbose"} {
		if cmd.PersistentFlags().Lookup(flagName) == nil {
			t.Errorf("expected persistent flag --%s to exist", flagName)
		}
	}
	for _, name := range []string{"check", "test", "watch", "repl"} {
		if c, _, err := cmd.Find([]string{name}); err != nil || c.Name() != name {
			t.Errorf("expected subcommand %s", name)
		}
	}
}

func TestNormalizeFlags(t *testing.T) {
	got := normalizeFlags([]string{"-dparse", "-dtokens", "-v", "--dparse", "a.sol"})
	want := []string{"--dparse", "--dtokens", "-v", "--dparse", "a.sol"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("want %v, got %v", want, got)
	}
}

func TestNoArgsShowsHelp(t *testing.T) {
	out, _, err := execute()
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if !strings.Contains(out, "ralph-sol [file]") {
		t.Errorf("expected usage, got %q", out)
	}
}

func TestDParseFlag(t *testing.T) {
	testFile := writeSource(t, "token.sol", `contract Token {
    mapping(address => uint) balances;
    function transfer(address to, uint amount) external {
        balances[msg.sender] -= amount;
        balances[to] += amount;
    }
}`)

	out, errOut, err := execute("-dparse", testFile)
	if err != nil {
		t.Fatalf("expected no error for -dparse, got %v\nStderr: %s", err, errOut)
	}
	for _, want := range []string{"contract Token {", "mapping(address => uint) balances;", "(balances[msg.sender] -= amount);"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}

	written, err := os.ReadFile(parsedOutputFilename(testFile))
	if err != nil {
		t.Fatalf("expected parsed output file: %v", err)
	}
	if string(written) != out {
		t.Errorf("parsed file differs from stdout:\n%s", written)
	}
}

func TestParsedOutputFilename(t *testing.T) {
	tests := map[string]string{
		"a.sol":       "a.parsed.sol",
		"dir/b.sol":   "dir/b.parsed.sol",
		"noextension": "noextension.parsed.sol",
	}
	for in, want := range tests {
		if got := parsedOutputFilename(in); got != want {
			t.Errorf("parsedOutputFilename(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDTokensFlag(t *testing.T) {
	testFile := writeSource(t, "t.sol", "pragma solidity ^0.8.0;")
	out, _, err := execute("-dtokens", testFile)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if !strings.HasPrefix(lines[0], "1:1\tdefault\tvisible\t'pragma'") {
		t.Errorf("unexpected first line %q", lines[0])
	}
	if !strings.Contains(out, "pragma\tsuppressed\twhitespace") {
		t.Errorf("expected a suppressed whitespace token in pragma mode, got:\n%s", out)
	}
	if !strings.Contains(lines[len(lines)-1], "end of input") {
		t.Errorf("expected the stream to end with EOF, got %q", lines[len(lines)-1])
	}
}

func TestCheckClean(t *testing.T) {
	testFile := writeSource(t, "ok.sol", "contract C {}")
	_, errOut, err := execute("check", testFile)
	if err != nil {
		t.Errorf("expected no error, got %v: %s", err, errOut)
	}
}

func TestCheckVerboseLogsTreeSize(t *testing.T) {
	testFile := writeSource(t, "ok.sol", "contract C { uint x; }")
	_, errOut, err := execute("check", "-v", testFile)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if !strings.Contains(errOut, "nodes=") || !strings.Contains(errOut, "depth=") {
		t.Errorf("expected tree size in the debug log, got:\n%s", errOut)
	}
}

func TestCheckReportsDiagnostics(t *testing.T) {
	testFile := writeSource(t, "bad.sol", "contract C {\n    uint x\n}\n")
	_, errOut, err := execute("check", testFile)
	if !errors.Is(err, ErrDiagnostics) {
		t.Fatalf("expected ErrDiagnostics, got %v", err)
	}
	want := testFile + ":3:1: syntax error [PARSE-0001]: expected ';', got '}'"
	if !strings.Contains(errOut, want) {
		t.Errorf("expected %q in:\n%s", want, errOut)
	}
}

func TestCheckJSONFormat(t *testing.T) {
	testFile := writeSource(t, "bad.sol", "contract C {")
	_, errOut, err := execute("check", "--format", "json", testFile)
	if !errors.Is(err, ErrDiagnostics) {
		t.Fatalf("expected ErrDiagnostics, got %v", err)
	}
	var report struct {
		File        string `json:"file"`
		Diagnostics []struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"diagnostics"`
	}
	if err := json.Unmarshal([]byte(errOut), &report); err != nil {
		t.Fatalf("invalid json output: %v\n%s", err, errOut)
	}
	if report.File != testFile || len(report.Diagnostics) != 1 || report.Diagnostics[0].Code != "PARSE-0001" {
		t.Errorf("unexpected report %+v", report)
	}
}

func TestCheckNoFiles(t *testing.T) {
	_, _, err := execute("check", t.TempDir())
	if !errors.Is(err, harness.ErrNoFiles) {
		t.Errorf("expected ErrNoFiles, got %v", err)
	}
}

func TestBadFormatFlag(t *testing.T) {
	testFile := writeSource(t, "ok.sol", "contract C {}")
	_, _, err := execute("check", "--format", "xml", testFile)
	if err == nil || !strings.Contains(err.Error(), "unknown diagnostic format") {
		t.Errorf("expected a format error, got %v", err)
	}
}

func TestConfigFile(t *testing.T) {
	cfgFile := writeSource(t, "ralph-sol.toml", "[output]\nformat = \"yaml\"\n\n[parser]\ncontract_restrictions = true\n")
	testFile := writeSource(t, "lib.sol", "library L { uint x; }")
	_, errOut, err := execute("check", "--config", cfgFile, testFile)
	if !errors.Is(err, ErrDiagnostics) {
		t.Fatalf("expected ErrDiagnostics, got %v", err)
	}
	if !strings.Contains(errOut, "code: PARSE-0004") {
		t.Errorf("expected a yaml restriction diagnostic, got:\n%s", errOut)
	}
}

func TestTestCommand(t *testing.T) {
	out, errOut, err := execute("test", "-j", "2", "../../testdata/samples")
	if err != nil {
		t.Fatalf("unexpected error %v\n%s%s", err, out, errOut)
	}
	if !strings.Contains(out, "5 passed, 0 failed, 1 skipped") {
		t.Errorf("unexpected summary:\n%s", out)
	}
}

func TestTestCommandFailures(t *testing.T) {
	testFile := writeSource(t, "wrong.sol", "// ParserError\ncontract C {}\n")
	out, _, err := execute("test", testFile)
	if !errors.Is(err, ErrTestFailures) {
		t.Fatalf("expected ErrTestFailures, got %v", err)
	}
	if !strings.Contains(out, "FAIL "+testFile+": expected a parser error, got none") {
		t.Errorf("unexpected output:\n%s", out)
	}
}
