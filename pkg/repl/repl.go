// Package repl is an interactive parse loop: each entry is parsed and its
// tree is printed back.
package repl

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/peterh/liner"

	"github.com/raymyers/ralph-sol/pkg/ast"
	"github.com/raymyers/ralph-sol/pkg/diag"
	"github.com/raymyers/ralph-sol/pkg/lexer"
	"github.com/raymyers/ralph-sol/pkg/parser"
)

const (
	prompt             = "sol> "
	continuationPrompt = "...> "
)

// Mode selects how an entry is interpreted.
type Mode string

const (
	ModeAuto   Mode = "auto"
	ModeExpr   Mode = "expr"
	ModeUnit   Mode = "unit"
	ModeTokens Mode = "tokens"
)

// unitStarters are the words that begin a source unit item.
var unitStarters = map[lexer.Kind]bool{
	lexer.Pragma:    true,
	lexer.Import:    true,
	lexer.Abstract:  true,
	lexer.Contract:  true,
	lexer.Interface: true,
	lexer.Library:   true,
	lexer.Struct:    true,
	lexer.Enum:      true,
	lexer.Type:      true,
	lexer.Event:     true,
	lexer.Using:     true,
	lexer.Function:  true,
}

var completionWords = []string{
	"abstract", "assembly", "contract", "constructor", "emit", "enum", "error",
	"event", "external", "function", "import", "interface", "internal",
	"library", "mapping", "modifier", "pragma", "private", "public", "pure",
	"returns", "revert", "struct", "unchecked", "using", "view",
	":auto", ":expr", ":help", ":tokens", ":unit",
}

// Session holds the state of one interactive session.
type Session struct {
	Mode     Mode
	Renderer diag.Renderer
	Options  []parser.Option
}

// NewSession returns a session in auto mode with plain text diagnostics.
func NewSession(opts ...parser.Option) *Session {
	return &Session{
		Mode:     ModeAuto,
		Renderer: diag.Renderer{Format: diag.FormatText},
		Options:  opts,
	}
}

// Command handles a ":" command. It reports whether the input was a command.
func (s *Session) Command(input string, out io.Writer) bool {
	cmd := strings.TrimSpace(input)
	if !strings.HasPrefix(cmd, ":") {
		return false
	}
	switch cmd {
	case ":help":
		fmt.Fprintln(out, "Commands:")
		fmt.Fprintln(out, "  :auto    parse declarations as a source unit, anything else as an expression")
		fmt.Fprintln(out, "  :expr    parse entries as expressions")
		fmt.Fprintln(out, "  :unit    parse entries as source units")
		fmt.Fprintln(out, "  :tokens  print the token stream")
		fmt.Fprintln(out, "  exit     leave the session")
	case ":auto", ":expr", ":unit", ":tokens":
		s.Mode = Mode(strings.TrimPrefix(cmd, ":"))
		fmt.Fprintf(out, "mode: %s\n", s.Mode)
	default:
		fmt.Fprintf(out, "unknown command %s (try :help)\n", cmd)
	}
	return true
}

// Eval parses one complete entry and writes the result.
func (s *Session) Eval(input string, out io.Writer) {
	mode := s.Mode
	if mode == ModeAuto {
		mode = detectMode(input)
	}
	switch mode {
	case ModeTokens:
		s.printTokens(input, out)
	case ModeUnit:
		unit, diags := parser.ParseFile(input, s.Options...)
		if len(diags) > 0 {
			s.Renderer.Render(out, "<repl>", input, diags)
			return
		}
		ast.NewPrinter(out).PrintSourceUnit(unit)
	default:
		e, diags := parser.ParseExpression(input, s.Options...)
		if len(diags) > 0 {
			s.Renderer.Render(out, "<repl>", input, diags)
			return
		}
		fmt.Fprintln(out, ast.ExprString(e))
	}
}

func detectMode(input string) Mode {
	toks, err := lexer.New(input).Tokenize()
	if err != nil {
		return ModeExpr
	}
	vis := lexer.Visible(toks)
	if len(vis) == 0 || !unitStarters[vis[0].Kind] {
		return ModeExpr
	}
	return ModeUnit
}

func (s *Session) printTokens(input string, out io.Writer) {
	toks, err := lexer.New(input).Tokenize()
	if err != nil {
		var d *diag.Diagnostic
		if errors.As(err, &d) {
			s.Renderer.Render(out, "<repl>", input, []diag.Diagnostic{*d})
			return
		}
		fmt.Fprintln(out, err)
		return
	}
	for _, t := range lexer.Visible(toks) {
		fmt.Fprintf(out, "%s %s %s\n", t.Span.Start, t.Mode, t.Describe())
	}
}

// NeedsMoreInput reports whether input has unclosed braces, brackets or
// parentheses outside strings and comments.
func NeedsMoreInput(input string) bool {
	depth := 0
	var quote byte
	for i := 0; i < len(input); i++ {
		ch := input[i]
		if quote != 0 {
			switch ch {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}
		switch ch {
		case '"', '\'':
			quote = ch
		case '/':
			if i+1 < len(input) && input[i+1] == '/' {
				for i < len(input) && input[i] != '\n' {
					i++
				}
			} else if i+1 < len(input) && input[i+1] == '*' {
				end := strings.Index(input[i+2:], "*/")
				if end < 0 {
					return true
				}
				i += end + 3
			}
		case '{', '(', '[':
			depth++
		case '}', ')', ']':
			depth--
		}
	}
	return depth > 0
}

func filterCompletions(line string) []string {
	start := strings.LastIndexAny(line, " \t(){};,") + 1
	prefix := line[start:]
	if prefix == "" {
		return nil
	}
	var out []string
	for _, w := range completionWords {
		if strings.HasPrefix(w, prefix) {
			out = append(out, line[:start]+w)
		}
	}
	sort.Strings(out)
	return out
}

// Start runs the interactive loop on the terminal until exit or Ctrl+D.
func Start(out io.Writer, version string, s *Session) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetCompleter(filterCompletions)

	historyFile := filepath.Join(os.TempDir(), ".ralph_sol_history")
	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(historyFile); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Fprintf(out, "ralph-sol %s\n", version)
	fmt.Fprintln(out, "Type ':help' for commands, 'exit' or Ctrl+D to quit")

	var buf strings.Builder
	for {
		p := prompt
		if buf.Len() > 0 {
			p = continuationPrompt
		}
		input, err := line.Prompt(p)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				buf.Reset()
				fmt.Fprintln(out, "^C")
				continue
			}
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(out)
				return
			}
			fmt.Fprintf(out, "error reading input: %v\n", err)
			return
		}

		trimmed := strings.TrimSpace(input)
		if buf.Len() == 0 {
			if trimmed == "exit" || trimmed == "quit" {
				return
			}
			if trimmed == "" || s.Command(trimmed, out) {
				continue
			}
		}
		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(input)
		if NeedsMoreInput(buf.String()) {
			continue
		}
		entry := buf.String()
		buf.Reset()
		line.AppendHistory(entry)
		s.Eval(entry, out)
	}
}
