package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/raymyers/ralph-sol/pkg/ast"
	"github.com/raymyers/ralph-sol/pkg/config"
	"github.com/raymyers/ralph-sol/pkg/diag"
	"github.com/raymyers/ralph-sol/pkg/harness"
	"github.com/raymyers/ralph-sol/pkg/lexer"
	"github.com/raymyers/ralph-sol/pkg/parser"
	"github.com/raymyers/ralph-sol/pkg/repl"
	"github.com/raymyers/ralph-sol/pkg/watch"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

// Debug flags for dumping intermediate results
var (
	dParse  bool
	dTokens bool
)

// Output and configuration flags
var (
	formatFlag string
	colorFlag  bool
	configPath string
	verbose    bool
	workers    int
)

// ErrDiagnostics is returned when a checked file has diagnostics. The
// diagnostics themselves have already been written.
var ErrDiagnostics = errors.New("source has diagnostics")

// ErrTestFailures is returned when harness samples do not behave as annotated.
var ErrTestFailures = errors.New("sample expectations not met")

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := newRootCmd(os.Stdout, os.Stderr)
	// Accept single-dash debug flags such as -dparse
	rootCmd.SetArgs(normalizeFlags(os.Args[1:]))
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, ErrDiagnostics) && !errors.Is(err, ErrTestFailures) {
			fmt.Fprintf(os.Stderr, "ralph-sol: %v\n", err)
		}
		return 1
	}
	return 0
}

// debugFlagNames lists the debug flags that also accept a single dash
var debugFlagNames = []string{"dparse", "dtokens"}

// normalizeFlags converts single-dash debug flags like -dparse to --dparse
func normalizeFlags(args []string) []string {
	result := make([]string, len(args))
	for i, arg := range args {
		for _, flagName := range debugFlagNames {
			if arg == "-"+flagName {
				result[i] = "--" + flagName
				break
			}
		}
		if result[i] == "" {
			result[i] = arg
		}
	}
	return result
}

// app carries what every command needs once flags and config are resolved.
type app struct {
	out, errOut io.Writer
	cfg         *config.Config
	logger      *slog.Logger
	renderer    diag.Renderer
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Output.Format = formatFlag
	}
	if flags.Changed("color") {
		cfg.Output.Color = colorFlag
	}
	if flags.Changed("workers") {
		cfg.Harness.Workers = workers
	}
	if verbose {
		cfg.Log.Level = "debug"
	}

	format, err := diag.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}
	level, err := config.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.renderer = diag.Renderer{Format: format, Color: cfg.Output.Color}
	a.logger = slog.New(slog.NewTextHandler(a.errOut, &slog.HandlerOptions{Level: level}))
	a.logger.Debug("configuration loaded", slog.String("format", string(format)), slog.String("level", level.String()))
	return nil
}

func (a *app) parserOptions() []parser.Option {
	return append(a.cfg.ParserOptions(), parser.WithLogger(a.logger))
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut}
	rootCmd := &cobra.Command{
		Use:   "ralph-sol [file]",
		Short: "ralph-sol is a syntax front end for Solidity with inline assembly",
		Long: `ralph-sol tokenizes and parses contract source files, including
inline assembly blocks, and reports the first lexical or syntax error
with its position. It can dump the token stream and the syntax tree
and run annotated sample corpora.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				cmd.Help()
				return nil
			}
			filename := args[0]

			// Handle -dtokens: dump the token stream
			if dTokens {
				return a.doTokens(filename)
			}

			// Handle -dparse: parse and dump the tree
			if dParse {
				return a.doParse(filename)
			}

			return a.checkFiles([]string{filename})
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	rootCmd.Flags().BoolVarP(&dParse, "dparse", "", false, "Dump the syntax tree after parsing")
	rootCmd.Flags().BoolVarP(&dTokens, "dtokens", "", false, "Dump the token stream with modes and channels")

	rootCmd.PersistentFlags().StringVar(&formatFlag, "format", "text", "Diagnostic format: text, yaml or json")
	rootCmd.PersistentFlags().BoolVar(&colorFlag, "color", false, "Colour text diagnostics")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the configuration file (default ralph-sol.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")

	rootCmd.AddCommand(newCheckCmd(a), newTestCmd(a), newWatchCmd(a), newReplCmd(a))
	return rootCmd
}

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check <files|dirs...>",
		Short: "Parse files and report diagnostics",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := harness.Collect(args, a.cfg.Harness.Extensions)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return harness.ErrNoFiles
			}
			return a.checkFiles(files)
		},
	}
}

func newTestCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test <dirs|files...>",
		Short: "Run annotated samples and compare against their expectations",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSamples(cmd.Context(), args)
		},
	}
	cmd.Flags().IntVarP(&workers, "workers", "j", 0, "Number of concurrent workers (default GOMAXPROCS)")
	return cmd
}

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <files|dirs...>",
		Short: "Check files and re-check them whenever they change",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			return a.watch(ctx, args)
		},
	}
}

func newReplCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Parse expressions and declarations interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := repl.NewSession(a.parserOptions()...)
			s.Renderer = a.renderer
			repl.Start(a.out, version, s)
			return nil
		},
	}
}

func readSource(filename string) (string, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return "", fmt.Errorf("error reading %s: %w", filename, err)
	}
	return string(content), nil
}

// checkFile parses one file and renders its diagnostics. It reports whether
// the file was clean.
func (a *app) checkFile(filename string) (bool, error) {
	src, err := readSource(filename)
	if err != nil {
		return false, err
	}
	unit, diags := parser.ParseFile(src, a.parserOptions()...)
	if len(diags) == 0 {
		a.logger.Debug("checked file", slog.String("file", filename),
			slog.Int("nodes", ast.Count(unit)), slog.Int("depth", ast.Depth(unit)))
		return true, nil
	}
	a.logger.Debug("checked file", slog.String("file", filename), slog.Int("diagnostics", len(diags)))
	if err := a.renderer.Render(a.errOut, filename, src, diags); err != nil {
		return false, err
	}
	return false, nil
}

func (a *app) checkFiles(files []string) error {
	clean := true
	for _, f := range files {
		ok, err := a.checkFile(f)
		if err != nil {
			return err
		}
		clean = clean && ok
	}
	if !clean {
		return ErrDiagnostics
	}
	return nil
}

// doTokens prints every token, including whitespace and comments.
func (a *app) doTokens(filename string) error {
	src, err := readSource(filename)
	if err != nil {
		return err
	}
	toks, err := lexer.New(src, lexer.WithLogger(a.logger)).Tokenize()
	if err != nil {
		var d *diag.Diagnostic
		if errors.As(err, &d) {
			if rerr := a.renderer.Render(a.errOut, filename, src, []diag.Diagnostic{*d}); rerr != nil {
				return rerr
			}
			return ErrDiagnostics
		}
		return err
	}
	for _, t := range toks {
		fmt.Fprintf(a.out, "%s\t%s\t%s\t%s\n", t.Span.Start, t.Mode, t.Channel, t.Describe())
	}
	return nil
}

// doParse parses the file and writes the tree to a .parsed.sol file and to
// stdout.
func (a *app) doParse(filename string) error {
	src, err := readSource(filename)
	if err != nil {
		return err
	}
	unit, diags := parser.ParseFile(src, a.parserOptions()...)
	if len(diags) > 0 {
		if err := a.renderer.Render(a.errOut, filename, src, diags); err != nil {
			return err
		}
		return ErrDiagnostics
	}

	outputFilename := parsedOutputFilename(filename)
	outFile, err := os.Create(outputFilename)
	if err != nil {
		return fmt.Errorf("error creating %s: %w", outputFilename, err)
	}
	defer outFile.Close()

	ast.NewPrinter(outFile).PrintSourceUnit(unit)
	ast.NewPrinter(a.out).PrintSourceUnit(unit)
	return nil
}

// parsedOutputFilename returns the output filename for -dparse:
// input.sol -> input.parsed.sol
func parsedOutputFilename(filename string) string {
	ext := ".sol"
	if strings.HasSuffix(filename, ext) {
		return filename[:len(filename)-len(ext)] + ".parsed.sol"
	}
	return filename + ".parsed.sol"
}

func (a *app) runSamples(ctx context.Context, paths []string) error {
	r := &harness.Runner{
		Workers: a.cfg.Harness.Workers,
		Config:  a.cfg.HarnessConfig(),
		Logger:  a.logger,
	}
	r.Config.ParserOptions = a.parserOptions()
	results, err := r.Run(ctx, paths)
	if err != nil {
		return err
	}
	sum := harness.Summarize(results)
	for _, f := range sum.Failures {
		fmt.Fprintf(a.out, "FAIL %s: %s\n", f.Path, f.Reason)
	}
	fmt.Fprintf(a.out, "%d passed, %d failed, %d skipped\n", sum.Passed, sum.Failed, sum.Skipped)
	if sum.Failed > 0 {
		return ErrTestFailures
	}
	return nil
}

func (a *app) watch(ctx context.Context, paths []string) error {
	w, err := watch.New(a.cfg.Harness.Extensions, a.cfg.DebounceInterval(), a.logger)
	if err != nil {
		return err
	}
	defer w.Close()
	for _, p := range paths {
		if err := w.Add(p); err != nil {
			return err
		}
	}

	files, err := harness.Collect(paths, a.cfg.Harness.Extensions)
	if err != nil {
		return err
	}
	a.report(files)
	fmt.Fprintf(a.out, "watching %s (Ctrl+C to stop)\n", strings.Join(paths, ", "))

	err = w.Run(ctx, a.report)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// report checks files and prints one status line each.
func (a *app) report(files []string) {
	for _, f := range files {
		ok, err := a.checkFile(f)
		switch {
		case err != nil:
			fmt.Fprintf(a.errOut, "ralph-sol: %v\n", err)
		case ok:
			fmt.Fprintf(a.out, "%s: ok\n", f)
		}
	}
}
