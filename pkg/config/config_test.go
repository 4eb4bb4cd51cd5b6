package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ralph-sol.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[harness]
workers = 4
exclude_categories = ["TypeError"]

[output]
format = "json"
color = true

[log]
level = "debug"

[parser]
contract_restrictions = true

[watch]
debounce = "1s"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Harness.Workers != 4 || cfg.Output.Format != "json" || !cfg.Output.Color {
		t.Errorf("unexpected config %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.Harness.ExcludeCategories, []string{"TypeError"}) {
		t.Errorf("unexpected categories %v", cfg.Harness.ExcludeCategories)
	}
	if cfg.Harness.SourceMarker != "==== Source:" {
		t.Errorf("default source marker lost, got %q", cfg.Harness.SourceMarker)
	}
	if cfg.DebounceInterval() != time.Second {
		t.Errorf("unexpected debounce %v", cfg.DebounceInterval())
	}
	if !cfg.Parser.ContractRestrictions || len(cfg.HarnessConfig().ParserOptions) != 1 {
		t.Error("parser options not carried into the harness config")
	}
}

func TestLoadMissingDefaultFile(t *testing.T) {
	wd, _ := os.Getwd()
	t.Cleanup(func() { os.Chdir(wd) })
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad toml", "[harness\n", "failed to parse config"},
		{"bad format", "[output]\nformat = \"xml\"\n", "output.format"},
		{"bad level", "[log]\nlevel = \"loud\"\n", "log.level"},
		{"negative workers", "[harness]\nworkers = -1\n", "harness.workers"},
		{"bad debounce", "[watch]\ndebounce = \"soon\"\n", "watch.debounce"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("an explicitly named missing file should be an error")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
}
