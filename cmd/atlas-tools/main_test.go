package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ernie/spine-atlas/internal/config"
)

func TestParseFlags(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "atlas-tools.yaml")
	err := os.WriteFile(cfgPath, []byte(`
images_dir: pages
output_dir: from-file
catalog: file.db
flip_v: true
strict: true
log_level: debug
`), 0644)
	if err != nil {
		t.Fatal(err)
	}
	fromFile := config.Config{
		ImagesDir: "pages",
		OutputDir: "from-file",
		Catalog:   "file.db",
		FlipV:     true,
		Strict:    true,
		LogLevel:  "debug",
	}

	withDefaults := func(edit func(*config.Config)) config.Config {
		cfg := config.Default()
		edit(&cfg)
		return cfg
	}
	fromFileWith := func(edit func(*config.Config)) config.Config {
		cfg := fromFile
		edit(&cfg)
		return cfg
	}

	tests := []struct {
		name    string
		args    []string
		command string
		rest    []string
		cfg     config.Config
		output  string
	}{
		{
			name:    "defaults",
			args:    []string{"info", "game.atlas"},
			command: "info",
			rest:    []string{"game.atlas"},
			cfg:     config.Default(),
		},
		{
			name:    "config file",
			args:    []string{"-c", cfgPath, "unpack", "game.atlas"},
			command: "unpack",
			rest:    []string{"game.atlas"},
			cfg:     fromFile,
		},
		{
			name: "flags override config",
			args: []string{"--config", cfgPath, "--images", "cli", "--out", "",
				"--flipv=false", "--catalog", "cli.db", "index", "a.atlas", "b.zip"},
			command: "index",
			rest:    []string{"a.atlas", "b.zip"},
			cfg: fromFileWith(func(c *config.Config) {
				c.ImagesDir = "cli"
				c.OutputDir = ""
				c.FlipV = false
				c.Catalog = "cli.db"
			}),
		},
		{
			name:    "flags over defaults",
			args:    []string{"--strict", "--archive", "regions.zip", "-o", "game.json", "manifest", "game.atlas"},
			command: "manifest",
			rest:    []string{"game.atlas"},
			cfg: withDefaults(func(c *config.Config) {
				c.Strict = true
				c.Archive = "regions.zip"
			}),
			output: "game.json",
		},
		{
			name:    "interspersed flags",
			args:    []string{"find", "button", "--catalog", "ui.db", "frame"},
			command: "find",
			rest:    []string{"button", "frame"},
			cfg:     withDefaults(func(c *config.Config) { c.Catalog = "ui.db" }),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			command, rest, opts, err := parseFlags(tt.args)
			if err != nil {
				t.Fatalf("parseFlags: %v", err)
			}
			if command != tt.command {
				t.Errorf("command = %q, want %q", command, tt.command)
			}
			if diff := cmp.Diff(tt.rest, rest); diff != "" {
				t.Errorf("args (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.cfg, opts.cfg); diff != "" {
				t.Errorf("config (-want +got):\n%s", diff)
			}
			if opts.output != tt.output {
				t.Errorf("output = %q, want %q", opts.output, tt.output)
			}
		})
	}
}

func TestParseFlagsErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"--bogus", "info", "game.atlas"}},
		{"missing config", []string{"-c", filepath.Join(t.TempDir(), "none.yaml"), "info", "game.atlas"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, _, err := parseFlags(tt.args); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParseFlagsHelp(t *testing.T) {
	for _, args := range [][]string{nil, {"--help"}} {
		command, _, opts, err := parseFlags(args)
		if err != nil || command != "" || opts == nil {
			t.Errorf("parseFlags(%q) = %q, %v, %v", args, command, opts, err)
		}
	}
}
