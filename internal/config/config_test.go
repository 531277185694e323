package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	log "github.com/sirupsen/logrus"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "atlas-tools.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
images_dir: assets/pages
archive: out/regions.zip
flip_v: true
log_level: debug
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := Config{
		ImagesDir: "assets/pages",
		OutputDir: "unpacked",
		Archive:   "out/regions.zip",
		Catalog:   "atlas-catalog.db",
		FlipV:     true,
		LogLevel:  "debug",
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	if level, _ := cfg.Level(); level != log.DebugLevel {
		t.Errorf("level = %v", level)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := Load(writeConfig(t, "flip_v: [1, 2\n")); err == nil {
		t.Error("expected error for invalid YAML")
	}
	if _, err := Load(writeConfig(t, "log_level: loud\n")); err == nil {
		t.Error("expected error for unknown log level")
	}
}
