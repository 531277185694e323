// Package config loads the atlas-tools configuration file.
package config

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config holds settings shared by the atlas-tools commands. Command-line
// flags override values read from the file.
type Config struct {
	ImagesDir string `yaml:"images_dir"` // page image directory; empty means next to the descriptor
	OutputDir string `yaml:"output_dir"` // unpack destination directory
	Archive   string `yaml:"archive"`    // unpack into this zip instead of OutputDir
	Catalog   string `yaml:"catalog"`    // SQLite region catalog path
	FlipV     bool   `yaml:"flip_v"`     // mirror v coordinates after loading
	Strict    bool   `yaml:"strict"`     // reject descriptors that end mid-record
	LogLevel  string `yaml:"log_level"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		OutputDir: "unpacked",
		Catalog:   "atlas-catalog.db",
		LogLevel:  "info",
	}
}

// Load reads a YAML configuration file. Keys missing from the file keep
// their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail late.
func (c Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level returns the configured log level.
func (c Config) Level() (log.Level, error) {
	if c.LogLevel == "" {
		return log.InfoLevel, nil
	}
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}
