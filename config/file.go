package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// EmbedConfig configures the Embed capability (spec §4.F, §6).
type EmbedConfig struct {
	Endpoint  string        `yaml:"endpoint"`
	Model     string        `yaml:"model"`
	Dimension int           `yaml:"dimension"`
	BatchSize int           `yaml:"batch_size"`
	Timeout   time.Duration `yaml:"timeout"`
}

// StoreConfig configures the hybrid Store (spec §4.G, §6).
type StoreConfig struct {
	Path            string `yaml:"path"`
	VectorDimension int    `yaml:"vector_dimension"`
}

// LoggingConfig configures process-wide logging.
type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// File is the on-disk YAML configuration for the docindex CLI: zero or more
// scrape jobs plus the shared embed/store/logging settings. Grounded on
// domwatch/internal/config.Config's LoadFile/applyDefaults idiom.
type File struct {
	Sources []ScraperOptions `yaml:"sources"`
	Embed   EmbedConfig      `yaml:"embed"`
	Store   StoreConfig      `yaml:"store"`
	Logging LoggingConfig    `yaml:"logging"`
}

func (f *File) applyDefaults() {
	for i := range f.Sources {
		f.Sources[i].ApplyDefaults()
	}
	if f.Embed.BatchSize <= 0 {
		f.Embed.BatchSize = 32
	}
	if f.Embed.Timeout <= 0 {
		f.Embed.Timeout = 30 * time.Second
	}
	if f.Store.Path == "" {
		f.Store.Path = "docindex.db"
	}
	if f.Store.VectorDimension <= 0 {
		f.Store.VectorDimension = 768
	}
	if f.Logging.Level == "" {
		f.Logging.Level = "info"
	}
}

// LoadFile reads and parses a YAML configuration file, applying defaults to
// every field left unset.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	f.applyDefaults()
	return &f, nil
}
