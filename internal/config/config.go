package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/iancoleman/strcase"
	"gopkg.in/yaml.v3"

	"github.com/mcncl/schemaref/internal/extract"
	"github.com/mcncl/schemaref/internal/formatter"
	"github.com/mcncl/schemaref/internal/ref"
	"github.com/mcncl/schemaref/internal/textlen"
)

// Config represents the complete configuration for schemaref
type Config struct {
	RefKeywords []string     `yaml:"ref_keywords"`
	IDKeywords  []string     `yaml:"id_keywords"`
	BaseScope   string       `yaml:"base_scope"`
	MaxDepth    int          `yaml:"max_depth"`
	TextLength  string       `yaml:"text_length"`
	Output      OutputConfig `yaml:"output"`
	Dev         DevConfig    `yaml:"dev"`
}

// OutputConfig controls how results are printed
type OutputConfig struct {
	Format string `yaml:"format"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug bool `yaml:"debug"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	defaults := ref.DefaultOptions()
	return &Config{
		RefKeywords: defaults.RefKeywords,
		IDKeywords:  defaults.IDKeywords,
		MaxDepth:    extract.DefaultMaxDepth,
		TextLength:  textlen.Default.String(),
		Output: OutputConfig{
			Format: string(formatter.FormatJSON),
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := NewConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".schemaref.yml", ".schemaref.yaml", "schemaref.yml", "schemaref.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return ""
}

// normalize applies keyword naming rules and fills in cleared defaults
func (c *Config) normalize() {
	defaults := ref.DefaultOptions()
	c.RefKeywords = NormalizeKeywords(c.RefKeywords)
	if len(c.RefKeywords) == 0 {
		c.RefKeywords = defaults.RefKeywords
	}
	c.IDKeywords = NormalizeKeywords(c.IDKeywords)
	if len(c.IDKeywords) == 0 {
		c.IDKeywords = defaults.IDKeywords
	}
	if c.MaxDepth <= 0 {
		c.MaxDepth = extract.DefaultMaxDepth
	}
}

// NormalizeKeywords trims keyword names and converts snake or kebab case
// names to lowerCamel, the spelling schema keywords use. Names starting with
// '$' are kept as written. Empty and duplicate names are dropped.
func NormalizeKeywords(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if !strings.HasPrefix(name, "$") && strings.ContainsAny(name, "_-") {
			name = strcase.ToLowerCamel(name)
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// Validate checks values that cannot be verified by the YAML decoder
func (c *Config) Validate() error {
	if _, err := textlen.Parse(c.TextLength); err != nil {
		return err
	}
	if _, err := formatter.ParseFormat(c.Output.Format); err != nil {
		return err
	}
	if c.BaseScope != "" && ref.IsInternal(c.BaseScope) {
		return fmt.Errorf("base scope %q must not be a fragment", c.BaseScope)
	}
	return nil
}

// RefOptions returns the traversal options for reference collection
func (c *Config) RefOptions() ref.Options {
	return ref.Options{
		RefKeywords: c.RefKeywords,
		IDKeywords:  c.IDKeywords,
		BaseScope:   c.BaseScope,
		MaxDepth:    c.MaxDepth,
	}
}

// TextStrategy returns the configured string length strategy
func (c *Config) TextStrategy() textlen.Strategy {
	s, err := textlen.Parse(c.TextLength)
	if err != nil {
		return textlen.Default
	}
	return s
}

// OutputFormat returns the configured output format
func (c *Config) OutputFormat() formatter.Format {
	f, err := formatter.ParseFormat(c.Output.Format)
	if err != nil {
		return formatter.FormatJSON
	}
	return f
}

// MergeConfigs merges CLI overrides into a base config
// Non-empty values from override take precedence over base values
func MergeConfigs(base, override *Config) *Config {
	merged := *base

	if len(override.RefKeywords) > 0 {
		merged.RefKeywords = override.RefKeywords
	}
	if len(override.IDKeywords) > 0 {
		merged.IDKeywords = override.IDKeywords
	}
	if override.BaseScope != "" {
		merged.BaseScope = override.BaseScope
	}
	if override.MaxDepth > 0 {
		merged.MaxDepth = override.MaxDepth
	}
	if override.TextLength != "" {
		merged.TextLength = override.TextLength
	}
	if override.Output.Format != "" {
		merged.Output.Format = override.Output.Format
	}
	// Debug is on when either the file or the flag enables it.
	merged.Dev.Debug = base.Dev.Debug || override.Dev.Debug

	return &merged
}

// LoadConfigWithCLI loads config with CLI argument precedence. Zero values in
// cli mean the flag was not given.
func LoadConfigWithCLI(configPath string, cli *Config) (*Config, error) {
	cfg := NewConfig()

	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	if cli == nil {
		return cfg, nil
	}

	override := *cli
	override.RefKeywords = NormalizeKeywords(cli.RefKeywords)
	override.IDKeywords = NormalizeKeywords(cli.IDKeywords)

	merged := MergeConfigs(cfg, &override)
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return merged, nil
}
