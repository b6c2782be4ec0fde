// Package config loads the kaleido CLI settings from a TOML file.
//
// Settings only affect how results are reported. Lexing and parsing are a
// pure function of the input text.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

// EnvVar names the environment variable holding the config file path.
const EnvVar = "KALEIDO_CONFIG"

var (
	LogLevels     = []string{"debug", "info", "warn", "error"}
	LogFormats    = []string{"text", "json"}
	OutputFormats = []string{"tree", "source", "spew"}
	ColorModes    = []string{"auto", "always", "never"}
)

// Config holds the complete CLI configuration
type Config struct {
	Log    LogConfig    `toml:"log"`
	Output OutputConfig `toml:"output"`
	Check  CheckConfig  `toml:"check"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	// File, if set, receives a copy of every record as JSON.
	File string `toml:"file"`
}

// OutputConfig holds settings for rendering tokens and trees
type OutputConfig struct {
	Format string `toml:"format"`
	Color  string `toml:"color"`
	Tokens bool   `toml:"tokens"`
}

// CheckConfig controls the semantic pass run after parsing
type CheckConfig struct {
	Enabled bool `toml:"enabled"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{
		Output: OutputConfig{Tokens: true},
	}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "warn"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Output.Format == "" {
		c.Output.Format = "tree"
	}
	if c.Output.Color == "" {
		c.Output.Color = "auto"
	}
}

// Validate rejects unknown enumeration values.
func (c *Config) Validate() error {
	checks := []struct {
		key     string
		value   string
		allowed []string
	}{
		{"log.level", c.Log.Level, LogLevels},
		{"log.format", c.Log.Format, LogFormats},
		{"output.format", c.Output.Format, OutputFormats},
		{"output.color", c.Output.Color, ColorModes},
	}
	for _, check := range checks {
		if !slices.Contains(check.allowed, check.value) {
			return fmt.Errorf("invalid %s %q: must be one of %s",
				check.key, check.value, strings.Join(check.allowed, ", "))
		}
	}
	return nil
}

// Load loads configuration from a TOML file
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		return nil, fmt.Errorf("unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// LoadFromEnv loads the file named by KALEIDO_CONFIG, or the first file
// found in the default locations. Without either it returns Default().
func LoadFromEnv() (*Config, error) {
	if path := os.Getenv(EnvVar); path != "" {
		return Load(path)
	}
	for _, path := range defaultPaths() {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return Default(), nil
}

func defaultPaths() []string {
	paths := []string{"./kaleido.toml"}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "kaleido", "config.toml"))
	}
	return paths
}
