// Package config handles warren.toml configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/roach88/warren/internal/engine"
)

// FileName is the configuration file looked up by FindAndLoad.
const FileName = "warren.toml"

// Config represents a warren.toml file.
type Config struct {
	Engine Engine `toml:"engine"`
	Store  Store  `toml:"store"`
	Output Output `toml:"output"`

	// Path is the file the config was loaded from; empty for defaults.
	Path string `toml:"-"`
}

// Engine configures the execution engine.
type Engine struct {
	MaxSteps int `toml:"max-steps"`
}

// Store configures the program database.
type Store struct {
	// Path is resolved relative to the config file. Empty disables the store.
	Path string `toml:"path"`
}

// Output configures CLI output.
type Output struct {
	Format string `toml:"format"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	return &Config{
		Engine: Engine{MaxSteps: engine.DefaultMaxSteps},
		Output: Output{Format: "text"},
	}
}

// Load parses the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	c := Default()
	md, err := toml.Decode(string(data), c)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}

	c.Path, err = filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", path, err)
	}
	if c.Store.Path != "" && !filepath.IsAbs(c.Store.Path) {
		c.Store.Path = filepath.Join(filepath.Dir(c.Path), c.Store.Path)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// FindAndLoad walks up from startDir to find a warren.toml file and loads
// it. Returns Default() if no file is found.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return Default(), nil
		}
		dir = parent
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Engine.MaxSteps < 0 {
		return fmt.Errorf("engine.max-steps must be non-negative, got %d", c.Engine.MaxSteps)
	}
	switch c.Output.Format {
	case "text", "json":
	default:
		return fmt.Errorf("output.format must be text or json, got %q", c.Output.Format)
	}
	return nil
}
