// Package config loads the optional busqueda configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/jparise/busqueda/internal/category"
	"gopkg.in/yaml.v3"
)

// MaxLimit is the largest result ceiling a search accepts.
const MaxLimit = 1000

// Config holds user defaults. Command-line flags take precedence.
type Config struct {
	// Limit is the default maximum number of files copied per search.
	Limit int `yaml:"limit"`

	// Category is the default file-type filter name.
	Category string `yaml:"category"`

	// OutputDir replaces the desktop as the parent of result directories.
	OutputDir string `yaml:"output_dir"`

	// ExcludeDirs adds directory names to the built-in exclusion list.
	ExcludeDirs []string `yaml:"exclude_dirs"`

	// ExcludePatterns are glob patterns matched against directory names.
	ExcludePatterns []string `yaml:"exclude_patterns"`

	// Roots replaces the platform's default search roots when non-empty.
	Roots []string `yaml:"roots"`

	// Open shows the result directory in the file browser when a search ends.
	Open bool `yaml:"open"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Limit:    20,
		Category: category.All.String(),
		Open:     true,
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/busqueda/config.yaml or the
// platform equivalent.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "busqueda", "config.yaml")
}

// Load reads the configuration at path. A missing file yields the defaults;
// a malformed or invalid one is an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	cfg.OutputDir = expandHome(cfg.OutputDir)
	for i, root := range cfg.Roots {
		cfg.Roots[i] = expandHome(root)
	}

	return cfg, nil
}

// Validate checks value ranges and names.
func (c *Config) Validate() error {
	if c.Limit < 1 || c.Limit > MaxLimit {
		return fmt.Errorf("limit must be between 1 and %d, got %d", MaxLimit, c.Limit)
	}
	if _, err := category.Parse(c.Category); err != nil {
		return err
	}
	for _, pattern := range c.ExcludePatterns {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}
	return nil
}

// CategoryFilter returns the parsed default category.
func (c *Config) CategoryFilter() category.Category {
	cat, err := category.Parse(c.Category)
	if err != nil {
		return category.All
	}
	return cat
}

func expandHome(path string) string {
	if path != "~" && !hasHomePrefix(path) {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

func hasHomePrefix(path string) bool {
	return len(path) > 1 && path[0] == '~' && (path[1] == '/' || path[1] == filepath.Separator)
}
