// Package config loads the YAML configuration shared by the CLI and daemon.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/khengari77/RandomFusion/avalanche"
	"github.com/khengari77/RandomFusion/gallery"
	"github.com/khengari77/RandomFusion/params"
	"github.com/khengari77/RandomFusion/render"
)

// Config holds defaults for rendering and persistence. Command-line flags
// take precedence over every field.
type Config struct {
	Style  string `yaml:"style"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Hash   string `yaml:"hash"`

	// StoreDir is the local gallery. Empty disables storing.
	StoreDir string `yaml:"store_dir,omitempty"`
	// MirrorDirs receive a copy of everything written to StoreDir.
	MirrorDirs []string `yaml:"mirror_dirs,omitempty"`
	// SharedDirs are read-only galleries consulted after StoreDir.
	SharedDirs []string `yaml:"shared_dirs,omitempty"`

	Verbose bool `yaml:"verbose"`

	// Overrides holds per-style parameter overrides, keyed by style tag.
	Overrides map[string]params.Overrides `yaml:"overrides,omitempty"`

	Daemon DaemonConfig `yaml:"daemon"`
}

type DaemonConfig struct {
	Listen      string `yaml:"listen"`
	MaxMsgBytes int    `yaml:"max_msg_bytes,omitempty"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Style:  string(params.StyleColorBlocks),
		Width:  512,
		Height: 512,
		Hash:   string(avalanche.DefaultHash),
		Daemon: DaemonConfig{Listen: "127.0.0.1:7878"},
	}
}

// DefaultPath returns $HOME/.randomfusion/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".randomfusion", "config.yaml"), nil
}

// Load reads path over the defaults. A missing file is an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

// LoadDefault loads DefaultPath, falling back to the defaults when the file
// does not exist.
func LoadDefault() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		return cfg, nil
	}
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg = DefaultConfig()
		cfg.applyEnvOverrides()
		return cfg, nil
	}
	return cfg, err
}

// Save writes c to path, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// RANDOMFUSION_STORE_DIR and RANDOMFUSION_HASH replace the file values.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("RANDOMFUSION_STORE_DIR"); v != "" {
		c.StoreDir = v
	}
	if v := os.Getenv("RANDOMFUSION_HASH"); v != "" {
		c.Hash = v
	}
}

// Validate checks every field against the domains the pipeline accepts.
// Errors from the pipeline packages are wrapped, so their kinds survive.
func (c *Config) Validate() error {
	if _, err := params.ParseStyle(c.Style); err != nil {
		return fmt.Errorf("config: style: %w", err)
	}
	if err := render.CheckDimensions(c.Width, c.Height); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := avalanche.ParseHash(c.Hash); err != nil {
		return fmt.Errorf("config: hash: %w", err)
	}

	styles := make([]string, 0, len(c.Overrides))
	for s := range c.Overrides {
		styles = append(styles, s)
	}
	sort.Strings(styles)
	for _, s := range styles {
		style, err := params.ParseStyle(s)
		if err != nil {
			return fmt.Errorf("config: overrides: %w", err)
		}
		if err := params.CheckOverrides(style, c.Overrides[s]); err != nil {
			return fmt.Errorf("config: overrides.%s: %w", s, err)
		}
	}
	return nil
}

// OverridesFor returns the configured overrides for style, or nil.
func (c *Config) OverridesFor(style params.Style) params.Overrides {
	for s, ov := range c.Overrides {
		if parsed, err := params.ParseStyle(s); err == nil && parsed == style {
			return ov
		}
	}
	return nil
}

// GalleryDirs returns the directories backing the configured gallery.
func (c *Config) GalleryDirs() gallery.Dirs {
	return gallery.Dirs{Store: c.StoreDir, Mirrors: c.MirrorDirs, Shared: c.SharedDirs}
}
