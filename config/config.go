// Package config loads the playground settings from defaults, an optional
// YAML file and SHADERPLAY_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = ".shaderplay.yml"

// Config corresponds to .shaderplay.yml.
type Config struct {
	Width  int `yaml:"width" koanf:"width"`
	Height int `yaml:"height" koanf:"height"`
	// Resolution is the render scale relative to the display, 0.5 or 1.
	Resolution float64 `yaml:"resolution" koanf:"resolution"`
	// EditMode shows the code editor on start.
	EditMode      bool `yaml:"edit_mode" koanf:"edit_mode"`
	RenderDelayMs int  `yaml:"render_delay_ms" koanf:"render_delay_ms"`
	// ShaderID names the source slot edits are persisted under.
	ShaderID   string `yaml:"shader_id" koanf:"shader_id"`
	ShaderFile string `yaml:"shader_file" koanf:"shader_file"`
	Watch      bool   `yaml:"watch" koanf:"watch"`
	// Namespace scopes stored keys; empty means the working directory.
	Namespace   string   `yaml:"namespace" koanf:"namespace"`
	StoragePath string   `yaml:"storage_path" koanf:"storage_path"`
	Ephemeral   bool     `yaml:"ephemeral" koanf:"ephemeral"`
	Keep        []string `yaml:"keep,omitempty" koanf:"keep"`
}

// DefaultConfig returns a Config with the playground defaults.
func DefaultConfig() *Config {
	return &Config{
		Width:         1280,
		Height:        720,
		Resolution:    0.5,
		EditMode:      false,
		RenderDelayMs: 1000,
		ShaderID:      "oggKrGW",
	}
}

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (SHADERPLAY_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// SHADERPLAY_RENDER_DELAY_MS -> render_delay_ms, etc.
	if err := k.Load(env.Provider("SHADERPLAY_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "SHADERPLAY_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("window size %dx%d must be positive", c.Width, c.Height)
	}
	if c.Resolution != 0.5 && c.Resolution != 1 {
		return fmt.Errorf("invalid resolution %v: must be 0.5 or 1", c.Resolution)
	}
	if c.RenderDelayMs < 0 {
		return fmt.Errorf("render_delay_ms must be non-negative")
	}
	if c.ShaderID == "" {
		return fmt.Errorf("shader_id is required")
	}
	if c.Watch && c.ShaderFile == "" {
		return fmt.Errorf("watch requires shader_file")
	}
	return nil
}

// ResolveNamespace returns the configured namespace or the absolute working
// directory.
func (c *Config) ResolveNamespace() (string, error) {
	if c.Namespace != "" {
		return c.Namespace, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("resolving namespace: %w", err)
	}
	return filepath.Abs(wd)
}

// ResolveStoragePath returns the configured database path or the default
// under the user cache directory.
func (c *Config) ResolveStoragePath() (string, error) {
	if c.StoragePath != "" {
		return c.StoragePath, nil
	}
	dir, err := getCacheDir("shaderplay")
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "store.db"), nil
}

// getCacheDir returns the platform cache directory joined with subdir.
func getCacheDir(subdir string) (string, error) {
	var baseCacheDir string
	var err error

	switch runtime.GOOS {
	case "windows":
		baseCacheDir = os.Getenv("LOCALAPPDATA")
		if baseCacheDir == "" {
			err = fmt.Errorf("LOCALAPPDATA environment variable not set")
		}
	case "darwin":
		homeDir := os.Getenv("HOME")
		if homeDir == "" {
			err = fmt.Errorf("HOME environment variable not set")
		} else {
			baseCacheDir = filepath.Join(homeDir, "Library", "Caches")
		}
	default: // linux, bsd, etc.
		baseCacheDir = os.Getenv("XDG_CACHE_HOME")
		if baseCacheDir == "" {
			homeDir := os.Getenv("HOME")
			if homeDir == "" {
				err = fmt.Errorf("HOME environment variable not set")
			} else {
				baseCacheDir = filepath.Join(homeDir, ".cache")
			}
		}
	}
	if err != nil {
		return "", err
	}
	return filepath.Join(baseCacheDir, subdir), nil
}
